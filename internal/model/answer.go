package model

import "time"

// Answer represents a row in the `answers` table.  An answer is
// owned by its parent question (deleting the question removes its
// answers) and by exactly one author.  Up and down votes live in
// the `answer_upvotes` and `answer_downvotes` join tables keyed by
// (answer_id, user_id); a voter appears in at most one of the two.
//
// Fields:
//  ID          – primary key identifier.
//  QuestionID  – parent question.
//  AuthorID    – user who wrote the answer.
//  Description – answer body; scanned for @username mentions.
//  IsAccepted  – whether the question author accepted this answer.
//                At most one answer per question carries the flag.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Answer struct {
    ID          uint64    // answers.id
    QuestionID  uint64    // answers.question_id
    AuthorID    uint64    // answers.author_id
    Description string    // answers.description
    IsAccepted  bool      // answers.is_accepted
    CreatedAt   time.Time // answers.created_at
    UpdatedAt   time.Time // answers.updated_at
}
