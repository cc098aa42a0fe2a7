package model

import "time"

// Tag represents a row in the `tags` table.  Tags are shared topic
// labels: a tag is created lazily the first time a question uses
// its name and is referenced by any number of questions through the
// `question_tags` join table.
//
// Fields:
//  ID   – primary key identifier of the tag.
//  Name – unique tag name.
type Tag struct {
    ID   uint64 // tags.id
    Name string // tags.name
}

// Question represents a row in the `questions` table.  A question
// belongs to one author and carries a set of tags.  IsSolved flips
// to true when the author accepts an answer and never reverts.
//
// Fields:
//  ID          – primary key identifier.
//  AuthorID    – user who asked the question.
//  Title       – short summary of the question.
//  Description – full question body.
//  IsSolved    – whether an answer has been accepted.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Question struct {
    ID          uint64    // questions.id
    AuthorID    uint64    // questions.author_id
    Title       string    // questions.title
    Description string    // questions.description
    IsSolved    bool      // questions.is_solved
    CreatedAt   time.Time // questions.created_at
    UpdatedAt   time.Time // questions.updated_at
}
