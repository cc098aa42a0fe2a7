// Package repository contains data access logic for Answer domain
// operations. Answers hang off a question and accumulate per-user
// up and down votes in two join tables. The voting and acceptance
// mutations below are the contended paths of the system: each runs
// as a single transaction so the storage engine serializes racing
// requests, and a voter can never end up in both vote sets.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/qa-forum/internal/model"
)

// AnswerDetail is the answer row together with its derived vote
// score (upvote count minus downvote count, possibly negative).
type AnswerDetail struct {
	Answer    model.Answer
	VoteScore int
}

// AnswerRepo manages persistence for answers and their vote sets.
type AnswerRepo struct {
	db *sql.DB
}

// NewAnswerRepo constructs an AnswerRepo with the given DB handle.
func NewAnswerRepo(db *sql.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *AnswerRepo) DB() *sql.DB {
	return r.db
}

const selectAnswer = `SELECT a.id, a.question_id, a.author_id, a.description, a.is_accepted, a.created_at, a.updated_at,
       (SELECT COUNT(*) FROM answer_upvotes u WHERE u.answer_id = a.id) -
       (SELECT COUNT(*) FROM answer_downvotes d WHERE d.answer_id = a.id) AS vote_score
FROM answers a`

func scanAnswer(scan func(dest ...interface{}) error) (AnswerDetail, error) {
	var d AnswerDetail
	err := scan(&d.Answer.ID, &d.Answer.QuestionID, &d.Answer.AuthorID, &d.Answer.Description,
		&d.Answer.IsAccepted, &d.Answer.CreatedAt, &d.Answer.UpdatedAt, &d.VoteScore)
	if err != nil {
		return AnswerDetail{}, err
	}
	return d, nil
}

// Create inserts an answer under the given question and returns the
// stored detail. ErrQuestionNotFound is returned when the question
// does not exist; the existence check and the insert rely on the FK
// for the race window in between.
func (r *AnswerRepo) Create(ctx context.Context, questionID, authorID uint64, description string) (*AnswerDetail, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM questions WHERE id = ? LIMIT 1", questionID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO answers (question_id, author_id, description) VALUES (?,?,?)",
		questionID, authorID, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID retrieves an answer with its vote score. It returns
// ErrAnswerNotFound if there is no matching row.
func (r *AnswerRepo) GetByID(ctx context.Context, id uint64) (*AnswerDetail, error) {
	row := r.db.QueryRowContext(ctx, selectAnswer+" WHERE a.id = ?", id)
	d, err := scanAnswer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByQuestion returns the answers of a question, oldest first.
// When the question has no answers it returns an empty slice.
func (r *AnswerRepo) ListByQuestion(ctx context.Context, questionID uint64) ([]AnswerDetail, error) {
	rows, err := r.db.QueryContext(ctx, selectAnswer+" WHERE a.question_id = ? ORDER BY a.created_at ASC", questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []AnswerDetail{}
	for rows.Next() {
		d, err := scanAnswer(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateDescription replaces the body of an answer. It returns
// ErrAnswerNotFound when the answer does not exist.
func (r *AnswerRepo) UpdateDescription(ctx context.Context, id uint64, description string) error {
	var one int
	if err := r.db.QueryRowContext(ctx, "SELECT 1 FROM answers WHERE id = ? LIMIT 1", id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAnswerNotFound
		}
		return err
	}
	_, err := r.db.ExecContext(ctx,
		"UPDATE answers SET description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		description, id)
	return err
}

// DeleteByID removes an answer together with its vote rows in one
// transaction. Returns ErrAnswerNotFound when the answer is absent.
func (r *AnswerRepo) DeleteByID(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var one int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM answers WHERE id = ? LIMIT 1", id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAnswerNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM answer_upvotes WHERE answer_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM answer_downvotes WHERE answer_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM answers WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// voteScoreTx computes |upvotes| - |downvotes| inside the caller's
// transaction so the returned score reflects the mutation just made.
func voteScoreTx(ctx context.Context, tx *sql.Tx, answerID uint64) (int, error) {
	const q = `SELECT (SELECT COUNT(*) FROM answer_upvotes WHERE answer_id = ?) -
                      (SELECT COUNT(*) FROM answer_downvotes WHERE answer_id = ?)`
	var score int
	err := tx.QueryRowContext(ctx, q, answerID, answerID).Scan(&score)
	return score, err
}

// vote applies a vote mutation: remove the voter from the opposite
// set, then add them to the target set. Removing first guarantees a
// voter is never in both sets; INSERT IGNORE makes repeat votes
// idempotent. The whole mutation plus the score read is one
// transaction. Returns the updated vote score.
func (r *AnswerRepo) vote(ctx context.Context, answerID, voterID uint64, removeFrom, addTo string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var one int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM answers WHERE id = ? LIMIT 1", answerID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAnswerNotFound
		}
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM "+removeFrom+" WHERE answer_id = ? AND user_id = ?", answerID, voterID); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT IGNORE INTO "+addTo+" (answer_id, user_id) VALUES (?,?)", answerID, voterID); err != nil {
		return 0, err
	}
	score, err := voteScoreTx(ctx, tx, answerID)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return score, nil
}

// Upvote records an upvote by the given user and returns the new
// vote score. A previous downvote by the same user is removed.
func (r *AnswerRepo) Upvote(ctx context.Context, answerID, voterID uint64) (int, error) {
	return r.vote(ctx, answerID, voterID, "answer_downvotes", "answer_upvotes")
}

// Downvote records a downvote by the given user and returns the new
// vote score. A previous upvote by the same user is removed.
func (r *AnswerRepo) Downvote(ctx context.Context, answerID, voterID uint64) (int, error) {
	return r.vote(ctx, answerID, voterID, "answer_upvotes", "answer_downvotes")
}

// Accept marks an answer as the accepted one for its question. Only
// the question's author may accept; ErrForbidden is returned for
// anyone else and ErrAnswerNotFound when the answer is absent. In a
// single transaction the accepted flag is cleared on every sibling
// answer, set on the target and the question is marked solved. The
// solved flag is never reset: re-accepting a different answer only
// moves the mark.
func (r *AnswerRepo) Accept(ctx context.Context, answerID, requesterID uint64) (*AnswerDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var questionID, questionAuthorID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT a.question_id, q.author_id FROM answers a JOIN questions q ON q.id = a.question_id WHERE a.id = ?`,
		answerID).Scan(&questionID, &questionAuthorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnswerNotFound
		}
		return nil, err
	}
	if requesterID != questionAuthorID {
		return nil, ErrForbidden
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE answers SET is_accepted = 0, updated_at = CURRENT_TIMESTAMP WHERE question_id = ? AND is_accepted = 1",
		questionID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE answers SET is_accepted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		answerID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE questions SET is_solved = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		questionID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.GetByID(ctx, answerID)
}
