// Package repository contains data access logic for Question domain
// operations. This file defines repository methods for questions: a
// question belongs to one author and carries a set of shared tags
// through the question_tags join table. Deleting a question removes
// its answers and their vote rows.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/qa-forum/internal/model"
)

// QuestionDetail is the shape returned to handlers: the question row
// together with its tag names and the number of answers it has
// received. Tags are plain names; handlers serialize them directly.
type QuestionDetail struct {
	Question    model.Question
	Tags        []string
	AnswerCount int
}

// QuestionUpdate carries the optional fields of a partial update.
// A nil field means "leave unchanged"; a present Tags slice replaces
// the question's whole tag set (an empty slice clears it).
type QuestionUpdate struct {
	Title       *string
	Description *string
	Tags        *[]string
}

// QuestionRepo manages persistence for questions and their tag links.
type QuestionRepo struct {
	db   *sql.DB
	tags *TagRepo
}

// NewQuestionRepo constructs a QuestionRepo. The TagRepo is used to
// resolve tag names inside question transactions.
func NewQuestionRepo(db *sql.DB, tags *TagRepo) *QuestionRepo {
	return &QuestionRepo{db: db, tags: tags}
}

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *QuestionRepo) DB() *sql.DB {
	return r.db
}

// selectDetail is the single-row shape shared by Get and List: the
// question columns plus a comma-joined tag list and an answer count.
const selectDetail = `SELECT q.id, q.author_id, q.title, q.description, q.is_solved, q.created_at, q.updated_at,
       COALESCE((SELECT GROUP_CONCAT(t.name) FROM tags t JOIN question_tags qt ON qt.tag_id = t.id WHERE qt.question_id = q.id), '') AS tag_csv,
       (SELECT COUNT(*) FROM answers a WHERE a.question_id = q.id) AS answer_count
FROM questions q`

func scanDetail(scan func(dest ...interface{}) error) (QuestionDetail, error) {
	var d QuestionDetail
	var csv string
	err := scan(&d.Question.ID, &d.Question.AuthorID, &d.Question.Title, &d.Question.Description,
		&d.Question.IsSolved, &d.Question.CreatedAt, &d.Question.UpdatedAt, &csv, &d.AnswerCount)
	if err != nil {
		return QuestionDetail{}, err
	}
	d.Tags = []string{}
	if csv != "" {
		d.Tags = strings.Split(csv, ",")
	}
	return d, nil
}

// normalizeTagNames trims and deduplicates the requested tag names,
// preserving first-seen order. Empty names are dropped.
func normalizeTagNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// linkTagsTx resolves each tag name and links it to the question.
// Runs inside the caller's transaction.
func (r *QuestionRepo) linkTagsTx(ctx context.Context, tx *sql.Tx, questionID uint64, names []string) error {
	for _, name := range names {
		tagID, err := r.tags.ResolveOrCreateTx(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT IGNORE INTO question_tags (question_id, tag_id) VALUES (?,?)",
			questionID, tagID); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts a question with its tag associations in one
// transaction and returns the stored detail. Tags are resolved
// get-or-create by name; is_solved starts false via the DB default.
func (r *QuestionRepo) Create(ctx context.Context, authorID uint64, title, description string, tagNames []string) (*QuestionDetail, error) {
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
	res, err := tx.ExecContext(ctx,
		"INSERT INTO questions (author_id, title, description) VALUES (?,?,?)",
		authorID, title, description)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := r.linkTagsTx(ctx, tx, uint64(id), normalizeTagNames(tagNames)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return r.GetByID(ctx, uint64(id))
}

// GetByID retrieves a question with its tags and answer count. It
// returns ErrQuestionNotFound when there is no matching row.
func (r *QuestionRepo) GetByID(ctx context.Context, id uint64) (*QuestionDetail, error) {
	row := r.db.QueryRowContext(ctx, selectDetail+" WHERE q.id = ?", id)
	d, err := scanDetail(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all questions ordered by creation time descending.
// When filterTag is non-empty only questions carrying that tag are
// returned; the match is case-insensitive but otherwise exact.
func (r *QuestionRepo) List(ctx context.Context, filterTag string) ([]QuestionDetail, error) {
	q := selectDetail
	var args []interface{}
	if filterTag != "" {
		q += ` JOIN question_tags fqt ON fqt.question_id = q.id
               JOIN tags ft ON ft.id = fqt.tag_id AND LOWER(ft.name) = LOWER(?)`
		args = append(args, filterTag)
	}
	q += " ORDER BY q.created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []QuestionDetail{}
	for rows.Next() {
		d, err := scanDetail(rows.Scan)
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

// UpdateByID applies a partial update to a question. Absent fields
// are left untouched via COALESCE; a present tag list replaces the
// existing associations. ErrQuestionNotFound is returned when the
// question does not exist; ErrNoChange when no field was supplied.
func (r *QuestionRepo) UpdateByID(ctx context.Context, id uint64, upd QuestionUpdate) error {
	if upd.Title == nil && upd.Description == nil && upd.Tags == nil {
		return ErrNoChange
	}
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
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM questions WHERE id = ? LIMIT 1", id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrQuestionNotFound
		}
		return err
	}
	if upd.Title != nil || upd.Description != nil {
		const q = `UPDATE questions
                   SET title = COALESCE(?, title), description = COALESCE(?, description), updated_at = CURRENT_TIMESTAMP
                   WHERE id = ?`
		if _, err := tx.ExecContext(ctx, q, upd.Title, upd.Description, id); err != nil {
			return err
		}
	}
	if upd.Tags != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM question_tags WHERE question_id = ?", id); err != nil {
			return err
		}
		if err := r.linkTagsTx(ctx, tx, id, normalizeTagNames(*upd.Tags)); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeleteByID removes a question and all of its dependent records in
// one transaction: vote rows of its answers, the answers themselves
// and the tag links. The schema's ON DELETE CASCADE would cover the
// dependents; the explicit deletes keep the operation valid under a
// schema without cascades as well. Returns ErrQuestionNotFound when
// the question does not exist.
func (r *QuestionRepo) DeleteByID(ctx context.Context, id uint64) error {
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
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM questions WHERE id = ? LIMIT 1", id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrQuestionNotFound
		}
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM answer_upvotes WHERE answer_id IN (SELECT id FROM answers WHERE question_id = ?)", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM answer_downvotes WHERE answer_id IN (SELECT id FROM answers WHERE question_id = ?)", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM answers WHERE question_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM question_tags WHERE question_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
