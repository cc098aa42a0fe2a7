// Package repository contains data access logic for the tag registry.
// Tags are deduplicated topic labels shared across questions. A tag
// row is created lazily the first time a question is tagged with its
// name; repeated resolution of the same name always yields the same
// row thanks to the unique index on tags.name.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// TagRepo manages persistence for tags.
type TagRepo struct {
	db *sql.DB
}

// NewTagRepo constructs a TagRepo with the given DB handle.
func NewTagRepo(db *sql.DB) *TagRepo {
	return &TagRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *TagRepo) DB() *sql.DB {
	return r.db
}

// ResolveOrCreateTx returns the ID of the tag with the given name,
// creating the row when absent. Lookup is by exact (case-sensitive)
// name. The method is safe against concurrent creation: when the
// INSERT loses a duplicate-key race (MySQL error 1062) the winner's
// row is re-selected. Runs inside the caller's transaction so that
// question creation remains atomic.
func (r *TagRepo) ResolveOrCreateTx(ctx context.Context, tx *sql.Tx, name string) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name=? LIMIT 1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, "INSERT INTO tags (name) VALUES (?)", name)
	if err != nil {
		// Lost a race against a concurrent insert of the same name.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			if err := tx.QueryRowContext(ctx, "SELECT id FROM tags WHERE name=? LIMIT 1", name).Scan(&id); err != nil {
				return 0, err
			}
			return id, nil
		}
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// ListNames returns all known tag names. No ordering is guaranteed.
func (r *TagRepo) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM tags")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
