package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTagRepo(t *testing.T) (*TagRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTagRepo(db), mock
}

func TestResolveOrCreateTxReturnsExistingTag(t *testing.T) {
	repo, mock := newTagRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tags WHERE name=? LIMIT 1")).
		WithArgs("python").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	id, err := repo.ResolveOrCreateTx(context.Background(), tx, "python")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreateTxCreatesMissingTag(t *testing.T) {
	repo, mock := newTagRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tags WHERE name=? LIMIT 1")).
		WithArgs("golang").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tags (name) VALUES (?)")).
		WithArgs("golang").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	id, err := repo.ResolveOrCreateTx(context.Background(), tx, "golang")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOrCreateTxSurvivesDuplicateKeyRace(t *testing.T) {
	repo, mock := newTagRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tags WHERE name=? LIMIT 1")).
		WithArgs("golang").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// A concurrent transaction inserted the same name first.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tags (name) VALUES (?)")).
		WithArgs("golang").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'golang' for key 'tags.name'"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tags WHERE name=? LIMIT 1")).
		WithArgs("golang").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	tx, err := repo.DB().Begin()
	require.NoError(t, err)
	id, err := repo.ResolveOrCreateTx(context.Background(), tx, "golang")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), id)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListNames(t *testing.T) {
	repo, mock := newTagRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM tags")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("python").AddRow("golang"))

	names, err := repo.ListNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"python", "golang"}, names)
	require.NoError(t, mock.ExpectationsWereMet())
}
