package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTokenRepo(db), mock
}

func expectTokenRow(mock sqlmock.Sqlmock, hash string, userID uint64, expiresAt time.Time, revokedAt interface{}) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1")).
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(userID, expiresAt, revokedAt))
}

func TestValidateRefreshAcceptsLiveToken(t *testing.T) {
	repo, mock := newTokenRepo(t)

	expectTokenRow(mock, "h1", 5, time.Now().UTC().Add(time.Hour), nil)

	userID, err := repo.ValidateRefresh(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), userID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshRejectsRevokedToken(t *testing.T) {
	repo, mock := newTokenRepo(t)

	expectTokenRow(mock, "h1", 5, time.Now().UTC().Add(time.Hour), time.Now().UTC())

	_, err := repo.ValidateRefresh(context.Background(), "h1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateRefreshRejectsExpiredToken(t *testing.T) {
	repo, mock := newTokenRepo(t)

	expectTokenRow(mock, "h1", 5, time.Now().UTC().Add(-time.Minute), nil)

	_, err := repo.ValidateRefresh(context.Background(), "h1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRevokeAllForUser(t *testing.T) {
	repo, mock := newTokenRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RevokeAllForUser(context.Background(), 5))
	require.NoError(t, mock.ExpectationsWereMet())
}
