package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/qa-forum/internal/repository"
)

func newNotificationHandler(t *testing.T) (*NotificationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewNotificationHandler(repository.NewNotificationRepo(db)), mock
}

func TestListMineRequiresAuth(t *testing.T) {
	h, mock := newNotificationHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ListMine(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListMineReturnsNewestFirst(t *testing.T) {
	h, mock := newNotificationHandler(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, recipient_id, message, created_at FROM notifications WHERE recipient_id = ? ORDER BY created_at DESC")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipient_id", "message", "created_at"}).
			AddRow(22, 5, "bob mentioned you in an answer.", now).
			AddRow(21, 5, "bob answered your question: 'old one'", now.Add(-time.Hour)))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(5))
	require.NoError(t, h.ListMine(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []notificationResp `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, uint64(22), resp.Items[0].ID)
	assert.Equal(t, "bob mentioned you in an answer.", resp.Items[0].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}
