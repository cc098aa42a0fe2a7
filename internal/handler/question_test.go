package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/qa-forum/internal/repository"
)

func newQuestionHandler(t *testing.T) (*QuestionHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	tags := repository.NewTagRepo(db)
	return NewQuestionHandler(repository.NewQuestionRepo(db, tags), tags), mock
}

func TestCreateQuestionRequiresAuth(t *testing.T) {
	h, mock := newQuestionHandler(t)

	c, rec := newCtx(t, http.MethodPost, `{"title":"t","description":"d"}`, "0", 0, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuestionRequiresTitleAndDescription(t *testing.T) {
	h, mock := newQuestionHandler(t)

	c, rec := newCtx(t, http.MethodPost, `{"title":"  ","description":"d"}`, "0", 9, "bob")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuestionWithTags(t *testing.T) {
	h, mock := newQuestionHandler(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions (author_id, title, description) VALUES (?,?,?)")).
		WithArgs(uint64(9), "How to test SQL?", "with mocks").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM tags WHERE name=? LIMIT 1")).
		WithArgs("testing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT IGNORE INTO question_tags")).
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT q\.id, q\.author_id, .* FROM questions q WHERE q\.id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "author_id", "title", "description", "is_solved", "created_at", "updated_at", "tag_csv", "answer_count"}).
			AddRow(7, 9, "How to test SQL?", "with mocks", false, now, now, "testing", 0))

	body := `{"title":"How to test SQL?","description":"with mocks","tags":["testing"]}`
	c, rec := newCtx(t, http.MethodPost, body, "0", 9, "bob")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp questionResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(7), resp.ID)
	assert.Equal(t, []string{"testing"}, resp.Tags)
	assert.False(t, resp.IsSolved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListQuestionsPassesTagFilter(t *testing.T) {
	h, mock := newQuestionHandler(t)

	mock.ExpectQuery(`LOWER\(ft\.name\) = LOWER\(\?\)`).
		WithArgs("python").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "author_id", "title", "description", "is_solved", "created_at", "updated_at", "tag_csv", "answer_count"}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/questions?tag=python", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"items":[]`))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetQuestionNotFound(t *testing.T) {
	h, mock := newQuestionHandler(t)

	mock.ExpectQuery(`SELECT q\.id, q\.author_id, .* FROM questions q WHERE q\.id = \?`).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "author_id", "title", "description", "is_solved", "created_at", "updated_at", "tag_csv", "answer_count"}))

	c, rec := newCtx(t, http.MethodGet, "", "404", 0, "")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateQuestionWithoutFieldsIs400(t *testing.T) {
	h, mock := newQuestionHandler(t)

	c, rec := newCtx(t, http.MethodPatch, `{}`, "7", 9, "bob")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteQuestionNotFound(t *testing.T) {
	h, mock := newQuestionHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM questions WHERE id = ? LIMIT 1")).
		WithArgs(uint64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	c, rec := newCtx(t, http.MethodDelete, "", "404", 9, "bob")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTags(t *testing.T) {
	h, mock := newQuestionHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM tags")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("python").AddRow("golang"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/tags", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h.ListTags(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []string `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"python", "golang"}, resp.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}
