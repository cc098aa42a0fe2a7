package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-forum/internal/repository"
)

// QuestionHandler serves the question CRUD endpoints and the tag
// listing. Reads are public; writes sit behind the JWT middleware.
type QuestionHandler struct {
	Questions *repository.QuestionRepo
	Tags      *repository.TagRepo
}

// NewQuestionHandler constructs a QuestionHandler and panics if any
// dependency is nil.
func NewQuestionHandler(questions *repository.QuestionRepo, tags *repository.TagRepo) *QuestionHandler {
	if questions == nil || tags == nil {
		panic("nil repository passed to NewQuestionHandler")
	}
	return &QuestionHandler{Questions: questions, Tags: tags}
}

type createQuestionReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type updateQuestionReq struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

// Create handles POST /v1/questions. Title and description are
// required; tag names are resolved get-or-create and attached.
func (h *QuestionHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createQuestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description are required"})
	}
	detail, err := h.Questions.Create(c.Request().Context(), userID, req.Title, req.Description, req.Tags)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create question"})
	}
	return c.JSON(http.StatusCreated, toQuestionResp(*detail))
}

// List handles GET /v1/questions. Questions come back newest first;
// the optional ?tag= query restricts to questions carrying that tag
// (case-insensitive exact match).
func (h *QuestionHandler) List(c echo.Context) error {
	filterTag := strings.TrimSpace(c.QueryParam("tag"))
	details, err := h.Questions.List(c.Request().Context(), filterTag)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load questions"})
	}
	items := make([]questionResp, 0, len(details))
	for _, d := range details {
		items = append(items, toQuestionResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/questions/:id.
func (h *QuestionHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}
	detail, err := h.Questions.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load question"})
	}
	return c.JSON(http.StatusOK, toQuestionResp(*detail))
}

// Update handles PUT and PATCH /v1/questions/:id. All fields are
// optional; absent fields stay untouched and a present tag list
// replaces the existing tag set.
func (h *QuestionHandler) Update(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}
	var req updateQuestionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	upd := repository.QuestionUpdate{Title: req.Title, Description: req.Description, Tags: req.Tags}
	err := h.Questions.UpdateByID(c.Request().Context(), id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrQuestionNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		case errors.Is(err, repository.ErrNoChange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update question"})
	}
	detail, err := h.Questions.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load question"})
	}
	return c.JSON(http.StatusOK, toQuestionResp(*detail))
}

// Delete handles DELETE /v1/questions/:id. Answers and their vote
// rows go with the question.
func (h *QuestionHandler) Delete(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}
	if err := h.Questions.DeleteByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete question"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTags handles GET /v1/tags. Returns all known tag names.
func (h *QuestionHandler) ListTags(c echo.Context) error {
	names, err := h.Tags.ListNames(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tags"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": names})
}
