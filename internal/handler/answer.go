package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-forum/internal/model"
	"github.com/iliyamo/qa-forum/internal/notify"
	"github.com/iliyamo/qa-forum/internal/repository"
)

// AnswerHandler serves answer CRUD, voting and acceptance. Voting and
// acceptance are the contended mutations of the system; both are
// delegated to single-transaction repository methods so concurrent
// requests against the same answer serialize at the storage layer.
type AnswerHandler struct {
	Answers   *repository.AnswerRepo
	Questions *repository.QuestionRepo
	Users     *repository.UserRepo
	Notifier  *notify.Notifier
}

// NewAnswerHandler constructs an AnswerHandler and panics if any
// dependency is nil.
func NewAnswerHandler(answers *repository.AnswerRepo, questions *repository.QuestionRepo, users *repository.UserRepo, notifier *notify.Notifier) *AnswerHandler {
	if answers == nil || questions == nil || users == nil || notifier == nil {
		panic("nil dependency passed to NewAnswerHandler")
	}
	return &AnswerHandler{Answers: answers, Questions: questions, Users: users, Notifier: notifier}
}

type answerBodyReq struct {
	Description string `json:"description"`
}

// Create handles POST /v1/questions/:id/answers. After the answer is
// stored the notification step runs: the question author is notified
// of the reply and @mentions in the body are resolved and notified.
// That step is best-effort; its failure never undoes the answer.
func (h *AnswerHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}
	var req answerBodyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
	}
	ctx := c.Request().Context()
	question, err := h.Questions.GetByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load question"})
	}
	detail, err := h.Answers.Create(ctx, questionID, userID, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create answer"})
	}
	author := model.User{ID: userID, Username: getUsername(c)}
	if author.Username == "" {
		// Tokens issued before the username claim existed; fall back
		// to a lookup so notification messages stay well-formed.
		if u, err := h.Users.GetByID(ctx, userID); err == nil {
			author = u
		}
	}
	h.Notifier.AnswerCreated(ctx, question.Question, detail.Answer, author)
	return c.JSON(http.StatusCreated, toAnswerResp(*detail))
}

// ListForQuestion handles GET /v1/questions/:id/answers, oldest first.
func (h *AnswerHandler) ListForQuestion(c echo.Context) error {
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid question id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Questions.GetByID(ctx, questionID); err != nil {
		if errors.Is(err, repository.ErrQuestionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load question"})
	}
	details, err := h.Answers.ListByQuestion(ctx, questionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load answers"})
	}
	items := make([]answerResp, 0, len(details))
	for _, d := range details {
		items = append(items, toAnswerResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/answers/:id.
func (h *AnswerHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid answer id"})
	}
	detail, err := h.Answers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAnswerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load answer"})
	}
	return c.JSON(http.StatusOK, toAnswerResp(*detail))
}

// Update handles PUT and PATCH /v1/answers/:id (description only).
func (h *AnswerHandler) Update(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid answer id"})
	}
	var req answerBodyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "description is required"})
	}
	ctx := c.Request().Context()
	if err := h.Answers.UpdateDescription(ctx, id, req.Description); err != nil {
		if errors.Is(err, repository.ErrAnswerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update answer"})
	}
	detail, err := h.Answers.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load answer"})
	}
	return c.JSON(http.StatusOK, toAnswerResp(*detail))
}

// Delete handles DELETE /v1/answers/:id.
func (h *AnswerHandler) Delete(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid answer id"})
	}
	if err := h.Answers.DeleteByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrAnswerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete answer"})
	}
	return c.NoContent(http.StatusNoContent)
}

// voteHandler is the shared body of the upvote and downvote endpoints.
func (h *AnswerHandler) voteHandler(c echo.Context, apply func(ctx echo.Context, answerID, voterID uint64) (int, error)) error {
	voterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid answer id"})
	}
	score, err := apply(c, id, voterID)
	if err != nil {
		if errors.Is(err, repository.ErrAnswerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record vote"})
	}
	return c.JSON(http.StatusOK, echo.Map{"vote_score": score})
}

// Upvote handles POST /v1/answers/:id/upvote. Repeating the same
// vote is a no-op; a standing downvote by the voter is replaced.
func (h *AnswerHandler) Upvote(c echo.Context) error {
	return h.voteHandler(c, func(ec echo.Context, answerID, voterID uint64) (int, error) {
		return h.Answers.Upvote(ec.Request().Context(), answerID, voterID)
	})
}

// Downvote handles POST /v1/answers/:id/downvote.
func (h *AnswerHandler) Downvote(c echo.Context) error {
	return h.voteHandler(c, func(ec echo.Context, answerID, voterID uint64) (int, error) {
		return h.Answers.Downvote(ec.Request().Context(), answerID, voterID)
	})
}

// Accept handles POST /v1/answers/:id/accept. Only the author of the
// parent question may accept; the accepted mark moves atomically and
// the question stays solved from then on.
func (h *AnswerHandler) Accept(c echo.Context) error {
	requesterID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid answer id"})
	}
	detail, err := h.Answers.Accept(c.Request().Context(), id, requesterID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAnswerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "only the question author can accept an answer"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to accept answer"})
	}
	return c.JSON(http.StatusOK, toAnswerResp(*detail))
}
