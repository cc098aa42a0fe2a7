package handler // handler defines http handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-forum/internal/model"
	"github.com/iliyamo/qa-forum/internal/repository"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWT numeric claims arrive as float64; tests and other
// middleware may store native integer types.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getUsername extracts the username claim placed in context by the
// JWT middleware. Empty when absent.
func getUsername(c echo.Context) string {
	if v, ok := c.Get("username").(string); ok {
		return v
	}
	return ""
}

// parseIDParam parses the named path parameter as a positive uint64.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// questionResp is the JSON shape for a question across all question
// endpoints.
type questionResp struct {
	ID          uint64    `json:"id"`
	AuthorID    uint64    `json:"author_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	IsSolved    bool      `json:"is_solved"`
	AnswerCount int       `json:"answer_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toQuestionResp(d repository.QuestionDetail) questionResp {
	return questionResp{
		ID:          d.Question.ID,
		AuthorID:    d.Question.AuthorID,
		Title:       d.Question.Title,
		Description: d.Question.Description,
		Tags:        d.Tags,
		IsSolved:    d.Question.IsSolved,
		AnswerCount: d.AnswerCount,
		CreatedAt:   d.Question.CreatedAt,
		UpdatedAt:   d.Question.UpdatedAt,
	}
}

// answerResp is the JSON shape for an answer across all answer
// endpoints. VoteScore is derived, never stored.
type answerResp struct {
	ID          uint64    `json:"id"`
	QuestionID  uint64    `json:"question_id"`
	AuthorID    uint64    `json:"author_id"`
	Description string    `json:"description"`
	IsAccepted  bool      `json:"is_accepted"`
	VoteScore   int       `json:"vote_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAnswerResp(d repository.AnswerDetail) answerResp {
	return answerResp{
		ID:          d.Answer.ID,
		QuestionID:  d.Answer.QuestionID,
		AuthorID:    d.Answer.AuthorID,
		Description: d.Answer.Description,
		IsAccepted:  d.Answer.IsAccepted,
		VoteScore:   d.VoteScore,
		CreatedAt:   d.Answer.CreatedAt,
		UpdatedAt:   d.Answer.UpdatedAt,
	}
}

// notificationResp is the JSON shape for a notification record.
type notificationResp struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResp(n model.Notification) notificationResp {
	return notificationResp{ID: n.ID, Message: n.Message, CreatedAt: n.CreatedAt}
}
