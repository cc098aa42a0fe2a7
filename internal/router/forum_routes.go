package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/qa-forum/internal/handler"
	"github.com/iliyamo/qa-forum/internal/middleware"
)

// RegisterForum registers the question, answer, tag and notification
// endpoints. The permission model is read-public/write-authenticated:
// GETs are open to guests, every mutation sits behind JWT + role
// middleware. Accepting an answer is additionally restricted to the
// question's author inside the repository itself.
func RegisterForum(e *echo.Echo, q *handler.QuestionHandler, a *handler.AnswerHandler, n *handler.NotificationHandler, jwtSecret string) {
	// Public browse endpoints; no token required.
	e.GET("/v1/questions", q.List)
	e.GET("/v1/questions/:id", q.Get)
	e.GET("/v1/questions/:id/answers", a.ListForQuestion)
	e.GET("/v1/answers/:id", a.Get)
	e.GET("/v1/tags", q.ListTags)

	// Mutations require an authenticated user.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("user", "admin"))

	auth.POST("/questions", q.Create)
	auth.PUT("/questions/:id", q.Update)
	auth.PATCH("/questions/:id", q.Update)
	auth.DELETE("/questions/:id", q.Delete)

	auth.POST("/questions/:id/answers", a.Create)
	auth.PUT("/answers/:id", a.Update)
	auth.PATCH("/answers/:id", a.Update)
	auth.DELETE("/answers/:id", a.Delete)

	auth.POST("/answers/:id/upvote", a.Upvote)
	auth.POST("/answers/:id/downvote", a.Downvote)
	auth.POST("/answers/:id/accept", a.Accept)

	auth.GET("/notifications", n.ListMine)
}
