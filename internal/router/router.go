package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/qa-forum/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/qa-forum/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register,
	// login and the refresh-token exchanges.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout terminates the session owning the supplied refresh token;
	// no JWT is required so an expired access token cannot block it.
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.  The JWTAuth middleware
	// runs before every handler registered on this group, followed by
	// the role check.  Guests (no token) never reach these.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("user", "admin"))
	auth.GET("/me", a.Me)
	// Revokes every session of the authenticated user.
	auth.POST("/logout-all", a.LogoutAll)
}
