package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rivermedia/streamgate/internal/middleware"
)

// RegisterRoutes sets up the auth routes. Login and register are public;
// logout works with or without a live session. POST endpoints are
// rate-limited to blunt brute-force and credential stuffing: 10 attempts
// per IP per minute for login, 5 for register.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/api/login", h.Login, middleware.RateLimit(10, time.Minute))
	e.POST("/api/register", h.Register, middleware.RateLimit(5, time.Minute))
	e.POST("/api/logout", h.Logout)
}
