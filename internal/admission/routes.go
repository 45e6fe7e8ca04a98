package admission

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rivermedia/streamgate/internal/middleware"
)

// RegisterRoutes sets up the admission webhook route. The endpoint is
// unauthenticated by design (the media engine presents no session); the
// stream key inside the URL is the credential. Rate limiting keeps bulk
// key guessing expensive on top of the key's own entropy.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/api/admission", h.Decide, middleware.RateLimit(60, time.Minute))
}
