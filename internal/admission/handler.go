package admission

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler serves the admission webhook. It is deliberately thin: bind the
// body, ask the engine, return the verdict. The endpoint always answers
// 200 with a verdict object; a malformed body is just another deny.
type Handler struct {
	engine *Engine
}

// NewHandler creates an admission handler around the given engine.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Decide handles POST /api/admission.
func (h *Handler) Decide(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, Deny())
	}

	verdict := h.engine.Decide(c.Request().Context(), req.Request.URL)
	return c.JSON(http.StatusOK, verdict)
}
