package accounts

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rivermedia/streamgate/internal/apperror"
)

// AccountGetter reads the authenticated account out of the request
// context. Implemented by the auth middleware; injected here so this
// package doesn't depend on the auth plumbing.
type AccountGetter func(echo.Context) *Account

// Handler serves the profile and administration endpoints. All routes
// here sit behind the session middleware.
type Handler struct {
	service Service
	account AccountGetter
}

// NewHandler creates an accounts handler.
func NewHandler(service Service, account AccountGetter) *Handler {
	return &Handler{service: service, account: account}
}

// Current handles GET /api/user: the caller's own profile, stream key
// included.
func (h *Handler) Current(c echo.Context) error {
	actor := h.account(c)
	if actor == nil {
		return apperror.NewInvalidSession()
	}
	return c.JSON(http.StatusOK, actor.ToSendable(true))
}

// List handles GET /api/users: every account, admin only, keys withheld.
func (h *Handler) List(c echo.Context) error {
	actor := h.account(c)
	if actor == nil {
		return apperror.NewInvalidSession()
	}

	list, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Update handles PATCH /api/user.
func (h *Handler) Update(c echo.Context) error {
	actor := h.account(c)
	if actor == nil {
		return apperror.NewInvalidSession()
	}

	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if err := h.service.Update(c.Request().Context(), actor, input); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RegenerateStreamKey handles POST /api/user/stream-key.
func (h *Handler) RegenerateStreamKey(c echo.Context) error {
	actor := h.account(c)
	if actor == nil {
		return apperror.NewInvalidSession()
	}

	key, err := h.service.RegenerateStreamKey(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"stream_key": key})
}

// RegisterRoutes mounts the account routes on the given group. The group
// is expected to carry the session middleware already.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/user", h.Current)
	g.PATCH("/user", h.Update)
	g.POST("/user/stream-key", h.RegenerateStreamKey)
	g.GET("/users", h.List)
}
