package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rivermedia/streamgate/internal/apperror"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "streamgate_session"

// Handler handles HTTP requests for authentication (login, register,
// logout). Handlers are thin: they bind the request, call the service,
// and write the response. No business logic lives here.
type Handler struct {
	service Service
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register processes POST /api/register.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	account, err := h.service.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	// The response includes the freshly generated stream key so the new
	// publisher can configure their encoder right away.
	return c.JSON(http.StatusCreated, account.ToSendable(true))
}

// Login processes POST /api/login.
func (h *Handler) Login(c echo.Context) error {
	// If the presented cookie already resolves, the login is a no-op.
	if token := getSessionToken(c); token != "" {
		if _, err := h.service.ResolveSession(c.Request().Context(), token); err == nil {
			return c.NoContent(http.StatusNoContent)
		}
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	token, _, err := h.service.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token)
	return c.NoContent(http.StatusNoContent)
}

// Logout processes POST /api/logout. It revokes the session (idempotent;
// a missing or stale cookie is fine) and clears the cookie.
func (h *Handler) Logout(c echo.Context) error {
	if token := getSessionToken(c); token != "" {
		if err := h.service.Logout(c.Request().Context(), token); err != nil {
			return err
		}
	}

	clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response: scoped to the
// whole service, unreadable from client-side scripts, secure-transport
// only, cross-site default-deny except top-level navigation, and expiring
// with the session itself.
func (h *Handler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.service.SessionTTL().Seconds()),
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
