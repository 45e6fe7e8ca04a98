package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/rivermedia/streamgate/internal/accounts"
	"github.com/rivermedia/streamgate/internal/apperror"
	"github.com/rivermedia/streamgate/internal/authz"
)

// contextKeyAccount is the Echo context key under which the resolved
// account is stored. Other packages access it via GetAccount.
const contextKeyAccount = "auth_account"

// RequireSession returns middleware that resolves the session cookie and
// injects the owning account into the request context. Requests without a
// resolvable session get InvalidSession; a stale cookie is cleared on the
// way out.
func RequireSession(service Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)
			if token == "" {
				return apperror.NewInvalidSession()
			}

			account, err := service.ResolveSession(c.Request().Context(), token)
			if err != nil {
				clearSessionCookie(c)
				return apperror.NewInvalidSession()
			}

			c.Set(contextKeyAccount, account)
			return next(c)
		}
	}
}

// RequireCapability returns middleware that enforces a capability on the
// already-resolved account. Must run after RequireSession.
func RequireCapability(cap authz.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := GetAccount(c)
			if account == nil || !authz.HasCapability(account.Permissions, cap) {
				return apperror.NewNoPermission()
			}
			return next(c)
		}
	}
}

// GetAccount retrieves the authenticated account from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetAccount(c echo.Context) *accounts.Account {
	account, ok := c.Get(contextKeyAccount).(*accounts.Account)
	if !ok {
		return nil
	}
	return account
}
