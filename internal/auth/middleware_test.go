package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rivermedia/streamgate/internal/accounts"
	"github.com/rivermedia/streamgate/internal/apperror"
	"github.com/rivermedia/streamgate/internal/authz"
)

func newEchoContext(cookie string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie})
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireSession_NoCookie(t *testing.T) {
	svc := newTestService(&mockRepo{}, newFakeSessions())

	err := RequireSession(svc)(okHandler)(newEchoContext(""))
	assertErrType(t, err, "invalid_session")
}

func TestRequireSession_BadToken(t *testing.T) {
	svc := newTestService(&mockRepo{}, newFakeSessions())

	err := RequireSession(svc)(okHandler)(newEchoContext("stale-token"))
	assertErrType(t, err, "invalid_session")
}

func TestRequireSession_InjectsAccount(t *testing.T) {
	sessions := newFakeSessions()
	svc := newTestService(loginRepo(t, "alice", "hunter22"), sessions)

	token, _, err := svc.Login(context.Background(), "alice", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	c := newEchoContext(token)
	var seen *accounts.Account
	err = RequireSession(svc)(func(c echo.Context) error {
		seen = GetAccount(c)
		return nil
	})(c)
	if err != nil {
		t.Fatalf("middleware error = %v", err)
	}
	if seen == nil || seen.Username != "alice" {
		t.Errorf("GetAccount() = %+v, want alice", seen)
	}
}

func TestRequireCapability(t *testing.T) {
	tests := []struct {
		name        string
		permissions []string
		wantErr     bool
	}{
		{"holder passes", []string{"CAN_STREAM"}, false},
		{"admin override", []string{"IS_ADMIN"}, false},
		{"missing capability", []string{"CAN_RESTREAM"}, true},
		{"no permissions", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newEchoContext("")
			c.Set(contextKeyAccount, &accounts.Account{
				Username:    "alice",
				Permissions: tt.permissions,
			})

			err := RequireCapability(authz.CapStream)(okHandler)(c)
			if tt.wantErr {
				assertErrType(t, err, "no_permission")
			} else if err != nil {
				t.Errorf("middleware error = %v", err)
			}
		})
	}
}

func TestRequireCapability_NoSession(t *testing.T) {
	err := RequireCapability(authz.CapStream)(okHandler)(newEchoContext(""))

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Type != "no_permission" {
		t.Fatalf("expected no_permission, got %v", err)
	}
}
