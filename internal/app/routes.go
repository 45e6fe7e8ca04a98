package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rivermedia/streamgate/internal/accounts"
	"github.com/rivermedia/streamgate/internal/admission"
	"github.com/rivermedia/streamgate/internal/auth"
	"github.com/rivermedia/streamgate/internal/config"
	"github.com/rivermedia/streamgate/internal/session"
)

// RegisterRoutes wires up all components and mounts every route. This is
// the single place where the dependency graph is assembled: repository ->
// session manager -> services -> handlers.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Shared components ---
	accountRepo := accounts.NewRepository(a.DB)
	sessions := a.newSessionManager(accountRepo)

	authService := auth.NewService(accountRepo, sessions, accounts.NewUsernameValidator())
	authHandler := auth.NewHandler(authService)

	accountService := accounts.NewService(accountRepo)
	accountHandler := accounts.NewHandler(accountService, func(c echo.Context) *accounts.Account {
		return auth.GetAccount(c)
	})

	admissionEngine := admission.NewEngine(accountRepo)
	admissionHandler := admission.NewHandler(admissionEngine)

	// --- Public routes ---

	// Health check endpoint for container orchestration.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Admission webhook (the stream key in the URL is the credential).
	admission.RegisterRoutes(e, admissionHandler)

	// Login, register, logout.
	auth.RegisterRoutes(e, authHandler)

	// --- Session-gated routes ---
	authed := e.Group("/api", auth.RequireSession(authService))
	accountHandler.RegisterRoutes(authed)
}

// newSessionManager builds the session manager for the configured scheme.
func (a *App) newSessionManager(repo accounts.Repository) session.Manager {
	if a.Config.Session.Scheme == config.SchemeToken {
		return session.NewTokenManager(repo, []byte(a.Config.Session.SigningSecret), a.Config.Session.TTL)
	}
	return session.NewStoreManager(repo, a.Redis, a.Config.Session.TTL)
}
