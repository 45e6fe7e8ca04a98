package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rivermedia/streamgate/internal/accounts"
	"github.com/rivermedia/streamgate/internal/apperror"
	"github.com/rivermedia/streamgate/internal/secret"
	"github.com/rivermedia/streamgate/internal/session"
)

// Service defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository or the
// session manager directly.
type Service interface {
	Register(ctx context.Context, username, password string) (*accounts.Account, error)
	Login(ctx context.Context, username, password string) (token string, account *accounts.Account, err error)
	Logout(ctx context.Context, token string) error
	ResolveSession(ctx context.Context, token string) (*accounts.Account, error)
	SessionTTL() time.Duration
}

// service implements Service with argon2id hashing and a pluggable
// session scheme.
type service struct {
	repo          accounts.Repository
	sessions      session.Manager
	validUsername accounts.UsernameValidator
}

// NewService creates an auth service with the given dependencies.
func NewService(repo accounts.Repository, sessions session.Manager, validUsername accounts.UsernameValidator) Service {
	return &service{
		repo:          repo,
		sessions:      sessions,
		validUsername: validUsername,
	}
}

// Register creates a new account. It validates the username format,
// rejects case-insensitive collisions, hashes the password, and generates
// a fresh stream key. The display name starts out equal to the username.
func (s *service) Register(ctx context.Context, username, password string) (*accounts.Account, error) {
	if !s.validUsername(username) {
		return nil, apperror.NewInvalidUsername()
	}
	if password == "" {
		return nil, apperror.NewBadRequest("password is required")
	}

	// Check for collisions before doing expensive hashing.
	exists, err := s.repo.UsernameExists(ctx, username)
	if err != nil {
		return nil, apperror.NewStore(fmt.Errorf("checking username: %w", err))
	}
	if exists {
		return nil, apperror.NewNameTaken()
	}

	hash, err := secret.HashPassword(password)
	if err != nil {
		return nil, apperror.NewCodec(fmt.Errorf("hashing password: %w", err))
	}

	streamKey, err := secret.GenerateStreamKey()
	if err != nil {
		return nil, apperror.NewCodec(fmt.Errorf("generating stream key: %w", err))
	}

	// New accounts start with an empty permission set. An administrator
	// grants CAN_STREAM before the first publish is admitted.
	account := &accounts.Account{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  username,
		PasswordHash: hash,
		StreamKey:    streamKey,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, apperror.NewStore(fmt.Errorf("creating account: %w", err))
	}

	slog.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return account, nil
}

// Login authenticates by username and password and issues a session token
// for the cookie. Unknown usernames surface NotFound; bad passwords
// surface InvalidPassword.
func (s *service) Login(ctx context.Context, username, password string) (string, *accounts.Account, error) {
	account, err := s.repo.FindByName(ctx, username)
	if err != nil {
		if appErr, ok := err.(*apperror.AppError); ok {
			return "", nil, appErr
		}
		return "", nil, apperror.NewStore(fmt.Errorf("finding account: %w", err))
	}

	if !secret.VerifyPassword(account.PasswordHash, password) {
		return "", nil, apperror.NewInvalidPassword()
	}

	token, err := s.sessions.Create(ctx, account.Username)
	if err != nil {
		return "", nil, err
	}

	slog.Info("login",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return token, account, nil
}

// Logout revokes the session. Revocation is idempotent, so logging out
// twice or with a stale cookie succeeds quietly.
func (s *service) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// ResolveSession maps a presented token to its owning account.
func (s *service) ResolveSession(ctx context.Context, token string) (*accounts.Account, error) {
	return s.sessions.Resolve(ctx, token)
}

// SessionTTL exposes the session lifetime for the cookie MaxAge.
func (s *service) SessionTTL() time.Duration {
	return s.sessions.TTL()
}
