package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rivermedia/streamgate/internal/accounts"
	"github.com/rivermedia/streamgate/internal/apperror"
)

// claims is the payload of a self-contained session token: the owning
// username plus the registered expiry/issued-at timestamps.
type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// tokenManager implements Manager with self-contained HS256-signed tokens.
// The server holds the signing key; holders cannot forge or extend a
// token. There is no server-side blocklist, so Revoke only means "clear
// the cookie" and a copied token stays valid until its expiry.
type tokenManager struct {
	repo       accounts.Repository
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

// NewTokenManager creates a self-contained session manager signing with
// the given server-held secret.
func NewTokenManager(repo accounts.Repository, signingKey []byte, ttl time.Duration) Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &tokenManager{
		repo:       repo,
		signingKey: signingKey,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Create serializes {username, now+TTL} and signs it.
func (m *tokenManager) Create(ctx context.Context, username string) (string, error) {
	now := m.now()
	c := &claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.signingKey)
	if err != nil {
		return "", apperror.NewCodec(fmt.Errorf("signing session token: %w", err))
	}
	return token, nil
}

// Resolve verifies the signature and expiry, then resolves the embedded
// username to a live account. Tampered, malformed, expired, and orphaned
// tokens are indistinguishable to the caller.
func (m *tokenManager) Resolve(ctx context.Context, token string) (*accounts.Account, error) {
	if token == "" {
		return nil, apperror.NewInvalidSession()
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return m.signingKey, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, apperror.NewInvalidSession()
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || c.Username == "" {
		return nil, apperror.NewInvalidSession()
	}

	account, err := m.repo.FindByName(ctx, c.Username)
	if err != nil {
		if appErr, ok := err.(*apperror.AppError); ok && appErr.Type == "not_found" {
			return nil, apperror.NewInvalidSession()
		}
		return nil, apperror.NewStore(fmt.Errorf("resolving session owner: %w", err))
	}

	return account, nil
}

// Revoke is client-side only for self-contained tokens: the transport
// clears the cookie and the token ages out on its own.
func (m *tokenManager) Revoke(ctx context.Context, token string) error {
	return nil
}

// TTL returns the configured session lifetime.
func (m *tokenManager) TTL() time.Duration {
	return m.ttl
}
