// Package session establishes, validates, and revokes the login sessions
// that gate every privileged Streamgate operation.
//
// Two interchangeable token schemes implement one Manager interface: an
// opaque store-backed token (random bytes, persisted in Redis with its
// owner and creation time) and a self-contained signed token (JWT carrying
// username and expiry). A deployment picks exactly one scheme via config.
package session

import (
	"context"
	"time"

	"github.com/rivermedia/streamgate/internal/accounts"
)

// DefaultTTL is the session lifetime: 14 days from issuance, absolute
// wall-clock, not sliding.
const DefaultTTL = 14 * 24 * time.Hour

// Manager is the session lifecycle contract. A session moves
// Issued -> Valid -> (Expired | Revoked); both terminal states resolve to
// "no account". Expiry is checked lazily at resolve time, never by a
// background sweep.
type Manager interface {
	// Create issues a new token for the given username.
	Create(ctx context.Context, username string) (string, error)

	// Resolve maps a presented token to its owning account. Missing,
	// expired, tampered, and undecodable tokens all return
	// apperror.InvalidSession; a token whose account no longer exists is
	// equally invalid.
	Resolve(ctx context.Context, token string) (*accounts.Account, error)

	// Revoke invalidates a token. Idempotent: revoking an unknown or
	// already-revoked token is not an error. For the self-contained
	// scheme revocation is client-side only (the cookie is cleared).
	Revoke(ctx context.Context, token string) error

	// TTL returns the session lifetime, used for the cookie MaxAge.
	TTL() time.Duration
}
