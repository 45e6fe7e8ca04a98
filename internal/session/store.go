package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rivermedia/streamgate/internal/accounts"
	"github.com/rivermedia/streamgate/internal/apperror"
	"github.com/rivermedia/streamgate/internal/secret"
)

// sessionKeyPrefix is the Redis key prefix for session records.
const sessionKeyPrefix = "session:"

// record is the value stored under a session key. The token itself is the
// key, so the record only carries the owner and the issuance time.
type record struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// storeManager implements Manager with opaque random tokens persisted in
// Redis. The record's creation time is authoritative for expiry (checked
// lazily against the injected clock); the Redis TTL is only a backstop
// that keeps abandoned rows from accumulating.
type storeManager struct {
	repo  accounts.Repository
	redis *redis.Client
	ttl   time.Duration
	now   func() time.Time
}

// NewStoreManager creates a store-backed session manager.
func NewStoreManager(repo accounts.Repository, rdb *redis.Client, ttl time.Duration) Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &storeManager{
		repo:  repo,
		redis: rdb,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create generates a random token and persists it with its owner.
func (m *storeManager) Create(ctx context.Context, username string) (string, error) {
	token, err := secret.GenerateSessionToken()
	if err != nil {
		return "", apperror.NewCodec(fmt.Errorf("generating session token: %w", err))
	}

	data, err := json.Marshal(record{
		Username:  username,
		CreatedAt: m.now().UTC(),
	})
	if err != nil {
		return "", apperror.NewCodec(fmt.Errorf("marshaling session record: %w", err))
	}

	if err := m.redis.Set(ctx, sessionKeyPrefix+token, data, m.ttl).Err(); err != nil {
		return "", apperror.NewStore(fmt.Errorf("storing session: %w", err))
	}

	return token, nil
}

// Resolve looks the token up and joins it to its owning account.
func (m *storeManager) Resolve(ctx context.Context, token string) (*accounts.Account, error) {
	if token == "" {
		return nil, apperror.NewInvalidSession()
	}

	data, err := m.redis.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, apperror.NewInvalidSession()
	}
	if err != nil {
		return nil, apperror.NewStore(fmt.Errorf("reading session: %w", err))
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A record we wrote but can no longer decode is as good as absent.
		return nil, apperror.NewInvalidSession()
	}

	// Lazy expiry check. The Redis TTL usually gets there first, but the
	// record's own timestamp is what the contract promises.
	if m.now().Sub(rec.CreatedAt) >= m.ttl {
		if err := m.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			slog.Warn("failed to delete expired session", slog.Any("error", err))
		}
		return nil, apperror.NewInvalidSession()
	}

	account, err := m.repo.FindByName(ctx, rec.Username)
	if err != nil {
		if appErr, ok := err.(*apperror.AppError); ok && appErr.Type == "not_found" {
			// Account deleted out from under the session.
			return nil, apperror.NewInvalidSession()
		}
		return nil, apperror.NewStore(fmt.Errorf("resolving session owner: %w", err))
	}

	return account, nil
}

// Revoke deletes the session record. Absence is not an error.
func (m *storeManager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return apperror.NewStore(fmt.Errorf("deleting session: %w", err))
	}
	return nil
}

// TTL returns the configured session lifetime.
func (m *storeManager) TTL() time.Duration {
	return m.ttl
}
