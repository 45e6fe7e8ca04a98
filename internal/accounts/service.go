package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rivermedia/streamgate/internal/apperror"
	"github.com/rivermedia/streamgate/internal/authz"
	"github.com/rivermedia/streamgate/internal/secret"
)

// UpdateInput carries the fields of a profile/admin update. Nil fields are
// left untouched. Username selects the target account and is admin-only;
// without it the actor updates themselves.
type UpdateInput struct {
	Username    *string   `json:"username,omitempty"`
	DisplayName *string   `json:"display_name,omitempty"`
	StreamTitle *string   `json:"stream_title,omitempty"`
	OldPassword *string   `json:"old_password,omitempty"`
	NewPassword *string   `json:"new_password,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}

// Service defines the business logic contract for profile and
// administration operations. The actor is the already-authenticated
// account performing the request.
type Service interface {
	List(ctx context.Context, actor *Account) ([]Sendable, error)
	Update(ctx context.Context, actor *Account, input UpdateInput) error
	RegenerateStreamKey(ctx context.Context, actor *Account) (string, error)
}

// service implements Service over the account repository.
type service struct {
	repo Repository
}

// NewService creates an accounts service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// List returns every account. Admin only. Stream keys are withheld: the
// listing is for administration, not for reading other publishers'
// credentials.
func (s *service) List(ctx context.Context, actor *Account) ([]Sendable, error) {
	if !authz.IsAdmin(actor.Permissions) {
		return nil, apperror.NewNoPermission()
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewStore(fmt.Errorf("listing accounts: %w", err))
	}

	sendable := make([]Sendable, 0, len(list))
	for i := range list {
		sendable = append(sendable, list[i].ToSendable(false))
	}
	return sendable, nil
}

// Update applies a profile/admin update. Each field update targets a
// single row keyed by username and is individually atomic; there is no
// cross-field transaction.
//
// Self-service: display name, stream title, and password change with the
// old password verified. Admin-only: targeting another account, setting a
// password without the old one, and replacing the permission set.
func (s *service) Update(ctx context.Context, actor *Account, input UpdateInput) error {
	isAdmin := authz.IsAdmin(actor.Permissions)

	if input.Username != nil && !isAdmin {
		return apperror.NewNoPermission()
	}
	if input.Permissions != nil && !isAdmin {
		return apperror.NewNoPermission()
	}

	// Resolve the target. Usernames are immutable, so the username field
	// only ever selects an account, never renames one.
	target := actor
	if input.Username != nil {
		found, err := s.repo.FindByName(ctx, *input.Username)
		if err != nil {
			if appErr, ok := err.(*apperror.AppError); ok {
				return appErr
			}
			return apperror.NewStore(fmt.Errorf("finding account: %w", err))
		}
		target = found
	}

	if input.DisplayName != nil {
		if err := s.repo.UpdateDisplayName(ctx, target.Username, *input.DisplayName); err != nil {
			return storeOrPassthrough(err, "updating display name")
		}
	}

	if input.StreamTitle != nil {
		if err := s.repo.UpdateStreamTitle(ctx, target.Username, *input.StreamTitle); err != nil {
			return storeOrPassthrough(err, "updating stream title")
		}
	}

	if input.NewPassword != nil {
		if err := s.updatePassword(ctx, target, input.OldPassword, *input.NewPassword, isAdmin); err != nil {
			return err
		}
	}

	if input.Permissions != nil {
		if err := s.repo.UpdatePermissions(ctx, target.Username, *input.Permissions); err != nil {
			return storeOrPassthrough(err, "updating permissions")
		}
		slog.Info("permissions updated",
			slog.String("actor", actor.Username),
			slog.String("target", target.Username),
		)
	}

	return nil
}

// updatePassword enforces the password-change rules: an admin may set a
// password outright; everyone else proves knowledge of the old one.
func (s *service) updatePassword(ctx context.Context, target *Account, oldPassword *string, newPassword string, isAdmin bool) error {
	if newPassword == "" {
		return apperror.NewBadRequest("new password must not be empty")
	}

	if oldPassword == nil {
		if !isAdmin {
			return apperror.NewNoPermission()
		}
	} else if !secret.VerifyPassword(target.PasswordHash, *oldPassword) {
		return apperror.NewInvalidPassword()
	}

	hash, err := secret.HashPassword(newPassword)
	if err != nil {
		return apperror.NewCodec(fmt.Errorf("hashing password: %w", err))
	}

	if err := s.repo.UpdatePassword(ctx, target.Username, hash); err != nil {
		return storeOrPassthrough(err, "updating password")
	}
	return nil
}

// RegenerateStreamKey rotates the caller's stream key and returns the new
// one. The old key stops admitting publishes as soon as the row updates.
func (s *service) RegenerateStreamKey(ctx context.Context, actor *Account) (string, error) {
	key, err := secret.GenerateStreamKey()
	if err != nil {
		return "", apperror.NewCodec(fmt.Errorf("generating stream key: %w", err))
	}

	if err := s.repo.UpdateStreamKey(ctx, actor.Username, key); err != nil {
		return "", storeOrPassthrough(err, "rotating stream key")
	}

	slog.Info("stream key rotated", slog.String("username", actor.Username))
	return key, nil
}

// storeOrPassthrough keeps AppErrors (e.g. NotFound from a zero-row
// update) intact and wraps anything else as a store failure.
func storeOrPassthrough(err error, action string) error {
	if appErr, ok := err.(*apperror.AppError); ok {
		return appErr
	}
	return apperror.NewStore(fmt.Errorf("%s: %w", action, err))
}
