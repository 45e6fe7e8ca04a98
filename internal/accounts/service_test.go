package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/rivermedia/streamgate/internal/apperror"
	"github.com/rivermedia/streamgate/internal/secret"
)

// mockRepo implements Repository with overridable functions.
type mockRepo struct {
	findByNameFn        func(ctx context.Context, username string) (*Account, error)
	listFn              func(ctx context.Context) ([]Account, error)
	updateDisplayNameFn func(ctx context.Context, username, displayName string) error
	updatePasswordFn    func(ctx context.Context, username, passwordHash string) error
	updatePermissionsFn func(ctx context.Context, username string, permissions []string) error
	updateStreamKeyFn   func(ctx context.Context, username, streamKey string) error
}

func (m *mockRepo) Create(ctx context.Context, a *Account) error { return nil }

func (m *mockRepo) FindByName(ctx context.Context, username string) (*Account, error) {
	if m.findByNameFn != nil {
		return m.findByNameFn(ctx, username)
	}
	return nil, apperror.NewNotFound("account not found")
}

func (m *mockRepo) FindByKey(ctx context.Context, streamKey string) (*Account, error) {
	return nil, apperror.NewNotFound("account not found")
}

func (m *mockRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (m *mockRepo) List(ctx context.Context) ([]Account, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRepo) UpdateDisplayName(ctx context.Context, username, displayName string) error {
	if m.updateDisplayNameFn != nil {
		return m.updateDisplayNameFn(ctx, username, displayName)
	}
	return nil
}

func (m *mockRepo) UpdateStreamTitle(ctx context.Context, username, streamTitle string) error {
	return nil
}

func (m *mockRepo) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, username, passwordHash)
	}
	return nil
}

func (m *mockRepo) UpdatePermissions(ctx context.Context, username string, permissions []string) error {
	if m.updatePermissionsFn != nil {
		return m.updatePermissionsFn(ctx, username, permissions)
	}
	return nil
}

func (m *mockRepo) UpdateStreamKey(ctx context.Context, username, streamKey string) error {
	if m.updateStreamKeyFn != nil {
		return m.updateStreamKeyFn(ctx, username, streamKey)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func admin() *Account {
	return &Account{Username: "root", Permissions: []string{"IS_ADMIN"}}
}

func regular(username string) *Account {
	return &Account{Username: username, Permissions: []string{"CAN_STREAM"}}
}

func assertErrType(t *testing.T, err error, wantType string) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %v", err)
	}
	if appErr.Type != wantType {
		t.Errorf("error type = %q, want %q", appErr.Type, wantType)
	}
}

func TestList_AdminOnly(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, err := svc.List(context.Background(), regular("alice"))
	assertErrType(t, err, "no_permission")
}

func TestList_WithholdsStreamKeys(t *testing.T) {
	repo := &mockRepo{
		listFn: func(ctx context.Context) ([]Account, error) {
			return []Account{
				{Username: "alice", StreamKey: "sgk_secret_key"},
				{Username: "bob", StreamKey: "sgk_another_key"},
			}, nil
		},
	}
	svc := NewService(repo)

	list, err := svc.List(context.Background(), admin())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	for _, s := range list {
		if s.StreamKey != "" {
			t.Errorf("list exposes stream key for %q", s.Username)
		}
	}
}

func TestUpdate_PermissionsRequireAdmin(t *testing.T) {
	repo := &mockRepo{
		updatePermissionsFn: func(ctx context.Context, username string, permissions []string) error {
			t.Error("UpdatePermissions called for a non-admin actor")
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Update(context.Background(), regular("alice"), UpdateInput{
		Permissions: &[]string{"CAN_STREAM", "IS_ADMIN"},
	})
	assertErrType(t, err, "no_permission")
}

func TestUpdate_TargetingAnotherAccountRequiresAdmin(t *testing.T) {
	svc := NewService(&mockRepo{})

	err := svc.Update(context.Background(), regular("alice"), UpdateInput{
		Username:    strPtr("bob"),
		DisplayName: strPtr("Bobby"),
	})
	assertErrType(t, err, "no_permission")
}

func TestUpdate_AdminGrantsPermissions(t *testing.T) {
	var gotUser string
	var gotPerms []string
	repo := &mockRepo{
		findByNameFn: func(ctx context.Context, username string) (*Account, error) {
			if username != "alice" {
				return nil, apperror.NewNotFound("account not found")
			}
			return regular("alice"), nil
		},
		updatePermissionsFn: func(ctx context.Context, username string, permissions []string) error {
			gotUser = username
			gotPerms = permissions
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Update(context.Background(), admin(), UpdateInput{
		Username:    strPtr("alice"),
		Permissions: &[]string{"CAN_STREAM", "CAN_RESTREAM"},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if gotUser != "alice" {
		t.Errorf("updated user = %q, want %q", gotUser, "alice")
	}
	if len(gotPerms) != 2 {
		t.Errorf("permissions = %v, want two entries", gotPerms)
	}
}

func TestUpdate_UnknownTarget(t *testing.T) {
	svc := NewService(&mockRepo{})

	err := svc.Update(context.Background(), admin(), UpdateInput{
		Username:    strPtr("ghost"),
		DisplayName: strPtr("Ghost"),
	})
	assertErrType(t, err, "not_found")
}

func TestUpdate_SelfDisplayName(t *testing.T) {
	var gotUser, gotName string
	repo := &mockRepo{
		updateDisplayNameFn: func(ctx context.Context, username, displayName string) error {
			gotUser = username
			gotName = displayName
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Update(context.Background(), regular("alice"), UpdateInput{
		DisplayName: strPtr("Alice Lidell"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if gotUser != "alice" || gotName != "Alice Lidell" {
		t.Errorf("UpdateDisplayName(%q, %q), want (alice, Alice Lidell)", gotUser, gotName)
	}
}

func passwordActor(t *testing.T, username, password string) *Account {
	t.Helper()
	hash, err := secret.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	a := regular(username)
	a.PasswordHash = hash
	return a
}

func TestUpdate_PasswordChange(t *testing.T) {
	var newHash string
	repo := &mockRepo{
		updatePasswordFn: func(ctx context.Context, username, passwordHash string) error {
			newHash = passwordHash
			return nil
		},
	}
	svc := NewService(repo)
	actor := passwordActor(t, "alice", "old-password")

	err := svc.Update(context.Background(), actor, UpdateInput{
		OldPassword: strPtr("old-password"),
		NewPassword: strPtr("new-password"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !secret.VerifyPassword(newHash, "new-password") {
		t.Error("stored hash does not verify against the new password")
	}
}

func TestUpdate_PasswordChangeWrongOldPassword(t *testing.T) {
	repo := &mockRepo{
		updatePasswordFn: func(ctx context.Context, username, passwordHash string) error {
			t.Error("UpdatePassword called despite a failed verification")
			return nil
		},
	}
	svc := NewService(repo)
	actor := passwordActor(t, "alice", "old-password")

	err := svc.Update(context.Background(), actor, UpdateInput{
		OldPassword: strPtr("not-the-old-password"),
		NewPassword: strPtr("new-password"),
	})
	assertErrType(t, err, "invalid_password")
}

func TestUpdate_PasswordChangeWithoutOldPassword(t *testing.T) {
	svc := NewService(&mockRepo{})
	actor := passwordActor(t, "alice", "old-password")

	err := svc.Update(context.Background(), actor, UpdateInput{
		NewPassword: strPtr("new-password"),
	})
	assertErrType(t, err, "no_permission")
}

func TestUpdate_AdminResetsPassword(t *testing.T) {
	var updated bool
	repo := &mockRepo{
		findByNameFn: func(ctx context.Context, username string) (*Account, error) {
			return passwordActor(t, "alice", "forgotten"), nil
		},
		updatePasswordFn: func(ctx context.Context, username, passwordHash string) error {
			updated = true
			return nil
		},
	}
	svc := NewService(repo)

	err := svc.Update(context.Background(), admin(), UpdateInput{
		Username:    strPtr("alice"),
		NewPassword: strPtr("fresh-start"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated {
		t.Error("admin password reset did not reach the repository")
	}
}

func TestUpdate_EmptyNewPassword(t *testing.T) {
	svc := NewService(&mockRepo{})
	actor := passwordActor(t, "alice", "old-password")

	err := svc.Update(context.Background(), actor, UpdateInput{
		OldPassword: strPtr("old-password"),
		NewPassword: strPtr(""),
	})
	assertErrType(t, err, "bad_request")
}

func TestRegenerateStreamKey(t *testing.T) {
	var gotUser, gotKey string
	repo := &mockRepo{
		updateStreamKeyFn: func(ctx context.Context, username, streamKey string) error {
			gotUser = username
			gotKey = streamKey
			return nil
		},
	}
	svc := NewService(repo)
	actor := regular("alice")
	actor.StreamKey = "sgk_oldkey_oldkeyoldkeyoldkeyoldkey"

	key, err := svc.RegenerateStreamKey(context.Background(), actor)
	if err != nil {
		t.Fatalf("RegenerateStreamKey() error = %v", err)
	}
	if key != gotKey {
		t.Errorf("returned key %q differs from persisted key %q", key, gotKey)
	}
	if gotUser != "alice" {
		t.Errorf("updated user = %q, want %q", gotUser, "alice")
	}
	if key == actor.StreamKey {
		t.Error("rotation returned the old key")
	}
}
