package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rivermedia/streamgate/internal/apperror"
)

// Repository defines the data access contract for account operations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
// Every operation targets a single row by unique key; the store needs no
// cross-row transactions.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	FindByName(ctx context.Context, username string) (*Account, error)
	FindByKey(ctx context.Context, streamKey string) (*Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]Account, error)

	UpdateDisplayName(ctx context.Context, username, displayName string) error
	UpdateStreamTitle(ctx context.Context, username, streamTitle string) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	UpdatePermissions(ctx context.Context, username string, permissions []string) error
	UpdateStreamKey(ctx context.Context, username, streamKey string) error
}

// repository implements Repository with hand-written MariaDB queries.
// Username matching is case-insensitive through the table collation, which
// is also what enforces case-insensitive uniqueness on registration.
type repository struct {
	db *sql.DB
}

// NewRepository creates an account repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const accountColumns = `id, username, display_name, password_hash, stream_key, permissions, stream_title, created_at`

// Create inserts a new account row.
func (r *repository) Create(ctx context.Context, a *Account) error {
	query := `INSERT INTO accounts (id, username, display_name, password_hash, stream_key, permissions, stream_title, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Username,
		a.DisplayName,
		a.PasswordHash,
		a.StreamKey,
		joinPermissions(a.Permissions),
		a.StreamTitle,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}

	return nil
}

// FindByName retrieves an account by username.
// Returns apperror.NotFound if no account exists with this name.
func (r *repository) FindByName(ctx context.Context, username string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

// FindByKey retrieves an account by its stream key. Keys are random and
// case-sensitive, so the comparison uses the binary collation.
// Returns apperror.NotFound if no account holds this key.
func (r *repository) FindByKey(ctx context.Context, streamKey string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE stream_key = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, streamKey))
}

// UsernameExists returns true if an account with the given username already
// exists. Used during registration to reject collisions before hashing.
func (r *repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking username existence: %w", err)
	}

	return exists, nil
}

// List returns all accounts ordered by creation date.
func (r *repository) List(ctx context.Context) ([]Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var list []Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning account row: %w", err)
		}
		list = append(list, *a)
	}

	return list, rows.Err()
}

// --- Field updates ---

// UpdateDisplayName sets a new display name for the account.
func (r *repository) UpdateDisplayName(ctx context.Context, username, displayName string) error {
	return r.updateField(ctx, `UPDATE accounts SET display_name = ? WHERE username = ?`, displayName, username)
}

// UpdateStreamTitle sets a new stream title for the account.
func (r *repository) UpdateStreamTitle(ctx context.Context, username, streamTitle string) error {
	return r.updateField(ctx, `UPDATE accounts SET stream_title = ? WHERE username = ?`, streamTitle, username)
}

// UpdatePassword sets a new password hash for the account.
func (r *repository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	return r.updateField(ctx, `UPDATE accounts SET password_hash = ? WHERE username = ?`, passwordHash, username)
}

// UpdatePermissions replaces the account's permission set.
func (r *repository) UpdatePermissions(ctx context.Context, username string, permissions []string) error {
	return r.updateField(ctx, `UPDATE accounts SET permissions = ? WHERE username = ?`, joinPermissions(permissions), username)
}

// UpdateStreamKey replaces the account's stream key (key rotation).
func (r *repository) UpdateStreamKey(ctx context.Context, username, streamKey string) error {
	return r.updateField(ctx, `UPDATE accounts SET stream_key = ? WHERE username = ?`, streamKey, username)
}

// updateField runs a single-column UPDATE keyed by username.
// Returns apperror.NotFound when no row matched.
func (r *repository) updateField(ctx context.Context, query string, value any, username string) error {
	result, err := r.db.ExecContext(ctx, query, value, username)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("account not found")
	}

	return nil
}

// --- Scanning helpers ---

// scanOne scans a single account row, mapping sql.ErrNoRows to NotFound.
func (r *repository) scanOne(row *sql.Row) (*Account, error) {
	a, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("account not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	return a, nil
}

// scanAccount reads one row through the given scan function. Permissions
// are stored as a comma-delimited string and surfaced as a slice.
func scanAccount(scan func(dest ...any) error) (*Account, error) {
	a := &Account{}
	var permissions sql.NullString
	var streamTitle sql.NullString

	err := scan(
		&a.ID,
		&a.Username,
		&a.DisplayName,
		&a.PasswordHash,
		&a.StreamKey,
		&permissions,
		&streamTitle,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Permissions = splitPermissions(permissions.String)
	if streamTitle.Valid {
		a.StreamTitle = &streamTitle.String
	}

	return a, nil
}

// joinPermissions serializes a permission set for storage. An empty set is
// stored as the empty string, which round-trips back to nil.
func joinPermissions(permissions []string) string {
	return strings.Join(permissions, ",")
}

// splitPermissions parses the stored comma-delimited permission set.
// Blank entries (from trailing commas or hand-edited rows) are dropped.
func splitPermissions(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
