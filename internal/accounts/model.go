// Package accounts owns the credential store: the publisher accounts that
// stream keys and login sessions resolve to, and the profile/admin
// operations that mutate them. Usernames are immutable once created and
// unique case-insensitively.
package accounts

import (
	"regexp"
	"time"
)

// Account represents a registered publisher. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use
// this struct directly.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	StreamKey    string    `json:"-"` // Exposed only through Sendable for the owner.
	Permissions  []string  `json:"permissions"`
	StreamTitle  *string   `json:"stream_title,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Sendable is the Account view safe to return to the frontend. The stream
// key is included for the owner's own profile and blanked everywhere else.
type Sendable struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name"`
	StreamKey   string   `json:"stream_key,omitempty"`
	Permissions []string `json:"permissions"`
	StreamTitle *string  `json:"stream_title,omitempty"`
}

// ToSendable converts an Account to its client-facing view. When
// includeKey is false the stream key is withheld (admin listings must
// never leak other publishers' keys).
func (a *Account) ToSendable(includeKey bool) Sendable {
	s := Sendable{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		Permissions: a.Permissions,
		StreamTitle: a.StreamTitle,
	}
	if includeKey {
		s.StreamKey = a.StreamKey
	}
	return s
}

// UsernameValidator reports whether a candidate username is acceptable:
// 4-25 characters, letters, digits, and underscore only.
type UsernameValidator func(string) bool

// NewUsernameValidator compiles the username rule once. The returned
// function is passed by reference to whoever needs it; there is no
// package-level mutable state.
func NewUsernameValidator() UsernameValidator {
	re := regexp.MustCompile(`^[a-zA-Z0-9_]{4,25}$`)
	return re.MatchString
}
