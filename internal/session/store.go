// Package session owns the authenticated-user state. It is the sole source of
// truth for "is a user logged in": every other component reads through it and
// none of them write it.
package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// ErrNotEstablished is returned when a login could not be persisted in full.
var ErrNotEstablished = errors.New("session: not established")

// Storage is the key/value persistence the store writes through. It matches
// kvstore.Store.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store reads and writes the session fields. Storage failures never escape:
// reads degrade to "unauthenticated" and are logged.
type Store struct {
	storage Storage
	now     func() time.Time
}

// NewStore creates a session store over the given storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage, now: time.Now}
}

// sessionKeys is the fixed write/delete order for the session fields.
var sessionKeys = []string{
	domain.KeyAuthToken,
	domain.KeyAuthTokenExpires,
	domain.KeyUserID,
	domain.KeyUserRoleName,
	domain.KeyUsername,
	domain.KeyUserEmail,
}

// SetSession persists all six session fields. The write is atomic from a
// caller's perspective: fields are written in a fixed order and any
// individual failure rolls back the keys already written, so a concurrent
// reader sees either the previous session or the new one, never a mix.
func (s *Store) SetSession(token string, expiry time.Time, userID, role, username, email string) error {
	values := map[string]string{
		domain.KeyAuthToken:        token,
		domain.KeyAuthTokenExpires: expiry.UTC().Format(time.RFC3339),
		domain.KeyUserID:           userID,
		domain.KeyUserRoleName:     role,
		domain.KeyUsername:         username,
		domain.KeyUserEmail:        email,
	}

	for i, key := range sessionKeys {
		if err := s.storage.Set(key, values[key]); err != nil {
			slog.Error("session write failed, rolling back", "key", key, "error", err)
			for _, written := range sessionKeys[:i] {
				if derr := s.storage.Delete(written); derr != nil {
					slog.Error("session rollback delete failed", "key", written, "error", derr)
				}
			}
			return ErrNotEstablished
		}
	}
	return nil
}

// ClearSession removes all session fields. Idempotent.
func (s *Store) ClearSession() {
	for _, key := range sessionKeys {
		if err := s.storage.Delete(key); err != nil {
			slog.Error("session clear failed", "key", key, "error", err)
		}
	}
}

// Token returns the bearer token, or the empty string when none is stored or
// storage fails.
func (s *Store) Token() string {
	return s.read(domain.KeyAuthToken)
}

// Expiry returns the token expiry and whether one is stored.
func (s *Store) Expiry() (time.Time, bool) {
	raw := s.read(domain.KeyAuthTokenExpires)
	if raw == "" {
		return time.Time{}, false
	}
	expiry, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		slog.Error("session expiry unparseable", "value", raw, "error", err)
		return time.Time{}, false
	}
	return expiry, true
}

// IsAuthenticated reports whether a token exists and has not expired.
func (s *Store) IsAuthenticated() bool {
	if s.Token() == "" {
		return false
	}
	expiry, ok := s.Expiry()
	return ok && s.now().Before(expiry)
}

// Role returns the stored role name, or the empty string when
// unauthenticated.
func (s *Store) Role() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.read(domain.KeyUserRoleName)
}

// IsInRoles reports whether the authenticated user's role is one of roles.
func (s *Store) IsInRoles(roles ...string) bool {
	role := s.Role()
	if role == "" {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// UserID returns the stored user id, or the empty string when
// unauthenticated.
func (s *Store) UserID() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.read(domain.KeyUserID)
}

// Username returns the stored username, or the empty string when
// unauthenticated.
func (s *Store) Username() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.read(domain.KeyUsername)
}

// Email returns the stored email, or the empty string when unauthenticated.
func (s *Store) Email() string {
	if !s.IsAuthenticated() {
		return ""
	}
	return s.read(domain.KeyUserEmail)
}

func (s *Store) read(key string) string {
	val, _, err := s.storage.Get(key)
	if err != nil {
		slog.Error("session read failed", "key", key, "error", err)
		return ""
	}
	return val
}
