package session

import (
	"errors"
	"testing"
	"time"

	"github.com/quotedesk/quotedesk/internal/domain"
)

// fakeStorage is an in-memory Storage that can fail writes to a chosen key.
type fakeStorage struct {
	values  map[string]string
	failSet map[string]error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{values: make(map[string]string), failSet: make(map[string]error)}
}

func (f *fakeStorage) Get(key string) (string, bool, error) {
	val, ok := f.values[key]
	return val, ok, nil
}

func (f *fakeStorage) Set(key, value string) error {
	if err := f.failSet[key]; err != nil {
		return err
	}
	f.values[key] = value
	return nil
}

func (f *fakeStorage) Delete(key string) error {
	delete(f.values, key)
	return nil
}

func setValidSession(t *testing.T, store *Store) {
	t.Helper()
	err := store.SetSession("tok", time.Now().Add(time.Hour), "u1", domain.RoleAdmin, "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("SetSession() failed: %v", err)
	}
}

func TestIsAuthenticatedWithValidToken(t *testing.T) {
	store := NewStore(newFakeStorage())
	setValidSession(t, store)

	if !store.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = false; want true")
	}
	if got := store.Role(); got != domain.RoleAdmin {
		t.Fatalf("Role() = %q; want %q", got, domain.RoleAdmin)
	}
	if got := store.Username(); got != "alice" {
		t.Fatalf("Username() = %q; want \"alice\"", got)
	}
}

func TestExpiredTokenReadsAsUnauthenticated(t *testing.T) {
	store := NewStore(newFakeStorage())
	err := store.SetSession("tok", time.Now().Add(-time.Minute), "u1", domain.RoleUser, "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("SetSession() failed: %v", err)
	}

	if store.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = true for expired token; want false")
	}
	if got := store.Role(); got != "" {
		t.Fatalf("Role() = %q for expired token; want empty", got)
	}
}

func TestSetSessionPartialFailureLeavesNoSession(t *testing.T) {
	storage := newFakeStorage()
	// Fail a key in the middle of the fixed write order.
	storage.failSet[domain.KeyUserRoleName] = errors.New("disk full")
	store := NewStore(storage)

	err := store.SetSession("tok", time.Now().Add(time.Hour), "u1", domain.RoleAdmin, "alice", "alice@example.com")
	if !errors.Is(err, ErrNotEstablished) {
		t.Fatalf("SetSession() = %v; want ErrNotEstablished", err)
	}

	if store.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = true after partial write; want false")
	}
	if _, ok := storage.values[domain.KeyAuthToken]; ok {
		t.Fatal("AuthToken survived rollback")
	}
	if _, ok := storage.values[domain.KeyAuthTokenExpires]; ok {
		t.Fatal("AuthTokenExpires survived rollback")
	}
}

func TestClearSessionIsIdempotent(t *testing.T) {
	store := NewStore(newFakeStorage())
	setValidSession(t, store)

	store.ClearSession()
	store.ClearSession()

	if store.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = true after clear; want false")
	}
	if got := store.Token(); got != "" {
		t.Fatalf("Token() = %q after clear; want empty", got)
	}
}

func TestIsInRoles(t *testing.T) {
	store := NewStore(newFakeStorage())
	setValidSession(t, store)

	if !store.IsInRoles(domain.RoleAdmin, domain.RoleCompanyAdmin) {
		t.Fatal("IsInRoles(Admin, CompanyAdmin) = false; want true")
	}
	if store.IsInRoles(domain.RoleUser) {
		t.Fatal("IsInRoles(User) = true; want false")
	}
}

func TestUnparseableExpiryReadsAsUnauthenticated(t *testing.T) {
	storage := newFakeStorage()
	storage.values[domain.KeyAuthToken] = "tok"
	storage.values[domain.KeyAuthTokenExpires] = "not-a-time"
	store := NewStore(storage)

	if store.IsAuthenticated() {
		t.Fatal("IsAuthenticated() = true with garbage expiry; want false")
	}
}
