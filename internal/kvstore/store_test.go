package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := store.Set("Culture", "uk-ua"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	val, ok, err := store.Get("Culture")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !ok || val != "uk-ua" {
		t.Fatalf("Get() = %q, %v; want \"uk-ua\", true", val, ok)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Set("AuthToken", "abc123"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	val, ok, _ := reopened.Get("AuthToken")
	if !ok || val != "abc123" {
		t.Fatalf("Get() after reopen = %q, %v; want \"abc123\", true", val, ok)
	}
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Delete("nope"); err != nil {
		t.Fatalf("Delete() of missing key = %v; want nil", err)
	}
}

func TestGetMissingKey(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	val, ok, err := store.Get("absent")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if ok || val != "" {
		t.Fatalf("Get() = %q, %v; want \"\", false", val, ok)
	}
}

func TestPersistDoesNotLeaveTempFile(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.Set("k", "v"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "local_state.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}
