// Package kvstore provides a file-backed string key/value store. It stands in
// for the browser local storage the console's state layer was designed
// against: callers read and write flat string keys, and the whole store is
// persisted as a single JSON document.
package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists string keys and values under a directory.
type Store struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// Open loads or creates a store file under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: mkdir %s: %w", dir, err)
	}

	s := &Store{
		path:   filepath.Join(dir, "local_state.json"),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("kvstore: read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("kvstore: unmarshal %s: %w", s.path, err)
	}
	return s, nil
}

// Get returns the value for key. Missing keys read as the empty string with
// ok=false.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok, nil
}

// Set stores a value and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, had := s.values[key]
	s.values[key] = value
	if err := s.persistLocked(); err != nil {
		if had {
			s.values[key] = old
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

// Delete removes a key and persists the store. Deleting a missing key is a
// no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	old := s.values[key]
	delete(s.values, key)
	if err := s.persistLocked(); err != nil {
		s.values[key] = old
		return err
	}
	return nil
}

// persistLocked writes the store atomically: a temp file in the same
// directory is renamed over the live file so readers never observe a partial
// document.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("kvstore: marshal: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("kvstore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("kvstore: rename %s: %w", tmp, err)
	}
	return nil
}
