// Package tokenstore keeps the operator's bearer token between runs
package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"feeder-workbench/application/ports"
)

// expired reports whether a JWT's exp claim is in the past.
// Opaque tokens carry no claim and are left for the backend to judge.
func expired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// FileStore persists the token in a single file readable only by its owner
type FileStore struct {
	mu    sync.RWMutex
	path  string
	token string
	now   func() time.Time
}

var _ ports.TokenStore = (*FileStore)(nil)

// NewFileStore opens the store at path, loading any token already saved there
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("token file path is required")
	}
	s := &FileStore{path: path, now: time.Now}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		s.token = strings.TrimSpace(string(data))
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	return s, nil
}

// Token returns the stored token
func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Save writes the token to disk
func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	s.token = token
	return nil
}

// Clear forgets the token
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// Expired reports whether the token's exp claim has passed
func (s *FileStore) Expired(token string) bool {
	return expired(token, s.now())
}

// MemoryStore keeps the token for the life of the process only
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	now   func() time.Time
}

var _ ports.TokenStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Token returns the stored token
func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Save keeps the token
func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear forgets the token
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Expired reports whether the token's exp claim has passed
func (s *MemoryStore) Expired(token string) bool {
	return expired(token, s.now())
}
