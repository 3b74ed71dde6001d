package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Tokens is the user pool token set kept between invocations. The ID
// token is the session token handed to the federation exchange; the
// refresh token renews it; the access token is only needed to end the
// session with the provider.
type Tokens struct {
	Username     string    `json:"username"`
	IDToken      string    `json:"id_token"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TokenStore persists the signed-in user's token set. Load returns nil
// without error when nobody is signed in.
type TokenStore interface {
	Load() (*Tokens, error)
	Save(*Tokens) error
	Clear() error
}

// FileTokenStore keeps the token set as a JSON file under the user's
// home directory so the CLI stays signed in across invocations.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store at the default location,
// $HOME/.notes/session.json.
func NewFileTokenStore() (*FileTokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return &FileTokenStore{path: filepath.Join(home, ".notes", "session.json")}, nil
}

func (s *FileTokenStore) Load() (*Tokens, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var t Tokens
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &t, nil
}

func (s *FileTokenStore) Save(t *Tokens) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryTokenStore is an in-memory TokenStore.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens *Tokens
}

func (s *MemoryTokenStore) Load() (*Tokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokens == nil {
		return nil, nil
	}
	t := *s.tokens
	return &t, nil
}

func (s *MemoryTokenStore) Save(t *Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *t
	s.tokens = &copied
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = nil
	return nil
}
