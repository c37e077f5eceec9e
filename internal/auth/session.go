package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const sessionFileName = ".epicevents_token"

// sessionEnvelope is the on-disk session format. Load extracts only the
// token field.
type sessionEnvelope struct {
	Token     string `json:"token"`
	CreatedAt string `json:"created_at"`
}

// SessionStore persists the active session token to a single well-known
// file in the local user's home directory. The token is a bearer
// credential, so the file is kept owner-read/write only.
type SessionStore struct {
	path string
	now  func() time.Time
}

// NewSessionStore builds a store writing to path. An empty path selects the
// default location under the current user's home directory.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, sessionFileName)
	}
	return &SessionStore{path: path, now: time.Now}, nil
}

// Path returns the session file location.
func (s *SessionStore) Path() string { return s.path }

// Store rewrites the session file wholesale. At most one token is ever
// active per local environment.
func (s *SessionStore) Store(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("auth: token is required")
	}
	data, err := json.Marshal(sessionEnvelope{
		Token:     token,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	// WriteFile keeps the existing mode when overwriting.
	if err := os.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("restrict session file: %w", err)
	}
	return nil
}

// Load returns the persisted token. A missing, unreadable or malformed
// session file reads as "no session"; the caller treats all three the same
// as an invalid session.
func (s *SessionStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var env sessionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", false
	}
	if strings.TrimSpace(env.Token) == "" {
		return "", false
	}
	return env.Token, true
}

// Clear removes the session file. Clearing an already-absent session is not
// an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
