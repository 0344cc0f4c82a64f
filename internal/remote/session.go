package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const sessionFile = "session.json"

// Session is the signed-in state persisted between CLI runs
type Session struct {
	ServerURL string    `json:"server_url"`
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`

	path string
}

// LoadSession reads dir/session.json. A missing file is an empty session.
func LoadSession(dir string) (*Session, error) {
	s := &Session{path: filepath.Join(dir, sessionFile)}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return s, fmt.Errorf("failed to parse session: %w", err)
	}
	return s, nil
}

// IsLoggedIn returns true if the session holds an unexpired token
func (s *Session) IsLoggedIn(now time.Time) bool {
	return s.Token != "" && (s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt))
}

// Save writes the session with owner-only permissions
func (s *Session) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear forgets the token and user, keeping the server URL
func (s *Session) Clear() error {
	s.Token = ""
	s.UserID = ""
	s.ExpiresAt = time.Time{}
	return s.Save()
}
