package model

import "time"

// User is an account on the hosted backend
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a bearer token issued at login
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// MagicLink is a single-use passwordless login token
type MagicLink struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired at now
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsExpired returns true if the magic link has expired at now
func (m *MagicLink) IsExpired(now time.Time) bool {
	return now.After(m.ExpiresAt)
}
