package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/model"
)

// ErrDuplicateUser is returned when the username or email is taken
var ErrDuplicateUser = errors.New("username or email already exists")

// CreateUser inserts an account. The caller hashes the password.
func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	var count int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`, u.Username, u.Email).Scan(&count); err != nil {
		return u, fmt.Errorf("failed to check user: %w", err)
	}
	if count > 0 {
		return u, ErrDuplicateUser
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = s.now()
	_, err := s.exec(ctx, `INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, formatTime(u.CreatedAt))
	if err != nil {
		return u, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *Store) userWhere(ctx context.Context, where string, arg any) (model.User, error) {
	var (
		u       model.User
		created string
	)
	err := s.queryRow(ctx, `SELECT id, username, email, password_hash, created_at FROM users WHERE `+where, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return u, gateway.ErrNotFound
	}
	if err != nil {
		return u, fmt.Errorf("failed to get user: %w", err)
	}
	u.CreatedAt, err = parseTime(created)
	return u, err
}

// UserByLogin finds a user by username or email
func (s *Store) UserByLogin(ctx context.Context, login string) (model.User, error) {
	if strings.Contains(login, "@") {
		return s.userWhere(ctx, "email = ?", login)
	}
	return s.userWhere(ctx, "username = ?", login)
}

// UserByEmail finds a user by email
func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.userWhere(ctx, "email = ?", email)
}

// UserByID finds a user by id
func (s *Store) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.userWhere(ctx, "id = ?", id)
}

// CreateSession stores a bearer token
func (s *Store) CreateSession(ctx context.Context, sess model.Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = s.now()
	}
	_, err := s.exec(ctx, `INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		sess.Token, sess.UserID, formatTime(sess.ExpiresAt), formatTime(sess.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// SessionByToken returns a session, expired or not
func (s *Store) SessionByToken(ctx context.Context, token string) (model.Session, error) {
	var (
		sess             model.Session
		expires, created string
	)
	err := s.queryRow(ctx, `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`, token).
		Scan(&sess.Token, &sess.UserID, &expires, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, gateway.ErrNotFound
	}
	if err != nil {
		return sess, fmt.Errorf("failed to get session: %w", err)
	}
	if sess.ExpiresAt, err = parseTime(expires); err != nil {
		return sess, err
	}
	sess.CreatedAt, err = parseTime(created)
	return sess, err
}

// DeleteSession revokes a bearer token
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.exec(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CreateMagicLink stores a single-use login token
func (s *Store) CreateMagicLink(ctx context.Context, link model.MagicLink) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = s.now()
	}
	_, err := s.exec(ctx, `INSERT INTO magic_links (token, email, used, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		link.Token, link.Email, link.Used, formatTime(link.ExpiresAt), formatTime(link.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create magic link: %w", err)
	}
	return nil
}

// ConsumeMagicLink marks an unused link as used and returns it.
// A link that is missing or already used yields gateway.ErrNotFound.
func (s *Store) ConsumeMagicLink(ctx context.Context, token string) (model.MagicLink, error) {
	var (
		link             model.MagicLink
		expires, created string
	)
	err := s.queryRow(ctx, `SELECT token, email, used, expires_at, created_at FROM magic_links WHERE token = ? AND used = ?`,
		token, false).Scan(&link.Token, &link.Email, &link.Used, &expires, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return link, gateway.ErrNotFound
	}
	if err != nil {
		return link, fmt.Errorf("failed to get magic link: %w", err)
	}
	if link.ExpiresAt, err = parseTime(expires); err != nil {
		return link, err
	}
	if link.CreatedAt, err = parseTime(created); err != nil {
		return link, err
	}

	res, err := s.exec(ctx, `UPDATE magic_links SET used = ? WHERE token = ? AND used = ?`, true, token, false)
	if err != nil {
		return link, fmt.Errorf("failed to mark magic link used: %w", err)
	}
	if err := affected(res); err != nil {
		return link, err
	}
	link.Used = true
	return link, nil
}
