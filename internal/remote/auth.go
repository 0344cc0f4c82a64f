package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

type authResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// Register creates an account and stores the new session
func (c *Client) Register(ctx context.Context, sess *Session, username, email, password string) error {
	var res authResult
	err := c.do(ctx, http.MethodPost, "/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return fmt.Errorf("register failed: %w", err)
	}
	return c.adopt(sess, res)
}

// Login authenticates with username or email and stores the session
func (c *Client) Login(ctx context.Context, sess *Session, login, password string) error {
	var res authResult
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"username": login,
		"password": password,
	}, &res)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return c.adopt(sess, res)
}

// RequestMagicLink asks for a passwordless login token. The token is empty
// when the email has no account.
func (c *Client) RequestMagicLink(ctx context.Context, email string) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/magic-link", map[string]string{"email": email}, &res); err != nil {
		return "", fmt.Errorf("magic link request failed: %w", err)
	}
	return res.Token, nil
}

// VerifyMagicLink exchanges a magic link token for a session
func (c *Client) VerifyMagicLink(ctx context.Context, sess *Session, token string) error {
	var res authResult
	if err := c.do(ctx, http.MethodGet, "/magic-link/"+url.PathEscape(token), nil, &res); err != nil {
		return fmt.Errorf("magic link login failed: %w", err)
	}
	return c.adopt(sess, res)
}

// Logout revokes the token on the server and clears the session file.
// The local session is cleared even if the server call fails.
func (c *Client) Logout(ctx context.Context, sess *Session) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	c.token = ""
	if clearErr := sess.Clear(); clearErr != nil {
		return clearErr
	}
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// Me returns the signed-in account
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodGet, "/me", nil, &u)
	return u, err
}

func (c *Client) adopt(sess *Session, res authResult) error {
	c.token = res.Token
	sess.ServerURL = c.baseURL
	sess.Token = res.Token
	sess.UserID = res.UserID
	sess.ExpiresAt, _ = time.Parse(time.RFC3339, res.ExpiresAt)
	return sess.Save()
}
