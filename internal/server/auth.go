package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/store"
)

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"` // username or email
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by every endpoint that opens a session
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// handleRegister creates an account and signs it in
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return s.fail(c, "bcrypt error", err)
	}

	user, err := s.store.CreateUser(c.Request().Context(), model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if errors.Is(err, store.ErrDuplicateUser) {
		return errorJSON(c, http.StatusConflict, err.Error())
	}
	if err != nil {
		return s.fail(c, "failed to register user", err)
	}

	s.log.Info("user registered", logger.F("user_id", user.ID))
	return s.openSession(c, user.ID)
}

// handleLogin checks credentials and opens a session
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	user, err := s.store.UserByLogin(c.Request().Context(), req.Username)
	if errors.Is(err, gateway.ErrNotFound) {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return s.fail(c, "failed to look up user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	s.log.Info("user logged in", logger.F("user_id", user.ID))
	return s.openSession(c, user.ID)
}

// handleLogout revokes the calling session
func (s *Server) handleLogout(c echo.Context) error {
	token, _ := c.Get(ctxToken).(string)
	if err := s.store.DeleteSession(c.Request().Context(), token); err != nil {
		return s.fail(c, "failed to delete session", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleMe returns current user info
func (s *Server) handleMe(c echo.Context) error {
	user, err := s.store.UserByID(c.Request().Context(), userID(c))
	if err != nil {
		return s.fail(c, "failed to load user", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) openSession(c echo.Context, uid string) error {
	token, err := newToken()
	if err != nil {
		return s.fail(c, "token generation error", err)
	}
	sess := model.Session{
		Token:     token,
		UserID:    uid,
		ExpiresAt: s.now().Add(sessionTTL),
	}
	if err := s.store.CreateSession(c.Request().Context(), sess); err != nil {
		return s.fail(c, "session error", err)
	}
	return c.JSON(http.StatusOK, AuthResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
		UserID:    uid,
	})
}

// newToken returns 32 random bytes, hex encoded
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
