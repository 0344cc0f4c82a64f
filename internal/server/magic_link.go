package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
)

type magicLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MagicLinkResponse acknowledges a link request. Token is only set when the
// email belongs to an account; there is no mail transport, so the client
// completes the link itself.
type MagicLinkResponse struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

const magicLinkMessage = "if email exists, a magic link will be sent"

// handleMagicLink creates a single-use passwordless login token
func (s *Server) handleMagicLink(c echo.Context) error {
	var req magicLinkRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := s.store.UserByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			return c.JSON(http.StatusOK, MagicLinkResponse{Message: magicLinkMessage})
		}
		return s.fail(c, "failed to look up user", err)
	}

	token, err := newToken()
	if err != nil {
		return s.fail(c, "token generation error", err)
	}
	link := model.MagicLink{
		Token:     token,
		Email:     req.Email,
		ExpiresAt: s.now().Add(magicLinkTTL),
	}
	if err := s.store.CreateMagicLink(ctx, link); err != nil {
		return s.fail(c, "failed to create magic link", err)
	}

	s.log.Info("magic link created", logger.F("email", req.Email))
	return c.JSON(http.StatusOK, MagicLinkResponse{Message: magicLinkMessage, Token: token})
}

// handleMagicLinkVerify consumes a link and opens a session
func (s *Server) handleMagicLinkVerify(c echo.Context) error {
	token := c.Param("token")
	ctx := c.Request().Context()

	link, err := s.store.ConsumeMagicLink(ctx, token)
	if errors.Is(err, gateway.ErrNotFound) {
		return errorJSON(c, http.StatusBadRequest, "invalid or used token")
	}
	if err != nil {
		return s.fail(c, "failed to consume magic link", err)
	}
	if link.IsExpired(s.now()) {
		return errorJSON(c, http.StatusBadRequest, "token expired")
	}

	user, err := s.store.UserByEmail(ctx, link.Email)
	if err != nil {
		return s.fail(c, "failed to load user", err)
	}

	s.log.Info("magic link login", logger.F("user_id", user.ID))
	return s.openSession(c, user.ID)
}
