package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/logger"
)

const (
	ctxUserID = "user_id"
	ctxToken  = "token"
)

// requestLogger writes one entry per request through the structured logger
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		s.log.Debug("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("remote", req.RemoteAddr))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		s.log.Info("HTTP Response",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()))
		return nil
	}
}

// authMiddleware checks the bearer token and stores the session's user id
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return errorJSON(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return errorJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		session, err := s.store.SessionByToken(c.Request().Context(), token)
		if errors.Is(err, gateway.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid token")
		}
		if err != nil {
			return s.fail(c, "session lookup failed", err)
		}
		if session.IsExpired(s.now()) {
			return errorJSON(c, http.StatusUnauthorized, "token expired")
		}

		c.Set(ctxUserID, session.UserID)
		c.Set(ctxToken, token)
		return next(c)
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}

// requestValidator plugs validator/v10 into echo's c.Validate
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{v: validator.New()}
}

func (r *requestValidator) Validate(i any) error {
	return r.v.Struct(i)
}

// bindValid decodes and validates a request body
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err))
	}
	return nil
}

// handleError renders every returned error as {"error": "..."}
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := http.StatusInternalServerError, "internal error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		s.log.Error("unhandled error", logger.Err(err), logger.F("uri", c.Request().RequestURI))
	}
	if err := errorJSON(c, code, msg); err != nil {
		s.log.Error("failed to write error response", logger.Err(err))
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	}
	return field + " is invalid"
}
