// Package server is the hosted REST backend. It owns persistence for remote
// clients and scopes every row to the authenticated user.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/store"
)

const (
	sessionTTL   = 30 * 24 * time.Hour
	magicLinkTTL = 15 * time.Minute
)

// Server is the launchdeck backend
type Server struct {
	store *store.Store
	log   *logger.Logger
	echo  *echo.Echo
	now   func() time.Time
}

// New creates a server over an opened store
func New(st *store.Store, log *logger.Logger) *Server {
	s := &Server{
		store: st,
		log:   log,
		now:   time.Now,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = s.handleError

	e.Use(s.requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)

	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	api.POST("/magic-link", s.handleMagicLink)
	api.GET("/magic-link/:token", s.handleMagicLinkVerify)

	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)

	protected.GET("/projects", s.handleListProjects)
	protected.POST("/projects", s.handleCreateProject)
	protected.PATCH("/projects/:id", s.handleUpdateProject)
	protected.GET("/projects/:id/tasks", s.handleListTasks)
	protected.GET("/projects/:id/milestones", s.handleListMilestones)

	protected.POST("/tasks", s.handleCreateTask)
	protected.PATCH("/tasks/:id", s.handleUpdateTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)

	protected.POST("/milestones", s.handleCreateMilestone)
	protected.PATCH("/milestones/:id", s.handleUpdateMilestone)
	protected.DELETE("/milestones/:id", s.handleDeleteMilestone)

	protected.POST("/reset", s.handleReset)

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.store.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	s.log.Info("server listening", logger.F("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		s.log.Error("health check failed", logger.Err(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReset(c echo.Context) error {
	uid := userID(c)
	if err := s.store.ResetAllUserData(c.Request().Context(), uid); err != nil {
		return s.fail(c, "reset failed", err)
	}
	s.log.Info("account data reset", logger.F("user_id", uid))
	return c.NoContent(http.StatusNoContent)
}

func errorJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"error": msg})
}

// fail maps store errors to responses. Missing and foreign rows look the same.
func (s *Server) fail(c echo.Context, msg string, err error) error {
	if errors.Is(err, gateway.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "not found")
	}
	s.log.Error(msg,
		logger.Err(err),
		logger.F("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		logger.F("uri", c.Request().RequestURI))
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}
