package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/existflow/launchdeck/internal/model"
)

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.store.ListProjects(c.Request().Context(), userID(c))
	if err != nil {
		return s.fail(c, "failed to list projects", err)
	}
	return c.JSON(http.StatusOK, projects)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var p model.Project
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if strings.TrimSpace(p.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	p.UserID = userID(c)

	created, err := s.store.CreateProject(c.Request().Context(), p)
	if err != nil {
		return s.fail(c, "failed to create project", err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateProject(c echo.Context) error {
	var patch model.ProjectPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name must not be empty")
	}

	p, err := s.store.UpdateProject(c.Request().Context(), c.Param("id"), userID(c), patch)
	if err != nil {
		return s.fail(c, "failed to update project", err)
	}
	return c.JSON(http.StatusOK, p)
}
