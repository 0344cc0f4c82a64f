package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/existflow/launchdeck/internal/model"
)

func (s *Server) handleListMilestones(c echo.Context) error {
	ms, err := s.store.ListMilestones(c.Request().Context(), c.Param("id"), userID(c))
	if err != nil {
		return s.fail(c, "failed to list milestones", err)
	}
	return c.JSON(http.StatusOK, ms)
}

func (s *Server) handleCreateMilestone(c echo.Context) error {
	var m model.Milestone
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if m.ProjectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	if strings.TrimSpace(m.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if m.Status == "" {
		m.Status = model.StatusNotStarted
	}
	if err := checkMilestoneStatus(&m.Status); err != nil {
		return err
	}
	m.Progress = min(max(m.Progress, 0), 100)
	m.UserID = userID(c)

	created, err := s.store.CreateMilestone(c.Request().Context(), m)
	if err != nil {
		return s.fail(c, "failed to create milestone", err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateMilestone(c echo.Context) error {
	var patch model.MilestonePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := checkMilestoneStatus(patch.Status); err != nil {
		return err
	}

	m, err := s.store.UpdateMilestone(c.Request().Context(), c.Param("id"), userID(c), patch)
	if err != nil {
		return s.fail(c, "failed to update milestone", err)
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) handleDeleteMilestone(c echo.Context) error {
	if err := s.store.DeleteMilestone(c.Request().Context(), c.Param("id"), userID(c)); err != nil {
		return s.fail(c, "failed to delete milestone", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// milestones never take Blocked
func checkMilestoneStatus(status *model.Status) error {
	if status == nil {
		return nil
	}
	switch *status {
	case model.StatusNotStarted, model.StatusInProgress, model.StatusCompleted:
		return nil
	}
	return echo.NewHTTPError(http.StatusBadRequest, "unknown milestone status")
}
