package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/existflow/launchdeck/internal/model"
)

func (s *Server) handleListTasks(c echo.Context) error {
	tasks, err := s.store.ListTasks(c.Request().Context(), c.Param("id"), userID(c))
	if err != nil {
		return s.fail(c, "failed to list tasks", err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var t model.Task
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if t.ProjectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if t.Status == "" {
		t.Status = model.StatusNotStarted
	}
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	if err := checkTaskEnums(&t.Status, &t.Priority); err != nil {
		return err
	}
	t.UserID = userID(c)

	created, err := s.store.CreateTask(c.Request().Context(), t)
	if err != nil {
		return s.fail(c, "failed to create task", err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var patch model.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
	}
	if err := checkTaskEnums(patch.Status, patch.Priority); err != nil {
		return err
	}

	t, err := s.store.UpdateTask(c.Request().Context(), c.Param("id"), userID(c), patch)
	if err != nil {
		return s.fail(c, "failed to update task", err)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	if err := s.store.DeleteTask(c.Request().Context(), c.Param("id"), userID(c)); err != nil {
		return s.fail(c, "failed to delete task", err)
	}
	return c.NoContent(http.StatusNoContent)
}

var priorities = []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}

// checkTaskEnums accepts wire labels only. Nil skips the check.
func checkTaskEnums(status *model.Status, priority *model.Priority) error {
	if status != nil && !slices.Contains(model.TaskStatuses, *status) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
	}
	if priority != nil && !slices.Contains(priorities, *priority) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown priority")
	}
	return nil
}
