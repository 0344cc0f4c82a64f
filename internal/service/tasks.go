package service

import (
	"context"

	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/timetrack"
)

// CreateTask validates the form and creates a task with tracking enabled
func (d *Dashboard) CreateTask(ctx context.Context, form TaskForm) (model.Task, error) {
	if err := checkForm(form); err != nil {
		return model.Task{}, err
	}

	now := d.Now()
	t := model.NewTask(d.ids(), form.ProjectID, d.userID, form.Title)
	t.Description = form.Description
	t.EstimatedHours = form.EstimatedHours
	t.DueDate = form.DueDate
	t.CreatedAt, t.UpdatedAt = now, now
	if form.Category != "" {
		t.Category = form.Category
	}
	if form.Priority != "" {
		t.Priority = form.Priority
	}
	if form.SprintWeek > 0 {
		t.SprintWeek = form.SprintWeek
	}
	if form.Status != "" && form.Status != t.Status {
		t.Status = form.Status
		t.LastStatusChangeAt = &now
		switch form.Status {
		case model.StatusInProgress:
			t.InProgressStartedAt = &now
		case model.StatusCompleted:
			t.CompletedAt = &now
		}
	}

	created, err := d.gw.CreateTask(ctx, t)
	if err != nil {
		return model.Task{}, d.fail("create task", err, logger.F("project_id", form.ProjectID))
	}
	return created, nil
}

// UpdateTask applies an edit. A status in the patch goes through the same
// time-tracking rules as ChangeTaskStatus.
func (d *Dashboard) UpdateTask(ctx context.Context, current model.Task, patch model.TaskPatch) (model.Task, error) {
	if patch.Title != nil {
		if err := checkForm(struct {
			Title string `validate:"required,nonempty,max=200"`
		}{*patch.Title}); err != nil {
			return model.Task{}, err
		}
	}
	if patch.Status != nil {
		tracked := d.statusPatch(current, *patch.Status)
		patch.LastStatusChangeAt = tracked.LastStatusChangeAt
		patch.InProgressStartedAt = tracked.InProgressStartedAt
		patch.InProgressTotalSeconds = tracked.InProgressTotalSeconds
		if tracked.ActualHours != nil {
			patch.ActualHours = tracked.ActualHours
		}
	}

	updated, err := d.gw.UpdateTask(ctx, current.ID, d.userID, patch)
	if err != nil {
		return model.Task{}, d.fail("update task", err, logger.F("task_id", current.ID))
	}
	return updated, nil
}

// ChangeTaskStatus moves a task to a new status and maintains its time tracking
func (d *Dashboard) ChangeTaskStatus(ctx context.Context, current model.Task, status model.Status) (model.Task, error) {
	patch := d.statusPatch(current, status)
	updated, err := d.gw.UpdateTask(ctx, current.ID, d.userID, patch)
	if err != nil {
		return model.Task{}, d.fail("update task status", err,
			logger.F("task_id", current.ID), logger.F("status", status))
	}
	return updated, nil
}

// statusPatch builds the tracking patch for a transition. When a session
// closes the rounded total is also written to ActualHours. A legacy task keeps
// its stored hours as the starting total the first time a session closes.
func (d *Dashboard) statusPatch(current model.Task, status model.Status) model.TaskPatch {
	now := d.Now()
	patch := timetrack.StatusChangeUpdates(current.Status, status, current, now)
	if patch.InProgressTotalSeconds == nil {
		return patch
	}
	if !current.HasTimeTracking() {
		total := *patch.InProgressTotalSeconds + int64(current.ActualHours*3600)
		patch.InProgressTotalSeconds = &total
	}

	projected := current
	projected.Apply(patch, now)
	hours := timetrack.ActualHours(projected, now)
	patch.ActualHours = &hours
	return patch
}

// DeleteTask removes a task
func (d *Dashboard) DeleteTask(ctx context.Context, id string) error {
	if err := d.gw.DeleteTask(ctx, id, d.userID); err != nil {
		return d.fail("delete task", err, logger.F("task_id", id))
	}
	return nil
}
