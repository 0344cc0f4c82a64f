package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/model"
)

const taskColumns = `id, project_id, user_id, title, description, category, priority, status,
    estimated_hours, actual_hours, due_date, sprint_week, created_at, updated_at, completed_at,
    in_progress_started_at, in_progress_total_seconds, last_status_change_at`

func scanTask(row interface{ Scan(...any) error }) (model.Task, error) {
	var (
		t                                   model.Task
		created, updated                    string
		due, completed, started, lastChange sql.NullString
		totalSeconds                        sql.NullInt64
		err                                 error
	)
	if err = row.Scan(&t.ID, &t.ProjectID, &t.UserID, &t.Title, &t.Description, &t.Category,
		&t.Priority, &t.Status, &t.EstimatedHours, &t.ActualHours, &due, &t.SprintWeek,
		&created, &updated, &completed, &started, &totalSeconds, &lastChange); err != nil {
		return t, err
	}

	if t.CreatedAt, err = parseTime(created); err != nil {
		return t, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return t, err
	}
	for _, f := range []struct {
		src sql.NullString
		dst **time.Time
	}{
		{due, &t.DueDate},
		{completed, &t.CompletedAt},
		{started, &t.InProgressStartedAt},
		{lastChange, &t.LastStatusChangeAt},
	} {
		if *f.dst, err = parseNullTime(f.src); err != nil {
			return t, err
		}
	}
	if totalSeconds.Valid {
		secs := totalSeconds.Int64
		t.InProgressTotalSeconds = &secs
	}
	return t, nil
}

// taskArgs lists the mutable columns in UPDATE order
func taskArgs(t model.Task) []any {
	var total sql.NullInt64
	if t.InProgressTotalSeconds != nil {
		total = sql.NullInt64{Int64: *t.InProgressTotalSeconds, Valid: true}
	}
	return []any{
		t.Title, t.Description, t.Category, string(t.Priority), string(t.Status),
		t.EstimatedHours, t.ActualHours, formatNullTime(t.DueDate), t.SprintWeek,
		formatTime(t.UpdatedAt), formatNullTime(t.CompletedAt), formatNullTime(t.InProgressStartedAt),
		total, formatNullTime(t.LastStatusChangeAt),
	}
}

// ListTasks returns the tasks of one project owned by userID
func (s *Store) ListTasks(ctx context.Context, projectID, userID string) ([]model.Task, error) {
	rows, err := s.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ? AND user_id = ? ORDER BY created_at ASC`,
		projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns one task owned by userID
func (s *Store) GetTask(ctx context.Context, id, userID string) (model.Task, error) {
	t, err := scanTask(s.queryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return t, gateway.ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// CreateTask inserts a task into a project owned by the task's user
func (s *Store) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if err := s.ownsProject(ctx, t.ProjectID, t.UserID); err != nil {
		return t, err
	}
	now := s.now()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	switch {
	case t.Status != model.StatusCompleted:
		t.CompletedAt = nil
	case t.CompletedAt == nil:
		t.CompletedAt = &now
	}

	args := append([]any{t.ID, t.ProjectID, t.UserID, formatTime(t.CreatedAt)}, taskArgs(t)...)
	_, err := s.exec(ctx, `INSERT INTO tasks (id, project_id, user_id, created_at, title, description, category,
    priority, status, estimated_hours, actual_hours, due_date, sprint_week, updated_at, completed_at,
    in_progress_started_at, in_progress_total_seconds, last_status_change_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	if err != nil {
		return t, fmt.Errorf("failed to create task: %w", err)
	}
	return t, nil
}

// UpdateTask applies a partial update. Status changes maintain CompletedAt.
func (s *Store) UpdateTask(ctx context.Context, id, userID string, patch model.TaskPatch) (model.Task, error) {
	t, err := s.GetTask(ctx, id, userID)
	if err != nil {
		return t, err
	}
	t.Apply(patch, s.now())

	args := append(taskArgs(t), id, userID)
	res, err := s.exec(ctx, `UPDATE tasks SET title = ?, description = ?, category = ?, priority = ?, status = ?,
    estimated_hours = ?, actual_hours = ?, due_date = ?, sprint_week = ?, updated_at = ?, completed_at = ?,
    in_progress_started_at = ?, in_progress_total_seconds = ?, last_status_change_at = ?
    WHERE id = ? AND user_id = ?`, args...)
	if err != nil {
		return t, fmt.Errorf("failed to update task: %w", err)
	}
	return t, affected(res)
}

// DeleteTask removes a task owned by userID
func (s *Store) DeleteTask(ctx context.Context, id, userID string) error {
	res, err := s.exec(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return affected(res)
}
