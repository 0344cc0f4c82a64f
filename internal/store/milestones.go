package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/model"
)

const milestoneColumns = `id, project_id, user_id, title, description, target_date, status, progress, created_at, updated_at`

func scanMilestone(row interface{ Scan(...any) error }) (model.Milestone, error) {
	var (
		m                        model.Milestone
		target, created, updated string
		err                      error
	)
	if err = row.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Title, &m.Description, &target,
		&m.Status, &m.Progress, &created, &updated); err != nil {
		return m, err
	}
	if m.TargetDate, err = parseTime(target); err != nil {
		return m, err
	}
	if m.CreatedAt, err = parseTime(created); err != nil {
		return m, err
	}
	m.UpdatedAt, err = parseTime(updated)
	return m, err
}

// ListMilestones returns a project's milestones ordered by target date
func (s *Store) ListMilestones(ctx context.Context, projectID, userID string) ([]model.Milestone, error) {
	rows, err := s.query(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE project_id = ? AND user_id = ?
    ORDER BY target_date ASC, created_at ASC`, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	milestones := []model.Milestone{}
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// GetMilestone returns one milestone owned by userID
func (s *Store) GetMilestone(ctx context.Context, id, userID string) (model.Milestone, error) {
	m, err := scanMilestone(s.queryRow(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return m, gateway.ErrNotFound
	}
	if err != nil {
		return m, fmt.Errorf("failed to get milestone: %w", err)
	}
	return m, nil
}

// CreateMilestone inserts a milestone into a project owned by the milestone's user
func (s *Store) CreateMilestone(ctx context.Context, m model.Milestone) (model.Milestone, error) {
	if err := s.ownsProject(ctx, m.ProjectID, m.UserID); err != nil {
		return m, err
	}
	now := s.now()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = model.StatusNotStarted
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	m.Progress = min(max(m.Progress, 0), 100)

	_, err := s.exec(ctx, `INSERT INTO milestones (`+milestoneColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ProjectID, m.UserID, m.Title, m.Description, formatTime(m.TargetDate),
		string(m.Status), m.Progress, formatTime(m.CreatedAt), formatTime(m.UpdatedAt))
	if err != nil {
		return m, fmt.Errorf("failed to create milestone: %w", err)
	}
	return m, nil
}

// UpdateMilestone applies a partial update to a milestone owned by userID
func (s *Store) UpdateMilestone(ctx context.Context, id, userID string, patch model.MilestonePatch) (model.Milestone, error) {
	m, err := s.GetMilestone(ctx, id, userID)
	if err != nil {
		return m, err
	}
	m.Apply(patch, s.now())

	res, err := s.exec(ctx, `UPDATE milestones SET title = ?, description = ?, target_date = ?, status = ?,
    progress = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		m.Title, m.Description, formatTime(m.TargetDate), string(m.Status), m.Progress,
		formatTime(m.UpdatedAt), id, userID)
	if err != nil {
		return m, fmt.Errorf("failed to update milestone: %w", err)
	}
	return m, affected(res)
}

// DeleteMilestone removes a milestone owned by userID
func (s *Store) DeleteMilestone(ctx context.Context, id, userID string) error {
	res, err := s.exec(ctx, `DELETE FROM milestones WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete milestone: %w", err)
	}
	return affected(res)
}
