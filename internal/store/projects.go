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

const projectColumns = `id, user_id, name, description, start_date, target_launch_date,
    current_sprint, total_sprints, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var (
		p                                  model.Project
		start, target, created, updatedStr string
		err                                error
	)
	if err = row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &start, &target,
		&p.CurrentSprint, &p.TotalSprints, &created, &updatedStr); err != nil {
		return p, err
	}
	if p.StartDate, err = parseTime(start); err != nil {
		return p, err
	}
	if p.TargetLaunchDate, err = parseTime(target); err != nil {
		return p, err
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return p, err
	}
	p.UpdatedAt, err = parseTime(updatedStr)
	return p, err
}

// ListProjects returns the user's projects, oldest first
func (s *Store) ListProjects(ctx context.Context, userID string) ([]model.Project, error) {
	rows, err := s.query(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProject returns one project owned by userID
func (s *Store) GetProject(ctx context.Context, id, userID string) (model.Project, error) {
	p, err := scanProject(s.queryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return p, gateway.ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// CreateProject inserts a project, assigning an id and timestamps when missing
func (s *Store) CreateProject(ctx context.Context, p model.Project) (model.Project, error) {
	now := s.now()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.CurrentSprint == 0 {
		p.CurrentSprint = 1
	}

	_, err := s.exec(ctx, `INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Name, p.Description, formatTime(p.StartDate), formatTime(p.TargetLaunchDate),
		p.CurrentSprint, p.TotalSprints, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return p, fmt.Errorf("failed to create project: %w", err)
	}
	return p, nil
}

// UpdateProject applies a partial update to a project owned by userID
func (s *Store) UpdateProject(ctx context.Context, id, userID string, patch model.ProjectPatch) (model.Project, error) {
	p, err := s.GetProject(ctx, id, userID)
	if err != nil {
		return p, err
	}
	p.Apply(patch, s.now())

	res, err := s.exec(ctx, `UPDATE projects SET name = ?, description = ?, start_date = ?, target_launch_date = ?,
    current_sprint = ?, total_sprints = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		p.Name, p.Description, formatTime(p.StartDate), formatTime(p.TargetLaunchDate),
		p.CurrentSprint, p.TotalSprints, formatTime(p.UpdatedAt), id, userID)
	if err != nil {
		return p, fmt.Errorf("failed to update project: %w", err)
	}
	return p, affected(res)
}

// ownsProject returns gateway.ErrNotFound unless userID owns the project
func (s *Store) ownsProject(ctx context.Context, projectID, userID string) error {
	var one int
	err := s.queryRow(ctx, `SELECT 1 FROM projects WHERE id = ? AND user_id = ?`, projectID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return gateway.ErrNotFound
	}
	return err
}
