// Package gateway defines the CRUD contract the dashboard core is written against.
// The store package implements it on a local database and the remote package
// implements it over the hosted REST API.
package gateway

import (
	"context"
	"errors"

	"github.com/existflow/launchdeck/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user
	ErrNotFound = errors.New("record not found")
	// ErrUnauthorized is returned when the caller has no valid session
	ErrUnauthorized = errors.New("not authenticated")
)

// Gateway persists projects, tasks and milestones for one user at a time.
// Every read and write is scoped by user id. Create calls assign ids and
// timestamps when the record carries none. UpdateTask keeps CompletedAt in
// step with the status in the patch.
type Gateway interface {
	ListProjects(ctx context.Context, userID string) ([]model.Project, error)
	CreateProject(ctx context.Context, p model.Project) (model.Project, error)
	UpdateProject(ctx context.Context, id, userID string, patch model.ProjectPatch) (model.Project, error)

	ListTasks(ctx context.Context, projectID, userID string) ([]model.Task, error)
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, id, userID string, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id, userID string) error

	ListMilestones(ctx context.Context, projectID, userID string) ([]model.Milestone, error)
	CreateMilestone(ctx context.Context, m model.Milestone) (model.Milestone, error)
	UpdateMilestone(ctx context.Context, id, userID string, patch model.MilestonePatch) (model.Milestone, error)
	DeleteMilestone(ctx context.Context, id, userID string) error

	// ResetAllUserData deletes tasks, then milestones, then projects
	ResetAllUserData(ctx context.Context, userID string) error
}
