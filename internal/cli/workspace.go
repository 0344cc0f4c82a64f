package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/prefs"
	"github.com/existflow/launchdeck/internal/remote"
	"github.com/existflow/launchdeck/internal/service"
	"github.com/existflow/launchdeck/internal/store"
)

// workspace is the dashboard wired to the configured backend
type workspace struct {
	dash  *service.Dashboard
	prefs *prefs.Prefs
	close func() error
}

// openWorkspace connects to the local database or the hosted backend
func openWorkspace() (*workspace, error) {
	log := logger.Default()

	var (
		gw     gateway.Gateway
		userID string
		closer = func() error { return nil }
	)
	if cfg.IsRemote() {
		sess, err := remote.LoadSession(cfg.Dir())
		if err != nil {
			return nil, err
		}
		if !sess.IsLoggedIn(time.Now()) {
			return nil, errors.New("not logged in, run 'launchdeck auth login'")
		}
		gw = remote.New(cfg.ServerURL, sess.Token, log)
		userID = sess.UserID
	} else {
		st, err := store.Open(store.DriverSQLite, cfg.DatabasePath, log)
		if err != nil {
			logger.Error("Failed to open database", logger.Err(err))
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		gw = st
		userID = cfg.UserID
		closer = st.Close
	}

	dash, err := service.New(service.Options{Gateway: gw, UserID: userID, Logger: log})
	if err != nil {
		_ = closer()
		return nil, err
	}

	p, err := prefs.Load(cfg.Dir())
	if err != nil {
		logger.Warn("Failed to load prefs, using defaults", logger.Err(err))
	}
	return &workspace{dash: dash, prefs: p, close: closer}, nil
}

// Close releases the backend
func (w *workspace) Close() {
	if err := w.close(); err != nil {
		logger.Warn("Failed to close backend", logger.Err(err))
	}
}

// currentProject resolves --project, falling back to the last used project
func (w *workspace) currentProject(ctx context.Context) (model.Project, error) {
	projects, err := w.dash.LoadProjects(ctx)
	if err != nil {
		return model.Project{}, err
	}
	if projectRef != "" {
		return findProject(projects, projectRef)
	}
	p, ok := w.prefs.PickProject(projects)
	if !ok {
		return p, errors.New("no projects yet, create one with 'launchdeck project new'")
	}
	return p, nil
}

// loadCurrent loads the current project with its tasks and milestones
func (w *workspace) loadCurrent(ctx context.Context) (service.ProjectData, error) {
	p, err := w.currentProject(ctx)
	if err != nil {
		return service.ProjectData{}, err
	}
	return w.dash.LoadProject(ctx, p)
}

// findProject matches an exact id, a unique id prefix or a case-insensitive name
func findProject(projects []model.Project, ref string) (model.Project, error) {
	var matches []model.Project
	for _, p := range projects {
		if p.ID == ref {
			return p, nil
		}
		if strings.HasPrefix(p.ID, ref) || strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return model.Project{}, fmt.Errorf("project not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	return model.Project{}, fmt.Errorf("project %q is ambiguous (%d matches)", ref, len(matches))
}

// findTask matches an exact id or a unique id prefix
func findTask(tasks []model.Task, ref string) (model.Task, error) {
	var matches []model.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Task{}, fmt.Errorf("task not found: %s", ref)
	case 1:
		return matches[0], nil
	}
	return model.Task{}, fmt.Errorf("task %q is ambiguous (%d matches)", ref, len(matches))
}

func findTasks(tasks []model.Task, refs []string) ([]model.Task, error) {
	out := make([]model.Task, 0, len(refs))
	for _, ref := range refs {
		t, err := findTask(tasks, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// parseDay reads a YYYY-MM-DD flag as a calendar date (UTC midnight, like
// every stored date)
func parseDay(s string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

// today is the local calendar date as a UTC midnight
func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
