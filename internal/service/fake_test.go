package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/model"
)

var errBackend = errors.New("backend unavailable")

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeGateway keeps records in memory. fail["op:id"] or fail["op"] injects errors.
type fakeGateway struct {
	mu         sync.Mutex
	clock      *testClock
	projects   map[string]model.Project
	tasks      map[string]model.Task
	milestones map[string]model.Milestone
	fail       map[string]error
	calls      []string
	seq        int
}

func newFakeGateway(clock *testClock) *fakeGateway {
	return &fakeGateway{
		clock:      clock,
		projects:   map[string]model.Project{},
		tasks:      map[string]model.Task{},
		milestones: map[string]model.Milestone{},
		fail:       map[string]error{},
	}
}

func (f *fakeGateway) check(op, id string) error {
	f.calls = append(f.calls, op+":"+id)
	if err, ok := f.fail[op+":"+id]; ok {
		return err
	}
	return f.fail[op]
}

func (f *fakeGateway) nextID(prefix string, id string) string {
	if id != "" {
		return id
	}
	f.seq++
	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeGateway) ListProjects(_ context.Context, userID string) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ListProjects", userID); err != nil {
		return nil, err
	}
	var out []model.Project
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeGateway) CreateProject(_ context.Context, p model.Project) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("CreateProject", p.Name); err != nil {
		return p, err
	}
	p.ID = f.nextID("p", p.ID)
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeGateway) UpdateProject(_ context.Context, id, userID string, patch model.ProjectPatch) (model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("UpdateProject", id); err != nil {
		return model.Project{}, err
	}
	p, ok := f.projects[id]
	if !ok || p.UserID != userID {
		return p, gateway.ErrNotFound
	}
	p.Apply(patch, f.clock.Now())
	f.projects[id] = p
	return p, nil
}

func (f *fakeGateway) ListTasks(_ context.Context, projectID, userID string) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ListTasks", projectID); err != nil {
		return nil, err
	}
	var out []model.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID && t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeGateway) CreateTask(_ context.Context, t model.Task) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("CreateTask", t.Title); err != nil {
		return t, err
	}
	t.ID = f.nextID("t", t.ID)
	f.tasks[t.ID] = t
	return t, nil
}

func (f *fakeGateway) UpdateTask(_ context.Context, id, userID string, patch model.TaskPatch) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("UpdateTask", id); err != nil {
		return model.Task{}, err
	}
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return t, gateway.ErrNotFound
	}
	t.Apply(patch, f.clock.Now())
	f.tasks[id] = t
	return t, nil
}

func (f *fakeGateway) DeleteTask(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("DeleteTask", id); err != nil {
		return err
	}
	if t, ok := f.tasks[id]; !ok || t.UserID != userID {
		return gateway.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeGateway) ListMilestones(_ context.Context, projectID, userID string) ([]model.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ListMilestones", projectID); err != nil {
		return nil, err
	}
	var out []model.Milestone
	for _, m := range f.milestones {
		if m.ProjectID == projectID && m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeGateway) CreateMilestone(_ context.Context, m model.Milestone) (model.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("CreateMilestone", m.Title); err != nil {
		return m, err
	}
	m.ID = f.nextID("m", m.ID)
	f.milestones[m.ID] = m
	return m, nil
}

func (f *fakeGateway) UpdateMilestone(_ context.Context, id, userID string, patch model.MilestonePatch) (model.Milestone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("UpdateMilestone", id); err != nil {
		return model.Milestone{}, err
	}
	m, ok := f.milestones[id]
	if !ok || m.UserID != userID {
		return m, gateway.ErrNotFound
	}
	m.Apply(patch, f.clock.Now())
	f.milestones[id] = m
	return m, nil
}

func (f *fakeGateway) DeleteMilestone(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("DeleteMilestone", id); err != nil {
		return err
	}
	if m, ok := f.milestones[id]; !ok || m.UserID != userID {
		return gateway.ErrNotFound
	}
	delete(f.milestones, id)
	return nil
}

func (f *fakeGateway) ResetAllUserData(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("ResetAllUserData", userID); err != nil {
		return err
	}
	for id, t := range f.tasks {
		if t.UserID == userID {
			delete(f.tasks, id)
		}
	}
	for id, m := range f.milestones {
		if m.UserID == userID {
			delete(f.milestones, id)
		}
	}
	for id, p := range f.projects {
		if p.UserID == userID {
			delete(f.projects, id)
		}
	}
	return nil
}
