package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
)

// ProjectData is everything a view needs for one project
type ProjectData struct {
	Project    model.Project
	Tasks      []model.Task
	Milestones []model.Milestone
}

// LoadProjects lists the user's projects
func (d *Dashboard) LoadProjects(ctx context.Context) ([]model.Project, error) {
	projects, err := d.gw.ListProjects(ctx, d.userID)
	if err != nil {
		return nil, d.fail("load projects", err)
	}
	return projects, nil
}

// LoadProject fetches a project's tasks and milestones in parallel
func (d *Dashboard) LoadProject(ctx context.Context, p model.Project) (ProjectData, error) {
	data := ProjectData{Project: p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tasks, err := d.gw.ListTasks(gctx, p.ID, d.userID)
		data.Tasks = tasks
		return err
	})
	g.Go(func() error {
		milestones, err := d.gw.ListMilestones(gctx, p.ID, d.userID)
		data.Milestones = milestones
		return err
	})
	if err := g.Wait(); err != nil {
		return ProjectData{Project: p}, d.fail("load project data", err, logger.F("project_id", p.ID))
	}
	return data, nil
}

// CreateProject validates the form and creates a project sized in weekly sprints
func (d *Dashboard) CreateProject(ctx context.Context, form ProjectForm) (model.Project, error) {
	if err := checkForm(form); err != nil {
		return model.Project{}, err
	}
	p := model.NewProject(d.ids(), d.userID, form.Name, form.StartDate, form.TargetLaunchDate)
	p.Description = form.Description
	p.CreatedAt, p.UpdatedAt = d.Now(), d.Now()

	created, err := d.gw.CreateProject(ctx, p)
	if err != nil {
		return model.Project{}, d.fail("create project", err)
	}
	d.log.Info("project created", logger.F("project_id", created.ID))
	return created, nil
}

// UpdateProject applies a partial update
func (d *Dashboard) UpdateProject(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	if patch.Name != nil {
		if err := checkForm(struct {
			Name string `validate:"required,nonempty,max=120"`
		}{*patch.Name}); err != nil {
			return model.Project{}, err
		}
	}
	p, err := d.gw.UpdateProject(ctx, id, d.userID, patch)
	if err != nil {
		return model.Project{}, d.fail("update project", err, logger.F("project_id", id))
	}
	return p, nil
}
