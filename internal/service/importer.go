package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/template"
)

// ImportMode selects how a template lands in the account
type ImportMode string

const (
	ImportNewProject     ImportMode = "new-project"
	ImportReplaceCurrent ImportMode = "replace-current"
)

// ErrModeUnavailable means replace-current was chosen with no active project
var ErrModeUnavailable = errors.New("replace-current needs an active project")

// ParseImportMode validates a mode name
func ParseImportMode(s string) (ImportMode, error) {
	switch m := ImportMode(s); m {
	case ImportNewProject, ImportReplaceCurrent:
		return m, nil
	}
	return "", fmt.Errorf("unknown import mode %q (expected %s or %s)", s, ImportNewProject, ImportReplaceCurrent)
}

// AvailableModes lists the modes offered for the current selection
func AvailableModes(current *model.Project) []ImportMode {
	if current == nil {
		return []ImportMode{ImportNewProject}
	}
	return []ImportMode{ImportNewProject, ImportReplaceCurrent}
}

// ImportResult counts what an import did. Records that failed are not retried
// and nothing already written is rolled back.
type ImportResult struct {
	Project           model.Project
	TasksRemoved      int
	MilestonesRemoved int
	MilestonesCreated int
	TasksCreated      int
	Failed            int
}

// ImportTemplate writes a parsed template into the account.
//
// new-project creates the project, then its milestones, then its tasks.
// replace-current deletes the current project's tasks and milestones, updates
// the project from the template and then creates the new records.
// Single record failures are logged and counted without stopping the rest.
func (d *Dashboard) ImportTemplate(ctx context.Context, tpl *template.Template, mode ImportMode, current *model.Project) (ImportResult, error) {
	var (
		res ImportResult
		err error
	)
	log := d.log.WithFields(logger.F("mode", mode), logger.F("template", tpl.Metadata.Name))

	switch mode {
	case ImportNewProject:
		p := model.NewProject(d.ids(), d.userID, tpl.Project.Name, tpl.Project.StartDate, tpl.Project.TargetLaunchDate)
		p.Description = tpl.Project.Description
		p.TotalSprints = tpl.Project.TotalSprints
		p.CreatedAt, p.UpdatedAt = d.Now(), d.Now()
		if res.Project, err = d.gw.CreateProject(ctx, p); err != nil {
			return res, d.fail("import template", err)
		}
	case ImportReplaceCurrent:
		if current == nil {
			return res, &UserError{Message: "Replace current project needs an active project.", Err: ErrModeUnavailable}
		}
		d.clearProject(ctx, *current, &res, log)
		if res.Project, err = d.gw.UpdateProject(ctx, current.ID, d.userID, tpl.Project.Patch()); err != nil {
			return res, d.fail("import template", err, logger.F("project_id", current.ID))
		}
	default:
		return res, &UserError{Message: fmt.Sprintf("Unknown import mode %q.", mode)}
	}

	now := d.Now()
	for _, spec := range tpl.Milestones {
		m := model.Milestone{
			ID:          d.ids(),
			ProjectID:   res.Project.ID,
			UserID:      d.userID,
			Title:       spec.Title,
			Description: spec.Description,
			TargetDate:  spec.TargetDate,
			Status:      model.StatusNotStarted,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := d.gw.CreateMilestone(ctx, m); err != nil {
			log.Error("import milestone failed", logger.F("title", spec.Title), logger.Err(err))
			res.Failed++
			continue
		}
		res.MilestonesCreated++
	}

	for _, spec := range tpl.Tasks {
		t := model.NewTask(d.ids(), res.Project.ID, d.userID, spec.Title)
		t.Description = spec.Description
		t.Category = spec.Category
		t.Priority = spec.Priority
		t.EstimatedHours = spec.EstimatedHours
		t.SprintWeek = spec.SprintWeek
		t.DueDate = spec.DueDate
		t.CreatedAt, t.UpdatedAt = now, now
		if _, err := d.gw.CreateTask(ctx, t); err != nil {
			log.Error("import task failed", logger.F("title", spec.Title), logger.Err(err))
			res.Failed++
			continue
		}
		res.TasksCreated++
	}

	log.Info("template imported",
		logger.F("project_id", res.Project.ID),
		logger.F("milestones", res.MilestonesCreated),
		logger.F("tasks", res.TasksCreated),
		logger.F("failed", res.Failed))
	if res.Failed > 0 {
		return res, &UserError{
			Message: fmt.Sprintf("Import finished but %d records could not be saved.", res.Failed),
		}
	}
	return res, nil
}

// clearProject deletes a project's tasks and milestones one by one
func (d *Dashboard) clearProject(ctx context.Context, p model.Project, res *ImportResult, log *logger.Logger) {
	if tasks, err := d.gw.ListTasks(ctx, p.ID, d.userID); err != nil {
		log.Error("list tasks for replace failed", logger.Err(err))
		res.Failed++
	} else {
		for _, t := range tasks {
			if err := d.gw.DeleteTask(ctx, t.ID, d.userID); err != nil {
				log.Error("delete task for replace failed", logger.F("task_id", t.ID), logger.Err(err))
				res.Failed++
				continue
			}
			res.TasksRemoved++
		}
	}

	if milestones, err := d.gw.ListMilestones(ctx, p.ID, d.userID); err != nil {
		log.Error("list milestones for replace failed", logger.Err(err))
		res.Failed++
	} else {
		for _, m := range milestones {
			if err := d.gw.DeleteMilestone(ctx, m.ID, d.userID); err != nil {
				log.Error("delete milestone for replace failed", logger.F("milestone_id", m.ID), logger.Err(err))
				res.Failed++
				continue
			}
			res.MilestonesRemoved++
		}
	}
}
