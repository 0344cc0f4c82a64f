package service

import (
	"context"

	"github.com/existflow/launchdeck/internal/insights"
	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
)

// CreateMilestone validates the form and creates a milestone with progress
// derived from the tasks around its target date
func (d *Dashboard) CreateMilestone(ctx context.Context, form MilestoneForm, tasks []model.Task) (model.Milestone, error) {
	if err := checkForm(form); err != nil {
		return model.Milestone{}, err
	}
	now := d.Now()
	m := model.Milestone{
		ID:          d.ids(),
		ProjectID:   form.ProjectID,
		UserID:      d.userID,
		Title:       form.Title,
		Description: form.Description,
		TargetDate:  form.TargetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	derived := insights.DeriveMilestone(m, tasks)
	m.Progress, m.Status = derived.Progress, derived.Status

	created, err := d.gw.CreateMilestone(ctx, m)
	if err != nil {
		return model.Milestone{}, d.fail("create milestone", err, logger.F("project_id", form.ProjectID))
	}
	return created, nil
}

// UpdateMilestone applies an edit and then re-derives progress and status
func (d *Dashboard) UpdateMilestone(ctx context.Context, current model.Milestone, patch model.MilestonePatch, tasks []model.Task) (model.Milestone, error) {
	edited := current
	edited.Apply(patch, d.Now())
	derived := insights.DeriveMilestone(edited, tasks).Patch()
	patch.Progress, patch.Status = derived.Progress, derived.Status

	updated, err := d.gw.UpdateMilestone(ctx, current.ID, d.userID, patch)
	if err != nil {
		return model.Milestone{}, d.fail("update milestone", err, logger.F("milestone_id", current.ID))
	}
	return updated, nil
}

// RecalculateMilestone stores progress and status derived from related tasks
func (d *Dashboard) RecalculateMilestone(ctx context.Context, m model.Milestone, tasks []model.Task) (model.Milestone, error) {
	updated, err := d.gw.UpdateMilestone(ctx, m.ID, d.userID, insights.DeriveMilestone(m, tasks).Patch())
	if err != nil {
		return model.Milestone{}, d.fail("update milestone", err, logger.F("milestone_id", m.ID))
	}
	return updated, nil
}

// RecalculateMilestones refreshes every milestone of a project, stopping at the first failure
func (d *Dashboard) RecalculateMilestones(ctx context.Context, data ProjectData) ([]model.Milestone, error) {
	out := make([]model.Milestone, 0, len(data.Milestones))
	for _, m := range data.Milestones {
		updated, err := d.RecalculateMilestone(ctx, m, data.Tasks)
		if err != nil {
			return out, err
		}
		out = append(out, updated)
	}
	return out, nil
}

// DeleteMilestone removes a milestone
func (d *Dashboard) DeleteMilestone(ctx context.Context, id string) error {
	if err := d.gw.DeleteMilestone(ctx, id, d.userID); err != nil {
		return d.fail("delete milestone", err, logger.F("milestone_id", id))
	}
	return nil
}
