package insights

import (
	"github.com/existflow/launchdeck/internal/model"
)

// milestoneWindowDays is how close a task's due date must be to count toward a milestone
const milestoneWindowDays = 7

// MilestoneProgress is the derived state of a milestone
type MilestoneProgress struct {
	Progress     int
	Status       model.Status
	RelatedTasks int
}

// RelatedTasks returns tasks due within 7 days either side of the milestone target
func RelatedTasks(m model.Milestone, tasks []model.Task) []model.Task {
	var related []model.Task
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		d := model.DaysBetween(m.TargetDate, *t.DueDate)
		if d >= -milestoneWindowDays && d <= milestoneWindowDays {
			related = append(related, t)
		}
	}
	return related
}

// DeriveMilestone recomputes progress and status from related tasks
func DeriveMilestone(m model.Milestone, tasks []model.Task) MilestoneProgress {
	related := RelatedTasks(m, tasks)
	done := 0
	for _, t := range related {
		if t.Status == model.StatusCompleted {
			done++
		}
	}
	p := MilestoneProgress{
		Progress:     Percentage(float64(done), float64(len(related))),
		RelatedTasks: len(related),
	}
	switch {
	case p.Progress == 100:
		p.Status = model.StatusCompleted
	case p.Progress > 0:
		p.Status = model.StatusInProgress
	default:
		p.Status = model.StatusNotStarted
	}
	return p
}

// Patch turns derived progress into a milestone update
func (p MilestoneProgress) Patch() model.MilestonePatch {
	progress, status := p.Progress, p.Status
	return model.MilestonePatch{Progress: &progress, Status: &status}
}
