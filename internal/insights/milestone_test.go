package insights

import (
	"testing"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDeriveMilestone(t *testing.T) {
	m := model.Milestone{TargetDate: *dayOffset(10)}
	near := func(offset int, s model.Status) model.Task {
		return model.Task{Status: s, DueDate: dayOffset(offset)}
	}

	none := DeriveMilestone(m, []model.Task{near(0, model.StatusCompleted)})
	assert.Equal(t, MilestoneProgress{Progress: 0, Status: model.StatusNotStarted}, none)

	half := DeriveMilestone(m, []model.Task{
		near(3, model.StatusCompleted),
		near(17, model.StatusNotStarted),
		near(30, model.StatusCompleted), // outside the window
		{Status: model.StatusCompleted}, // undated
	})
	assert.Equal(t, 50, half.Progress)
	assert.Equal(t, model.StatusInProgress, half.Status)
	assert.Equal(t, 2, half.RelatedTasks)

	full := DeriveMilestone(m, []model.Task{near(10, model.StatusCompleted)})
	assert.Equal(t, model.StatusCompleted, full.Status)

	patch := full.Patch()
	assert.Equal(t, 100, *patch.Progress)
	assert.Equal(t, model.StatusCompleted, *patch.Status)
}
