package insights

import (
	"testing"
	"time"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC)

func dayOffset(n int) *time.Time {
	d := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return &d
}

func task(id, title string, status model.Status, priority model.Priority, category string) model.Task {
	return model.Task{ID: id, Title: title, Status: status, Priority: priority, Category: category}
}

func sampleTasks() []model.Task {
	return []model.Task{
		task("1", "Build signup flow", model.StatusInProgress, model.PriorityHigh, "Development"),
		task("2", "Logo refresh", model.StatusNotStarted, model.PriorityLow, "Design"),
		{ID: "3", Title: "Launch tweet", Description: "Announce the beta", Status: model.StatusCompleted, Priority: model.PriorityMedium, Category: "Marketing"},
		task("4", "Fix login bug", model.StatusBlocked, model.PriorityHigh, "Development"),
	}
}

func TestFilterTasks(t *testing.T) {
	tasks := sampleTasks()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filters", Filter{}, []string{"1", "2", "3", "4"}},
		{"all sentinels", Filter{Status: All, Priority: All, Category: All}, []string{"1", "2", "3", "4"}},
		{"status", Filter{Status: "Blocked"}, []string{"4"}},
		{"priority and category", Filter{Priority: "High", Category: "Development"}, []string{"1", "4"}},
		{"search title case-insensitive", Filter{Search: "LOGIN"}, []string{"4"}},
		{"search description", Filter{Search: "beta"}, []string{"3"}},
		{"search category", Filter{Search: "design"}, []string{"2"}},
		{"search and status", Filter{Search: "build", Status: "Completed"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTasks(tasks, tt.filter)
			ids := make([]string, 0, len(got))
			for _, g := range got {
				ids = append(ids, g.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilterTasks_Idempotent(t *testing.T) {
	tasks := sampleTasks()
	f := Filter{Search: "o", Priority: "High"}
	assert.Equal(t, FilterTasks(tasks, f), FilterTasks(tasks, f))
}

func TestAvailableCategories(t *testing.T) {
	assert.Equal(t, []string{"Design", "Development", "Marketing"}, AvailableCategories(sampleTasks()))
	assert.Empty(t, AvailableCategories(nil))
}

func TestPercentageGuards(t *testing.T) {
	assert.Equal(t, 0, Percentage(5, 0))
	assert.Equal(t, 0.0, WidthPercent(5, 0))
	assert.Equal(t, 60, Percentage(6, 10))
	// percentage is not clamped, width is
	assert.Equal(t, 150, Percentage(15, 10))
	assert.Equal(t, 100.0, WidthPercent(15, 10))
	// width is not rounded
	assert.InDelta(t, 33.333, WidthPercent(1, 3), 0.001)
}

func TestSummarize(t *testing.T) {
	tasks := make([]model.Task, 10)
	for i := range tasks {
		tasks[i] = model.Task{Status: model.StatusNotStarted, EstimatedHours: 4}
		if i < 6 {
			tasks[i].Status = model.StatusCompleted
			tasks[i].ActualHours = 3
		}
	}
	s := Summarize(tasks)
	assert.Equal(t, 6, s.CompletedTasks)
	assert.Equal(t, 60, s.CompletionPercent)
	assert.Equal(t, 40.0, s.TotalHours)
	assert.Equal(t, 18.0, s.CompletedHours)
	assert.Equal(t, 45, s.TimeProgressPercent)
}

func TestSortTasks(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Title: "beta", Priority: model.PriorityLow, DueDate: dayOffset(3)},
		{ID: "b", Title: "Alpha", Priority: model.PriorityHigh},
		{ID: "c", Title: "gamma", Priority: model.PriorityMedium, DueDate: dayOffset(1)},
	}
	ids := func(ts []model.Task) []string {
		out := []string{}
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids(SortTasks(tasks, SortByDueDate)))
	assert.Equal(t, []string{"b", "c", "a"}, ids(SortTasks(tasks, SortByPriority)))
	assert.Equal(t, []string{"b", "a", "c"}, ids(SortTasks(tasks, SortByTitle)))
	assert.Equal(t, "a", tasks[0].ID, "input must not be reordered")
}

func TestCategoryBreakdown(t *testing.T) {
	rows := CategoryBreakdown(sampleTasks())
	assert.Len(t, rows, 3)
	assert.Equal(t, "Development", rows[1].Category)
	assert.Equal(t, 2, rows[1].Total)
	assert.Equal(t, 0, rows[1].Completed)
}
