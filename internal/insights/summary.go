package insights

import (
	"sort"

	"github.com/existflow/launchdeck/internal/model"
)

// Summary holds the dashboard rollups
type Summary struct {
	TotalTasks          int
	CompletedTasks      int
	TotalHours          float64 // estimated, all tasks
	CompletedHours      float64 // actual, completed tasks only
	CompletionPercent   int
	TimeProgressPercent int
}

// Summarize aggregates tasks in a single pass
func Summarize(tasks []model.Task) Summary {
	var s Summary
	s.TotalTasks = len(tasks)
	for _, t := range tasks {
		s.TotalHours += t.EstimatedHours
		if t.Status == model.StatusCompleted {
			s.CompletedTasks++
			s.CompletedHours += t.ActualHours
		}
	}
	s.CompletionPercent = Percentage(float64(s.CompletedTasks), float64(s.TotalTasks))
	s.TimeProgressPercent = Percentage(s.CompletedHours, s.TotalHours)
	return s
}

// CategoryStats is one row of the analytics breakdown
type CategoryStats struct {
	Category       string
	Total          int
	Completed      int
	EstimatedHours float64
	ActualHours    float64
}

// CategoryBreakdown returns per-category rollups sorted by category name
func CategoryBreakdown(tasks []model.Task) []CategoryStats {
	idx := make(map[string]*CategoryStats)
	for _, t := range tasks {
		c, ok := idx[t.Category]
		if !ok {
			c = &CategoryStats{Category: t.Category}
			idx[t.Category] = c
		}
		c.Total++
		c.EstimatedHours += t.EstimatedHours
		c.ActualHours += t.ActualHours
		if t.Status == model.StatusCompleted {
			c.Completed++
		}
	}
	out := make([]CategoryStats, 0, len(idx))
	for _, c := range idx {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// StatusCounts counts tasks per status
func StatusCounts(tasks []model.Task) map[model.Status]int {
	counts := make(map[model.Status]int, len(model.TaskStatuses))
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}
