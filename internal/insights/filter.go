// Package insights derives views and analytics from in-memory task and milestone lists.
// Every function here is pure: same input, same output.
package insights

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// All disables a filter dimension
const All = "all"

// Filter holds the list-view filter values. Empty fields behave like All.
type Filter struct {
	Search   string
	Status   string
	Priority string
	Category string
}

func active(v string) bool {
	return v != "" && v != All
}

// Matches reports whether a task passes every active filter
func (f Filter) Matches(t model.Task) bool {
	if active(f.Status) && string(t.Status) != f.Status {
		return false
	}
	if active(f.Priority) && string(t.Priority) != f.Priority {
		return false
	}
	if active(f.Category) && t.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term) ||
		strings.Contains(strings.ToLower(t.Category), term)
}

// FilterTasks returns the tasks passing f, preserving input order
func FilterTasks(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// AvailableCategories returns the distinct categories present, sorted alphabetically
func AvailableCategories(tasks []model.Task) []string {
	seen := make(map[string]struct{})
	for _, t := range tasks {
		if t.Category == "" {
			continue
		}
		seen[t.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Percentage returns round(100*n/d), or 0 when d is zero. Not clamped.
func Percentage(numerator, denominator float64) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(100 * numerator / denominator))
}

// WidthPercent is the unrounded share of d, clamped to 100, for progress bars
func WidthPercent(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Min(100, 100*numerator/denominator)
}

// SortKey selects the ordering used by SortTasks
type SortKey string

const (
	SortByDueDate  SortKey = "due"
	SortByPriority SortKey = "priority"
	SortByCreated  SortKey = "created"
	SortByTitle    SortKey = "title"
)

var priorityRank = map[model.Priority]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

// SortTasks returns a sorted copy. Undated tasks sort after dated ones.
func SortTasks(tasks []model.Task, key SortKey) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch key {
		case SortByPriority:
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		case SortByCreated:
			return a.CreatedAt.After(b.CreatedAt) // newest first
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		default:
			return dueBefore(a.DueDate, b.DueDate)
		}
	})
	return out
}

func dueBefore(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}

// TasksByStatus groups tasks into kanban columns keyed by status
func TasksByStatus(tasks []model.Task) map[model.Status][]model.Task {
	cols := make(map[model.Status][]model.Task, len(model.TaskStatuses))
	for _, s := range model.TaskStatuses {
		cols[s] = nil
	}
	for _, t := range tasks {
		cols[t.Status] = append(cols[t.Status], t)
	}
	return cols
}
