package insights

import (
	"fmt"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// MaxWins caps the recent wins feed
const MaxWins = 5

const winWindow = 7 * 24 * time.Hour

// Win is one achievement notice in the recent wins feed
type Win struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	Timestamp   time.Time `json:"timestamp"`
}

type winFacts struct {
	now            time.Time
	totalTasks     int
	completed      []model.Task
	completedToday []model.Task
	completedWeek  []model.Task
	highWeek       []model.Task
	weekCategories map[string]struct{}
	milestonesDone []model.Milestone
	completionRate int
}

func gatherWinFacts(tasks []model.Task, milestones []model.Milestone, now time.Time) winFacts {
	f := winFacts{now: now, totalTasks: len(tasks), weekCategories: make(map[string]struct{})}
	weekStart := now.Add(-winWindow)
	for _, t := range tasks {
		if t.Status != model.StatusCompleted {
			continue
		}
		f.completed = append(f.completed, t)
		if t.CompletedAt == nil {
			continue
		}
		// completed_at is an instant; read it on the caller's calendar
		at := t.CompletedAt.In(now.Location())
		if model.DaysBetween(now, at) == 0 {
			f.completedToday = append(f.completedToday, t)
		}
		if at.After(weekStart) && !at.After(now) {
			f.completedWeek = append(f.completedWeek, t)
			if t.Priority == model.PriorityHigh {
				f.highWeek = append(f.highWeek, t)
			}
			if t.Category != "" {
				f.weekCategories[t.Category] = struct{}{}
			}
		}
	}
	for _, m := range milestones {
		if m.IsCompleted() {
			f.milestonesDone = append(f.milestonesDone, m)
		}
	}
	f.completionRate = Percentage(float64(len(f.completed)), float64(len(tasks)))
	return f
}

// winRule produces at most one win; ok=false means the trigger did not fire
type winRule func(f winFacts) (Win, bool)

// winRules run in this fixed order and the feed keeps the first MaxWins that fire.
var winRules = []winRule{
	todayWin,
	highPriorityWin,
	diversityWin,
	milestoneWin,
	streakWin,
	completionRateWin,
	firstCompletionWin,
}

// RecentWins evaluates every trigger and returns up to MaxWins notices
func RecentWins(tasks []model.Task, milestones []model.Milestone, now time.Time) []Win {
	facts := gatherWinFacts(tasks, milestones, now)
	wins := make([]Win, 0, MaxWins)
	for _, rule := range winRules {
		w, ok := rule(facts)
		if !ok {
			continue
		}
		wins = append(wins, w)
		if len(wins) == MaxWins {
			break
		}
	}
	return wins
}

func winID(kind string, count int) string {
	return fmt.Sprintf("%s-%d", kind, count)
}

func latest(tasks []model.Task, fallback time.Time) time.Time {
	var at time.Time
	for _, t := range tasks {
		if t.CompletedAt != nil && t.CompletedAt.After(at) {
			at = *t.CompletedAt
		}
	}
	if at.IsZero() {
		return fallback
	}
	return at
}

func todayWin(f winFacts) (Win, bool) {
	n := len(f.completedToday)
	if n == 0 {
		return Win{}, false
	}
	return Win{
		ID:          winID("daily", n),
		Type:        "daily",
		Title:       fmt.Sprintf("%s completed today", plural(n, "task")),
		Description: exampleTitles(f.completedToday),
		Icon:        "check-circle",
		Color:       "green",
		Timestamp:   latest(f.completedToday, f.now),
	}, true
}

func highPriorityWin(f winFacts) (Win, bool) {
	n := len(f.highWeek)
	if n == 0 {
		return Win{}, false
	}
	return Win{
		ID:          winID("priority", n),
		Type:        "priority",
		Title:       fmt.Sprintf("Crushed %s", plural(n, "high-priority task")),
		Description: "Completed this week: " + exampleTitles(f.highWeek),
		Icon:        "flame",
		Color:       "red",
		Timestamp:   latest(f.highWeek, f.now),
	}, true
}

func diversityWin(f winFacts) (Win, bool) {
	n := len(f.weekCategories)
	if n < 3 {
		return Win{}, false
	}
	return Win{
		ID:          winID("diversity", n),
		Type:        "diversity",
		Title:       "Well-rounded week",
		Description: fmt.Sprintf("Shipped work across %d categories in the last 7 days", n),
		Icon:        "layers",
		Color:       "purple",
		Timestamp:   latest(f.completedWeek, f.now),
	}, true
}

func milestoneWin(f winFacts) (Win, bool) {
	if len(f.milestonesDone) == 0 {
		return Win{}, false
	}
	// First in list order, not necessarily the most recent
	m := f.milestonesDone[0]
	return Win{
		ID:          winID("milestone", len(f.milestonesDone)),
		Type:        "milestone",
		Title:       "Milestone reached: " + m.Title,
		Description: fmt.Sprintf("%s completed so far", plural(len(f.milestonesDone), "milestone")),
		Icon:        "flag",
		Color:       "blue",
		Timestamp:   m.UpdatedAt,
	}, true
}

func streakWin(f winFacts) (Win, bool) {
	n := len(f.completedWeek)
	if n < 5 {
		return Win{}, false
	}
	return Win{
		ID:          winID("streak", n),
		Type:        "streak",
		Title:       "On a roll",
		Description: fmt.Sprintf("%s completed in the last 7 days", plural(n, "task")),
		Icon:        "zap",
		Color:       "orange",
		Timestamp:   latest(f.completedWeek, f.now),
	}, true
}

// completionBandsWins are checked highest first; bounds are [from, to)
var completionBandsWins = []struct {
	from, to int
	title    string
}{
	{100, 101, "Every task complete"},
	{75, 100, "Three quarters done"},
	{50, 75, "Halfway there"},
}

func completionRateWin(f winFacts) (Win, bool) {
	if f.totalTasks < 5 {
		return Win{}, false
	}
	for _, b := range completionBandsWins {
		if f.completionRate < b.from || f.completionRate >= b.to {
			continue
		}
		return Win{
			ID:          winID("progress", f.completionRate),
			Type:        "progress",
			Title:       b.title,
			Description: fmt.Sprintf("%d%% of %d tasks complete", f.completionRate, f.totalTasks),
			Icon:        "trending-up",
			Color:       "teal",
			Timestamp:   latest(f.completed, f.now),
		}, true
	}
	return Win{}, false
}

func firstCompletionWin(f winFacts) (Win, bool) {
	if len(f.completed) != 1 {
		return Win{}, false
	}
	return Win{
		ID:          winID("first", 1),
		Type:        "first",
		Title:       "First task done",
		Description: f.completed[0].Title,
		Icon:        "star",
		Color:       "yellow",
		Timestamp:   latest(f.completed, f.now),
	}, true
}
