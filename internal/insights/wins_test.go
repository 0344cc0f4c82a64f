package insights

import (
	"testing"
	"time"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/stretchr/testify/assert"
)

func doneTask(title, category string, priority model.Priority, at time.Time) model.Task {
	return model.Task{ID: title, Title: title, Category: category, Priority: priority, Status: model.StatusCompleted, CompletedAt: &at}
}

func winTypes(ws []Win) []string {
	out := []string{}
	for _, w := range ws {
		out = append(out, w.Type)
	}
	return out
}

func TestRecentWins_None(t *testing.T) {
	assert.Empty(t, RecentWins(nil, nil, now))
	open := []model.Task{{Status: model.StatusNotStarted}}
	assert.Empty(t, RecentWins(open, nil, now))
}

func TestRecentWins_FirstCompletion(t *testing.T) {
	tasks := []model.Task{doneTask("Set up repo", "Development", model.PriorityLow, now.AddDate(0, 0, -10))}
	wins := RecentWins(tasks, nil, now)
	assert.Equal(t, []string{"first"}, winTypes(wins))
	assert.Equal(t, "first-1", wins[0].ID)
}

func TestRecentWins_OrderAndCap(t *testing.T) {
	tasks := []model.Task{
		doneTask("Landing page", "Design", model.PriorityHigh, now.Add(-time.Hour)),
		doneTask("Stripe", "Development", model.PriorityHigh, now.Add(-2*time.Hour)),
		doneTask("Blog post", "Marketing", model.PriorityLow, now.AddDate(0, 0, -2)),
		doneTask("User interviews", "Research", model.PriorityLow, now.AddDate(0, 0, -3)),
		doneTask("Pricing", "Marketing", model.PriorityMedium, now.AddDate(0, 0, -4)),
		{Status: model.StatusNotStarted},
	}
	milestones := []model.Milestone{
		{Title: "Alpha", Status: model.StatusCompleted},
		{Title: "Beta", Status: model.StatusCompleted},
	}
	wins := RecentWins(tasks, milestones, now)
	// today, priority, diversity, milestone, streak fire first; progress is cut by the cap
	assert.Equal(t, []string{"daily", "priority", "diversity", "milestone", "streak"}, winTypes(wins))
	assert.Equal(t, "2 tasks completed today", wins[0].Title)
	assert.Equal(t, "Landing page, Stripe", wins[0].Description)
	assert.Equal(t, "milestone-2", wins[3].ID)
	assert.Equal(t, "Milestone reached: Alpha", wins[3].Title)
}

func TestRecentWins_CompletionBands(t *testing.T) {
	old := now.AddDate(0, -1, 0)
	mk := func(done, total int) []model.Task {
		out := []model.Task{}
		for i := 0; i < total; i++ {
			if i < done {
				out = append(out, doneTask("t", "", model.PriorityLow, old))
			} else {
				out = append(out, model.Task{Status: model.StatusNotStarted})
			}
		}
		return out
	}
	cases := []struct {
		done, total int
		want        string
	}{
		{3, 6, "Halfway there"},
		{3, 4, ""}, // under five tasks: no band
		{4, 5, "Three quarters done"},
		{5, 5, "Every task complete"},
		{2, 5, ""},
	}
	for _, c := range cases {
		wins := RecentWins(mk(c.done, c.total), nil, now)
		var got string
		for _, w := range wins {
			if w.Type == "progress" {
				got = w.Title
			}
		}
		assert.Equal(t, c.want, got, "done=%d total=%d", c.done, c.total)
	}
}

func TestRecentWins_StableIDs(t *testing.T) {
	tasks := []model.Task{doneTask("A", "Design", model.PriorityHigh, now.Add(-time.Hour))}
	a := RecentWins(tasks, nil, now)
	b := RecentWins(tasks, nil, now)
	assert.Equal(t, a, b)
}

func TestRecentWins_TodayUsesLocalCalendar(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)

	evening := time.Date(2026, 10, 15, 21, 0, 0, 0, edt)
	// stored as 2026-10-16 00:00 UTC, same local day
	sameDay := doneTask("Ship beta", "Development", model.PriorityLow, evening.Add(-time.Hour).UTC())
	wins := RecentWins([]model.Task{sameDay}, nil, evening)
	assert.Contains(t, winTypes(wins), "daily")
	assert.Equal(t, "1 task completed today", wins[0].Title)

	morning := time.Date(2026, 10, 15, 9, 0, 0, 0, edt)
	// 2026-10-15 02:00 UTC is 22:00 the previous local evening
	yesterday := doneTask("Fix login", "Development", model.PriorityLow, time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC))
	wins = RecentWins([]model.Task{yesterday}, nil, morning)
	assert.NotContains(t, winTypes(wins), "daily")
}
