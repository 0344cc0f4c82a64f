package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// FocusType names the recommendation category
type FocusType string

const (
	FocusUrgent       FocusType = "urgent"
	FocusBlocked      FocusType = "blocked"
	FocusToday        FocusType = "today"
	FocusMilestone    FocusType = "milestone"
	FocusHighPriority FocusType = "high-priority"
	FocusInProgress   FocusType = "in-progress"
	FocusGeneral      FocusType = "general"
	FocusEmpty        FocusType = "empty"
)

// MaxFocusActions caps the action list
const MaxFocusActions = 4

// milestoneHorizonDays is how many calendar days ahead an unfinished milestone counts as urgent
const milestoneHorizonDays = 7

// EmptyHeadline is shown when there is nothing to plan around
const EmptyHeadline = "Ready to start - add your first milestone or task!"

// FocusArea is the single headline recommendation with its follow-up actions
type FocusArea struct {
	Headline    string
	Type        FocusType
	Actions     []string
	UrgentCount int
}

// workload is the partition of active tasks the rules inspect
type workload struct {
	now          time.Time
	tasks        []model.Task
	milestones   []model.Milestone
	totalHours   float64
	overdue      []model.Task
	today        []model.Task
	tomorrow     []model.Task
	blocked      []model.Task
	highPriority []model.Task
	inProgress   []model.Task
	urgentMS     []model.Milestone
}

func partition(tasks []model.Task, milestones []model.Milestone, totalHours float64, now time.Time) workload {
	w := workload{now: now, tasks: tasks, milestones: milestones, totalHours: totalHours}
	for _, t := range tasks {
		if !t.IsActive() {
			continue
		}
		if t.DueDate != nil {
			switch d := model.DaysBetween(now, *t.DueDate); {
			case d < 0:
				w.overdue = append(w.overdue, t)
			case d == 0:
				w.today = append(w.today, t)
			case d == 1:
				w.tomorrow = append(w.tomorrow, t)
			}
		}
		if t.Status == model.StatusBlocked {
			w.blocked = append(w.blocked, t)
		}
		if t.Priority == model.PriorityHigh {
			w.highPriority = append(w.highPriority, t)
		}
		if t.Status == model.StatusInProgress {
			w.inProgress = append(w.inProgress, t)
		}
	}

	for _, m := range milestones {
		if m.IsCompleted() || model.DaysBetween(now, m.TargetDate) > milestoneHorizonDays {
			continue
		}
		w.urgentMS = append(w.urgentMS, m)
	}
	sort.SliceStable(w.urgentMS, func(i, j int) bool {
		return w.urgentMS[i].TargetDate.Before(w.urgentMS[j].TargetDate)
	})
	return w
}

// focusRule is one row of the ordered rule table. The first rule whose
// applies returns true wins.
type focusRule struct {
	kind     FocusType
	applies  func(w workload) bool
	headline func(w workload) string
	actions  func(w workload) []string
}

// focusRules is evaluated top to bottom: overdue > blocked > due today >
// urgent milestone > high priority > in progress > general > empty.
var focusRules = []focusRule{
	{
		kind:    FocusUrgent,
		applies: func(w workload) bool { return len(w.overdue) > 0 },
		headline: func(w workload) string {
			return fmt.Sprintf("%s overdue: %s", plural(len(w.overdue), "task"), exampleTitles(w.overdue))
		},
		actions: func(w workload) []string {
			return []string{
				fmt.Sprintf("Clear %s immediately", overdueCount(len(w.overdue))),
				"Review task deadlines and priorities",
				"Focus on completion over new tasks",
			}
		},
	},
	{
		kind:    FocusBlocked,
		applies: func(w workload) bool { return len(w.blocked) > 0 },
		headline: func(w workload) string {
			return fmt.Sprintf("%s blocked: %s", plural(len(w.blocked), "task"), exampleTitles(w.blocked))
		},
		actions: func(w workload) []string {
			return []string{
				fmt.Sprintf("Unblock %s", plural(len(w.blocked), "task")),
				"Identify what each blocked task is waiting on",
				"Re-scope or split work you cannot unblock today",
			}
		},
	},
	{
		kind:    FocusToday,
		applies: func(w workload) bool { return len(w.today) > 0 },
		headline: func(w workload) string {
			return fmt.Sprintf("%s due today: %s", plural(len(w.today), "task"), exampleTitles(w.today))
		},
		actions: func(w workload) []string {
			actions := []string{
				fmt.Sprintf("Complete %s due today", plural(len(w.today), "task")),
				"Block focused time for today's deadlines",
			}
			if len(w.tomorrow) > 0 {
				actions = append(actions, fmt.Sprintf("Prepare %s due tomorrow", plural(len(w.tomorrow), "task")))
			}
			return append(actions, "Defer anything that is not due soon")
		},
	},
	{
		kind:    FocusMilestone,
		applies: func(w workload) bool { return len(w.urgentMS) > 0 },
		headline: func(w workload) string {
			next := w.urgentMS[0]
			return fmt.Sprintf("%s due this week: %s (%s)",
				plural(len(w.urgentMS), "milestone"), exampleMilestones(w.urgentMS), daysLeft(w.now, next.TargetDate))
		},
		actions: func(w workload) []string {
			next := w.urgentMS[0]
			return []string{
				fmt.Sprintf("Push \"%s\" past the line (%d%% done)", next.Title, next.Progress),
				"Review tasks that feed this milestone",
				"Cut scope if the date is at risk",
			}
		},
	},
	{
		kind:    FocusHighPriority,
		applies: func(w workload) bool { return len(w.highPriority) > 0 },
		headline: func(w workload) string {
			return fmt.Sprintf("%s high priority: %s", plural(len(w.highPriority), "task"), exampleTitles(w.highPriority))
		},
		actions: func(w workload) []string {
			return []string{
				fmt.Sprintf("Tackle %s", plural(len(w.highPriority), "high-priority task")),
				"Break large tasks into smaller steps",
				"Schedule deep-work sessions",
			}
		},
	},
	{
		kind:    FocusInProgress,
		applies: func(w workload) bool { return len(w.inProgress) > 0 },
		headline: func(w workload) string {
			return fmt.Sprintf("%s in progress: %s", plural(len(w.inProgress), "task"), exampleTitles(w.inProgress))
		},
		actions: func(w workload) []string {
			return []string{
				fmt.Sprintf("Finish %s already in progress", plural(len(w.inProgress), "task")),
				"Avoid starting new work until these land",
				"Update progress on active tasks",
			}
		},
	},
	{
		kind:     FocusGeneral,
		applies:  func(w workload) bool { return len(w.milestones) > 0 },
		headline: generalHeadline,
		actions:  generalActions,
	},
	{
		kind:     FocusEmpty,
		applies:  func(workload) bool { return true },
		headline: func(workload) string { return EmptyHeadline },
		actions: func(workload) []string {
			return []string{
				"Create your first milestone",
				"Add tasks for this week's sprint",
				"Import a project template to get going",
			}
		},
	},
}

// RecommendFocus picks the single most pressing focus area
func RecommendFocus(tasks []model.Task, milestones []model.Milestone, totalHours float64, now time.Time) FocusArea {
	w := partition(tasks, milestones, totalHours, now)

	area := FocusArea{
		// Not deduplicated: an overdue blocked task counts twice.
		UrgentCount: len(w.overdue) + len(w.blocked) + len(w.today),
	}
	for _, rule := range focusRules {
		if !rule.applies(w) {
			continue
		}
		area.Type = rule.kind
		area.Headline = rule.headline(w)
		area.Actions = rule.actions(w)
		break
	}
	if len(area.Actions) > MaxFocusActions {
		area.Actions = area.Actions[:MaxFocusActions]
	}
	return area
}

func generalHeadline(w workload) string {
	var next *model.Milestone
	for i := range w.milestones {
		m := &w.milestones[i]
		if m.IsCompleted() {
			continue
		}
		if next == nil || m.TargetDate.Before(next.TargetDate) {
			next = m
		}
	}
	if next == nil {
		return "All milestones complete - plan your next goal"
	}
	return fmt.Sprintf("Keep building toward \"%s\" (%s)", next.Title, daysLeft(w.now, next.TargetDate))
}

// completionBands maps a completion rate to a suggestion; lower bounds ascend.
var completionBands = []struct {
	from    int
	message string
}{
	{0, "Build momentum: %d%% of tasks complete, pick one small win"},
	{50, "Solid progress: %d%% complete, keep the pace"},
	{80, "Almost there: %d%% complete, start planning the launch"},
}

func generalActions(w workload) []string {
	completed := 0
	for _, t := range w.tasks {
		if t.Status == model.StatusCompleted {
			completed++
		}
	}
	rate := Percentage(float64(completed), float64(len(w.tasks)))

	band := completionBands[0].message
	for _, b := range completionBands {
		if rate >= b.from {
			band = b.message
		}
	}
	actions := []string{fmt.Sprintf(band, rate)}
	if len(w.tomorrow) > 0 {
		actions = append(actions, fmt.Sprintf("Prepare %s due tomorrow", plural(len(w.tomorrow), "task")))
	}
	if w.totalHours > 0 {
		actions = append(actions, fmt.Sprintf("Keep tracked time within the %.0fh estimate", w.totalHours))
	}
	return actions
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func overdueCount(n int) string {
	if n == 1 {
		return "1 overdue task"
	}
	return fmt.Sprintf("%d overdue tasks", n)
}

func exampleTitles(tasks []model.Task) string {
	titles := make([]string, 0, 2)
	for i := 0; i < len(tasks) && i < 2; i++ {
		titles = append(titles, tasks[i].Title)
	}
	return joinExamples(titles, len(tasks))
}

func exampleMilestones(ms []model.Milestone) string {
	titles := make([]string, 0, 2)
	for i := 0; i < len(ms) && i < 2; i++ {
		titles = append(titles, ms[i].Title)
	}
	return joinExamples(titles, len(ms))
}

func joinExamples(titles []string, total int) string {
	s := strings.Join(titles, ", ")
	if total > len(titles) {
		s += "..."
	}
	return s
}

func daysLeft(now, target time.Time) string {
	switch d := model.DaysBetween(now, target); {
	case d < 0:
		return fmt.Sprintf("%s late", plural(-d, "day"))
	case d == 0:
		return "due today"
	default:
		return fmt.Sprintf("%s left", plural(d, "day"))
	}
}
