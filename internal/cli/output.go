package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/timetrack"
)

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func statusIcon(s model.Status) string {
	switch s {
	case model.StatusCompleted:
		return "[x]"
	case model.StatusInProgress:
		return "[~]"
	case model.StatusBlocked:
		return "[!]"
	}
	return "[ ]"
}

func priorityLabel(p model.Priority) string {
	if p == model.PriorityHigh {
		return "▲ High"
	}
	return "  " + string(p)
}

func formatDue(t model.Task, now time.Time) string {
	if t.DueDate == nil {
		return ""
	}
	due := t.DueDate.Format("Jan 2")
	if t.IsActive() && t.IsOverdue(now) {
		due = "!" + due
	}
	return due
}

func printTasks(w io.Writer, tasks []model.Task, now time.Time) {
	fmt.Fprintf(w, "  %-3s  %-8s  %-40s  %-8s  %-7s  %-13s  %s\n", "", "ID", "Title", "Priority", "Due", "Hours", "Category")
	fmt.Fprintln(w, strings.Repeat("─", 100))
	for _, t := range tasks {
		hours := fmt.Sprintf("%.1f/%.1f", timetrack.ActualHours(t, now), t.EstimatedHours)
		fmt.Fprintf(w, "  %s  %-8s  %-40s  %-8s  %-7s  %-13s  %s\n",
			statusIcon(t.Status), shortID(t.ID), truncate(t.Title, 40), priorityLabel(t.Priority),
			formatDue(t, now), hours, t.Category)
	}
}

func printMilestones(w io.Writer, ms []model.Milestone) {
	fmt.Fprintf(w, "  %-8s  %-36s  %-10s  %-12s  %s\n", "ID", "Title", "Target", "Status", "Progress")
	fmt.Fprintln(w, strings.Repeat("─", 84))
	for _, m := range ms {
		fmt.Fprintf(w, "  %-8s  %-36s  %-10s  %-12s  %3d%%\n",
			shortID(m.ID), truncate(m.Title, 36), m.TargetDate.Format(model.DateLayout), m.Status, m.Progress)
	}
}

// confirm asks a yes/no question on the command's streams
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	var answer string
	fmt.Fscanln(in, &answer)
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}
