package tui

import (
	"strings"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// bar renders a percentage as a block bar of the given width
func bar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := min(max(int(percent/100*float64(width)), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
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

// splitTrailingDate separates "Beta launch 2026-11-15" into title and date
func splitTrailingDate(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, " ")
	if i < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:i]), s[i+1:]
}

// today is the local calendar date as a UTC midnight, like stored dates
func today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
