package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/launchdeck/internal/model"
)

// Color palette
var (
	// Priority colors
	PriorityHighColor   = lipgloss.Color("#FF6B6B")
	PriorityMediumColor = lipgloss.Color("#FFE66D")
	PriorityLowColor    = lipgloss.Color("#4ECDC4")

	// Status colors
	NotStarted = lipgloss.Color("#888888")
	InProgress = lipgloss.Color("#FFB347")
	Completed  = lipgloss.Color("#95E1A3")
	Blocked    = lipgloss.Color("#FF6B6B")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
	Warning   = lipgloss.Color("#FF5555")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Sidebar
	SidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(Border).
			Padding(1, 1)

	MainStyle = lipgloss.NewStyle().
			Padding(1, 2)

	ProjectItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	ProjectItemSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(Surface).
					Bold(true)

	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	// Kanban
	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	ColumnActiveStyle = ColumnStyle.
				BorderForeground(Primary)

	CardPendingStyle = lipgloss.NewStyle().
				Foreground(TextMuted).
				Italic(true)

	FocusBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(InProgress).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)
)

// PriorityStyle returns the style for a given priority
func PriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(PriorityHighColor).Bold(true)
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(PriorityMediumColor)
	default:
		return lipgloss.NewStyle().Foreground(PriorityLowColor)
	}
}

// FormatPriority returns a short colored priority badge
func FormatPriority(p model.Priority) string {
	label := "L"
	switch p {
	case model.PriorityHigh:
		label = "H"
	case model.PriorityMedium:
		label = "M"
	}
	return PriorityStyle(p).Render(label)
}

// StatusColor returns the accent color for a status
func StatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusInProgress:
		return InProgress
	case model.StatusCompleted:
		return Completed
	case model.StatusBlocked:
		return Blocked
	}
	return NotStarted
}
