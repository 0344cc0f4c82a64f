package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/launchdeck/internal/board"
	"github.com/existflow/launchdeck/internal/insights"
	"github.com/existflow/launchdeck/internal/model"
)

const (
	sidebarWidth   = 24
	collapsedWidth = 5
	maxWins        = 3
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	bodyHeight := m.height - 4
	sidebar := m.renderSidebar(bodyHeight)
	mainWidth := m.width - lipgloss.Width(sidebar)

	var main string
	if m.currentProject() == nil {
		main = HelpStyle.Render("No projects yet. Press 'p' to create one or run 'launchdeck import'.")
	} else {
		switch m.view {
		case ViewKanban:
			main = m.renderKanban(mainWidth - 4)
		case ViewAnalytics:
			main = m.renderAnalytics(mainWidth - 4)
		case ViewTimeline:
			main = m.renderTimeline(mainWidth - 4)
		default:
			main = m.renderDashboard(mainWidth-4, bodyHeight-2)
		}
	}
	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, sidebar,
		MainStyle.Width(mainWidth).Height(bodyHeight).Render(main))

	switch m.mode {
	case ModeAddTask, ModeAddProject, ModeAddMilestone, ModeEditTask, ModeConfirmDelete:
		mainContent = lipgloss.Place(
			m.width, bodyHeight,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	case ModeHelp:
		mainContent = m.renderHelp(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), mainContent, m.renderStatusBar())
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range viewNames {
		style := HelpStyle.Padding(0, 1)
		if View(i) == m.view {
			style = HeaderStyle.Underline(true)
		}
		tabs = append(tabs, style.Render(name))
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("🚀 launchdeck")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", strings.Join(tabs, ""))
}

func (m Model) renderSidebar(height int) string {
	if m.collapsed {
		var s string
		for i, p := range m.projects {
			initial := " "
			if r := []rune(p.Name); len(r) > 0 {
				initial = strings.ToUpper(string(r[0]))
			}
			if i == m.projCursor {
				initial = ProjectItemSelectedStyle.Render(initial)
			}
			s += initial + "\n"
		}
		return SidebarStyle.Width(collapsedWidth).Height(height).Render(s)
	}

	var s string
	s += HelpStyle.Render(m.now().Format("Mon Jan 2")) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-4)) + "\n\n"

	for i, p := range m.projects {
		cursor := "  "
		style := ProjectItemStyle
		if i == m.projCursor {
			cursor = "❯ "
			if m.pane == PaneSidebar {
				style = ProjectItemSelectedStyle
			}
		}
		s += style.Render(cursor+truncate(p.Name, sidebarWidth-8)) + "\n"
	}

	s += "\n" + lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", sidebarWidth-4)) + "\n"
	s += HelpStyle.Render("p new  b hide")

	return SidebarStyle.Width(sidebarWidth).Height(height).Render(s)
}

func (m Model) renderProjectHeader() string {
	p := m.currentProject()
	days := model.DaysBetween(m.now(), p.TargetLaunchDate)
	launch := fmt.Sprintf("launch in %d days", days)
	switch {
	case days == 0:
		launch = "launch day!"
	case days < 0:
		launch = fmt.Sprintf("launch was %d days ago", -days)
	}
	s := lipgloss.NewStyle().Bold(true).Foreground(Primary).Render(p.Name)
	s += HelpStyle.Render(fmt.Sprintf("  sprint %d of %d · %s", p.CurrentSprint, p.TotalSprints, launch))
	return s + "\n"
}

func (m Model) renderSummary(width int) string {
	sum := insights.Summarize(m.board.Tasks())
	barWidth := max(min(width/3, 30), 5)
	s := fmt.Sprintf("Tasks  %s %d/%d (%d%%)\n", bar(float64(sum.CompletionPercent), barWidth),
		sum.CompletedTasks, sum.TotalTasks, sum.CompletionPercent)
	s += fmt.Sprintf("Hours  %s %.1f/%.1f (%d%%)\n", bar(float64(sum.TimeProgressPercent), barWidth),
		sum.CompletedHours, sum.TotalHours, sum.TimeProgressPercent)
	return s
}

func (m Model) renderDashboard(width, height int) string {
	tasks := m.board.Tasks()
	var s string
	s += m.renderProjectHeader()
	s += lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("─", max(width, 0))) + "\n"
	s += m.renderSummary(width) + "\n"

	// Focus recommendation
	area := insights.RecommendFocus(tasks, m.milestones, insights.Summarize(tasks).TotalHours, m.now())
	focus := lipgloss.NewStyle().Bold(true).Render("🎯 " + area.Headline)
	for _, a := range area.Actions {
		focus += "\n• " + truncate(a, width-8)
	}
	s += FocusBoxStyle.Width(max(width-2, 10)).Render(focus) + "\n\n"

	// Task list
	visible := m.visibleTasks()
	header := fmt.Sprintf("Tasks (%d) sorted by %s", len(visible), m.sortKey())
	if m.filterText != "" {
		header += fmt.Sprintf(" matching %q", m.filterText)
	}
	s += lipgloss.NewStyle().Bold(true).Render(header) + "\n"

	wins := insights.RecentWins(tasks, m.milestones, m.now())
	rows := max(height-lipgloss.Height(s)-min(len(wins), maxWins)-3, 3)
	if len(visible) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to add one.") + "\n"
	}
	first := 0
	if m.taskCursor >= rows {
		first = m.taskCursor - rows + 1
	}
	for i := first; i < len(visible) && i < first+rows; i++ {
		s += m.renderTaskRow(visible[i], i == m.taskCursor && m.pane == PaneMain, width) + "\n"
	}

	if len(wins) > 0 {
		s += "\n" + lipgloss.NewStyle().Bold(true).Render("Recent wins") + "\n"
		for _, w := range wins[:min(len(wins), maxWins)] {
			s += fmt.Sprintf("%s %s  %s\n", w.Icon, w.Title, HelpStyle.Render(w.Description))
		}
	}
	return s
}

func (m Model) renderTaskRow(t model.Task, selected bool, width int) string {
	cursor := "  "
	style := TaskItemStyle
	if selected {
		cursor = "❯ "
		style = TaskItemSelectedStyle
	}
	if t.Status == model.StatusCompleted {
		style = TaskDoneStyle
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if t.IsActive() && t.IsOverdue(m.now()) {
			due = WarningStyle.Render("!" + due)
		}
	}
	status := lipgloss.NewStyle().Foreground(StatusColor(t.Status)).Render(statusIcon(t.Status))
	titleWidth := max(width-36, 10)
	title := style.Render(fmt.Sprintf("%-*s", titleWidth, truncate(t.Title, titleWidth)))
	hours := fmt.Sprintf("%5.1fh", m.liveHours(t))
	return fmt.Sprintf("%s%s %s %s %-7s %s", cursor, status, title, FormatPriority(t.Priority), due, hours)
}

func (m Model) renderKanban(width int) string {
	colWidth := max(width/len(model.TaskStatuses)-2, 12)
	drag := m.board.Drag
	var cols []string
	for i, status := range model.TaskStatuses {
		cards := m.board.Column(status)
		header := lipgloss.NewStyle().Bold(true).Foreground(StatusColor(status)).
			Render(fmt.Sprintf("%s (%d)", status, len(cards)))
		lines := []string{header, ""}

		for j, c := range cards {
			lines = append(lines, m.renderCard(c, i == m.colCursor && j == m.cardCursor, colWidth))
		}
		if drag.Active() && drag.Over() == status {
			if c, ok := m.board.Card(drag.TaskID()); ok && c.Task.Status != status {
				lines = append(lines, CardPendingStyle.Render("↳ "+truncate(c.Task.Title, colWidth-4)))
			}
		}
		if len(cards) == 0 {
			lines = append(lines, HelpStyle.Render("empty"))
		}

		style := ColumnStyle
		if i == m.colCursor && m.pane == PaneMain {
			style = ColumnActiveStyle
		}
		cols = append(cols, style.Width(colWidth).Render(strings.Join(lines, "\n")))
	}

	s := m.renderProjectHeader() + "\n"
	s += lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	if m.board.Select.Active() {
		s += "\n" + HelpStyle.Render(fmt.Sprintf("%d selected · x done · s start · ! block · 1-3 priority · d delete · esc exit", m.board.Select.Len()))
	}
	return s
}

func (m Model) renderCard(c board.Card, focused bool, width int) string {
	t := c.Task
	marker := "  "
	if focused && m.pane == PaneMain {
		marker = "❯ "
	}
	check := ""
	if m.board.Select.Active() {
		check = "☐ "
		if m.board.Select.Has(t.ID) {
			check = "☑ "
		}
	}
	if m.board.Drag.TaskID() == t.ID {
		marker = "✥ "
	}

	title := truncate(t.Title, width-len([]rune(marker+check))-2)
	line := marker + check + title
	meta := fmt.Sprintf("   %s %s", FormatPriority(t.Priority), HelpStyle.Render(t.Category))
	if t.Status == model.StatusInProgress {
		meta += HelpStyle.Render(fmt.Sprintf(" %.1fh", m.liveHours(t)))
	}

	switch {
	case c.State == board.Pending:
		line = CardPendingStyle.Render(line + " …")
	case focused && m.pane == PaneMain:
		line = lipgloss.NewStyle().Bold(true).Foreground(Highlight).Render(line)
	}
	return line + "\n" + meta
}

func (m Model) renderAnalytics(width int) string {
	tasks := m.board.Tasks()
	barWidth := max(min(width/3, 30), 5)
	s := m.renderProjectHeader() + "\n"
	s += m.renderSummary(width) + "\n"

	s += lipgloss.NewStyle().Bold(true).Render("By status") + "\n"
	counts := insights.StatusCounts(tasks)
	for _, st := range model.TaskStatuses {
		pct := insights.WidthPercent(float64(counts[st]), float64(len(tasks)))
		s += fmt.Sprintf("  %-12s %s %d\n", st,
			lipgloss.NewStyle().Foreground(StatusColor(st)).Render(bar(pct, barWidth)), counts[st])
	}

	s += "\n" + lipgloss.NewStyle().Bold(true).Render("By category") + "\n"
	cats := insights.CategoryBreakdown(tasks)
	if len(cats) == 0 {
		s += HelpStyle.Render("  No tasks yet") + "\n"
	}
	for _, c := range cats {
		pct := insights.WidthPercent(float64(c.Completed), float64(c.Total))
		s += fmt.Sprintf("  %-12s %s %2d/%-2d  %5.1fh est  %5.1fh actual\n",
			truncate(c.Category, 12), bar(pct, barWidth), c.Completed, c.Total, c.EstimatedHours, c.ActualHours)
	}
	return s
}

func (m Model) renderTimeline(width int) string {
	now := m.now()
	tasks := m.board.Tasks()
	barWidth := max(min(width/4, 20), 5)
	s := m.renderProjectHeader() + "\n"

	s += lipgloss.NewStyle().Bold(true).Render("Milestones") + HelpStyle.Render("  m add · M recalculate") + "\n"
	milestones := append([]model.Milestone(nil), m.milestones...)
	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].TargetDate.Before(milestones[j].TargetDate)
	})
	if len(milestones) == 0 {
		s += HelpStyle.Render("  No milestones yet") + "\n"
	}
	for _, ms := range milestones {
		derived := insights.DeriveMilestone(ms, tasks)
		days := model.DaysBetween(now, ms.TargetDate)
		when := fmt.Sprintf("in %dd", days)
		if days < 0 && derived.Status != model.StatusCompleted {
			when = WarningStyle.Render(fmt.Sprintf("%dd late", -days))
		}
		s += fmt.Sprintf("  %s %-*s %s %3d%%  %s  %s\n",
			ms.TargetDate.Format("Jan 02"), 24, truncate(ms.Title, 24),
			lipgloss.NewStyle().Foreground(StatusColor(derived.Status)).Render(bar(float64(derived.Progress), barWidth)),
			derived.Progress, when, HelpStyle.Render(fmt.Sprintf("%d tasks", derived.RelatedTasks)))
	}

	s += "\n" + lipgloss.NewStyle().Bold(true).Render("Due dates") + "\n"
	var dated []model.Task
	for _, t := range tasks {
		if t.DueDate != nil && t.IsActive() {
			dated = append(dated, t)
		}
	}
	if len(dated) == 0 {
		s += HelpStyle.Render("  Nothing scheduled") + "\n"
	}
	week := -1
	for _, t := range insights.SortTasks(dated, insights.SortByDueDate) {
		if w := model.DaysBetween(m.currentProject().StartDate, *t.DueDate) / 7; w != week {
			week = w
			s += HelpStyle.Render(fmt.Sprintf("  Week %d", w+1)) + "\n"
		}
		due := t.DueDate.Format("Mon Jan 02")
		if t.IsOverdue(now) {
			due = WarningStyle.Render(due)
		}
		s += fmt.Sprintf("    %s %s %s %s\n", due, statusIcon(t.Status), FormatPriority(t.Priority), truncate(t.Title, width-30))
	}
	return s
}

func (m Model) renderStatusBar() string {
	if m.mode == ModeFilter {
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View())
	}

	help := "[/]:views  a:add  x:done  s:start  1-3:priority  d:del  /:search  b:sidebar  ?:help  q:quit"
	if m.view == ViewKanban {
		help = "space:grab/drop  V:multi-select  ←→:columns  a:add  x:done  s:start  ?:help  q:quit"
	}
	if m.message != "" {
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	var title string
	switch m.mode {
	case ModeAddProject:
		title = "New Project"
	case ModeAddMilestone:
		title = "New Milestone (title then target date)"
	case ModeEditTask:
		title = "Edit Task"
	case ModeConfirmDelete:
		content := WarningStyle.Render(fmt.Sprintf("Delete %d task(s)?", len(m.deleteIDs))) + "\n\n"
		content += HelpStyle.Render("y:delete  any other key:cancel")
		return ModalStyle.Render(content)
	default:
		title = "Add Task"
		if proj := m.currentProject(); proj != nil {
			title = fmt.Sprintf("Add Task to: %s", proj.Name)
		}
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	content += HelpStyle.Render("Enter:save  Esc:cancel")
	return ModalStyle.Render(content)
}

func (m Model) renderHelp(height int) string {
	help := `
╭────── Keyboard Shortcuts ──────╮
│                                │
│  Navigation                    │
│  [ / ]    Previous/next view   │
│  j/k      Move down/up         │
│  h/l      Pane or column       │
│  Tab      Switch pane          │
│  b        Collapse sidebar     │
│                                │
│  Tasks                         │
│  a        Add task             │
│  e        Edit title           │
│  x        Toggle done          │
│  s        Start/pause          │
│  !        Toggle blocked       │
│  1-3      Priority low..high   │
│  d        Delete               │
│  /  o     Search, cycle sort   │
│                                │
│  Kanban                        │
│  space    Grab/drop card       │
│  V        Multi-select         │
│  enter    Pick card            │
│                                │
│  Project                       │
│  p        New project          │
│  m  M     Milestone, recalc    │
│  E        Export template      │
│  R        Reload               │
│  q        Quit                 │
│                                │
╰────────────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, help)
}
