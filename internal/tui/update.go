package tui

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/service"
	"github.com/existflow/launchdeck/internal/template"
	"github.com/existflow/launchdeck/internal/timetrack"
)

// defaultProjectWeeks is the launch horizon of a project created from the TUI
const defaultProjectWeeks = 12

// liveTickMsg is sent when an In Progress task's hours need a redraw
type liveTickMsg string

// moveDoneMsg carries the backend answer to an optimistic status change
type moveDoneMsg struct {
	id    string
	saved model.Task
	err   error
}

// bulkDoneMsg carries the outcome of a bulk action on the selection
type bulkDoneMsg struct {
	action string
	res    service.BulkResult
	err    error
}

// Init starts listening for live-hours ticks
func (m Model) Init() tea.Cmd {
	return m.waitForTick()
}

// waitForTick bridges refresher ticks into the update loop
func (m Model) waitForTick() tea.Cmd {
	if m.tickChan == nil {
		return nil
	}
	return func() tea.Msg {
		return liveTickMsg(<-m.tickChan)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case liveTickMsg:
		// Hours are recomputed from the clock on render
		return m, m.waitForTick()

	case moveDoneMsg:
		if msg.err != nil {
			m.board.Revert(msg.id)
			m.message = service.Message(msg.err)
			return m, nil
		}
		m.board.Confirm(msg.saved)
		m.refresher.Track(msg.saved)
		m.message = fmt.Sprintf("%s → %s", truncate(msg.saved.Title, 30), msg.saved.Status)
		return m, nil

	case bulkDoneMsg:
		m.refresher.TrackAll(m.board.Tasks())
		m.clampCursors()
		done := len(msg.res.Updated) + len(msg.res.Deleted)
		if msg.err != nil && done == 0 {
			m.message = service.Message(msg.err)
			return m, nil
		}
		m.message = fmt.Sprintf("%s: %d done", msg.action, done)
		if len(msg.res.Failed) > 0 {
			m.message += fmt.Sprintf(", %d failed", len(msg.res.Failed))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case ModeAddTask, ModeAddProject, ModeAddMilestone, ModeEditTask:
			return m.updateInput(msg)
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeConfirmDelete:
			return m.updateConfirm(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, keys.NextView):
		m.switchView((m.view + 1) % View(len(viewNames)))
		return m, nil

	case key.Matches(msg, keys.PrevView):
		m.switchView((m.view + View(len(viewNames)) - 1) % View(len(viewNames)))
		return m, nil

	case key.Matches(msg, keys.Sidebar):
		m.toggleSidebar()
		return m, nil

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneSidebar || m.collapsed {
			m.pane = PaneMain
		} else {
			m.pane = PaneSidebar
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		m.loadProjects()
		m.message = "Reloaded"
		return m, nil

	case key.Matches(msg, keys.Project):
		return m.startInput(ModeAddProject, "", "Project name...")
	}

	if m.pane == PaneSidebar {
		switch {
		case key.Matches(msg, keys.Up):
			m.selectProject(m.projCursor - 1)
		case key.Matches(msg, keys.Down):
			m.selectProject(m.projCursor + 1)
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Right):
			m.pane = PaneMain
		}
		return m, nil
	}

	if m.currentProject() == nil {
		m.message = "No project yet - press p to create one"
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Add):
		return m.startInput(ModeAddTask, "", "Task title...")
	case key.Matches(msg, keys.Milestone):
		return m.startInput(ModeAddMilestone, "", "Title YYYY-MM-DD")
	case key.Matches(msg, keys.Recalc):
		m.recalculateMilestones()
		return m, nil
	case key.Matches(msg, keys.Export):
		m.exportTemplate()
		return m, nil
	}

	switch m.view {
	case ViewDashboard:
		return m.handleDashboardKeys(msg)
	case ViewKanban:
		return m.handleKanbanKeys(msg)
	}
	return m, nil
}

func (m *Model) switchView(v View) {
	m.board.Drag.Cancel()
	m.view = v
	m.pane = PaneMain
	m.clampCursors()
}

func (m *Model) toggleSidebar() {
	collapsed, err := m.prefs.ToggleSidebar()
	if err != nil {
		logger.Warn("Failed to save sidebar state", logger.Err(err))
	}
	m.collapsed = collapsed
	if collapsed {
		m.pane = PaneMain
	}
}

func (m Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.taskCursor < len(m.visibleTasks())-1 {
			m.taskCursor++
		}
	case msg.String() == "G":
		m.taskCursor = max(len(m.visibleTasks())-1, 0)
	case key.Matches(msg, keys.Left):
		if !m.collapsed {
			m.pane = PaneSidebar
		}
	case key.Matches(msg, keys.Filter):
		return m.startInput(ModeFilter, m.filterText, "/")
	case key.Matches(msg, keys.Sort):
		m.sortIdx = (m.sortIdx + 1) % len(sortKeys)
		m.message = fmt.Sprintf("Sorted by %s", m.sortKey())
	case key.Matches(msg, keys.Escape):
		if m.filterText != "" {
			m.filterText = ""
			m.message = "Filter cleared"
		}
	default:
		return m.handleTaskKeys(msg)
	}
	return m, nil
}

func (m Model) handleKanbanKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	drag := &m.board.Drag
	switch {
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		step := 1
		if key.Matches(msg, keys.Left) {
			step = -1
		}
		next := m.colCursor + step
		if next < 0 || next >= len(model.TaskStatuses) {
			if step < 0 && !drag.Active() && !m.collapsed {
				m.pane = PaneSidebar
			}
			return m, nil
		}
		m.colCursor = next
		if drag.Active() {
			drag.Hover(model.TaskStatuses[next])
		}
		m.cardCursor = 0
	case key.Matches(msg, keys.Up):
		if m.cardCursor > 0 && !drag.Active() {
			m.cardCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cardCursor < len(m.columnCards(m.colCursor))-1 && !drag.Active() {
			m.cardCursor++
		}
	case key.Matches(msg, keys.Grab):
		if drag.Active() {
			intent, ok := drag.Drop(model.TaskStatuses[m.colCursor])
			if !ok {
				m.message = "Dropped on the same column"
				return m, nil
			}
			return m, m.moveTask(intent.TaskID, intent.To)
		}
		if t := m.currentTask(); t != nil {
			drag.Start(*t)
			m.message = fmt.Sprintf("Moving %q - ←/→ then space", truncate(t.Title, 30))
		}
	case key.Matches(msg, keys.Escape):
		switch {
		case drag.Active():
			drag.Cancel()
			m.message = "Move cancelled"
		case m.board.Select.Active():
			m.board.Select.ToggleMode()
			m.message = "Multi-select off"
		}
	case key.Matches(msg, keys.Select):
		if m.board.Select.ToggleMode() {
			m.message = "Multi-select on - enter picks cards"
		} else {
			m.message = "Multi-select off"
		}
	case key.Matches(msg, keys.Enter):
		if t := m.currentTask(); t != nil && m.board.Select.Active() {
			m.board.Select.Toggle(t.ID)
			m.message = fmt.Sprintf("%d selected", m.board.Select.Len())
		}
	default:
		if drag.Active() {
			return m, nil
		}
		return m.handleTaskKeys(msg)
	}
	return m, nil
}

// handleTaskKeys applies task actions to the selection when there is one,
// otherwise to the task under the cursor
func (m Model) handleTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bulk := m.board.Select.Len() > 0
	t := m.currentTask()
	if !bulk && t == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Done):
		if bulk {
			return m, m.bulkStatus(model.StatusCompleted)
		}
		return m, m.moveTask(t.ID, toggled(t.Status, model.StatusCompleted))
	case key.Matches(msg, keys.Start):
		if bulk {
			return m, m.bulkStatus(model.StatusInProgress)
		}
		return m, m.moveTask(t.ID, toggled(t.Status, model.StatusInProgress))
	case key.Matches(msg, keys.Block):
		if bulk {
			return m, m.bulkStatus(model.StatusBlocked)
		}
		return m, m.moveTask(t.ID, toggled(t.Status, model.StatusBlocked))
	case key.Matches(msg, keys.Priority):
		p := []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}[msg.String()[0]-'1']
		if bulk {
			return m, m.bulkPriority(p)
		}
		m.setPriority(*t, p)
	case key.Matches(msg, keys.Edit):
		if !bulk {
			return m.startInput(ModeEditTask, t.Title, "Task title...")
		}
	case key.Matches(msg, keys.Delete):
		if bulk {
			m.deleteIDs = m.board.Select.IDs()
		} else {
			m.deleteIDs = []string{t.ID}
		}
		m.mode = ModeConfirmDelete
	}
	return m, nil
}

// toggled returns target, or Not Started when the task is already there
func toggled(current, target model.Status) model.Status {
	if current == target {
		return model.StatusNotStarted
	}
	return target
}

// moveTask shows the new status at once and saves it in the background
func (m *Model) moveTask(id string, status model.Status) tea.Cmd {
	before, err := m.board.Begin(id, status)
	if err != nil {
		m.message = err.Error()
		return nil
	}
	dash := m.dash
	return func() tea.Msg {
		saved, err := dash.ChangeTaskStatus(context.Background(), before, status)
		return moveDoneMsg{id: id, saved: saved, err: err}
	}
}

func (m *Model) bulkStatus(status model.Status) tea.Cmd {
	b, ids := m.board, m.board.TakeSelection()
	return func() tea.Msg {
		res, err := b.BulkStatus(context.Background(), ids, status)
		return bulkDoneMsg{action: "Status " + string(status), res: res, err: err}
	}
}

func (m *Model) bulkPriority(p model.Priority) tea.Cmd {
	b, ids := m.board, m.board.TakeSelection()
	return func() tea.Msg {
		res, err := b.BulkPriority(context.Background(), ids, p)
		return bulkDoneMsg{action: "Priority " + string(p), res: res, err: err}
	}
}

func (m *Model) setPriority(t model.Task, p model.Priority) {
	saved, err := m.dash.UpdateTask(context.Background(), t, model.PriorityPatch(p))
	if err != nil {
		m.message = service.Message(err)
		return
	}
	m.board.Upsert(saved)
	m.message = fmt.Sprintf("Priority set to %s", p)
}

func (m Model) startInput(mode Mode, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.Focus()
	m.input.CursorEnd()
	return m, textinput.Blink
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := m.input.Value()
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		switch mode {
		case ModeAddTask:
			m.addTask(value)
		case ModeAddProject:
			m.addProject(value)
		case ModeAddMilestone:
			m.addMilestone(value)
		case ModeEditTask:
			m.editTitle(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) addTask(title string) {
	proj := m.currentProject()
	if proj == nil {
		return
	}
	form := service.TaskForm{ProjectID: proj.ID, Title: title}
	if m.view == ViewKanban {
		form.Status = model.TaskStatuses[m.colCursor]
	}
	t, err := m.dash.CreateTask(context.Background(), form)
	if err != nil {
		m.message = service.Message(err)
		return
	}
	m.board.Upsert(t)
	m.refresher.Track(t)
	m.message = fmt.Sprintf("Added: %s", t.Title)
}

func (m *Model) addProject(name string) {
	start := today(m.now())
	p, err := m.dash.CreateProject(context.Background(), service.ProjectForm{
		Name:             name,
		StartDate:        start,
		TargetLaunchDate: start.AddDate(0, 0, 7*defaultProjectWeeks),
	})
	if err != nil {
		m.message = service.Message(err)
		return
	}
	if err := m.prefs.SetLastProject(p.ID); err != nil {
		logger.Warn("Failed to save last project", logger.Err(err))
	}
	m.loadProjects()
	m.message = fmt.Sprintf("Created project: %s", p.Name)
}

func (m *Model) addMilestone(value string) {
	proj := m.currentProject()
	if proj == nil {
		return
	}
	title, raw := splitTrailingDate(value)
	target, err := model.ParseDate(raw)
	if err != nil || title == "" {
		m.message = "End the milestone with its target date, e.g. Beta 2026-11-15"
		return
	}
	ms, err := m.dash.CreateMilestone(context.Background(), service.MilestoneForm{
		ProjectID:  proj.ID,
		Title:      title,
		TargetDate: target,
	}, m.board.Tasks())
	if err != nil {
		m.message = service.Message(err)
		return
	}
	m.milestones = append(m.milestones, ms)
	m.message = fmt.Sprintf("Added milestone: %s (%d%%)", ms.Title, ms.Progress)
}

func (m *Model) editTitle(title string) {
	t := m.currentTask()
	if t == nil {
		return
	}
	saved, err := m.dash.UpdateTask(context.Background(), *t, model.TaskPatch{Title: &title})
	if err != nil {
		m.message = service.Message(err)
		return
	}
	m.board.Upsert(saved)
	m.message = fmt.Sprintf("Updated: %s", saved.Title)
}

func (m *Model) recalculateMilestones() {
	ms, err := m.dash.RecalculateMilestones(context.Background(), m.projectData())
	if err != nil {
		m.message = service.Message(err)
		return
	}
	m.milestones = ms
	m.message = fmt.Sprintf("Recalculated %d milestones", len(ms))
}

// exportTemplate writes the project as a reusable template to the working directory
func (m *Model) exportTemplate() {
	file, err := m.dash.Export(m.projectData(), template.KindTemplate, template.FormatJSON, m.author)
	if err != nil {
		m.message = service.Message(err)
		return
	}
	if err := os.WriteFile(file.Name, file.Data, 0644); err != nil {
		logger.Error("Failed to write export", logger.Err(err), logger.F("file", file.Name))
		m.message = "Failed to write export file"
		return
	}
	m.message = "Exported " + file.Name
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.mode = ModeNormal
		m.filterText = ""
		m.input.Blur()
		m.clampCursors()
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.input.Blur()
		m.taskCursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Live filter as user types
	m.filterText = m.input.Value()
	m.taskCursor = 0
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	ids := m.deleteIDs
	m.deleteIDs = nil
	if msg.String() != "y" && msg.String() != "Y" {
		m.message = "Delete cancelled"
		return m, nil
	}

	if m.board.Select.Len() > 0 {
		b, ids := m.board, m.board.TakeSelection()
		return m, func() tea.Msg {
			res, err := b.BulkDelete(context.Background(), ids)
			return bulkDoneMsg{action: "Delete", res: res, err: err}
		}
	}
	for _, id := range ids {
		if err := m.dash.DeleteTask(context.Background(), id); err != nil {
			m.message = service.Message(err)
			return m, nil
		}
		m.board.Remove(id)
		m.refresher.Stop(id)
	}
	m.clampCursors()
	m.message = "Task deleted"
	return m, nil
}

// liveHours is the hours figure shown for a task right now
func (m Model) liveHours(t model.Task) float64 {
	return timetrack.ActualHours(t, m.now())
}
