package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/existflow/launchdeck/internal/board"
	"github.com/existflow/launchdeck/internal/insights"
	"github.com/existflow/launchdeck/internal/logger"
	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/prefs"
	"github.com/existflow/launchdeck/internal/service"
	"github.com/existflow/launchdeck/internal/timetrack"
)

// View is one of the dashboard screens
type View int

const (
	ViewDashboard View = iota
	ViewKanban
	ViewAnalytics
	ViewTimeline
)

var viewNames = []string{"Dashboard", "Kanban", "Analytics", "Timeline"}

func (v View) String() string {
	return viewNames[v]
}

// Pane represents which pane is focused
type Pane int

const (
	PaneSidebar Pane = iota
	PaneMain
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeAddProject
	ModeAddMilestone
	ModeEditTask
	ModeFilter
	ModeConfirmDelete
	ModeHelp
)

var sortKeys = []insights.SortKey{
	insights.SortByDueDate,
	insights.SortByPriority,
	insights.SortByCreated,
	insights.SortByTitle,
}

// Model is the main TUI model
type Model struct {
	dash   *service.Dashboard
	prefs  *prefs.Prefs
	author string

	projects   []model.Project
	milestones []model.Milestone
	board      *board.Board

	// Live hours for In Progress tasks
	refresher *timetrack.Refresher
	tickChan  chan string

	// UI state
	width      int
	height     int
	view       View
	pane       Pane
	mode       Mode
	projCursor int
	taskCursor int
	colCursor  int
	cardCursor int
	sortIdx    int
	collapsed  bool

	// Input
	input textinput.Model

	filterText string
	deleteIDs  []string
	message    string
}

// NewModel creates a new TUI model over the dashboard
func NewModel(dash *service.Dashboard, p *prefs.Prefs, author string) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	if p == nil {
		p = &prefs.Prefs{}
	}
	tickChan := make(chan string, 1)
	m := Model{
		dash:      dash,
		prefs:     p,
		author:    author,
		board:     board.New(dash, nil),
		tickChan:  tickChan,
		pane:      PaneMain,
		mode:      ModeNormal,
		input:     ti,
		collapsed: p.SidebarCollapsed,
	}
	m.refresher = timetrack.NewRefresher(timetrack.DefaultInterval, func(taskID string) {
		select {
		case tickChan <- taskID:
		default:
		}
	})

	m.loadProjects()
	logger.Debug("TUI model initialized",
		logger.F("projects", len(m.projects)),
		logger.F("tasks", len(m.board.Tasks())))
	return m
}

// Close stops every live-hours ticker
func (m Model) Close() {
	m.refresher.Close()
}

// loadProjects reloads the project list and opens the remembered project
func (m *Model) loadProjects() {
	projects, err := m.dash.LoadProjects(context.Background())
	if err != nil {
		m.message = service.Message(err)
		return
	}
	m.projects = projects
	m.projCursor = 0
	if p, ok := m.prefs.PickProject(projects); ok {
		for i := range projects {
			if projects[i].ID == p.ID {
				m.projCursor = i
			}
		}
	}
	m.loadData()
}

// loadData loads tasks and milestones of the project under the cursor
func (m *Model) loadData() {
	proj := m.currentProject()
	if proj == nil {
		m.board.Load(nil)
		m.milestones = nil
		m.refresher.TrackAll(nil)
		return
	}
	data, err := m.dash.LoadProject(context.Background(), *proj)
	if err != nil {
		m.message = service.Message(err)
	}
	m.board.Load(data.Tasks)
	m.milestones = data.Milestones
	m.refresher.TrackAll(data.Tasks)
	m.clampCursors()
}

// selectProject moves the project cursor and remembers the choice
func (m *Model) selectProject(i int) {
	if i < 0 || i >= len(m.projects) || i == m.projCursor {
		return
	}
	m.projCursor = i
	m.taskCursor, m.cardCursor = 0, 0
	m.board.Drag.Cancel()
	if m.board.Select.Active() {
		m.board.Select.ToggleMode()
	}
	if err := m.prefs.SetLastProject(m.projects[i].ID); err != nil {
		logger.Warn("Failed to save last project", logger.Err(err))
	}
	m.loadData()
}

func (m *Model) currentProject() *model.Project {
	if m.projCursor < len(m.projects) {
		return &m.projects[m.projCursor]
	}
	return nil
}

// projectData is the current project as the views see it
func (m *Model) projectData() service.ProjectData {
	var data service.ProjectData
	if p := m.currentProject(); p != nil {
		data.Project = *p
	}
	data.Tasks = m.board.Tasks()
	data.Milestones = m.milestones
	return data
}

func (m *Model) sortKey() insights.SortKey {
	return sortKeys[m.sortIdx]
}

// visibleTasks is the dashboard task list after search and sort
func (m *Model) visibleTasks() []model.Task {
	tasks := insights.FilterTasks(m.board.Tasks(), insights.Filter{Search: m.filterText})
	return insights.SortTasks(tasks, m.sortKey())
}

// columnCards returns the kanban column under the cursor
func (m *Model) columnCards(col int) []board.Card {
	return m.board.Column(model.TaskStatuses[col])
}

// currentTask returns the task under the cursor of the active view
func (m *Model) currentTask() *model.Task {
	switch m.view {
	case ViewKanban:
		cards := m.columnCards(m.colCursor)
		if m.cardCursor < len(cards) {
			return &cards[m.cardCursor].Task
		}
	case ViewDashboard:
		tasks := m.visibleTasks()
		if m.taskCursor < len(tasks) {
			return &tasks[m.taskCursor]
		}
	}
	return nil
}

func (m *Model) clampCursors() {
	if n := len(m.visibleTasks()); m.taskCursor >= n {
		m.taskCursor = max(n-1, 0)
	}
	if n := len(m.columnCards(m.colCursor)); m.cardCursor >= n {
		m.cardCursor = max(n-1, 0)
	}
}

func (m *Model) now() time.Time {
	return m.dash.Now()
}
