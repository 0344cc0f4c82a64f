package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/prefs"
	"github.com/existflow/launchdeck/internal/service"
	"github.com/existflow/launchdeck/internal/store"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixture struct {
	dir  string
	dash *service.Dashboard
	p    *prefs.Prefs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(store.DriverSQLite, filepath.Join(dir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	dash, err := service.New(service.Options{
		Gateway: st,
		UserID:  "local",
		Clock:   fixedClock{t: time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	p, err := prefs.Load(dir)
	require.NoError(t, err)
	return &fixture{dir: dir, dash: dash, p: p}
}

func (f *fixture) project(t *testing.T, name string, titles ...string) model.Project {
	t.Helper()
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p, err := f.dash.CreateProject(ctx, service.ProjectForm{
		Name:             name,
		StartDate:        start,
		TargetLaunchDate: start.AddDate(0, 0, 42),
	})
	require.NoError(t, err)
	for _, title := range titles {
		_, err := f.dash.CreateTask(ctx, service.TaskForm{ProjectID: p.ID, Title: title})
		require.NoError(t, err)
	}
	return p
}

func (f *fixture) model(t *testing.T) Model {
	t.Helper()
	m := NewModel(f.dash, f.p, "tester")
	t.Cleanup(m.Close)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the returned command once, feeding its message back
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, ok := out.(liveTickMsg); !ok {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestNewModelOpensRememberedProject(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha", "a1")
	beta := f.project(t, "Beta", "b1", "b2")
	require.NoError(t, f.p.SetLastProject(beta.ID))

	m := f.model(t)
	require.NotNil(t, m.currentProject())
	assert.Equal(t, "Beta", m.currentProject().Name)
	assert.Len(t, m.board.Tasks(), 2)
	assert.Contains(t, m.View(), "Beta")
}

func TestSelectProjectRemembersChoice(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha")
	f.project(t, "Beta")

	m := f.model(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, PaneSidebar, m.pane)
	first := m.currentProject().ID
	m = press(t, m, runes("j"))

	assert.NotEqual(t, first, m.currentProject().ID)
	reloaded, err := prefs.Load(f.dir)
	require.NoError(t, err)
	assert.Equal(t, m.currentProject().ID, reloaded.LastProjectID)
}

func TestSidebarCollapsePersists(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha")

	m := f.model(t)
	m = press(t, m, runes("b"))
	assert.True(t, m.collapsed)

	reloaded, err := prefs.Load(f.dir)
	require.NoError(t, err)
	assert.True(t, reloaded.SidebarCollapsed)
}

func TestKanbanDragMovesCard(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha", "ship it")

	m := f.model(t)
	m = press(t, m, runes("]"))
	require.Equal(t, ViewKanban, m.view)

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.True(t, m.board.Drag.Active())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.False(t, m.board.Drag.Active())
	moved := m.board.Column(model.StatusInProgress)
	require.Len(t, moved, 1)
	assert.Equal(t, "ship it", moved[0].Task.Title)
	assert.Contains(t, m.refresher.Watching(), moved[0].Task.ID)

	data, err := f.dash.LoadProject(context.Background(), *m.currentProject())
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, data.Tasks[0].Status)
}

func TestKanbanDropOnSameColumnIsNoop(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha", "stay")

	m := f.model(t)
	m = press(t, m, runes("]"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.Len(t, m.board.Column(model.StatusNotStarted), 1)
	assert.Equal(t, "Dropped on the same column", m.message)
}

func TestMultiSelectBulkComplete(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha", "one", "two", "three")

	m := f.model(t)
	m = press(t, m, runes("]"))
	m = press(t, m, runes("V"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, 2, m.board.Select.Len())

	m = press(t, m, runes("x"))
	assert.Len(t, m.board.Column(model.StatusCompleted), 2)
	assert.Len(t, m.board.Column(model.StatusNotStarted), 1)
	assert.Zero(t, m.board.Select.Len())
	assert.Equal(t, "Status Completed: 2 done", m.message)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha", "keep", "drop")

	m := f.model(t)
	m = press(t, m, runes("d"))
	require.Equal(t, ModeConfirmDelete, m.mode)
	m = press(t, m, runes("n"))
	assert.Len(t, m.board.Tasks(), 2)

	m = press(t, m, runes("d"))
	m = press(t, m, runes("y"))
	assert.Len(t, m.board.Tasks(), 1)
	assert.Equal(t, ModeNormal, m.mode)
}

func TestAddMilestoneNeedsTrailingDate(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha")

	m := f.model(t)
	m = press(t, m, runes("m"))
	m.input.SetValue("Beta")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.milestones)
	assert.Contains(t, m.message, "target date")

	m = press(t, m, runes("m"))
	m.input.SetValue("Private beta 2026-07-01")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.milestones, 1)
	assert.Equal(t, "Private beta", m.milestones[0].Title)
}

func TestViewsRenderWithoutProjects(t *testing.T) {
	f := newFixture(t)
	m := f.model(t)
	for range viewNames {
		assert.Contains(t, m.View(), "No projects yet")
		m = press(t, m, runes("]"))
	}
}

func TestBulkActionTakesSelectionBeforeSaving(t *testing.T) {
	f := newFixture(t)
	f.project(t, "Alpha", "one", "two")

	m := f.model(t)
	m = press(t, m, runes("]"))
	m = press(t, m, runes("V"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	next, cmd := m.Update(runes("3"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.Zero(t, m.board.Select.Len())
	assert.True(t, m.board.Select.Active())

	next, _ = m.Update(cmd())
	m = next.(Model)
	for _, task := range m.board.Tasks() {
		assert.Equal(t, model.PriorityHigh, task.Priority)
	}
	assert.Equal(t, "Priority High: 2 done", m.message)
}
