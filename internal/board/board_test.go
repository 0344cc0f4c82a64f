package board

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/service"
	"github.com/existflow/launchdeck/internal/store"
)

var errBackend = errors.New("backend unavailable")

// flakyGateway fails updates and deletes for chosen task ids
type flakyGateway struct {
	gateway.Gateway
	failUpdate map[string]bool
	failDelete map[string]bool
}

func (f *flakyGateway) UpdateTask(ctx context.Context, id, userID string, patch model.TaskPatch) (model.Task, error) {
	if f.failUpdate[id] {
		return model.Task{}, errBackend
	}
	return f.Gateway.UpdateTask(ctx, id, userID, patch)
}

func (f *flakyGateway) DeleteTask(ctx context.Context, id, userID string) error {
	if f.failDelete[id] {
		return errBackend
	}
	return f.Gateway.DeleteTask(ctx, id, userID)
}

func setup(t *testing.T, titles ...string) (*Board, *flakyGateway, []model.Task) {
	t.Helper()
	s, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "board.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	gw := &flakyGateway{Gateway: s, failUpdate: map[string]bool{}, failDelete: map[string]bool{}}
	dash, err := service.New(service.Options{Gateway: gw, UserID: "u1"})
	require.NoError(t, err)

	ctx := context.Background()
	start := time.Now()
	p, err := dash.CreateProject(ctx, service.ProjectForm{Name: "Board", StartDate: start, TargetLaunchDate: start.AddDate(0, 0, 14)})
	require.NoError(t, err)

	var tasks []model.Task
	for _, title := range titles {
		task, err := dash.CreateTask(ctx, service.TaskForm{ProjectID: p.ID, Title: title})
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	return New(dash, tasks), gw, tasks
}

func TestDragMachine(t *testing.T) {
	var d Drag
	_, ok := d.Drop(model.StatusCompleted)
	assert.False(t, ok, "drop while idle")

	d.Start(model.Task{ID: "t1", Status: model.StatusNotStarted})
	assert.True(t, d.Active())
	d.Hover(model.StatusInProgress)
	assert.Equal(t, model.StatusInProgress, d.Over())

	intent, ok := d.Drop(model.StatusInProgress)
	require.True(t, ok)
	assert.Equal(t, DropIntent{TaskID: "t1", From: model.StatusNotStarted, To: model.StatusInProgress}, intent)
	assert.False(t, d.Active())

	d.Start(model.Task{ID: "t1", Status: model.StatusBlocked})
	d.Cancel()
	assert.False(t, d.Active())

	d.Start(model.Task{ID: "t1", Status: model.StatusBlocked})
	_, ok = d.Drop(model.StatusBlocked)
	assert.False(t, ok, "same column")
	assert.False(t, d.Active())
}

func TestSelectionMachine(t *testing.T) {
	var s Selection
	assert.False(t, s.Toggle("a"), "inactive selection ignores picks")

	require.True(t, s.ToggleMode())
	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Toggle("b"))
	assert.False(t, s.Toggle("a"))
	assert.Equal(t, []string{"b"}, s.IDs())

	s.Clear()
	assert.True(t, s.Active())
	assert.Zero(t, s.Len())

	s.Toggle("c")
	assert.False(t, s.ToggleMode())
	assert.Zero(t, s.Len())
}

func TestMoveConfirms(t *testing.T) {
	b, _, tasks := setup(t, "one")

	saved, err := b.Move(context.Background(), tasks[0].ID, model.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, saved.Status)

	card, ok := b.Card(tasks[0].ID)
	require.True(t, ok)
	assert.Equal(t, Confirmed, card.State)
	assert.NotNil(t, card.Task.InProgressStartedAt)
	assert.Len(t, b.Column(model.StatusInProgress), 1)
}

func TestMoveRevertsOnFailure(t *testing.T) {
	b, gw, tasks := setup(t, "one")
	gw.failUpdate[tasks[0].ID] = true

	_, err := b.Move(context.Background(), tasks[0].ID, model.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, "Failed to update task status. Please try again.", service.Message(err))

	card, _ := b.Card(tasks[0].ID)
	assert.Equal(t, Confirmed, card.State)
	assert.Equal(t, model.StatusNotStarted, card.Task.Status)
	assert.Nil(t, card.Task.CompletedAt)
}

func TestBeginShowsPending(t *testing.T) {
	b, _, tasks := setup(t, "one")

	before, err := b.Begin(tasks[0].ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotStarted, before.Status)

	card, _ := b.Card(tasks[0].ID)
	assert.Equal(t, Pending, card.State)
	assert.Equal(t, model.StatusCompleted, card.Task.Status)
	assert.NotNil(t, card.Task.CompletedAt)

	b.Revert(tasks[0].ID)
	card, _ = b.Card(tasks[0].ID)
	assert.Equal(t, model.StatusNotStarted, card.Task.Status)

	_, err = b.Begin("missing", model.StatusCompleted)
	assert.Error(t, err)
}

func TestDropOnMovesDraggedTask(t *testing.T) {
	b, _, tasks := setup(t, "one")

	b.Drag.Start(tasks[0])
	_, moved, err := b.DropOn(context.Background(), model.StatusNotStarted)
	require.NoError(t, err)
	assert.False(t, moved)

	b.Drag.Start(tasks[0])
	saved, moved, err := b.DropOn(context.Background(), model.StatusBlocked)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, model.StatusBlocked, saved.Status)
}

func TestBulkStatusSecondTaskFails(t *testing.T) {
	b, gw, tasks := setup(t, "one", "two", "three")
	gw.failUpdate[tasks[1].ID] = true

	b.Select.ToggleMode()
	for _, task := range tasks {
		b.Select.Toggle(task.ID)
	}

	ids := b.TakeSelection()
	assert.Zero(t, b.Select.Len())
	assert.True(t, b.Select.Active())

	res, err := b.BulkStatus(context.Background(), ids, model.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, "Failed to update status for 1 of 3 tasks. Please try again.", service.Message(err))
	assert.Equal(t, []string{tasks[1].ID}, res.Failed)

	got := map[string]model.Status{}
	for _, task := range b.Tasks() {
		got[task.ID] = task.Status
	}
	assert.Equal(t, model.StatusCompleted, got[tasks[0].ID])
	assert.Equal(t, model.StatusNotStarted, got[tasks[1].ID])
	assert.Equal(t, model.StatusCompleted, got[tasks[2].ID])
}

func TestBulkPriorityAndDelete(t *testing.T) {
	b, gw, tasks := setup(t, "one", "two")
	ctx := context.Background()

	b.Select.ToggleMode()
	b.Select.Toggle(tasks[0].ID)
	b.Select.Toggle(tasks[1].ID)
	_, err := b.BulkPriority(ctx, b.TakeSelection(), model.PriorityHigh)
	require.NoError(t, err)
	for _, task := range b.Tasks() {
		assert.Equal(t, model.PriorityHigh, task.Priority)
	}
	assert.Zero(t, b.Select.Len())

	gw.failDelete[tasks[0].ID] = true
	b.Select.Toggle(tasks[0].ID)
	b.Select.Toggle(tasks[1].ID)
	res, err := b.BulkDelete(ctx, b.TakeSelection())
	require.Error(t, err)
	assert.Equal(t, []string{tasks[1].ID}, res.Deleted)

	remaining := b.Tasks()
	require.Len(t, remaining, 1)
	assert.Equal(t, tasks[0].ID, remaining[0].ID)
	assert.Zero(t, b.Select.Len())
}

func TestBulkRunsWhileSelectionChanges(t *testing.T) {
	b, _, tasks := setup(t, "one", "two", "three")

	b.Select.ToggleMode()
	b.Select.Toggle(tasks[0].ID)
	b.Select.Toggle(tasks[1].ID)
	ids := b.TakeSelection()

	done := make(chan error, 1)
	go func() {
		_, err := b.BulkStatus(context.Background(), ids, model.StatusCompleted)
		done <- err
	}()
	for i := 0; i < 100; i++ {
		b.Select.Toggle(tasks[2].ID)
		_ = b.Select.Has(tasks[2].ID)
		_ = b.Select.Len()
	}
	require.NoError(t, <-done)

	assert.Len(t, b.Column(model.StatusCompleted), 2)
	assert.Zero(t, b.Select.Len())
}

func TestBeginRejectsPendingCard(t *testing.T) {
	b, gw, tasks := setup(t, "one")
	ctx := context.Background()
	id := tasks[0].ID

	first, err := b.Begin(id, model.StatusInProgress)
	require.NoError(t, err)
	_, err = b.Begin(id, model.StatusCompleted)
	require.ErrorIs(t, err, ErrPending)

	card, _ := b.Card(id)
	assert.Equal(t, model.StatusInProgress, card.Task.Status)

	saved, err := b.store.ChangeTaskStatus(ctx, first, model.StatusInProgress)
	require.NoError(t, err)
	b.Confirm(saved)

	gw.failUpdate[id] = true
	_, err = b.Move(ctx, id, model.StatusCompleted)
	require.Error(t, err)

	card, _ = b.Card(id)
	assert.Equal(t, Confirmed, card.State)
	assert.Equal(t, model.StatusInProgress, card.Task.Status)
}
