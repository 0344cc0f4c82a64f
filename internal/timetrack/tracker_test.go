package timetrack

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func applyTransition(task *model.Task, to model.Status, at time.Time) {
	patch := StatusChangeUpdates(task.Status, to, *task, at)
	task.Apply(patch, at)
}

func TestStatusChange_StartThenComplete(t *testing.T) {
	task := model.NewTask("t1", "p1", "u1", "Wire billing")

	applyTransition(&task, model.StatusInProgress, t0)
	require.NotNil(t, task.InProgressStartedAt)
	assert.Equal(t, t0, *task.InProgressStartedAt)

	applyTransition(&task, model.StatusCompleted, t0.Add(90*time.Second))
	assert.Nil(t, task.InProgressStartedAt)
	require.NotNil(t, task.InProgressTotalSeconds)
	assert.Equal(t, int64(90), *task.InProgressTotalSeconds)
	// 90 seconds is stored but rounds to 0.0 displayed hours
	assert.Equal(t, 0.0, ActualHours(task, t0.Add(time.Hour)))
	require.NotNil(t, task.LastStatusChangeAt)
	assert.Equal(t, t0.Add(90*time.Second), *task.LastStatusChangeAt)
	assert.NotNil(t, task.CompletedAt)
}

func TestStatusChange_AccumulatesAcrossSessions(t *testing.T) {
	task := model.NewTask("t1", "p1", "u1", "Design onboarding")

	applyTransition(&task, model.StatusInProgress, t0)
	applyTransition(&task, model.StatusBlocked, t0.Add(time.Hour))
	applyTransition(&task, model.StatusInProgress, t0.Add(3*time.Hour))

	// One closed hour plus a live half hour
	assert.Equal(t, 1.5, ActualHours(task, t0.Add(3*time.Hour+30*time.Minute)))

	applyTransition(&task, model.StatusNotStarted, t0.Add(5*time.Hour))
	assert.Equal(t, int64(3*3600), *task.InProgressTotalSeconds)
	assert.Equal(t, 3.0, ActualHours(task, t0.Add(10*time.Hour)))
}

func TestStatusChange_SameStatusOnlyTouchesTimestamp(t *testing.T) {
	task := model.NewTask("t1", "p1", "u1", "Noop")
	patch := StatusChangeUpdates(model.StatusNotStarted, model.StatusNotStarted, task, t0)
	assert.Nil(t, patch.Status)
	assert.Nil(t, patch.InProgressStartedAt)
	require.NotNil(t, patch.LastStatusChangeAt)
}

func TestActualHours_LegacyFallsBackToStoredValue(t *testing.T) {
	task := model.Task{Status: model.StatusInProgress, ActualHours: 4.5}
	assert.Equal(t, 4.5, ActualHours(task, t0))
}

func TestActualHours_InProgressWithoutStart(t *testing.T) {
	total := int64(7200)
	task := model.Task{Status: model.StatusInProgress, InProgressTotalSeconds: &total}
	assert.Equal(t, 2.0, ActualHours(task, t0))
}

func TestRefresher_TicksOnlyWhileInProgress(t *testing.T) {
	var ticks atomic.Int32
	r := NewRefresher(5*time.Millisecond, func(string) { ticks.Add(1) })
	defer r.Close()

	task := model.Task{ID: "a", Status: model.StatusInProgress}
	r.Track(task)
	r.Track(task) // second call must not start a second ticker
	assert.Len(t, r.Watching(), 1)

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)

	task.Status = model.StatusCompleted
	r.Track(task)
	assert.Empty(t, r.Watching())

	settled := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, ticks.Load(), settled+1)
}

func TestRefresher_TrackAllDropsMissingTasks(t *testing.T) {
	r := NewRefresher(time.Hour, nil)
	defer r.Close()

	r.TrackAll([]model.Task{{ID: "a", Status: model.StatusInProgress}, {ID: "b", Status: model.StatusInProgress}})
	assert.Len(t, r.Watching(), 2)

	r.TrackAll([]model.Task{{ID: "b", Status: model.StatusInProgress}})
	assert.Equal(t, []string{"b"}, r.Watching())
}

func TestRefresher_CloseStopsEverything(t *testing.T) {
	r := NewRefresher(time.Hour, nil)
	r.Track(model.Task{ID: "a", Status: model.StatusInProgress})
	r.Close()
	assert.Empty(t, r.Watching())

	r.Track(model.Task{ID: "b", Status: model.StatusInProgress})
	assert.Empty(t, r.Watching())
}
