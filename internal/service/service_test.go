package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/launchdeck/internal/model"
	"github.com/existflow/launchdeck/internal/template"
)

const userID = "u1"

func setup(t *testing.T) (*Dashboard, *fakeGateway, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)}
	gw := newFakeGateway(clock)
	seq := 0
	d, err := New(Options{
		Gateway: gw,
		UserID:  userID,
		Clock:   clock,
		IDs: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	require.NoError(t, err)
	return d, gw, clock
}

func seedProject(t *testing.T, d *Dashboard) model.Project {
	t.Helper()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p, err := d.CreateProject(context.Background(), ProjectForm{
		Name:             "Launch",
		StartDate:        start,
		TargetLaunchDate: start.AddDate(0, 0, 30),
	})
	require.NoError(t, err)
	return p
}

func seedTasks(t *testing.T, d *Dashboard, projectID string, titles ...string) []model.Task {
	t.Helper()
	var out []model.Task
	for _, title := range titles {
		task, err := d.CreateTask(context.Background(), TaskForm{ProjectID: projectID, Title: title})
		require.NoError(t, err)
		out = append(out, task)
	}
	return out
}

func TestNewRequiresGatewayAndUser(t *testing.T) {
	_, err := New(Options{UserID: "u"})
	assert.Error(t, err)
	_, err = New(Options{Gateway: newFakeGateway(&testClock{})})
	assert.Error(t, err)
}

func TestCreateProjectSizesSprints(t *testing.T) {
	d, _, _ := setup(t)
	p := seedProject(t, d)
	assert.Equal(t, 5, p.TotalSprints)
	assert.Equal(t, 1, p.CurrentSprint)
	assert.Equal(t, userID, p.UserID)
}

func TestFormValidation(t *testing.T) {
	d, gw, _ := setup(t)
	ctx := context.Background()

	_, err := d.CreateTask(ctx, TaskForm{ProjectID: "p", Title: "   "})
	require.Error(t, err)
	assert.Equal(t, "Title is required.", Message(err))

	_, err = d.CreateTask(ctx, TaskForm{ProjectID: "p", Title: "x", EstimatedHours: -1})
	assert.Equal(t, "Estimated hours must be at least 0.", Message(err))

	_, err = d.CreateTask(ctx, TaskForm{Title: "x"})
	assert.Equal(t, "Project ID is required.", Message(err))

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err = d.CreateProject(ctx, ProjectForm{Name: "x", StartDate: start, TargetLaunchDate: start.AddDate(0, 0, -1)})
	assert.Equal(t, "Target launch date must not be before Start date.", Message(err))

	assert.Empty(t, gw.calls)
}

func TestBackendFailureBecomesUserError(t *testing.T) {
	d, gw, _ := setup(t)
	p := seedProject(t, d)
	gw.fail["CreateTask"] = errBackend

	_, err := d.CreateTask(context.Background(), TaskForm{ProjectID: p.ID, Title: "Ship"})
	var ue *UserError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "Failed to create task. Please try again.", ue.Message)
	assert.ErrorIs(t, err, errBackend)
}

func TestChangeTaskStatusTracksTime(t *testing.T) {
	d, gw, clock := setup(t)
	ctx := context.Background()
	p := seedProject(t, d)
	task := seedTasks(t, d, p.ID, "Build")[0]

	task, err := d.ChangeTaskStatus(ctx, task, model.StatusInProgress)
	require.NoError(t, err)
	require.NotNil(t, task.InProgressStartedAt)

	clock.Advance(90 * time.Second)
	task, err = d.ChangeTaskStatus(ctx, task, model.StatusCompleted)
	require.NoError(t, err)

	assert.Equal(t, int64(90), *task.InProgressTotalSeconds)
	assert.Equal(t, 0.0, task.ActualHours)
	assert.Nil(t, task.InProgressStartedAt)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, task, gw.tasks[task.ID])
}

func TestChangeTaskStatusSeedsLegacyHours(t *testing.T) {
	d, gw, clock := setup(t)
	ctx := context.Background()
	p := seedProject(t, d)
	task := seedTasks(t, d, p.ID, "Old work")[0]

	task.InProgressTotalSeconds = nil
	task.ActualHours = 2
	gw.tasks[task.ID] = task

	task, err := d.ChangeTaskStatus(ctx, task, model.StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, task.InProgressTotalSeconds)

	clock.Advance(30 * time.Minute)
	task, err = d.ChangeTaskStatus(ctx, task, model.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, int64(2*3600+1800), *task.InProgressTotalSeconds)
	assert.Equal(t, 2.5, task.ActualHours)
}

func TestBulkStatusPartialFailure(t *testing.T) {
	d, gw, _ := setup(t)
	p := seedProject(t, d)
	tasks := seedTasks(t, d, p.ID, "one", "two", "three")
	gw.fail["UpdateTask:"+tasks[1].ID] = errBackend

	res, err := d.BulkUpdateStatus(context.Background(), tasks, model.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, "Failed to update status for 1 of 3 tasks. Please try again.", Message(err))

	assert.Equal(t, []string{tasks[1].ID}, res.Failed)
	require.Len(t, res.Updated, 2)
	assert.Equal(t, tasks[0].ID, res.Updated[0].ID)
	assert.Equal(t, tasks[2].ID, res.Updated[1].ID)
	assert.Equal(t, model.StatusCompleted, gw.tasks[tasks[0].ID].Status)
	assert.Equal(t, model.StatusNotStarted, gw.tasks[tasks[1].ID].Status)
	assert.Equal(t, model.StatusCompleted, gw.tasks[tasks[2].ID].Status)
}

func TestBulkPriorityAndDelete(t *testing.T) {
	d, gw, _ := setup(t)
	ctx := context.Background()
	p := seedProject(t, d)
	tasks := seedTasks(t, d, p.ID, "a", "b")

	res, err := d.BulkUpdatePriority(ctx, tasks, model.PriorityHigh)
	require.NoError(t, err)
	assert.Len(t, res.Updated, 2)
	assert.Equal(t, model.PriorityHigh, gw.tasks[tasks[0].ID].Priority)

	gw.fail["DeleteTask:"+tasks[0].ID] = errBackend
	res, err = d.BulkDelete(ctx, []string{tasks[0].ID, tasks[1].ID})
	require.Error(t, err)
	assert.Equal(t, []string{tasks[1].ID}, res.Deleted)
	assert.Contains(t, gw.tasks, tasks[0].ID)
	assert.NotContains(t, gw.tasks, tasks[1].ID)
}

func TestRecalculateMilestone(t *testing.T) {
	d, _, _ := setup(t)
	ctx := context.Background()
	p := seedProject(t, d)
	target := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)

	near := target.AddDate(0, 0, -2)
	done, err := d.CreateTask(ctx, TaskForm{ProjectID: p.ID, Title: "done", DueDate: &near, Status: model.StatusCompleted})
	require.NoError(t, err)
	open, err := d.CreateTask(ctx, TaskForm{ProjectID: p.ID, Title: "open", DueDate: &near})
	require.NoError(t, err)
	far := target.AddDate(0, 0, 30)
	_, err = d.CreateTask(ctx, TaskForm{ProjectID: p.ID, Title: "far", DueDate: &far})
	require.NoError(t, err)

	m, err := d.CreateMilestone(ctx, MilestoneForm{ProjectID: p.ID, Title: "Beta", TargetDate: target}, []model.Task{done, open})
	require.NoError(t, err)
	assert.Equal(t, 50, m.Progress)
	assert.Equal(t, model.StatusInProgress, m.Status)

	open.Status = model.StatusCompleted
	m, err = d.RecalculateMilestone(ctx, m, []model.Task{done, open})
	require.NoError(t, err)
	assert.Equal(t, 100, m.Progress)
	assert.Equal(t, model.StatusCompleted, m.Status)
}

func sampleTemplate() *template.Template {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, 3)
	return &template.Template{
		Version:  template.VersionCurrent,
		Metadata: template.Metadata{Name: "Starter", Author: "sam"},
		Project: template.ProjectSpec{
			Name:             "Starter",
			StartDate:        start,
			TargetLaunchDate: start.AddDate(0, 0, 28),
			TotalSprints:     4,
		},
		Milestones: []template.MilestoneSpec{{Title: "Alpha", TargetDate: start.AddDate(0, 0, 14)}},
		Tasks: []template.TaskSpec{
			{Title: "Scaffold", Category: "Development", Priority: model.PriorityHigh, SprintWeek: 1, DueDate: &due},
			{Title: "Broken", Category: "Design", Priority: model.PriorityLow, SprintWeek: 2},
			{Title: "Landing", Category: "Design", Priority: model.PriorityMedium, SprintWeek: 2},
		},
	}
}

func TestImportNewProjectIsBestEffort(t *testing.T) {
	d, gw, _ := setup(t)
	gw.fail["CreateTask:Broken"] = errBackend

	res, err := d.ImportTemplate(context.Background(), sampleTemplate(), ImportNewProject, nil)
	require.Error(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.MilestonesCreated)
	assert.Equal(t, 2, res.TasksCreated)
	assert.Equal(t, "Starter", gw.projects[res.Project.ID].Name)

	// project before milestones before tasks
	assert.Equal(t, "CreateProject:Starter", gw.calls[0])
	assert.Equal(t, "CreateMilestone:Alpha", gw.calls[1])
	assert.Equal(t, "CreateTask:Scaffold", gw.calls[2])
}

func TestImportReplaceCurrent(t *testing.T) {
	d, gw, _ := setup(t)
	ctx := context.Background()

	_, err := d.ImportTemplate(ctx, sampleTemplate(), ImportReplaceCurrent, nil)
	assert.ErrorIs(t, err, ErrModeUnavailable)

	p := seedProject(t, d)
	seedTasks(t, d, p.ID, "old one", "old two")
	_, err = d.CreateMilestone(ctx, MilestoneForm{ProjectID: p.ID, Title: "Old", TargetDate: p.TargetLaunchDate}, nil)
	require.NoError(t, err)

	res, err := d.ImportTemplate(ctx, sampleTemplate(), ImportReplaceCurrent, &p)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TasksRemoved)
	assert.Equal(t, 1, res.MilestonesRemoved)
	assert.Equal(t, p.ID, res.Project.ID)
	assert.Equal(t, "Starter", res.Project.Name)

	tasks, err := gw.ListTasks(ctx, p.ID, userID)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
	milestones, err := gw.ListMilestones(ctx, p.ID, userID)
	require.NoError(t, err)
	require.Len(t, milestones, 1)
	assert.Equal(t, "Alpha", milestones[0].Title)
}

func TestImportModes(t *testing.T) {
	assert.Equal(t, []ImportMode{ImportNewProject}, AvailableModes(nil))
	assert.Len(t, AvailableModes(&model.Project{}), 2)
	_, err := ParseImportMode("merge")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	d, _, _ := setup(t)
	p := seedProject(t, d)
	data := ProjectData{Project: p, Tasks: seedTasks(t, d, p.ID, "a")}

	file, err := d.Export(data, template.KindTemplate, template.FormatCSV, "sam")
	require.NoError(t, err)
	assert.Equal(t, "Launch_template_2026-06-15T09-00.json", file.Name)
	assert.Contains(t, string(file.Data), `"version": "2.0"`)

	file, err = d.Export(data, template.KindTasks, template.FormatCSV, "")
	require.NoError(t, err)
	assert.Equal(t, "Launch_tasks_2026-06-15T09-00.csv", file.Name)

	_, err = d.Export(data, template.KindComplete, template.FormatCSV, "")
	assert.ErrorIs(t, err, template.ErrUnsupportedFormat)
}

func TestResetAccount(t *testing.T) {
	d, gw, _ := setup(t)
	p := seedProject(t, d)
	seedTasks(t, d, p.ID, "a")

	require.NoError(t, d.ResetAccount(context.Background()))
	assert.Empty(t, gw.projects)
	assert.Empty(t, gw.tasks)

	gw.fail["ResetAllUserData"] = errBackend
	assert.Equal(t, "Failed to reset account. Please try again.", Message(d.ResetAccount(context.Background())))
}

func TestLoadProject(t *testing.T) {
	d, gw, _ := setup(t)
	p := seedProject(t, d)
	seedTasks(t, d, p.ID, "a", "b")

	data, err := d.LoadProject(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, data.Tasks, 2)

	gw.fail["ListMilestones"] = errBackend
	_, err = d.LoadProject(context.Background(), p)
	assert.Equal(t, "Failed to load project data. Please try again.", Message(err))
}
