package template

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/launchdeck/internal/model"
)

var (
	start = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	now   = time.Date(2026, 6, 15, 14, 5, 0, 0, time.UTC)
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleProject() (model.Project, []model.Task, []model.Milestone) {
	p := model.NewProject("p1", "u1", "Invoice Hub", start, start.AddDate(0, 0, 60))
	p.Description = "Billing for freelancers"

	t1 := model.NewTask("t1", p.ID, "u1", "Build React dashboard")
	t1.EstimatedHours = 12
	t1.DueDate = date(2026, 6, 10)
	t2 := model.NewTask("t2", p.ID, "u1", "Set up Postgres schema")
	t2.EstimatedHours = 8
	t2.Priority = model.PriorityHigh
	t2.DueDate = date(2026, 6, 3)
	t3 := model.NewTask("t3", p.ID, "u1", "Write launch post")
	t3.Category = "Marketing"
	t3.EstimatedHours = 4

	m1 := model.Milestone{ID: "m1", ProjectID: p.ID, Title: "Private beta", TargetDate: *date(2026, 6, 20)}
	return p, []model.Task{t1, t2, t3}, []model.Milestone{m1}
}

func TestBuildInfersProfile(t *testing.T) {
	p, tasks, ms := sampleProject()
	doc := Build(p, tasks, ms, "sam", now)

	assert.Equal(t, VersionCurrent, doc.Version)
	assert.Equal(t, "saas", doc.AIContext.ProjectType)
	assert.Equal(t, []string{"react", "postgresql"}, doc.AIContext.TechStack)
	assert.Equal(t, "beginner", doc.Metadata.Difficulty)
	assert.Equal(t, "sam", doc.Metadata.Author)
	assert.Equal(t, 24.0, doc.AIContext.EstimatedTotalHours)
	assert.Equal(t, 9, doc.Project.DurationWeeks)
	assert.Equal(t, 60, doc.Project.TargetLaunchDateOffsetDays)

	require.Len(t, doc.Tasks, 3)
	require.NotNil(t, doc.Tasks[0].DueDateOffsetDays)
	assert.Equal(t, 9, *doc.Tasks[0].DueDateOffsetDays)
	assert.Nil(t, doc.Tasks[2].DueDateOffsetDays)
	assert.Equal(t, 19, doc.Milestones[0].TargetDateOffsetDays)
}

func TestOffsetsClampAndRoundUp(t *testing.T) {
	assert.Equal(t, 0, offsetDays(start, start.AddDate(0, 0, -3)))
	assert.Equal(t, 1, offsetDays(start, start.Add(2*time.Hour)))
	assert.Equal(t, 5, offsetDays(start, start.AddDate(0, 0, 5)))
}

func TestInference(t *testing.T) {
	assert.Equal(t, DefaultProjectType, InferProjectType("write docs"))
	assert.Equal(t, "ecommerce", InferProjectType("Shopping CART checkout"))
	// saas is listed first so it wins over mobile
	assert.Equal(t, "saas", InferProjectType("mobile billing"))
	assert.Equal(t, DefaultTechStack, InferTechStack("nothing technical"))
	assert.Equal(t, []string{"python", "redis"}, InferTechStack("Django app with Redis cache"))

	assert.Equal(t, "beginner", InferDifficulty(39.9))
	assert.Equal(t, "intermediate", InferDifficulty(40))
	assert.Equal(t, "advanced", InferDifficulty(120))
}

func TestEncodeJSONUsesOffsetFieldNames(t *testing.T) {
	p, tasks, ms := sampleProject()
	data, err := EncodeJSON(Build(p, tasks, ms, "sam", now))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2.0", raw["version"])
	assert.Contains(t, raw, "ai_context")
	project := raw["project"].(map[string]any)
	assert.Contains(t, project, "target_launch_date_offset_days")
	assert.NotContains(t, project, "target_launch_date")
}

func TestRoundTripReconstructsDates(t *testing.T) {
	p, tasks, ms := sampleProject()
	data, err := EncodeJSON(Build(p, tasks, ms, "sam", now))
	require.NoError(t, err)

	tpl, err := Parse(data, p.StartDate)
	require.NoError(t, err)

	assert.Equal(t, p.Name, tpl.Project.Name)
	assert.True(t, tpl.Project.StartDate.Equal(p.StartDate))
	assert.True(t, tpl.Project.TargetLaunchDate.Equal(p.TargetLaunchDate))
	require.Len(t, tpl.Tasks, len(tasks))
	for i, task := range tasks {
		if task.DueDate == nil {
			assert.Nil(t, tpl.Tasks[i].DueDate)
			continue
		}
		require.NotNil(t, tpl.Tasks[i].DueDate)
		assert.Equal(t, task.DueDate.Format(model.DateLayout), tpl.Tasks[i].DueDate.Format(model.DateLayout))
		assert.Equal(t, task.Priority, tpl.Tasks[i].Priority)
	}
	assert.Equal(t, ms[0].TargetDate.Format(model.DateLayout), tpl.Milestones[0].TargetDate.Format(model.DateLayout))
}

func TestExportRecordsCSVEscapes(t *testing.T) {
	p, tasks, ms := sampleProject()
	tasks[0].Title = `Ship "v1", then rest`
	tasks[1].Description = "line one\nline two"

	data, err := ExportRecords(p, tasks, ms, KindTasks, FormatCSV)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "id,title,description,"))
	assert.Contains(t, out, `"Ship ""v1"", then rest"`)
	assert.Contains(t, out, "\"line one\nline two\"")
	assert.Contains(t, out, ",2026-06-10,")
}

func TestExportRecordsJSONKeepsAbsoluteDates(t *testing.T) {
	p, tasks, ms := sampleProject()
	data, err := ExportRecords(p, tasks, ms, KindComplete, FormatJSON)
	require.NoError(t, err)

	var out struct {
		Project    model.Project     `json:"project"`
		Tasks      []model.Task      `json:"tasks"`
		Milestones []model.Milestone `json:"milestones"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Invoice Hub", out.Project.Name)
	require.Len(t, out.Tasks, 3)
	assert.True(t, out.Tasks[0].DueDate.Equal(*tasks[0].DueDate))

	_, err = ExportRecords(p, tasks, ms, KindComplete, FormatCSV)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "My_App_2_0__tasks_2026-06-15T14-05.csv", Filename("My App 2.0!", KindTasks, FormatCSV, now))
	assert.Equal(t, "Hub_template_2026-06-15T14-05.json", Filename("Hub", KindTemplate, FormatJSON, now))
}
