package template

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/launchdeck/internal/model"
)

const v2Doc = `{
  "version": "2.0",
  "metadata": {"name": "Starter", "author": "sam", "tags": ["react"]},
  "project": {"name": "Starter", "duration_weeks": 4, "target_launch_date_offset_days": 28},
  "milestones": [{"title": "Alpha", "target_date_offset_days": 14}],
  "tasks": [
    {"title": "Scaffold", "priority": "High", "due_date_offset_days": 2, "estimated_hours": 3},
    {"title": "Landing page", "category": "Design"}
  ]
}`

func TestParseV2MaterializesOffsets(t *testing.T) {
	base := time.Date(2026, 7, 1, 10, 30, 0, 0, time.UTC)
	tpl, err := Parse([]byte(v2Doc), base)
	require.NoError(t, err)

	assert.Equal(t, VersionCurrent, tpl.Version)
	assert.Equal(t, "sam", tpl.Metadata.Author)
	assert.Equal(t, "2026-07-01", tpl.Project.StartDate.Format(model.DateLayout))
	assert.Equal(t, "2026-07-29", tpl.Project.TargetLaunchDate.Format(model.DateLayout))
	assert.Equal(t, 4, tpl.Project.TotalSprints)
	assert.Equal(t, "2026-07-15", tpl.Milestones[0].TargetDate.Format(model.DateLayout))

	require.Len(t, tpl.Tasks, 2)
	assert.Equal(t, model.PriorityHigh, tpl.Tasks[0].Priority)
	assert.Equal(t, "2026-07-03", tpl.Tasks[0].DueDate.Format(model.DateLayout))
	assert.Nil(t, tpl.Tasks[1].DueDate)
	assert.Equal(t, "Design", tpl.Tasks[1].Category)
	assert.Equal(t, model.PriorityMedium, tpl.Tasks[1].Priority)
	assert.Equal(t, 1, tpl.Tasks[1].SprintWeek)
}

func TestParseV1(t *testing.T) {
	doc := `{
	  "version": "1.0",
	  "projectData": {"name": "Old", "start_date": "2026-01-05", "target_launch_date": "2026-02-02"},
	  "tasks": [{"title": "Port", "due_date": "2026-01-10"}],
	  "milestones": []
	}`
	tpl, err := Parse([]byte(doc), now)
	require.NoError(t, err)

	assert.Equal(t, VersionLegacy, tpl.Version)
	assert.Equal(t, "Old", tpl.Metadata.Name)
	assert.Equal(t, "2026-01-05", tpl.Project.StartDate.Format(model.DateLayout))
	assert.Equal(t, 4, tpl.Project.TotalSprints)
	assert.Equal(t, "2026-01-10", tpl.Tasks[0].DueDate.Format(model.DateLayout))
	assert.Empty(t, tpl.Milestones)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"version": "2.0",`), now)
	assert.ErrorIs(t, err, ErrFileFormat)

	_, err = Parse([]byte(`[1, 2]`), now)
	assert.ErrorIs(t, err, ErrFileFormat)
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name  string
		doc   string
		field string
	}{
		{"missing version", `{"tasks": []}`, "version"},
		{"missing author", `{"version":"2.0","metadata":{"name":"x"},"project":{},"tasks":[],"milestones":[]}`, "metadata.author"},
		{"missing metadata", `{"version":"2.0","project":{},"tasks":[],"milestones":[]}`, "metadata"},
		{"tasks not array", `{"version":"2.0","metadata":{"name":"x","author":"a"},"project":{},"tasks":{},"milestones":[]}`, "tasks"},
		{"missing project", `{"version":"2.0","metadata":{"name":"x","author":"a"},"tasks":[],"milestones":[]}`, "project"},
		{"missing projectData", `{"version":"1.0","tasks":[],"milestones":[]}`, "projectData"},
		{"v1 milestones missing", `{"version":"1.0","projectData":{"name":"x"},"tasks":[]}`, "milestones"},
		{"untitled task", `{"version":"1.0","projectData":{"name":"x"},"tasks":[{"title":""}],"milestones":[]}`, "tasks[0].title"},
		{"bad priority", `{"version":"1.0","projectData":{"name":"x"},"tasks":[{"title":"a","priority":"urgent"}],"milestones":[]}`, "tasks[0].priority"},
		{"offset not number", `{"version":"1.0","projectData":{"name":"x"},"tasks":[{"title":"a","due_date_offset_days":"3"}],"milestones":[]}`, "tasks[0].due_date_offset_days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc), now)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestParseAuthorMessageIsSpecific(t *testing.T) {
	_, err := Parse([]byte(`{"version":"2.0","metadata":{"name":"x"},"project":{},"tasks":[],"milestones":[]}`), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata.author")
}

func TestParseUnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte(`{"version":"3.1","tasks":[],"milestones":[]}`), now)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
	assert.Contains(t, err.Error(), `"3.1"`)
}

func TestPreviewLimitsLists(t *testing.T) {
	tpl := &Template{Version: VersionCurrent, Metadata: Metadata{Name: "Big"}}
	for i := 0; i < 8; i++ {
		tpl.Tasks = append(tpl.Tasks, TaskSpec{Title: fmt.Sprintf("task %d", i)})
	}
	tpl.Milestones = []MilestoneSpec{{Title: "only"}}

	p := Preview(tpl)
	assert.Equal(t, 8, p.TaskCount)
	assert.Len(t, p.Tasks, PreviewLimit)
	assert.Equal(t, "task 0", p.Tasks[0].Title)
	assert.Equal(t, 1, p.MilestoneCount)
	assert.Len(t, p.Milestones, 1)
	assert.Equal(t, "Big", p.Metadata.Name)
}
