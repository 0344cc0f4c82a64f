package template

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// Kind selects which records an export contains
type Kind string

const (
	KindTasks      Kind = "tasks"
	KindMilestones Kind = "milestones"
	KindComplete   Kind = "complete"
	KindTemplate   Kind = "template"
)

// Format is the export file format, also used as the file extension
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for kind/format pairs that have no rendering
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseKind validates an export kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindTasks, KindMilestones, KindComplete, KindTemplate:
		return k, nil
	}
	return "", fmt.Errorf("unknown export kind %q (expected tasks, milestones, complete or template)", s)
}

// ParseFormat validates an export format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (expected json or csv)", s)
}

// completeExport is the JSON shape of a complete record export
type completeExport struct {
	Project    model.Project     `json:"project"`
	Tasks      []model.Task      `json:"tasks"`
	Milestones []model.Milestone `json:"milestones"`
}

// ExportRecords renders live records with their absolute dates.
// The complete kind is JSON only since it mixes record types.
func ExportRecords(project model.Project, tasks []model.Task, milestones []model.Milestone, kind Kind, format Format) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	if milestones == nil {
		milestones = []model.Milestone{}
	}

	switch {
	case kind == KindTasks && format == FormatJSON:
		return json.MarshalIndent(tasks, "", "  ")
	case kind == KindMilestones && format == FormatJSON:
		return json.MarshalIndent(milestones, "", "  ")
	case kind == KindComplete && format == FormatJSON:
		return json.MarshalIndent(completeExport{project, tasks, milestones}, "", "  ")
	case kind == KindTasks && format == FormatCSV:
		return writeCSV(taskHeader, len(tasks), func(i int) []string { return taskRow(tasks[i]) })
	case kind == KindMilestones && format == FormatCSV:
		return writeCSV(milestoneHeader, len(milestones), func(i int) []string { return milestoneRow(milestones[i]) })
	}
	return nil, fmt.Errorf("%w: %s as %s", ErrUnsupportedFormat, kind, format)
}

var taskHeader = []string{
	"id", "title", "description", "category", "priority", "status",
	"estimated_hours", "actual_hours", "due_date", "sprint_week", "created_at", "completed_at",
}

func taskRow(t model.Task) []string {
	return []string{
		t.ID,
		t.Title,
		t.Description,
		t.Category,
		string(t.Priority),
		string(t.Status),
		formatHours(t.EstimatedHours),
		formatHours(t.ActualHours),
		formatDate(t.DueDate),
		strconv.Itoa(t.SprintWeek),
		t.CreatedAt.UTC().Format(time.RFC3339),
		formatTimestamp(t.CompletedAt),
	}
}

var milestoneHeader = []string{"id", "title", "description", "target_date", "status", "progress"}

func milestoneRow(m model.Milestone) []string {
	return []string{
		m.ID,
		m.Title,
		m.Description,
		m.TargetDate.Format(model.DateLayout),
		string(m.Status),
		strconv.Itoa(m.Progress),
	}
}

func writeCSV(header []string, n int, row func(int) []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(model.DateLayout)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename builds "{name}_{kind}_{YYYY-MM-DDTHH-MM}.{ext}" with every
// non-alphanumeric rune in the project name replaced by an underscore.
func Filename(projectName string, kind Kind, ext Format, now time.Time) string {
	name := unsafeNameChars.ReplaceAllString(projectName, "_")
	stamp := now.UTC().Format("2006-01-02T15-04")
	return fmt.Sprintf("%s_%s_%s.%s", name, kind, stamp, ext)
}
