package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

var (
	// ErrFileFormat means the upload is not readable JSON
	ErrFileFormat = errors.New("failed to read file")
	// ErrUnsupportedVersion means the version field names no known schema
	ErrUnsupportedVersion = errors.New("unsupported template version")
)

// ValidationError reports the first field that keeps a template from importing
type ValidationError struct {
	Field   string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	return "invalid template: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

const offsetSuffix = "_offset_days"

// document is one version of the template file format.
// Parse converts every variant into a Template before returning.
type document interface {
	schemaVersion() string
}

// documentV1 is the legacy format with absolute dates under projectData
type documentV1 struct {
	project    projectRecord
	tasks      []taskRecord
	milestones []milestoneRecord
}

// documentV2 adds metadata and relative dates
type documentV2 struct {
	metadata   Metadata
	project    projectRecord
	tasks      []taskRecord
	milestones []milestoneRecord
}

func (*documentV1) schemaVersion() string { return VersionLegacy }
func (*documentV2) schemaVersion() string { return VersionCurrent }

type projectRecord struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	StartDate        string `json:"start_date"`
	TargetLaunchDate string `json:"target_launch_date"`
	TotalSprints     int    `json:"total_sprints"`
	DurationWeeks    int    `json:"duration_weeks"`
}

type taskRecord struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Category       string  `json:"category"`
	Priority       string  `json:"priority"`
	EstimatedHours float64 `json:"estimated_hours"`
	SprintWeek     int     `json:"sprint_week"`
	DueDate        string  `json:"due_date"`
}

type milestoneRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
}

// Parse reads a template file. Offsets are resolved against base, which is
// normally the moment of import. Nothing is written anywhere; callers preview
// the result and then hand it to the import flow.
func Parse(data []byte, base time.Time) (*Template, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileFormat, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrFileFormat)
	}

	doc, err := decode(raw, base)
	if err != nil {
		return nil, err
	}
	return canonical(doc, base)
}

func decode(raw map[string]json.RawMessage, base time.Time) (document, error) {
	var version string
	if msg, ok := raw["version"]; !ok || isNull(msg) {
		return nil, invalid("version", "version is required")
	} else if err := json.Unmarshal(msg, &version); err != nil {
		return nil, invalid("version", "version must be a string")
	}

	switch version {
	case VersionCurrent:
		return decodeV2(raw, base)
	case VersionLegacy:
		return decodeV1(raw, base)
	}
	return nil, &ValidationError{
		Field:   "version",
		Message: fmt.Sprintf("version %q is not supported (expected %s or %s)", version, VersionLegacy, VersionCurrent),
		err:     ErrUnsupportedVersion,
	}
}

func decodeV2(raw map[string]json.RawMessage, base time.Time) (*documentV2, error) {
	meta, err := objectField(raw, "metadata")
	if err != nil {
		return nil, err
	}
	doc := &documentV2{}
	if err := recast(meta, "metadata", &doc.metadata); err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.metadata.Name) == "" {
		return nil, invalid("metadata.name", "metadata.name is required")
	}
	if strings.TrimSpace(doc.metadata.Author) == "" {
		return nil, invalid("metadata.author", "metadata.author is required: templates must name their author")
	}

	if doc.project, err = projectField(raw, "project", base); err != nil {
		return nil, err
	}
	if doc.tasks, err = listField[taskRecord](raw, "tasks", base); err != nil {
		return nil, err
	}
	if doc.milestones, err = listField[milestoneRecord](raw, "milestones", base); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeV1(raw map[string]json.RawMessage, base time.Time) (*documentV1, error) {
	doc := &documentV1{}
	var err error
	if doc.project, err = projectField(raw, "projectData", base); err != nil {
		return nil, err
	}
	if doc.tasks, err = listField[taskRecord](raw, "tasks", base); err != nil {
		return nil, err
	}
	if doc.milestones, err = listField[milestoneRecord](raw, "milestones", base); err != nil {
		return nil, err
	}
	return doc, nil
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

func objectField(raw map[string]json.RawMessage, field string) (map[string]any, error) {
	msg, ok := raw[field]
	if !ok || isNull(msg) {
		return nil, invalid(field, "%s is required", field)
	}
	var obj map[string]any
	if err := json.Unmarshal(msg, &obj); err != nil {
		return nil, invalid(field, "%s must be an object", field)
	}
	return obj, nil
}

func projectField(raw map[string]json.RawMessage, field string, base time.Time) (projectRecord, error) {
	var rec projectRecord
	obj, err := objectField(raw, field)
	if err != nil {
		return rec, err
	}
	if err := materialize(obj, field, base); err != nil {
		return rec, err
	}
	return rec, recast(obj, field, &rec)
}

func listField[T any](raw map[string]json.RawMessage, field string, base time.Time) ([]T, error) {
	msg, ok := raw[field]
	if !ok || isNull(msg) {
		return nil, invalid(field, "%s is required", field)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		return nil, invalid(field, "%s must be an array", field)
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", field, i)
		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			return nil, invalid(path, "%s must be an object", path)
		}
		if err := materialize(obj, path, base); err != nil {
			return nil, err
		}
		var rec T
		if err := recast(obj, path, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// materialize replaces every "<field>_offset_days" key with "<field>" holding
// the ISO date base+offset.
func materialize(obj map[string]any, path string, base time.Time) error {
	var keys []string
	for k := range obj {
		if strings.HasSuffix(k, offsetSuffix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		days, ok := obj[k].(float64)
		if !ok {
			return invalid(path+"."+k, "%s.%s must be a number", path, k)
		}
		delete(obj, k)
		obj[strings.TrimSuffix(k, offsetSuffix)] = base.AddDate(0, 0, int(math.Round(days))).Format(model.DateLayout)
	}
	return nil
}

// recast moves a generic object into its typed record
func recast(obj map[string]any, path string, out any) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return invalid(path, "%s could not be read: %v", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return invalid(path+"."+typeErr.Field, "%s.%s has the wrong type (expected %s)", path, typeErr.Field, typeErr.Type)
		}
		return invalid(path, "%s could not be read: %v", path, err)
	}
	return nil
}

// canonical converts any document variant into the internal Template
func canonical(doc document, base time.Time) (*Template, error) {
	var (
		meta       Metadata
		project    projectRecord
		tasks      []taskRecord
		milestones []milestoneRecord
	)
	switch d := doc.(type) {
	case *documentV2:
		meta, project, tasks, milestones = d.metadata, d.project, d.tasks, d.milestones
	case *documentV1:
		meta = Metadata{Name: d.project.Name, Author: "unknown", Description: d.project.Description}
		project, tasks, milestones = d.project, d.tasks, d.milestones
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedVersion, doc)
	}

	tpl := &Template{Version: doc.schemaVersion(), Metadata: meta}
	var err error
	if tpl.Project, err = convertProject(project, meta, base); err != nil {
		return nil, err
	}
	for i, rec := range milestones {
		spec, err := convertMilestone(rec, i)
		if err != nil {
			return nil, err
		}
		tpl.Milestones = append(tpl.Milestones, spec)
	}
	for i, rec := range tasks {
		spec, err := convertTask(rec, i)
		if err != nil {
			return nil, err
		}
		tpl.Tasks = append(tpl.Tasks, spec)
	}
	return tpl, nil
}

func parseField(value, field string) (time.Time, error) {
	t, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}, invalid(field, "%s is not a date: %q", field, value)
	}
	return t, nil
}

func convertProject(rec projectRecord, meta Metadata, base time.Time) (ProjectSpec, error) {
	spec := ProjectSpec{Name: rec.Name, Description: rec.Description, TotalSprints: rec.TotalSprints}
	if spec.Name == "" {
		spec.Name = meta.Name
	}
	if strings.TrimSpace(spec.Name) == "" {
		return spec, invalid("project.name", "project.name is required")
	}
	if spec.Description == "" {
		spec.Description = meta.Description
	}

	var err error
	if rec.StartDate == "" {
		spec.StartDate, _ = time.Parse(model.DateLayout, base.Format(model.DateLayout))
	} else if spec.StartDate, err = parseField(rec.StartDate, "project.start_date"); err != nil {
		return spec, err
	}

	switch {
	case rec.TargetLaunchDate != "":
		if spec.TargetLaunchDate, err = parseField(rec.TargetLaunchDate, "project.target_launch_date"); err != nil {
			return spec, err
		}
	default:
		spec.TargetLaunchDate = spec.StartDate.AddDate(0, 0, 7*rec.DurationWeeks)
	}

	if spec.TotalSprints <= 0 {
		spec.TotalSprints = model.WeeksBetween(spec.StartDate, spec.TargetLaunchDate)
	}
	return spec, nil
}

func convertMilestone(rec milestoneRecord, i int) (MilestoneSpec, error) {
	path := fmt.Sprintf("milestones[%d]", i)
	spec := MilestoneSpec{Title: rec.Title, Description: rec.Description}
	if strings.TrimSpace(rec.Title) == "" {
		return spec, invalid(path+".title", "%s.title is required", path)
	}
	if rec.TargetDate == "" {
		return spec, invalid(path+".target_date", "%s.target_date is required", path)
	}
	var err error
	spec.TargetDate, err = parseField(rec.TargetDate, path+".target_date")
	return spec, err
}

func convertTask(rec taskRecord, i int) (TaskSpec, error) {
	path := fmt.Sprintf("tasks[%d]", i)
	spec := TaskSpec{
		Title:          rec.Title,
		Description:    rec.Description,
		Category:       rec.Category,
		Priority:       model.PriorityMedium,
		EstimatedHours: rec.EstimatedHours,
		SprintWeek:     rec.SprintWeek,
	}
	if strings.TrimSpace(rec.Title) == "" {
		return spec, invalid(path+".title", "%s.title is required", path)
	}
	if spec.Category == "" {
		spec.Category = model.Categories[0]
	}
	if spec.SprintWeek <= 0 {
		spec.SprintWeek = 1
	}
	if rec.Priority != "" {
		p, err := model.ParsePriority(rec.Priority)
		if err != nil {
			return spec, invalid(path+".priority", "%s.priority %q is not Low, Medium or High", path, rec.Priority)
		}
		spec.Priority = p
	}
	if rec.DueDate != "" {
		due, err := parseField(rec.DueDate, path+".due_date")
		if err != nil {
			return spec, err
		}
		spec.DueDate = &due
	}
	return spec, nil
}
