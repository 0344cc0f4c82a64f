// Package template converts projects to and from portable, calendar-independent
// templates, and renders plain JSON/CSV exports of live records.
package template

import (
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// Template versions understood by the importer
const (
	VersionLegacy  = "1.0"
	VersionCurrent = "2.0"
)

// Metadata describes a template for browsing and preview
type Metadata struct {
	Name        string   `json:"name"`
	Author      string   `json:"author"`
	Description string   `json:"description,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Category    string   `json:"category,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// ProjectShape is the exported project with its dates turned into offsets
type ProjectShape struct {
	Name                       string `json:"name"`
	Description                string `json:"description,omitempty"`
	DurationWeeks              int    `json:"duration_weeks"`
	TotalSprints               int    `json:"total_sprints"`
	StartDateOffsetDays        int    `json:"start_date_offset_days"`
	TargetLaunchDateOffsetDays int    `json:"target_launch_date_offset_days"`
}

// TaskShape is an exported task without identity, status or tracking fields
type TaskShape struct {
	Title             string  `json:"title"`
	Description       string  `json:"description,omitempty"`
	Category          string  `json:"category"`
	Priority          string  `json:"priority"`
	EstimatedHours    float64 `json:"estimated_hours"`
	SprintWeek        int     `json:"sprint_week"`
	DueDateOffsetDays *int    `json:"due_date_offset_days,omitempty"`
}

// MilestoneShape is an exported milestone
type MilestoneShape struct {
	Title                string `json:"title"`
	Description          string `json:"description,omitempty"`
	TargetDateOffsetDays int    `json:"target_date_offset_days"`
}

// AIContext carries the inferred project profile
type AIContext struct {
	ProjectType         string   `json:"project_type"`
	TechStack           []string `json:"tech_stack"`
	TargetAudience      string   `json:"target_audience"`
	BudgetRange         string   `json:"budget_range"`
	EstimatedTotalHours float64  `json:"estimated_total_hours"`
	DurationWeeks       int      `json:"duration_weeks"`
}

// Document is the v2.0 template file as written by the exporter
type Document struct {
	Version    string           `json:"version"`
	Metadata   Metadata         `json:"metadata"`
	Project    ProjectShape     `json:"project"`
	Milestones []MilestoneShape `json:"milestones"`
	Tasks      []TaskShape      `json:"tasks"`
	AIContext  AIContext        `json:"ai_context"`
}

// Template is the canonical imported form, with absolute dates.
// Both template versions convert into this shape.
type Template struct {
	Version    string
	Metadata   Metadata
	Project    ProjectSpec
	Milestones []MilestoneSpec
	Tasks      []TaskSpec
}

// ProjectSpec is the project to create or overwrite on import
type ProjectSpec struct {
	Name             string
	Description      string
	StartDate        time.Time
	TargetLaunchDate time.Time
	TotalSprints     int
}

// MilestoneSpec is a milestone to create on import
type MilestoneSpec struct {
	Title       string
	Description string
	TargetDate  time.Time
}

// TaskSpec is a task to create on import
type TaskSpec struct {
	Title          string
	Description    string
	Category       string
	Priority       model.Priority
	EstimatedHours float64
	SprintWeek     int
	DueDate        *time.Time
}

// Patch returns the project update applied in replace mode
func (p ProjectSpec) Patch() model.ProjectPatch {
	return model.ProjectPatch{
		Name:             &p.Name,
		Description:      &p.Description,
		StartDate:        &p.StartDate,
		TargetLaunchDate: &p.TargetLaunchDate,
		TotalSprints:     &p.TotalSprints,
	}
}
