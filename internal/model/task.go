package model

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a task or milestone
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusBlocked    Status = "Blocked" // tasks only
)

// TaskStatuses lists task statuses in kanban column order
var TaskStatuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusBlocked}

// ParseStatus accepts the wire label or a short alias
func ParseStatus(s string) (Status, error) {
	switch s {
	case "Not Started", "not-started", "todo":
		return StatusNotStarted, nil
	case "In Progress", "in-progress", "doing":
		return StatusInProgress, nil
	case "Completed", "completed", "done":
		return StatusCompleted, nil
	case "Blocked", "blocked":
		return StatusBlocked, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Priority levels for tasks
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority accepts the wire label or its lowercase form
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "Low", "low":
		return PriorityLow, nil
	case "Medium", "medium":
		return PriorityMedium, nil
	case "High", "high":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Categories is the conventional palette offered by pickers. Category is an open string.
var Categories = []string{
	"Development",
	"Design",
	"Marketing",
	"Research",
	"Testing",
	"Operations",
	"Content",
	"Other",
}

// Task represents a single unit of work inside a project
type Task struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"project_id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Category       string     `json:"category"`
	Priority       Priority   `json:"priority"`
	Status         Status     `json:"status"`
	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    float64    `json:"actual_hours"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	SprintWeek     int        `json:"sprint_week"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`

	// Time tracking. A nil total marks a record created before tracking existed.
	InProgressStartedAt    *time.Time `json:"in_progress_started_at,omitempty"`
	InProgressTotalSeconds *int64     `json:"in_progress_total_seconds,omitempty"`
	LastStatusChangeAt     *time.Time `json:"last_status_change_at,omitempty"`
}

// NewTask creates a new task with defaults
func NewTask(id, projectID, userID, title string) Task {
	now := time.Now()
	var zero int64
	return Task{
		ID:                     id,
		ProjectID:              projectID,
		UserID:                 userID,
		Title:                  title,
		Category:               "Development",
		Priority:               PriorityMedium,
		Status:                 StatusNotStarted,
		SprintWeek:             1,
		CreatedAt:              now,
		UpdatedAt:              now,
		InProgressTotalSeconds: &zero,
	}
}

// HasTimeTracking reports whether the task carries accumulator fields
func (t *Task) HasTimeTracking() bool {
	return t.InProgressTotalSeconds != nil
}

// IsActive returns true if the task still needs work
func (t *Task) IsActive() bool {
	return t.Status != StatusCompleted
}

// IsOverdue returns true if the task is past its due date relative to now
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return DaysBetween(now, *t.DueDate) < 0
}

// IsDueOn returns true if the due date falls on the same calendar day as day
func (t *Task) IsDueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return DaysBetween(day, *t.DueDate) == 0
}

// TimeUpdate sets or clears a nullable timestamp in a patch
type TimeUpdate struct {
	Value *time.Time `json:"value"`
}

// SetTime builds an update that stores t
func SetTime(t time.Time) *TimeUpdate {
	return &TimeUpdate{Value: &t}
}

// ClearTime builds an update that nulls the field
func ClearTime() *TimeUpdate {
	return &TimeUpdate{}
}

// TaskPatch is a partial task update; nil fields are left untouched
type TaskPatch struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Priority       *Priority  `json:"priority,omitempty"`
	Status         *Status    `json:"status,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	SprintWeek     *int       `json:"sprint_week,omitempty"`

	InProgressStartedAt    *TimeUpdate `json:"in_progress_started_at,omitempty"`
	InProgressTotalSeconds *int64      `json:"in_progress_total_seconds,omitempty"`
	LastStatusChangeAt     *time.Time  `json:"last_status_change_at,omitempty"`
}

// Apply merges a patch into the task. A status in the patch also maintains
// CompletedAt: set on entering Completed, cleared on any other status.
func (t *Task) Apply(p TaskPatch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		t.ActualHours = *p.ActualHours
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
	if p.SprintWeek != nil {
		t.SprintWeek = *p.SprintWeek
	}
	if p.InProgressStartedAt != nil {
		t.InProgressStartedAt = p.InProgressStartedAt.Value
	}
	if p.InProgressTotalSeconds != nil {
		secs := *p.InProgressTotalSeconds
		t.InProgressTotalSeconds = &secs
	}
	if p.LastStatusChangeAt != nil {
		at := *p.LastStatusChangeAt
		t.LastStatusChangeAt = &at
	}
	if p.Status != nil {
		if *p.Status == StatusCompleted {
			if t.Status != StatusCompleted || t.CompletedAt == nil {
				done := now
				t.CompletedAt = &done
			}
		} else {
			t.CompletedAt = nil
		}
		t.Status = *p.Status
	}
	t.UpdatedAt = now
}

// StatusPatch is a shorthand for a patch that only changes status
func StatusPatch(s Status) TaskPatch {
	return TaskPatch{Status: &s}
}

// PriorityPatch is a shorthand for a patch that only changes priority
func PriorityPatch(p Priority) TaskPatch {
	return TaskPatch{Priority: &p}
}
