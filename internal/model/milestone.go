package model

import "time"

// Milestone is a dated checkpoint inside a project. Its status never takes Blocked.
type Milestone struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TargetDate  time.Time `json:"target_date"`
	Status      Status    `json:"status"`
	Progress    int       `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MilestonePatch is a partial milestone update
type MilestonePatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Progress    *int       `json:"progress,omitempty"`
}

// IsCompleted returns true if the milestone is done
func (m *Milestone) IsCompleted() bool {
	return m.Status == StatusCompleted
}

// Apply merges a patch into the milestone, clamping progress to [0,100]
func (m *Milestone) Apply(p MilestonePatch, now time.Time) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.TargetDate != nil {
		m.TargetDate = *p.TargetDate
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Progress != nil {
		m.Progress = min(max(*p.Progress, 0), 100)
	}
	m.UpdatedAt = now
}
