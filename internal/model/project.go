package model

import "time"

// Project is the top-level container for tasks and milestones
type Project struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartDate        time.Time `json:"start_date"`
	TargetLaunchDate time.Time `json:"target_launch_date"`
	CurrentSprint    int       `json:"current_sprint"`
	TotalSprints     int       `json:"total_sprints"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProjectPatch is a partial update; nil fields are left untouched
type ProjectPatch struct {
	Name             *string    `json:"name,omitempty"`
	Description      *string    `json:"description,omitempty"`
	StartDate        *time.Time `json:"start_date,omitempty"`
	TargetLaunchDate *time.Time `json:"target_launch_date,omitempty"`
	CurrentSprint    *int       `json:"current_sprint,omitempty"`
	TotalSprints     *int       `json:"total_sprints,omitempty"`
}

// NewProject creates a project with sprint defaults
func NewProject(id, userID, name string, start, target time.Time) Project {
	now := time.Now()
	return Project{
		ID:               id,
		UserID:           userID,
		Name:             name,
		StartDate:        start,
		TargetLaunchDate: target,
		CurrentSprint:    1,
		TotalSprints:     WeeksBetween(start, target),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Apply merges a patch into the project
func (p *Project) Apply(patch ProjectPatch, now time.Time) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.TargetLaunchDate != nil {
		p.TargetLaunchDate = *patch.TargetLaunchDate
	}
	if patch.CurrentSprint != nil {
		p.CurrentSprint = *patch.CurrentSprint
	}
	if patch.TotalSprints != nil {
		p.TotalSprints = *patch.TotalSprints
	}
	p.UpdatedAt = now
}
