package template

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/existflow/launchdeck/internal/model"
)

// Build turns a live project into a v2.0 template. Dates become day offsets
// from the project start so the template can be replayed on any calendar.
func Build(project model.Project, tasks []model.Task, milestones []model.Milestone, author string, now time.Time) Document {
	var totalHours float64
	var taskText, allText strings.Builder
	for _, t := range tasks {
		totalHours += t.EstimatedHours
		taskText.WriteString(t.Title + " " + t.Description + " ")
	}
	allText.WriteString(taskText.String())
	for _, m := range milestones {
		allText.WriteString(m.Title + " " + m.Description + " ")
	}

	projectType := InferProjectType(allText.String())
	techStack := InferTechStack(taskText.String())
	band := bandFor(totalHours)
	weeks := model.WeeksBetween(project.StartDate, project.TargetLaunchDate)

	doc := Document{
		Version: VersionCurrent,
		Metadata: Metadata{
			Name:        project.Name,
			Author:      author,
			Description: project.Description,
			Difficulty:  band.difficulty,
			Tags:        techStack,
			Category:    projectType,
			CreatedAt:   now.UTC().Format(time.RFC3339),
		},
		Project: ProjectShape{
			Name:                       project.Name,
			Description:                project.Description,
			DurationWeeks:              weeks,
			TotalSprints:               project.TotalSprints,
			TargetLaunchDateOffsetDays: offsetDays(project.StartDate, project.TargetLaunchDate),
		},
		Milestones: make([]MilestoneShape, 0, len(milestones)),
		Tasks:      make([]TaskShape, 0, len(tasks)),
		AIContext: AIContext{
			ProjectType:         projectType,
			TechStack:           techStack,
			TargetAudience:      band.audience,
			BudgetRange:         band.budget,
			EstimatedTotalHours: totalHours,
			DurationWeeks:       weeks,
		},
	}

	for _, m := range milestones {
		doc.Milestones = append(doc.Milestones, MilestoneShape{
			Title:                m.Title,
			Description:          m.Description,
			TargetDateOffsetDays: offsetDays(project.StartDate, m.TargetDate),
		})
	}
	for _, t := range tasks {
		shape := TaskShape{
			Title:          t.Title,
			Description:    t.Description,
			Category:       t.Category,
			Priority:       string(t.Priority),
			EstimatedHours: t.EstimatedHours,
			SprintWeek:     t.SprintWeek,
		}
		if t.DueDate != nil {
			off := offsetDays(project.StartDate, *t.DueDate)
			shape.DueDateOffsetDays = &off
		}
		doc.Tasks = append(doc.Tasks, shape)
	}
	return doc
}

// offsetDays is the whole number of days from start to date, rounded up and never negative
func offsetDays(start, date time.Time) int {
	days := date.Sub(start).Hours() / 24
	return max(0, int(math.Ceil(days)))
}

// EncodeJSON renders a template document the way it is written to disk
func EncodeJSON(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
