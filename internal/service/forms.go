package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/existflow/launchdeck/internal/model"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	_ = validate.RegisterValidation("nonempty", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// ProjectForm is the input for creating a project
type ProjectForm struct {
	Name             string    `validate:"required,nonempty,max=120"`
	Description      string    `validate:"max=2000"`
	StartDate        time.Time `validate:"required"`
	TargetLaunchDate time.Time `validate:"required,gtefield=StartDate"`
}

// TaskForm is the input for creating a task. Zero values take the task defaults.
type TaskForm struct {
	ProjectID      string         `validate:"required"`
	Title          string         `validate:"required,nonempty,max=200"`
	Description    string         `validate:"max=2000"`
	Category       string         `validate:"max=60"`
	Priority       model.Priority `validate:"omitempty,oneof=Low Medium High"`
	Status         model.Status   `validate:"omitempty,oneof='Not Started' 'In Progress' Completed Blocked"`
	EstimatedHours float64        `validate:"gte=0,lte=1000"`
	DueDate        *time.Time
	SprintWeek     int `validate:"gte=0"`
}

// MilestoneForm is the input for creating a milestone
type MilestoneForm struct {
	ProjectID   string    `validate:"required"`
	Title       string    `validate:"required,nonempty,max=200"`
	Description string    `validate:"max=2000"`
	TargetDate  time.Time `validate:"required"`
}

// checkForm validates a form and returns a UserError naming the first bad field
func checkForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &UserError{Message: "Invalid input.", Err: err}
	}
	return &UserError{Message: fieldMessage(fieldErrs[0]), Err: err}
}

func fieldMessage(fe validator.FieldError) string {
	name := humanize(fe.Field())
	switch fe.Tag() {
	case "required", "nonempty":
		return name + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s.", name, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", name, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s.", name, humanize(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", name, fe.Param())
	}
	return name + " is invalid."
}

// humanize turns "TargetLaunchDate" into "Target launch date" and "ProjectID" into "Project ID"
func humanize(field string) string {
	runes := []rune(field)
	var b strings.Builder
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if i > 0 && upper && runes[i-1] >= 'a' && runes[i-1] <= 'z' {
			b.WriteByte(' ')
			if i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z' {
				r += 'a' - 'A'
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
