package update

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput indicates a malformed project update payload.
var ErrInvalidInput = errors.New("invalid project update")

// ProjectUpdate proposes new start and end dates for a named project row.
// Date fields are free-form at this layer; the workbook patcher only applies
// updates whose dates parse as YYYY-MM-DD and silently skips the rest.
type ProjectUpdate struct {
	ProjectName  string `json:"project_name" validate:"required"`
	TaskName     string `json:"task_name"`
	NewStartDate string `json:"new_start_date"`
	NewEndDate   string `json:"new_end_date"`
}

var validate = validator.New()

// ValidateBatch checks that every update in a batch names a project.
func ValidateBatch(updates []ProjectUpdate) error {
	for _, u := range updates {
		if err := validate.Struct(u); err != nil {
			return ErrInvalidInput
		}
	}
	return nil
}
