package employee

import (
	"strings"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

// EmployeeFilter is the list query: Search matches name, department or
// position case-insensitively, DepartmentID narrows to one department.
type EmployeeFilter struct {
	Search       string
	DepartmentID string
}

func (f EmployeeFilter) Match(e Employee) bool {
	if f.DepartmentID != "" && e.DepartmentID != f.DepartmentID {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Department), q) ||
		strings.Contains(strings.ToLower(e.Position), q)
}

type CreateEmployeeRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id"`
	PositionID   string `json:"position_id"`
	Status       string `json:"status"`
	StartDate    string `json:"start_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	return validateEmployeeFields(r.Name, r.Email, r.Status, r.StartDate)
}

type UpdateEmployeeRequest struct {
	ID           string `json:"-"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id"`
	PositionID   string `json:"position_id"`
	Status       string `json:"status"`
	StartDate    string `json:"start_date"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if err := validateEmployeeFields(r.Name, r.Email, r.Status, r.StartDate); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateEmployeeFields(name, email, status, startDate string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if validator.ExceedsLength(name, 255) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if !validator.IsEmpty(email) && !validator.IsValidEmail(email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if !validator.IsEmpty(status) && !validator.IsInSlice(status, Statuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(Statuses, ", "),
		})
	}

	if validator.IsEmpty(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, ok := validator.IsValidDate(startDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email,omitempty"`
	DepartmentID string  `json:"department_id,omitempty"`
	Department   string  `json:"department,omitempty"`
	PositionID   string  `json:"position_id,omitempty"`
	Position     string  `json:"position,omitempty"`
	Status       string  `json:"status"`
	StartDate    *string `json:"start_date,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		DepartmentID: e.DepartmentID,
		Department:   e.Department,
		PositionID:   e.PositionID,
		Position:     e.Position,
		Status:       e.Status,
	}
	if e.StartDate != nil {
		s := e.StartDate.Format("2006-01-02")
		resp.StartDate = &s
	}
	return resp
}

func NewEmployeeResponses(list []Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, NewEmployeeResponse(e))
	}
	return out
}
