package request

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

// FormInput carries the fields an employee controls on a request.
type FormInput struct {
	Type       string `json:"type"`
	CustomType string `json:"custom_type,omitempty"`
	Content    string `json:"content"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (r *FormInput) Validate() error {
	var errs validator.ValidationErrors

	// Type
	if validator.IsEmpty(r.Type) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type is required",
		})
	} else if IsOtherType(r.Type) {
		if validator.IsEmpty(r.CustomType) {
			errs = append(errs, validator.ValidationError{
				Field:   "custom_type",
				Message: "custom_type is required when type is Other",
			})
		} else if validator.ExceedsLength(strings.TrimSpace(r.CustomType), MaxTypeLength) {
			errs = append(errs, validator.ValidationError{
				Field:   "custom_type",
				Message: "custom_type must not exceed 100 characters",
			})
		}
	} else if validator.ExceedsLength(strings.TrimSpace(r.Type), MaxTypeLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must not exceed 100 characters",
		})
	}

	// Content
	if validator.IsEmpty(r.Content) {
		errs = append(errs, validator.ValidationError{
			Field:   "content",
			Message: "content is required",
		})
	} else if validator.ExceedsLength(strings.TrimSpace(r.Content), MaxContentLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "content",
			Message: "content must not exceed 500 characters",
		})
	}

	// Date range
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ResolvedType is the type stored on the form: the custom type when the Other
// sentinel was picked.
func (r *FormInput) ResolvedType() string {
	if IsOtherType(r.Type) {
		return strings.TrimSpace(r.CustomType)
	}
	return strings.TrimSpace(r.Type)
}

// Range returns the parsed dates. Call after Validate.
func (r *FormInput) Range() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type CreateRequestRequest struct {
	FormInput
}

type UpdateRequestRequest struct {
	FormInput
}

type ApproveRequestRequest struct {
	Approved *bool  `json:"approved"`
	Note     string `json:"note,omitempty"`
}

func (r *ApproveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Approved == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "approved",
			Message: "approved is required",
		})
	}
	if validator.ExceedsLength(r.Note, MaxContentLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RequestResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeName   string  `json:"employee_name"`
	Type           string  `json:"type"`
	Content        string  `json:"content"`
	Time           string  `json:"time"`
	StartDate      *string `json:"start_date,omitempty"`
	EndDate        *string `json:"end_date,omitempty"`
	SubmissionDate string  `json:"submission_date"`
	Status         string  `json:"status"`
	ApprovedBy     *string `json:"approved_by,omitempty"`
	ApprovalDate   *string `json:"approval_date,omitempty"`
	ApprovalNote   *string `json:"approval_note,omitempty"`
	Version        int     `json:"version"`
}

func NewRequestResponse(f Form) RequestResponse {
	resp := RequestResponse{
		ID:             f.ID,
		EmployeeID:     f.EmployeeID,
		EmployeeName:   f.EmployeeName,
		Type:           f.Type,
		Content:        f.Content,
		Time:           f.Time,
		SubmissionDate: f.SubmissionDate.Format(time.RFC3339),
		Status:         string(f.Status),
		ApprovedBy:     f.ApprovedBy,
		ApprovalNote:   f.ApprovalNote,
		Version:        f.Version,
	}
	if f.StartDate != nil {
		s := f.StartDate.Format("2006-01-02")
		resp.StartDate = &s
	}
	if f.EndDate != nil {
		s := f.EndDate.Format("2006-01-02")
		resp.EndDate = &s
	}
	if f.ApprovalDate != nil {
		s := f.ApprovalDate.Format(time.RFC3339)
		resp.ApprovalDate = &s
	}
	return resp
}

func NewRequestResponses(forms []Form) []RequestResponse {
	out := make([]RequestResponse, 0, len(forms))
	for _, f := range forms {
		out = append(out, NewRequestResponse(f))
	}
	return out
}
