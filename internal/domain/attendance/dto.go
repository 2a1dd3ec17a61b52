package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
)

type CheckRequest struct {
	Date string `json:"date"`
}

func (r *CheckRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceQuery struct {
	Date   string
	UserID string
}

func (q *ListAttendanceQuery) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(q.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(q.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Date     string  `json:"date"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
	Status   string  `json:"status"`
	State    string  `json:"state"`
	Note     *string `json:"note,omitempty"`
	Version  int     `json:"version"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:      a.ID,
		UserID:  a.UserID,
		Date:    a.Date.String(),
		Status:  string(a.Status),
		State:   StateOf(&a).String(),
		Note:    a.Note,
		Version: a.Version,
	}
	if a.CheckIn != nil {
		s := a.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &s
	}
	if a.CheckOut != nil {
		s := a.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &s
	}
	return resp
}

func NewAttendanceResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, a := range records {
		out = append(out, NewAttendanceResponse(a))
	}
	return out
}
