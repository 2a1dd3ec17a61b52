package request

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Preset request types. TypeOther and TypeOtherEN ask for a custom type instead.
const (
	TypeLeave        = "Nghỉ phép"
	TypeBusinessTrip = "Công tác"
	TypeOvertime     = "Tăng ca"
	TypeOther        = "Khác"
	TypeOtherEN      = "Other"
)

const (
	MaxContentLength = 500
	MaxTypeLength    = 100
	TimeLayout       = "02/01/2006"
)

// Form is a leave, overtime or business trip request.
type Form struct {
	ID             string
	EmployeeID     string
	EmployeeName   string
	Type           string
	Content        string
	Time           string
	StartDate      *time.Time
	EndDate        *time.Time
	SubmissionDate time.Time
	Status         Status
	ApprovedBy     *string
	ApprovalDate   *time.Time
	ApprovalNote   *string
	Version        int
}

func (f *Form) IsPending() bool {
	return f.Status == StatusPending
}

// IsOtherType reports whether t is the sentinel that requires a custom type.
func IsOtherType(t string) bool {
	t = strings.TrimSpace(t)
	return strings.EqualFold(t, TypeOther) || strings.EqualFold(t, TypeOtherEN)
}

// SummarizeRange renders a date range the way the request list shows it.
func SummarizeRange(start, end time.Time) string {
	return start.Format(TimeLayout) + " - " + end.Format(TimeLayout)
}
