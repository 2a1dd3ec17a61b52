package rest

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
)

// Records mirror the JSON documents kept by the store. Field names are the
// store's, not ours.

type accountRecord struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	FullName      string `json:"fullName"`
	Role          string `json:"role"`
	Email         string `json:"email"`
	AccountStatus string `json:"accountStatus"`
	Position      string `json:"position"`
	Department    string `json:"department"`
	StartDate     string `json:"startDate,omitempty"`
	WorkingStatus string `json:"workingStatus"`
}

type departmentRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type positionRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type employeeRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"departmentId"`
	Department   string `json:"department"`
	PositionID   string `json:"positionId"`
	Position     string `json:"position"`
	Status       string `json:"status"`
	StartDate    string `json:"startDate,omitempty"`
}

type attendanceRecord struct {
	ID       string  `json:"id"`
	UserID   string  `json:"userId"`
	Date     string  `json:"date"`
	CheckIn  *string `json:"checkIn,omitempty"`
	CheckOut *string `json:"checkOut,omitempty"`
	Status   string  `json:"status"`
	Note     *string `json:"note,omitempty"`
	Version  int     `json:"version"`
}

type requestFormRecord struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employeeId"`
	EmployeeName   string  `json:"employeeName"`
	Type           string  `json:"type"`
	Content        string  `json:"content"`
	Time           string  `json:"time"`
	StartDate      *string `json:"startDate,omitempty"`
	EndDate        *string `json:"endDate,omitempty"`
	SubmissionDate string  `json:"submissionDate"`
	Status         string  `json:"status"`
	ApprovedBy     *string `json:"approvedBy,omitempty"`
	ApprovalDate   *string `json:"approvalDate,omitempty"`
	ApprovalNote   *string `json:"approvalNote,omitempty"`
	Version        int     `json:"version"`
}

type activityLogRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ActivityType string `json:"activityType"`
	Time         string `json:"time"`
	Details      string `json:"details"`
}

// parseLayouts are tried in order when reading a timestamp the store holds.
// Older records carry plain dates or the activity log layout.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	activitylog.TimeLayout,
	attendance.DateLayout,
}

func parseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimePtr(s *string, loc *time.Location) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := parseTime(*s, loc)
	if !ok {
		return nil
	}
	return &t
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(attendance.DateLayout)
}

func parseDate(s string, loc *time.Location) *time.Time {
	t, ok := parseTime(s, loc)
	if !ok {
		return nil
	}
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return &day
}

func toAccountRecord(u user.User) accountRecord {
	return accountRecord{
		ID:            u.ID,
		Username:      u.Username,
		Password:      u.PasswordHash,
		FullName:      u.FullName,
		Role:          string(u.Role),
		Email:         u.Email,
		AccountStatus: u.AccountStatus,
		Position:      u.Position,
		Department:    u.Department,
		StartDate:     formatDate(u.StartDate),
		WorkingStatus: u.WorkingStatus,
	}
}

func (r accountRecord) toDomain(loc *time.Location) user.User {
	return user.User{
		ID:            r.ID,
		Username:      r.Username,
		PasswordHash:  r.Password,
		FullName:      r.FullName,
		Role:          user.Role(r.Role),
		Email:         r.Email,
		AccountStatus: r.AccountStatus,
		Position:      r.Position,
		Department:    r.Department,
		StartDate:     parseDate(r.StartDate, loc),
		WorkingStatus: r.WorkingStatus,
	}
}

func toEmployeeRecord(e employee.Employee) employeeRecord {
	return employeeRecord{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		DepartmentID: e.DepartmentID,
		Department:   e.Department,
		PositionID:   e.PositionID,
		Position:     e.Position,
		Status:       e.Status,
		StartDate:    formatDate(e.StartDate),
	}
}

func (r employeeRecord) toDomain(loc *time.Location) employee.Employee {
	return employee.Employee{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		DepartmentID: r.DepartmentID,
		Department:   r.Department,
		PositionID:   r.PositionID,
		Position:     r.Position,
		Status:       r.Status,
		StartDate:    parseDate(r.StartDate, loc),
	}
}

func (r departmentRecord) toDomain() department.Department {
	return department.Department{ID: r.ID, Name: r.Name, Description: r.Description}
}

func (r positionRecord) toDomain() position.Position {
	return position.Position{ID: r.ID, Name: r.Name, Description: r.Description}
}

func toAttendanceRecord(a attendance.Attendance) attendanceRecord {
	return attendanceRecord{
		ID:       a.ID,
		UserID:   a.UserID,
		Date:     a.Date.String(),
		CheckIn:  formatTimePtr(a.CheckIn),
		CheckOut: formatTimePtr(a.CheckOut),
		Status:   string(a.Status),
		Note:     a.Note,
		Version:  a.Version,
	}
}

func (r attendanceRecord) toDomain(loc *time.Location) (attendance.Attendance, error) {
	date, err := attendance.ParseDate(r.Date)
	if err != nil {
		return attendance.Attendance{}, err
	}
	return attendance.Attendance{
		ID:       r.ID,
		UserID:   r.UserID,
		Date:     date,
		CheckIn:  parseTimePtr(r.CheckIn, loc),
		CheckOut: parseTimePtr(r.CheckOut, loc),
		Status:   attendance.Status(r.Status),
		Note:     r.Note,
		Version:  storedVersion(r.Version),
	}, nil
}

// legacyStatuses maps the labels older clients wrote to canonical statuses.
var legacyStatuses = map[string]request.Status{
	"Chờ duyệt": request.StatusPending,
	"Đã duyệt":  request.StatusApproved,
	"Từ chối":   request.StatusRejected,
}

func toRequestFormRecord(f request.Form) requestFormRecord {
	return requestFormRecord{
		ID:             f.ID,
		EmployeeID:     f.EmployeeID,
		EmployeeName:   f.EmployeeName,
		Type:           f.Type,
		Content:        f.Content,
		Time:           f.Time,
		StartDate:      formatTimePtr(f.StartDate),
		EndDate:        formatTimePtr(f.EndDate),
		SubmissionDate: f.SubmissionDate.Format(time.RFC3339),
		Status:         string(f.Status),
		ApprovedBy:     f.ApprovedBy,
		ApprovalDate:   formatTimePtr(f.ApprovalDate),
		ApprovalNote:   f.ApprovalNote,
		Version:        f.Version,
	}
}

func (r requestFormRecord) toDomain(loc *time.Location) request.Form {
	status := request.Status(strings.ToLower(strings.TrimSpace(r.Status)))
	if legacy, ok := legacyStatuses[strings.TrimSpace(r.Status)]; ok {
		status = legacy
	}
	submitted, _ := parseTime(r.SubmissionDate, loc)

	return request.Form{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		Type:           r.Type,
		Content:        r.Content,
		Time:           r.Time,
		StartDate:      parseTimePtr(r.StartDate, loc),
		EndDate:        parseTimePtr(r.EndDate, loc),
		SubmissionDate: submitted,
		Status:         status,
		ApprovedBy:     r.ApprovedBy,
		ApprovalDate:   parseTimePtr(r.ApprovalDate, loc),
		ApprovalNote:   r.ApprovalNote,
		Version:        storedVersion(r.Version),
	}
}

func toActivityLogRecord(e activitylog.Entry, loc *time.Location) activityLogRecord {
	return activityLogRecord{
		ID:           e.ID,
		Name:         e.Name,
		ActivityType: string(e.Type),
		Time:         e.Time.In(loc).Format(activitylog.TimeLayout),
		Details:      e.Details,
	}
}

func (r activityLogRecord) toDomain(loc *time.Location) activitylog.Entry {
	t, _ := parseTime(r.Time, loc)
	return activitylog.Entry{
		ID:      r.ID,
		Name:    r.Name,
		Type:    activitylog.Type(r.ActivityType),
		Time:    t,
		Details: r.Details,
	}
}
