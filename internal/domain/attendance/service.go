package attendance

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
)

type AttendanceService interface {
	// ListAttendance returns the records of userID on date. Sessions without
	// attendance.view_all only ever see their own records.
	ListAttendance(ctx context.Context, session user.Session, date Date, userID string) ([]Attendance, error)

	// CheckIn opens today's record for the session owner.
	CheckIn(ctx context.Context, session user.Session, date Date) (Attendance, error)

	// CheckOut closes today's record for the session owner.
	CheckOut(ctx context.Context, session user.Session, date Date) (Attendance, error)
}
