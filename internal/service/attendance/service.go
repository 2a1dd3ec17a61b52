package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

const (
	eventCheckIn  = "check_in"
	eventCheckOut = "check_out"
)

type AttendanceServiceImpl struct {
	tx repository.TxManager
	attendance.AttendanceRepository
	logs  activitylog.Recorder
	clock clock.Clock
}

func NewAttendanceService(
	tx repository.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	logs activitylog.Recorder,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		logs:                 logs,
		clock:                clk,
	}
}

// today is the calendar day in the business timezone.
func (a *AttendanceServiceImpl) today() attendance.Date {
	return attendance.DateOf(a.clock.Now().In(a.clock.Location()))
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, session user.Session, date attendance.Date, userID string) ([]attendance.Attendance, error) {
	if userID == "" || !session.Can(user.PermissionAttendanceViewAll) {
		userID = session.ID
	}

	records, err := a.AttendanceRepository.List(ctx, attendance.Filter{UserID: userID, Date: &date})
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, session user.Session, date attendance.Date) (attendance.Attendance, error) {
	if date != a.today() {
		metrics.RecordAttendanceEvent(eventCheckIn, metrics.OutcomeRejected)
		return attendance.Attendance{}, attendance.ErrNotToday
	}

	key := attendance.Key{UserID: session.ID, Date: date}
	var result attendance.Attendance

	err := repository.Transact(ctx, a.tx, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByKey(ctx, key)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get attendance %s: %w", key, err)
		}
		found := err == nil

		if found && attendance.StateOf(&existing) != attendance.StateNoRecord {
			return attendance.ErrAlreadyCheckedIn
		}

		now := a.clock.Now()
		if found {
			result, err = a.AttendanceRepository.Patch(ctx, key, existing.Version, attendance.Patch{CheckIn: &now})
		} else {
			result, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
				ID:      key.String(),
				UserID:  key.UserID,
				Date:    key.Date,
				CheckIn: &now,
				Status:  attendance.StatusPresent,
			})
		}
		if err != nil {
			return fmt.Errorf("check in %s: %w", key, err)
		}

		_, err = a.logs.Record(ctx, session.FullName, activitylog.TypeAdd, checkDetails("Check-in", now, date, a.clock.Location()))
		return err
	})
	if err != nil {
		metrics.RecordAttendanceEvent(eventCheckIn, outcome(err))
		return attendance.Attendance{}, err
	}

	metrics.RecordAttendanceEvent(eventCheckIn, metrics.OutcomeSuccess)
	return result, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, session user.Session, date attendance.Date) (attendance.Attendance, error) {
	if date != a.today() {
		metrics.RecordAttendanceEvent(eventCheckOut, metrics.OutcomeRejected)
		return attendance.Attendance{}, attendance.ErrNotToday
	}

	key := attendance.Key{UserID: session.ID, Date: date}
	var result attendance.Attendance

	err := repository.Transact(ctx, a.tx, func(ctx context.Context) error {
		existing, err := a.AttendanceRepository.GetByKey(ctx, key)
		if errors.Is(err, repository.ErrNotFound) {
			return attendance.ErrNotCheckedIn
		}
		if err != nil {
			return fmt.Errorf("get attendance %s: %w", key, err)
		}

		switch attendance.StateOf(&existing) {
		case attendance.StateNoRecord:
			return attendance.ErrNotCheckedIn
		case attendance.StateCheckedOut:
			return attendance.ErrAlreadyCheckedOut
		}

		now := a.clock.Now()
		result, err = a.AttendanceRepository.Patch(ctx, key, existing.Version, attendance.Patch{CheckOut: &now})
		if err != nil {
			return fmt.Errorf("check out %s: %w", key, err)
		}

		_, err = a.logs.Record(ctx, session.FullName, activitylog.TypeUpdate, checkDetails("Check-out", now, date, a.clock.Location()))
		return err
	})
	if err != nil {
		metrics.RecordAttendanceEvent(eventCheckOut, outcome(err))
		return attendance.Attendance{}, err
	}

	metrics.RecordAttendanceEvent(eventCheckOut, metrics.OutcomeSuccess)
	return result, nil
}

// checkDetails renders "Check-in lúc 08:30:00 ngày 10/01/2024".
func checkDetails(action string, at time.Time, date attendance.Date, loc *time.Location) string {
	return fmt.Sprintf("%s lúc %s ngày %s", action, at.In(loc).Format("15:04:05"), date.In(loc).Format("02/01/2006"))
}

func outcome(err error) string {
	switch {
	case errors.Is(err, repository.ErrConflict):
		metrics.RecordStoreConflict("attendance")
		return metrics.OutcomeConflict
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
