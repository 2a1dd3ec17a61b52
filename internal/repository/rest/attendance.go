package rest

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type attendanceRepositoryImpl struct {
	*Client
}

func NewAttendanceRepository(client *Client) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{Client: client}
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	query := url.Values{}
	if filter.UserID != "" {
		query.Set("userId", filter.UserID)
	}
	if filter.Date != nil {
		query.Set("date", filter.Date.String())
	}

	records, err := list[attendanceRecord](ctx, r.Client, CollectionAttendance, query)
	if err != nil {
		return nil, err
	}

	out := make([]attendance.Attendance, 0, len(records))
	for _, record := range records {
		a, err := record.toDomain(r.loc)
		if err != nil {
			return nil, fmt.Errorf("attendance record %s: %w", record.ID, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// GetByKey returns the record for key. When earlier non-atomic writes left
// more than one, the one with the highest version wins.
func (r *attendanceRepositoryImpl) GetByKey(ctx context.Context, key attendance.Key) (attendance.Attendance, error) {
	date := key.Date
	records, err := r.List(ctx, attendance.Filter{UserID: key.UserID, Date: &date})
	if err != nil {
		return attendance.Attendance{}, err
	}
	if len(records) == 0 {
		return attendance.Attendance{}, fmt.Errorf("attendance %s: %w", key, repository.ErrNotFound)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Version > records[j].Version })
	return records[0], nil
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	key := a.Key()
	if _, err := r.GetByKey(ctx, key); err == nil {
		return attendance.Attendance{}, fmt.Errorf("attendance %s: %w", key, repository.ErrConflict)
	} else if !isNotFound(err) {
		return attendance.Attendance{}, err
	}

	a.ID = key.String()
	a.Version = 1
	record, err := create(ctx, r.Client, CollectionAttendance, toAttendanceRecord(a))
	if err != nil {
		return attendance.Attendance{}, err
	}
	return record.toDomain(r.loc)
}

// Patch re-reads the record and compares versions before writing. The read
// and the write are two calls, which narrows the race without closing it.
func (r *attendanceRepositoryImpl) Patch(ctx context.Context, key attendance.Key, version int, p attendance.Patch) (attendance.Attendance, error) {
	current, err := r.GetByKey(ctx, key)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if current.Version != version {
		return attendance.Attendance{}, fmt.Errorf("attendance %s at version %d: %w", key, version, repository.ErrConflict)
	}

	fields := map[string]interface{}{"version": current.Version + 1}
	if p.CheckIn != nil {
		fields["checkIn"] = formatTimePtr(p.CheckIn)
	}
	if p.CheckOut != nil {
		fields["checkOut"] = formatTimePtr(p.CheckOut)
	}

	record, err := patch[attendanceRecord](ctx, r.Client, CollectionAttendance, current.ID, fields)
	if err != nil {
		return attendance.Attendance{}, err
	}
	return record.toDomain(r.loc)
}
