package memory

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type attendanceRepositoryImpl struct {
	*Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{Store: store}
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]attendance.Attendance, 0)
	for _, a := range r.attendance {
		if filter.UserID != "" && a.UserID != filter.UserID {
			continue
		}
		if filter.Date != nil && a.Date != *filter.Date {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *attendanceRepositoryImpl) GetByKey(ctx context.Context, key attendance.Key) (attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := indexOf(r.attendance, func(a attendance.Attendance) bool { return a.Key() == key }); i >= 0 {
		return r.attendance[i], nil
	}
	return attendance.Attendance{}, repository.ErrNotFound
}

func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := a.Key()
	if indexOf(r.attendance, func(existing attendance.Attendance) bool { return existing.Key() == key }) >= 0 {
		return attendance.Attendance{}, repository.ErrConflict
	}
	a.ID = key.String()
	a.Version = 1
	r.attendance = append(r.attendance, a)
	return a, nil
}

func (r *attendanceRepositoryImpl) Patch(ctx context.Context, key attendance.Key, version int, p attendance.Patch) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.attendance, func(a attendance.Attendance) bool { return a.Key() == key })
	if i < 0 {
		return attendance.Attendance{}, repository.ErrNotFound
	}
	current := r.attendance[i]
	if current.Version != version {
		return attendance.Attendance{}, repository.ErrConflict
	}

	if p.CheckIn != nil {
		current.CheckIn = p.CheckIn
	}
	if p.CheckOut != nil {
		current.CheckOut = p.CheckOut
	}
	current.Version++
	r.attendance[i] = current
	return current, nil
}
