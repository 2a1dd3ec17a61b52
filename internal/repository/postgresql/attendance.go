package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, user_id, date, check_in, check_out, status, note, version`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		a    attendance.Attendance
		date time.Time
	)
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&date,
		&a.CheckIn,
		&a.CheckOut,
		&a.Status,
		&a.Note,
		&a.Version,
	)
	if err != nil {
		return attendance.Attendance{}, translate(err)
	}
	a.Date = attendance.DateOf(date)
	return a, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var (
		where []string
		args  []interface{}
	)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, filter.Date.In(time.UTC))
		where = append(where, fmt.Sprintf("date = $%d", len(args)))
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date, user_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// GetByKey implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByKey(ctx context.Context, key attendance.Key) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE user_id = $1 AND date = $2`
	return scanAttendance(q.QueryRow(ctx, query, key.UserID, key.Date.In(time.UTC)))
}

// Create implements attendance.AttendanceRepository. A record already stored
// under the same key makes the insert a no-op and the call a conflict.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (id, user_id, date, check_in, check_out, status, note, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		ON CONFLICT DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.Key().String(),
		a.UserID,
		a.Date.In(time.UTC),
		a.CheckIn,
		a.CheckOut,
		a.Status,
		a.Note,
	))
	if errors.Is(err, repository.ErrNotFound) {
		return attendance.Attendance{}, repository.ErrConflict
	}
	return created, err
}

// Patch implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Patch(ctx context.Context, key attendance.Key, version int, p attendance.Patch) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET check_in = COALESCE($4, check_in),
			check_out = COALESCE($5, check_out),
			version = version + 1
		WHERE user_id = $1 AND date = $2 AND version = $3
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query, key.UserID, key.Date.In(time.UTC), version, p.CheckIn, p.CheckOut))
	if !errors.Is(err, repository.ErrNotFound) {
		return updated, err
	}

	// Nothing matched: tell a missing record apart from a stale version.
	if _, getErr := r.GetByKey(ctx, key); getErr != nil {
		return attendance.Attendance{}, getErr
	}
	return attendance.Attendance{}, repository.ErrConflict
}
