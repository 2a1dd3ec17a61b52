package attendance

import (
	"context"
	"time"
)

type Filter struct {
	UserID string
	Date   *Date
}

// Patch sets the named timestamps and leaves every other field alone.
type Patch struct {
	CheckIn  *time.Time
	CheckOut *time.Time
}

// AttendanceRepository stores at most one record per Key.
type AttendanceRepository interface {
	// List returns records matching every non-empty filter field
	List(ctx context.Context, filter Filter) ([]Attendance, error)

	// GetByKey returns repository.ErrNotFound when the user has no record that day
	GetByKey(ctx context.Context, key Key) (Attendance, error)

	// Create inserts a record with Version 1. A record already stored under the
	// same key yields repository.ErrConflict.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Patch applies p only if the stored version still equals version, bumping it.
	// A mismatch yields repository.ErrConflict.
	Patch(ctx context.Context, key Key, version int, p Patch) (Attendance, error)
}
