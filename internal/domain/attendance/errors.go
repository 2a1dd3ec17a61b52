package attendance

import "errors"

// Attendance domain errors
var (
	ErrNotToday          = errors.New("check-in and check-out are only allowed for today")
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you must check in first")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidDate        = errors.New("date must be in YYYY-MM-DD format")
)
