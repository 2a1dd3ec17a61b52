// Package memory is a process-local record store. It keeps every collection in
// insertion order behind one lock and is meant for tests and local demos.
package memory

import (
	"sync"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type Store struct {
	mu          sync.RWMutex
	users       []user.User
	employees   []employee.Employee
	departments []department.Department
	positions   []position.Position
	attendance  []attendance.Attendance
	requests    []request.Form
	logs        []activitylog.Entry
}

func NewStore() *Store {
	return &Store{}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// indexOf returns the position of the first element matching fn, or -1.
func indexOf[T any](items []T, fn func(T) bool) int {
	for i, item := range items {
		if fn(item) {
			return i
		}
	}
	return -1
}

func remove[T any](items []T, i int) []T {
	return append(items[:i:i], items[i+1:]...)
}
