package employee

import "context"

// Filter selects employees by exact reference. Empty fields match everything.
type Filter struct {
	DepartmentID string
	PositionID   string
}

type EmployeeRepository interface {
	List(ctx context.Context, filter Filter) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, e Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
}
