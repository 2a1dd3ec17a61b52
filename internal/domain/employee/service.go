package employee

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
)

// EmployeeService defines business logic for employee records (admin only)
type EmployeeService interface {
	ListEmployees(ctx context.Context, session user.Session, filter EmployeeFilter) ([]Employee, error)
	GetEmployee(ctx context.Context, session user.Session, id string) (Employee, error)
	CreateEmployee(ctx context.Context, session user.Session, req CreateEmployeeRequest) (Employee, error)
	UpdateEmployee(ctx context.Context, session user.Session, req UpdateEmployeeRequest) (Employee, error)
	DeleteEmployee(ctx context.Context, session user.Session, id string) error
}
