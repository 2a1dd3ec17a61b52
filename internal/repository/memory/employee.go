package memory

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type employeeRepositoryImpl struct {
	*Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{Store: store}
}

func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.Filter) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if filter.DepartmentID != "" && e.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.PositionID != "" && e.PositionID != filter.PositionID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := indexOf(r.employees, func(e employee.Employee) bool { return e.ID == id }); i >= 0 {
		return r.employees[i], nil
	}
	return employee.Employee{}, repository.ErrNotFound
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if newEmployee.ID == "" {
		newEmployee.ID = newID()
	}
	if indexOf(r.employees, func(e employee.Employee) bool { return e.ID == newEmployee.ID }) >= 0 {
		return employee.Employee{}, repository.ErrConflict
	}
	r.employees = append(r.employees, newEmployee)
	return newEmployee, nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.employees, func(existing employee.Employee) bool { return existing.ID == e.ID })
	if i < 0 {
		return employee.Employee{}, repository.ErrNotFound
	}
	r.employees[i] = e
	return e, nil
}

func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.employees, func(e employee.Employee) bool { return e.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	r.employees = remove(r.employees, i)
	return nil
}
