package rest

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type employeeRepositoryImpl struct {
	*Client
}

func NewEmployeeRepository(client *Client) employee.EmployeeRepository {
	return &employeeRepositoryImpl{Client: client}
}

// List filters client side; the store only serves employees unfiltered.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.Filter) ([]employee.Employee, error) {
	records, err := list[employeeRecord](ctx, r.Client, CollectionEmployees, nil)
	if err != nil {
		return nil, err
	}

	employees := make([]employee.Employee, 0, len(records))
	for _, record := range records {
		if filter.DepartmentID != "" && record.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.PositionID != "" && record.PositionID != filter.PositionID {
			continue
		}
		employees = append(employees, record.toDomain(r.loc))
	}
	return employees, nil
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	employees, err := r.List(ctx, employee.Filter{})
	if err != nil {
		return employee.Employee{}, err
	}
	for _, e := range employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, fmt.Errorf("employee %s: %w", id, repository.ErrNotFound)
}

func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	if newEmployee.ID == "" {
		newEmployee.ID = newID()
	}
	record, err := create(ctx, r.Client, CollectionEmployees, toEmployeeRecord(newEmployee))
	if err != nil {
		return employee.Employee{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	record, err := replace(ctx, r.Client, CollectionEmployees, e.ID, toEmployeeRecord(e))
	if err != nil {
		return employee.Employee{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.Client, CollectionEmployees, id)
}
