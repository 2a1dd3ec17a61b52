package rest

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type departmentRepositoryImpl struct {
	*Client
}

func NewDepartmentRepository(client *Client) department.DepartmentRepository {
	return &departmentRepositoryImpl{Client: client}
}

func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	records, err := list[departmentRecord](ctx, r.Client, CollectionDepartments, nil)
	if err != nil {
		return nil, err
	}
	departments := make([]department.Department, 0, len(records))
	for _, record := range records {
		departments = append(departments, record.toDomain())
	}
	return departments, nil
}

// GetByID scans the collection; the store only serves departments as a list.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	departments, err := r.List(ctx)
	if err != nil {
		return department.Department{}, err
	}
	for _, d := range departments {
		if d.ID == id {
			return d, nil
		}
	}
	return department.Department{}, fmt.Errorf("department %s: %w", id, repository.ErrNotFound)
}

func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	if d.ID == "" {
		d.ID = newID()
	}
	record, err := create(ctx, r.Client, CollectionDepartments, departmentRecord{ID: d.ID, Name: d.Name, Description: d.Description})
	if err != nil {
		return department.Department{}, err
	}
	return record.toDomain(), nil
}

func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) (department.Department, error) {
	record, err := replace(ctx, r.Client, CollectionDepartments, d.ID, departmentRecord{ID: d.ID, Name: d.Name, Description: d.Description})
	if err != nil {
		return department.Department{}, err
	}
	return record.toDomain(), nil
}

func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.Client, CollectionDepartments, id)
}
