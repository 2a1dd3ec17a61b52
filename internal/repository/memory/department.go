package memory

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type departmentRepositoryImpl struct {
	*Store
}

func NewDepartmentRepository(store *Store) department.DepartmentRepository {
	return &departmentRepositoryImpl{Store: store}
}

func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]department.Department(nil), r.departments...), nil
}

func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := indexOf(r.departments, func(d department.Department) bool { return d.ID == id }); i >= 0 {
		return r.departments[i], nil
	}
	return department.Department{}, repository.ErrNotFound
}

func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		d.ID = newID()
	}
	r.departments = append(r.departments, d)
	return d, nil
}

func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.departments, func(existing department.Department) bool { return existing.ID == d.ID })
	if i < 0 {
		return department.Department{}, repository.ErrNotFound
	}
	r.departments[i] = d
	return d, nil
}

func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.departments, func(d department.Department) bool { return d.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	r.departments = remove(r.departments, i)
	return nil
}
