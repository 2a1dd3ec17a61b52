package memory

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type requestRepositoryImpl struct {
	*Store
}

func NewRequestRepository(store *Store) request.RequestRepository {
	return &requestRepositoryImpl{Store: store}
}

func (r *requestRepositoryImpl) List(ctx context.Context, employeeID string) ([]request.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]request.Form, 0, len(r.requests))
	for _, f := range r.requests {
		if employeeID != "" && f.EmployeeID != employeeID {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := indexOf(r.requests, func(f request.Form) bool { return f.ID == id }); i >= 0 {
		return r.requests[i], nil
	}
	return request.Form{}, repository.ErrNotFound
}

func (r *requestRepositoryImpl) Create(ctx context.Context, form request.Form) (request.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if form.ID == "" {
		form.ID = newID()
	}
	if indexOf(r.requests, func(f request.Form) bool { return f.ID == form.ID }) >= 0 {
		return request.Form{}, repository.ErrConflict
	}
	form.Version = 1
	r.requests = append(r.requests, form)
	return form, nil
}

func (r *requestRepositoryImpl) Update(ctx context.Context, form request.Form) (request.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.requests, func(f request.Form) bool { return f.ID == form.ID })
	if i < 0 {
		return request.Form{}, repository.ErrNotFound
	}
	if r.requests[i].Version != form.Version {
		return request.Form{}, repository.ErrConflict
	}
	form.Version++
	r.requests[i] = form
	return form, nil
}

func (r *requestRepositoryImpl) Delete(ctx context.Context, id string, version int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.requests, func(f request.Form) bool { return f.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	if r.requests[i].Version != version {
		return repository.ErrConflict
	}
	r.requests = remove(r.requests, i)
	return nil
}
