package memory

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type positionRepositoryImpl struct {
	*Store
}

func NewPositionRepository(store *Store) position.PositionRepository {
	return &positionRepositoryImpl{Store: store}
}

func (r *positionRepositoryImpl) List(ctx context.Context) ([]position.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]position.Position(nil), r.positions...), nil
}

func (r *positionRepositoryImpl) GetByID(ctx context.Context, id string) (position.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := indexOf(r.positions, func(d position.Position) bool { return d.ID == id }); i >= 0 {
		return r.positions[i], nil
	}
	return position.Position{}, repository.ErrNotFound
}

func (r *positionRepositoryImpl) Create(ctx context.Context, d position.Position) (position.Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d.ID == "" {
		d.ID = newID()
	}
	r.positions = append(r.positions, d)
	return d, nil
}

func (r *positionRepositoryImpl) Update(ctx context.Context, d position.Position) (position.Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.positions, func(existing position.Position) bool { return existing.ID == d.ID })
	if i < 0 {
		return position.Position{}, repository.ErrNotFound
	}
	r.positions[i] = d
	return d, nil
}

func (r *positionRepositoryImpl) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.positions, func(d position.Position) bool { return d.ID == id })
	if i < 0 {
		return repository.ErrNotFound
	}
	r.positions = remove(r.positions, i)
	return nil
}
