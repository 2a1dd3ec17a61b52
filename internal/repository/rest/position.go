package rest

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type positionRepositoryImpl struct {
	*Client
}

func NewPositionRepository(client *Client) position.PositionRepository {
	return &positionRepositoryImpl{Client: client}
}

func (r *positionRepositoryImpl) List(ctx context.Context) ([]position.Position, error) {
	records, err := list[positionRecord](ctx, r.Client, r.positions, nil)
	if err != nil {
		return nil, err
	}
	positions := make([]position.Position, 0, len(records))
	for _, record := range records {
		positions = append(positions, record.toDomain())
	}
	return positions, nil
}

// GetByID scans the collection; the store only serves positions as a list.
func (r *positionRepositoryImpl) GetByID(ctx context.Context, id string) (position.Position, error) {
	positions, err := r.List(ctx)
	if err != nil {
		return position.Position{}, err
	}
	for _, p := range positions {
		if p.ID == id {
			return p, nil
		}
	}
	return position.Position{}, fmt.Errorf("position %s: %w", id, repository.ErrNotFound)
}

func (r *positionRepositoryImpl) Create(ctx context.Context, p position.Position) (position.Position, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	record, err := create(ctx, r.Client, r.positions, positionRecord{ID: p.ID, Name: p.Name, Description: p.Description})
	if err != nil {
		return position.Position{}, err
	}
	return record.toDomain(), nil
}

func (r *positionRepositoryImpl) Update(ctx context.Context, p position.Position) (position.Position, error) {
	record, err := replace(ctx, r.Client, r.positions, p.ID, positionRecord{ID: p.ID, Name: p.Name, Description: p.Description})
	if err != nil {
		return position.Position{}, err
	}
	return record.toDomain(), nil
}

func (r *positionRepositoryImpl) Delete(ctx context.Context, id string) error {
	return remove(ctx, r.Client, r.positions, id)
}
