package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type positionRepositoryImpl struct {
	db *database.DB
}

func NewPositionRepository(db *database.DB) position.PositionRepository {
	return &positionRepositoryImpl{db: db}
}

func scanPosition(row pgx.Row) (position.Position, error) {
	var p position.Position
	if err := row.Scan(&p.ID, &p.Name, &p.Description); err != nil {
		return position.Position{}, translate(err)
	}
	return p, nil
}

// List implements position.PositionRepository.
func (r *positionRepositoryImpl) List(ctx context.Context) ([]position.Position, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, description FROM positions ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]position.Position, 0)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// GetByID implements position.PositionRepository.
func (r *positionRepositoryImpl) GetByID(ctx context.Context, id string) (position.Position, error) {
	q := GetQuerier(ctx, r.db)
	return scanPosition(q.QueryRow(ctx, `SELECT id, name, description FROM positions WHERE id = $1`, id))
}

// Create implements position.PositionRepository.
func (r *positionRepositoryImpl) Create(ctx context.Context, p position.Position) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return position.Position{}, err
		}
		p.ID = id.String()
	}

	return scanPosition(q.QueryRow(ctx, `
		INSERT INTO positions (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, description
	`, p.ID, p.Name, p.Description))
}

// Update implements position.PositionRepository.
func (r *positionRepositoryImpl) Update(ctx context.Context, p position.Position) (position.Position, error) {
	q := GetQuerier(ctx, r.db)

	return scanPosition(q.QueryRow(ctx, `
		UPDATE positions
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description
	`, p.ID, p.Name, p.Description))
}

// Delete implements position.PositionRepository.
func (r *positionRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
