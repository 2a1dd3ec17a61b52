package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Description); err != nil {
		return department.Department{}, translate(err)
	}
	return d, nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, description FROM departments ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]department.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	return scanDepartment(q.QueryRow(ctx, `SELECT id, name, description FROM departments WHERE id = $1`, id))
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	if d.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return department.Department{}, err
		}
		d.ID = id.String()
	}

	return scanDepartment(q.QueryRow(ctx, `
		INSERT INTO departments (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, description
	`, d.ID, d.Name, d.Description))
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	return scanDepartment(q.QueryRow(ctx, `
		UPDATE departments
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description
	`, d.ID, d.Name, d.Description))
}

// Delete implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
