package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, name, email, department_id, department, position_id, position, status, start_date`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Email,
		&e.DepartmentID,
		&e.Department,
		&e.PositionID,
		&e.Position,
		&e.Status,
		&e.StartDate,
	)
	if err != nil {
		return employee.Employee{}, translate(err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.Filter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	var (
		where []string
		args  []interface{}
	)
	if filter.DepartmentID != "" {
		args = append(args, filter.DepartmentID)
		where = append(where, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if filter.PositionID != "" {
		args = append(args, filter.PositionID)
		where = append(where, fmt.Sprintf("position_id = $%d", len(args)))
	}

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.Employee{}, err
		}
		newEmployee.ID = id.String()
	}

	query := `
		INSERT INTO employees (id, name, email, department_id, department, position_id, position, status, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + employeeColumns

	return scanEmployee(q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.DepartmentID,
		newEmployee.Department,
		newEmployee.PositionID,
		newEmployee.Position,
		newEmployee.Status,
		newEmployee.StartDate,
	))
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET name = $2, email = $3, department_id = $4, department = $5, position_id = $6,
			position = $7, status = $8, start_date = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	return scanEmployee(q.QueryRow(ctx, query,
		e.ID,
		e.Name,
		e.Email,
		e.DepartmentID,
		e.Department,
		e.PositionID,
		e.Position,
		e.Status,
		e.StartDate,
	))
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
