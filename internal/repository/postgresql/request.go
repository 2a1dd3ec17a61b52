package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) request.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

const requestColumns = `id, employee_id, employee_name, type, content, time, start_date, end_date,
		submission_date, status, approved_by, approval_date, approval_note, version`

func scanRequest(row pgx.Row) (request.Form, error) {
	var f request.Form
	err := row.Scan(
		&f.ID,
		&f.EmployeeID,
		&f.EmployeeName,
		&f.Type,
		&f.Content,
		&f.Time,
		&f.StartDate,
		&f.EndDate,
		&f.SubmissionDate,
		&f.Status,
		&f.ApprovedBy,
		&f.ApprovalDate,
		&f.ApprovalNote,
		&f.Version,
	)
	if err != nil {
		return request.Form{}, translate(err)
	}
	return f, nil
}

// List implements request.RequestRepository.
func (r *requestRepositoryImpl) List(ctx context.Context, employeeID string) ([]request.Form, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM request_forms`
	var args []interface{}
	if employeeID != "" {
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY submission_date, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := make([]request.Form, 0)
	for rows.Next() {
		f, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// GetByID implements request.RequestRepository.
func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Form, error) {
	q := GetQuerier(ctx, r.db)
	return scanRequest(q.QueryRow(ctx, `SELECT `+requestColumns+` FROM request_forms WHERE id = $1`, id))
}

// Create implements request.RequestRepository.
func (r *requestRepositoryImpl) Create(ctx context.Context, form request.Form) (request.Form, error) {
	q := GetQuerier(ctx, r.db)

	if form.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return request.Form{}, err
		}
		form.ID = id.String()
	}

	query := `
		INSERT INTO request_forms (
			id, employee_id, employee_name, type, content, time, start_date, end_date,
			submission_date, status, approved_by, approval_date, approval_note, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1)
		RETURNING ` + requestColumns

	return scanRequest(q.QueryRow(ctx, query,
		form.ID,
		form.EmployeeID,
		form.EmployeeName,
		form.Type,
		form.Content,
		form.Time,
		form.StartDate,
		form.EndDate,
		form.SubmissionDate,
		form.Status,
		form.ApprovedBy,
		form.ApprovalDate,
		form.ApprovalNote,
	))
}

// Update implements request.RequestRepository. The stored row must still be
// at form.Version.
func (r *requestRepositoryImpl) Update(ctx context.Context, form request.Form) (request.Form, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE request_forms
		SET employee_id = $3, employee_name = $4, type = $5, content = $6, time = $7,
			start_date = $8, end_date = $9, submission_date = $10, status = $11,
			approved_by = $12, approval_date = $13, approval_note = $14,
			version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING ` + requestColumns

	updated, err := scanRequest(q.QueryRow(ctx, query,
		form.ID,
		form.Version,
		form.EmployeeID,
		form.EmployeeName,
		form.Type,
		form.Content,
		form.Time,
		form.StartDate,
		form.EndDate,
		form.SubmissionDate,
		form.Status,
		form.ApprovedBy,
		form.ApprovalDate,
		form.ApprovalNote,
	))
	if !errors.Is(err, repository.ErrNotFound) {
		return updated, err
	}
	return request.Form{}, r.missOrConflict(ctx, form.ID)
}

// Delete implements request.RequestRepository.
func (r *requestRepositoryImpl) Delete(ctx context.Context, id string, version int) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM request_forms WHERE id = $1 AND version = $2`, id, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, id)
	}
	return nil
}

// missOrConflict explains a conditional write that matched no row.
func (r *requestRepositoryImpl) missOrConflict(ctx context.Context, id string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrConflict
}
