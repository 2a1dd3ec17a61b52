package request

import "context"

// RequestRepository persists request forms with optimistic concurrency: every
// write names the version it read and fails with repository.ErrConflict when
// the stored version has moved on.
type RequestRepository interface {
	// List returns every form, or only employeeID's when it is non-empty
	List(ctx context.Context, employeeID string) ([]Form, error)
	GetByID(ctx context.Context, id string) (Form, error)
	Create(ctx context.Context, form Form) (Form, error)
	// Update replaces the stored form whose version equals form.Version
	Update(ctx context.Context, form Form) (Form, error)
	Delete(ctx context.Context, id string, version int) error
}
