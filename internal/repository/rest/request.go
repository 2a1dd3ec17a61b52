package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

type requestRepositoryImpl struct {
	*Client
}

func NewRequestRepository(client *Client) request.RequestRepository {
	return &requestRepositoryImpl{Client: client}
}

func (r *requestRepositoryImpl) List(ctx context.Context, employeeID string) ([]request.Form, error) {
	var query url.Values
	if employeeID != "" {
		query = url.Values{"employeeId": {employeeID}}
	}

	records, err := list[requestFormRecord](ctx, r.Client, CollectionRequestForms, query)
	if err != nil {
		return nil, err
	}
	forms := make([]request.Form, 0, len(records))
	for _, record := range records {
		forms = append(forms, record.toDomain(r.loc))
	}
	return forms, nil
}

func (r *requestRepositoryImpl) GetByID(ctx context.Context, id string) (request.Form, error) {
	record, err := get[requestFormRecord](ctx, r.Client, CollectionRequestForms, id)
	if err != nil {
		return request.Form{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *requestRepositoryImpl) Create(ctx context.Context, form request.Form) (request.Form, error) {
	if form.ID == "" {
		form.ID = newID()
	}
	form.Version = 1
	record, err := create(ctx, r.Client, CollectionRequestForms, toRequestFormRecord(form))
	if err != nil {
		return request.Form{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *requestRepositoryImpl) Update(ctx context.Context, form request.Form) (request.Form, error) {
	if err := r.checkVersion(ctx, form.ID, form.Version); err != nil {
		return request.Form{}, err
	}

	form.Version++
	record, err := replace(ctx, r.Client, CollectionRequestForms, form.ID, toRequestFormRecord(form))
	if err != nil {
		return request.Form{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *requestRepositoryImpl) Delete(ctx context.Context, id string, version int) error {
	if err := r.checkVersion(ctx, id, version); err != nil {
		return err
	}
	return remove(ctx, r.Client, CollectionRequestForms, id)
}

func (r *requestRepositoryImpl) checkVersion(ctx context.Context, id string, version int) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Version != version {
		return fmt.Errorf("request form %s at version %d: %w", id, version, repository.ErrConflict)
	}
	return nil
}
