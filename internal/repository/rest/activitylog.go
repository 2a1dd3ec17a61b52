package rest

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
)

type activityLogRepositoryImpl struct {
	*Client
}

func NewActivityLogRepository(client *Client) activitylog.ActivityLogRepository {
	return &activityLogRepositoryImpl{Client: client}
}

func (r *activityLogRepositoryImpl) Create(ctx context.Context, entry activitylog.Entry) (activitylog.Entry, error) {
	if entry.ID == "" {
		entry.ID = newID()
	}
	record, err := create(ctx, r.Client, CollectionActivityLogs, toActivityLogRecord(entry, r.loc))
	if err != nil {
		return activitylog.Entry{}, err
	}
	return record.toDomain(r.loc), nil
}

func (r *activityLogRepositoryImpl) List(ctx context.Context) ([]activitylog.Entry, error) {
	records, err := list[activityLogRecord](ctx, r.Client, CollectionActivityLogs, nil)
	if err != nil {
		return nil, err
	}
	entries := make([]activitylog.Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.toDomain(r.loc))
	}
	return entries, nil
}
