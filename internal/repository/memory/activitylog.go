package memory

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
)

type activityLogRepositoryImpl struct {
	*Store
}

func NewActivityLogRepository(store *Store) activitylog.ActivityLogRepository {
	return &activityLogRepositoryImpl{Store: store}
}

func (r *activityLogRepositoryImpl) Create(ctx context.Context, entry activitylog.Entry) (activitylog.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = newID()
	}
	r.logs = append(r.logs, entry)
	return entry, nil
}

func (r *activityLogRepositoryImpl) List(ctx context.Context) ([]activitylog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]activitylog.Entry(nil), r.logs...), nil
}
