package postgresql

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/database"
)

type activityLogRepositoryImpl struct {
	db *database.DB
}

func NewActivityLogRepository(db *database.DB) activitylog.ActivityLogRepository {
	return &activityLogRepositoryImpl{db: db}
}

// Create implements activitylog.ActivityLogRepository.
func (r *activityLogRepositoryImpl) Create(ctx context.Context, entry activitylog.Entry) (activitylog.Entry, error) {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO activity_logs (id, name, activity_type, time, details)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ID, entry.Name, entry.Type, entry.Time, entry.Details)
	if err != nil {
		return activitylog.Entry{}, translate(err)
	}
	return entry, nil
}

// List implements activitylog.ActivityLogRepository.
func (r *activityLogRepositoryImpl) List(ctx context.Context) ([]activitylog.Entry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name, activity_type, time, details FROM activity_logs ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]activitylog.Entry, 0)
	for rows.Next() {
		var e activitylog.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &e.Time, &e.Details); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
