package activitylog

import "context"

type ActivityLogRepository interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	// List returns every entry in insertion order
	List(ctx context.Context) ([]Entry, error)
}
