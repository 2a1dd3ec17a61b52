package activitylog

import (
	"context"

	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/sse"
)

// StreamTopic is the hub topic new entries are published on.
const StreamTopic = "activity-logs"

// Recorder is the write side engines depend on.
type Recorder interface {
	Record(ctx context.Context, actorName string, activityType Type, details string) (Entry, error)
}

type ActivityLogService interface {
	Recorder
	// List returns every entry, newest first
	List(ctx context.Context) ([]Entry, error)
	// Subscribe streams entries recorded from now on until cleanup is called
	Subscribe(ctx context.Context) (<-chan sse.Event, func())
}
