package activitylog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
	"github.com/google/uuid"
)

// EventActivity is the SSE event name for a freshly recorded entry.
const EventActivity = "activity"

type ActivityLogServiceImpl struct {
	activitylog.ActivityLogRepository
	hub   *sse.Hub
	clock clock.Clock
}

func NewActivityLogService(repo activitylog.ActivityLogRepository, hub *sse.Hub, clk clock.Clock) activitylog.ActivityLogService {
	return &ActivityLogServiceImpl{
		ActivityLogRepository: repo,
		hub:                   hub,
		clock:                 clk,
	}
}

// Record appends one entry. The id and time are always assigned here.
func (s *ActivityLogServiceImpl) Record(ctx context.Context, actorName string, activityType activitylog.Type, details string) (activitylog.Entry, error) {
	if strings.TrimSpace(string(activityType)) == "" {
		return activitylog.Entry{}, activitylog.ErrEmptyActivityType
	}
	if !activityType.IsCanonical() {
		slog.Debug("recording non-canonical activity type", "type", activityType)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return activitylog.Entry{}, fmt.Errorf("generate activity log id: %w", err)
	}

	entry, err := s.ActivityLogRepository.Create(ctx, activitylog.Entry{
		ID:      id.String(),
		Name:    actorName,
		Type:    activityType,
		Time:    s.clock.Now(),
		Details: details,
	})
	if err != nil {
		return activitylog.Entry{}, fmt.Errorf("write activity log: %w", err)
	}

	metrics.RecordActivityLogWrite(string(entry.Type))

	repository.AfterCommit(ctx, func() {
		if s.hub != nil {
			s.hub.Publish(activitylog.StreamTopic, sse.Event{
				Event: EventActivity,
				Data:  activitylog.NewEntryResponse(entry, s.clock.Location()),
			})
		}
	})

	return entry, nil
}

// List returns every entry, newest first.
func (s *ActivityLogServiceImpl) List(ctx context.Context) ([]activitylog.Entry, error) {
	entries, err := s.ActivityLogRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}

	out := make([]activitylog.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out, nil
}

func (s *ActivityLogServiceImpl) Subscribe(ctx context.Context) (<-chan sse.Event, func()) {
	events, cleanup := s.hub.Subscribe(activitylog.StreamTopic)
	metrics.ActiveStreams.Inc()
	return events, func() {
		cleanup()
		metrics.ActiveStreams.Dec()
	}
}
