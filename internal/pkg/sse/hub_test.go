package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()

	logs, cleanupLogs := hub.Subscribe("activity-logs")
	defer cleanupLogs()
	other, cleanupOther := hub.Subscribe("other")
	defer cleanupOther()

	hub.Publish("activity-logs", Event{Event: "activity", Data: "entry"})

	select {
	case ev := <-logs:
		assert.Equal(t, "activity-logs", ev.Topic)
		assert.Equal(t, "activity", ev.Event)
		assert.Equal(t, "entry", ev.Data)
	default:
		t.Fatal("expected event on subscribed topic")
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event on other topic: %+v", ev)
	default:
	}
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("activity-logs")
	require.Equal(t, 1, hub.SubscriberCount("activity-logs"))
	require.Equal(t, 1, hub.TotalSubscribers())

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("activity-logs"))
	assert.Equal(t, 0, hub.TotalSubscribers())

	_, open := <-ch
	assert.False(t, open)
}

func TestHub_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe("activity-logs")
	defer cleanup()

	for i := 0; i < hub.bufferSize*2; i++ {
		hub.Publish("activity-logs", Event{Event: "activity", Data: i})
	}
}
