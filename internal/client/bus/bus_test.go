package bus

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestBroadcast_DeliversToAllSubscribers(t *testing.T) {
	b := New(testLogger())

	first, unsubFirst := b.Subscribe()
	defer unsubFirst()
	second, unsubSecond := b.Subscribe()
	defer unsubSecond()

	b.Broadcast(EventRecordSynced, "payload")

	msg := <-first
	assert.Equal(t, EventRecordSynced, msg.Type)
	assert.Equal(t, "payload", msg.Payload)

	msg = <-second
	assert.Equal(t, EventRecordSynced, msg.Type)
}

func TestBroadcast_NoReplayForLateSubscribers(t *testing.T) {
	b := New(testLogger())

	// Событие до подписки: fire-and-forget, без буферизации
	b.Broadcast(EventSyncCompleted, nil)

	events, unsubscribe := b.Subscribe()
	defer unsubscribe()

	select {
	case msg := <-events:
		t.Fatalf("late subscriber must not see earlier events, got %q", msg.Type)
	default:
	}
}

func TestUnsubscribe_ClosesChannel(t *testing.T) {
	b := New(testLogger())

	events, unsubscribe := b.Subscribe()
	unsubscribe()

	_, open := <-events
	assert.False(t, open)

	// Повторный unsubscribe безопасен
	unsubscribe()

	// Broadcast после отписки не должен паниковать
	b.Broadcast(EventSyncError, "late")
}

func TestBroadcast_DoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := New(testLogger())

	events, unsubscribe := b.Subscribe()
	defer unsubscribe()

	// Переполняем буфер подписчика: лишние события отбрасываются,
	// broadcast не блокируется
	for i := 0; i < 100; i++ {
		b.Broadcast(EventRecordSynced, i)
	}

	delivered := 0
	for {
		select {
		case <-events:
			delivered++
			continue
		default:
		}
		break
	}

	require.Greater(t, delivered, 0)
	assert.LessOrEqual(t, delivered, 16)
}
