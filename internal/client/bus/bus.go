package bus

import (
	"log/slog"
	"sync"
)

// Event types broadcast by the queueing and sync core
const (
	EventRecordSavedOffline = "record-saved-offline"
	EventRecordSynced       = "record-synced"
	EventSyncCompleted      = "sync-completed"
	EventSyncError          = "sync-error"
)

// Message представляет одно уведомление для слоя представления
type Message struct {
	Type    string `json:"type"`    // Type тип события
	Payload any    `json:"payload"` // Payload данные события
}

// Bus delivers state-change events to every current subscriber.
// Fire-and-forget: no buffering beyond the subscriber channel, no
// replay. A subscriber that attaches after an event was broadcast
// never sees it.
type Bus struct {
	logger      *slog.Logger
	subscribers map[int]chan Message
	nextID      int
	mu          sync.RWMutex
}

// New creates a new notification bus
func New(logger *slog.Logger) *Bus {
	return &Bus{
		logger:      logger,
		subscribers: make(map[int]chan Message),
	}
}

// Subscribe attaches a listener and returns its channel together with
// an unsubscribe function. The channel is closed on unsubscribe.
func (b *Bus) Subscribe() (<-chan Message, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	// Небольшой буфер чтобы медленный подписчик не блокировал broadcast
	ch := make(chan Message, 16)
	b.subscribers[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(ch)
		}
	}

	return ch, unsubscribe
}

// Broadcast delivers the event to every current subscriber without
// blocking. If a subscriber's buffer is full the message is dropped
// for that subscriber.
func (b *Bus) Broadcast(eventType string, payload any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msg := Message{Type: eventType, Payload: payload}

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
			b.logger.Warn("Dropping event for slow subscriber", "type", eventType)
		}
	}
}
