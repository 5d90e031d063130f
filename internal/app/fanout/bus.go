// Package fanout delivers room events to subscribers asynchronously,
// one mailbox and goroutine per subscriber.
package fanout

import (
	"sync"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/dkeye/WatchParty/internal/metrics"
	"github.com/rs/zerolog/log"
)

type Bus struct {
	mu     sync.RWMutex
	topics map[domain.RoomID]*topic
	nextID uint64
	closed bool
}

var _ core.EventBus = (*Bus)(nil)

func NewBus() *Bus {
	return &Bus{
		topics: make(map[domain.RoomID]*topic),
	}
}

// Subscribe attaches h to roomID and starts its delivery loop.
// The returned func is idempotent.
func (b *Bus) Subscribe(roomID domain.RoomID, h core.Handler) func() {
	b.mu.Lock()
	b.nextID++
	sub := newSubscription(b.nextID, h)
	if b.closed {
		b.mu.Unlock()
		return func() {}
	}
	t, ok := b.topics[roomID]
	if !ok {
		t = newTopic()
		b.topics[roomID] = t
	}
	t.add(sub)
	b.mu.Unlock()

	logger := log.With().
		Str("module", "fanout").
		Str("room", string(roomID)).
		Uint64("sub", sub.id).
		Logger()
	go sub.loop(&logger)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.MarkDelete()
			b.detach(roomID, t, sub.id)
		})
	}
}

func (b *Bus) detach(roomID domain.RoomID, t *topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t.remove(id) && b.topics[roomID] == t {
		delete(b.topics, roomID)
	}
}

// Publish enqueues ev for every current subscriber of roomID.
func (b *Bus) Publish(roomID domain.RoomID, ev core.Event) {
	b.mu.RLock()
	t, ok := b.topics[roomID]
	b.mu.RUnlock()
	metrics.EventsPublished.WithLabelValues(string(ev.Type)).Inc()
	if !ok {
		return
	}
	t.publish(ev)
}

// Drop detaches all subscribers of roomID. Events already queued are
// still delivered.
func (b *Bus) Drop(roomID domain.RoomID) {
	b.mu.Lock()
	t, ok := b.topics[roomID]
	if ok {
		delete(b.topics, roomID)
	}
	b.mu.Unlock()
	if !ok {
		return
	}
	t.markAllDraining()
}

func (b *Bus) Subscribers(roomID domain.RoomID) int {
	b.mu.RLock()
	t, ok := b.topics[roomID]
	b.mu.RUnlock()
	if !ok {
		return 0
	}
	return t.len()
}

// Close stops every delivery loop. Pending events are discarded.
func (b *Bus) Close() {
	b.mu.Lock()
	topics := b.topics
	b.topics = make(map[domain.RoomID]*topic)
	b.closed = true
	b.mu.Unlock()
	for _, t := range topics {
		t.markAllDelete()
	}
}
