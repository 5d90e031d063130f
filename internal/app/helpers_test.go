package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/domain"
)

// seqIDs hands out predictable ids. Codes are taken from codes in order,
// then generated.
type seqIDs struct {
	mu    sync.Mutex
	codes []string
	n     int
}

func (g *seqIDs) NewRoomCode() domain.RoomID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if len(g.codes) > 0 {
		c := g.codes[0]
		g.codes = g.codes[1:]
		return domain.RoomID(c)
	}
	return domain.RoomID(fmt.Sprintf("R%07d", g.n))
}

func (g *seqIDs) NewParticipantID() domain.UserID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return domain.UserID(fmt.Sprintf("u%d", g.n))
}

func (g *seqIDs) NewMessageID() domain.MessageID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return domain.MessageID(fmt.Sprintf("m%d", g.n))
}

// memBus records publishes synchronously.
type memBus struct {
	mu      sync.Mutex
	events  map[domain.RoomID][]core.Event
	dropped []domain.RoomID
}

func newMemBus() *memBus {
	return &memBus{events: make(map[domain.RoomID][]core.Event)}
}

func (b *memBus) Subscribe(domain.RoomID, core.Handler) func() { return func() {} }

func (b *memBus) Publish(roomID domain.RoomID, ev core.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[roomID] = append(b.events[roomID], ev)
}

func (b *memBus) Drop(roomID domain.RoomID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropped = append(b.dropped, roomID)
}

func (b *memBus) Subscribers(domain.RoomID) int { return 0 }

func (b *memBus) Events(roomID domain.RoomID) []core.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.Event(nil), b.events[roomID]...)
}

func (b *memBus) Types(roomID domain.RoomID) []core.EventType {
	var out []core.EventType
	for _, ev := range b.Events(roomID) {
		out = append(out, ev.Type)
	}
	return out
}

var fixedNow = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func newTestRegistry(cfg RegistryConfig) (*Registry, *memBus, *seqIDs) {
	ids := &seqIDs{}
	bus := newMemBus()
	r := NewRegistry(ids, bus, SimplePolicy{}, cfg)
	r.now = func() time.Time { return fixedNow }
	return r, bus, ids
}
