package fanout

import (
	"sync"

	"github.com/dkeye/WatchParty/internal/core"
)

// topic is the subscriber set of one room. Publishing holds mu so every
// subscriber observes the same order.
type topic struct {
	mu   sync.Mutex
	subs map[uint64]*subscription
}

func newTopic() *topic {
	return &topic{subs: make(map[uint64]*subscription)}
}

func (t *topic) publish(ev core.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.subs {
		sub.push(ev)
	}
}

func (t *topic) add(sub *subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subs[sub.id] = sub
}

// remove reports whether the topic became empty.
func (t *topic) remove(id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.subs, id)
	return len(t.subs) == 0
}

func (t *topic) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

func (t *topic) markAllDraining() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.subs {
		sub.MarkDraining()
	}
}

func (t *topic) markAllDelete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.subs {
		sub.MarkDelete()
	}
}
