package fanout

import (
	"sync"
	"sync/atomic"

	"github.com/dkeye/WatchParty/internal/core"
	"github.com/dkeye/WatchParty/internal/metrics"
	"github.com/rs/zerolog"
)

type SubState int32

const (
	SubStateOk SubState = iota
	SubStateDraining
	SubStateDelete
)

// subscription is a single consumer of a room topic. It owns an unbounded
// FIFO mailbox and the goroutine that drains it.
type subscription struct {
	id      uint64
	handler core.Handler
	state   atomic.Int32 // Zero by default (SubStateOk)

	mu    sync.Mutex
	queue []core.Event
	wake  chan struct{}
	done  chan struct{}
}

func newSubscription(id uint64, h core.Handler) *subscription {
	return &subscription{
		id:      id,
		handler: h,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (s *subscription) State() SubState {
	return SubState(s.state.Load())
}

func (s *subscription) MarkDraining() {
	s.state.CompareAndSwap(int32(SubStateOk), int32(SubStateDraining))
	s.signal()
}

func (s *subscription) MarkDelete() {
	s.state.Store(int32(SubStateDelete))
	s.signal()
}

// push enqueues ev without ever blocking the publisher.
func (s *subscription) push(ev core.Event) {
	if s.State() == SubStateDelete {
		return
	}
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
	s.signal()
}

func (s *subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// next blocks until an event is queued. ok is false once the subscription
// is deleted, or is draining with an empty mailbox.
func (s *subscription) next() (ev core.Event, ok bool) {
	for {
		if s.State() == SubStateDelete {
			return core.Event{}, false
		}
		s.mu.Lock()
		if len(s.queue) > 0 {
			ev = s.queue[0]
			s.queue[0] = core.Event{}
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return ev, true
		}
		s.mu.Unlock()
		if s.State() == SubStateDraining {
			return core.Event{}, false
		}
		<-s.wake
	}
}

func (s *subscription) loop(logger *zerolog.Logger) {
	defer close(s.done)
	for {
		ev, ok := s.next()
		if !ok {
			return
		}
		// Unsubscribe takes effect before the next delivery.
		if s.State() == SubStateDelete {
			return
		}
		s.deliver(ev, logger)
	}
}

func (s *subscription) deliver(ev core.Event, logger *zerolog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			metrics.DeliveryFailures.WithLabelValues("panic").Inc()
			logger.Error().
				Interface("panic", r).
				Str("event", string(ev.Type)).
				Uint64("seq", ev.Seq).
				Msg("subscriber panicked")
		}
	}()
	if err := s.handler(ev); err != nil {
		metrics.DeliveryFailures.WithLabelValues("error").Inc()
		logger.Warn().
			Err(err).
			Str("event", string(ev.Type)).
			Uint64("seq", ev.Seq).
			Msg("subscriber handler failed")
	}
}
