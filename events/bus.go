package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// subscriber owns an unbounded queue drained by a single goroutine, so each
// subscriber sees events in emit order without ever blocking the emitter.
type subscriber struct {
	name    string
	types   map[EventType]bool // nil means every type
	handler Handler

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	closed bool
	done   chan struct{}
}

func (s *subscriber) wants(t EventType) bool {
	return s.types == nil || s.types[t]
}

func (s *subscriber) enqueue(event Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.queue = append(s.queue, event)
	s.cond.Signal()
	return true
}

func (s *subscriber) run(ctx context.Context) {
	defer close(s.done)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		event := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.deliver(ctx, event)
	}
}

func (s *subscriber) deliver(ctx context.Context, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType":  event.Type(),
				"subscriber": s.name,
				"panic":      r,
			}).Error("Event handler panicked")
		}
	}()
	log.WithFields(log.Fields{
		"eventType":  event.Type(),
		"subscriber": s.name,
	}).Debug("Calling event handler")
	s.handler(ctx, event)
}

func (s *subscriber) close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu          sync.RWMutex
	subscribers []*subscriber
	ctx         context.Context
	closed      bool
}

// NewBus creates a new event bus. Handlers receive a background context.
func NewBus() *Bus {
	return &Bus{ctx: context.Background()}
}

// Subscribe adds a handler for the given event types, or every type when none are given
func (b *Bus) Subscribe(name string, handler Handler, eventTypes ...EventType) {
	sub := &subscriber{
		name:    name,
		handler: handler,
		done:    make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)
	if len(eventTypes) > 0 {
		sub.types = make(map[EventType]bool, len(eventTypes))
		for _, t := range eventTypes {
			sub.types[t] = true
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		log.WithField("subscriber", name).Warn("Ignoring subscription on closed event bus")
		return
	}
	b.subscribers = append(b.subscribers, sub)
	go sub.run(b.ctx)

	log.WithFields(log.Fields{
		"subscriber":      name,
		"eventTypes":      eventTypes,
		"subscriberCount": len(b.subscribers),
	}).Debug("Subscribed handler to event bus")
}

// Emit queues an event for every interested subscriber and returns immediately
func (b *Bus) Emit(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		log.WithField("eventType", event.Type()).Warn("Dropping event emitted on closed event bus")
		return
	}
	for _, sub := range b.subscribers {
		if sub.wants(event.Type()) {
			sub.enqueue(event)
		}
	}
}

// Close stops accepting events and waits for queued events to drain,
// or until ctx is done.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := append([]*subscriber(nil), b.subscribers...)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
	for _, sub := range subs {
		select {
		case <-sub.done:
		case <-ctx.Done():
			log.WithField("subscriber", sub.name).Warn("Event bus closed before subscriber drained")
			return ctx.Err()
		}
	}
	log.Debug("Event bus drained and closed")
	return nil
}

// TransactionalBus holds events raised inside a critical section and
// forwards them to the real bus once the section has committed.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

// NewTransactionalBus creates a transactional bus over real
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes an event until Flush
func (b *TransactionalBus) Publish(e Event) error {
	b.pending = append(b.pending, e)
	return nil
}

// Pending returns the number of stashed events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush emits stashed events in publish order. Called after the in-memory commit.
func (b *TransactionalBus) Flush() {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events to event bus")
	for _, ev := range b.pending {
		b.real.Emit(ev)
	}
	b.pending = nil
}

// Discard drops stashed events without emitting them
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
