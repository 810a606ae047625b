package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) handle(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestBus_DeliversInOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	rec := &recorder{}
	bus.Subscribe("recorder", rec.handle)

	for i := 0; i < 100; i++ {
		bus.Emit(PrizeChangedEvent{Amount: int64(i)})
	}
	require.NoError(t, bus.Close(context.Background()))

	got := rec.snapshot()
	require.Len(t, got, 100)
	for i, e := range got {
		assert.Equal(t, int64(i), e.(PrizeChangedEvent).Amount)
	}
}

func TestBus_FiltersByType(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	votes := &recorder{}
	all := &recorder{}
	bus.Subscribe("votes", votes.handle, EventTypeVoteCast)
	bus.Subscribe("all", all.handle)

	bus.Emit(VoteCastEvent{MemberID: "m1", Option: "A"})
	bus.Emit(MemberDeletedEvent{MemberID: "m1"})
	require.NoError(t, bus.Close(context.Background()))

	assert.Len(t, votes.snapshot(), 1)
	assert.Len(t, all.snapshot(), 2)
}

func TestBus_SlowSubscriberDoesNotBlockEmit(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	release := make(chan struct{})
	rec := &recorder{}
	bus.Subscribe("slow", func(ctx context.Context, e Event) {
		<-release
		rec.handle(ctx, e)
	})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Emit(PrizeChangedEvent{Amount: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a slow subscriber")
	}

	close(release)
	require.NoError(t, bus.Close(context.Background()))
	assert.Len(t, rec.snapshot(), 10)
}

func TestBus_RecoversFromPanics(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	rec := &recorder{}
	bus.Subscribe("panicky", func(ctx context.Context, e Event) {
		if e.(PrizeChangedEvent).Amount == 1 {
			panic("boom")
		}
		rec.handle(ctx, e)
	})

	bus.Emit(PrizeChangedEvent{Amount: 1})
	bus.Emit(PrizeChangedEvent{Amount: 2})
	require.NoError(t, bus.Close(context.Background()))

	got := rec.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].(PrizeChangedEvent).Amount)
}

func TestBus_CloseTimesOut(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	release := make(chan struct{})
	defer close(release)
	bus.Subscribe("stuck", func(context.Context, Event) { <-release })
	bus.Emit(PrizeChangedEvent{Amount: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Close(ctx), context.DeadlineExceeded)

	// Emits after close are dropped
	bus.Emit(PrizeChangedEvent{Amount: 2})
}

func TestTransactionalBus_FlushAndDiscard(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	rec := &recorder{}
	bus.Subscribe("recorder", rec.handle)

	tx := NewTransactionalBus(bus)
	require.NoError(t, tx.Publish(PrizeChangedEvent{Amount: 1}))
	require.NoError(t, tx.Publish(PrizeChangedEvent{Amount: 2}))
	assert.Equal(t, 2, tx.Pending())

	discarded := NewTransactionalBus(bus)
	require.NoError(t, discarded.Publish(PrizeChangedEvent{Amount: 99}))
	discarded.Discard()
	discarded.Flush()

	tx.Flush()
	assert.Equal(t, 0, tx.Pending())
	require.NoError(t, bus.Close(context.Background()))

	got := rec.snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].(PrizeChangedEvent).Amount)
	assert.Equal(t, int64(2), got[1].(PrizeChangedEvent).Amount)
}
