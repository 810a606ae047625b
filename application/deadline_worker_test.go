package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"clubledger/domain/entities"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSchedule struct {
	mu    sync.Mutex
	next  time.Time
	fired []time.Time
}

func (s *fakeSchedule) deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

func (s *fakeSchedule) set(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = t
}

func (s *fakeSchedule) firedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fired)
}

func waitCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDeadlineWorker_FiresAtDeadline(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(testEpoch)
	schedule := &fakeSchedule{next: testEpoch.Add(time.Hour)}
	worker := NewDeadlineWorker("test", clock, schedule.deadline, func(context.Context) {
		schedule.mu.Lock()
		defer schedule.mu.Unlock()
		schedule.fired = append(schedule.fired, clock.Now())
		schedule.next = schedule.next.Add(24 * time.Hour)
	})

	stop := worker.Start(context.Background())
	defer stop()

	require.NoError(t, clock.BlockUntilContext(waitCtx(t), 1))
	assert.Equal(t, 0, schedule.firedCount())

	clock.Advance(time.Hour)
	require.Eventually(t, func() bool { return schedule.firedCount() == 1 }, time.Second, 5*time.Millisecond)

	// Re-armed for the following day
	require.NoError(t, clock.BlockUntilContext(waitCtx(t), 1))
	assert.Equal(t, testEpoch.Add(25*time.Hour), schedule.deadline())
}

func TestDeadlineWorker_CatchesUpOverdueDeadline(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(testEpoch)
	schedule := &fakeSchedule{next: testEpoch.Add(-3 * time.Hour)}
	worker := NewDeadlineWorker("test", clock, schedule.deadline, func(context.Context) {
		schedule.mu.Lock()
		defer schedule.mu.Unlock()
		schedule.fired = append(schedule.fired, clock.Now())
		schedule.next = testEpoch.Add(time.Hour)
	})

	stop := worker.Start(context.Background())
	defer stop()

	require.Eventually(t, func() bool { return schedule.firedCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDeadlineWorker_Rearm(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(testEpoch)
	schedule := &fakeSchedule{next: testEpoch.Add(10 * time.Hour)}
	worker := NewDeadlineWorker("test", clock, schedule.deadline, func(context.Context) {
		schedule.mu.Lock()
		defer schedule.mu.Unlock()
		schedule.fired = append(schedule.fired, clock.Now())
		schedule.next = time.Time{}
	})

	stop := worker.Start(context.Background())
	defer stop()
	require.NoError(t, clock.BlockUntilContext(waitCtx(t), 1))

	// Move the deadline earlier; without a rearm the old timer would still be pending
	schedule.set(testEpoch.Add(time.Minute))
	worker.Rearm()
	require.NoError(t, clock.BlockUntilContext(waitCtx(t), 1))

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return schedule.firedCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDeadlineWorker_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(testEpoch)
	worker := NewDeadlineWorker("test", clock, func() time.Time { return time.Time{} }, func(context.Context) {})

	stop := worker.Start(context.Background())
	stop()
	stop()
}

func TestClub_ScheduledDrawingAndPollReset(t *testing.T) {
	t.Parallel()

	tc := newTestClub(t, entities.NewClubState())
	tc.addMember("m1", 100)
	poll, err := tc.club.Poll("")
	require.NoError(t, err)
	require.NoError(t, tc.club.Vote("m1", poll.Options[0]))

	// Drawing timer and poll-reset timer
	require.NoError(t, tc.clock.BlockUntilContext(waitCtx(t), 2))

	tc.clock.Advance(10*time.Hour + 30*time.Minute) // 20:00, draw hour
	require.Eventually(t, func() bool {
		info, err := tc.club.DrawingInfo("")
		return err == nil && info.LastResult != nil
	}, time.Second, 5*time.Millisecond)

	info, err := tc.club.DrawingInfo("")
	require.NoError(t, err)
	assert.Equal(t, int64(1500), info.PoolBalance)
	assert.Equal(t, time.Date(2024, 3, 11, 20, 0, 0, 0, time.UTC), info.NextDrawAt)

	poll, err = tc.club.Poll("")
	require.NoError(t, err)
	assert.Equal(t, 1, poll.TotalVotes)

	require.NoError(t, tc.clock.BlockUntilContext(waitCtx(t), 2))
	tc.clock.Advance(4 * time.Hour) // midnight
	require.Eventually(t, func() bool {
		view, err := tc.club.Poll("")
		return err == nil && view.TotalVotes == 0
	}, time.Second, 5*time.Millisecond)

	poll, err = tc.club.Poll("")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), poll.NextResetAt)
}
