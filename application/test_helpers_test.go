package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/testhelpers"
	"clubledger/events"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)

// eventLog collects everything emitted on the bus
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) handle(_ context.Context, e events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) ofType(t events.EventType) []events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []events.Event
	for _, e := range l.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

type testClub struct {
	club     *Club
	clock    *clockwork.FakeClock
	loader   *testhelpers.MockStateLoader
	identity *testhelpers.MockIdentityService
	bus      *events.Bus
	log      *eventLog
	random   *testhelpers.ScriptedRandom
}

// drain waits for the bus to deliver everything emitted so far
func (tc *testClub) drain(t *testing.T) {
	t.Helper()
	tc.club.Teardown()
	require.NoError(t, tc.bus.Close(context.Background()))
}

func newTestClub(t *testing.T, state *entities.ClubState) *testClub {
	t.Helper()

	tc := &testClub{
		clock:    clockwork.NewFakeClockAt(testEpoch),
		loader:   new(testhelpers.MockStateLoader),
		identity: new(testhelpers.MockIdentityService),
		bus:      events.NewBus(),
		log:      &eventLog{},
		random:   testhelpers.NewScriptedRandom(0.0),
	}
	tc.bus.Subscribe("test", tc.log.handle)
	tc.loader.On("LoadState", mock.Anything).Return(state, nil)

	tc.club = NewClub(DefaultConfig(), tc.loader, tc.identity, tc.bus, tc.clock, tc.random)
	require.NoError(t, tc.club.Init(context.Background()))
	t.Cleanup(func() {
		tc.club.Teardown()
		_ = tc.bus.Close(context.Background())
	})
	return tc
}

// addMember seeds a member directly into engine state
func (tc *testClub) addMember(id string, balance int64) {
	tc.club.mu.Lock()
	defer tc.club.mu.Unlock()
	tc.club.state.AddMember(entities.NewMember(id, "member "+id, id+"@example.com", balance, testEpoch))
}
