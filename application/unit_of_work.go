package application

import (
	"clubledger/domain/entities"
	"clubledger/domain/services"
	"clubledger/events"
)

// unitOfWork is one pass through the club's critical section. It holds the
// engine lock and a transactional bus; services built for it publish into that
// bus, and Commit forwards the stashed events before releasing the lock so
// downstream sinks see mutations in commit order.
type unitOfWork struct {
	club     *Club
	state    *entities.ClubState
	bus      *events.TransactionalBus
	finished bool

	ledger  *services.LedgerService
	games   *services.GameService
	drawing *services.DrawingService
	poll    *services.PollService
}

// begin takes the engine lock. The caller must Commit or Rollback.
func (c *Club) begin() (*unitOfWork, error) {
	c.mu.Lock()
	if c.state == nil {
		c.mu.Unlock()
		return nil, ErrNotInitialized
	}

	bus := events.NewTransactionalBus(c.bus)
	ledger := services.NewLedgerService(c.clock, c.evaluator, bus)
	return &unitOfWork{
		club:    c,
		state:   c.state,
		bus:     bus,
		ledger:  ledger,
		games:   services.NewGameService(ledger, c.clock, c.random, bus),
		drawing: services.NewDrawingService(c.config.Drawing, ledger, c.clock, c.random, bus),
		poll:    services.NewPollService(c.clock, c.config.Drawing.Location, bus),
	}, nil
}

// EventBus returns the publisher services in this unit write to
func (u *unitOfWork) EventBus() *events.TransactionalBus {
	return u.bus
}

// Commit emits the pending events and releases the lock
func (u *unitOfWork) Commit() {
	if u.finished {
		return
	}
	u.finished = true
	u.bus.Flush()
	u.club.mu.Unlock()
}

// Rollback drops pending events and releases the lock. No-op after Commit.
func (u *unitOfWork) Rollback() {
	if u.finished {
		return
	}
	u.finished = true
	u.bus.Discard()
	u.club.mu.Unlock()
}
