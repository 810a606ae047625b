package services

import (
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/interfaces"
	"clubledger/events"
	"clubledger/metrics"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// DrawingConfig holds the drawing economics and schedule
type DrawingConfig struct {
	TicketPrice      int64
	PoolSharePercent int64 // share of each ticket that enters the pool
	BasePool         int64 // pool floor and the value after a win
	RolloverPercent  int64 // pool growth when nobody wins, 150 = x1.5
	DrawHour         int
	Location         *time.Location
}

// DefaultDrawingConfig returns the standard club drawing settings
func DefaultDrawingConfig() DrawingConfig {
	return DrawingConfig{
		TicketPrice:      100,
		PoolSharePercent: 50,
		BasePool:         1000,
		RolloverPercent:  150,
		DrawHour:         20,
		Location:         time.UTC,
	}
}

// DrawingService sells tickets, runs draws and manages the pool
type DrawingService struct {
	config         DrawingConfig
	ledger         *LedgerService
	clock          clockwork.Clock
	random         entities.Random
	eventPublisher interfaces.EventPublisher
}

// NewDrawingService creates a new drawing service
func NewDrawingService(config DrawingConfig, ledger *LedgerService, clock clockwork.Clock, random entities.Random, eventPublisher interfaces.EventPublisher) *DrawingService {
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &DrawingService{
		config:         config,
		ledger:         ledger,
		clock:          clock,
		random:         random,
		eventPublisher: eventPublisher,
	}
}

// Config returns the drawing settings in force
func (s *DrawingService) Config() DrawingConfig {
	return s.config
}

// EnsureSchedule seeds an empty pool with the base value and a first draw time.
// Returns true if the pool was changed.
func (s *DrawingService) EnsureSchedule(pool *entities.Pool) bool {
	before := pool.Balance
	changed := false
	if pool.Balance < s.config.BasePool {
		pool.Balance = s.config.BasePool
		changed = true
	}
	if pool.NextDrawAt.IsZero() {
		pool.NextDrawAt = entities.FirstDrawTime(s.clock.Now(), s.config.DrawHour, s.config.Location)
		changed = true
	}
	if changed {
		s.publish(events.PoolAdjustedEvent{PoolBefore: before, PoolAfter: pool.Balance, NextDrawAt: pool.NextDrawAt})
		metrics.SetPoolBalance(pool.Balance)
	}
	return changed
}

// BuyTicket charges the member the ticket price, mints a code and grows the pool
func (s *DrawingService) BuyTicket(member *entities.Member, pool *entities.Pool) (*entities.DrawingTicket, error) {
	if !member.CanAfford(s.config.TicketPrice) {
		metrics.RecordRejection(entities.ErrInsufficientBalance)
		return nil, entities.Reject(entities.ErrInsufficientBalance,
			"You need %d %s to buy a ticket.", s.config.TicketPrice, CurrencyName)
	}

	s.ledger.ApplyDelta(member, -s.config.TicketPrice, entities.ReasonTicketPurchase)

	ticket := entities.DrawingTicket{
		MemberID:    member.ID,
		Code:        entities.GenerateCode(s.random),
		PurchasedAt: s.clock.Now(),
	}
	pool.Tickets = append(pool.Tickets, ticket)
	pool.Balance = entities.AddAmount(pool.Balance, entities.ScaleAmount(s.config.TicketPrice, s.config.PoolSharePercent))

	s.publish(events.TicketPurchasedEvent{
		Ticket:      ticket,
		PoolBalance: pool.Balance,
	})
	metrics.SetPoolBalance(pool.Balance)

	log.WithFields(log.Fields{
		"memberID":    member.ID,
		"code":        ticket.Code,
		"poolBalance": pool.Balance,
	}).Info("Drawing ticket purchased")

	return &ticket, nil
}

// Draw picks a winning code and settles the round. A matching ticket takes the
// whole pool and the pool resets to base; otherwise the pool rolls over.
// Tickets are cleared and the next draw is scheduled either way.
func (s *DrawingService) Draw(state *entities.ClubState) entities.DrawResult {
	now := s.clock.Now()
	pool := &state.Pool

	result := entities.DrawResult{
		WinningCode: entities.GenerateCode(s.random),
		PoolBefore:  pool.Balance,
		TicketCount: len(pool.Tickets),
		DrawnAt:     now,
	}

	ticket, matched := pool.MatchTicket(result.WinningCode)
	var winner *entities.Member
	if matched {
		winner, matched = state.Member(ticket.MemberID)
	}

	if matched {
		result.WinnerID = winner.ID
		result.Payout = pool.Balance
		s.ledger.ApplyDelta(winner, pool.Balance, entities.ReasonLotteryWin)
		pool.Balance = s.config.BasePool
	} else {
		result.RolledOver = true
		pool.Balance = entities.ScaleAmount(pool.Balance, s.config.RolloverPercent)
	}

	pool.Tickets = nil
	pool.NextDrawAt = entities.NextDrawTime(now, s.config.DrawHour, s.config.Location)
	result.PoolAfter = pool.Balance
	result.NextDrawAt = pool.NextDrawAt
	last := result
	state.LastDraw = &last

	s.publish(events.DrawCompletedEvent{Result: result})
	metrics.RecordDraw(result.RolledOver, result.PoolAfter)

	log.WithFields(log.Fields{
		"winningCode": result.WinningCode,
		"winnerID":    result.WinnerID,
		"payout":      result.Payout,
		"tickets":     result.TicketCount,
		"poolAfter":   result.PoolAfter,
		"nextDrawAt":  result.NextDrawAt,
	}).Info("Drawing completed")

	return result
}

// AdjustPool adds amount to the pool, never going below the base value or
// above entities.MaxAmount
func (s *DrawingService) AdjustPool(pool *entities.Pool, amount int64) int64 {
	before := pool.Balance
	after := entities.AddAmount(before, amount)
	if after < s.config.BasePool {
		after = s.config.BasePool
	}
	pool.Balance = after

	s.publish(events.PoolAdjustedEvent{PoolBefore: before, PoolAfter: after, NextDrawAt: pool.NextDrawAt})
	metrics.SetPoolBalance(after)

	log.WithFields(log.Fields{
		"amount":     amount,
		"poolBefore": before,
		"poolAfter":  after,
	}).Info("Drawing pool adjusted")

	return after
}

func (s *DrawingService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to publish drawing event")
	}
}
