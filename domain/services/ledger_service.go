package services

import (
	"sort"

	"clubledger/domain/entities"
	"clubledger/domain/interfaces"
	"clubledger/events"
	"clubledger/metrics"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// LedgerService applies balance changes. It is the single entry point for all
// balance mutations so every change is logged and evaluated for achievements.
type LedgerService struct {
	clock          clockwork.Clock
	evaluator      *AchievementEvaluator
	eventPublisher interfaces.EventPublisher
}

// LedgerEntry is the outcome of one applyDelta
type LedgerEntry struct {
	Transaction   entities.Transaction
	BalanceBefore int64
	BalanceAfter  int64
	Unlocked      []entities.Achievement
}

// NewLedgerService creates a new ledger service
func NewLedgerService(clock clockwork.Clock, evaluator *AchievementEvaluator, eventPublisher interfaces.EventPublisher) *LedgerService {
	return &LedgerService{
		clock:          clock,
		evaluator:      evaluator,
		eventPublisher: eventPublisher,
	}
}

// ApplyDelta changes the balance by amount, flooring at zero and saturating at
// entities.MaxAmount, and appends a transaction holding the requested amount.
// Never fails.
func (s *LedgerService) ApplyDelta(member *entities.Member, amount int64, reason string) LedgerEntry {
	before := member.Balance
	after := entities.AddAmount(before, amount)
	if after < 0 {
		after = 0
	}

	tx := entities.Transaction{
		Amount:    amount,
		Applied:   after - before,
		Reason:    reason,
		Timestamp: s.clock.Now(),
	}
	member.Balance = after
	member.Transactions = append(member.Transactions, tx)

	if tx.WasClamped() {
		log.WithFields(log.Fields{
			"memberID":  member.ID,
			"requested": amount,
			"applied":   tx.Applied,
			"reason":    reason,
		}).Debug("Balance change clamped")
	}
	metrics.RecordLedgerMutation(amount, tx.WasClamped())

	s.publish(events.BalanceChangeEvent{
		MemberID:      member.ID,
		BalanceBefore: before,
		BalanceAfter:  after,
		Transaction:   tx,
	})

	unlocked := s.evaluator.Evaluate(member)
	for _, a := range unlocked {
		s.publish(events.AchievementUnlockedEvent{
			MemberID:      member.ID,
			AchievementID: a.ID,
			UnlockedAt:    tx.Timestamp,
		})
	}

	return LedgerEntry{
		Transaction:   tx,
		BalanceBefore: before,
		BalanceAfter:  after,
		Unlocked:      unlocked,
	}
}

func (s *LedgerService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to publish ledger event")
	}
}

// Rank returns the member's 1-based position by descending balance, ties kept
// in insertion order. Returns 0 when the member is absent. Does not mutate members.
func Rank(memberID string, members []*entities.Member) int {
	for i, m := range Leaderboard(members) {
		if m.ID == memberID {
			return i + 1
		}
	}
	return 0
}

// Leaderboard returns members sorted by descending balance in a new slice
func Leaderboard(members []*entities.Member) []*entities.Member {
	sorted := make([]*entities.Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Balance > sorted[j].Balance
	})
	return sorted
}
