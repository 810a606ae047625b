package services

import (
	"fmt"
	"time"

	"clubledger/domain/entities"
	"clubledger/domain/interfaces"
	"clubledger/events"
	"clubledger/metrics"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// CurrencyName is how balances are labelled in outcome messages
const CurrencyName = "points"

// GameService resolves plays of the club games
type GameService struct {
	ledger         *LedgerService
	clock          clockwork.Clock
	random         entities.Random
	eventPublisher interfaces.EventPublisher
}

// NewGameService creates a new game service
func NewGameService(ledger *LedgerService, clock clockwork.Clock, random entities.Random, eventPublisher interfaces.EventPublisher) *GameService {
	return &GameService{
		ledger:         ledger,
		clock:          clock,
		random:         random,
		eventPublisher: eventPublisher,
	}
}

// ResolveBet plays one round of game for member at the given stake.
// Preconditions are checked in order: cooldown, minimum balance, stake bounds.
// A rejected bet leaves balance and cooldown untouched.
func (s *GameService) ResolveBet(member *entities.Member, game entities.Game, stake int64) (*entities.BetOutcome, error) {
	now := s.clock.Now()

	if last, ok := member.LastPlayedAt(game.ID); ok {
		if remaining := game.CooldownRemaining(last, now); remaining > 0 {
			metrics.RecordRejection(entities.ErrCooldownActive)
			return nil, entities.Reject(entities.ErrCooldownActive,
				"You need to wait %d seconds to play %s again.", ceilSeconds(remaining), game.Name)
		}
	}

	if member.Balance < game.MinStake {
		metrics.RecordRejection(entities.ErrInsufficientBalance)
		return nil, entities.Reject(entities.ErrInsufficientBalance,
			"You don't have enough %s to play. Minimum %s required: %d.", CurrencyName, CurrencyName, game.MinStake)
	}

	if !game.ValidStake(stake) || stake > member.Balance {
		metrics.RecordRejection(entities.ErrInvalidAmount)
		return nil, entities.Reject(entities.ErrInvalidAmount,
			"Invalid %s amount. Min: %d, Max: %d", CurrencyName, game.MinStake, game.MaxStake)
	}

	play := game.Play(s.random, stake)
	won, payout := play.Won, play.Payout

	if member.LastPlayed == nil {
		member.LastPlayed = make(map[entities.GameID]time.Time)
	}
	member.LastPlayed[game.ID] = now

	entry := s.ledger.ApplyDelta(member, payout, game.Reason())

	if err := s.eventPublisher.Publish(events.GamePlayedEvent{
		MemberID: member.ID,
		GameID:   game.ID,
		Stake:    stake,
		Won:      won,
		Payout:   payout,
		PlayedAt: now,
	}); err != nil {
		log.WithError(err).Error("Failed to publish game played event")
	}
	metrics.RecordBet(string(game.ID), won)

	log.WithFields(log.Fields{
		"memberID": member.ID,
		"game":     game.ID,
		"stake":    stake,
		"won":      won,
		"payout":   payout,
	}).Debug("Bet resolved")

	return &entities.BetOutcome{
		GameID:     game.ID,
		Stake:      stake,
		Won:        won,
		Payout:     payout,
		NewBalance: entry.BalanceAfter,
		Message:    outcomeMessage(payout),
		Hand:       play.Hand,
	}, nil
}

func outcomeMessage(payout int64) string {
	switch {
	case payout > 0:
		return fmt.Sprintf("You earned %d %s!", payout, CurrencyName)
	case payout < 0:
		return fmt.Sprintf("You lost %d %s.", -payout, CurrencyName)
	default:
		return fmt.Sprintf("You broke even. No %s changed hands.", CurrencyName)
	}
}

func ceilSeconds(d time.Duration) int64 {
	return int64((d + time.Second - 1) / time.Second)
}
