package events

import (
	"time"

	"clubledger/domain/entities"
)

// EventType represents different types of mutation events in the system
type EventType string

const (
	EventTypeMemberCreated       EventType = "member_created"
	EventTypeMemberDeleted       EventType = "member_deleted"
	EventTypeBalanceChange       EventType = "balance_change"
	EventTypeAchievementUnlocked EventType = "achievement_unlocked"
	EventTypeGamePlayed          EventType = "game_played"
	EventTypeTicketPurchased     EventType = "ticket_purchased"
	EventTypeDrawCompleted       EventType = "draw_completed"
	EventTypePoolAdjusted        EventType = "pool_adjusted"
	EventTypeVoteCast            EventType = "vote_cast"
	EventTypePollReset           EventType = "poll_reset"
	EventTypePrizeChanged        EventType = "prize_changed"
)

// Event is the base interface for all events.
// Events carry copies, never pointers into engine state.
type Event interface {
	Type() EventType
}

// MemberCreatedEvent represents a signup
type MemberCreatedEvent struct {
	MemberID  string
	Name      string
	Email     string
	Balance   int64
	CreatedAt time.Time
}

func (e MemberCreatedEvent) Type() EventType {
	return EventTypeMemberCreated
}

// MemberDeletedEvent represents an admin delete
type MemberDeletedEvent struct {
	MemberID string
}

func (e MemberDeletedEvent) Type() EventType {
	return EventTypeMemberDeleted
}

// BalanceChangeEvent represents one ledger entry and the resulting balance
type BalanceChangeEvent struct {
	MemberID      string
	BalanceBefore int64
	BalanceAfter  int64
	Transaction   entities.Transaction
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AchievementUnlockedEvent represents a newly earned badge
type AchievementUnlockedEvent struct {
	MemberID      string
	AchievementID entities.AchievementID
	UnlockedAt    time.Time
}

func (e AchievementUnlockedEvent) Type() EventType {
	return EventTypeAchievementUnlocked
}

// GamePlayedEvent records an accepted play and its cooldown start
type GamePlayedEvent struct {
	MemberID string
	GameID   entities.GameID
	Stake    int64
	Won      bool
	Payout   int64
	PlayedAt time.Time
}

func (e GamePlayedEvent) Type() EventType {
	return EventTypeGamePlayed
}

// TicketPurchasedEvent represents a ticket entering the current round
type TicketPurchasedEvent struct {
	Ticket      entities.DrawingTicket
	PoolBalance int64
}

func (e TicketPurchasedEvent) Type() EventType {
	return EventTypeTicketPurchased
}

// DrawCompletedEvent represents a finished drawing; outstanding tickets are gone
type DrawCompletedEvent struct {
	Result entities.DrawResult
}

func (e DrawCompletedEvent) Type() EventType {
	return EventTypeDrawCompleted
}

// PoolAdjustedEvent represents a change to the pool value or schedule outside a draw
type PoolAdjustedEvent struct {
	PoolBefore int64
	PoolAfter  int64
	NextDrawAt time.Time
}

func (e PoolAdjustedEvent) Type() EventType {
	return EventTypePoolAdjusted
}

// VoteCastEvent represents a member's current vote
type VoteCastEvent struct {
	MemberID string
	Option   string
}

func (e VoteCastEvent) Type() EventType {
	return EventTypeVoteCast
}

// PollResetEvent represents all votes being cleared, with the options in force afterwards
type PollResetEvent struct {
	Options       []string
	NextResetAt   time.Time
	OptionsChange bool
}

func (e PollResetEvent) Type() EventType {
	return EventTypePollReset
}

// PrizeChangedEvent represents a new first place prize amount
type PrizeChangedEvent struct {
	Amount int64
}

func (e PrizeChangedEvent) Type() EventType {
	return EventTypePrizeChanged
}
