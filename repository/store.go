package repository

import (
	"context"
	"fmt"

	"clubledger/database"
	"clubledger/domain/entities"
	"clubledger/events"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// Store loads the club at startup and applies committed mutations afterwards
type Store struct {
	db *database.DB
}

// NewStore creates a new store
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// LoadState reads the whole club in one transaction
func (s *Store) LoadState(ctx context.Context) (*entities.ClubState, error) {
	state := entities.NewClubState()

	err := s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		members, err := newMemberRepositoryWithTx(tx).GetAll(ctx)
		if err != nil {
			return err
		}
		for _, m := range members {
			state.AddMember(m)
		}

		settings, err := newClubStateRepositoryWithTx(tx).Get(ctx)
		if err != nil {
			return err
		}
		state.Pool.Balance = settings.PoolBalance
		state.Pool.NextDrawAt = settings.NextDrawAt
		state.Poll.Options = settings.PollOptions
		state.Poll.NextResetAt = settings.NextPollResetAt
		state.FirstPlacePrize = settings.FirstPlacePrize

		drawings := newDrawingRepositoryWithTx(tx)
		if state.Pool.Tickets, err = drawings.GetTickets(ctx); err != nil {
			return err
		}
		if state.LastDraw, err = drawings.GetLatestResult(ctx); err != nil {
			return err
		}

		votes, err := newPollRepositoryWithTx(tx).GetVotes(ctx)
		if err != nil {
			return err
		}
		state.Poll.Votes = votes
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load club state: %w", err)
	}

	log.WithFields(log.Fields{
		"members": len(state.Members),
		"tickets": len(state.Pool.Tickets),
		"votes":   len(state.Poll.Votes),
	}).Info("Club state loaded")
	return state, nil
}

// OnMutation writes one committed event in its own transaction
func (s *Store) OnMutation(ctx context.Context, event events.Event) error {
	return s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		return applyEvent(ctx, tx, event)
	})
}

func applyEvent(ctx context.Context, tx queryable, event events.Event) error {
	members := newMemberRepositoryWithTx(tx)
	settings := newClubStateRepositoryWithTx(tx)
	drawings := newDrawingRepositoryWithTx(tx)
	polls := newPollRepositoryWithTx(tx)

	switch e := event.(type) {
	case events.MemberCreatedEvent:
		return members.Create(ctx, e.MemberID, e.Name, e.Email, e.Balance, e.CreatedAt)

	case events.MemberDeletedEvent:
		return members.Delete(ctx, e.MemberID)

	case events.BalanceChangeEvent:
		return members.RecordTransaction(ctx, e.MemberID, e.BalanceAfter, e.Transaction)

	case events.AchievementUnlockedEvent:
		return members.UnlockAchievement(ctx, e.MemberID, e.AchievementID, e.UnlockedAt)

	case events.GamePlayedEvent:
		return members.RecordGamePlay(ctx, e.MemberID, e.GameID, e.PlayedAt)

	case events.TicketPurchasedEvent:
		if err := drawings.AddTicket(ctx, e.Ticket); err != nil {
			return err
		}
		return settings.UpdatePoolBalance(ctx, e.PoolBalance)

	case events.DrawCompletedEvent:
		if err := drawings.ClearTickets(ctx); err != nil {
			return err
		}
		if err := drawings.RecordResult(ctx, e.Result); err != nil {
			return err
		}
		return settings.UpdatePool(ctx, e.Result.PoolAfter, e.Result.NextDrawAt)

	case events.PoolAdjustedEvent:
		return settings.UpdatePool(ctx, e.PoolAfter, e.NextDrawAt)

	case events.VoteCastEvent:
		return polls.CastVote(ctx, e.MemberID, e.Option)

	case events.PollResetEvent:
		if err := polls.ClearVotes(ctx); err != nil {
			return err
		}
		return settings.UpdatePoll(ctx, e.Options, e.NextResetAt)

	case events.PrizeChangedEvent:
		return settings.UpdateFirstPlacePrize(ctx, e.Amount)

	default:
		log.WithField("eventType", event.Type()).Warn("Store ignoring unknown event")
		return nil
	}
}
