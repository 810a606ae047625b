package application

import (
	"context"

	"clubledger/domain/entities"
	"clubledger/domain/services"
	"clubledger/events"

	log "github.com/sirupsen/logrus"
)

// Admin operations. Callers are responsible for checking the session is the administrator.

func amountOutOfRange() error {
	return entities.Reject(entities.ErrInvalidAmount, "Amount must be between -%d and %d.", entities.MaxAmount, entities.MaxAmount)
}

// adjustMember applies a ledger change to one member inside a unit of work
func (c *Club) adjustMember(memberID string, delta func(m *entities.Member) int64, reason string) (*entities.Member, error) {
	uow, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	member, ok := uow.state.Member(memberID)
	if !ok {
		return nil, memberNotFound(memberID)
	}
	amount := delta(member)
	uow.ledger.ApplyDelta(member, amount, reason)
	snapshot := member.Clone()
	uow.Commit()

	log.WithFields(log.Fields{
		"memberID": memberID,
		"amount":   amount,
		"reason":   reason,
		"balance":  snapshot.Balance,
	}).Info("Admin balance change")
	return snapshot, nil
}

// AdjustBalance adds a signed amount to a member's balance, floored at zero
func (c *Club) AdjustBalance(memberID string, amount int64) (*entities.Member, error) {
	if amount == 0 {
		return nil, entities.Reject(entities.ErrInvalidAmount, "Adjustment amount cannot be zero.")
	}
	if !entities.ValidAmount(amount) {
		return nil, amountOutOfRange()
	}
	return c.adjustMember(memberID, func(*entities.Member) int64 { return amount }, entities.ReasonAdminAdjustment)
}

// ResetBalance returns a member to the starting balance
func (c *Club) ResetBalance(memberID string) (*entities.Member, error) {
	return c.adjustMember(memberID, func(m *entities.Member) int64 {
		return c.config.StartingBalance - m.Balance
	}, entities.ReasonAdminReset)
}

// GrantBonus credits a member. A non-positive amount grants the starting balance.
func (c *Club) GrantBonus(memberID string, amount int64) (*entities.Member, error) {
	if !entities.ValidAmount(amount) {
		return nil, amountOutOfRange()
	}
	if amount <= 0 {
		amount = c.config.StartingBalance
	}
	return c.adjustMember(memberID, func(*entities.Member) int64 { return amount }, entities.ReasonAdminBonus)
}

// DeleteMember removes a member with their outstanding tickets and vote.
// The credential is forgotten first so a store failure leaves the member untouched.
func (c *Club) DeleteMember(ctx context.Context, memberID string) error {
	if _, err := c.Member(memberID); err != nil {
		return err
	}
	if err := c.identity.Forget(ctx, memberID); err != nil {
		return c.collaboratorError("forget credential", err)
	}

	uow, err := c.begin()
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if !uow.state.RemoveMember(memberID) {
		return memberNotFound(memberID)
	}
	tickets := uow.state.Pool.RemoveTicketsFor(memberID)
	uow.poll.RemoveVoter(&uow.state.Poll, memberID)
	_ = uow.EventBus().Publish(events.MemberDeletedEvent{MemberID: memberID})
	uow.Commit()

	log.WithFields(log.Fields{
		"memberID":       memberID,
		"removedTickets": tickets,
	}).Info("Member deleted")
	return nil
}

// ForceDraw runs the drawing now and reschedules the next one
func (c *Club) ForceDraw() (*entities.DrawResult, error) {
	uow, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	result := uow.drawing.Draw(uow.state)
	uow.Commit()

	c.drawWorker.Rearm()
	return &result, nil
}

// AdjustPool adds a signed amount to the pool, floored at the base value
func (c *Club) AdjustPool(amount int64) (int64, error) {
	if !entities.ValidAmount(amount) {
		return 0, amountOutOfRange()
	}

	uow, err := c.begin()
	if err != nil {
		return 0, err
	}
	defer uow.Rollback()

	after := uow.drawing.AdjustPool(&uow.state.Pool, amount)
	uow.Commit()
	return after, nil
}

// SetPollOptions replaces the poll options and clears every vote
func (c *Club) SetPollOptions(options []string) error {
	uow, err := c.begin()
	if err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.poll.SetOptions(&uow.state.Poll, options); err != nil {
		return err
	}
	uow.Commit()

	c.pollWorker.Rearm()
	return nil
}

// SetFirstPlacePrize changes the prize awarded to the top ranked member
func (c *Club) SetFirstPlacePrize(amount int64) error {
	if amount <= 0 {
		return entities.Reject(entities.ErrInvalidAmount, "Prize must be positive.")
	}
	if !entities.ValidAmount(amount) {
		return amountOutOfRange()
	}

	uow, err := c.begin()
	if err != nil {
		return err
	}
	defer uow.Rollback()

	uow.state.FirstPlacePrize = amount
	_ = uow.EventBus().Publish(events.PrizeChangedEvent{Amount: amount})
	uow.Commit()

	log.WithField("amount", amount).Info("First place prize changed")
	return nil
}

// FirstPlacePrize returns the current prize amount
func (c *Club) FirstPlacePrize() (int64, error) {
	var prize int64
	err := c.read(func(state *entities.ClubState) error {
		prize = state.FirstPlacePrize
		return nil
	})
	return prize, err
}

// AwardFirstPlacePrize credits the prize to the member currently ranked first
func (c *Club) AwardFirstPlacePrize() (*entities.Member, error) {
	uow, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer uow.Rollback()

	board := services.Leaderboard(uow.state.Members)
	if len(board) == 0 {
		return nil, entities.Reject(entities.ErrMemberNotFound, "There are no members to award.")
	}
	winner := board[0]
	prize := uow.state.FirstPlacePrize
	uow.ledger.ApplyDelta(winner, prize, entities.ReasonFirstPlacePrize)
	snapshot := winner.Clone()
	uow.Commit()

	log.WithFields(log.Fields{
		"memberID": snapshot.ID,
		"prize":    prize,
	}).Info("First place prize awarded")
	return snapshot, nil
}
