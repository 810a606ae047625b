package testutil

import (
	"time"

	"clubledger/domain/entities"
	"clubledger/events"
)

// CreateTestMemberEvent returns a signup event for a member
func CreateTestMemberEvent(id string, balance int64, createdAt time.Time) events.MemberCreatedEvent {
	return events.MemberCreatedEvent{
		MemberID:  id,
		Name:      "Member " + id,
		Email:     id + "@example.com",
		Balance:   balance,
		CreatedAt: createdAt,
	}
}

// CreateTestBalanceChange returns a balance change of amount from before
func CreateTestBalanceChange(id string, before, amount int64, reason string, at time.Time) events.BalanceChangeEvent {
	after := before + amount
	applied := amount
	if after < 0 {
		after = 0
		applied = -before
	}
	return events.BalanceChangeEvent{
		MemberID:      id,
		BalanceBefore: before,
		BalanceAfter:  after,
		Transaction: entities.Transaction{
			Amount:    amount,
			Applied:   applied,
			Reason:    reason,
			Timestamp: at,
		},
	}
}
