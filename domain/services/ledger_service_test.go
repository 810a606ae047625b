package services

import (
	"math"
	"testing"

	"clubledger/domain/entities"
	"clubledger/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_ApplyDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		startBalance    int64
		amount          int64
		expectedBalance int64
		expectedApplied int64
	}{
		{name: "credit", startBalance: 100, amount: 50, expectedBalance: 150, expectedApplied: 50},
		{name: "debit within balance", startBalance: 100, amount: -40, expectedBalance: 60, expectedApplied: -40},
		{name: "debit to exactly zero", startBalance: 100, amount: -100, expectedBalance: 0, expectedApplied: -100},
		{name: "debit clamped at zero", startBalance: 30, amount: -100, expectedBalance: 0, expectedApplied: -30},
		{name: "debit from zero", startBalance: 0, amount: -10, expectedBalance: 0, expectedApplied: 0},
		{name: "zero amount", startBalance: 100, amount: 0, expectedBalance: 100, expectedApplied: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger, _, publisher := newTestLedger()
			member := createTestMember("m1", tt.startBalance)

			entry := ledger.ApplyDelta(member, tt.amount, "test")

			assert.Equal(t, tt.expectedBalance, member.Balance)
			assert.Equal(t, tt.startBalance, entry.BalanceBefore)
			assert.Equal(t, tt.expectedBalance, entry.BalanceAfter)

			require.Len(t, member.Transactions, 1)
			tx := member.Transactions[0]
			assert.Equal(t, tt.amount, tx.Amount, "requested amount is logged")
			assert.Equal(t, tt.expectedApplied, tx.Applied)
			assert.Equal(t, "test", tx.Reason)
			assert.Equal(t, testEpoch, tx.Timestamp)

			changes := publisher.OfType(events.EventTypeBalanceChange)
			require.Len(t, changes, 1)
			change := changes[0].(events.BalanceChangeEvent)
			assert.Equal(t, "m1", change.MemberID)
			assert.Equal(t, tt.expectedBalance, change.BalanceAfter)
		})
	}
}

func TestLedgerService_ApplyDelta_NeverNegative(t *testing.T) {
	t.Parallel()

	ledger, _, _ := newTestLedger()
	member := createTestMember("m1", 25)

	for _, amount := range []int64{-10, -50, 30, -1000, 7, -3, -4, 200, -199, -2} {
		ledger.ApplyDelta(member, amount, "sequence")
		assert.GreaterOrEqual(t, member.Balance, int64(0))
	}
	assert.Equal(t, member.Balance, entities.ReplayBalance(25, member.Transactions),
		"replaying applied amounts reproduces the balance")
}

func TestLedgerService_ApplyDelta_SaturatesAtCeiling(t *testing.T) {
	t.Parallel()

	ledger, _, _ := newTestLedger()
	member := createTestMember("m1", 1000)

	first := ledger.ApplyDelta(member, 1<<62, entities.ReasonAdminAdjustment)
	second := ledger.ApplyDelta(member, 1<<62, entities.ReasonAdminAdjustment)

	assert.Equal(t, entities.MaxAmount, first.BalanceAfter)
	assert.Equal(t, entities.MaxAmount, second.BalanceAfter)
	assert.Equal(t, entities.MaxAmount, member.Balance)
	assert.Equal(t, entities.MaxAmount-1000, first.Transaction.Applied)
	assert.Equal(t, int64(0), second.Transaction.Applied)
	assert.True(t, second.Transaction.WasClamped())

	ledger.ApplyDelta(member, math.MinInt64, entities.ReasonAdminAdjustment)
	assert.Equal(t, int64(0), member.Balance)
	assert.Equal(t, member.Balance, entities.ReplayBalance(1000, member.Transactions))
}

func TestLedgerService_ApplyDelta_RoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("unclamped round trip restores balance", func(t *testing.T) {
		t.Parallel()
		ledger, _, _ := newTestLedger()
		member := createTestMember("m1", 100)

		ledger.ApplyDelta(member, 40, "credit")
		ledger.ApplyDelta(member, -40, "debit")

		assert.Equal(t, int64(100), member.Balance)
	})

	t.Run("clamped round trip does not restore balance", func(t *testing.T) {
		t.Parallel()
		ledger, _, _ := newTestLedger()
		member := createTestMember("m1", 10)

		ledger.ApplyDelta(member, -40, "debit")
		ledger.ApplyDelta(member, 40, "credit")

		assert.Equal(t, int64(40), member.Balance)
		assert.True(t, member.Transactions[0].WasClamped())
		assert.False(t, member.Transactions[1].WasClamped())
	})
}

func TestLedgerService_ApplyDelta_UnlocksAchievements(t *testing.T) {
	t.Parallel()

	ledger, _, publisher := newTestLedger()
	member := createTestMember("m1", 1990)

	entry := ledger.ApplyDelta(member, 10, "bonus")

	require.Len(t, entry.Unlocked, 1)
	assert.Equal(t, entities.AchievementHighAchiever, entry.Unlocked[0].ID)
	assert.Equal(t, []entities.AchievementID{entities.AchievementHighAchiever}, member.Achievements)

	unlocks := publisher.OfType(events.EventTypeAchievementUnlocked)
	require.Len(t, unlocks, 1)
	assert.Equal(t, entities.AchievementHighAchiever, unlocks[0].(events.AchievementUnlockedEvent).AchievementID)

	// Staying above the threshold never unlocks again
	entry = ledger.ApplyDelta(member, 10, "bonus")
	assert.Empty(t, entry.Unlocked)
	assert.Len(t, member.Achievements, 1)
}

func TestRank(t *testing.T) {
	t.Parallel()

	a := createTestMember("a", 100)
	b := createTestMember("b", 300)
	c := createTestMember("c", 100)
	d := createTestMember("d", 50)
	members := []*entities.Member{a, b, c, d}

	assert.Equal(t, 1, Rank("b", members))
	assert.Equal(t, 2, Rank("a", members), "ties keep insertion order")
	assert.Equal(t, 3, Rank("c", members))
	assert.Equal(t, 4, Rank("d", members))
	assert.Equal(t, 0, Rank("missing", members))

	// Rank is pure
	assert.Equal(t, []*entities.Member{a, b, c, d}, members)
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()

	a := createTestMember("a", 10)
	b := createTestMember("b", 20)
	c := createTestMember("c", 20)
	members := []*entities.Member{a, b, c}

	board := Leaderboard(members)

	require.Len(t, board, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{board[0].ID, board[1].ID, board[2].ID})
	assert.Equal(t, "a", members[0].ID, "input slice is untouched")
}
