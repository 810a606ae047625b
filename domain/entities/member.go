package entities

import (
	"time"
)

// Member represents a club member with their balance and activity ledger
type Member struct {
	ID           string
	Name         string
	Email        string
	Balance      int64
	Transactions []Transaction // insertion order is chronological
	Achievements []AchievementID
	LastPlayed   map[GameID]time.Time
	CreatedAt    time.Time
}

// NewMember creates a member holding the starting allowance
func NewMember(id, name, email string, startingBalance int64, now time.Time) *Member {
	if startingBalance < 0 {
		startingBalance = 0
	}
	return &Member{
		ID:         id,
		Name:       name,
		Email:      email,
		Balance:    startingBalance,
		LastPlayed: make(map[GameID]time.Time),
		CreatedAt:  now,
	}
}

// CanAfford checks if the member's balance covers an amount
func (m *Member) CanAfford(amount int64) bool {
	return m.Balance >= amount
}

// HasAchievement returns true if the achievement is already unlocked
func (m *Member) HasAchievement(id AchievementID) bool {
	for _, a := range m.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// LastPlayedAt returns when the member last played a game
func (m *Member) LastPlayedAt(id GameID) (time.Time, bool) {
	if m.LastPlayed == nil {
		return time.Time{}, false
	}
	t, ok := m.LastPlayed[id]
	return t, ok
}

// RecentTransactions returns the last n transactions, oldest first.
// Fewer are returned when the history is shorter.
func (m *Member) RecentTransactions(n int) []Transaction {
	if n <= 0 {
		return nil
	}
	if n > len(m.Transactions) {
		n = len(m.Transactions)
	}
	return m.Transactions[len(m.Transactions)-n:]
}

// Clone returns a deep copy safe to hand outside the engine
func (m *Member) Clone() *Member {
	c := *m
	c.Transactions = append([]Transaction(nil), m.Transactions...)
	c.Achievements = append([]AchievementID(nil), m.Achievements...)
	c.LastPlayed = make(map[GameID]time.Time, len(m.LastPlayed))
	for k, v := range m.LastPlayed {
		c.LastPlayed[k] = v
	}
	return &c
}
