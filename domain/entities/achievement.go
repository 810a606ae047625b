package entities

// AchievementID identifies a badge
type AchievementID string

// AchievementKind selects how an achievement's threshold is checked
type AchievementKind string

const (
	// AchievementKindBalance unlocks when the balance reaches the threshold
	AchievementKindBalance AchievementKind = "balance"
	// AchievementKindStreak unlocks when the last threshold transactions are all positive
	AchievementKindStreak AchievementKind = "streak"
)

const (
	AchievementHighAchiever      AchievementID = "high-achiever"
	AchievementConsistentLearner AchievementID = "consistent-learner"
)

// Achievement is a static badge definition
type Achievement struct {
	ID          AchievementID   `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Kind        AchievementKind `json:"kind"`
	Threshold   int64           `json:"threshold"`
}

// Achievements is the badge catalog
var Achievements = []Achievement{
	{ID: AchievementHighAchiever, Name: "High Achiever", Description: "Reach 2000 points", Kind: AchievementKindBalance, Threshold: 2000},
	{ID: AchievementConsistentLearner, Name: "Consistent Learner", Description: "Complete 5 activities in a row", Kind: AchievementKindStreak, Threshold: 5},
}

// LookupAchievement finds an achievement in the catalog
func LookupAchievement(id AchievementID) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// IsSatisfiedBy checks the unlock condition against the member's current state.
// A streak needs at least Threshold transactions of history.
func (a Achievement) IsSatisfiedBy(m *Member) bool {
	switch a.Kind {
	case AchievementKindBalance:
		return m.Balance >= a.Threshold
	case AchievementKindStreak:
		if a.Threshold <= 0 || int64(len(m.Transactions)) < a.Threshold {
			return false
		}
		for _, tx := range m.RecentTransactions(int(a.Threshold)) {
			if !tx.IsPositive() {
				return false
			}
		}
		return true
	default:
		return false
	}
}
