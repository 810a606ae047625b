package services

import (
	"clubledger/domain/entities"
)

// AchievementEvaluator unlocks badges after ledger mutations
type AchievementEvaluator struct {
	catalog []entities.Achievement
}

// NewAchievementEvaluator creates an evaluator over the given catalog
func NewAchievementEvaluator(catalog []entities.Achievement) *AchievementEvaluator {
	return &AchievementEvaluator{catalog: catalog}
}

// Evaluate appends every newly satisfied achievement to the member and returns them.
// Already unlocked ids are skipped, so repeated calls never duplicate.
func (e *AchievementEvaluator) Evaluate(member *entities.Member) []entities.Achievement {
	var unlocked []entities.Achievement
	for _, a := range e.catalog {
		if member.HasAchievement(a.ID) {
			continue
		}
		if a.IsSatisfiedBy(member) {
			member.Achievements = append(member.Achievements, a.ID)
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}
