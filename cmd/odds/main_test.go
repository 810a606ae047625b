package main

import (
	"math/rand/v2"
	"testing"

	"clubledger/domain/entities"
	"clubledger/domain/testhelpers"

	"github.com/stretchr/testify/assert"
)

func TestExpectedValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		game     entities.GameID
		stake    int64
		expected float64
	}{
		{game: entities.GamePoker, stake: 100, expected: 0.5*100 - 0.5*50},
		{game: entities.GameSportsBetting, stake: 90, expected: 0.67*90 - 0.33*30},
		{game: entities.GameCardGames, stake: 100, expected: 0.8*200 - 0.2*100},
		{game: entities.GameRoulette, stake: 100, expected: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.game), func(t *testing.T) {
			t.Parallel()
			game, ok := entities.LookupGame(tt.game)
			assert.True(t, ok)
			assert.InDelta(t, tt.expected, expectedValue(game, tt.stake), 1e-9)
		})
	}
}

func TestAnalyzeGame(t *testing.T) {
	t.Parallel()

	game, _ := entities.LookupGame(entities.GameRoulette)
	random := testhelpers.NewScriptedRandom(0.1, 0.9, 0.2, 0.8)

	report := analyzeGame(game, 50, random, 4)

	assert.Equal(t, 2, report.Wins)
	assert.Equal(t, int64(0), report.TotalPayout)
	assert.InDelta(t, 0.5, report.WinRate(), 1e-9)
	assert.InDelta(t, 0.0, report.ChiSquared, 1e-9)
	assert.InDelta(t, 0.0, report.MeanPayout(), 1e-9)
}

func TestAnalyzeGame_NoTrials(t *testing.T) {
	t.Parallel()

	game, _ := entities.LookupGame(entities.GamePoker)
	report := analyzeGame(game, 10, testhelpers.NewScriptedRandom(), 0)

	assert.Zero(t, report.WinRate())
	assert.Zero(t, report.MeanPayout())
	assert.Zero(t, report.ChiSquared)
}

func TestAnalyzeGame_Blackjack(t *testing.T) {
	t.Parallel()

	game, _ := entities.LookupGame(entities.GameBlackjack)
	report := analyzeGame(game, 20, rand.New(rand.NewPCG(11, 12)), 500)

	assert.Zero(t, report.ExpectedValue)
	assert.Zero(t, report.ChiSquared)
	assert.LessOrEqual(t, report.Wins+report.Pushes, report.Trials)
	assert.Greater(t, report.Wins, 0)
	// Every play settles at +stake, -stake or zero
	losses := report.Trials - report.Wins - report.Pushes
	assert.Equal(t, int64(20*(report.Wins-losses)), report.TotalPayout)
}

func TestDrawingWinChance(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(6760000), codeSpace())
	assert.Zero(t, drawingWinChance(0))
	assert.InDelta(t, 1.0/6760000, drawingWinChance(1), 1e-15)
	assert.Equal(t, 1.0, drawingWinChance(codeSpace()+1))
}
