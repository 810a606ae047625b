package entities

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(ranks ...string) []Card {
	hand := make([]Card, len(ranks))
	for i, r := range ranks {
		hand[i] = Card{Rank: r, Suit: "♠"}
	}
	return hand
}

func TestHandValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hand     []string
		expected int
	}{
		{hand: []string{"A", "K"}, expected: 21},
		{hand: []string{"A", "A"}, expected: 12},
		{hand: []string{"A", "A", "9"}, expected: 21},
		{hand: []string{"A", "6"}, expected: 17},
		{hand: []string{"K", "Q", "5"}, expected: 25},
		{hand: []string{"10", "J"}, expected: 20},
		{hand: []string{"2", "3", "4", "A", "A"}, expected: 21},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, HandValue(cards(tt.hand...)), tt.hand)
	}
}

func TestPlayBlackjackDeck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		deck        []string
		expected    RoundResult
		playerCards int
		dealerCards int
		playerValue int
		dealerValue int
	}{
		{name: "higher hand wins", deck: []string{"10", "9", "10", "7"}, expected: RoundWin, playerCards: 2, dealerCards: 2, playerValue: 19, dealerValue: 17},
		{name: "player busts before the dealer draws", deck: []string{"10", "6", "9", "9", "K"}, expected: RoundLoss, playerCards: 3, dealerCards: 2, playerValue: 26, dealerValue: 18},
		{name: "equal hands push", deck: []string{"10", "8", "9", "9"}, expected: RoundPush, playerCards: 2, dealerCards: 2, playerValue: 18, dealerValue: 18},
		{name: "dealer busts", deck: []string{"10", "7", "10", "6", "10"}, expected: RoundWin, playerCards: 2, dealerCards: 3, playerValue: 17, dealerValue: 26},
		{name: "dealer higher", deck: []string{"10", "7", "10", "9"}, expected: RoundLoss, playerCards: 2, dealerCards: 2, playerValue: 17, dealerValue: 19},
		{name: "soft seventeen stands", deck: []string{"A", "6", "10", "10"}, expected: RoundLoss, playerCards: 2, dealerCards: 2, playerValue: 17, dealerValue: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			round := PlayBlackjackDeck(cards(tt.deck...))

			assert.Equal(t, tt.expected, round.Result)
			assert.Len(t, round.Player, tt.playerCards)
			assert.Len(t, round.Dealer, tt.dealerCards)
			assert.Equal(t, tt.playerValue, round.PlayerValue)
			assert.Equal(t, tt.dealerValue, round.DealerValue)
		})
	}
}

func TestShuffleDeck(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	require.Len(t, deck, 52)

	ShuffleDeck(deck, rand.New(rand.NewPCG(3, 4)))

	seen := make(map[Card]bool, len(deck))
	for _, c := range deck {
		seen[c] = true
	}
	assert.Len(t, seen, 52)
	assert.NotEqual(t, NewDeck(), deck)
}

func TestPlayBlackjack(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 200; i++ {
		round := PlayBlackjack(rng)
		assert.GreaterOrEqual(t, round.PlayerValue, StandValue)
		assert.Contains(t, []RoundResult{RoundWin, RoundLoss, RoundPush}, round.Result)
		if round.PlayerValue > BlackjackLimit {
			assert.Equal(t, RoundLoss, round.Result)
			assert.Len(t, round.Dealer, 2)
		}
	}
}
