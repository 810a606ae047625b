package entities

import "strconv"

// Blackjack house rules. Both hands draw until they reach StandValue.
const (
	BlackjackLimit = 21
	StandValue     = 17
)

var (
	cardSuits = []string{"♠", "♥", "♦", "♣"}
	cardRanks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// Card is one playing card
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

// value counts an ace as 11; HandValue demotes aces as needed
func (c Card) value() int {
	switch c.Rank {
	case "A":
		return 11
	case "J", "Q", "K":
		return 10
	}
	v, _ := strconv.Atoi(c.Rank)
	return v
}

// NewDeck returns a fresh 52 card deck in suit order
func NewDeck() []Card {
	deck := make([]Card, 0, len(cardSuits)*len(cardRanks))
	for _, suit := range cardSuits {
		for _, rank := range cardRanks {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}

// ShuffleDeck shuffles in place with Fisher-Yates
func ShuffleDeck(deck []Card, random Random) {
	for i := len(deck) - 1; i > 0; i-- {
		j := random.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// HandValue scores a hand, counting aces as 1 when 11 would bust
func HandValue(hand []Card) int {
	total, aces := 0, 0
	for _, c := range hand {
		if c.Rank == "A" {
			aces++
		}
		total += c.value()
	}
	for total > BlackjackLimit && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// RoundResult is how a blackjack round ended for the player
type RoundResult string

const (
	RoundWin  RoundResult = "win"
	RoundLoss RoundResult = "loss"
	RoundPush RoundResult = "push"
)

// BlackjackRound is a completed hand against the dealer
type BlackjackRound struct {
	Player      []Card      `json:"player"`
	Dealer      []Card      `json:"dealer"`
	PlayerValue int         `json:"player_value"`
	DealerValue int         `json:"dealer_value"`
	Result      RoundResult `json:"result"`
}

// PlayBlackjack shuffles a fresh deck and plays one round to completion
func PlayBlackjack(random Random) BlackjackRound {
	deck := NewDeck()
	ShuffleDeck(deck, random)
	return PlayBlackjackDeck(deck)
}

// PlayBlackjackDeck plays one round dealing from the top of deck.
// The player takes two cards, then the dealer two; the player draws to
// StandValue and busts out before the dealer plays.
func PlayBlackjackDeck(deck []Card) BlackjackRound {
	next := 0
	draw := func() Card {
		c := deck[next]
		next++
		return c
	}

	round := BlackjackRound{}
	round.Player = []Card{draw(), draw()}
	round.Dealer = []Card{draw(), draw()}

	for HandValue(round.Player) < StandValue {
		round.Player = append(round.Player, draw())
	}
	round.PlayerValue = HandValue(round.Player)
	round.DealerValue = HandValue(round.Dealer)

	if round.PlayerValue > BlackjackLimit {
		round.Result = RoundLoss
		return round
	}

	for HandValue(round.Dealer) < StandValue {
		round.Dealer = append(round.Dealer, draw())
	}
	round.DealerValue = HandValue(round.Dealer)

	switch {
	case round.DealerValue > BlackjackLimit || round.PlayerValue > round.DealerValue:
		round.Result = RoundWin
	case round.DealerValue > round.PlayerValue:
		round.Result = RoundLoss
	default:
		round.Result = RoundPush
	}
	return round
}
