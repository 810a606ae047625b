package entities

import (
	"fmt"
	"time"
)

// GameID identifies a mini-game
type GameID string

// GameKind selects how a play is decided
type GameKind string

const (
	// KindChance wins when a uniform draw in [0,1) falls below WinProbability
	KindChance GameKind = "chance"
	// KindBlackjack deals a full hand against the dealer; a tie returns the stake
	KindBlackjack GameKind = "blackjack"
)

// Game is a static game definition
type Game struct {
	ID             GameID        `json:"id"`
	Name           string        `json:"name"`
	Kind           GameKind      `json:"kind"`
	Cooldown       time.Duration `json:"cooldown"`
	MinStake       int64         `json:"min_stake"`
	MaxStake       int64         `json:"max_stake"`
	WinProbability float64       `json:"win_probability"`
	WinMultiplier  int64         `json:"win_multiplier"`  // payout on win, as a multiple of stake
	LossMultiplier Fraction      `json:"loss_multiplier"` // share of stake forfeited on loss
}

// Fraction is an exact ratio applied with integer floor division
type Fraction struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// Of applies the fraction to an amount, rounding toward zero
func (f Fraction) Of(amount int64) int64 {
	if f.Den == 0 {
		return 0
	}
	return amount * f.Num / f.Den
}

const (
	GamePoker         GameID = "poker"
	GameSportsBetting GameID = "sports-betting"
	GameCardGames     GameID = "card-games"
	GameRoulette      GameID = "roulette"
	GameBlackjack     GameID = "blackjack"
)

// Games is the canonical payout table
var Games = []Game{
	{ID: GamePoker, Name: "Poker", Kind: KindChance, Cooldown: 5 * time.Minute, MinStake: 10, MaxStake: 100, WinProbability: 0.50, WinMultiplier: 1, LossMultiplier: Fraction{1, 2}},
	{ID: GameSportsBetting, Name: "Sports Betting", Kind: KindChance, Cooldown: 10 * time.Minute, MinStake: 20, MaxStake: 200, WinProbability: 0.67, WinMultiplier: 1, LossMultiplier: Fraction{1, 3}},
	{ID: GameCardGames, Name: "Card Games", Kind: KindChance, Cooldown: 15 * time.Minute, MinStake: 50, MaxStake: 500, WinProbability: 0.80, WinMultiplier: 2, LossMultiplier: Fraction{1, 1}},
	{ID: GameRoulette, Name: "Roulette", Kind: KindChance, Cooldown: 2 * time.Minute, MinStake: 10, MaxStake: 250, WinProbability: 0.50, WinMultiplier: 1, LossMultiplier: Fraction{1, 1}},
	{ID: GameBlackjack, Name: "Blackjack", Kind: KindBlackjack, Cooldown: 5 * time.Minute, MinStake: 10, MaxStake: 200, WinMultiplier: 1, LossMultiplier: Fraction{1, 1}},
}

// LookupGame finds a game in the canonical table
func LookupGame(id GameID) (Game, bool) {
	for _, g := range Games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// ValidStake checks the stake against the game bounds
func (g Game) ValidStake(stake int64) bool {
	return stake >= g.MinStake && stake <= g.MaxStake
}

// Wins reports whether a uniform roll is a win for this game
func (g Game) Wins(roll float64) bool {
	return roll < g.WinProbability
}

// Payout returns the signed balance change for a resolved play
func (g Game) Payout(stake int64, won bool) int64 {
	if won {
		return stake * g.WinMultiplier
	}
	return -g.LossMultiplier.Of(stake)
}

// GamePlay is a decided play before it reaches the ledger
type GamePlay struct {
	Won    bool
	Payout int64
	Hand   *BlackjackRound
}

// Play decides one play at the given stake
func (g Game) Play(random Random, stake int64) GamePlay {
	if g.Kind == KindBlackjack {
		round := PlayBlackjack(random)
		play := GamePlay{Hand: &round}
		switch round.Result {
		case RoundWin:
			play.Won = true
			play.Payout = g.Payout(stake, true)
		case RoundLoss:
			play.Payout = g.Payout(stake, false)
		}
		return play
	}

	won := g.Wins(random.Float64())
	return GamePlay{Won: won, Payout: g.Payout(stake, won)}
}

// Reason is the ledger reason recorded for plays of this game
func (g Game) Reason() string {
	return fmt.Sprintf("%s game", g.Name)
}

// CooldownRemaining returns how long until the game can be played again
func (g Game) CooldownRemaining(lastPlayed, now time.Time) time.Duration {
	remaining := g.Cooldown - now.Sub(lastPlayed)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BetOutcome is the result of an accepted play
type BetOutcome struct {
	GameID     GameID `json:"game_id"`
	Stake      int64  `json:"stake"`
	Won        bool   `json:"won"`
	Payout     int64  `json:"payout"`
	NewBalance int64  `json:"new_balance"`
	Message    string `json:"message"`

	Hand *BlackjackRound `json:"hand,omitempty"`
}
