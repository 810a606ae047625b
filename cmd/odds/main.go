// Standalone odds checker for the club's game table and drawing.
// Simulates plays with the same random source and payout rules the engine uses.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"clubledger/domain/entities"
	"clubledger/domain/services"
)

// gameReport summarizes a simulation of one game at a fixed stake
type gameReport struct {
	Game          entities.Game
	Stake         int64
	Trials        int
	Wins          int
	Pushes        int
	TotalPayout   int64
	ExpectedValue float64 // analytic, per play; chance games only
	ChiSquared    float64
}

func (r gameReport) WinRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trials)
}

func (r gameReport) MeanPayout() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.TotalPayout) / float64(r.Trials)
}

// expectedValue is the analytic mean balance change of one chance play
func expectedValue(game entities.Game, stake int64) float64 {
	p := game.WinProbability
	return p*float64(game.Payout(stake, true)) + (1-p)*float64(game.Payout(stake, false))
}

// analyzeGame plays the game trials times at the given stake
func analyzeGame(game entities.Game, stake int64, random entities.Random, trials int) gameReport {
	report := gameReport{
		Game:   game,
		Stake:  stake,
		Trials: trials,
	}
	chance := game.Kind == entities.KindChance
	if chance {
		report.ExpectedValue = expectedValue(game, stake)
	}

	for i := 0; i < trials; i++ {
		play := game.Play(random, stake)
		switch {
		case play.Won:
			report.Wins++
		case play.Hand != nil && play.Hand.Result == entities.RoundPush:
			report.Pushes++
		}
		report.TotalPayout += play.Payout
	}

	if chance && trials > 0 && game.WinProbability > 0 && game.WinProbability < 1 {
		expectedWins := float64(trials) * game.WinProbability
		expectedLosses := float64(trials) * (1 - game.WinProbability)
		report.ChiSquared = math.Pow(float64(report.Wins)-expectedWins, 2)/expectedWins +
			math.Pow(float64(trials-report.Wins)-expectedLosses, 2)/expectedLosses
	}
	return report
}

// codeSpace is the number of distinct drawing codes
func codeSpace() int64 {
	space := int64(1)
	for i := 0; i < entities.CodeLetters; i++ {
		space *= 26
	}
	for i := 0; i < entities.CodeDigits; i++ {
		space *= 10
	}
	return space
}

// drawingWinChance is the chance at least one of n distinct tickets matches
func drawingWinChance(tickets int64) float64 {
	if tickets <= 0 {
		return 0
	}
	space := codeSpace()
	if tickets >= space {
		return 1
	}
	return float64(tickets) / float64(space)
}

func main() {
	trials := flag.Int("trials", 100000, "plays simulated per game")
	tickets := flag.Int64("tickets", 10, "tickets in the drawing round")
	flag.Parse()

	if *trials <= 0 {
		fmt.Fprintln(os.Stderr, "trials must be positive")
		os.Exit(2)
	}

	random := services.NewCryptoRandom()

	fmt.Println("=== Club Game Odds ===")
	for _, game := range entities.Games {
		report := analyzeGame(game, game.MaxStake, random, *trials)
		if game.Kind != entities.KindChance {
			fmt.Printf("%-15s stake %4d | wins %.4f | pushes %.4f | simulated %+.2f %s/play\n",
				game.Name, report.Stake, report.WinRate(), float64(report.Pushes)/float64(report.Trials),
				report.MeanPayout(), services.CurrencyName)
			continue
		}
		deviation := report.WinRate() - game.WinProbability

		status := "PASS"
		// 6.63 is the 99% critical value for one degree of freedom
		if report.ChiSquared > 6.63 {
			status = "FAIL"
		}

		fmt.Printf("%-15s stake %4d | p %.2f | actual %.4f (%+.4f) | chi2 %6.2f %s\n",
			game.Name, report.Stake, game.WinProbability, report.WinRate(), deviation, report.ChiSquared, status)
		fmt.Printf("%-15s expected %+.2f %s/play | simulated %+.2f\n",
			"", report.ExpectedValue, services.CurrencyName, report.MeanPayout())
	}

	fmt.Println("\n=== Drawing Odds ===")
	fmt.Printf("Code space: %d\n", codeSpace())
	fmt.Printf("Chance any of %d tickets wins a round: %.6f%%\n", *tickets, drawingWinChance(*tickets)*100)
}
