package services

import (
	"math"

	"prediction-service/config"
)

// MarketLine is one betting line of one market: over/under probabilities
// (as percentages, one decimal) and their fair decimal odds (two decimals).
// A fair odd is absent when its probability is zero.
type MarketLine struct {
	Line     float64  `json:"line"`
	Over     float64  `json:"over"`
	Under    float64  `json:"under"`
	OverOdd  *float64 `json:"overOdd"`
	UnderOdd *float64 `json:"underOdd"`
}

// MarketPrediction is one market's expected total and its line table
type MarketPrediction struct {
	Market        string       `json:"market"`
	ExpectedTotal float64      `json:"expectedTotal"`
	Lines         []MarketLine `json:"lines"`
}

// PredictMarkets combines the home and away aggregates into a line table
// per configured market, modelling each market total as Poisson-distributed.
// Markets whose expected total cannot be computed are omitted, never
// reported with a placeholder. Pure: identical inputs yield identical output.
func PredictMarkets(home, away *TeamAggregate, markets []config.Market) []MarketPrediction {
	predictions := make([]MarketPrediction, 0, len(markets))
	for _, m := range markets {
		et := marketExpectedTotal(m.Name, home, away)
		if et == nil {
			continue
		}

		lines := make([]MarketLine, 0, len(m.Lines))
		for _, line := range m.Lines {
			lines = append(lines, predictLine(*et, line))
		}
		predictions = append(predictions, MarketPrediction{
			Market:        m.Name,
			ExpectedTotal: *et,
			Lines:         lines,
		})
	}
	return predictions
}

// marketExpectedTotal maps a market name to its expected total. The cards
// market combines the yellow and red card totals; the rest bind to a single
// metric. Unknown market names yield nil.
func marketExpectedTotal(market string, home, away *TeamAggregate) *float64 {
	switch market {
	case "goals":
		return expectedTotal(home.Goals, away.Goals)
	case "corners":
		return expectedTotal(home.Corners, away.Corners)
	case "shots":
		return expectedTotal(home.Shots, away.Shots)
	case "shots_on_target":
		return expectedTotal(home.ShotsOnTarget, away.ShotsOnTarget)
	case "cards":
		yellow := expectedTotal(home.YellowCards, away.YellowCards)
		red := expectedTotal(home.RedCards, away.RedCards)
		if yellow == nil || red == nil {
			return nil
		}
		total := *yellow + *red
		return &total
	default:
		return nil
	}
}

// expectedTotal is the symmetric-average estimator: each side's expected
// output is the mean of its own rate and the opponent's conceding rate, and
// the match total is the sum of both sides. Nil when any contributing
// average is nil, so partial data never degrades to a biased estimate.
func expectedTotal(home, away PairAverage) *float64 {
	if home.ForAvg == nil || home.AgainstAvg == nil || away.ForAvg == nil || away.AgainstAvg == nil {
		return nil
	}
	homeComponent := (*home.ForAvg + *away.AgainstAvg) / 2
	awayComponent := (*away.ForAvg + *home.AgainstAvg) / 2
	total := homeComponent + awayComponent
	return &total
}

// predictLine computes one line's over/under probabilities and fair odds.
// Rounding here is presentation only and never feeds back into computation.
func predictLine(lambda, line float64) MarketLine {
	over, under := overUnder(lambda, line)
	return MarketLine{
		Line:     line,
		Over:     roundPercent(over),
		Under:    roundPercent(under),
		OverOdd:  fairOdd(over),
		UnderOdd: fairOdd(under),
	}
}

// fairOdd is the break-even decimal odd 1/p, absent for zero probability.
func fairOdd(p float64) *float64 {
	if p <= 0 {
		return nil
	}
	odd := math.Round(100/p) / 100
	return &odd
}

// roundPercent renders a probability as a percentage with one decimal.
func roundPercent(p float64) float64 {
	return math.Round(p*1000) / 10
}
