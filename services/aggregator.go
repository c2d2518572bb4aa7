package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"prediction-service/apifootball"
	"prediction-service/logger"
	"prediction-service/pkg/common"
)

// Provider statistic labels consumed by the aggregator. Matching is
// case-insensitive exact match on the label text.
const (
	labelTotalShots  = "Total Shots"
	labelShotsOnGoal = "Shots on Goal"
	labelCorners     = "Corner Kicks"
	labelYellowCards = "Yellow Cards"
	labelRedCards    = "Red Cards"
)

// PairCount is one metric's for/against counters in a single match.
// Nil means the provider published no value, which is distinct from zero.
type PairCount struct {
	For     *int `json:"for"`
	Against *int `json:"against"`
}

// TeamMatchRecord is one team's view of one past fixture. Goals come from
// the fixture record re-oriented by IsHome; the five other counters come
// from the statistics record, which may be entirely absent.
type TeamMatchRecord struct {
	FixtureID  int  `json:"fixtureId"`
	IsHome     bool `json:"isHome"`
	OpponentID int  `json:"opponentId"`

	GoalsFor     *int `json:"goalsFor"`
	GoalsAgainst *int `json:"goalsAgainst"`

	Shots         PairCount `json:"shots"`
	ShotsOnTarget PairCount `json:"shotsOnTarget"`
	Corners       PairCount `json:"corners"`
	YellowCards   PairCount `json:"yellowCards"`
	RedCards      PairCount `json:"redCards"`
}

// PairAverage is a metric's averaged for/against rates across a team's
// recent matches. Nil when no underlying match supplied a value: an
// average over zero samples is never zero.
type PairAverage struct {
	ForAvg     *float64 `json:"forAvg"`
	AgainstAvg *float64 `json:"againstAvg"`
}

// TeamAggregate is a team's rolling per-match profile over its last N fixtures
type TeamAggregate struct {
	TeamID     int `json:"teamId"`
	MatchCount int `json:"matchCount"`

	Goals         PairAverage `json:"goals"`
	Shots         PairAverage `json:"shots"`
	ShotsOnTarget PairAverage `json:"shotsOnTarget"`
	Corners       PairAverage `json:"corners"`
	YellowCards   PairAverage `json:"yellowCards"`
	RedCards      PairAverage `json:"redCards"`
}

// Aggregator builds team aggregates from provider fixture and statistics data
type Aggregator struct {
	api         *apifootball.Client
	statsFanout int
}

// NewAggregator creates an aggregator. statsFanout bounds the number of
// concurrent per-fixture statistics fetches.
func NewAggregator(api *apifootball.Client, statsFanout int) *Aggregator {
	if statsFanout < 1 {
		statsFanout = 1
	}
	return &Aggregator{api: api, statsFanout: statsFanout}
}

// Aggregate fetches a team's last N fixtures and their statistics and
// returns the averaged profile plus the underlying per-match records.
//
// A failed or empty statistics fetch nils that match's counters but keeps
// the match in the set; a failed fixture-list fetch fails the whole call.
func (a *Aggregator) Aggregate(ctx context.Context, teamID, leagueID, season, lastN int) (*TeamAggregate, []TeamMatchRecord, error) {
	if lastN < 1 || lastN > 20 {
		return nil, nil, fmt.Errorf("%w: lastN must be between 1 and 20, got %d", common.ErrInvalidInput, lastN)
	}

	fixtures, err := a.api.LastFixtures(ctx, teamID, leagueID, season, lastN)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetching last fixtures for team %d: %v", common.ErrUpstream, teamID, err)
	}

	records := make([]TeamMatchRecord, len(fixtures))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.statsFanout)
	for i := range fixtures {
		i := i
		g.Go(func() error {
			records[i] = a.buildRecord(gctx, teamID, &fixtures[i])
			return nil
		})
	}
	// Workers never return errors; partial statistics failures degrade to nil
	_ = g.Wait()

	return aggregateRecords(teamID, records), records, nil
}

// buildRecord derives one team-oriented match record from a fixture and its
// independently fetched statistics.
func (a *Aggregator) buildRecord(ctx context.Context, teamID int, fixture *apifootball.Fixture) TeamMatchRecord {
	isHome := fixture.Teams.Home.ID == teamID

	rec := TeamMatchRecord{
		FixtureID: fixture.Fixture.ID,
		IsHome:    isHome,
	}
	if isHome {
		rec.OpponentID = fixture.Teams.Away.ID
		rec.GoalsFor = fixture.Goals.Home
		rec.GoalsAgainst = fixture.Goals.Away
	} else {
		rec.OpponentID = fixture.Teams.Home.ID
		rec.GoalsFor = fixture.Goals.Away
		rec.GoalsAgainst = fixture.Goals.Home
	}

	stats, err := a.api.FixtureStatistics(ctx, fixture.Fixture.ID)
	if err != nil {
		logger.Warnw("statistics unavailable for fixture, counting goals only",
			"fixtureId", fixture.Fixture.ID, "teamId", teamID, "error", err)
		return rec
	}

	var own, opp *apifootball.TeamStatistics
	for i := range stats {
		if stats[i].Team.ID == teamID {
			own = &stats[i]
		} else if stats[i].Team.ID == rec.OpponentID {
			opp = &stats[i]
		}
	}

	rec.Shots = pairFromStats(own, opp, labelTotalShots)
	rec.ShotsOnTarget = pairFromStats(own, opp, labelShotsOnGoal)
	rec.Corners = pairFromStats(own, opp, labelCorners)
	rec.YellowCards = pairFromStats(own, opp, labelYellowCards)
	rec.RedCards = pairFromStats(own, opp, labelRedCards)
	return rec
}

func pairFromStats(own, opp *apifootball.TeamStatistics, label string) PairCount {
	var p PairCount
	if own != nil {
		p.For = own.ValueByType(label)
	}
	if opp != nil {
		p.Against = opp.ValueByType(label)
	}
	return p
}

// aggregateRecords averages each metric's for and against series
// independently across the matches where that value is non-nil.
func aggregateRecords(teamID int, records []TeamMatchRecord) *TeamAggregate {
	agg := &TeamAggregate{
		TeamID:     teamID,
		MatchCount: len(records),
	}

	goalsFor := make([]*int, len(records))
	goalsAgainst := make([]*int, len(records))
	for i := range records {
		goalsFor[i] = records[i].GoalsFor
		goalsAgainst[i] = records[i].GoalsAgainst
	}
	agg.Goals = PairAverage{ForAvg: averageNonNil(goalsFor), AgainstAvg: averageNonNil(goalsAgainst)}

	agg.Shots = averagePair(records, func(r *TeamMatchRecord) PairCount { return r.Shots })
	agg.ShotsOnTarget = averagePair(records, func(r *TeamMatchRecord) PairCount { return r.ShotsOnTarget })
	agg.Corners = averagePair(records, func(r *TeamMatchRecord) PairCount { return r.Corners })
	agg.YellowCards = averagePair(records, func(r *TeamMatchRecord) PairCount { return r.YellowCards })
	agg.RedCards = averagePair(records, func(r *TeamMatchRecord) PairCount { return r.RedCards })

	return agg
}

func averagePair(records []TeamMatchRecord, pick func(*TeamMatchRecord) PairCount) PairAverage {
	fors := make([]*int, len(records))
	againsts := make([]*int, len(records))
	for i := range records {
		p := pick(&records[i])
		fors[i] = p.For
		againsts[i] = p.Against
	}
	return PairAverage{ForAvg: averageNonNil(fors), AgainstAvg: averageNonNil(againsts)}
}

// averageNonNil averages the non-nil values of a series. Nil when the
// series has no non-nil samples.
func averageNonNil(values []*int) *float64 {
	sum := 0
	count := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		count++
	}
	if count == 0 {
		return nil
	}
	avg := float64(sum) / float64(count)
	return &avg
}
