package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"prediction-service/apifootball"
	"prediction-service/config"
	"prediction-service/logger"
	"prediction-service/pkg/metrics"
	"prediction-service/weather"
)

// PredictionRequest selects a fixture (by id or free-text query) and
// optionally overrides the aggregation and resolution parameters.
type PredictionRequest struct {
	FixtureID int
	Query     string
	LeagueID  int
	Season    int
	LastN     int
	Window    int
}

// FixtureInfo is the denormalized fixture header of a prediction response
type FixtureInfo struct {
	FixtureID int               `json:"fixtureId"`
	Kickoff   int64             `json:"kickoff"`
	Status    string            `json:"status"`
	League    string            `json:"league"`
	LeagueID  int               `json:"leagueId"`
	Season    int               `json:"season"`
	HomeTeam  apifootball.Team  `json:"homeTeam"`
	AwayTeam  apifootball.Team  `json:"awayTeam"`
	Venue     apifootball.Venue `json:"venue"`
}

// PredictionResponse is the full output of one prediction request.
// Injuries and Weather are auxiliary enrichment: absent when their fetches
// fail, signalling incompleteness rather than failing the request.
type PredictionResponse struct {
	Fixture       FixtureInfo           `json:"fixture"`
	Candidates    []apifootball.Fixture `json:"candidates,omitempty"`
	HomeAggregate *TeamAggregate        `json:"homeAggregate"`
	AwayAggregate *TeamAggregate        `json:"awayAggregate"`
	HomeRecords   []TeamMatchRecord     `json:"homeRecords"`
	AwayRecords   []TeamMatchRecord     `json:"awayRecords"`
	Markets       []MarketPrediction    `json:"markets"`
	Injuries      []apifootball.Injury  `json:"injuries,omitempty"`
	Weather       *weather.Conditions   `json:"weather,omitempty"`
}

// PredictionService runs the full pipeline: resolve the fixture, aggregate
// both teams concurrently, predict the configured markets.
type PredictionService struct {
	api        *apifootball.Client
	weather    *weather.Client
	resolver   *Resolver
	aggregator *Aggregator
	markets    []config.Market
	lastN      int
}

// NewPredictionService wires the pipeline components together
func NewPredictionService(api *apifootball.Client, wc *weather.Client, resolver *Resolver, aggregator *Aggregator, markets *config.MarketsConfig, lastN int) *PredictionService {
	return &PredictionService{
		api:        api,
		weather:    wc,
		resolver:   resolver,
		aggregator: aggregator,
		markets:    markets.Markets,
		lastN:      lastN,
	}
}

// Predict resolves the request to a fixture and produces the market line
// tables plus enrichment data. Every call re-fetches from the provider;
// nothing is cached between requests.
func (s *PredictionService) Predict(ctx context.Context, req PredictionRequest) (*PredictionResponse, error) {
	pair, err := s.resolver.Resolve(ctx, ResolveOptions{
		FixtureID: req.FixtureID,
		Query:     req.Query,
		LeagueID:  req.LeagueID,
		Season:    req.Season,
		Window:    req.Window,
	})
	if err != nil {
		metrics.Predictions.WithLabelValues("resolve_failed").Inc()
		return nil, err
	}

	best := pair.BestFixture
	leagueID := best.League.ID
	season := best.League.Season

	lastN := s.lastN
	if req.LastN > 0 {
		lastN = req.LastN
	}

	resp := &PredictionResponse{
		Fixture: FixtureInfo{
			FixtureID: best.Fixture.ID,
			Kickoff:   best.Fixture.Timestamp,
			Status:    best.Fixture.Status.Short,
			League:    best.League.Name,
			LeagueID:  leagueID,
			Season:    season,
			HomeTeam:  best.Teams.Home,
			AwayTeam:  best.Teams.Away,
			Venue:     best.Fixture.Venue,
		},
		Candidates: pair.Fixtures,
	}

	// The two aggregations are independent provider pipelines; run them in
	// parallel. Either one failing fails the prediction.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		agg, recs, err := s.aggregator.Aggregate(gctx, best.Teams.Home.ID, leagueID, season, lastN)
		if err != nil {
			return err
		}
		resp.HomeAggregate = agg
		resp.HomeRecords = recs
		return nil
	})
	g.Go(func() error {
		agg, recs, err := s.aggregator.Aggregate(gctx, best.Teams.Away.ID, leagueID, season, lastN)
		if err != nil {
			return err
		}
		resp.AwayAggregate = agg
		resp.AwayRecords = recs
		return nil
	})

	// Auxiliary enrichment: failures are absorbed, not propagated
	g.Go(func() error {
		injuries, err := s.api.Injuries(gctx, best.Fixture.ID)
		if err != nil {
			logger.Warnw("injuries unavailable", "fixtureId", best.Fixture.ID, "error", err)
			return nil
		}
		resp.Injuries = injuries
		return nil
	})
	g.Go(func() error {
		cond, err := s.weather.Current(gctx, best.Fixture.Venue.City)
		if err != nil {
			logger.Warnw("weather unavailable", "city", best.Fixture.Venue.City, "error", err)
			return nil
		}
		resp.Weather = cond
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.Predictions.WithLabelValues("aggregate_failed").Inc()
		return nil, err
	}

	resp.Markets = PredictMarkets(resp.HomeAggregate, resp.AwayAggregate, s.markets)
	metrics.Predictions.WithLabelValues("ok").Inc()
	return resp, nil
}
