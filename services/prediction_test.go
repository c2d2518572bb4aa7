package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prediction-service/config"
	"prediction-service/weather"
)

const team541History = `[
  {"fixture":{"id":401,"date":"2025-08-24T19:00:00+00:00","timestamp":900,"status":{"short":"FT"},"venue":{"id":1,"name":"Bernabeu","city":"Madrid"}},
   "league":{"id":140,"name":"La Liga","season":2025},
   "teams":{"home":{"id":541,"name":"Real Madrid"},"away":{"id":600,"name":"Getafe"}},
   "goals":{"home":2,"away":1}}
]`

const team548History = `[
  {"fixture":{"id":402,"date":"2025-08-24T19:00:00+00:00","timestamp":900,"status":{"short":"FT"},"venue":{"id":3,"name":"Anoeta","city":"San Sebastian"}},
   "league":{"id":140,"name":"La Liga","season":2025},
   "teams":{"home":{"id":548,"name":"Real Sociedad"},"away":{"id":601,"name":"Villarreal"}},
   "goals":{"home":1,"away":1}}
]`

func fullStats(teamA, teamB int) string {
	block := func(id int) string {
		return fmt.Sprintf(`{"team":{"id":%d},"statistics":[
      {"type":"Total Shots","value":12},
      {"type":"Shots on Goal","value":5},
      {"type":"Corner Kicks","value":6},
      {"type":"Yellow Cards","value":2},
      {"type":"Red Cards","value":0}]}`, id)
	}
	return "[" + block(teamA) + "," + block(teamB) + "]"
}

func pipelineHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case r.URL.Path == "/teams" && q.Get("search") == "Real Madrid":
			fmt.Fprint(w, envelope(`[{"team":{"id":541,"name":"Real Madrid"},"venue":{}}]`))
		case r.URL.Path == "/teams" && q.Get("search") == "Real Sociedad":
			fmt.Fprint(w, envelope(`[{"team":{"id":548,"name":"Real Sociedad"},"venue":{}}]`))
		case r.URL.Path == "/fixtures" && q.Get("next") != "":
			fmt.Fprint(w, envelope(upcomingPayload))
		case r.URL.Path == "/fixtures" && q.Get("last") != "" && q.Get("team") == "541":
			fmt.Fprint(w, envelope(team541History))
		case r.URL.Path == "/fixtures" && q.Get("last") != "" && q.Get("team") == "548":
			fmt.Fprint(w, envelope(team548History))
		case r.URL.Path == "/fixtures/statistics" && q.Get("fixture") == "401":
			fmt.Fprint(w, envelope(fullStats(541, 600)))
		case r.URL.Path == "/fixtures/statistics" && q.Get("fixture") == "402":
			fmt.Fprint(w, envelope(fullStats(548, 601)))
		case r.URL.Path == "/injuries":
			fmt.Fprint(w, envelope(`[{"player":{"id":50,"name":"Somebody","type":"Missing Fixture","reason":"Knee Injury"},"team":{"id":541,"name":"Real Madrid"}}]`))
		default:
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
			http.NotFound(w, r)
		}
	}
}

func newPipeline(t *testing.T, handler http.HandlerFunc) *PredictionService {
	t.Helper()
	api := newTestClient(t, handler)
	wc := weather.NewClient(weather.Config{}) // no key: weather disabled
	return NewPredictionService(api, wc,
		NewResolver(api, 30),
		NewAggregator(api, 4),
		config.DefaultMarkets(), 1)
}

func TestPredictFullPipeline(t *testing.T) {
	svc := newPipeline(t, pipelineHandler(t))

	resp, err := svc.Predict(context.Background(), PredictionRequest{Query: "Real Madrid vs Real Sociedad"})
	require.NoError(t, err)

	// Best fixture is the soonest non-terminal meeting of the pair
	assert.Equal(t, 204, resp.Fixture.FixtureID)
	assert.Equal(t, 541, resp.Fixture.HomeTeam.ID)
	assert.Equal(t, 548, resp.Fixture.AwayTeam.ID)
	assert.Equal(t, 140, resp.Fixture.LeagueID)
	assert.Equal(t, 2025, resp.Fixture.Season)

	require.NotNil(t, resp.HomeAggregate)
	require.NotNil(t, resp.AwayAggregate)
	assert.Equal(t, 1, resp.HomeAggregate.MatchCount)
	require.Len(t, resp.HomeRecords, 1)
	require.Len(t, resp.AwayRecords, 1)

	// Every default market resolves: both histories carry full statistics
	require.Len(t, resp.Markets, 5)
	byName := map[string]MarketPrediction{}
	for _, m := range resp.Markets {
		byName[m.Market] = m
	}

	// goals: home for 2, against 1; away for 1, against 1
	goals, ok := byName["goals"]
	require.True(t, ok)
	assert.InDelta(t, 2.5, goals.ExpectedTotal, 1e-12)
	require.NotEmpty(t, goals.Lines)
	for _, l := range goals.Lines {
		assert.InDelta(t, 100.0, l.Over+l.Under, 0.11, "line %v", l.Line)
	}

	// shots: symmetric inputs make the total the shared per-match rate x2
	shots, ok := byName["shots"]
	require.True(t, ok)
	assert.InDelta(t, 24.0, shots.ExpectedTotal, 1e-12)

	require.Len(t, resp.Injuries, 1)
	assert.Equal(t, "Knee Injury", resp.Injuries[0].Player.Reason)
	assert.Nil(t, resp.Weather)
}

func TestPredictInjuriesFailureAbsorbed(t *testing.T) {
	base := pipelineHandler(t)
	svc := newPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/injuries" {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		base(w, r)
	})

	resp, err := svc.Predict(context.Background(), PredictionRequest{Query: "Real Madrid vs Real Sociedad"})
	require.NoError(t, err)
	assert.Empty(t, resp.Injuries)
	assert.NotEmpty(t, resp.Markets)
}

func TestPredictAggregateFailurePropagates(t *testing.T) {
	base := pipelineHandler(t)
	svc := newPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fixtures" && r.URL.Query().Get("last") != "" {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		base(w, r)
	})

	_, err := svc.Predict(context.Background(), PredictionRequest{Query: "Real Madrid vs Real Sociedad"})
	require.Error(t, err)
}
