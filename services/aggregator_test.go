package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prediction-service/apifootball"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *apifootball.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return apifootball.NewClientWithConfig(apifootball.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	})
}

func envelope(response string) string {
	return fmt.Sprintf(`{"get":"fixtures","errors":[],"results":1,"response":%s}`, response)
}

const lastFixturesPayload = `[
  {"fixture":{"id":101,"date":"2025-08-10T15:00:00+00:00","timestamp":1754838000,"status":{"short":"FT"},"venue":{"id":1,"name":"Anfield","city":"Liverpool"}},
   "league":{"id":39,"name":"Premier League","season":2025},
   "teams":{"home":{"id":10,"name":"Team A"},"away":{"id":20,"name":"Team B"}},
   "goals":{"home":2,"away":1}},
  {"fixture":{"id":102,"date":"2025-08-17T15:00:00+00:00","timestamp":1755442800,"status":{"short":"FT"},"venue":{"id":2,"name":"Elsewhere","city":"Leeds"}},
   "league":{"id":39,"name":"Premier League","season":2025},
   "teams":{"home":{"id":30,"name":"Team C"},"away":{"id":10,"name":"Team A"}},
   "goals":{"home":1,"away":2}},
  {"fixture":{"id":103,"date":"2025-08-24T15:00:00+00:00","timestamp":1756047600,"status":{"short":"FT"},"venue":{"id":3,"name":"Third","city":"Hull"}},
   "league":{"id":39,"name":"Premier League","season":2025},
   "teams":{"home":{"id":10,"name":"Team A"},"away":{"id":40,"name":"Team D"}},
   "goals":{"home":1,"away":1}}
]`

const fixture101Stats = `[
  {"team":{"id":10,"name":"Team A"},"statistics":[
    {"type":"Total Shots","value":15},
    {"type":"Shots on Goal","value":"6"},
    {"type":"Corner Kicks","value":7},
    {"type":"Yellow Cards","value":2},
    {"type":"Red Cards","value":null}]},
  {"team":{"id":20,"name":"Team B"},"statistics":[
    {"type":"Total Shots","value":9},
    {"type":"Shots on Goal","value":3},
    {"type":"Corner Kicks","value":4},
    {"type":"Yellow Cards","value":3},
    {"type":"Red Cards","value":1}]}
]`

// aggregatorHandler serves a three-fixture history where fixture 102 has no
// published statistics and fixture 103's statistics endpoint fails.
func aggregatorHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case r.URL.Path == "/fixtures" && q.Get("last") != "":
			fmt.Fprint(w, envelope(lastFixturesPayload))
		case r.URL.Path == "/fixtures/statistics" && q.Get("fixture") == "101":
			fmt.Fprint(w, envelope(fixture101Stats))
		case r.URL.Path == "/fixtures/statistics" && q.Get("fixture") == "102":
			fmt.Fprint(w, envelope(`[]`))
		case r.URL.Path == "/fixtures/statistics" && q.Get("fixture") == "103":
			http.Error(w, "internal error", http.StatusInternalServerError)
		default:
			t.Errorf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
			http.NotFound(w, r)
		}
	}
}

func TestAggregatePartialStatistics(t *testing.T) {
	api := newTestClient(t, aggregatorHandler(t))
	agg, records, err := NewAggregator(api, 4).Aggregate(context.Background(), 10, 39, 2025, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 3, agg.MatchCount)

	// Goals come from the fixture record, re-oriented by home/away
	byFixture := map[int]TeamMatchRecord{}
	for _, r := range records {
		byFixture[r.FixtureID] = r
	}
	home := byFixture[101]
	assert.True(t, home.IsHome)
	assert.Equal(t, 20, home.OpponentID)
	require.NotNil(t, home.GoalsFor)
	assert.Equal(t, 2, *home.GoalsFor)
	assert.Equal(t, 1, *home.GoalsAgainst)

	awayRec := byFixture[102]
	assert.False(t, awayRec.IsHome)
	require.NotNil(t, awayRec.GoalsFor)
	assert.Equal(t, 2, *awayRec.GoalsFor)
	assert.Equal(t, 1, *awayRec.GoalsAgainst)

	// A failed statistics fetch keeps the match with goals only
	failed := byFixture[103]
	require.NotNil(t, failed.GoalsFor)
	assert.Equal(t, 1, *failed.GoalsFor)
	assert.Nil(t, failed.Shots.For)
	assert.Nil(t, failed.Corners.Against)
	assert.Nil(t, failed.YellowCards.For)

	// Goals average over all three matches: (2+2+1)/3
	require.NotNil(t, agg.Goals.ForAvg)
	assert.InDelta(t, 5.0/3.0, *agg.Goals.ForAvg, 1e-12)
	assert.InDelta(t, 1.0, *agg.Goals.AgainstAvg, 1e-12)

	// Counter averages only cover fixture 101, the lone match with stats
	require.NotNil(t, agg.Shots.ForAvg)
	assert.InDelta(t, 15.0, *agg.Shots.ForAvg, 1e-12)
	assert.InDelta(t, 9.0, *agg.Shots.AgainstAvg, 1e-12)
	assert.InDelta(t, 6.0, *agg.ShotsOnTarget.ForAvg, 1e-12)
	assert.InDelta(t, 4.0, *agg.Corners.AgainstAvg, 1e-12)

	// A null statistic value stays null, never zero
	assert.Nil(t, agg.RedCards.ForAvg)
	require.NotNil(t, agg.RedCards.AgainstAvg)
	assert.InDelta(t, 1.0, *agg.RedCards.AgainstAvg, 1e-12)
}

func TestAggregateNoMatches(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, envelope(`[]`))
	})
	agg, records, err := NewAggregator(api, 4).Aggregate(context.Background(), 10, 39, 2025, 5)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, agg.MatchCount)
	assert.Nil(t, agg.Goals.ForAvg)
	assert.Nil(t, agg.Goals.AgainstAvg)
	assert.Nil(t, agg.Shots.ForAvg)
	assert.Nil(t, agg.Corners.ForAvg)
	assert.Nil(t, agg.YellowCards.AgainstAvg)
	assert.Nil(t, agg.RedCards.ForAvg)
}

func TestAggregateInvalidLastN(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no provider call expected for invalid input")
	})
	a := NewAggregator(api, 4)
	for _, lastN := range []int{0, -3, 21} {
		_, _, err := a.Aggregate(context.Background(), 10, 39, 2025, lastN)
		assert.Error(t, err, "lastN=%d", lastN)
	}
}

func TestAggregateFixtureListFailure(t *testing.T) {
	api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	_, _, err := NewAggregator(api, 4).Aggregate(context.Background(), 10, 39, 2025, 5)
	require.Error(t, err)
}

func TestAverageNonNilOrderIndependent(t *testing.T) {
	a, b, c := 4, 2, 6
	forward := averageNonNil([]*int{&a, nil, &b, &c})
	backward := averageNonNil([]*int{&c, &b, nil, &a})
	require.NotNil(t, forward)
	require.NotNil(t, backward)
	assert.Equal(t, *forward, *backward)
	assert.InDelta(t, 4.0, *forward, 1e-12)
}
