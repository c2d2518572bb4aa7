package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"prediction-service/apifootball"
	"prediction-service/pkg/common"
)

// queryPattern splits "<home> vs <away>" style queries. Accepted
// separators: vs, vs., v, v., contra, - (case-insensitive, whitespace
// tolerant on both sides).
var queryPattern = regexp.MustCompile(`(?i)^\s*(.+?)\s+(?:vs\.?|v\.?|contra|-)\s+(.+?)\s*$`)

// ResolvedPair is the resolver's output: both team ids, the cleaned list of
// candidate fixtures between them, and the chosen best fixture.
type ResolvedPair struct {
	HomeTeamID  int                   `json:"homeTeamId"`
	AwayTeamID  int                   `json:"awayTeamId"`
	Fixtures    []apifootball.Fixture `json:"fixtures"`
	BestFixture *apifootball.Fixture  `json:"bestFixture"`
}

// ResolveOptions selects a fixture either by id or by free-text query.
// League, Season and Window only apply to query mode; zero values fall back
// to the resolver defaults.
type ResolveOptions struct {
	FixtureID int
	Query     string
	LeagueID  int
	Season    int
	Window    int
}

// Resolver maps a fixture id or a team-pair query to a concrete fixture
type Resolver struct {
	api           *apifootball.Client
	defaultWindow int
}

// NewResolver creates a resolver. defaultWindow bounds how many upcoming
// fixtures are scanned in query mode, clamped to 5-80.
func NewResolver(api *apifootball.Client, defaultWindow int) *Resolver {
	return &Resolver{api: api, defaultWindow: clampWindow(defaultWindow)}
}

func clampWindow(w int) int {
	if w < 5 {
		return 5
	}
	if w > 80 {
		return 80
	}
	return w
}

// ParseQuery splits a free-text team-pair query into its two team names.
func ParseQuery(query string) (home, away string, err error) {
	m := queryPattern.FindStringSubmatch(query)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q does not match \"<home> vs <away>\"", common.ErrMalformedQuery, query)
	}
	home = strings.TrimSpace(m[1])
	away = strings.TrimSpace(m[2])
	if home == "" || away == "" {
		return "", "", fmt.Errorf("%w: empty team name in %q", common.ErrMalformedQuery, query)
	}
	return home, away, nil
}

// Resolve maps the options to a concrete fixture. Query mode resolves both
// names to team ids, scans the first team's upcoming fixtures and picks the
// soonest non-terminal meeting of the pair.
func (r *Resolver) Resolve(ctx context.Context, opts ResolveOptions) (*ResolvedPair, error) {
	if opts.FixtureID > 0 {
		return r.resolveByID(ctx, opts.FixtureID)
	}
	return r.resolveByQuery(ctx, opts)
}

func (r *Resolver) resolveByID(ctx context.Context, fixtureID int) (*ResolvedPair, error) {
	fixture, err := r.api.FixtureByID(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching fixture %d: %v", common.ErrUpstream, fixtureID, err)
	}
	if fixture == nil {
		return nil, fmt.Errorf("%w: fixture %d", common.ErrFixtureNotFound, fixtureID)
	}

	return &ResolvedPair{
		HomeTeamID:  fixture.Teams.Home.ID,
		AwayTeamID:  fixture.Teams.Away.ID,
		Fixtures:    []apifootball.Fixture{*fixture},
		BestFixture: fixture,
	}, nil
}

func (r *Resolver) resolveByQuery(ctx context.Context, opts ResolveOptions) (*ResolvedPair, error) {
	homeName, awayName, err := ParseQuery(opts.Query)
	if err != nil {
		return nil, err
	}

	var homeID, awayID int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		homeID, err = r.searchTeam(gctx, homeName, "home")
		return err
	})
	g.Go(func() error {
		var err error
		awayID, err = r.searchTeam(gctx, awayName, "away")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	window := r.defaultWindow
	if opts.Window > 0 {
		window = clampWindow(opts.Window)
	}

	upcoming, err := r.api.UpcomingFixtures(ctx, homeID, window, opts.LeagueID, opts.Season)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching upcoming fixtures for team %d: %v", common.ErrUpstream, homeID, err)
	}

	// Keep only meetings of the resolved pair, in either orientation
	var candidates []apifootball.Fixture
	for _, f := range upcoming {
		h, a := f.Teams.Home.ID, f.Teams.Away.ID
		if (h == homeID && a == awayID) || (h == awayID && a == homeID) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no upcoming fixture between %q and %q", common.ErrFixtureNotFound, homeName, awayName)
	}

	best := bestFixture(candidates)
	return &ResolvedPair{
		HomeTeamID:  homeID,
		AwayTeamID:  awayID,
		Fixtures:    candidates,
		BestFixture: best,
	}, nil
}

// searchTeam resolves a team name to an id, taking the provider's first
// (most relevant) search result.
func (r *Resolver) searchTeam(ctx context.Context, name, side string) (int, error) {
	results, err := r.api.SearchTeams(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("%w: searching %s team %q: %v", common.ErrUpstream, side, name, err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("%w: %s team %q", common.ErrTeamNotFound, side, name)
	}
	return results[0].Team.ID, nil
}

// bestFixture picks the next relevant meeting: the soonest kickoff among
// non-terminal fixtures, or the soonest overall when every candidate has
// already finished.
func bestFixture(candidates []apifootball.Fixture) *apifootball.Fixture {
	sorted := make([]apifootball.Fixture, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Fixture.Timestamp < sorted[j].Fixture.Timestamp
	})

	for i := range sorted {
		if !sorted[i].IsTerminal() {
			return &sorted[i]
		}
	}
	return &sorted[0]
}
