package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// FixtureByID retrieves a single fixture with denormalized teams, league and
// venue. Returns nil without error when the provider has no such fixture.
func (c *Client) FixtureByID(ctx context.Context, fixtureID int) (*Fixture, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(fixtureID))

	body, err := c.get(ctx, "/fixtures", params)
	if err != nil {
		return nil, err
	}

	var fixtures []Fixture
	if err := json.Unmarshal(body, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixtures: %w", err)
	}

	if len(fixtures) == 0 {
		return nil, nil
	}
	return &fixtures[0], nil
}

// LastFixtures retrieves a team's most recent fixtures in a league/season,
// newest first.
func (c *Client) LastFixtures(ctx context.Context, teamID, leagueID, season, last int) ([]Fixture, error) {
	params := url.Values{}
	params.Set("team", strconv.Itoa(teamID))
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))
	params.Set("last", strconv.Itoa(last))

	body, err := c.get(ctx, "/fixtures", params)
	if err != nil {
		return nil, err
	}

	var fixtures []Fixture
	if err := json.Unmarshal(body, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixtures: %w", err)
	}
	return fixtures, nil
}

// UpcomingFixtures retrieves a team's next fixtures, optionally narrowed to
// a league and season. Zero values leave the filter unset.
func (c *Client) UpcomingFixtures(ctx context.Context, teamID, next, leagueID, season int) ([]Fixture, error) {
	params := url.Values{}
	params.Set("team", strconv.Itoa(teamID))
	params.Set("next", strconv.Itoa(next))
	if leagueID > 0 {
		params.Set("league", strconv.Itoa(leagueID))
	}
	if season > 0 {
		params.Set("season", strconv.Itoa(season))
	}

	body, err := c.get(ctx, "/fixtures", params)
	if err != nil {
		return nil, err
	}

	var fixtures []Fixture
	if err := json.Unmarshal(body, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fixtures: %w", err)
	}
	return fixtures, nil
}
