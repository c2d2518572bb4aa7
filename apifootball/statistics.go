package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// FixtureStatistics retrieves both teams' statistics blocks for a fixture.
// An empty result means the provider has not published statistics yet and
// is not an error.
func (c *Client) FixtureStatistics(ctx context.Context, fixtureID int) ([]TeamStatistics, error) {
	params := url.Values{}
	params.Set("fixture", strconv.Itoa(fixtureID))

	body, err := c.get(ctx, "/fixtures/statistics", params)
	if err != nil {
		return nil, err
	}

	var stats []TeamStatistics
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal statistics: %w", err)
	}
	return stats, nil
}
