package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// SearchTeams searches teams by name. The provider ranks results by
// relevance; callers wanting a single team take the first entry.
func (c *Client) SearchTeams(ctx context.Context, name string) ([]TeamSearchResult, error) {
	params := url.Values{}
	params.Set("search", name)

	body, err := c.get(ctx, "/teams", params)
	if err != nil {
		return nil, err
	}

	var teams []TeamSearchResult
	if err := json.Unmarshal(body, &teams); err != nil {
		return nil, fmt.Errorf("failed to unmarshal teams: %w", err)
	}
	return teams, nil
}
