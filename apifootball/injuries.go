package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Injuries retrieves the players flagged as injured or doubtful for a
// fixture. An empty result is valid: no injuries reported.
func (c *Client) Injuries(ctx context.Context, fixtureID int) ([]Injury, error) {
	params := url.Values{}
	params.Set("fixture", strconv.Itoa(fixtureID))

	body, err := c.get(ctx, "/injuries", params)
	if err != nil {
		return nil, err
	}

	var injuries []Injury
	if err := json.Unmarshal(body, &injuries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal injuries: %w", err)
	}
	return injuries, nil
}
