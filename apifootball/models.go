package apifootball

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Fixture statuses the provider reports as terminal: the match has been
// played to a result or will never be played.
var terminalStatuses = map[string]bool{
	"FT":   true, // full time
	"AET":  true, // after extra time
	"PEN":  true, // penalty shootout
	"CANC": true,
	"ABD":  true,
	"AWD":  true, // technical award
	"WO":   true, // walkover
}

// Team identifies a team in fixture and statistics payloads
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Venue describes where a fixture is played
type Venue struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// FixtureStatus carries the provider's status code for a fixture
type FixtureStatus struct {
	Long  string `json:"long"`
	Short string `json:"short"`
}

// FixtureCore holds the fixture-level fields of a fixture record
type FixtureCore struct {
	ID        int           `json:"id"`
	Date      time.Time     `json:"date"`
	Timestamp int64         `json:"timestamp"`
	Status    FixtureStatus `json:"status"`
	Venue     Venue         `json:"venue"`
}

// League identifies the competition and season of a fixture
type League struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season"`
	Round   string `json:"round,omitempty"`
}

// FixtureTeams holds the two teams of a fixture in home/away orientation
type FixtureTeams struct {
	Home Team `json:"home"`
	Away Team `json:"away"`
}

// Goals holds the fixture's goal counts. Nil until the provider publishes
// a score; never derived from the statistics payload.
type Goals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Fixture is a single match record as returned by /fixtures
type Fixture struct {
	Fixture FixtureCore  `json:"fixture"`
	League  League       `json:"league"`
	Teams   FixtureTeams `json:"teams"`
	Goals   Goals        `json:"goals"`
}

// IsTerminal reports whether the fixture has finished or will never be
// played. Postponed fixtures are not terminal: they remain a meaningful
// "next meeting" of the two teams.
func (f *Fixture) IsTerminal() bool {
	return terminalStatuses[f.Fixture.Status.Short]
}

// TeamStatistics is one team's statistics block for a fixture
type TeamStatistics struct {
	Team       Team        `json:"team"`
	Statistics []Statistic `json:"statistics"`
}

// Statistic is a single labeled value, e.g. {"type": "Corner Kicks", "value": 7}
type Statistic struct {
	Type  string    `json:"type"`
	Value StatValue `json:"value"`
}

// StatValue normalizes the provider's heterogeneous statistic values
// (number, numeric string, percentage string, null) into a nullable int.
type StatValue struct {
	Int *int
}

func (v *StatValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		v.Int = nil
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSuffix(strings.TrimSpace(str), "%")
		n, err := strconv.Atoi(str)
		if err != nil {
			// Non-numeric string values are treated as absent
			v.Int = nil
			return nil
		}
		v.Int = &n
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		v.Int = nil
		return nil
	}
	n := int(f)
	v.Int = &n
	return nil
}

func (v StatValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Int)
}

// ValueByType returns the statistic value for a label, matched
// case-insensitively. Unmatched labels yield nil, never zero.
func (ts *TeamStatistics) ValueByType(label string) *int {
	for _, s := range ts.Statistics {
		if strings.EqualFold(s.Type, label) {
			return s.Value.Int
		}
	}
	return nil
}

// TeamSearchResult is one entry returned by /teams?search=
type TeamSearchResult struct {
	Team  Team  `json:"team"`
	Venue Venue `json:"venue"`
}

// InjuredPlayer describes a player flagged for a fixture
type InjuredPlayer struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Injury is one entry returned by /injuries
type Injury struct {
	Player InjuredPlayer `json:"player"`
	Team   Team          `json:"team"`
}
