package common

import "errors"

var (
	// ErrMalformedQuery reports a free-text fixture query that does not
	// match the "<home> vs <away>" pattern.
	ErrMalformedQuery = errors.New("malformed query")

	// ErrTeamNotFound reports a team name with no search results.
	ErrTeamNotFound = errors.New("team not found")

	// ErrFixtureNotFound reports a fixture id or team pair with no
	// matching fixture at the provider.
	ErrFixtureNotFound = errors.New("fixture not found")

	// ErrInvalidInput reports a request parameter outside its allowed range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream reports a provider or network failure on a call whose
	// result was required, as opposed to auxiliary data that degrades to nil.
	ErrUpstream = errors.New("upstream provider error")
)
