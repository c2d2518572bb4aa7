package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"prediction-service/logger"
	"prediction-service/pkg/common"
	"prediction-service/services"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handlePredict runs the full pipeline. Accepts either fixture=<id> or
// query=<A vs B>, plus optional league, season, last and window overrides.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	req, err := predictionRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := s.prediction.Predict(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleResolve exposes the fixture resolver on its own
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	req, err := predictionRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	pair, err := s.resolver.Resolve(r.Context(), services.ResolveOptions{
		FixtureID: req.FixtureID,
		Query:     req.Query,
		LeagueID:  req.LeagueID,
		Season:    req.Season,
		Window:    req.Window,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// handleAggregate exposes a single team's aggregate. All four parameters
// are required except last, which falls back to the configured default.
func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	teamID, err := intParam(r, "team", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	leagueID, err := intParam(r, "league", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	season, err := intParam(r, "season", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if teamID <= 0 || leagueID <= 0 || season <= 0 {
		writeError(w, fmt.Errorf("%w: team, league and season are required", common.ErrInvalidInput))
		return
	}
	lastN, err := intParam(r, "last", s.config.LastN)
	if err != nil {
		writeError(w, err)
		return
	}

	agg, records, err := s.aggregator.Aggregate(r.Context(), teamID, leagueID, season, lastN)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"aggregate": agg,
		"records":   records,
	})
}

// predictionRequest parses and validates the shared fixture-selection
// parameters. Validation failures reject the request before any provider
// call is made.
func predictionRequest(r *http.Request) (services.PredictionRequest, error) {
	var req services.PredictionRequest
	var err error

	if req.FixtureID, err = intParam(r, "fixture", 0); err != nil {
		return req, err
	}
	req.Query = r.URL.Query().Get("query")
	if req.FixtureID <= 0 && req.Query == "" {
		return req, fmt.Errorf("%w: either fixture or query is required", common.ErrInvalidInput)
	}

	if req.LeagueID, err = intParam(r, "league", 0); err != nil {
		return req, err
	}
	if req.Season, err = intParam(r, "season", 0); err != nil {
		return req, err
	}
	if req.LastN, err = intParam(r, "last", 0); err != nil {
		return req, err
	}
	if req.LastN != 0 && (req.LastN < 1 || req.LastN > 20) {
		return req, fmt.Errorf("%w: last must be between 1 and 20", common.ErrInvalidInput)
	}
	if req.Window, err = intParam(r, "window", 0); err != nil {
		return req, err
	}
	if req.Window != 0 && (req.Window < 5 || req.Window > 80) {
		return req, fmt.Errorf("%w: window must be between 5 and 80", common.ErrInvalidInput)
	}
	return req, nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", common.ErrInvalidInput, name)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorw("failed to encode response", "error", err)
	}
}

// writeError maps the service error taxonomy onto HTTP statuses: malformed
// input 400, not-found 404, upstream failures 502.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrMalformedQuery), errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrTeamNotFound), errors.Is(err, common.ErrFixtureNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrUpstream):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
