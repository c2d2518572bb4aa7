package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"prediction-service/pkg/metrics"
)

const (
	// DefaultBaseURL is the default API base URL
	DefaultBaseURL = "https://v3.football.api-sports.io"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
)

// Client represents an API-Football v3 client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds the configuration for the API client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a new API-Football client with default settings
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
		Timeout: DefaultTimeout,
	})
}

// NewClientWithConfig creates a new client with custom configuration
func NewClientWithConfig(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// envelope is the response wrapper every API-Football endpoint returns.
// The errors field is [] when empty and an object when populated.
type envelope struct {
	Get      string          `json:"get"`
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

// get performs a GET request and returns the raw response array from the
// envelope. An empty response array is a valid result, not an error.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	start := time.Now()
	body, err := c.doRequest(ctx, endpoint, params)
	metrics.ProviderDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}
	metrics.ProviderRequests.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-apisports-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Errors: map[string]string{
			"http": string(body),
		}}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	if provErrs := decodeProviderErrors(env.Errors); len(provErrs) > 0 {
		return nil, &APIError{Status: resp.StatusCode, Errors: provErrs}
	}

	return env.Response, nil
}

// decodeProviderErrors handles the provider's dual encoding of the errors
// field: an empty array when there are none, an object otherwise.
func decodeProviderErrors(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

// APIError represents a provider-level failure: an HTTP error status or a
// populated errors object in the response envelope.
type APIError struct {
	Status int
	Errors map[string]string
}

func (e *APIError) Error() string {
	for k, v := range e.Errors {
		return fmt.Sprintf("API error %d: %s: %s", e.Status, k, v)
	}
	return fmt.Sprintf("API error %d", e.Status)
}
