package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the default OpenWeatherMap base URL
	DefaultBaseURL = "https://api.openweathermap.org"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 10 * time.Second
)

// Client fetches current conditions from OpenWeatherMap. Weather is
// auxiliary enrichment: callers tolerate every failure as nil conditions.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds the configuration for the weather client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewClient creates a weather client. An empty API key produces a disabled
// client whose lookups return nil conditions.
func NewClient(config Config) *Client {
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

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Conditions describes the current weather at a venue city
type Conditions struct {
	City        string  `json:"city"`
	Description string  `json:"description"`
	TempC       float64 `json:"tempC"`
	WindSpeed   float64 `json:"windSpeed"`
	Humidity    int     `json:"humidity"`
}

// Current retrieves current conditions for a city by name.
func (c *Client) Current(ctx context.Context, city string) (*Conditions, error) {
	if !c.Enabled() {
		return nil, nil
	}
	if city == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	u := c.baseURL + "/data/2.5/weather?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

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
		return nil, fmt.Errorf("weather request failed with status %d", resp.StatusCode)
	}

	var payload struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weather: %w", err)
	}

	cond := &Conditions{
		City:      payload.Name,
		TempC:     payload.Main.Temp,
		WindSpeed: payload.Wind.Speed,
		Humidity:  payload.Main.Humidity,
	}
	if len(payload.Weather) > 0 {
		cond.Description = payload.Weather[0].Description
	}
	return cond, nil
}
