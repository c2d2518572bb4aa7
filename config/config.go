package config

import (
	"os"
	"strconv"
)

type Config struct {
	// API-Football provider
	APIFootballKey     string
	APIFootballBaseURL string

	// OpenWeatherMap (optional; empty key disables weather enrichment)
	OpenWeatherKey     string
	OpenWeatherBaseURL string

	// Server
	Port string

	// Other
	Environment string

	// Prediction parameters
	LastN          int    // past fixtures per team aggregate, 1-20
	UpcomingWindow int    // upcoming fixtures scanned by the resolver, 5-80
	StatsFanout    int    // concurrent per-fixture statistics fetches
	MarketsConfig  string // path to markets YAML, empty means built-in defaults
}

func Load() *Config {
	return &Config{
		APIFootballKey:     getEnv("APIFOOTBALL_KEY", ""),
		APIFootballBaseURL: getEnv("APIFOOTBALL_BASE_URL", "https://v3.football.api-sports.io"),

		OpenWeatherKey:     getEnv("OPENWEATHER_KEY", ""),
		OpenWeatherBaseURL: getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),

		Port: getEnv("PORT", "8080"),

		Environment: getEnv("ENVIRONMENT", "development"),

		LastN:          clamp(getEnvInt("LAST_N", 6), 1, 20),
		UpcomingWindow: clamp(getEnvInt("UPCOMING_WINDOW", 30), 5, 80),
		StatsFanout:    clamp(getEnvInt("STATS_FANOUT", 5), 1, 20),
		MarketsConfig:  getEnv("MARKETS_CONFIG", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
