package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Market binds a market name to the ordered list of lines quoted for it.
// Names are the metric keys understood by the predictor: goals, corners,
// cards, shots, shots_on_target.
type Market struct {
	Name  string    `yaml:"name"`
	Lines []float64 `yaml:"lines"`
}

type MarketsConfig struct {
	Markets []Market `yaml:"markets"`
}

// DefaultMarkets returns the built-in market/line tables used when no
// markets file is configured.
func DefaultMarkets() *MarketsConfig {
	return &MarketsConfig{
		Markets: []Market{
			{Name: "goals", Lines: []float64{0.5, 1.5, 2.5, 3.5, 4.5}},
			{Name: "corners", Lines: []float64{7.5, 8.5, 9.5, 10.5, 11.5}},
			{Name: "cards", Lines: []float64{1.5, 2.5, 3.5, 4.5, 5.5}},
			{Name: "shots", Lines: []float64{19.5, 22.5, 25.5}},
			{Name: "shots_on_target", Lines: []float64{6.5, 8.5, 10.5}},
		},
	}
}

// LoadMarkets reads a markets YAML file. An empty path returns the defaults.
func LoadMarkets(path string) (*MarketsConfig, error) {
	if path == "" {
		return DefaultMarkets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markets config: %w", err)
	}

	var cfg MarketsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse markets config: %w", err)
	}

	if len(cfg.Markets) == 0 {
		return nil, fmt.Errorf("markets config %s defines no markets", path)
	}
	for _, m := range cfg.Markets {
		if m.Name == "" {
			return nil, fmt.Errorf("markets config %s contains a market with no name", path)
		}
		if len(m.Lines) == 0 {
			return nil, fmt.Errorf("market %s defines no lines", m.Name)
		}
	}

	return &cfg, nil
}
