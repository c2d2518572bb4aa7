package main

import (
	"os"
	"os/signal"
	"syscall"

	"prediction-service/apifootball"
	"prediction-service/config"
	"prediction-service/logger"
	"prediction-service/services"
	"prediction-service/weather"
	"prediction-service/web"
)

func main() {
	cfg := config.Load()

	if err := logger.Init("prediction-service", cfg.Environment); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.APIFootballKey == "" {
		logger.Fatalf("APIFOOTBALL_KEY is required")
	}

	markets, err := config.LoadMarkets(cfg.MarketsConfig)
	if err != nil {
		logger.Fatalf("Failed to load markets config: %v", err)
	}

	api := apifootball.NewClientWithConfig(apifootball.Config{
		BaseURL: cfg.APIFootballBaseURL,
		APIKey:  cfg.APIFootballKey,
	})
	wc := weather.NewClient(weather.Config{
		BaseURL: cfg.OpenWeatherBaseURL,
		APIKey:  cfg.OpenWeatherKey,
	})

	resolver := services.NewResolver(api, cfg.UpcomingWindow)
	aggregator := services.NewAggregator(api, cfg.StatsFanout)
	prediction := services.NewPredictionService(api, wc, resolver, aggregator, markets, cfg.LastN)

	server := web.NewServer(cfg, prediction, resolver, aggregator)

	go func() {
		logger.Infow("starting prediction service", "port", cfg.Port, "markets", len(markets.Markets))
		if err := server.Start(); err != nil {
			logger.Errorw("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("shutting down")
	server.Stop()
}
