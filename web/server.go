package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"prediction-service/config"
	"prediction-service/logger"
	"prediction-service/services"
)

type Server struct {
	config     *config.Config
	prediction *services.PredictionService
	resolver   *services.Resolver
	aggregator *services.Aggregator
	httpServer *http.Server
}

func NewServer(cfg *config.Config, prediction *services.PredictionService, resolver *services.Resolver, aggregator *services.Aggregator) *Server {
	return &Server{
		config:     cfg,
		prediction: prediction,
		resolver:   resolver,
		aggregator: aggregator,
	}
}

// Handler builds the routed, CORS-wrapped handler for the service
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/predict", s.handlePredict).Methods("GET")
	api.HandleFunc("/fixtures/resolve", s.handleResolve).Methods("GET")
	api.HandleFunc("/teams/aggregate", s.handleAggregate).Methods("GET")

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return c.Handler(router)
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: s.Handler(),
		// Provider fan-out dominates request latency; allow for a slow
		// upstream before cutting the response off.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logger.Errorw("server shutdown error", "error", err)
	}
}
