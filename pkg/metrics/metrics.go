package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests counts calls to the sports-data provider by
	// endpoint and outcome ("ok" or "error").
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_requests_total",
		Help: "Sports-data provider API calls by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// ProviderDuration tracks provider call latency per endpoint.
	ProviderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "provider_request_duration_seconds",
		Help:    "Sports-data provider API call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// Predictions counts prediction requests by outcome.
	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "predictions_total",
		Help: "Prediction requests by outcome",
	}, []string{"outcome"})
)
