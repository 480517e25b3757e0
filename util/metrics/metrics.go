// Package metrics holds the Prometheus collectors of the web app. They are
// registered on the default registry and exposed at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Predictions by outcome: ok, invalid_input, unavailable.
	Predictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_predictions_total",
			Help: "Prediction requests by outcome",
		},
		[]string{"outcome"},
	)

	// Login attempts by result: success, failure, error.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	// Signups by result: created, exists, invalid, error.
	Signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_signups_total",
			Help: "Signup attempts by result",
		},
		[]string{"result"},
	)

	HistoryAppendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carprice_history_append_failures_total",
			Help: "Predictions that were shown but could not be stored",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carprice_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carprice_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route", "status"},
	)

	ModelLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "carprice_model_loaded",
			Help: "1 when a prediction model is loaded, 0 otherwise",
		},
	)
)

func RecordHTTPRequestDuration(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func IncPrediction(outcome string) {
	Predictions.WithLabelValues(outcome).Inc()
}

func IncLoginAttempt(result string) {
	LoginAttempts.WithLabelValues(result).Inc()
}

func IncSignup(result string) {
	Signups.WithLabelValues(result).Inc()
}

func SetModelLoaded(loaded bool) {
	if loaded {
		ModelLoaded.Set(1)
		return
	}
	ModelLoaded.Set(0)
}
