// Package metrics holds the prometheus collectors for the relay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Timer metrics
	TimerTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_relay_timer_ticks_total",
			Help: "Total number of timer firings",
		},
		[]string{"route"},
	)

	// Exchange metrics
	ExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_relay_exchanges_total",
			Help: "Total number of route passes by outcome",
		},
		[]string{"route", "status"},
	)

	ExchangeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telhawk_relay_exchange_duration_seconds",
			Help:    "Duration of a full route pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Step metrics
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telhawk_relay_step_duration_seconds",
			Help:    "Duration of a single pipeline step in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "kind"},
	)

	StepErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_relay_step_errors_total",
			Help: "Total number of failed pipeline steps",
		},
		[]string{"route", "kind"},
	)

	// Routes currently started by the engine
	RoutesRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "telhawk_relay_routes_running",
			Help: "Number of routes whose timer is running",
		},
	)
)

// Status label values for ExchangesTotal.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
