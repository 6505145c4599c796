// Package metrics provides Prometheus collectors for the service
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "conclusion_generator"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method", "path"},
	)

	// Generation metrics
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "total",
			Help:      "Total number of conclusion generations by outcome",
		},
		[]string{"status"},
	)

	GenerationAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "attempts",
			Help:      "Provider calls made per generation",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Conclusion generation duration in seconds",
			Buckets:   []float64{1, 2, 5, 10, 30, 60, 120, 300},
		},
	)

	GenerationTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "estimated_tokens_total",
			Help:      "Estimated tokens sent to and received from the model",
		},
		[]string{"model", "kind"},
	)

	GenerationCost = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "estimated_cost_dollars_total",
			Help:      "Estimated model cost in dollars",
		},
		[]string{"model"},
	)

	// Search metrics
	SnippetFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "serp",
			Name:      "fetches_total",
			Help:      "Total number of competitor snippet lookups by outcome",
		},
		[]string{"status"},
	)
)
