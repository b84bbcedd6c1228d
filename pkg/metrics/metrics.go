// Package metrics defines the Prometheus instruments incremented by the
// Overpass client and the harvest pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds for
// latency metrics.
var DefaultBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// QueryAttempts counts delivery attempts per Overpass endpoint and outcome
	// ("ok" or "error").
	QueryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scout_overpass_query_attempts_total",
		Help: "Overpass delivery attempts by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	// EndpointFailovers counts how often the client gave up on an endpoint and
	// moved to the next one in the priority list.
	EndpointFailovers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scout_overpass_endpoint_failovers_total",
		Help: "Times the Overpass client failed over to the next endpoint.",
	})

	// QueryDuration observes the latency of successful Overpass queries.
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scout_overpass_query_duration_seconds",
		Help:    "Latency of successful Overpass queries.",
		Buckets: DefaultBuckets,
	})

	// PlacesExtracted counts dataset rows produced by extraction, pre-dedup.
	PlacesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scout_places_extracted_total",
		Help: "Rows extracted from raw elements before deduplication.",
	})

	// PlacesDeduped counts dataset rows retained after deduplication.
	PlacesDeduped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scout_places_deduped_total",
		Help: "Rows retained after deduplication.",
	})
)
