package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	traversalFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pkgids_traversal_fetches_total",
			Help: "Total pages fetched by the versions traversal",
		},
		[]string{"level"}, // "packages", "versions"
	)

	traversalDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pkgids_traversal_duration_seconds",
			Help:    "Duration of completed versions traversals in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	traversalMatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pkgids_traversal_matches",
			Help: "Number of distinct version ids matched by the last traversal",
		},
	)
)
