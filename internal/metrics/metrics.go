// Package metrics provides Prometheus metrics for the hierarchy store and
// the drawing version ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service-level Prometheus metrics.
type Metrics struct {
	// Node operation metrics
	NodeMutationsTotal *prometheus.CounterVec // labels: operation, status
	PathResolutions    prometheus.Counter
	SelectorQueries    prometheus.Counter

	// Drawing/revision metrics
	RevisionPromotions prometheus.Counter
	DrawingCreations   prometheus.Counter
	ListingQueries     prometheus.Counter
	ListingRowErrors   prometheus.Counter
}

// New creates and registers all metrics on the given registerer. Tests
// pass a fresh prometheus.NewRegistry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		NodeMutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitedeck_node_mutations_total",
				Help: "Total number of node mutations by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		PathResolutions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sitedeck_path_resolutions_total",
				Help: "Total number of node path resolutions",
			},
		),
		SelectorQueries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sitedeck_selector_queries_total",
				Help: "Total number of flattened selector queries",
			},
		),
		RevisionPromotions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sitedeck_revision_promotions_total",
				Help: "Total number of revisions promoted to current",
			},
		),
		DrawingCreations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sitedeck_drawing_creations_total",
				Help: "Total number of drawings created with a first revision",
			},
		),
		ListingQueries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sitedeck_listing_queries_total",
				Help: "Total number of drawing listing queries",
			},
		),
		ListingRowErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sitedeck_listing_row_errors_total",
				Help: "Total number of row-level errors surfaced in listings",
			},
		),
	}
}

// RecordNodeMutation records a node mutation with its outcome.
func (m *Metrics) RecordNodeMutation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.NodeMutationsTotal.WithLabelValues(operation, status).Inc()
}
