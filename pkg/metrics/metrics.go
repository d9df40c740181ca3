// Package metrics exposes Prometheus counters for the ingestion pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsProcessed counts every raw record seen, labeled by outcome:
	// inserted, duplicate_exact, duplicate_fuzzy, rejected, error.
	RecordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clover",
		Subsystem: "ingest",
		Name:      "records_processed_total",
		Help:      "Raw records processed, by source and outcome.",
	}, []string{"source", "outcome"})

	// BatchesCompleted counts finished batch ingestions.
	BatchesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clover",
		Subsystem: "ingest",
		Name:      "batches_completed_total",
		Help:      "Batch ingestions completed, by source.",
	}, []string{"source"})

	// BatchDuration observes end-to-end batch ingestion time.
	BatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clover",
		Subsystem: "ingest",
		Name:      "batch_duration_seconds",
		Help:      "Batch ingestion duration in seconds, by source.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"source"})
)

// Outcome labels for RecordsProcessed.
const (
	OutcomeInserted       = "inserted"
	OutcomeDuplicateExact = "duplicate_exact"
	OutcomeDuplicateFuzzy = "duplicate_fuzzy"
	OutcomeRejected       = "rejected"
	OutcomeError          = "error"
)
