package materializer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	materializeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skelgen_materialize_duration_seconds",
			Help:    "Time taken to materialize a complete application skeleton",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	materializeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skelgen_materialize_total",
			Help: "Total number of materialization attempts",
		},
		[]string{"status"}, // success or error
	)

	materializeStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skelgen_materialize_step_duration_seconds",
			Help:    "Time taken by individual materialization steps",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"step"},
	)

	materializeFilesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skelgen_materialize_files_written_total",
			Help: "Total number of files written by successful materializations",
		},
	)
)
