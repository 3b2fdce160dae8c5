package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DaysClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galaxyweather_days_classified_total",
			Help: "Total simulated days classified, by weather",
		},
		[]string{"weather"},
	)

	PredictionRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galaxyweather_prediction_runs_total",
			Help: "Total prediction runs",
		},
		[]string{"status"},
	)

	PredictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "galaxyweather_prediction_duration_seconds",
			Help:    "Prediction run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	Lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galaxyweather_lookups_total",
			Help: "Total day weather lookups",
		},
		[]string{"status"},
	)

	StoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "galaxyweather_store_writes_total",
			Help: "Total day weather writes to the store",
		},
		[]string{"status"},
	)
)
