package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	queriesTotal  prometheus.Counter
	queriesFailed prometheus.Counter
	queryDuration prometheus.Histogram
	rowsProduced  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		queriesTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "engine_queries_total",
			Help: "Total number of executed queries.",
		}),
		queriesFailed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "engine_queries_failed_total",
			Help: "Total number of queries that failed during execution.",
		}),
		queryDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "engine_query_duration_seconds",
			Help:    "Duration of query execution.",
			Buckets: prometheus.DefBuckets,
		}),
		rowsProduced: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "engine_rows_produced_total",
			Help: "Total number of rows produced by executed queries.",
		}),
	}
}
