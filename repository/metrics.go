package repository

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "gala_sql_query_duration_seconds",
	Help:    "Duration of scoring sql queries in seconds",
	Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
}, []string{"query"})

// timeQuery starts a timer labelled with the repository method it measures.
func timeQuery(query string) *prometheus.Timer {
	return prometheus.NewTimer(queryDuration.WithLabelValues(query))
}
