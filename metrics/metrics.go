package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var NotesSavedCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "gala_notes_saved_total",
	Help: "Number of notes written by judges",
})

var SubmissionsCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "gala_submissions_total",
	Help: "Number of judge submissions recorded",
})

var FavoriteChangesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gala_favorite_changes_total",
	Help: "Number of favorite picks set or cleared",
}, []string{"action"})

var GateRejectionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gala_gate_rejections_total",
	Help: "Scoring mutations rejected by the submission gate, by gate state",
}, []string{"state"})

var LockChangesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gala_lock_changes_total",
	Help: "Number of gala lock and unlock operations",
}, []string{"action"})

var ResultsComputationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "gala_results_computation_duration_s",
	Help: "Duration of the results aggregation for one gala",
	Buckets: []float64{
		0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2,
	},
})

var ResultsCacheCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gala_results_cache_total",
	Help: "Results cache lookups by outcome",
}, []string{"outcome"})

var EventsPublishedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gala_events_published_total",
	Help: "Domain events published, by type and outcome",
}, []string{"type", "outcome"})
