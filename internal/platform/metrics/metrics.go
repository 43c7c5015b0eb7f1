package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics exposed by the API process.
type Metrics struct {
	BallotsCast       prometheus.Counter
	DuplicateRejected prometheus.Counter
	InvalidBallots    prometheus.Counter
	ReceiptLookups    prometheus.Counter
	ReceiptDenied     prometheus.Counter
	VotersRegistered  prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		BallotsCast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eduvote_ballots_cast_total",
			Help: "Total number of ballots committed successfully",
		}),
		DuplicateRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eduvote_duplicate_votes_rejected_total",
			Help: "Total number of ballot submissions rejected by the duplicate-vote guard",
		}),
		InvalidBallots: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eduvote_invalid_ballots_total",
			Help: "Total number of ballot submissions rejected by structural validation",
		}),
		ReceiptLookups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eduvote_receipt_lookups_total",
			Help: "Total number of receipt retrieval requests",
		}),
		ReceiptDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eduvote_receipt_lookups_denied_total",
			Help: "Total number of receipt retrievals denied",
		}),
		VotersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "eduvote_voters_registered_total",
			Help: "Total number of voter accounts created",
		}),
	}
}
