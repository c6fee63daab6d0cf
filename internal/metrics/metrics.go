package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts payment submissions by method and outcome.
	// Outcome is the processor status, or one of rejected/abandoned/error
	// for attempts that never produced one.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chargepay_submissions_total",
		Help: "Payment submissions by method and outcome.",
	}, []string{"method", "outcome"})

	// PollFetchesTotal counts status-poll fetches by result (ok, error).
	PollFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chargepay_poll_fetches_total",
		Help: "Transaction status fetches by result.",
	}, []string{"result"})
)
