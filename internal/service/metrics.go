package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MatchesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_matches_created_total",
			Help: "Total matches created",
		},
	)
	MatchesResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_matches_resolved_total",
			Help: "Total matches resolved by outcome",
		},
		[]string{"outcome"},
	)
	Rejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rps_rejections_total",
			Help: "Total calls rejected by a game rule",
		},
		[]string{"operation", "code"},
	)
	PayoutFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rps_payout_failures_total",
			Help: "Total payout requests that returned an error",
		},
	)
)

func init() {
	prometheus.MustRegister(MatchesCreated)
	prometheus.MustRegister(MatchesResolved)
	prometheus.MustRegister(Rejections)
	prometheus.MustRegister(PayoutFailures)
}
