// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_votes_cast_total",
		Help: "Number of counted votes, labeled by applied weight.",
	}, []string{"weight"})

	VotesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_votes_rejected_total",
		Help: "Number of rejected vote attempts, labeled by reason.",
	}, []string{"reason"})

	BadgesAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_badges_awarded_total",
		Help: "Number of badges granted to builder profiles, labeled by badge id.",
	}, []string{"badge"})

	ParticipantsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_participants_created_total",
		Help: "Number of participant submissions accepted.",
	})
)
