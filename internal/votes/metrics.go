package votes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// votesCast counts committed votes by type and whether the row was new or flipped
	votesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casewatch_votes_cast_total",
		Help: "Votes committed, by vote type and outcome",
	}, []string{"vote_type", "outcome"})

	votesRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casewatch_votes_removed_total",
		Help: "Votes withdrawn, by vote type",
	}, []string{"vote_type"})

	votesRefused = promauto.NewCounter(prometheus.CounterOpts{
		Name: "casewatch_votes_conflict_total",
		Help: "Votes refused because the user already voted that way",
	})
)
