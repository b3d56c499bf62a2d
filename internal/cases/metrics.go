package cases

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// casesCreated counts accepted submissions by category
	casesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casewatch_cases_created_total",
		Help: "Cases accepted for review, by category",
	}, []string{"category"})

	// casesRejected counts submissions refused before persistence, by error kind
	casesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casewatch_case_submissions_refused_total",
		Help: "Case submissions refused by validation, by error kind",
	}, []string{"kind"})

	transitionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casewatch_case_transitions_total",
		Help: "Committed case status transitions, by target status",
	}, []string{"to"})

	transitionsRefused = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "casewatch_case_transitions_refused_total",
		Help: "Case status transitions refused as conflicts, by target status",
	}, []string{"to"})
)
