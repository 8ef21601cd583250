package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	entriesPostedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "glb_journal_entries_posted_total",
		Help: "Total number of journal entries posted.",
	})

	reconciliationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glb_statement_reconciliations_total",
		Help: "Total number of statement reconciliation state changes, by action.",
	}, []string{"action"})
)
