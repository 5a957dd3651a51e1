// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var OperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "govhub",
	Subsystem: "ledger",
	Name:      "operations_total",
	Help:      "Registry operations by result code.",
}, []string{"op", "result"})

var OperationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "govhub",
	Subsystem: "ledger",
	Name:      "operation_duration_seconds",
	Help:      "Time spent in a registry operation, including the commit.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
}, []string{"op"})

var proposalsByState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "govhub",
	Subsystem: "registry",
	Name:      "proposals",
	Help:      "Proposals currently in each state.",
}, []string{"state"})

// Collectors returns every ledger metric for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{OperationsTotal, OperationDuration, proposalsByState}
}

func observe(op, result string, start time.Time) {
	OperationsTotal.WithLabelValues(op, result).Inc()
	OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
