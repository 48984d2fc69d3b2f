// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package course

import "github.com/prometheus/client_golang/prometheus"

// Mutation operation labels.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Mutation outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeForbidden = "forbidden"
	OutcomeError     = "error"
)

// Mutations counts course create, update and delete attempts.
// Use RegisterMetrics to register this with a Prometheus registry.
var Mutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "coursehub_course_mutations_total",
		Help: "Total number of course mutations by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

// RegisterMetrics registers course package metrics with the given Prometheus registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Mutations)
}

func recordMutation(operation, outcome string) {
	Mutations.WithLabelValues(operation, outcome).Inc()
}
