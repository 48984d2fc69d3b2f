// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package auth

import "github.com/prometheus/client_golang/prometheus"

// Operation labels for auth metrics.
const (
	OperationSignup  = "signup"
	OperationSignin  = "signin"
	OperationResolve = "resolve"
)

// Outcome labels for auth metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// AuthAttempts counts signup, signin and token resolution attempts.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "coursehub_auth_attempts_total",
		Help: "Total number of authentication attempts by operation, principal kind and outcome",
	},
	[]string{"operation", "kind", "outcome"},
)

// RegisterMetrics registers auth package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
}

func recordAttempt(operation string, kind Kind, outcome string) {
	AuthAttempts.WithLabelValues(operation, string(kind), outcome).Inc()
}
