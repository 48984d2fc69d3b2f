// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package purchase

import "github.com/prometheus/client_golang/prometheus"

// Recorded counts purchases written to the store.
var Recorded = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "coursehub_purchases_total",
		Help: "Total number of recorded course purchases",
	},
)

// RegisterMetrics registers purchase package metrics with the given Prometheus registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Recorded)
}
