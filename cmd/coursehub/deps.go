// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/observability"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// BackendOpener connects the configured store.
	// Default: openBackend
	BackendOpener func(ctx context.Context, cfg config.StoreConfig) (*Backend, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, registry *prometheus.Registry, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// OnReady is called with the bound API address once serving starts.
	OnReady func(apiAddr string)
}

// ObservabilityServer interface wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
