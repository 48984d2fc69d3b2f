// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/course"
	"github.com/coursehub/coursehub/internal/httpapi"
	"github.com/coursehub/coursehub/internal/logging"
	"github.com/coursehub/coursehub/internal/observability"
	"github.com/coursehub/coursehub/internal/purchase"
)

const serviceName = "coursehub"

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server, plus the metrics and health endpoints
when server.metrics_addr is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// runServeWithDeps starts the server with injectable dependencies and blocks
// until a signal arrives, ctx is cancelled or a listener fails.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.BackendOpener == nil {
		deps.BackendOpener = openBackend
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, registry *prometheus.Registry, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, registry, ready)
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.SetDefault(serviceName, version, cfg.Log.Format, level)

	logger.Info("starting coursehub",
		"addr", cfg.Server.Addr,
		"backend", cfg.Store.Backend,
		"log_format", cfg.Log.Format,
	)

	backend, err := deps.BackendOpener(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer backend.Close()

	handler, err := buildAPI(cfg, backend, logger)
	if err != nil {
		return err
	}

	registry := observability.NewRegistry()
	registerMetrics(registry)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listener, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return oops.With("addr", cfg.Server.Addr).Wrap(err)
	}
	apiServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	apiErrCh := make(chan error, 1)
	go func() {
		defer close(apiErrCh)
		if serveErr := apiServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			apiErrCh <- serveErr
		}
	}()
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")
	logger.Info("API server listening", "addr", listener.Addr().String())

	var obsServer ObservabilityServer
	if cfg.Server.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Server.MetricsAddr, registry, backend.Ping)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			shutdownAPI(apiServer, cfg.Server.ShutdownTimeout)
			return oops.With("addr", cfg.Server.MetricsAddr).Wrapf(err, "start observability server")
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Coursehub started")
	if deps.OnReady != nil {
		deps.OnReady(listener.Addr().String())
	}

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	shutdownAPI(apiServer, cfg.Server.ShutdownTimeout)
	if obsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// buildAPI wires the services over backend.
func buildAPI(cfg *config.Config, backend *Backend, logger *slog.Logger) (http.Handler, error) {
	hasher, err := auth.NewArgon2idHasherWithParams(cfg.Auth.Argon2.Params())
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokenService(cfg.Auth.LearnerSecret, cfg.Auth.AdminSecret)
	if err != nil {
		return nil, err
	}
	learners, err := auth.NewCredentialService(auth.KindLearner, backend.Principals, hasher, tokens, logger)
	if err != nil {
		return nil, err
	}
	admins, err := auth.NewCredentialService(auth.KindAdmin, backend.Principals, hasher, tokens, logger)
	if err != nil {
		return nil, err
	}
	resolver, err := auth.NewResolver(tokens)
	if err != nil {
		return nil, err
	}
	courses, err := course.NewService(backend.Courses, logger)
	if err != nil {
		return nil, err
	}
	// The repository, not the service, resolves purchased course ids so a
	// lookup failure is logged once, by the purchase service.
	purchases, err := purchase.NewService(backend.Purchases, backend.Courses, logger)
	if err != nil {
		return nil, err
	}

	return httpapi.NewRouter(httpapi.Deps{
		Learners:       learners,
		Admins:         admins,
		Resolver:       resolver,
		Courses:        courses,
		Purchases:      purchases,
		Logger:         logger,
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})
}

func registerMetrics(reg prometheus.Registerer) {
	auth.RegisterMetrics(reg)
	course.RegisterMetrics(reg)
	purchase.RegisterMetrics(reg)
	httpapi.RegisterMetrics(reg)
}

func shutdownAPI(srv *http.Server, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("error stopping API server", "error", err)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
