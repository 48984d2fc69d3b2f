// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	authpg "github.com/coursehub/coursehub/internal/auth/postgres"
	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/course"
	coursepg "github.com/coursehub/coursehub/internal/course/postgres"
	"github.com/coursehub/coursehub/internal/purchase"
	purchasepg "github.com/coursehub/coursehub/internal/purchase/postgres"
	"github.com/coursehub/coursehub/internal/store"
	"github.com/coursehub/coursehub/internal/store/memory"
	"github.com/coursehub/coursehub/internal/store/mongodb"
)

// Backend is an opened store: one repository per entity plus the
// readiness probe and shutdown hook of the underlying connection.
type Backend struct {
	Principals auth.PrincipalRepository
	Courses    course.Repository
	Purchases  purchase.Repository
	Ping       func(ctx context.Context) error
	Close      func()
}

// openBackend connects the store selected by cfg.Store.Backend.
func openBackend(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg)
	case config.BackendMongo:
		return openMongo(ctx, cfg.Mongo)
	case config.BackendMemory:
		slog.Warn("using the in-memory store; data is lost on exit")
		return &Backend{
			Principals: memory.NewPrincipalStore(),
			Courses:    memory.NewCourseStore(),
			Purchases:  memory.NewPurchaseStore(),
			Ping:       func(context.Context) error { return nil },
			Close:      func() {},
		}, nil
	default:
		return nil, oops.Code(config.CodeInvalid).With("backend", cfg.Backend).Errorf("unknown store backend")
	}
}

func openPostgres(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	if cfg.AutoMigrate {
		if err := migrateUp(cfg.Postgres.DSN); err != nil {
			return nil, err
		}
	}

	opts := store.DefaultPoolOptions()
	opts.MaxConns = cfg.Postgres.MaxConns
	opts.ConnectRetries = cfg.Postgres.ConnectRetries
	pool, err := store.Connect(ctx, cfg.Postgres.DSN, opts)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("backend", config.BackendPostgres).Wrap(err)
	}
	slog.Info("connected to database", "backend", config.BackendPostgres)

	return &Backend{
		Principals: authpg.NewPrincipalRepository(pool),
		Courses:    coursepg.NewCourseRepository(pool),
		Purchases:  purchasepg.NewPurchaseRepository(pool),
		Ping:       pool.Ping,
		Close:      pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*Backend, error) {
	client, err := mongodb.Connect(ctx, cfg.URI, mongodb.Options{
		Database:       cfg.Database,
		ConnectRetries: cfg.ConnectRetries,
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("backend", config.BackendMongo).Wrap(err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		closeMongo(client)
		return nil, oops.Code("DB_CONNECT_FAILED").With("backend", config.BackendMongo).Wrap(err)
	}
	slog.Info("connected to database", "backend", config.BackendMongo, "database", cfg.Database)

	return &Backend{
		Principals: client.Principals(),
		Courses:    client.Courses(),
		Purchases:  client.Purchases(),
		Ping:       client.Ping,
		Close:      func() { closeMongo(client) },
	}, nil
}

func closeMongo(client *mongodb.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Close(ctx); err != nil {
		slog.Warn("error closing mongodb client", "error", err)
	}
}
