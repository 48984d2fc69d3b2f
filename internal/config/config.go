// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

// Package config loads coursehub configuration from defaults, an optional
// YAML file, the environment and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/coursehub/coursehub/internal/auth"
	"github.com/coursehub/coursehub/internal/logging"
	"github.com/coursehub/coursehub/internal/store"
)

// CodeInvalid is the oops code for configuration errors.
const CodeInvalid = "CONFIG_INVALID"

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

// Config is the complete coursehub configuration.
type Config struct {
	Server ServerConfig `koanf:"server" json:"server,omitempty"`
	Store  StoreConfig  `koanf:"store" json:"store,omitempty"`
	Auth   AuthConfig   `koanf:"auth" json:"auth,omitempty"`
	Log    LogConfig    `koanf:"log" json:"log,omitempty"`
}

// ServerConfig configures the HTTP listeners.
type ServerConfig struct {
	Addr               string        `koanf:"addr" json:"addr,omitempty" jsonschema:"description=API listen address"`
	MetricsAddr        string        `koanf:"metrics_addr" json:"metrics_addr,omitempty" jsonschema:"description=Metrics and health listen address; empty disables it"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" json:"cors_allowed_origins,omitempty"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout,omitempty" jsonschema:"type=string,description=Go duration such as 15s"`
}

// StoreConfig selects and configures the store backend.
type StoreConfig struct {
	Backend     string         `koanf:"backend" json:"backend,omitempty" jsonschema:"enum=postgres,enum=mongo,enum=memory"`
	AutoMigrate bool           `koanf:"auto_migrate" json:"auto_migrate,omitempty" jsonschema:"description=Apply pending Postgres migrations on serve"`
	Postgres    PostgresConfig `koanf:"postgres" json:"postgres,omitempty"`
	Mongo       MongoConfig    `koanf:"mongo" json:"mongo,omitempty"`
}

// PostgresConfig configures the Postgres backend.
type PostgresConfig struct {
	DSN            string `koanf:"dsn" json:"dsn,omitempty"`
	MaxConns       int32  `koanf:"max_conns" json:"max_conns,omitempty" jsonschema:"minimum=1"`
	ConnectRetries uint64 `koanf:"connect_retries" json:"connect_retries,omitempty"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI            string `koanf:"uri" json:"uri,omitempty"`
	Database       string `koanf:"database" json:"database,omitempty"`
	ConnectRetries uint64 `koanf:"connect_retries" json:"connect_retries,omitempty"`
}

// AuthConfig holds the token secrets and password hashing cost.
type AuthConfig struct {
	LearnerSecret string       `koanf:"learner_secret" json:"learner_secret,omitempty"`
	AdminSecret   string       `koanf:"admin_secret" json:"admin_secret,omitempty"`
	Argon2        Argon2Config `koanf:"argon2" json:"argon2,omitempty"`
}

// Argon2Config tunes argon2id hashing of new passwords.
type Argon2Config struct {
	Time      uint32 `koanf:"time" json:"time,omitempty" jsonschema:"minimum=1,maximum=16"`
	MemoryKiB uint32 `koanf:"memory_kib" json:"memory_kib,omitempty" jsonschema:"minimum=1,maximum=1048576"`
	Threads   uint8  `koanf:"threads" json:"threads,omitempty" jsonschema:"minimum=1"`
}

// Params converts the config into hasher parameters.
func (a Argon2Config) Params() auth.Argon2Params {
	p := auth.DefaultArgon2Params()
	p.Time = a.Time
	p.Memory = a.MemoryKiB
	p.Threads = a.Threads
	return p
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `koanf:"format" json:"format,omitempty" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	argon := auth.DefaultArgon2Params()
	pool := store.DefaultPoolOptions()
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			MetricsAddr:     "127.0.0.1:9100",
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Backend: BackendPostgres,
			Postgres: PostgresConfig{
				MaxConns:       pool.MaxConns,
				ConnectRetries: pool.ConnectRetries,
			},
			Mongo: MongoConfig{
				Database:       "coursehub",
				ConnectRetries: pool.ConnectRetries,
			},
		},
		Auth: AuthConfig{
			Argon2: Argon2Config{
				Time:      argon.Time,
				MemoryKiB: argon.Memory,
				Threads:   argon.Threads,
			},
		},
		Log: LogConfig{
			Format: logging.FormatJSON,
			Level:  "info",
		},
	}
}

// Validate reports every problem with the configuration in one error.
func (c *Config) Validate() error {
	var problems []string
	add := func(p string) { problems = append(problems, p) }

	if c.Server.Addr == "" {
		add("server.addr is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		add("server.shutdown_timeout must be positive")
	}

	switch c.Store.Backend {
	case BackendPostgres:
		if c.Store.Postgres.DSN == "" {
			add("store.postgres.dsn is required for the postgres backend")
		}
	case BackendMongo:
		if c.Store.Mongo.URI == "" {
			add("store.mongo.uri is required for the mongo backend")
		}
		if c.Store.Mongo.Database == "" {
			add("store.mongo.database is required for the mongo backend")
		}
	case BackendMemory:
	default:
		add("store.backend must be one of postgres, mongo, memory")
	}

	if c.Auth.LearnerSecret == "" {
		add("auth.learner_secret is required")
	}
	if c.Auth.AdminSecret == "" {
		add("auth.admin_secret is required")
	}
	if c.Auth.LearnerSecret != "" && c.Auth.LearnerSecret == c.Auth.AdminSecret {
		add("auth.learner_secret and auth.admin_secret must differ")
	}
	a := c.Auth.Argon2
	if a.Time == 0 || a.MemoryKiB == 0 || a.Threads == 0 {
		add("auth.argon2 time, memory_kib and threads must be positive")
	}
	if a.MemoryKiB > auth.MaxArgon2Memory || a.Time > auth.MaxArgon2Time {
		add(fmt.Sprintf("auth.argon2 memory_kib must be at most %d and time at most %d", auth.MaxArgon2Memory, auth.MaxArgon2Time))
	}

	if !slices.Contains([]string{logging.FormatJSON, logging.FormatText}, c.Log.Format) {
		add("log.format must be json or text")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level must be debug, info, warn or error")
	}

	if len(problems) == 0 {
		return nil
	}
	return oops.In("config").
		Code(CodeInvalid).
		With("problems", problems).
		Wrap(errors.New(strings.Join(problems, "; ")))
}
