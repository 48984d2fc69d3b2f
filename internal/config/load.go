// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes coursehub environment variables. A double underscore
// separates nesting levels: COURSEHUB_STORE__POSTGRES__DSN sets
// store.postgres.dsn.
const EnvPrefix = "COURSEHUB_"

// legacyEnv maps the environment names used by earlier deployments to
// config keys. COURSEHUB_ variables take precedence over these.
var legacyEnv = map[string]string{
	"JWT_USER_SECRET":  "auth.learner_secret",
	"JWT_ADMIN_SECRET": "auth.admin_secret",
	"MONGODB_URI":      "store.mongo.uri",
	"DATABASE_URL":     "store.postgres.dsn",
	"PORT":             "server.addr",
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":          "server.addr",
	"metrics-addr":  "server.metrics_addr",
	"store-backend": "store.backend",
	"auto-migrate":  "store.auto_migrate",
	"log-format":    "log.format",
	"log-level":     "log.level",
}

// listKeys hold comma separated lists when set from the environment.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("addr", d.Server.Addr, "API listen address")
	fs.String("metrics-addr", d.Server.MetricsAddr, "metrics and health listen address (empty disables)")
	fs.String("store-backend", d.Store.Backend, "store backend: postgres, mongo or memory")
	fs.Bool("auto-migrate", d.Store.AutoMigrate, "apply pending postgres migrations before serving")
	fs.String("log-format", d.Log.Format, "log format: json or text")
	fs.String("log-level", d.Log.Level, "log level: debug, info, warn or error")
}

// Load builds the configuration. path may be empty to skip the file; flags
// may be nil. The result is not validated: commands that need only part of
// it, such as migrate, check what they use.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	ko := koanf.New(".")

	if err := loadDefaults(ko); err != nil {
		return nil, err
	}

	if path != "" {
		if err := ko.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.In("config").Code(CodeInvalid).With("path", path).Wrapf(err, "read config file")
		}
	}

	if err := ko.Load(env.ProviderWithValue("", ".", legacyEnvValue), nil); err != nil {
		return nil, oops.In("config").With("operation", "load legacy environment").Wrap(err)
	}
	if err := ko.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, oops.In("config").With("operation", "load environment").Wrap(err)
	}

	if flags != nil {
		p := posflag.ProviderWithFlag(flags, ".", ko, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := ko.Load(p, nil); err != nil {
			return nil, oops.In("config").With("operation", "load flags").Wrap(err)
		}
	}

	var cfg Config
	if err := ko.Unmarshal("", &cfg); err != nil {
		return nil, oops.In("config").Code(CodeInvalid).Wrapf(err, "decode config")
	}
	return &cfg, nil
}

func loadDefaults(ko *koanf.Koanf) error {
	d := Default()
	defaults := map[string]any{
		"server.addr":                    d.Server.Addr,
		"server.metrics_addr":            d.Server.MetricsAddr,
		"server.shutdown_timeout":        d.Server.ShutdownTimeout.String(),
		"store.backend":                  d.Store.Backend,
		"store.auto_migrate":             d.Store.AutoMigrate,
		"store.postgres.max_conns":       d.Store.Postgres.MaxConns,
		"store.postgres.connect_retries": d.Store.Postgres.ConnectRetries,
		"store.mongo.database":           d.Store.Mongo.Database,
		"store.mongo.connect_retries":    d.Store.Mongo.ConnectRetries,
		"auth.argon2.time":               d.Auth.Argon2.Time,
		"auth.argon2.memory_kib":         d.Auth.Argon2.MemoryKiB,
		"auth.argon2.threads":            d.Auth.Argon2.Threads,
		"log.format":                     d.Log.Format,
		"log.level":                      d.Log.Level,
	}
	for key, val := range defaults {
		if err := ko.Set(key, val); err != nil {
			return oops.In("config").With("key", key).Wrap(err)
		}
	}
	return nil
}

func legacyEnvValue(name, value string) (string, any) {
	key, ok := legacyEnv[name]
	if !ok || value == "" {
		return "", nil
	}
	if name == "PORT" {
		return key, ":" + value
	}
	return key, value
}

func envValue(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "" || value == "" {
		return "", nil
	}
	if listKeys[key] {
		var items []string
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	}
	return key, value
}
