// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package main

import (
	"log/slog"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/store"
)

// Migrator is the subset of store.Migrator used by the migrate commands.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Force(version int) error
	Status() (store.MigrationStatus, error)
	Close() error
}

// migratorFactory is replaced in tests.
var migratorFactory = func(dsn string) (Migrator, error) {
	return store.NewMigrator(dsn)
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage Postgres schema migrations",
		Long: `Apply, roll back or inspect the Postgres schema migrations embedded
in the binary. The database is taken from store.postgres.dsn
(or DATABASE_URL).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m Migrator) error {
				if err := m.Up(); err != nil {
					return oops.Code("MIGRATION_FAILED").With("direction", "up").Wrap(err)
				}
				cmd.Println("Migrations applied")
				return nil
			})
		},
	})
	cmd.AddCommand(newMigrateDownCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Long: `Record <version> as the current schema version and clear the dirty
flag. Use after repairing a migration that failed halfway.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return oops.Code("MIGRATION_INVALID_VERSION").With("version", args[0]).Errorf("version must be an integer")
			}
			return withMigrator(cmd, func(m Migrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Schema version forced to %d\n", version)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m Migrator) error {
				status, err := m.Status()
				if err != nil {
					return err
				}
				printStatus(cmd, status)
				return nil
			})
		},
	})

	return cmd
}

func newMigrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long:  "Roll back all migrations, or only the last --steps of them.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 0 {
				return oops.Code(config.CodeInvalid).With("steps", steps).Errorf("--steps must not be negative")
			}
			return withMigrator(cmd, func(m Migrator) error {
				var err error
				if steps > 0 {
					err = m.Steps(-steps)
				} else {
					err = m.Down()
				}
				if err != nil {
					return oops.Code("MIGRATION_FAILED").With("direction", "down").Wrap(err)
				}
				cmd.Println("Migrations rolled back")
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to roll back (0 = all)")
	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(Migrator) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dsn := cfg.Store.Postgres.DSN
	if dsn == "" {
		return oops.Code(config.CodeInvalid).Errorf("store.postgres.dsn (or DATABASE_URL) is required")
	}

	m, err := migratorFactory(dsn)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()
	return fn(m)
}

func printStatus(cmd *cobra.Command, s store.MigrationStatus) {
	dirty := ""
	if s.Dirty {
		dirty = " (dirty)"
	}
	cmd.Printf("Current version: %d%s\n", s.Version, dirty)
	for _, m := range s.Applied {
		cmd.Printf("  [x] %06d %s\n", m.Version, m.Name)
	}
	for _, m := range s.Pending {
		cmd.Printf("  [ ] %06d %s\n", m.Version, m.Name)
	}
}

// migrateUp applies pending migrations for serve --auto-migrate.
func migrateUp(dsn string) error {
	m, err := migratorFactory(dsn)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()
	if err := m.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("direction", "up").Wrap(err)
	}
	slog.Info("database migrations applied")
	return nil
}
