// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Coursehub Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/coursehub/coursehub/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the coursehub CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coursehub",
		Short: "Coursehub - a course marketplace backend",
		Long: `Coursehub serves the course marketplace API: learner and admin
accounts, courses owned by admins, and course purchases by learners.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// loadConfig reads configuration from --config, the environment and the
// command's own flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}
