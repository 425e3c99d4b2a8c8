// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/natours/identity/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the natours CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "natours",
		Short: "Natours identity service",
		Long: `Natours identity service: signup, login, bearer tokens, password
changes and email password resets for the Natours API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: $XDG_CONFIG_HOME/natours/config.yaml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateAdminCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// loadConfig reads configuration for cmd, whose flags include the ones
// registered by config.RegisterFlags.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	return config.Load(flags, configFile)
}
