// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/natours/identity/internal/config"
	"github.com/natours/identity/internal/store"
)

// migrator is the part of store.Migrator the migrate commands use.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Status() (store.Status, error)
	Close() error
}

// newMigrator is replaced in tests.
var newMigrator = func(databaseURL string) (migrator, error) {
	return store.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate command and its subcommands.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the principal schema",
		Long:  `Apply, roll back and inspect the embedded PostgreSQL migrations.`,
	}
	config.RegisterFlags(cmd.PersistentFlags())

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long:  `Roll back the given number of migrations, or all of them with --all.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all") //nolint:errcheck // flag defined below
			return withMigrator(cmd, func(m migrator) error {
				if all {
					return m.Down()
				}
				return m.Steps(-steps)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	down.Flags().Bool("all", false, "roll back every migration (drops the principals table)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					cmd.Println("Migrations applied")
					return nil
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "status",
			Short: "List applied and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m migrator) error {
					st, err := m.Status()
					if err != nil {
						return err
					}
					return printMigrationStatus(cmd.OutOrStdout(), st)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m migrator) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					if dirty {
						cmd.Printf("%d (dirty)\n", v)
						return nil
					}
					cmd.Printf("%d\n", v)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Mark VERSION as applied after a manual repair",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_VERSION").With("version", args[0]).Errorf("version must be an integer")
				}
				return withMigrator(cmd, func(m migrator) error { return m.Force(v) })
			},
		},
	)
	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(migrator) error) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").With("key", "database.url").Errorf("database.url is required")
	}

	m, err := newMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			cmd.PrintErrf("warning: closing migrator: %v\n", closeErr)
		}
	}()
	return fn(m)
}

// migrateUp applies pending migrations for serve --migrate.
func migrateUp(databaseURL string) error {
	m, err := newMigrator(databaseURL)
	if err != nil {
		return err
	}
	upErr := m.Up()
	if closeErr := m.Close(); closeErr != nil && upErr == nil {
		return closeErr
	}
	return upErr
}

func printMigrationStatus(w io.Writer, st store.Status) error {
	state := "clean"
	if st.Dirty {
		state = "dirty"
	}
	if _, err := fmt.Fprintf(w, "Current version: %d (%s)\n", st.Version, state); err != nil {
		return oops.Wrap(err)
	}
	for _, group := range []struct {
		label    string
		versions []uint
	}{{"applied", st.Applied}, {"pending", st.Pending}} {
		for _, v := range group.versions {
			name, err := store.MigrationName(v)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "  %-8s %s\n", group.label, name); err != nil {
				return oops.Wrap(err)
			}
		}
	}
	return nil
}
