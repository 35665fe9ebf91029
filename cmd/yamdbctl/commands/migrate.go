// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/migration"
)

func newMigrateCommand(opts *options) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Run the schema migrations embedded in the binary.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back migrations
  version  - Show the applied version`,
	}

	var steps int

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(opts, func(runner *migration.Runner) error {
				if err := runner.Up(); err != nil {
					return err
				}
				return printVersion(cmd, runner)
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long: `Roll back applied migrations.

Examples:
  yamdbctl migrate down             # Roll back the last migration
  yamdbctl migrate down --steps 2   # Roll back the last two`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(opts, func(runner *migration.Runner) error {
				if err := runner.Down(steps); err != nil {
					return err
				}
				return printVersion(cmd, runner)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Show the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(opts, func(runner *migration.Runner) error {
				return printVersion(cmd, runner)
			})
		},
	}

	migrate.AddCommand(up, down, version)
	return migrate
}

func withRunner(opts *options, fn func(runner *migration.Runner) error) error {
	dsn, err := opts.dsn()
	if err != nil {
		return err
	}

	runner, err := migration.New(dsn, opts.logger())
	if err != nil {
		return err
	}
	defer runner.Close()

	return fn(runner)
}

func printVersion(cmd *cobra.Command, runner *migration.Runner) error {
	version, dirty, err := runner.Version()
	if err != nil {
		return err
	}

	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version %d (%s)\n", version, state)
	return nil
}
