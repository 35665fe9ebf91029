// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/constants"
	pgstore "github.com/taibuivan/yamdb/internal/platform/postgres"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	databaseURL string
	verbose     bool
}

// environment is the subset of the server configuration the CLI reads.
type environment struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "yamdbctl",
		Short: "Yamdb operator tooling",
		Long: `yamdbctl manages the Yamdb database outside the API server.

Commands:
  migrate  - Apply, roll back or inspect schema migrations
  user     - Create accounts and change their role`,
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.databaseURL != "" {
				return nil
			}
			var cfg environment
			if err := env.Parse(&cfg); err != nil {
				return fmt.Errorf("yamdbctl: failed to parse environment: %w", err)
			}
			opts.databaseURL = cfg.DatabaseURL
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.databaseURL, "db", "", "Database URL (defaults to $DATABASE_URL)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(newMigrateCommand(opts), newUserCommand(opts))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (opts *options) logger() *slog.Logger {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (opts *options) dsn() (string, error) {
	if opts.databaseURL == "" {
		return "", fmt.Errorf("yamdbctl: no database URL, set --db or DATABASE_URL")
	}
	return opts.databaseURL, nil
}

func (opts *options) pool(ctx context.Context) (*pgxpool.Pool, error) {
	dsn, err := opts.dsn()
	if err != nil {
		return nil, err
	}
	return pgstore.NewPool(ctx, dsn, opts.logger())
}
