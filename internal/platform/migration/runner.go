// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration wraps golang-migrate for the schema embedded in the binary.
//
// The API server applies pending migrations on startup; the admin CLI exposes
// up, down and version for operators.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/taibuivan/yamdb/migrations"
)

// Runner applies migrations from an [fs.FS] to one database.
type Runner struct {
	migrator *migrate.Migrate
	logger   *slog.Logger
}

// New opens a runner over the embedded migrations.
func New(dsn string, logger *slog.Logger) (*Runner, error) {
	return NewFromFS(migrations.FS, ".", dsn, logger)
}

// NewFromFS opens a runner over the migrations found at dir inside fsys.
func NewFromFS(fsys fs.FS, dir, dsn string, logger *slog.Logger) (*Runner, error) {
	source, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("migration: failed to open source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, convertToPgx5DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: logger}

	return &Runner{migrator: migrator, logger: logger}, nil
}

// Close releases the source and database handles.
func (runner *Runner) Close() {
	sourceError, dbError := runner.migrator.Close()
	if sourceError != nil {
		runner.logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
	}
	if dbError != nil {
		runner.logger.Error("migration_db_close_failed", slog.Any("error", dbError))
	}
}

// Up applies all pending UP migrations. A database already at the latest
// version is not an error.
func (runner *Runner) Up() error {
	currentVersion, err := runner.cleanVersion()
	if err != nil {
		return err
	}

	runner.logger.Info("migration_started", slog.Uint64("current_version", uint64(currentVersion)))

	if err := runner.migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			runner.logger.Info("migration_already_up_to_date")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := runner.migrator.Version()
	runner.logger.Info("migration_successful",
		slog.Uint64("from_version", uint64(currentVersion)),
		slog.Uint64("to_version", uint64(newVersion)),
	)

	return nil
}

// Down rolls back the given number of migrations.
func (runner *Runner) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("migration: steps must be positive, got %d", steps)
	}
	if _, err := runner.cleanVersion(); err != nil {
		return err
	}

	if err := runner.migrator.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration: down failed: %w", err)
	}

	runner.logger.Info("migration_rolled_back", slog.Int("steps", steps))
	return nil
}

// Version returns the applied version and whether the database is dirty.
// A database with no migrations applied reports version 0.
func (runner *Runner) Version() (uint, bool, error) {
	version, dirty, err := runner.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	return version, dirty, nil
}

func (runner *Runner) cleanVersion() (uint, error) {
	version, dirty, err := runner.Version()
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("migration: database is in a dirty state at version %d (manual intervention required)", version)
	}
	return version, nil
}

// RunUp opens a runner over the embedded migrations, applies them and closes it.
func RunUp(dsn string, logger *slog.Logger) error {
	runner, err := New(dsn, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	return runner.Up()
}

// convertToPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5://
// scheme registered by the golang-migrate driver.
func convertToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}
