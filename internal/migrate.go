package internal

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationLockID serializes schema changes across every server and worker
// process starting against the same database.
const migrationLockID = 4127730981

// withMigrationLock runs fn while holding a session advisory lock. The lock
// is taken and released on the same pooled connection.
func withMigrationLock(ctx context.Context, pool *pgxpool.Pool, fn func() error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for migration lock: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", migrationLockID)
	}()

	return fn()
}

// migrateLogger adapts slog to the golang-migrate logger interface.
type migrateLogger struct {
	logger *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return false
}

func newSchemaMigrator(pool *pgxpool.Pool, logger *slog.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, "pgx5://"+pool.Config().ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to create schema migrator: %w", err)
	}
	m.Log = migrateLogger{logger: logger}
	return m, nil
}

func newRiverMigrator(pool *pgxpool.Pool, logger *slog.Logger) (*rivermigrate.Migrator[pgx.Tx], error) {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to create river migrator: %w", err)
	}
	return migrator, nil
}

// MigrateUp brings both the River schema and the job tables up to date.
// River goes first because nothing in the job tables depends on it, but
// stores insert River jobs as soon as the job tables exist.
func MigrateUp(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	logger = logger.With(slog.String("component", "migrate"))
	return withMigrationLock(ctx, pool, func() error {
		riverMigrator, err := newRiverMigrator(pool, logger)
		if err != nil {
			return err
		}
		res, err := riverMigrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
		if err != nil {
			return fmt.Errorf("failed to migrate river schema: %w", err)
		}
		for _, version := range res.Versions {
			logger.Info("applied river migration", slog.Int("version", version.Version))
		}

		m, err := newSchemaMigrator(pool, logger)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate job tables: %w", err)
		}
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		logger.Info("job tables up to date", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		return nil
	})
}

// MigrateDown drops the job tables and then the River schema.
func MigrateDown(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	logger = logger.With(slog.String("component", "migrate"))
	return withMigrationLock(ctx, pool, func() error {
		m, err := newSchemaMigrator(pool, logger)
		if err != nil {
			return err
		}
		defer m.Close()

		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back job tables: %w", err)
		}

		riverMigrator, err := newRiverMigrator(pool, logger)
		if err != nil {
			return err
		}
		if _, err := riverMigrator.Migrate(ctx, rivermigrate.DirectionDown, &rivermigrate.MigrateOpts{TargetVersion: -1}); err != nil {
			return fmt.Errorf("failed to roll back river schema: %w", err)
		}
		return nil
	})
}
