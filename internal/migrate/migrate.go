package migrate

import (
	"context"
	"database/sql"
	"embed"
	"io"
	"io/fs"
	"log"

	"github.com/go-faster/errors"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Apply brings the kv_entries schema up to the latest embedded version.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	return run(ctx, pool, logger, "up", func(m *migrate.Migrate) error { return m.Up() })
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger) error {
	return run(ctx, pool, logger, "down", func(m *migrate.Migrate) error { return m.Steps(-1) })
}

func run(ctx context.Context, pool *pgxpool.Pool, logger *log.Logger, direction string, step func(*migrate.Migrate) error) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	m, closeFn, err := open(ctx, pool)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := step(m); err != nil {
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			logger.Printf("migrate %s: nothing to do", direction)
			return nil
		case errors.Is(err, fs.ErrNotExist):
			return errors.Wrapf(err, "migrate %s (every version needs both .up.sql and .down.sql)", direction)
		default:
			return errors.Wrapf(err, "migrate %s", direction)
		}
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Printf("migrate %s: schema empty", direction)
	case err != nil:
		return errors.Wrap(err, "read schema version")
	default:
		logger.Printf("migrate %s: schema version=%d dirty=%t", direction, version, dirty)
	}
	return nil
}

func open(ctx context.Context, pool *pgxpool.Pool) (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return nil, nil, errors.Wrap(err, "init iofs")
	}

	sqlDB, err := sql.Open("pgx", pool.Config().ConnString())
	if err != nil {
		return nil, nil, errors.Wrap(err, "open sql db")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, errors.Wrap(err, "ping sql db")
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: "kv_schema_migrations"})
	if err != nil {
		sqlDB.Close()
		return nil, nil, errors.Wrap(err, "init db driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		sqlDB.Close()
		return nil, nil, errors.Wrap(err, "init migrate")
	}
	return m, func() {
		m.Close()
		sqlDB.Close()
	}, nil
}
