package kv

import (
	"context"
	"io"
	"log"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres stores values in the kv_entries table created by internal/migrate.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
SELECT value
FROM kv_entries
WHERE key = $1
`
	var value []byte
	if err := r.pool.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Printf("kv repo: get key=%s error=%v", key, err)
		return nil, err
	}
	return value, nil
}

func (r *postgresRepo) Set(ctx context.Context, key string, value []byte) error {
	const q = `
INSERT INTO kv_entries (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	if value == nil {
		value = []byte{}
	}
	if _, err := r.pool.Exec(ctx, q, key, value); err != nil {
		r.logger.Printf("kv repo: set key=%s bytes=%d error=%v", key, len(value), err)
		return err
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		r.logger.Printf("kv repo: delete key=%s error=%v", key, err)
		return err
	}
	return nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
