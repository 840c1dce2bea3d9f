package kv

import (
	"context"
	"log"

	"github.com/go-faster/errors"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/config"
	"github.com/mastermahi08/Silkspeed-veersion01/internal/db"
)

// Open builds the repository selected by cfg.StorageDriver. The returned
// close function releases any pool or connection it opened.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (Repository, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return NewMemory(), func() {}, nil
	case config.DriverFile, "":
		repo, err := NewFile(cfg.StorageDir, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect db")
		}
		return NewPostgres(pool, logger), pool.Close, nil
	case config.DriverRedis:
		repo, err := NewRedis(ctx, cfg.RedisAddr, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	default:
		return nil, nil, errors.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
