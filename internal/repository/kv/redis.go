package kv

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-redis/redis/v8"
)

// RedisRepo keeps each value under its key as a plain Redis string.
type RedisRepo struct {
	client *redis.Client
	logger *log.Logger
}

// NewRedis accepts either a redis:// URL or a bare host:port address and
// verifies connectivity with a ping.
func NewRedis(ctx context.Context, addr string, logger *log.Logger) (*RedisRepo, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		}
	}
	repo := &RedisRepo{client: redis.NewClient(opts), logger: logger}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := repo.Ping(pingCtx); err != nil {
		repo.client.Close()
		return nil, errors.Wrapf(err, "redis ping %s", opts.Addr)
	}
	return repo, nil
}

func (r *RedisRepo) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		r.logger.Printf("kv redis: get key=%s error=%v", key, err)
		return nil, err
	}
	return val, nil
}

func (r *RedisRepo) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		r.logger.Printf("kv redis: set key=%s error=%v", key, err)
		return err
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (r *RedisRepo) Close() error {
	return r.client.Close()
}
