package kv

import (
	"context"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
)

// ErrNotFound is returned by Get for a key that has never been written or was
// deleted.
var ErrNotFound = domain.ErrNotFound

// Repository is durable key/value storage.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
