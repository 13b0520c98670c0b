package storage

import (
	"context"
	"fmt"

	"github.com/co2tracker/co2tracker/internal/config"
)

// PhotoStorage keeps user profile photos by object key.
// Get returns (nil, nil) when the object does not exist; Delete of a missing object is not an error.
type PhotoStorage interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New builds the storage selected by cfg.Type ("local" or "s3").
func New(ctx context.Context, cfg config.Storage) (PhotoStorage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.LocalPath), nil
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
