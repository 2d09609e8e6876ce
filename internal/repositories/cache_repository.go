package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface — байтовый кэш без знания о содержимом.
// Промах кэша возвращает apperrors.ErrNotFound.
type CacheRepositoryInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
