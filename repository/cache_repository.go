package repository

import "context"

// CacheRepository caches assembled response documents. The deterministic
// pipeline makes identical requests byte-identical, so caching them is safe.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
