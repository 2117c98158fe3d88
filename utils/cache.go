package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Product cache keys shared by the catalog read path and every write path
// that changes product rows, including settlement stock decrements.
const (
	AllProductsCacheKey = "all_products"
	ProductCacheTTL     = 5 * time.Minute

	productCachePrefix = "product:"
)

// ProductCacheKey returns the cache key for a single product entry.
func ProductCacheKey(id uuid.UUID) string {
	return productCachePrefix + id.String()
}

// InvalidateProductCache drops the cached product list plus the given product
// entries in the background. Best-effort: a nil client is a no-op and errors
// are ignored.
func InvalidateProductCache(client *redis.Client, ids ...uuid.UUID) {
	if client == nil {
		return
	}
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, AllProductsCacheKey)
	for _, id := range ids {
		keys = append(keys, ProductCacheKey(id))
	}
	go client.Del(context.Background(), keys...)
}
