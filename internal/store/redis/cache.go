package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is one key namespace of the store. Catalog responses and summaries
// live in separate namespaces so a catalog flush leaves summaries alone.
type Cache struct {
	store  *Store
	keyFor func(string) string
	prefix string
}

// CatalogCache returns the namespace of cached catalog responses
func (s *Store) CatalogCache() *Cache {
	return &Cache{store: s, keyFor: CatalogKey, prefix: KeyPrefixCatalog}
}

// SummaryCache returns the namespace of cached summaries
func (s *Store) SummaryCache() *Cache {
	return &Cache{store: s, keyFor: SummaryKey}
}

// Get retrieves a cached value. A miss returns (nil, false, nil).
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.store.client.Get(ctx, c.keyFor(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return data, true, nil
}

// Set stores a value with the given TTL (0 = no expiry)
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.store.client.Set(ctx, c.keyFor(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry: %w", err)
	}
	return nil
}

// FlushCache removes every entry of the namespace. The summary namespace
// shares its prefix with the wishlist and cannot be flushed.
func (c *Cache) FlushCache(ctx context.Context) error {
	if c.prefix == "" {
		return errors.New("cache namespace cannot be flushed")
	}

	iter := c.store.client.Scan(ctx, 0, scanPattern(c.prefix), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.store.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}
