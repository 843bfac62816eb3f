package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/domain"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// Cache is the byte-oriented key/value store behind CachedSource.
// A miss is reported as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedSource is a read-through cache in front of another Source.
// Only successful pages and lookups are stored; cache failures degrade to
// a direct call.
type CachedSource struct {
	next  Source
	cache Cache
	ttl   time.Duration
	log   logger.Logger
}

// NewCachedSource wraps src.
func NewCachedSource(src Source, cache Cache, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{next: src, cache: cache, ttl: ttl, log: log}
}

func (c *CachedSource) Name() string { return c.next.Name() }

// MaxPageSize forwards the page cap of the wrapped source.
func (c *CachedSource) MaxPageSize() int { return MaxPageSize(c.next) }

func (c *CachedSource) Search(ctx context.Context, q Query) (Page, error) {
	key := searchKey(c.next.Name(), q)

	var page Page
	if c.load(ctx, key, &page) {
		return page, nil
	}

	page, err := c.next.Search(ctx, q)
	if err != nil {
		return Page{}, err
	}
	c.store(ctx, key, page)
	return page, nil
}

func (c *CachedSource) Lookup(ctx context.Context, id string) (domain.Book, error) {
	key := lookupKey(c.next.Name(), id)

	var book domain.Book
	if c.load(ctx, key, &book) {
		return book, nil
	}

	book, err := c.next.Lookup(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	c.store(ctx, key, book)
	return book, nil
}

func (c *CachedSource) load(ctx context.Context, key string, target any) bool {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn("catalog cache read failed", logger.String("key", key), logger.Error(err))
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, target); err != nil {
		c.log.Warn("catalog cache entry unreadable", logger.String("key", key), logger.Error(err))
		return false
	}
	return true
}

func (c *CachedSource) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("catalog cache encode failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.log.Warn("catalog cache write failed", logger.String("key", key), logger.Error(err))
	}
}

func searchKey(source string, q Query) string {
	text := strings.ToLower(strings.Join(strings.Fields(q.Text), " "))
	return fmt.Sprintf("%s:search:%d:%d:%s", source, q.Page, q.PageSize, text)
}

func lookupKey(source, id string) string {
	return source + ":book:" + id
}
