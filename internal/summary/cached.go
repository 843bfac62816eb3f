package summary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// Cache stores generated summaries. A miss is reported as (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cached memoizes another Summarizer, keyed by the SHA-256 of the trimmed
// description. Errors are never cached.
type Cached struct {
	next  Summarizer
	cache Cache
	ttl   time.Duration
	log   logger.Logger
}

var _ Summarizer = (*Cached)(nil)

// NewCached wraps s.
func NewCached(s Summarizer, cache Cache, ttl time.Duration, log logger.Logger) *Cached {
	return &Cached{next: s, cache: cache, ttl: ttl, log: log}
}

func (c *Cached) Summarize(ctx context.Context, req Request) (Response, error) {
	desc, err := cleanDescription(req)
	if err != nil {
		return Response{}, err
	}
	key := Key(desc)

	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.log.Warn("summary cache read failed", logger.Error(err))
	} else if ok {
		return Response{Summary: string(data)}, nil
	}

	resp, err := c.next.Summarize(ctx, Request{BookDescription: desc})
	if err != nil {
		return Response{}, err
	}

	if err := c.cache.Set(ctx, key, []byte(resp.Summary), c.ttl); err != nil {
		c.log.Warn("summary cache write failed", logger.Error(err))
	}
	return resp, nil
}

// Key returns the cache key for a description.
func Key(description string) string {
	sum := sha256.Sum256([]byte(description))
	return "summary:" + hex.EncodeToString(sum[:])
}
