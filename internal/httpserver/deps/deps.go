package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/bibliofind/internal/books"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
	"github.com/MrSnakeDoc/bibliofind/internal/summary"
	"github.com/MrSnakeDoc/bibliofind/internal/wishlist"
)

// Pinger reports whether a backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogStats exposes the state of an in-memory catalog.
type CatalogStats interface {
	Count() int
	LastReload() time.Time
}

type Deps struct {
	Logger           logger.Logger
	StartTime        time.Time
	Version          string
	Commit           string
	BuildDate        string
	GoVersion        string
	TimeNow          func() time.Time   // for testing, defaults to time.Now
	TrustProxy       bool               // true if running behind a trusted reverse proxy
	CatalogProvider  string             // active catalog backend name
	Books            books.Catalog      // search, lookup and recommendations
	Wishlist         *wishlist.Service  // the single shared wishlist
	Summarizer       summary.Summarizer // summary.Disabled{} when no API key is set
	SummariesEnabled bool               // false when Summarizer is summary.Disabled
	Redis            Pinger             // nil when Redis is not configured
	CatalogStats     CatalogStats       // nil unless the mock catalog is active
	ReloadTrigger    chan struct{}      // manual catalog reload (nil unless the mock catalog is active)

	ReloadAllowedCIDRs []string // empty => reload open to any client IP
	ReloadAllowedHosts []string // empty => any Host header
}

// Now returns the injected clock or time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
