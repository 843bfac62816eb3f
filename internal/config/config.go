package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "BIBLIOFIND_"

// loopback and private ranges
const defaultReloadCIDRs = "127.0.0.0/8,::1/128,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16"

// Catalog providers
const (
	ProviderOpenLibrary = "openlibrary"
	ProviderGoogleBooks = "googlebooks"
	ProviderMock        = "mock"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request handler timeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Catalog
	CatalogProvider    string        // "openlibrary" | "googlebooks" | "mock"
	CatalogBaseURL     string        // empty => provider default
	CatalogUserAgent   string        // sent to the catalog provider
	CatalogTimeout     time.Duration // outbound HTTP timeout
	CatalogRPS         float64       // outbound requests per second, 0 = unlimited
	CatalogBurst       int           // outbound burst
	CatalogPacingDelay time.Duration // fixed delay before each outbound call (default: 0)
	GoogleBooksAPIKey  string        // optional, raises the anonymous quota
	CatalogCacheTTL    time.Duration // 0 disables the response cache

	// Mock catalog
	MockCatalogFile       string        // path to the YAML seed file
	CatalogReloadInterval time.Duration // interval to reload the seed file (default: 24h)

	// Search & recommendations
	DefaultQuery    string // used when the search box is empty
	RecommendQuery  string // used when there is no reference book
	DefaultPageSize int
	MaxPageSize     int
	RecommendLimit  int
	OverFetchFactor int // candidates fetched per recommendation slot

	// Summaries
	GeminiAPIKey      string        // empty => summaries disabled
	GeminiModel       string        // ex: "gemini-1.5-flash"
	GeminiTemperature float64       // 0..2
	SummaryCacheTTL   time.Duration // 0 disables the summary cache

	// Redis (optional: empty address => in-memory wishlist, no cache)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// HTTP surface
	CORSOrigins    []string // UI origins allowed to call the API
	RateLimitRPS   float64  // per-client requests per second on /api, 0 = unlimited
	RateLimitBurst int
	TrustProxy     bool // true => trust X-Forwarded-For / X-Real-IP for the client IP

	// Catalog reload endpoint
	ReloadAllowedCIDRs []string // client IPs/CIDRs allowed to trigger a reload, empty = any
	ReloadAllowedHosts []string // Host headers accepted on the reload route, empty = any
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding the real environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("LOG_LEVEL", "info"),
		PrettyLog: mustBool("PRETTY_LOG", true),

		// Catalog
		CatalogProvider:    mustOneOf("CATALOG_PROVIDER", ProviderOpenLibrary, ProviderOpenLibrary, ProviderGoogleBooks, ProviderMock),
		CatalogBaseURL:     getenv("CATALOG_BASE_URL", ""),
		CatalogUserAgent:   getenv("CATALOG_USER_AGENT", "bibliofind/1.0 (+https://github.com/MrSnakeDoc/bibliofind)"),
		CatalogTimeout:     mustDuration("CATALOG_TIMEOUT", 15*time.Second),
		CatalogRPS:         getenvFloat("CATALOG_RPS", 5),
		CatalogBurst:       getenvInt("CATALOG_BURST", 2),
		CatalogPacingDelay: mustDuration("CATALOG_PACING_DELAY", 0),
		GoogleBooksAPIKey:  getenv("GOOGLE_BOOKS_API_KEY", ""),
		CatalogCacheTTL:    mustDuration("CATALOG_CACHE_TTL", time.Hour),

		MockCatalogFile:       getenv("MOCK_CATALOG_FILE", "/app/catalog.yaml"),
		CatalogReloadInterval: mustDuration("CATALOG_RELOAD_INTERVAL", 24*time.Hour),

		// Search & recommendations
		DefaultQuery:    getenv("DEFAULT_QUERY", "popular books"),
		RecommendQuery:  getenv("RECOMMEND_QUERY", "bestselling programming books"),
		DefaultPageSize: getenvInt("DEFAULT_PAGE_SIZE", 20),
		MaxPageSize:     getenvInt("MAX_PAGE_SIZE", 100),
		RecommendLimit:  getenvInt("RECOMMEND_LIMIT", 3),
		OverFetchFactor: getenvInt("RECOMMEND_OVERFETCH", 3),

		// Summaries
		GeminiAPIKey:      getenvAny([]string{envPrefix + "GEMINI_API_KEY", "GEMINI_API_KEY"}, ""),
		GeminiModel:       getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiTemperature: getenvFloat("GEMINI_TEMPERATURE", 0.2),
		SummaryCacheTTL:   mustDuration("SUMMARY_CACHE_TTL", 7*24*time.Hour),

		// Redis settings
		RedisAddr:           getenv("REDIS_ADDR", ""),
		RedisUser:           getenv("REDIS_USERNAME", ""),
		RedisPassword:       getenv("REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// HTTP surface
		CORSOrigins:    splitAndTrim(getenv("CORS_ORIGINS", "http://localhost:9002")),
		RateLimitRPS:   getenvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getenvInt("RATE_LIMIT_BURST", 20),
		TrustProxy:     mustBool("TRUST_PROXY", false),

		ReloadAllowedCIDRs: splitAndTrim(getenv("RELOAD_ALLOWED_CIDRS", defaultReloadCIDRs)),
		ReloadAllowedHosts: splitAndTrim(getenv("RELOAD_ALLOWED_HOSTS", "")),
	}

	cfg.clamp()

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = redact(cfg.RedisPassword)
		cfgCopy.GeminiAPIKey = redact(cfg.GeminiAPIKey)
		cfgCopy.GoogleBooksAPIKey = redact(cfg.GoogleBooksAPIKey)
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// SummariesEnabled reports whether a Gemini key is configured.
func (c *Config) SummariesEnabled() bool { return c.GeminiAPIKey != "" }

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// clamp brings numeric settings back into their valid ranges.
func (c *Config) clamp() {
	if c.MaxPageSize < 1 {
		c.MaxPageSize = 100
	}
	if c.DefaultPageSize < 1 {
		c.DefaultPageSize = 20
	}
	c.DefaultPageSize = min(c.DefaultPageSize, c.MaxPageSize)
	if c.RecommendLimit < 1 {
		c.RecommendLimit = 3
	}
	if c.OverFetchFactor < 1 {
		c.OverFetchFactor = 3
	}
	if c.CatalogRPS < 0 {
		c.CatalogRPS = 0
	}
	if c.CatalogBurst < 1 {
		c.CatalogBurst = 1
	}
	if c.CatalogPacingDelay < 0 {
		c.CatalogPacingDelay = 0
	}
	c.GeminiTemperature = min(max(c.GeminiTemperature, 0), 2)
	if c.RateLimitRPS < 0 {
		c.RateLimitRPS = 0
	}
	if c.RateLimitBurst < 1 {
		c.RateLimitBurst = 1
	}
	if c.CatalogReloadInterval <= 0 {
		c.CatalogReloadInterval = 24 * time.Hour
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

// getenvAny returns the first non-empty variable among full keys.
func getenvAny(keys []string, def string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(envPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(envPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustOneOf returns the lowercased value of key, or def when unset.
// Any other value is a configuration error.
func mustOneOf(key, def string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(getenv(key, def)))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	panic(fmt.Sprintf("❌ FATAL: Invalid value for %s%s: %q (allowed: %s)",
		envPrefix, key, v, strings.Join(allowed, ", ")))
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func redact(v string) string {
	if v == "" {
		return ""
	}
	return "***REDACTED***"
}
