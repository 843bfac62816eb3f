package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bibliofind/internal/books"
	"github.com/MrSnakeDoc/bibliofind/internal/catalog"
	"github.com/MrSnakeDoc/bibliofind/internal/catalog/googlebooks"
	"github.com/MrSnakeDoc/bibliofind/internal/catalog/mock"
	"github.com/MrSnakeDoc/bibliofind/internal/catalog/openlibrary"
	"github.com/MrSnakeDoc/bibliofind/internal/config"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver"
	"github.com/MrSnakeDoc/bibliofind/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bibliofind/internal/logger"
	"github.com/MrSnakeDoc/bibliofind/internal/redis"
	"github.com/MrSnakeDoc/bibliofind/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/bibliofind/internal/store/redis"
	"github.com/MrSnakeDoc/bibliofind/internal/summary"
	"github.com/MrSnakeDoc/bibliofind/internal/version"
	"github.com/MrSnakeDoc/bibliofind/internal/wishlist"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reloader    *scheduler.CatalogReloader // nil unless the mock catalog is active
	gemini      *summary.Gemini            // nil when summaries are disabled
}

// New wires every component from cfg. Redis, when configured, must be
// reachable before the app starts.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a := &App{cfg: cfg, logger: loggerClient}

	var store *redisstore.Store
	if cfg.RedisEnabled() {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")
		a.redisClient = client
		store = redisstore.NewStore(client)
	} else {
		loggerClient.Info("redis not configured, wishlist kept in memory and caching disabled")
	}

	src, mockSrc, err := newSource(cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	var reloadTrigger chan struct{}
	var catalogStats deps.CatalogStats
	if mockSrc != nil {
		reloadTrigger = make(chan struct{}, 1)
		catalogStats = mockSrc
		var flusher scheduler.CacheFlusher
		if store != nil {
			flusher = store.CatalogCache()
		}
		a.reloader = scheduler.NewCatalogReloader(
			mockSrc,
			flusher,
			loggerClient,
			cfg.CatalogReloadInterval,
			reloadTrigger,
		)
	}

	if store != nil && cfg.CatalogCacheTTL > 0 {
		src = catalog.NewCachedSource(src, store.CatalogCache(), cfg.CatalogCacheTTL, loggerClient)
	}

	bookService := books.New(src, books.Options{
		DefaultQuery:    cfg.DefaultQuery,
		RecommendQuery:  cfg.RecommendQuery,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		RecommendLimit:  cfg.RecommendLimit,
		OverFetchFactor: cfg.OverFetchFactor,
	}, loggerClient)

	var wishlistStorage wishlist.Storage = wishlist.NewMemoryStorage()
	if store != nil {
		wishlistStorage = store.Wishlist()
	}
	wishlistService := wishlist.New(ctx, wishlistStorage, loggerClient)

	summarizer, err := a.newSummarizer(ctx, store)
	if err != nil {
		return nil, err
	}

	d := deps.Deps{
		Logger:           loggerClient,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		TimeNow:          time.Now,
		TrustProxy:       cfg.TrustProxy,
		CatalogProvider:  cfg.CatalogProvider,
		Books:            bookService,
		Wishlist:         wishlistService,
		Summarizer:       summarizer,
		SummariesEnabled: a.gemini != nil,
		CatalogStats:     catalogStats,
		ReloadTrigger:    reloadTrigger,

		ReloadAllowedCIDRs: cfg.ReloadAllowedCIDRs,
		ReloadAllowedHosts: cfg.ReloadAllowedHosts,
	}
	if store != nil {
		d.Redis = store
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

// newSource builds the configured catalog backend. The mock source is also
// returned on its own so it can be reloaded.
func newSource(cfg *config.Config, log logger.Logger) (catalog.Source, *mock.Source, error) {
	clientFor := func(defaultBase string) *catalog.Client {
		base := cfg.CatalogBaseURL
		if base == "" {
			base = defaultBase
		}
		return catalog.NewClient(catalog.ClientOptions{
			BaseURL:           base,
			UserAgent:         cfg.CatalogUserAgent,
			Timeout:           cfg.CatalogTimeout,
			RequestsPerSecond: cfg.CatalogRPS,
			Burst:             cfg.CatalogBurst,
			PacingDelay:       cfg.CatalogPacingDelay,
		})
	}

	switch cfg.CatalogProvider {
	case config.ProviderOpenLibrary:
		return openlibrary.New(clientFor(openlibrary.DefaultBaseURL), log), nil, nil
	case config.ProviderGoogleBooks:
		return googlebooks.New(clientFor(googlebooks.DefaultBaseURL), cfg.GoogleBooksAPIKey), nil, nil
	case config.ProviderMock:
		src := mock.New(cfg.MockCatalogFile, []string{cfg.DefaultQuery, cfg.RecommendQuery}, log)
		return src, src, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog provider %q", cfg.CatalogProvider)
	}
}

func (a *App) newSummarizer(ctx context.Context, store *redisstore.Store) (summary.Summarizer, error) {
	if !a.cfg.SummariesEnabled() {
		a.logger.Info("no Gemini API key configured, summaries disabled")
		return summary.Disabled{}, nil
	}

	g, err := summary.NewGemini(ctx, summary.GeminiOptions{
		APIKey:      a.cfg.GeminiAPIKey,
		Model:       a.cfg.GeminiModel,
		Temperature: a.cfg.GeminiTemperature,
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}
	a.gemini = g

	if store != nil && a.cfg.SummaryCacheTTL > 0 {
		return summary.NewCached(g, store.SummaryCache(), a.cfg.SummaryCacheTTL, a.logger), nil
	}
	return g, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting %s v%s on %s", version.Name, version.Version, a.cfg.ListenPort)
	a.logger.Infof("%s %s (commit=%s, built=%s, go=%s, catalog=%s)",
		version.Name, version.Version, version.Commit, version.BuildDate, version.GoVersion, a.cfg.CatalogProvider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start catalog reloader: %w", err)
		}
		a.logger.Info("catalog reloader started",
			logger.Duration("interval", a.cfg.CatalogReloadInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.close()
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.close()
	a.logger.Infof("✅ %s stopped cleanly", version.Name)
	_ = a.logger.Sync()
	return nil
}

func (a *App) close() {
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			a.logger.Warnf("failed to close gemini client: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}
}
