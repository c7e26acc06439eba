package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"finadvisor/internal/adapters/ai"
	"finadvisor/internal/adapters/config"
	"finadvisor/internal/adapters/errors/noop"
	"finadvisor/internal/adapters/errors/sentry"
	"finadvisor/internal/adapters/marketdata"
	"finadvisor/internal/adapters/marketdata/yahoo"
	"finadvisor/internal/adapters/redis"
	"finadvisor/internal/agents"
	"finadvisor/internal/api/health"
	"finadvisor/internal/console"
	"finadvisor/internal/domain/market_data"
	"finadvisor/internal/metrics"
	"finadvisor/internal/tools/catalog"
	"finadvisor/internal/tools/shared"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
	"finadvisor/pkg/templates"
)

var version = "dev"

func main() {
	demo := flag.Bool("demo", false, "Run the scripted two-advisor demo instead of onboarding")
	symbol := flag.String("symbol", "", "Ticker for demo mode (default depends on DEFAULT_MARKET)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infow("Starting", "app", cfg.App.Name, "env", cfg.App.Env, "version", version)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = errorTracker.Flush(flushCtx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.Runtime.WorkDir, 0o755); err != nil {
		log.Warnw("Cannot create work dir", "dir", cfg.Runtime.WorkDir, "error", err)
	}

	prompts, err := templates.NewRegistryWithOverride(promptOverrideDir(cfg.Runtime))
	if err != nil {
		log.Fatalf("Failed to load prompts: %v", err)
	}

	provider, checks, closeMarketData := initMarketData(ctx, cfg, log)
	defer closeMarketData()

	if cfg.Metrics.Enabled {
		metrics.Init()
		healthHandler := health.New(log, cfg.App.Name, version, checks)
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, healthHandler.Routes); err != nil {
				log.Warnw("Metrics server stopped", "error", err)
			}
		}()
	}

	registry, err := catalog.Build(shared.Deps{MarketData: provider, Log: log})
	if err != nil {
		log.Fatalf("Failed to build tool registry: %v", err)
	}

	chat, err := ai.NewChatProvider(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize chat provider: %v", err)
	}

	prompter := console.NewPrompter(os.Stdin, os.Stdout)
	defer prompter.Close()
	team, err := agents.NewTeam(agents.TeamConfig{
		Templates:   prompts,
		Registry:    registry,
		Provider:    chat,
		Tracker:     errorTracker,
		Temperature: cfg.LLM.Temperature,
		Observer:    console.Observer(prompter),
		Logger:      log,
	})
	if err != nil {
		log.Fatalf("Failed to build advisors: %v", err)
	}

	session := console.NewSession(console.SessionConfig{
		Prompter:      prompter,
		Templates:     prompts,
		Stock:         team.Stock,
		Financial:     team.Financial,
		DefaultMarket: cfg.Runtime.DefaultMarket,
		MaxRounds:     cfg.Runtime.MaxToolRounds,
		Logger:        log,
	})

	if *demo {
		ticker := *symbol
		if ticker == "" {
			ticker = cfg.Runtime.DefaultSymbol()
		}
		err = session.RunDemo(ctx, ticker)
	} else {
		err = session.Run(ctx)
	}
	if err != nil {
		log.ErrorWithContext(ctx, err, map[string]string{"component": "console"})
		_ = logger.Sync()
		os.Exit(1)
	}
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Debugw("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, version)
	if err != nil {
		log.Warnw("Failed to initialize Sentry", "error", err)
		return noop.New()
	}

	log.Infow("Error tracking initialized (Sentry)")
	return tracker
}

// initMarketData builds the Yahoo client, wrapped in a Redis cache when enabled.
// It also returns the health checks of what it connected and a func that
// releases the cache connection.
func initMarketData(ctx context.Context, cfg *config.Config, log *logger.Logger) (market_data.Provider, map[string]health.Check, func()) {
	client := yahoo.NewClient(yahoo.Config{
		BaseURL:           cfg.MarketData.BaseURL,
		Timeout:           cfg.MarketData.Timeout,
		RequestsPerMinute: cfg.MarketData.RequestsPerMinute,
	})

	if !cfg.Redis.Enabled {
		return client, nil, func() {}
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Warnw("Redis unavailable, market data will not be cached", "addr", cfg.Redis.Addr(), "error", err)
		return client, nil, func() {}
	}

	log.Infow("Market data cache enabled", "addr", cfg.Redis.Addr(), "ttl", cfg.MarketData.CacheTTL)
	checks := map[string]health.Check{"redis": rdb.Health}
	return marketdata.NewCachedProvider(client, rdb, cfg.MarketData.CacheTTL), checks, func() {
		if err := rdb.Close(); err != nil {
			log.Warnw("Failed to close redis", "error", err)
		}
	}
}

// promptOverrideDir prefers PROMPTS_DIR, then a prompts/ folder inside the work dir.
func promptOverrideDir(rt config.RuntimeConfig) string {
	if rt.PromptsDir != "" {
		return rt.PromptsDir
	}
	if info, err := os.Stat(filepath.Join(rt.WorkDir, "prompts")); err == nil && info.IsDir() {
		return rt.WorkDir
	}
	return ""
}
