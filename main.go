package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"seoulfit/discoveryworker/config"
	"seoulfit/discoveryworker/internal/api"
	"seoulfit/discoveryworker/internal/browser"
	"seoulfit/discoveryworker/internal/catalog"
	"seoulfit/discoveryworker/internal/crawler"
	"seoulfit/discoveryworker/logger"
	"seoulfit/discoveryworker/services/cache"
	"seoulfit/discoveryworker/services/publisher"
	"seoulfit/discoveryworker/services/snapshot"
	"seoulfit/discoveryworker/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("listen_addr", cfg.ListenAddr).
		Dur("snapshot_ttl", cfg.SnapshotTTL).
		Msg("Starting discovery worker")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Load the brand catalog
	cat, err := catalog.Load(cfg.BrandsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load brand catalog")
	}
	log.Info().Int("brands", cat.Len()).Str("path", cfg.BrandsPath).Msg("Brand catalog loaded")

	// Load the snapshot store
	store := snapshot.Load(cfg.SnapshotPath)
	log.Info().Int("entries", store.Len()).Str("path", cfg.SnapshotPath).Msg("Snapshot store loaded")

	// Optional infrastructure
	var blockCache cache.CacheService
	if cfg.MemcacheAddr != "" {
		blockCache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		redisPub := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		defer redisPub.Close()
		pub = redisPub
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	// Crawl agent over the configured renderer
	agent := crawler.NewBrandCrawler(newRenderer(&cfg), blockCache, agentConfig(&cfg))

	// Discovery worker
	w := worker.NewWorker(agent, store, pub, worker.Config{
		BrandDelay:      cfg.BrandDelay,
		SnapshotTTL:     cfg.SnapshotTTL,
		EnrichLimit:     cfg.EnrichLimit,
		RefreshInterval: cfg.RefreshInterval,
	})

	// Periodic refresh loop, if configured
	go w.Run(ctx, cat, false)

	// HTTP entry points
	handler := api.NewHandler(cat, store, w, agent)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.SetupRouter(cfg.Environment, handler),
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		serverDone <- server.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if err := store.Persist(); err != nil {
		log.Error().Err(err).Msg("Failed to persist snapshot store on shutdown")
	}
}

// newRenderer picks the rendering strategy. Chrome covers the origin's
// client-rendered listings; the plain HTTP fallback is for environments
// without a browser, where extraction quality degrades.
func newRenderer(cfg *config.Config) browser.Renderer {
	if cfg.ChromeEnabled {
		return browser.NewChromeRenderer(cfg.UserAgent, cfg.AcceptLanguage, cfg.ChromeHeadless)
	}
	logger.Warn("Chrome rendering disabled, falling back to plain HTTP fetches")
	return browser.NewHTTPRenderer()
}

// agentConfig maps the environment-driven settings onto the crawl agent.
func agentConfig(cfg *config.Config) crawler.AgentConfig {
	agentCfg := crawler.DefaultAgentConfig()
	agentCfg.Listing.MaxItems = cfg.MaxListItems
	agentCfg.Listing.AscentDepth = cfg.CardDepth
	agentCfg.Listing.MinPriceDigits = cfg.MinPriceDigits
	agentCfg.ListingTimeout = cfg.ListingTimeout
	agentCfg.ListingSettle = cfg.ListingSettle
	agentCfg.DetailTimeout = cfg.DetailTimeout
	agentCfg.DetailSettle = cfg.DetailSettle
	agentCfg.DetailDelay = cfg.DetailDelay
	agentCfg.MaxDetailImages = cfg.MaxDetailImgs
	agentCfg.BlockTime = cfg.CrawlBlockTime
	return agentCfg
}
