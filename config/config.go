package config

import (
	"os"
	"strconv"
	"time"

	apperr "seoulfit/discoveryworker/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// HTTP server
	ListenAddr string

	// Catalog and snapshot paths
	BrandsPath   string
	SnapshotPath string

	// Headless browser
	ChromeEnabled  bool
	ChromeHeadless bool
	UserAgent      string
	AcceptLanguage string

	// Listing crawl
	ListingTimeout time.Duration
	ListingSettle  time.Duration
	MaxListItems   int
	CardDepth      int
	MinPriceDigits int

	// Detail enrichment
	DetailTimeout time.Duration
	DetailSettle  time.Duration
	DetailDelay   time.Duration
	EnrichLimit   int
	MaxDetailImgs int

	// Orchestration
	BrandDelay      time.Duration
	SnapshotTTL     time.Duration
	CrawlBlockTime  time.Duration
	RefreshInterval time.Duration

	// Memcache configuration (crawl-block keys; empty disables)
	MemcacheAddr string

	// Redis configuration (product batch streams; empty disables)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	return Config{
		ListenAddr:   getEnv("LISTEN_ADDR", ":8090"),
		BrandsPath:   getEnv("BRANDS_PATH", "data/kpop-brands.json"),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "data/musinsa-cache.json"),

		ChromeEnabled:  getEnvBool("CHROME_ENABLED", true),
		ChromeHeadless: getEnvBool("CHROME_HEADLESS", true),
		UserAgent: getEnv("CRAWL_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		AcceptLanguage: getEnv("CRAWL_ACCEPT_LANGUAGE", "ko-KR,ko;q=0.9"),

		ListingTimeout: getEnvDuration("LISTING_TIMEOUT_SECONDS", 30),
		ListingSettle:  getEnvDuration("LISTING_SETTLE_SECONDS", 5),
		MaxListItems:   getEnvInt("MAX_LISTING_ITEMS", 12),
		CardDepth:      getEnvInt("CARD_ASCENT_DEPTH", 8),
		MinPriceDigits: getEnvInt("MIN_PRICE_DIGITS", 4),

		DetailTimeout: getEnvDuration("DETAIL_TIMEOUT_SECONDS", 25),
		DetailSettle:  getEnvDuration("DETAIL_SETTLE_SECONDS", 4),
		DetailDelay:   getEnvDuration("DETAIL_DELAY_SECONDS", 2),
		EnrichLimit:   getEnvInt("ENRICH_LIMIT", 6),
		MaxDetailImgs: getEnvInt("MAX_DETAIL_IMAGES", 8),

		BrandDelay:      getEnvDuration("BRAND_DELAY_SECONDS", 3),
		SnapshotTTL:     getEnvDuration("SNAPSHOT_TTL_SECONDS", 6*3600),
		CrawlBlockTime:  getEnvDuration("CRAWL_BLOCK_SECONDS", 300),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL_SECONDS", 0),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", ""),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "products"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,

		Environment: getEnv("SEOULFIT_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for unusable values
func (c *Config) Validate() error {
	if c.BrandsPath == "" {
		return apperr.NewConfiguration("BRANDS_PATH must not be empty", nil)
	}
	if c.SnapshotPath == "" {
		return apperr.NewConfiguration("SNAPSHOT_PATH must not be empty", nil)
	}
	if c.SnapshotTTL <= 0 {
		return apperr.NewConfiguration("SNAPSHOT_TTL_SECONDS must be positive", nil)
	}
	if c.MaxListItems <= 0 || c.MaxDetailImgs <= 0 {
		return apperr.NewConfiguration("listing/detail item caps must be positive", nil)
	}
	if c.CardDepth <= 0 {
		return apperr.NewConfiguration("CARD_ASCENT_DEPTH must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvDuration retrieves a second-granularity duration or returns a default
func getEnvDuration(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}
