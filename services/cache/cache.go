package cache

import (
	"time"
)

// CacheService is a generic byte cache with expiry. The discovery worker
// uses it for crawl-block keys: short-lived markers that keep a brand from
// being re-navigated right after a failed session, across processes.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
