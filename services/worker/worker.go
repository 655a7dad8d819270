package worker

import (
	"context"
	"encoding/json"
	"time"

	"seoulfit/discoveryworker/internal/catalog"
	"seoulfit/discoveryworker/internal/crawler"
	"seoulfit/discoveryworker/logger"
	"seoulfit/discoveryworker/services/publisher"
	"seoulfit/discoveryworker/services/snapshot"
)

// Config tunes one discovery worker.
type Config struct {
	// BrandDelay paces the run: it is observed between every pair of
	// consecutive brands, cache hits included, so run duration stays
	// proportional to catalog size rather than cache state.
	BrandDelay time.Duration

	// SnapshotTTL is how long a brand's snapshot suppresses a re-crawl.
	SnapshotTTL time.Duration

	// EnrichLimit caps detail-page fetches per brand when enrichment is on.
	EnrichLimit int

	// RefreshInterval drives the periodic full-catalog refresh loop.
	// Zero disables the loop; Discover can still be called on demand.
	RefreshInterval time.Duration
}

// Worker runs sequential discovery over the brand catalog: one rendering
// session at a time, freshness-gated per brand, snapshots persisted at the
// end of each run.
type Worker struct {
	agent crawler.Agent
	store *snapshot.Store
	pub   publisher.Publisher // optional; nil disables publishing
	cfg   Config
}

// NewWorker creates a discovery worker. pub may be nil.
func NewWorker(agent crawler.Agent, store *snapshot.Store, pub publisher.Publisher, cfg Config) *Worker {
	return &Worker{
		agent: agent,
		store: store,
		pub:   pub,
		cfg:   cfg,
	}
}

// Discover walks the given brands in order and returns products per brand
// id. A brand with a fresh snapshot is served from the store; a stale or
// missing one triggers a crawl whose result (empty included) becomes the
// new snapshot entry. Freshly crawled batches are published; cached ones
// are not. The whole store is persisted once at the end.
func (w *Worker) Discover(ctx context.Context, brands []catalog.Brand, enrich bool) map[string][]crawler.Product {
	log := logger.ForWorker()
	start := time.Now()
	results := make(map[string][]crawler.Product, len(brands))
	crawled := 0

	for i, brand := range brands {
		if i > 0 && !pause(ctx, w.cfg.BrandDelay) {
			log.Warn().Msg("Discovery run cancelled mid-catalog")
			break
		}

		if w.store.Fresh(brand.ID, w.cfg.SnapshotTTL, time.Now()) {
			entry, _ := w.store.Get(brand.ID)
			results[brand.ID] = entry.Products
			log.Debug().Str("brand", brand.ID).Msg("Snapshot fresh, serving cached products")
			continue
		}

		products := w.agent.FetchProducts(ctx, brand.Target())
		if enrich && len(products) > 0 {
			products = w.agent.EnrichProducts(ctx, brand.ID, products, w.cfg.EnrichLimit)
		}
		if products == nil {
			products = []crawler.Product{}
		}
		crawled++

		// A failed crawl still gets a fresh empty entry, so the brand is
		// not retried until the TTL lapses.
		w.store.Put(brand.ID, snapshot.Entry{
			Products:  products,
			CrawledAt: time.Now(),
			BrandName: brand.NameKo,
		})
		results[brand.ID] = products

		w.publish(brand.ID, products)
	}

	if err := w.store.Persist(); err != nil {
		logger.ForStore().Error().Err(err).Msg("Failed to persist snapshot store")
	}

	if w.pub != nil && crawled > 0 {
		if err := w.pub.TrimStreams(); err != nil {
			logger.ForPublisher().Error().Err(err).Msg("Failed to trim product streams")
		}
	}

	log.Info().
		Int("brands", len(brands)).
		Int("crawled", crawled).
		Dur("elapsed", time.Since(start)).
		Msg("Discovery run finished")

	return results
}

// Run refreshes the full catalog on the configured interval until the
// context is cancelled. A zero interval disables the loop.
func (w *Worker) Run(ctx context.Context, cat *catalog.Catalog, enrich bool) {
	if w.cfg.RefreshInterval <= 0 {
		logger.ForWorker().Info().Msg("Periodic refresh disabled")
		return
	}

	ticker := time.NewTicker(w.cfg.RefreshInterval)
	defer ticker.Stop()

	w.Discover(ctx, cat.Brands(), enrich)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Discover(ctx, cat.Brands(), enrich)
		}
	}
}

// publish sends one freshly crawled batch downstream. Empty batches are not
// worth a message.
func (w *Worker) publish(brandID string, products []crawler.Product) {
	if w.pub == nil || len(products) == 0 {
		return
	}

	batch, err := json.Marshal(products)
	if err != nil {
		logger.ForPublisher().Error().Err(err).Str("brand", brandID).Msg("Failed to encode product batch")
		return
	}
	if err := w.pub.Publish(brandID, batch); err != nil {
		logger.LogError("publisher", err, "failed to publish batch for %s", brandID)
	}
}

// pause sleeps for d unless the context ends first; it reports whether the
// run should continue.
func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
