package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"seoulfit/discoveryworker/internal/browser"
	"seoulfit/discoveryworker/logger"
	apperr "seoulfit/discoveryworker/pkg/errors"
	"seoulfit/discoveryworker/services/cache"
)

// AgentConfig parameterizes one crawl agent. The variations between listing
// and detail crawls (delays, timeouts, caps) are configuration, not separate
// code paths.
type AgentConfig struct {
	Listing ListingConfig

	// Listing page rendering
	ListingTimeout time.Duration
	ListingSettle  time.Duration
	QuietWindow    time.Duration

	// Detail page rendering
	DetailTimeout   time.Duration
	DetailSettle    time.Duration
	DetailDelay     time.Duration
	MaxDetailImages int

	// SortParam is appended to the listing URL; popularity order keeps the
	// first page representative.
	SortParam string
	// DetailURLBase prefixes a goods number to form a detail page URL.
	DetailURLBase string

	// BlockTime is how long a brand is skipped after a failed navigation.
	// Applies only when a block cache is attached.
	BlockTime time.Duration
}

// DefaultAgentConfig returns the crawl parameters tuned against the origin.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Listing:         DefaultListingConfig(),
		ListingTimeout:  30 * time.Second,
		ListingSettle:   5 * time.Second,
		QuietWindow:     500 * time.Millisecond,
		DetailTimeout:   25 * time.Second,
		DetailSettle:    4 * time.Second,
		DetailDelay:     2 * time.Second,
		MaxDetailImages: 8,
		SortParam:       "sortCode=POPULAR",
		DetailURLBase:   "https://www.musinsa.com/products/",
		BlockTime:       5 * time.Minute,
	}
}

// BrandCrawler drives one rendering session per brand and turns the rendered
// markup into products. Navigation and render failures stay inside the
// crawler: callers always get a batch, possibly empty.
type BrandCrawler struct {
	renderer   browser.Renderer
	blockCache cache.CacheService // optional; nil disables failure blocking
	cfg        AgentConfig
}

var _ Agent = (*BrandCrawler)(nil)

// NewBrandCrawler creates a crawl agent over the given renderer. blockCache
// may be nil.
func NewBrandCrawler(renderer browser.Renderer, blockCache cache.CacheService, cfg AgentConfig) *BrandCrawler {
	return &BrandCrawler{
		renderer:   renderer,
		blockCache: blockCache,
		cfg:        cfg,
	}
}

// FetchProducts renders a brand's listing page and extracts its products.
// Every failure mode degrades to an empty batch.
func (c *BrandCrawler) FetchProducts(ctx context.Context, target BrandTarget) []Product {
	log := logger.ForBrand(target.ID)

	if target.ListingURL == "" {
		log.Warn().Msg("Brand has no listing URL, skipping crawl")
		return []Product{}
	}

	blockKey := target.ID + "_crawl_blocked"
	if c.blockCache != nil {
		if _, err := c.blockCache.Get(blockKey); err == nil {
			log.Info().Msg("Brand is crawl-blocked after a recent failure, skipping")
			return []Product{}
		}
	}

	url := withSortParam(target.ListingURL, c.cfg.SortParam)
	log.Info().Str("url", url).Msg("Crawling brand listing")

	html, err := c.renderer.Render(ctx, url, browser.RenderOptions{
		Timeout:     c.cfg.ListingTimeout,
		QuietWindow: c.cfg.QuietWindow,
		Settle:      c.cfg.ListingSettle,
	})
	if err != nil {
		log.Error().Err(err).Msg("Listing render failed")
		c.blockBrand(blockKey)
		return []Product{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Error().Err(err).Msg("Listing parse failed")
		return []Product{}
	}

	products := ExtractListing(doc, target.Name, c.cfg.Listing)
	withImage := 0
	for _, p := range products {
		if p.ImageURL != "" {
			withImage++
		}
	}
	log.Info().
		Int("products", len(products)).
		Int("with_image", withImage).
		Msg("Listing extracted")

	return products
}

// EnrichProducts opens detail pages for up to limit products that carry a
// goods number and merges extra images and attributes into them. A failed
// detail fetch leaves that product's base fields untouched.
func (c *BrandCrawler) EnrichProducts(ctx context.Context, brand string, products []Product, limit int) []Product {
	log := logger.ForBrand(brand)

	fetched := 0
	for i := range products {
		if fetched >= limit {
			break
		}
		p := &products[i]
		if p.GoodsNo == "" {
			continue
		}
		if fetched > 0 {
			// Detail pages get a shorter pacing delay than brand listings.
			time.Sleep(c.cfg.DetailDelay)
		}
		fetched++

		detail, err := c.FetchDetail(ctx, p.GoodsNo)
		if err != nil {
			log.Warn().Err(err).Str("goods_no", p.GoodsNo).Msg("Detail fetch failed")
			continue
		}

		mergeDetail(p, detail)
	}

	return products
}

// FetchDetail renders one product-detail page and extracts its images and
// attributes. Unlike listing crawls, failures propagate: the caller asked
// for this one product and needs to know it is unavailable.
func (c *BrandCrawler) FetchDetail(ctx context.Context, goodsNo string) (Detail, error) {
	url := c.cfg.DetailURLBase + goodsNo
	html, err := c.renderer.Render(ctx, url, browser.RenderOptions{
		Timeout:     c.cfg.DetailTimeout,
		QuietWindow: c.cfg.QuietWindow,
		Settle:      c.cfg.DetailSettle,
	})
	if err != nil {
		return Detail{}, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Detail{}, apperr.NewParsing("", "failed to parse detail page for goods "+goodsNo, err)
	}

	return ExtractDetail(doc, c.cfg.MaxDetailImages), nil
}

// mergeDetail folds detail-page output into a product. Base fields are only
// backfilled when the listing left them empty.
func mergeDetail(p *Product, d Detail) {
	if len(d.ExtraImages) > 0 {
		p.ExtraImages = d.ExtraImages
	}
	if !d.Attributes.Empty() {
		attrs := d.Attributes
		p.Attributes = &attrs
	}
	if p.Name == "" && d.Title != "" {
		p.Name = d.Title
	}
	if p.PriceKRW == 0 && d.PriceKRW > 0 {
		p.PriceKRW = d.PriceKRW
	}
	if p.ImageURL == "" && len(d.ExtraImages) > 0 {
		p.ImageURL = d.ExtraImages[0]
	}
}

// blockBrand records a short-TTL block key so immediate retries after a
// failed navigation do not hammer the origin.
func (c *BrandCrawler) blockBrand(key string) {
	if c.blockCache == nil {
		return
	}
	value := []byte(fmt.Sprintf("%d", int(c.cfg.BlockTime/time.Second)))
	if err := c.blockCache.Set(key, value, c.cfg.BlockTime); err != nil {
		logger.Warn("Failed to set crawl-block key %s: %v", key, err)
	}
}

// withSortParam appends the popularity sort parameter to a listing URL.
func withSortParam(listingURL, param string) string {
	if param == "" {
		return listingURL
	}
	sep := "?"
	if strings.Contains(listingURL, "?") {
		sep = "&"
	}
	return listingURL + sep + param
}
