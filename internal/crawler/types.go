package crawler

import "context"

// BrandTarget describes one storefront brand scrape job.
type BrandTarget struct {
	ID         string `json:"id"`
	Name       string `json:"name_ko"`
	Keyword    string `json:"musinsa_keyword,omitempty"`
	ListingURL string `json:"musinsa_url"`
}

// Attributes holds the free-text attribute fields scraped from a product
// detail page. Every field is optional.
type Attributes struct {
	Material string `json:"material,omitempty"`
	Fit      string `json:"fit,omitempty"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	Made     string `json:"made,omitempty"`
	Season   string `json:"season,omitempty"`
	Style    string `json:"style,omitempty"`
}

// Empty reports whether no attribute field was populated.
func (a Attributes) Empty() bool {
	return a == Attributes{}
}

// Product represents one scraped storefront product. PriceKRW is the origin
// currency amount with no minor unit; 0 means the price could not be
// resolved and is a valid state, not an error. GoodsNo is the origin-site
// product number when the listing exposed one.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Brand       string      `json:"brand"`
	PriceKRW    int         `json:"price_krw"`
	ImageURL    string      `json:"image_url,omitempty"`
	ExtraImages []string    `json:"extra_images,omitempty"`
	ProductURL  string      `json:"product_url"`
	GoodsNo     string      `json:"goods_no,omitempty"`
	Attributes  *Attributes `json:"attributes,omitempty"`
}

// Agent is the contract the orchestrator drives. FetchProducts never fails:
// a brand whose crawl breaks comes back as an empty batch so one bad brand
// cannot abort a multi-brand run.
type Agent interface {
	// FetchProducts crawls a brand's listing page and returns its products.
	FetchProducts(ctx context.Context, target BrandTarget) []Product

	// EnrichProducts opens detail pages for up to limit products and merges
	// extra images and attributes into them. Failures are per-product.
	EnrichProducts(ctx context.Context, brand string, products []Product, limit int) []Product
}
