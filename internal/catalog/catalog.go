// Package catalog loads the static brand catalog the discovery worker
// operates on. The catalog is curation, not crawl output: it ships with the
// binary and changes by deployment, not at runtime.
package catalog

import (
	"encoding/json"
	"os"

	"seoulfit/discoveryworker/internal/crawler"
	apperr "seoulfit/discoveryworker/pkg/errors"
)

// PriceRange is a brand's typical price band in KRW. A zero bound is open.
type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// IdolReference records a public sighting of the brand on a K-pop idol.
// Confirmed means the sighting was verified against an official source.
type IdolReference struct {
	Idol      string `json:"idol"`
	Item      string `json:"item,omitempty"`
	Occasion  string `json:"occasion,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// Brand is one curated catalog entry.
type Brand struct {
	ID             string          `json:"id"`
	NameKo         string          `json:"name_ko"`
	NameEn         string          `json:"name_en,omitempty"`
	MusinsaKeyword string          `json:"musinsa_keyword,omitempty"`
	MusinsaURL     string          `json:"musinsa_url"`
	Categories     []string        `json:"categories"`
	StyleTags      []string        `json:"style_tags"`
	PriceRange     *PriceRange     `json:"price_range_krw,omitempty"`
	IdolReferences []IdolReference `json:"idol_references,omitempty"`
}

// Target converts a catalog entry into a crawl job.
func (b Brand) Target() crawler.BrandTarget {
	return crawler.BrandTarget{
		ID:         b.ID,
		Name:       b.NameKo,
		Keyword:    b.MusinsaKeyword,
		ListingURL: b.MusinsaURL,
	}
}

// HasConfirmedIdol reports whether any idol reference is verified.
func (b Brand) HasConfirmedIdol() bool {
	for _, ref := range b.IdolReferences {
		if ref.Confirmed {
			return true
		}
	}
	return false
}

type catalogFile struct {
	Brands []Brand `json:"brands"`
}

// Catalog is the loaded brand set, ordered as in the file.
type Catalog struct {
	brands []Brand
	byID   map[string]Brand
}

// Load reads and validates the catalog file. Brands without an id or a
// listing URL are rejected; the worker cannot crawl or key them.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.NewCatalog("failed to read brand catalog "+path, err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, apperr.NewCatalog("failed to parse brand catalog "+path, err)
	}

	byID := make(map[string]Brand, len(file.Brands))
	for _, b := range file.Brands {
		if b.ID == "" {
			return nil, apperr.NewCatalog("brand catalog entry without id: "+b.NameKo, nil)
		}
		if b.MusinsaURL == "" {
			return nil, apperr.NewCatalog("brand catalog entry without listing URL: "+b.ID, nil)
		}
		if _, dup := byID[b.ID]; dup {
			return nil, apperr.NewCatalog("duplicate brand id in catalog: "+b.ID, nil)
		}
		byID[b.ID] = b
	}

	return &Catalog{brands: file.Brands, byID: byID}, nil
}

// Brands returns all brands in catalog order.
func (c *Catalog) Brands() []Brand {
	return c.brands
}

// Get looks up a brand by id.
func (c *Catalog) Get(id string) (Brand, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// Len returns the number of brands.
func (c *Catalog) Len() int {
	return len(c.brands)
}

// Targets returns the crawl job list for the full catalog.
func (c *Catalog) Targets() []crawler.BrandTarget {
	targets := make([]crawler.BrandTarget, 0, len(c.brands))
	for _, b := range c.brands {
		targets = append(targets, b.Target())
	}
	return targets
}
