package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"seoulfit/discoveryworker/internal/catalog"
	"seoulfit/discoveryworker/internal/crawler"
	"seoulfit/discoveryworker/internal/ranking"
	"seoulfit/discoveryworker/logger"
	"seoulfit/discoveryworker/services/snapshot"
	"seoulfit/discoveryworker/services/worker"
)

// maxRecommendations caps how many ranked brands one recommendation
// response carries.
const maxRecommendations = 10

// DetailFetcher fetches one product-detail page on demand.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, goodsNo string) (crawler.Detail, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog *catalog.Catalog
	store   *snapshot.Store
	worker  *worker.Worker
	details DetailFetcher
}

// NewHandler creates a new HTTP handler
func NewHandler(cat *catalog.Catalog, store *snapshot.Store, w *worker.Worker, details DetailFetcher) *Handler {
	return &Handler{
		catalog: cat,
		store:   store,
		worker:  w,
		details: details,
	}
}

// HealthCheck returns the health status of the worker
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "discovery-worker",
		"brands":    h.catalog.Len(),
		"snapshots": h.store.Len(),
	})
}

type recommendResult struct {
	ranking.RankedBrand
	Products []crawler.Product `json:"products"`
}

// Recommend ranks the catalog against the posted preference and hydrates
// the top brands with their cached products. Brands never crawled come back
// with an empty product list; recommendation never triggers a crawl.
func (h *Handler) Recommend(c *gin.Context) {
	var pref ranking.Preference
	if err := c.ShouldBindJSON(&pref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preference payload: " + err.Error()})
		return
	}

	ranked := ranking.Rank(pref, h.catalog.Brands())
	if len(ranked) > maxRecommendations {
		ranked = ranked[:maxRecommendations]
	}

	results := make([]recommendResult, 0, len(ranked))
	for _, rb := range ranked {
		products := []crawler.Product{}
		if entry, ok := h.store.Get(rb.ID); ok && entry.Products != nil {
			products = entry.Products
		}
		results = append(results, recommendResult{RankedBrand: rb, Products: products})
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

type crawlRequest struct {
	Brands []string `json:"brands"`
	Enrich bool     `json:"enrich"`
}

// Crawl runs discovery for the requested brand ids and returns products per
// brand. Ids not in the catalog come back as empty lists. Freshness gating
// applies: a brand with a fresh snapshot is served without a crawl.
func (h *Handler) Crawl(c *gin.Context) {
	var req crawlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid crawl payload: " + err.Error()})
		return
	}

	var brands []catalog.Brand
	results := make(map[string][]crawler.Product, len(req.Brands))
	for _, id := range req.Brands {
		brand, ok := h.catalog.Get(id)
		if !ok {
			logger.ForAPI().Warn().Str("brand", id).Msg("Crawl requested for unknown brand id")
			results[id] = []crawler.Product{}
			continue
		}
		brands = append(brands, brand)
	}

	for id, products := range h.worker.Discover(c.Request.Context(), brands, req.Enrich) {
		results[id] = products
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// SnapshotEntry returns the raw snapshot entry for one brand id. A brand
// that was never crawled yields an entry with an empty product list.
func (h *Handler) SnapshotEntry(c *gin.Context) {
	brandID := c.Query("brand")
	if brandID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brand query parameter is required"})
		return
	}

	entry, ok := h.store.Get(brandID)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"products": []crawler.Product{}})
		return
	}
	c.JSON(http.StatusOK, entry)
}

// ProductDetail fetches one product-detail page live and returns its extra
// images and attributes. This is the only endpoint that renders on request.
func (h *Handler) ProductDetail(c *gin.Context) {
	goodsNo := c.Query("goodsNo")
	if goodsNo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "goodsNo query parameter is required"})
		return
	}

	detail, err := h.details.FetchDetail(c.Request.Context(), goodsNo)
	if err != nil {
		logger.ForAPI().Error().Err(err).Str("goods_no", goodsNo).Msg("Detail fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch product detail"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"goods_no":     goodsNo,
		"extra_images": detail.ExtraImages,
		"attributes":   detail.Attributes,
		"name":         detail.Title,
		"price_krw":    detail.PriceKRW,
	})
}
