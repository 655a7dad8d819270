package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"seoulfit/discoveryworker/helpers"
)

// productPathRe matches a product-detail path and captures the goods number.
var productPathRe = regexp.MustCompile(`/products/(\d+)`)

const (
	// imageCDNMarker identifies the origin's image CDN host.
	imageCDNMarker = "msscdn.net"
	// goodsImgMarker distinguishes product shots from banners and icons
	// that ride the same CDN.
	goodsImgMarker = "goods_img"

	// priceSelector covers the two price markups the origin currently ships:
	// a utility-class span and a styled-components hash that has been stable
	// across redesigns.
	priceSelector = `span.text-body_13px_semi, [class*="dMbRNh"]`
	imageSelector = `img[src*="msscdn.net"]`
)

// ListingConfig controls listing extraction.
type ListingConfig struct {
	// MaxItems caps the number of candidates taken from one listing page.
	MaxItems int
	// AscentDepth bounds the walk up the ancestor chain when locating the
	// product card around a name anchor.
	AscentDepth int
	// MinPriceDigits rejects digit runs shorter than the origin's minimum
	// price unit (truncated or garbage matches).
	MinPriceDigits int
	// BaseURL resolves relative product hrefs.
	BaseURL string
}

// DefaultListingConfig returns the extraction parameters tuned against the
// origin's current listing markup.
func DefaultListingConfig() ListingConfig {
	return ListingConfig{
		MaxItems:       12,
		AscentDepth:    8,
		MinPriceDigits: 4,
		BaseURL:        "https://www.musinsa.com",
	}
}

// ExtractListing pulls candidate products out of a rendered listing document.
// Product-name anchors are the signal: links into a product-detail path with
// visible text longer than 2 runes. A candidate without a resolvable price is
// emitted with price 0, not dropped.
func ExtractListing(doc *goquery.Document, brandName string, cfg ListingConfig) []Product {
	var products []Product

	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if len(products) >= cfg.MaxItems {
			return false
		}

		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		m := productPathRe.FindStringSubmatch(href)
		if m == nil {
			return true
		}

		name := strings.TrimSpace(a.Text())
		if len([]rune(name)) <= 2 {
			return true
		}
		goodsNo := m[1]

		image, price := findCardFields(a, cfg.AscentDepth, cfg.MinPriceDigits)
		if image == "" && goodsNo != "" {
			// Best-guess CDN URL; not verified to exist.
			image = CDNImageURL(goodsNo)
		}

		products = append(products, Product{
			ID:         productID(goodsNo),
			Name:       name,
			Brand:      brandName,
			PriceKRW:   price,
			ImageURL:   image,
			ProductURL: resolveURL(cfg.BaseURL, href),
			GoodsNo:    goodsNo,
		})
		return true
	})

	return products
}

// findCardFields walks up the ancestor chain from a product-name anchor
// looking for the enclosing card's image and price. The ascent stops as soon
// as both are found or the depth limit is exhausted.
func findCardFields(anchor *goquery.Selection, maxDepth, minPriceDigits int) (image string, price int) {
	card := anchor.Parent()
	for depth := 0; depth < maxDepth && card.Length() > 0; depth++ {
		if image == "" {
			img := card.Find(imageSelector).First()
			if src, ok := img.Attr("src"); ok && strings.Contains(src, goodsImgMarker) {
				image = src
			}
		}
		if price == 0 {
			priceEl := card.Find(priceSelector).First()
			if priceEl.Length() > 0 {
				price = helpers.ParsePriceKRW(priceEl.Text(), minPriceDigits)
			}
		}
		if image != "" && price != 0 {
			break
		}
		card = card.Parent()
	}
	return image, price
}

// CDNImageURL builds the origin's primary product-image URL from a goods
// number. The CDN shards by the number's first four digits.
func CDNImageURL(goodsNo string) string {
	if goodsNo == "" {
		return ""
	}
	prefix := goodsNo
	if len(goodsNo) > 4 {
		prefix = goodsNo[:4]
	}
	return fmt.Sprintf("https://image.msscdn.net/images/goods_img/%s/%s/%s_1_500.jpg", prefix, goodsNo, goodsNo)
}

// productID derives a stable id from the goods number. Without one the id is
// synthesized from the clock and will not survive a re-crawl of the same
// item; known limitation, never use it for dedup.
func productID(goodsNo string) string {
	if goodsNo != "" {
		return "musinsa_" + goodsNo
	}
	return fmt.Sprintf("musinsa_%d", time.Now().UnixMilli())
}

// resolveURL makes a listing href absolute against the storefront base.
func resolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}
