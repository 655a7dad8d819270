package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seoulfit/discoveryworker/helpers"
)

const (
	// goodsPhotosMarker appears on the secondary photo set of detail pages.
	goodsPhotosMarker = "goods_photos"

	titleSelector = `h1, h2, [class*="goods_name"], [class*="GoodsName"], [class*="product-name"]`
)

// Detail holds everything the Detail Extractor can pull from a rendered
// product-detail document.
type Detail struct {
	ExtraImages []string
	Attributes  Attributes
	Title       string
	PriceText   string
	PriceKRW    int
}

// attributeSynonyms maps label substrings (Korean and English, matched
// case-insensitively) onto attribute fields. One synonym table serves both
// markup shapes the origin uses.
var attributeSynonyms = []struct {
	labels []string
	assign func(*Attributes, string)
}{
	{[]string{"소재", "material", "혼용률"}, func(a *Attributes, v string) { a.Material = v }},
	{[]string{"핏", "fit"}, func(a *Attributes, v string) { a.Fit = v }},
	{[]string{"색상", "color"}, func(a *Attributes, v string) { a.Color = v }},
	{[]string{"사이즈", "size"}, func(a *Attributes, v string) { a.Size = v }},
	{[]string{"제조", "made", "원산지"}, func(a *Attributes, v string) { a.Made = v }},
	{[]string{"시즌", "season"}, func(a *Attributes, v string) { a.Season = v }},
	{[]string{"스타일", "style"}, func(a *Attributes, v string) { a.Style = v }},
}

// ExtractDetail pulls extra images and attribute fields from a rendered
// product-detail document. Both attribute markup shapes (definition lists
// and two-column table rows) are scanned unconditionally; when both supply
// the same field the later writer wins.
func ExtractDetail(doc *goquery.Document, maxImages int) Detail {
	d := Detail{
		ExtraImages: extractDetailImages(doc, maxImages),
	}

	// Definition-list shape: dt/dd pairs inside each dl.
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		dts := dl.Find("dt")
		dds := dl.Find("dd")
		dts.Each(func(i int, dt *goquery.Selection) {
			applyAttribute(&d.Attributes, dt.Text(), dds.Eq(i).Text())
		})
	})

	// Table shape: first cell is the label, second the value.
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		applyAttribute(&d.Attributes, cells.Eq(0).Text(), cells.Eq(1).Text())
	})

	d.Title = strings.TrimSpace(doc.Find(titleSelector).First().Text())

	d.PriceText = strings.TrimSpace(doc.Find(priceSelector).First().Text())
	d.PriceKRW = helpers.ParsePriceKRW(d.PriceText, 1)

	return d
}

// extractDetailImages collects up to maxImages distinct product-image URLs
// from the origin's CDN, in document order.
func extractDetailImages(doc *goquery.Document, maxImages int) []string {
	var images []string
	seen := make(map[string]struct{})

	doc.Find(imageSelector).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if len(images) >= maxImages {
			return false
		}
		src, ok := img.Attr("src")
		if !ok {
			return true
		}
		if !strings.Contains(src, goodsImgMarker) && !strings.Contains(src, goodsPhotosMarker) {
			return true
		}
		if _, dup := seen[src]; dup {
			return true
		}
		seen[src] = struct{}{}
		images = append(images, src)
		return true
	})

	return images
}

// applyAttribute routes one label/value pair into the attribute fields it
// names. A label can legitimately feed several fields.
func applyAttribute(attrs *Attributes, key, val string) {
	key = strings.ToLower(strings.TrimSpace(key))
	val = strings.TrimSpace(val)
	if key == "" || val == "" {
		return
	}
	for _, syn := range attributeSynonyms {
		for _, label := range syn.labels {
			if strings.Contains(key, label) {
				syn.assign(attrs, val)
				break
			}
		}
	}
}
