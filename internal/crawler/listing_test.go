package crawler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func listingCard(goodsNo, name, price string) string {
	return fmt.Sprintf(`
		<div class="card">
			<img src="https://image.msscdn.net/images/goods_img/%s/%s_1_125.jpg">
			<a href="/products/%s">%s</a>
			<span class="text-body_13px_semi">%s</span>
		</div>`, goodsNo, goodsNo, goodsNo, name, price)
}

func TestExtractListing(t *testing.T) {
	html := `<html><body>
		<a href="/brand/testbrand">브랜드홈</a>` +
		listingCard("3134882", "오버사이즈 옥스포드 셔츠", "39,900원") +
		listingCard("2891045", "와이드 데님 팬츠", "59,000원") +
		`</body></html>`

	products := ExtractListing(docFromHTML(t, html), "테스트브랜드", DefaultListingConfig())

	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "musinsa_3134882", first.ID)
	assert.Equal(t, "오버사이즈 옥스포드 셔츠", first.Name)
	assert.Equal(t, "테스트브랜드", first.Brand)
	assert.Equal(t, 39900, first.PriceKRW)
	assert.Equal(t, "https://image.msscdn.net/images/goods_img/3134882/3134882_1_125.jpg", first.ImageURL)
	assert.Equal(t, "https://www.musinsa.com/products/3134882", first.ProductURL)
	assert.Equal(t, "3134882", first.GoodsNo)

	assert.Equal(t, 59000, products[1].PriceKRW)
}

func TestExtractListingSkipsShortAndNonProductAnchors(t *testing.T) {
	html := `<html><body>
		<a href="/products/111">찜</a>
		<a href="/products/222"></a>
		<a href="/brand/somebrand">다른 브랜드 페이지</a>` +
		listingCard("333", "기본 반팔 티셔츠", "19,900원") +
		`</body></html>`

	products := ExtractListing(docFromHTML(t, html), "브랜드", DefaultListingConfig())

	require.Len(t, products, 1)
	assert.Equal(t, "333", products[0].GoodsNo)
}

func TestExtractListingCapsCandidates(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		b.WriteString(listingCard(fmt.Sprintf("100%02d", i), fmt.Sprintf("상품 넘버 %d", i), "10,000원"))
	}
	b.WriteString("</body></html>")

	products := ExtractListing(docFromHTML(t, b.String()), "브랜드", DefaultListingConfig())

	assert.Len(t, products, 12)
	assert.Equal(t, "10000", products[0].GoodsNo)
	assert.Equal(t, "10011", products[11].GoodsNo)
}

func TestExtractListingMissingPriceYieldsZero(t *testing.T) {
	html := `<html><body>
		<div class="card">
			<img src="https://image.msscdn.net/images/goods_img/4001/4001_1_125.jpg">
			<a href="/products/4001">프라이스리스 후드 집업</a>
		</div>
	</body></html>`

	products := ExtractListing(docFromHTML(t, html), "브랜드", DefaultListingConfig())

	require.Len(t, products, 1)
	assert.Equal(t, 0, products[0].PriceKRW)
	assert.NotEmpty(t, products[0].ImageURL)
}

func TestExtractListingShortDigitRunRejected(t *testing.T) {
	// Fewer digits than the minimum price unit means the match is garbage.
	html := `<html><body>
		<div class="card">
			<a href="/products/4002">세일 표기가 이상한 니트</a>
			<span class="text-body_13px_semi">990</span>
		</div>
	</body></html>`

	products := ExtractListing(docFromHTML(t, html), "브랜드", DefaultListingConfig())

	require.Len(t, products, 1)
	assert.Equal(t, 0, products[0].PriceKRW)
}

func TestExtractListingStyledComponentsPrice(t *testing.T) {
	html := `<html><body>
		<div class="card">
			<a href="/products/4003">스타일드 컴포넌트 가격 카드</a>
			<span class="sc-abc dMbRNh">45,000원</span>
		</div>
	</body></html>`

	products := ExtractListing(docFromHTML(t, html), "브랜드", DefaultListingConfig())

	require.Len(t, products, 1)
	assert.Equal(t, 45000, products[0].PriceKRW)
}

func TestExtractListingCDNFallbackImage(t *testing.T) {
	// No card image at all: fall back to the CDN's sharded URL scheme.
	html := `<html><body>
		<a href="/products/3134882">이미지 없는 상품 링크</a>
	</body></html>`

	products := ExtractListing(docFromHTML(t, html), "브랜드", DefaultListingConfig())

	require.Len(t, products, 1)
	assert.Equal(t,
		"https://image.msscdn.net/images/goods_img/3134/3134882/3134882_1_500.jpg",
		products[0].ImageURL)
}

func TestExtractListingIgnoresNonGoodsCDNImages(t *testing.T) {
	// Banner assets ride the same CDN but are not product shots.
	html := `<html><body>
		<div class="card">
			<img src="https://image.msscdn.net/images/event_banner/banner_1.jpg">
			<a href="/products/5001">배너 옆의 셔츠 상품</a>
			<span class="text-body_13px_semi">29,900원</span>
		</div>
	</body></html>`

	products := ExtractListing(docFromHTML(t, html), "브랜드", DefaultListingConfig())

	require.Len(t, products, 1)
	// Fallback CDN URL, not the banner.
	assert.Contains(t, products[0].ImageURL, "goods_img")
	assert.NotContains(t, products[0].ImageURL, "event_banner")
}

func TestFindCardFieldsDepthLimit(t *testing.T) {
	// The image sits deeper than the ascent limit allows.
	html := `<html><body>
		<div><img src="https://image.msscdn.net/images/goods_img/6001/6001_1_125.jpg">
		<div><div><div><div><div><div><div><div><div>
			<a id="anchor" href="/products/6001">깊이 묻힌 상품명</a>
		</div></div></div></div></div></div></div></div></div>
		</div>
	</body></html>`

	doc := docFromHTML(t, html)
	anchor := doc.Find("#anchor")
	require.Equal(t, 1, anchor.Length())

	image, price := findCardFields(anchor, 3, 4)
	assert.Empty(t, image)
	assert.Zero(t, price)

	image, _ = findCardFields(anchor, 12, 4)
	assert.Contains(t, image, "goods_img")
}

func TestCDNImageURL(t *testing.T) {
	tests := []struct {
		goodsNo string
		want    string
	}{
		{"3134882", "https://image.msscdn.net/images/goods_img/3134/3134882/3134882_1_500.jpg"},
		{"123", "https://image.msscdn.net/images/goods_img/123/123/123_1_500.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CDNImageURL(tt.goodsNo))
	}
}

func TestProductIDSyntheticFallback(t *testing.T) {
	assert.Equal(t, "musinsa_42", productID("42"))
	assert.Regexp(t, `^musinsa_\d{13,}$`, productID(""))
}

func TestResolveURL(t *testing.T) {
	base := "https://www.musinsa.com"
	assert.Equal(t, "https://www.musinsa.com/products/1", resolveURL(base, "/products/1"))
	assert.Equal(t, "https://other.example/products/1", resolveURL(base, "https://other.example/products/1"))
}
