package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoulfit/discoveryworker/internal/crawler"
)

func TestLoadMissingFile(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, 0, s.Len())

	_, ok := s.Get("brand1")
	assert.False(t, ok)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := Load(path)
	assert.Equal(t, 0, s.Len())
}

func TestPutGetRoundTrip(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "cache.json"))

	entry := Entry{
		Products: []crawler.Product{
			{
				ID:         "musinsa_3134882",
				Name:       "오버사이즈 셔츠",
				Brand:      "테스트브랜드",
				PriceKRW:   39900,
				ImageURL:   "https://image.msscdn.net/images/goods_img/3134/3134882/3134882_1_500.jpg",
				ProductURL: "https://www.musinsa.com/products/3134882",
				GoodsNo:    "3134882",
			},
		},
		CrawledAt: time.Now(),
		BrandName: "테스트브랜드",
	}
	s.Put("brand1", entry)

	got, ok := s.Get("brand1")
	require.True(t, ok)
	assert.Equal(t, entry.Products, got.Products)
	assert.Equal(t, entry.BrandName, got.BrandName)
}

func TestFreshness(t *testing.T) {
	now := time.Now()
	ttl := 6 * time.Hour

	tests := []struct {
		name      string
		crawledAt time.Time
		want      bool
	}{
		{"just crawled", now, true},
		{"one second under ttl", now.Add(-(ttl - time.Second)), true},
		{"exactly ttl old", now.Add(-ttl), false},
		{"well past ttl", now.Add(-24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Load(filepath.Join(t.TempDir(), "cache.json"))
			s.Put("brand1", Entry{CrawledAt: tt.crawledAt})
			assert.Equal(t, tt.want, s.Fresh("brand1", ttl, now))
		})
	}
}

func TestFreshnessUnknownBrand(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "cache.json"))
	assert.False(t, s.Fresh("unknown", 6*time.Hour, time.Now()))
}

func TestEmptyEntryIsStillFresh(t *testing.T) {
	// A failed crawl records an empty entry with a current timestamp, and
	// that entry counts as fresh like any other.
	s := Load(filepath.Join(t.TempDir(), "cache.json"))
	s.Put("brand1", Entry{Products: []crawler.Product{}, CrawledAt: time.Now()})
	assert.True(t, s.Fresh("brand1", 6*time.Hour, time.Now()))
}

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")

	s := Load(path)
	s.Put("brand1", Entry{
		Products:  []crawler.Product{{ID: "musinsa_1", Name: "상품", GoodsNo: "1"}},
		CrawledAt: time.Now().Truncate(time.Second),
		BrandName: "브랜드",
	})
	require.NoError(t, s.Persist())

	reloaded := Load(path)
	got, ok := reloaded.Get("brand1")
	require.True(t, ok)
	assert.Equal(t, "musinsa_1", got.Products[0].ID)
	assert.Equal(t, "브랜드", got.BrandName)
}
