package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brands.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const sampleCatalog = `{
	"brands": [
		{
			"id": "brand1",
			"name_ko": "마뗑킴",
			"name_en": "Matin Kim",
			"musinsa_keyword": "마뗑킴",
			"musinsa_url": "https://www.musinsa.com/brand/matinkim",
			"categories": ["top", "outer"],
			"style_tags": ["미니멀", "트렌디"],
			"price_range_krw": {"min": 30000, "max": 150000},
			"idol_references": [
				{"idol": "장원영", "item": "볼캡", "occasion": "공항패션", "confirmed": true}
			]
		},
		{
			"id": "brand2",
			"name_ko": "키르시",
			"musinsa_url": "https://www.musinsa.com/brand/kirsh",
			"categories": ["top"],
			"style_tags": ["캐주얼"]
		}
	]
}`

func TestLoad(t *testing.T) {
	c, err := Load(writeCatalog(t, sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())

	b, ok := c.Get("brand1")
	require.True(t, ok)
	assert.Equal(t, "마뗑킴", b.NameKo)
	assert.Equal(t, []string{"top", "outer"}, b.Categories)
	require.NotNil(t, b.PriceRange)
	assert.Equal(t, 30000, b.PriceRange.Min)
	assert.True(t, b.HasConfirmedIdol())

	b2, ok := c.Get("brand2")
	require.True(t, ok)
	assert.Nil(t, b2.PriceRange)
	assert.False(t, b2.HasConfirmedIdol())

	_, ok = c.Get("unknown")
	assert.False(t, ok)
}

func TestLoadPreservesOrder(t *testing.T) {
	c, err := Load(writeCatalog(t, sampleCatalog))
	require.NoError(t, err)

	brands := c.Brands()
	require.Len(t, brands, 2)
	assert.Equal(t, "brand1", brands[0].ID)
	assert.Equal(t, "brand2", brands[1].ID)
}

func TestTargets(t *testing.T) {
	c, err := Load(writeCatalog(t, sampleCatalog))
	require.NoError(t, err)

	targets := c.Targets()
	require.Len(t, targets, 2)
	assert.Equal(t, "brand1", targets[0].ID)
	assert.Equal(t, "마뗑킴", targets[0].Name)
	assert.Equal(t, "마뗑킴", targets[0].Keyword)
	assert.Equal(t, "https://www.musinsa.com/brand/matinkim", targets[0].ListingURL)
}

func TestLoadRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing id", `{"brands":[{"name_ko":"브랜드","musinsa_url":"https://x"}]}`},
		{"missing url", `{"brands":[{"id":"b1","name_ko":"브랜드"}]}`},
		{"duplicate id", `{"brands":[
			{"id":"b1","musinsa_url":"https://x"},
			{"id":"b1","musinsa_url":"https://y"}]}`},
		{"not json", `{brands`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
