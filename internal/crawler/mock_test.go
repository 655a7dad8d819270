package crawler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"seoulfit/discoveryworker/internal/browser"
)

// stubRenderer serves canned HTML keyed by URL, recording every request.
// Unknown URLs fail with the configured error.
type stubRenderer struct {
	pages    map[string]string
	err      error
	rendered []string
}

func newStubRenderer() *stubRenderer {
	return &stubRenderer{pages: make(map[string]string)}
}

func (r *stubRenderer) Render(_ context.Context, url string, _ browser.RenderOptions) (string, error) {
	r.rendered = append(r.rendered, url)
	if html, ok := r.pages[url]; ok {
		return html, nil
	}
	if r.err != nil {
		return "", r.err
	}
	return "<html><body></body></html>", nil
}

// MockCacheService is a mock implementation of cache.CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheService) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}
