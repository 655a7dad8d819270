package browser

import (
	"context"
	"io"

	"seoulfit/discoveryworker/helpers"
	apperr "seoulfit/discoveryworker/pkg/errors"
)

// HTTPRenderer fetches pages with a plain HTTP client instead of a browser.
// No scripts run, so client-rendered cards are missing; it exists for
// environments without Chrome and for pages that still render server-side.
type HTTPRenderer struct{}

// NewHTTPRenderer creates a renderer backed by plain HTTP fetches.
func NewHTTPRenderer() *HTTPRenderer {
	return &HTTPRenderer{}
}

// Render fetches the URL with browser-like headers. Wait and settle options
// are meaningless without a script engine and are ignored.
func (r *HTTPRenderer) Render(ctx context.Context, url string, opts RenderOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := helpers.FetchWithRandomHeaders(url)
	if err != nil {
		return "", apperr.NewNetwork("", "http fetch failed for "+url, err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", apperr.NewNetwork("", "failed to read body for "+url, err)
	}
	return string(data), nil
}
