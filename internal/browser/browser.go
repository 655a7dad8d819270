package browser

import (
	"context"
	"time"
)

// RenderOptions controls how a single page render behaves.
type RenderOptions struct {
	// Timeout bounds the whole render, navigation included.
	Timeout time.Duration
	// QuietWindow is how long the network must stay silent before the page
	// is considered rendered. Zero skips the network-idle wait.
	QuietWindow time.Duration
	// Settle is an extra fixed delay after network idle. The origin paints
	// product cards asynchronously after the network goes quiet.
	Settle time.Duration
}

// Renderer renders a URL and returns the resulting document HTML.
// Implementations own the full lifecycle of whatever session they open;
// a session must never outlive the Render call.
type Renderer interface {
	Render(ctx context.Context, url string, opts RenderOptions) (string, error)
}
