package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	apperr "seoulfit/discoveryworker/pkg/errors"
)

// webdriverPatch hides the automation flag the origin's scripts probe for.
const webdriverPatch = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined })`

// ChromeRenderer renders pages in a headless Chrome instance via chromedp.
// Every Render call launches an isolated browser context so brands never
// share cookies or session state.
type ChromeRenderer struct {
	UserAgent      string
	AcceptLanguage string
	Headless       bool
}

// NewChromeRenderer creates a renderer with the given browser identity.
func NewChromeRenderer(userAgent, acceptLanguage string, headless bool) *ChromeRenderer {
	return &ChromeRenderer{
		UserAgent:      userAgent,
		AcceptLanguage: acceptLanguage,
		Headless:       headless,
	}
}

// Render navigates to the URL, waits for network quiescence plus a settle
// delay, and returns the document's outer HTML. The browser session is torn
// down on every exit path.
func (r *ChromeRenderer) Render(ctx context.Context, url string, opts RenderOptions) (string, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", r.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(r.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if opts.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, opts.Timeout)
		defer cancelTimeout()
	}

	headers := network.Headers{}
	if r.AcceptLanguage != "" {
		headers["Accept-Language"] = r.AcceptLanguage
	}

	var html string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(webdriverPatch).Do(ctx)
			return err
		}),
		chromedp.Navigate(url),
		waitForNetworkIdle(opts.QuietWindow),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", apperr.NewRender("", "chrome render failed for "+url, err)
	}
	return html, nil
}

// waitForNetworkIdle blocks until no request has been in flight for the
// quiet window, or until the surrounding context deadline fires. A zero
// window disables the wait. Requests already in flight before the listener
// attaches are not tracked; the quiet window absorbs that imprecision.
func waitForNetworkIdle(quiet time.Duration) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		if quiet <= 0 {
			return nil
		}

		var mu sync.Mutex
		inflight := make(map[network.RequestID]struct{})
		lastActivity := time.Now()

		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		chromedp.ListenTarget(listenCtx, func(ev interface{}) {
			mu.Lock()
			defer mu.Unlock()
			switch e := ev.(type) {
			case *network.EventRequestWillBeSent:
				inflight[e.RequestID] = struct{}{}
				lastActivity = time.Now()
			case *network.EventLoadingFinished:
				delete(inflight, e.RequestID)
				lastActivity = time.Now()
			case *network.EventLoadingFailed:
				delete(inflight, e.RequestID)
				lastActivity = time.Now()
			}
		})

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				mu.Lock()
				idle := len(inflight) == 0 && time.Since(lastActivity) >= quiet
				mu.Unlock()
				if idle {
					return nil
				}
			}
		}
	}
}
