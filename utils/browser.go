package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"tiktok-product-api/internal/types"
)

// BrowserClient renders pages in a headless Chrome for storefronts that only
// ship their state after client-side hydration
type BrowserClient struct {
	config *types.Config
	logger types.Logger
}

// NewBrowserClient creates a new browser client
func NewBrowserClient(config *types.Config, logger types.Logger) *BrowserClient {
	// Suppress chromedp debug logging
	log.SetOutput(io.Discard)

	return &BrowserClient{
		config: config,
		logger: logger,
	}
}

// GetPage navigates to the URL and returns the rendered document. A page that
// loads is reported with status 200; navigation failures are NetworkErrors.
func (b *BrowserClient) GetPage(ctx context.Context, url string, locale string) (*types.RawPage, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(b.config.UserAgent),
	)
	if locale != "" {
		allocOpts = append(allocOpts, chromedp.Flag("lang", locale))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if b.config.Timeout > 0 {
		browserCtx, cancel = context.WithTimeout(browserCtx, b.config.Timeout)
		defer cancel()
	}

	var html string
	start := time.Now()

	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(b.extraHeaders()),
		chromedp.Navigate(url),
		chromedp.Sleep(500*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		b.logger.Warnf("Browser navigation to %s failed: %v", url, err)
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("failed to get page content: %w", err)}
	}

	b.logger.Debugf("Rendered %s in %v (%d bytes)", url, time.Since(start), len(html))
	return &types.RawPage{
		URL:         url,
		StatusCode:  200,
		ContentType: "text/html",
		Body:        html,
	}, nil
}

func (b *BrowserClient) extraHeaders() network.Headers {
	headers := network.Headers{}
	if b.config.Referer != "" {
		headers["Referer"] = b.config.Referer
	}
	if b.config.Cookie != "" {
		headers["Cookie"] = b.config.Cookie
	}
	return headers
}
