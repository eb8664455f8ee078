package adapters

import (
	"context"

	"tiktok-product-api/internal/types"
	"tiktok-product-api/utils"
)

// BaseAdapter provides the page transports shared by storefront adapters:
// a plain HTTP client and a headless browser for pages that need rendering.
type BaseAdapter struct {
	config        *types.Config        // Configuration settings (timeouts, headers, browser mode)
	logger        types.Logger         // Structured logging interface
	httpClient    *utils.HTTPClient    // HTTP client for standard requests
	browserClient *utils.BrowserClient // Headless browser client for dynamic content
}

// NewBaseAdapter creates a new base adapter with initialized HTTP and browser clients.
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	return &BaseAdapter{
		config:        config,
		logger:        logger,
		httpClient:    utils.NewHTTPClient(config, logger),
		browserClient: utils.NewBrowserClient(config, logger),
	}
}

// GetJSON fetches a data endpoint. These are never rendered in the browser,
// which would wrap the payload in markup.
func (b *BaseAdapter) GetJSON(ctx context.Context, url, locale string) (*types.RawPage, error) {
	return b.httpClient.Get(ctx, url, locale)
}

// GetPageContent retrieves an HTML page using either the HTTP client or the
// headless browser, as selected by UseHeadlessBrowser.
func (b *BaseAdapter) GetPageContent(ctx context.Context, url, locale string) (*types.RawPage, error) {
	if b.config.UseHeadlessBrowser {
		return b.browserClient.GetPage(ctx, url, locale)
	}
	return b.httpClient.Get(ctx, url, locale)
}

// Close cleans up resources
func (b *BaseAdapter) Close() {
	if b.httpClient != nil {
		b.httpClient.Close()
	}
}

// Config returns the config field of the BaseAdapter
func (b *BaseAdapter) Config() *types.Config {
	return b.config
}
