package adapters

import (
	"context"
	"net/url"
	"strings"

	"tiktok-product-api/internal/types"
	"tiktok-product-api/parser"
)

// TikTokAdapter knows where TikTok Shop serves product detail pages
type TikTokAdapter struct {
	*BaseAdapter
}

// NewTikTokAdapter creates a new TikTok Shop adapter
func NewTikTokAdapter(config *types.Config, logger types.Logger) *TikTokAdapter {
	return &TikTokAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// GetStoreName returns the store name
func (t *TikTokAdapter) GetStoreName() string {
	return "shop.tiktok.com"
}

func (t *TikTokAdapter) productPath(req types.FetchRequest) string {
	return strings.TrimRight(t.config.BaseURL, "/") + "/view/product/" + url.PathEscape(req.ProductID)
}

func localeQuery(req types.FetchRequest) string {
	return "region=" + url.QueryEscape(req.Region) + "&locale=" + url.QueryEscape(req.Locale)
}

// SSRURL is the server-side loader endpoint that answers with the page state as JSON
func (t *TikTokAdapter) SSRURL(req types.FetchRequest) string {
	return t.productPath(req) + "?__loader=" + parser.LoaderRouteKey + "&__ssrDirect=true&" + localeQuery(req)
}

// PageURL is the regular product detail page
func (t *TikTokAdapter) PageURL(req types.FetchRequest) string {
	return t.productPath(req) + "?" + localeQuery(req)
}

// FetchSSR requests the loader endpoint
func (t *TikTokAdapter) FetchSSR(ctx context.Context, req types.FetchRequest) (*types.RawPage, error) {
	t.logger.Debugf("Fetching SSR data for product %s", req.ProductID)
	return t.GetJSON(ctx, t.SSRURL(req), req.Locale)
}

// FetchPage requests the full product page
func (t *TikTokAdapter) FetchPage(ctx context.Context, req types.FetchRequest) (*types.RawPage, error) {
	t.logger.Debugf("Fetching product page for product %s", req.ProductID)
	return t.GetPageContent(ctx, t.PageURL(req), req.Locale)
}
