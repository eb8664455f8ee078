package extractor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiktok-product-api/adapters"
	"tiktok-product-api/internal/types"
	"tiktok-product-api/parser"
	"tiktok-product-api/utils"
)

// PageSource fetches the two representations of a product page
type PageSource interface {
	FetchSSR(ctx context.Context, req types.FetchRequest) (*types.RawPage, error)
	FetchPage(ctx context.Context, req types.FetchRequest) (*types.RawPage, error)
	Close()
}

// ProductExtractor turns a product lookup into a ProductEnvelope
type ProductExtractor struct {
	source PageSource
	parser *parser.Parser
	config *types.Config
	logger types.Logger
}

// NewProductExtractor creates an extractor backed by the TikTok Shop adapter
func NewProductExtractor(config *types.Config, logger types.Logger) *ProductExtractor {
	return NewProductExtractorWithSource(adapters.NewTikTokAdapter(config, logger), config, logger)
}

// NewProductExtractorWithSource creates an extractor reading pages from source
func NewProductExtractorWithSource(source PageSource, config *types.Config, logger types.Logger) *ProductExtractor {
	return &ProductExtractor{
		source: source,
		parser: parser.NewParser(config, logger),
		config: config,
		logger: logger,
	}
}

// Extract fetches and parses one product. It always returns an envelope:
// upstream failures are reported in-band with Success == false.
func (e *ProductExtractor) Extract(ctx context.Context, req types.FetchRequest) *types.ProductEnvelope {
	startTime := time.Now()
	envelope := &types.ProductEnvelope{
		ProductID: req.ProductID,
		Region:    req.Region,
		Locale:    req.Locale,
	}

	page, err := e.fetch(ctx, req)
	if err != nil {
		e.logger.Warnf("Failed to fetch product %s: %v", req.ProductID, err)
		envelope.Error, envelope.Message = describeFetchError(err)
		return envelope
	}

	result := e.parser.Extract(page.Body, req)
	if !result.OK() {
		e.logger.Errorf("Extraction failed for product %s: %s", req.ProductID, result.Error)
		envelope.Error = result.Error
		envelope.Message = "Could not extract product data"
		return envelope
	}

	envelope.Success = true
	envelope.Data = result.Data
	envelope.Source = result.Source

	e.logger.Infof("Product %s extracted via %s in %v", req.ProductID, result.Source, time.Since(startTime))
	return envelope
}

// fetch queries the SSR endpoint and, when enabled, falls back to the full
// page if that did not produce a non-empty JSON document.
func (e *ProductExtractor) fetch(ctx context.Context, req types.FetchRequest) (*types.RawPage, error) {
	page, err := e.source.FetchSSR(ctx, req)
	if !e.config.FallbackToPage {
		return page, err
	}

	if err == nil {
		if _, ok := parser.ParseDocument(page.Body); ok {
			return page, nil
		}
		e.logger.Debugf("SSR response for product %s is not a JSON document, falling back to the product page", req.ProductID)
	} else {
		e.logger.Debugf("SSR request for product %s failed (%v), falling back to the product page", req.ProductID, err)
	}

	return e.source.FetchPage(ctx, req)
}

func describeFetchError(err error) (code string, message string) {
	var statusErr *utils.HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error(), fmt.Sprintf("Upstream responded with status %d", statusErr.StatusCode)
	}

	var netErr *utils.NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error(), "Could not connect to the storefront"
	}

	return err.Error(), "Could not fetch product data"
}

// Close cleans up resources
func (e *ProductExtractor) Close() {
	if e.source != nil {
		e.source.Close()
	}
}
