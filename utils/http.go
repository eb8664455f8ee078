package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tiktok-product-api/internal/types"
)

// HTTPStatusError is returned when the upstream answers with a non-2xx status
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// NetworkError wraps transport failures (DNS, timeout, connection reset)
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPClient fetches storefront pages with a fixed header set
type HTTPClient struct {
	client *http.Client
	config *types.Config
	logger types.Logger
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config *types.Config, logger types.Logger) *HTTPClient {
	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPClient{
		client: client,
		config: config,
		logger: logger,
	}
}

// Get performs a single GET request. There is no retry: a non-2xx status is
// reported as *HTTPStatusError and a transport failure as *NetworkError.
func (h *HTTPClient) Get(ctx context.Context, pageURL string, locale string) (*types.RawPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	h.setHeaders(req, locale)

	h.logger.Debugf("Making request to %s", pageURL)
	start := time.Now()

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warnf("Request to %s failed: %v", pageURL, err)
		return nil, &NetworkError{URL: pageURL, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		h.logger.Warnf("Unexpected status code %d from %s", resp.StatusCode, pageURL)
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &HTTPStatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodyBytes()))
	if err != nil {
		h.logger.Warnf("Failed to read response body from %s: %v", pageURL, err)
		return nil, &NetworkError{URL: pageURL, Err: err}
	}

	h.logger.Debugf("Retrieved %d bytes from %s in %v", len(body), pageURL, time.Since(start))
	return &types.RawPage{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        string(body),
	}, nil
}

func (h *HTTPClient) setHeaders(req *http.Request, locale string) {
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	if locale != "" {
		req.Header.Set("Accept-Language", locale+",en;q=0.5")
	}
	if h.config.Referer != "" {
		req.Header.Set("Referer", h.config.Referer)
	}
	if h.config.Cookie != "" {
		req.Header.Set("Cookie", h.config.Cookie)
	}
}

func (h *HTTPClient) maxBodyBytes() int64 {
	if h.config.MaxBodyBytes <= 0 {
		return types.DefaultConfig().MaxBodyBytes
	}
	return h.config.MaxBodyBytes
}

// unwrapURLError strips the "Get <url>:" prefix net/http adds so the
// envelope carries the underlying cause.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

// Close releases idle connections
func (h *HTTPClient) Close() {
	h.client.CloseIdleConnections()
}
