package types

import (
	"encoding/json"
	"time"
)

// Source names the extraction strategy that produced a result.
type Source string

const (
	SourceSSR         Source = "ssr"
	SourceHTMLExtract Source = "html_extract"
	SourceJSONScripts Source = "json_scripts"
	SourceHTMLBasic   Source = "html_basic"
)

const (
	DefaultRegion = "VN"
	DefaultLocale = "vi"
)

// SupportedRegions and SupportedLocales are the values offered by the browser form.
// The API itself echoes whatever the caller sends.
var (
	SupportedRegions = []string{"VN", "US", "UK", "SG"}
	SupportedLocales = []string{"vi", "en"}
)

// FetchRequest identifies a single product lookup
type FetchRequest struct {
	ProductID string
	Region    string
	Locale    string
}

// NewFetchRequest builds a request, applying the default region and locale when empty
func NewFetchRequest(productID, region, locale string) FetchRequest {
	if region == "" {
		region = DefaultRegion
	}
	if locale == "" {
		locale = DefaultLocale
	}
	return FetchRequest{
		ProductID: productID,
		Region:    region,
		Locale:    locale,
	}
}

// RawPage is an upstream response as received, before extraction
type RawPage struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
}

// ExtractionResult is the outcome of the structured-data extractor.
// A result with a non-empty Error carries no data.
type ExtractionResult struct {
	Data   json.RawMessage
	Source Source
	Error  string
}

// OK reports whether the result carries data
func (r ExtractionResult) OK() bool {
	return r.Error == ""
}

// ProductEnvelope is the response returned for every product lookup,
// whichever strategy (or failure) produced it.
type ProductEnvelope struct {
	ProductID string          `json:"productId"`
	Region    string          `json:"region"`
	Locale    string          `json:"locale"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Source    Source          `json:"source,omitempty"`
	Error     string          `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// Config holds the configuration for the product extractor
type Config struct {
	BaseURL            string        `yaml:"base_url"`
	UserAgent          string        `yaml:"user_agent"`
	Referer            string        `yaml:"referer"`
	Cookie             string        `yaml:"cookie"`
	Timeout            time.Duration `yaml:"fetch_timeout"`
	MaxBodyBytes       int64         `yaml:"max_body_bytes"`
	UseHeadlessBrowser bool          `yaml:"use_headless_browser"`
	FallbackToPage     bool          `yaml:"fallback_to_page"`
	GlobalStateNames   []string      `yaml:"global_state_names"`
	DefaultRegion      string        `yaml:"default_region"`
	DefaultLocale      string        `yaml:"default_locale"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://shop.tiktok.com",
		UserAgent:          "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/134.0.0.0 Safari/537.36",
		Referer:            "https://shop.tiktok.com",
		Timeout:            30 * time.Second,
		MaxBodyBytes:       10 * 1024 * 1024,
		UseHeadlessBrowser: false,
		FallbackToPage:     true,
		GlobalStateNames:   []string{"_ROUTER_DATA", "__INITIAL_STATE__"},
		DefaultRegion:      DefaultRegion,
		DefaultLocale:      DefaultLocale,
	}
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
