// Package config builds the runtime configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"tiktok-product-api/internal/types"
)

// Environment variables recognised by Load
const (
	EnvBaseURL            = "SHOP_BASE_URL"
	EnvUserAgent          = "SHOP_USER_AGENT"
	EnvReferer            = "SHOP_REFERER"
	EnvCookie             = "SHOP_COOKIE"
	EnvTimeout            = "FETCH_TIMEOUT"
	EnvMaxBodyBytes       = "MAX_BODY_BYTES"
	EnvUseHeadlessBrowser = "USE_HEADLESS_BROWSER"
	EnvFallbackToPage     = "FALLBACK_TO_PAGE"
	EnvGlobalStateNames   = "GLOBAL_STATE_NAMES"
	EnvDefaultRegion      = "DEFAULT_REGION"
	EnvDefaultLocale      = "DEFAULT_LOCALE"
)

// Load returns the default configuration overlaid with the YAML file at path
// (skipped when path is empty) and then with environment variables.
func Load(path string) (*types.Config, error) {
	config := types.DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}

	if config.BaseURL == "" {
		return nil, fmt.Errorf("base_url is required")
	}
	if config.Timeout < 0 {
		return nil, fmt.Errorf("fetch_timeout must not be negative")
	}
	return config, nil
}

func applyEnv(config *types.Config) error {
	setString(EnvBaseURL, &config.BaseURL)
	setString(EnvUserAgent, &config.UserAgent)
	setString(EnvReferer, &config.Referer)
	setString(EnvCookie, &config.Cookie)
	setString(EnvDefaultRegion, &config.DefaultRegion)
	setString(EnvDefaultLocale, &config.DefaultLocale)

	if v, ok := os.LookupEnv(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		config.Timeout = d
	}
	if v, ok := os.LookupEnv(EnvMaxBodyBytes); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMaxBodyBytes, err)
		}
		config.MaxBodyBytes = n
	}
	if err := setBool(EnvUseHeadlessBrowser, &config.UseHeadlessBrowser); err != nil {
		return err
	}
	if err := setBool(EnvFallbackToPage, &config.FallbackToPage); err != nil {
		return err
	}
	if v, ok := os.LookupEnv(EnvGlobalStateNames); ok {
		var names []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		config.GlobalStateNames = names
	}
	return nil
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}
