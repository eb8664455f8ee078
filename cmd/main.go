package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"tiktok-product-api/extractor"
	"tiktok-product-api/internal/config"
	"tiktok-product-api/internal/types"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	var (
		idFlag     = flag.String("id", "", "Product ID to fetch")
		regionFlag = flag.String("region", "", "Region code (default VN)")
		localeFlag = flag.String("locale", "", "Locale code (default vi)")
		configFlag = flag.String("config", os.Getenv("CONFIG_FILE"), "Path to a YAML config file")
		outputFlag = flag.String("output", "", "Output file path (default: stdout)")
		timeout    = flag.Duration("timeout", 0, "Request timeout (overrides config)")
		httpOnly   = flag.Bool("http-only", false, "Disable the headless browser for the page fallback")
		noFallback = flag.Bool("ssr-only", false, "Only query the SSR endpoint, never the full page")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	productID := strings.TrimSpace(*idFlag)
	if productID == "" && flag.NArg() > 0 {
		productID = strings.TrimSpace(flag.Arg(0))
	}
	if productID == "" {
		log.Fatal("A product ID is required (--id or first argument)")
	}

	logger := config.NewLogger(*verbose)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *httpOnly {
		cfg.UseHeadlessBrowser = false
	}
	if *noFallback {
		cfg.FallbackToPage = false
	}

	region := *regionFlag
	if region == "" {
		region = cfg.DefaultRegion
	}
	locale := *localeFlag
	if locale == "" {
		locale = cfg.DefaultLocale
	}

	productExtractor := extractor.NewProductExtractor(cfg, logger)
	defer productExtractor.Close()

	// Bound the whole run, including a possible page fallback
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Timeout+10*time.Second)
	defer cancel()

	startTime := time.Now()
	logger.Infof("Fetching product %s (region=%s, locale=%s)", productID, region, locale)

	envelope := productExtractor.Extract(ctx, types.NewFetchRequest(productID, region, locale))

	jsonData, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		logger.Fatalf("Failed to marshal result: %v", err)
	}

	if *outputFlag != "" {
		if err := os.WriteFile(*outputFlag, jsonData, 0644); err != nil {
			logger.Fatalf("Failed to write output file: %v", err)
		}
		logger.Infof("Result written to: %s", *outputFlag)
	} else {
		fmt.Println(string(jsonData))
	}

	logger.Infof("Completed in %v (success=%v, source=%s)", time.Since(startTime), envelope.Success, envelope.Source)
	if !envelope.Success {
		os.Exit(1)
	}
}
