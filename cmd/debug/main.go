package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"tiktok-product-api/adapters"
	"tiktok-product-api/internal/config"
	"tiktok-product-api/internal/types"
	"tiktok-product-api/parser"
)

// Prints what the extractor can see on a product page: the script blocks,
// whether they parse, and whether a global-state assignment is present.
func main() {
	var (
		idFlag     = flag.String("id", "1731434312432060118", "Product ID to inspect")
		regionFlag = flag.String("region", types.DefaultRegion, "Region code")
		localeFlag = flag.String("locale", types.DefaultLocale, "Locale code")
		ssrFlag    = flag.Bool("ssr", false, "Inspect the SSR endpoint instead of the product page")
	)
	flag.Parse()

	logger := config.NewLogger(true)
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	adapter := adapters.NewTikTokAdapter(cfg, logger)
	defer adapter.Close()

	req := types.NewFetchRequest(*idFlag, *regionFlag, *localeFlag)
	fetch := adapter.FetchPage
	if *ssrFlag {
		fetch = adapter.FetchSSR
	}

	page, err := fetch(context.Background(), req)
	if err != nil {
		log.Fatalf("Failed to fetch page: %v", err)
	}
	fmt.Printf("=== %s ===\n", page.URL)
	fmt.Printf("Status: %d, Content-Type: %q, %d bytes\n", page.StatusCode, page.ContentType, len(page.Body))

	if _, ok := parser.ParseDocument(page.Body); ok {
		fmt.Println("Body is a non-empty JSON document")
	}

	p := parser.NewParser(cfg, logger)
	if literal, ok := p.GlobalState(page.Body); ok {
		fmt.Printf("Global state assignment found (%d bytes)\n", len(literal))
	} else {
		fmt.Println("No global state assignment found")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.Body))
	if err != nil {
		log.Fatalf("Failed to parse HTML: %v", err)
	}
	fmt.Printf("Title: %q\n", strings.TrimSpace(doc.Find("title").First().Text()))

	blocks := parser.ScriptBlocks(doc)
	fmt.Printf("Script blocks found: %d\n", len(blocks))
	for _, block := range blocks {
		status := ""
		if block.IsJSONType() {
			if _, ok := parser.ParseDocument(strings.TrimSpace(block.Text)); ok {
				status = "json"
			} else {
				status = "json (unparseable or empty)"
			}
		}
		fmt.Printf("  %d: id=%q type=%q len=%d %s\n", block.Index+1, block.ID, block.Type, len(block.Text), status)
	}

	result := p.Extract(page.Body, req)
	fmt.Printf("Extraction source: %s, %d bytes of data\n", result.Source, len(result.Data))
}
