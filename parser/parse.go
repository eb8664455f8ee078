package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"tiktok-product-api/internal/types"
)

// Parser recovers product data from an upstream response body. It tries, in
// order: the body as JSON, a global-state script assignment, JSON script
// blocks and finally a title-only record built from the raw HTML.
type Parser struct {
	globalState *regexp.Regexp
	logger      types.Logger
}

// NewParser creates a parser recognising the global-state variables named in config
func NewParser(config *types.Config, logger types.Logger) *Parser {
	return &Parser{
		globalState: globalStatePattern(config.GlobalStateNames),
		logger:      logger,
	}
}

func globalStatePattern(names []string) *regexp.Regexp {
	var quoted []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			quoted = append(quoted, regexp.QuoteMeta(name))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	// the capture stops at the first brace that closes the script
	return regexp.MustCompile(`(?s)<script[^>]*>\s*window\.(?:` + strings.Join(quoted, "|") +
		`)\s*=\s*(\{.*?\})\s*;?\s*</script>`)
}

// Extract runs the strategy chain over body. The html_basic fallback needs
// nothing but the raw text, so a result is always produced.
func (p *Parser) Extract(body string, req types.FetchRequest) types.ExtractionResult {
	if data, ok := p.fromDirectJSON(body); ok {
		return p.result(data, types.SourceSSR)
	}

	if data, ok := p.fromGlobalState(body); ok {
		return p.result(data, types.SourceHTMLExtract)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		p.logger.Debugf("Body is not parseable as HTML: %v", err)
	}

	if doc != nil {
		if data, ok := p.fromJSONScripts(doc); ok {
			return p.result(data, types.SourceJSONScripts)
		}
	}

	record, err := basicRecordJSON(doc, body, req)
	if err != nil {
		return types.ExtractionResult{Error: fmt.Sprintf("failed to build basic record: %v", err)}
	}
	return p.result(record, types.SourceHTMLBasic)
}

func (p *Parser) result(data json.RawMessage, source types.Source) types.ExtractionResult {
	p.logger.Debugf("Extracted %d bytes of product data via %s", len(data), source)
	return types.ExtractionResult{Data: data, Source: source}
}

// ParseDocument parses body as a strict JSON document and reports whether it
// is non-empty: an object with at least one key or an array with at least one element.
func ParseDocument(body string) (gjson.Result, bool) {
	if !gjson.Valid(body) {
		return gjson.Result{}, false
	}
	doc := gjson.Parse(body)
	if !doc.IsObject() && !doc.IsArray() {
		return gjson.Result{}, false
	}
	empty := true
	doc.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return doc, !empty
}

func (p *Parser) fromDirectJSON(body string) (json.RawMessage, bool) {
	doc, ok := ParseDocument(body)
	if !ok {
		return nil, false
	}
	value, found := Locate(doc)
	if !found {
		p.logger.Debug("Body is JSON but carries no product info")
		return nil, false
	}
	return json.RawMessage(value.Raw), true
}

func (p *Parser) fromGlobalState(body string) (json.RawMessage, bool) {
	literal, ok := p.GlobalState(body)
	if !ok {
		return nil, false
	}
	doc, err := parseLenient(literal)
	if err != nil {
		p.logger.Debugf("Global state assignment is not parseable: %v", err)
		return nil, false
	}
	value, found := Locate(doc)
	if !found {
		return nil, false
	}
	return json.RawMessage(value.Raw), true
}

// fromJSONScripts returns the first JSON script block holding product info,
// or the first block that parsed at all when none of them does.
func (p *Parser) fromJSONScripts(doc *goquery.Document) (json.RawMessage, bool) {
	var first *gjson.Result
	for _, block := range ScriptBlocks(doc) {
		if !block.IsJSONType() {
			continue
		}
		text := strings.TrimSpace(block.Text)
		if !gjson.Valid(text) {
			p.logger.Debugf("Skipping unparseable JSON script block %d", block.Index)
			continue
		}
		parsed := gjson.Parse(text)
		if value, found := Locate(parsed); found {
			return json.RawMessage(value.Raw), true
		}
		if first == nil {
			first = &parsed
		}
	}
	if first != nil {
		p.logger.Debug("No script block carries product info, returning the first parsed block")
		return json.RawMessage(first.Raw), true
	}
	return nil, false
}
