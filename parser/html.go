package parser

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"tiktok-product-api/internal/types"
)

// UnknownTitle is used when the page has no usable <title>
const UnknownTitle = "Unknown Product"

const snippetLength = 1000

var jsonScriptTypes = map[string]bool{
	"application/json":    true,
	"application/ld+json": true,
}

// ScriptBlock is one <script> element of a page
type ScriptBlock struct {
	Index int
	ID    string
	Type  string
	Text  string
}

// IsJSONType reports whether the type attribute marks the block as a JSON payload
func (s ScriptBlock) IsJSONType() bool {
	return jsonScriptTypes[strings.ToLower(strings.TrimSpace(s.Type))]
}

// ScriptBlocks lists the script elements of doc in document order
func ScriptBlocks(doc *goquery.Document) []ScriptBlock {
	var blocks []ScriptBlock
	doc.Find("script").Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		typ, _ := s.Attr("type")
		blocks = append(blocks, ScriptBlock{
			Index: i,
			ID:    id,
			Type:  typ,
			Text:  s.Text(),
		})
	})
	return blocks
}

// GlobalState returns the raw object literal assigned to a known global
// variable, if the page has one.
func (p *Parser) GlobalState(body string) (string, bool) {
	if p.globalState == nil {
		return "", false
	}
	match := p.globalState.FindStringSubmatch(body)
	if match == nil {
		return "", false
	}
	return match[1], true
}

type basicRecord struct {
	Title       string `json:"title"`
	ProductID   string `json:"productId"`
	Region      string `json:"region"`
	Locale      string `json:"locale"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
	HTMLSnippet string `json:"htmlSnippet"`
}

func basicRecordJSON(doc *goquery.Document, body string, req types.FetchRequest) (json.RawMessage, error) {
	record := basicRecord{
		Title:       pageTitle(doc),
		ProductID:   req.ProductID,
		Region:      req.Region,
		Locale:      req.Locale,
		HTMLSnippet: truncateRunes(body, snippetLength),
	}

	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(body)); err == nil {
		record.Description = strings.TrimSpace(og.Description)
		record.SiteName = strings.TrimSpace(og.SiteName)
		if len(og.Images) > 0 && og.Images[0] != nil {
			record.Image = og.Images[0].URL
		}
	}

	return json.Marshal(record)
}

// pageTitle returns the text of the first <title> element. The text is the
// parsed HTML text, so character references are decoded, and surrounding
// whitespace is trimmed. A missing or blank title yields UnknownTitle.
func pageTitle(doc *goquery.Document) string {
	if doc == nil {
		return UnknownTitle
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return UnknownTitle
	}
	return title
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
