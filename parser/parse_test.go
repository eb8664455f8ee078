package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tiktok-product-api/internal/types"
)

func newTestParser() *Parser {
	return NewParser(types.DefaultConfig(), logrus.New())
}

var testRequest = types.NewFetchRequest("1731434312432060118", "VN", "vi")

func decodeRecord(t *testing.T, data json.RawMessage) map[string]interface{} {
	t.Helper()
	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &record))
	return record
}

func TestExtract_DirectJSON(t *testing.T) {
	body := `[{"loaderData":{"(shop$)/(pdp)/(name$)/(id)/page":{"initialData":{"productInfo":{"title":"Giày","price":199000}}}}}]`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceSSR, result.Source)
	assert.JSONEq(t, `{"title":"Giày","price":199000}`, string(result.Data))
}

func TestExtract_JSONWithoutProductInfoFallsThrough(t *testing.T) {
	result := newTestParser().Extract(`{"status":"ok"}`, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceHTMLBasic, result.Source)
	assert.Equal(t, UnknownTitle, decodeRecord(t, result.Data)["title"])
}

func TestExtract_GlobalState(t *testing.T) {
	body := `<html><head><title>Shop</title></head><body>
<script>window._ROUTER_DATA = {"loaderData":{"(shop$)/(pdp)/(name$)/(id)/page":{"initialData":{"productInfo":{"id":"42"}}}}};</script>
<script>var later = {"x": 1};</script>
</body></html>`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceHTMLExtract, result.Source)
	assert.JSONEq(t, `{"id":"42"}`, string(result.Data))
}

func TestExtract_GlobalStateObjectLiteral(t *testing.T) {
	body := `<script type="text/javascript">
  window.__INITIAL_STATE__ = {productInfo: {title: 'Nón lá',},}
</script>`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceHTMLExtract, result.Source)
	assert.JSONEq(t, `{"title":"Nón lá"}`, string(result.Data))
}

func TestExtract_GlobalStateSingleQuotedNestedValue(t *testing.T) {
	body := `<script>window.__INITIAL_STATE__ = {x: {productInfo: 'v'}}</script>`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceHTMLExtract, result.Source)
	assert.Equal(t, `"v"`, string(result.Data))
}

func TestExtract_GlobalStateKeepsMemberOrder(t *testing.T) {
	body := `<script>window.__INITIAL_STATE__ = {productInfo: {z: 1, a: 2,}}</script>`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, `{"z":1,"a":2}`, string(result.Data))
}

func TestExtract_GlobalStateSearchesInWrittenOrder(t *testing.T) {
	body := `<script>window.__INITIAL_STATE__ = {b: {productInfo: 'from-b'}, a: {productInfo: 'from-a'}}</script>`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, `"from-b"`, string(result.Data))
}

func TestExtract_GlobalStateDisabled(t *testing.T) {
	config := types.DefaultConfig()
	config.GlobalStateNames = nil
	p := NewParser(config, logrus.New())
	body := `<script>window._ROUTER_DATA = {"productInfo":{"id":"42"}};</script>`

	result := p.Extract(body, testRequest)

	assert.Equal(t, types.SourceHTMLBasic, result.Source)
}

func TestExtract_JSONScripts(t *testing.T) {
	body := `<html><body>
<script type="application/json">{not json</script>
<script type="application/json">{"unrelated":true}</script>
<script type="application/json" id="state">{"props":{"productInfo":{"id":"9"}}}</script>
</body></html>`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceJSONScripts, result.Source)
	assert.JSONEq(t, `{"id":"9"}`, string(result.Data))
}

func TestExtract_JSONScriptsFirstParsedBlockFallback(t *testing.T) {
	body := `<html><body>
<script type="application/json">broken</script>
<script type="Application/LD+JSON">{"@type":"Product","name":"Ví da"}</script>
<script type="application/json">{"second":true}</script>
</body></html>`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceJSONScripts, result.Source)
	assert.JSONEq(t, `{"@type":"Product","name":"Ví da"}`, string(result.Data))
}

func TestExtract_BasicHTML(t *testing.T) {
	body := `<html><head>
<title> Cool Shoes | TikTok Shop </title>
<meta property="og:description" content="Lightweight running shoes">
<meta property="og:image" content="https://cdn.example.com/shoe.jpg">
</head><body><script>var x = 1;</script></body></html>`

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceHTMLBasic, result.Source)
	record := decodeRecord(t, result.Data)
	assert.Equal(t, "Cool Shoes | TikTok Shop", record["title"])
	assert.Equal(t, "1731434312432060118", record["productId"])
	assert.Equal(t, "VN", record["region"])
	assert.Equal(t, "vi", record["locale"])
	assert.Equal(t, "Lightweight running shoes", record["description"])
	assert.Equal(t, "https://cdn.example.com/shoe.jpg", record["image"])
	assert.Equal(t, body, record["htmlSnippet"])
}

func TestExtract_BasicHTMLWithoutTitle(t *testing.T) {
	result := newTestParser().Extract(`<html><body><p>captcha</p></body></html>`, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceHTMLBasic, result.Source)
	record := decodeRecord(t, result.Data)
	assert.Equal(t, UnknownTitle, record["title"])
	assert.NotContains(t, record, "description")
}

func TestExtract_BasicHTMLTitleIsDecodedText(t *testing.T) {
	body := "<html><head><title>\n  Tom &amp; Jerry &#39;Mug&#39;\t</title></head></html>"

	result := newTestParser().Extract(body, testRequest)

	require.True(t, result.OK())
	assert.Equal(t, "Tom & Jerry 'Mug'", decodeRecord(t, result.Data)["title"])
}

func TestExtract_BasicHTMLSnippetTruncated(t *testing.T) {
	body := "<title>x</title>" + strings.Repeat("ạ", 2000)

	result := newTestParser().Extract(body, testRequest)

	snippet := decodeRecord(t, result.Data)["htmlSnippet"].(string)
	assert.Equal(t, 1000, len([]rune(snippet)))
	assert.True(t, strings.HasPrefix(body, snippet))
}

func TestExtract_EmptyBody(t *testing.T) {
	result := newTestParser().Extract("", testRequest)

	require.True(t, result.OK())
	assert.Equal(t, types.SourceHTMLBasic, result.Source)
	assert.Equal(t, UnknownTitle, decodeRecord(t, result.Data)["title"])
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"a":1}`, true},
		{` [1] `, true},
		{`{}`, false},
		{`[]`, false},
		{`"text"`, false},
		{`null`, false},
		{`<html></html>`, false},
		{`{"a":`, false},
	}

	for _, tt := range tests {
		_, ok := ParseDocument(tt.body)
		assert.Equal(t, tt.want, ok, tt.body)
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ạb", truncateRunes("ạbc", 2))
	assert.Equal(t, "", truncateRunes("abc", 0))
}
