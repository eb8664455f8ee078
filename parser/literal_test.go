package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLiteral(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"unquoted keys", `{title: "a", $id: 1}`, `{"title":"a","$id":1}`},
		{"single quotes", `{'k': 'it\'s'}`, `{"k":"it's"}`},
		{"trailing commas", `{a: [1, 2,], b: {},}`, `{"a":[1,2],"b":{}}`},
		{"comments", "{a: 1, // one\n /* two */ b: 2}", `{"a":1,"b":2}`},
		{"member order", `{z: 1, m: 2, a: 3}`, `{"z":1,"m":2,"a":3}`},
		{"large integer kept verbatim", `{id: 1731434312432060118}`, `{"id":1731434312432060118}`},
		{"hex number", `{n: 0x10}`, `{"n":16}`},
		{"keywords", `{a: true, b: false, c: null}`, `{"a":true,"b":false,"c":null}`},
		{"markup not escaped", `{h: '<b>&</b>'}`, `{"h":"<b>&</b>"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized, err := normalizeLiteral(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, normalized)
		})
	}
}

func TestNormalizeLiteral_Malformed(t *testing.T) {
	for _, input := range []string{`{a: 'open}`, `{a 1}`, `{a: 1} extra`, `[1 2]`} {
		_, err := normalizeLiteral(input)
		assert.Error(t, err, input)
	}
}

func TestParseLenient(t *testing.T) {
	doc, err := parseLenient(`{"strict": true}`)
	require.NoError(t, err)
	assert.Equal(t, `{"strict": true}`, doc.Raw)

	doc, err = parseLenient(`{nested: {productInfo: 'v',},}`)
	require.NoError(t, err)
	assert.Equal(t, "v", doc.Get("nested.productInfo").String())

	_, err = parseLenient(`{not valid`)
	assert.Error(t, err)
}
