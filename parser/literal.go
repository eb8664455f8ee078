package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/titanous/json5"
)

var strictNumber = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)

// parseLenient accepts strict JSON and falls back to JSON5 for JavaScript
// object literals (unquoted keys, single quotes, trailing commas, comments).
// Members keep the order they were written in.
func parseLenient(text string) (gjson.Result, error) {
	text = strings.TrimSpace(text)
	if gjson.Valid(text) {
		return gjson.Parse(text), nil
	}
	var value interface{}
	if err := json5.Unmarshal([]byte(text), &value); err != nil {
		return gjson.Result{}, err
	}
	normalized, err := normalizeLiteral(text)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.Valid(normalized) {
		return gjson.Result{}, fmt.Errorf("object literal normalised to invalid JSON")
	}
	return gjson.Parse(normalized), nil
}

// normalizeLiteral rewrites a JSON5 document as strict JSON without
// reordering object members. Scalars are decoded by json5 one at a time.
func normalizeLiteral(text string) (string, error) {
	r := &literalReader{src: text}
	if err := r.value(); err != nil {
		return "", err
	}
	r.skipSpace()
	if r.pos != len(r.src) {
		return "", fmt.Errorf("unexpected %q at offset %d", r.src[r.pos], r.pos)
	}
	return r.out.String(), nil
}

type literalReader struct {
	src string
	pos int
	out strings.Builder
}

func (r *literalReader) value() error {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return fmt.Errorf("unexpected end of input")
	}
	switch c := r.src[r.pos]; c {
	case '{':
		return r.object()
	case '[':
		return r.array()
	case '"', '\'':
		token, err := r.quoted()
		if err != nil {
			return err
		}
		return r.writeString(token)
	default:
		return r.bare()
	}
}

func (r *literalReader) object() error {
	r.pos++
	r.out.WriteByte('{')
	for first := true; ; first = false {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return fmt.Errorf("unterminated object")
		}
		if r.src[r.pos] == '}' {
			r.pos++
			r.out.WriteByte('}')
			return nil
		}
		if !first {
			r.out.WriteByte(',')
		}
		if err := r.key(); err != nil {
			return err
		}
		r.skipSpace()
		if r.pos >= len(r.src) || r.src[r.pos] != ':' {
			return fmt.Errorf("expected ':' at offset %d", r.pos)
		}
		r.pos++
		r.out.WriteByte(':')
		if err := r.value(); err != nil {
			return err
		}
		if err := r.separator('}'); err != nil {
			return err
		}
	}
}

func (r *literalReader) array() error {
	r.pos++
	r.out.WriteByte('[')
	for first := true; ; first = false {
		r.skipSpace()
		if r.pos >= len(r.src) {
			return fmt.Errorf("unterminated array")
		}
		if r.src[r.pos] == ']' {
			r.pos++
			r.out.WriteByte(']')
			return nil
		}
		if !first {
			r.out.WriteByte(',')
		}
		if err := r.value(); err != nil {
			return err
		}
		if err := r.separator(']'); err != nil {
			return err
		}
	}
}

// separator consumes the comma after a member, leaving a closing bracket in place.
func (r *literalReader) separator(closing byte) error {
	r.skipSpace()
	if r.pos >= len(r.src) {
		return fmt.Errorf("unexpected end of input")
	}
	switch r.src[r.pos] {
	case ',':
		r.pos++
		return nil
	case closing:
		return nil
	}
	return fmt.Errorf("unexpected %q at offset %d", r.src[r.pos], r.pos)
}

func (r *literalReader) key() error {
	c := r.src[r.pos]
	if c == '"' || c == '\'' {
		token, err := r.quoted()
		if err != nil {
			return err
		}
		return r.writeString(token)
	}
	start := r.pos
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		r.pos++
	}
	if r.pos == start {
		return fmt.Errorf("missing key at offset %d", start)
	}
	return r.writeJSON(r.src[start:r.pos])
}

// quoted returns the raw string token under the cursor, quotes included.
func (r *literalReader) quoted() (string, error) {
	start := r.pos
	quote := r.src[r.pos]
	r.pos++
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case '\\':
			r.pos += 2
		case quote:
			r.pos++
			return r.src[start:r.pos], nil
		default:
			r.pos++
		}
	}
	return "", fmt.Errorf("unterminated string at offset %d", start)
}

// bare handles numbers and keyword literals.
func (r *literalReader) bare() error {
	start := r.pos
	for r.pos < len(r.src) && !isDelimiter(r.src[r.pos]) {
		r.pos++
	}
	token := r.src[start:r.pos]
	switch {
	case token == "":
		return fmt.Errorf("unexpected %q at offset %d", r.src[start], start)
	case token == "true", token == "false", token == "null", strictNumber.MatchString(token):
		r.out.WriteString(token)
		return nil
	}
	// hex, a leading '+' or a bare decimal point
	var number float64
	if err := json5.Unmarshal([]byte(token), &number); err != nil {
		return fmt.Errorf("invalid literal %q: %w", token, err)
	}
	return r.writeJSON(number)
}

func (r *literalReader) writeString(token string) error {
	var s string
	if err := json5.Unmarshal([]byte(token), &s); err != nil {
		return fmt.Errorf("invalid string %s: %w", token, err)
	}
	return r.writeJSON(s)
}

func (r *literalReader) writeJSON(v interface{}) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	r.out.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return nil
}

func (r *literalReader) skipSpace() {
	for r.pos < len(r.src) {
		switch c := r.src[r.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			r.pos++
		case strings.HasPrefix(r.src[r.pos:], "//"):
			end := strings.IndexByte(r.src[r.pos:], '\n')
			if end < 0 {
				r.pos = len(r.src)
				return
			}
			r.pos += end + 1
		case strings.HasPrefix(r.src[r.pos:], "/*"):
			end := strings.Index(r.src[r.pos+2:], "*/")
			if end < 0 {
				r.pos = len(r.src)
				return
			}
			r.pos += end + 4
		default:
			return
		}
	}
}

func isDelimiter(c byte) bool {
	switch c {
	case ',', ':', '{', '}', '[', ']', ' ', '\t', '\n', '\r', '/':
		return true
	}
	return false
}
