package processor

import (
	"bytes"
	"encoding/json"

	"github.com/ZaguanLabs/doclai"
)

// JSONCodec reads and writes JSON documents.
type JSONCodec struct {
	Indent string // Empty writes compact JSON
}

// NewJSONCodec returns a codec writing two-space indented JSON.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: "  "}
}

// ContentType returns "json".
func (c *JSONCodec) ContentType() string { return "json" }

// Decode parses data, keeping key order and number literals.
func (c *JSONCodec) Decode(data []byte) (doclai.Value, error) {
	v, err := doclai.ParseJSON(data)
	if err != nil {
		return doclai.Value{}, decodeError(c.ContentType(), err)
	}
	return v, nil
}

// Encode writes v followed by a newline. Markup in strings is not escaped.
func (c *JSONCodec) Encode(v doclai.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, encodeError(c.ContentType(), err)
	}
	return buf.Bytes(), nil
}

var _ DocumentCodec = (*JSONCodec)(nil)
