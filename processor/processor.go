// Package processor converts documents between bytes and doclai.Value and
// provides the HTML markup repairer.
package processor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/doclai"
)

// DocumentCodec decodes a document into a value tree and encodes it back.
// Encode(Decode(b)) keeps mapping key order.
type DocumentCodec interface {
	Decode(data []byte) (doclai.Value, error)
	Encode(v doclai.Value) ([]byte, error)
	ContentType() string
}

// ForFormat returns the codec registered for a format name ("json", "yaml"
// or "yml").
func ForFormat(format string) (DocumentCodec, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
}

// ForPath picks a codec from the file extension of path.
func ForPath(path string) (DocumentCodec, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("cannot infer document format of %q", path)
	}
	return ForFormat(ext)
}

func decodeError(contentType string, err error) error {
	return &doclai.ProcessorError{
		Message:     "failed to decode document",
		Cause:       err,
		ContentType: contentType,
	}
}

func encodeError(contentType string, err error) error {
	return &doclai.ProcessorError{
		Message:     "failed to encode document",
		Cause:       err,
		ContentType: contentType,
	}
}
