// Package export serializes point records.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bgraf/coordextract/option"
	"github.com/bgraf/coordextract/point"
	"gopkg.in/yaml.v3"
)

var ErrWrite = errors.New("writing output failed")

// DefaultIndent is used when no indent is given.
const DefaultIndent = 2

type Format int

const (
	JSON Format = iota
	YAML
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return JSON, fmt.Errorf("unknown output format %q", s)
}

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	if f == YAML {
		return ".yaml"
	}
	return ".json"
}

// Export renders records as a JSON array. Without a destination the JSON is
// returned; otherwise it is written to the destination file and None is
// returned.
func Export(records []point.Record, dest option.Option[string], indent option.Option[uint]) (option.Option[string], error) {
	return ExportAs(records, JSON, dest, indent)
}

// ExportAs is Export for an arbitrary format.
func ExportAs(records []point.Record, format Format, dest option.Option[string], indent option.Option[uint]) (option.Option[string], error) {
	data, err := Render(records, format, indent.GetOr(DefaultIndent))
	if err != nil {
		return option.None[string](), err
	}

	if dest.IsNone() {
		return option.Some(string(data)), nil
	}

	if err := os.WriteFile(dest.Get(), append(data, '\n'), 0o666); err != nil {
		return option.None[string](), fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return option.None[string](), nil
}

// Render serializes records without a trailing newline. Keys of each record
// are emitted in sorted order, so equal input gives byte-identical output.
// An indent of 0 gives compact JSON.
func Render(records []point.Record, format Format, indent uint) ([]byte, error) {
	if records == nil {
		records = []point.Record{}
	}

	var buf bytes.Buffer

	switch format {
	case YAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(int(max(indent, 1)))
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

	default:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", int(indent)))
		}
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
