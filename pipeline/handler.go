// Package pipeline connects files to the extraction, build and export steps.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bgraf/coordextract/export"
	"github.com/bgraf/coordextract/option"
	"github.com/bgraf/coordextract/point"
)

var ErrUnsupportedFile = errors.New("unsupported file type")

// sniffLen is the number of leading bytes inspected when detecting the input
// type.
const sniffLen = 512

// Handler is one end of the pipeline. Inputs produce records, outputs consume
// them; calling the other direction fails with ErrUnsupportedFile.
type Handler interface {
	ProcessInput(b *point.Builder) ([]point.Record, point.Stats, error)
	ProcessOutput(records []point.Record, indent option.Option[uint]) (option.Option[string], error)
}

// GPXInput reads points from a GPX file.
type GPXInput struct {
	Path string
}

func (h GPXInput) ProcessInput(b *point.Builder) ([]point.Record, point.Stats, error) {
	data, err := os.ReadFile(h.Path)
	if err != nil {
		return nil, point.Stats{}, fmt.Errorf("read %s: %w", h.Path, err)
	}
	return Convert(data, b)
}

func (h GPXInput) ProcessOutput([]point.Record, option.Option[uint]) (option.Option[string], error) {
	return option.None[string](), fmt.Errorf("%w: GPX output is not supported", ErrUnsupportedFile)
}

// RecordOutput writes records to Path or, without a path, returns them as a
// string.
type RecordOutput struct {
	Path   option.Option[string]
	Format export.Format
}

func (h RecordOutput) ProcessInput(*point.Builder) ([]point.Record, point.Stats, error) {
	return nil, point.Stats{}, fmt.Errorf("%w: %s input is not supported", ErrUnsupportedFile, h.Format)
}

func (h RecordOutput) ProcessOutput(records []point.Record, indent option.Option[uint]) (option.Option[string], error) {
	return export.ExportAs(records, h.Format, h.Path, indent)
}

// ResolveInput picks the handler for an input file from its extension and
// its leading bytes. Only GPX is accepted: the file must carry one of the
// given extensions or sniff as XML with a gpx root.
func ResolveInput(path string, extensions []string) (Handler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	head = head[:n]

	ext := strings.ToLower(filepath.Ext(path))
	if slices.Contains(extensions, ext) || looksLikeGPX(head) {
		return GPXInput{Path: path}, nil
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFile, path, http.DetectContentType(head))
}

// ResolveOutput picks the output handler. Without a destination the records
// are rendered as format, JSON if unset, and returned. With a destination the
// format follows its extension; a set format must agree with it.
func ResolveOutput(dest option.Option[string], format option.Option[export.Format]) (Handler, error) {
	if dest.IsNone() {
		return RecordOutput{Path: dest, Format: format.GetOr(export.JSON)}, nil
	}

	var byExt export.Format
	switch strings.ToLower(filepath.Ext(dest.Get())) {
	case ".json":
		byExt = export.JSON
	case ".yaml", ".yml":
		byExt = export.YAML
	case ".gpx":
		return GPXInput{Path: dest.Get()}, nil
	default:
		return nil, fmt.Errorf("%w: output %s", ErrUnsupportedFile, dest.Get())
	}

	if format.IsSome() && format.Get() != byExt {
		return nil, fmt.Errorf("%w: output %s does not match format %s", ErrUnsupportedFile, dest.Get(), format.Get())
	}

	return RecordOutput{Path: dest, Format: byExt}, nil
}

func looksLikeGPX(head []byte) bool {
	if !strings.HasPrefix(http.DetectContentType(head), "text/xml") {
		return false
	}
	return bytes.Contains(head, []byte("<gpx")) || bytes.Contains(head, []byte(":gpx"))
}
