package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bgraf/coordextract/export"
	"github.com/bgraf/coordextract/filesystem"
	"github.com/bgraf/coordextract/gpx"
	"github.com/bgraf/coordextract/option"
	"github.com/bgraf/coordextract/point"
	"golang.org/x/sync/errgroup"
)

// Convert extracts the points of a GPX document and builds their records.
func Convert(data []byte, b *point.Builder) ([]point.Record, point.Stats, error) {
	x, err := gpx.Extract(data)
	if err != nil {
		return nil, point.Stats{}, err
	}
	return b.BuildAll(x)
}

// ErrOutputConflict reports batch inputs that map to the same output file.
var ErrOutputConflict = errors.New("output file claimed by several inputs")

// Options configure a file conversion.
type Options struct {
	Builder    *point.Builder
	// Format is the requested output format. Unset, string output is JSON
	// and file output follows the destination's extension.
	Format     option.Option[export.Format]
	Indent     option.Option[uint]
	Extensions []string
	Log        *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Log == nil {
		return slog.Default()
	}
	return o.Log
}

// ConvertFile converts one input file. The rendered output is returned when
// dest is None, otherwise it is written to dest.
func ConvertFile(input string, dest option.Option[string], opts Options) (option.Option[string], point.Stats, error) {
	in, err := ResolveInput(input, opts.Extensions)
	if err != nil {
		return option.None[string](), point.Stats{}, err
	}

	out, err := ResolveOutput(dest, opts.Format)
	if err != nil {
		return option.None[string](), point.Stats{}, err
	}

	records, stats, err := in.ProcessInput(opts.Builder)
	if err != nil {
		return option.None[string](), stats, err
	}

	opts.logger().Debug("converted file",
		slog.String("file", input),
		slog.Int("built", stats.Built),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)

	result, err := out.ProcessOutput(records, opts.Indent)
	return result, stats, err
}

// BatchOptions configure ConvertBatch.
type BatchOptions struct {
	Options
	// OutputDir receives the output files; empty means next to each input.
	OutputDir string
	// Jobs bounds the number of files converted at once.
	Jobs int
	// Progress receives a progress bar; nil disables it.
	Progress io.Writer
}

// Result is the outcome for one file of a batch.
type Result struct {
	Input  string
	Output string
	Stats  point.Stats
	Err    error
}

// ConvertBatch converts every input into its own output file. Files are
// independent: a failing file is reported in its Result and does not stop
// the others. Inputs that would share an output file are not converted and
// fail with ErrOutputConflict. The returned error joins all per-file errors.
func ConvertBatch(ctx context.Context, inputs []string, opts BatchOptions) ([]Result, error) {
	results := make([]Result, len(inputs))
	bar := newProgress(opts.Progress, len(inputs))
	defer bar.Done()

	g, ctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}

	outputs := make([]string, len(inputs))
	claims := make(map[string][]string, len(inputs))
	for i, input := range inputs {
		outputs[i] = filepath.Clean(filesystem.OutputPath(input, opts.OutputDir, opts.Format.GetOr(export.JSON).Extension()))
		claims[outputs[i]] = append(claims[outputs[i]], input)
	}

	for i, input := range inputs {
		g.Go(func() error {
			defer bar.Inc()

			output := outputs[i]
			results[i] = Result{Input: input, Output: output}

			if others := claims[output]; len(others) > 1 {
				results[i].Err = fmt.Errorf("%s: %w: %s is also the output of %s",
					input, ErrOutputConflict, output, except(others, input))
				return nil
			}

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			_, stats, err := ConvertFile(input, option.Some(output), opts.Options)
			results[i].Stats = stats
			if err != nil {
				results[i].Err = fmt.Errorf("%s: %w", input, err)
				opts.logger().Error("conversion failed", slog.String("file", input), slog.Any("error", err))
			}
			return nil
		})
	}

	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}

	return results, errors.Join(errs...)
}

// except lists the inputs other than input.
func except(inputs []string, input string) string {
	others := slices.DeleteFunc(slices.Clone(inputs), func(o string) bool {
		return o == input
	})
	return strings.Join(others, ", ")
}
