package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bgraf/coordextract/config"
	"github.com/bgraf/coordextract/export"
	"github.com/bgraf/coordextract/filesystem"
	"github.com/bgraf/coordextract/option"
	"github.com/bgraf/coordextract/pipeline"
	"github.com/bgraf/coordextract/point"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert [files or directories...]",
	Short: "Convert the points of GPX files to MGRS records",
	Long: `Convert extracts all waypoints, trackpoints and routepoints of a GPX file
and writes them as records carrying the MGRS reference of each point.

A single file is written to --output or, without it, to standard output.
Several files or a directory produce one output file per input, placed in
--output-dir or next to the input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("output", "o", "", "Output file (single input only)")
	convertCmd.Flags().Bool("best-effort", false, "Drop failing points instead of aborting")

	bindFlag(convertCmd, config.KeyIndent, "indent", "i", uint(config.DefaultIndent()), "Spaces per indentation level, 0 for compact output")
	bindFlag(convertCmd, config.KeyFormat, "format", "", "json", "Output format: json or yaml")
	bindFlag(convertCmd, config.KeyMode, "mode", "", "fail-fast", "Point failure mode: fail-fast or best-effort")
	bindFlag(convertCmd, config.KeyJobs, "jobs", "j", config.DefaultJobs(), "Number of files converted concurrently")
	bindFlag(convertCmd, config.KeyOutputDir, "output-dir", "", "", "Directory receiving batch output files")
	bindFlag(convertCmd, config.KeyProgress, "progress", "", true, "Show a progress bar for batch conversions")
}

// bindFlag registers a flag on cmd and binds it to the viper key.
func bindFlag[T uint | int | string | bool](cmd *cobra.Command, key, name, short string, value T, usage string) {
	flags := cmd.Flags()

	switch v := any(value).(type) {
	case uint:
		flags.UintP(name, short, v, usage)
	case int:
		flags.IntP(name, short, v, usage)
	case string:
		flags.StringP(name, short, v, usage)
	case bool:
		flags.BoolP(name, short, v, usage)
	}

	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(err)
	}
}

func convertOptions(cmd *cobra.Command) (pipeline.Options, error) {
	mode, err := point.ParseMode(config.Mode())
	if err != nil {
		return pipeline.Options{}, err
	}

	bestEffort, err := cmd.Flags().GetBool("best-effort")
	if err != nil {
		return pipeline.Options{}, err
	}
	if bestEffort {
		mode = point.BestEffort
	}

	format, err := export.ParseFormat(config.Format())
	if err != nil {
		return pipeline.Options{}, err
	}

	// An output file picks its format by extension unless --format is given.
	requested := option.Some(format)
	if output, _ := cmd.Flags().GetString("output"); output != "" && !cmd.Flags().Changed("format") {
		requested = option.None[export.Format]()
	}

	log := slog.Default()

	return pipeline.Options{
		Builder:    point.NewBuilder(mode, log),
		Format:     requested,
		Indent:     option.Some(config.Indent()),
		Extensions: config.InputExtensions(),
		Log:        log,
	}, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	opts, err := convertOptions(cmd)
	if err != nil {
		return err
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if len(args) == 1 && !filesystem.IsDirectory(args[0]) {
		return convertSingle(cmd.OutOrStdout(), args[0], output, opts)
	}

	if output != "" {
		return fmt.Errorf("--output requires a single input file, use --output-dir for batches")
	}

	return convertBatch(cmd, args, opts)
}

func convertSingle(w io.Writer, input, output string, opts pipeline.Options) error {
	dest := option.None[string]()
	if output != "" {
		dest = option.Some(output)
	}

	result, stats, err := pipeline.ConvertFile(input, dest, opts)
	if err != nil {
		return err
	}

	slog.Info("converted",
		slog.String("file", input),
		slog.Int("built", stats.Built),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
	)

	if result.IsSome() {
		_, err = fmt.Fprintln(w, result.Get())
	}

	return err
}

func convertBatch(cmd *cobra.Command, roots []string, opts pipeline.Options) error {
	inputs, err := filesystem.GatherFiles(roots, opts.Extensions)
	if err != nil {
		return err
	}

	if len(inputs) == 0 {
		return errors.New("no GPX files found")
	}

	outDir := ""
	if config.HasOutputDirectory() {
		outDir = filesystem.Abs(config.OutputDirectory())
		if err := filesystem.CreateDirectoryIfNotExists(outDir); err != nil {
			return fmt.Errorf("%w: %w", export.ErrWrite, err)
		}
	}

	var bar io.Writer
	if config.Progress() {
		bar = cmd.ErrOrStderr()
	}

	results, err := pipeline.ConvertBatch(cmd.Context(), inputs, pipeline.BatchOptions{
		Options:   opts,
		OutputDir: outDir,
		Jobs:      config.Jobs(),
		Progress:  bar,
	})

	var total point.Stats
	converted := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		converted++
		total.Built += r.Stats.Built
		total.Skipped += r.Stats.Skipped
		total.Failed += r.Stats.Failed
	}

	slog.Info("batch finished",
		slog.Int("files", len(results)),
		slog.Int("converted", converted),
		slog.Int("built", total.Built),
		slog.Int("skipped", total.Skipped),
		slog.Int("failed", total.Failed),
	)

	return err
}
