package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediaprobe/internal/config"
	"mediaprobe/internal/logging"
	"mediaprobe/internal/probe"
	"mediaprobe/internal/probecache"
	"mediaprobe/internal/report"
	"mediaprobe/internal/scalar"
)

type inspectFlags struct {
	format         string
	showEntries    string
	outputPath     string
	validation     string
	replacement    string
	optionalFields string
	hash           string

	showFormat       bool
	showStreams      bool
	showPackets      bool
	showFrames       bool
	showChapters     bool
	showPrograms     bool
	showPixelFormats bool
	showVersions     bool
	showData         bool
	showLog          int

	unit        bool
	prefix      bool
	binaryBytes bool
	sexagesimal bool
	pretty      bool

	noCache bool
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [flags] INPUT",
		Short: "Probe a media file and render the selected sections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return runInspect(cmd, ctx, flags, input)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.format, "of", "", "Output format spec (name or name=key=value:key=value)")
	f.StringVar(&flags.showEntries, "show-entries", "", "Sections and fields to show (section=field,field:section)")
	f.StringVarP(&flags.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	f.StringVar(&flags.validation, "string-validation", "", "Invalid UTF-8 handling: replace, fail, ignore")
	f.StringVar(&flags.replacement, "string-validation-replacement", "", "Replacement text for invalid sequences")
	f.StringVar(&flags.optionalFields, "show-optional-fields", "", "Optional field policy: auto, always, never")
	f.StringVar(&flags.hash, "hash", "", "Digest for packet and extradata payloads (see 'mediaprobe formats')")

	f.BoolVar(&flags.showFormat, "show-format", false, "Show container information")
	f.BoolVar(&flags.showStreams, "show-streams", false, "Show stream information")
	f.BoolVar(&flags.showPackets, "show-packets", false, "Show packet information")
	f.BoolVar(&flags.showFrames, "show-frames", false, "Show frame information")
	f.BoolVar(&flags.showChapters, "show-chapters", false, "Show chapter information")
	f.BoolVar(&flags.showPrograms, "show-programs", false, "Show program information")
	f.BoolVar(&flags.showPixelFormats, "show-pixel-formats", false, "Show known pixel formats")
	f.BoolVar(&flags.showVersions, "show-versions", false, "Show prober and library versions")
	f.BoolVar(&flags.showData, "show-data", false, "Include payload dumps in packets and streams")
	f.IntVar(&flags.showLog, "show-log", 0, "Attach decoder log messages to frames at the given numeric level")

	f.BoolVar(&flags.unit, "unit", false, "Show units of displayed values")
	f.BoolVar(&flags.prefix, "prefix", false, "Use SI prefixes for displayed values")
	f.BoolVar(&flags.binaryBytes, "byte-binary-prefix", false, "Use binary prefixes for byte values")
	f.BoolVar(&flags.sexagesimal, "sexagesimal", false, "Use HOURS:MM:SS.MICROSECONDS time format")
	f.BoolVar(&flags.pretty, "pretty", false, "Shorthand for --unit --prefix --byte-binary-prefix --sexagesimal")

	f.BoolVar(&flags.noCache, "no-cache", false, "Bypass the probe cache for this run")

	return cmd
}

func runInspect(cmd *cobra.Command, ctx *commandContext, flags *inspectFlags, input string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, capture, err := ctx.newLogger()
	if err != nil {
		return err
	}
	defer replayCapturedLogs(cmd.ErrOrStderr(), capture)

	sel := buildSelection(cfg, flags)
	if !anySectionSelected(sel) {
		return fmt.Errorf("nothing selected: pass at least one --show-* flag")
	}
	if input == "" && needsInput(sel) {
		return fmt.Errorf("an INPUT file is required for the selected sections")
	}

	writer, closeSink, err := buildWriter(cfg, flags, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	doc, err := obtainDocument(cmd, cfg, flags, logger, input, sel)
	if err != nil {
		return err
	}

	renderer := &probe.Renderer{}
	if err := renderer.Render(writer, doc, sel); err != nil {
		return err
	}
	if doc.Error != nil {
		return fmt.Errorf("probe reported an input error: %s", doc.Error.String)
	}
	return nil
}

// buildSelection merges flag values over config defaults.
func buildSelection(cfg *config.Config, flags *inspectFlags) probe.Selection {
	hash := strings.TrimSpace(flags.hash)
	if hash == "" {
		hash = cfg.Output.Hash
	}
	return probe.Selection{
		Format:       flags.showFormat,
		Streams:      flags.showStreams,
		Packets:      flags.showPackets,
		Frames:       flags.showFrames,
		Chapters:     flags.showChapters,
		Programs:     flags.showPrograms,
		PixelFormats: flags.showPixelFormats,
		Versions:     flags.showVersions,
		Data:         flags.showData,
		LogLevel:     flags.showLog,
		Hash:         hash,
	}
}

func anySectionSelected(sel probe.Selection) bool {
	return sel.Format || sel.Streams || sel.Packets || sel.Frames ||
		sel.Chapters || sel.Programs || sel.PixelFormats || sel.Versions
}

// needsInput reports whether the selection reads a media file. Pixel formats
// and version sections come from the prober itself.
func needsInput(sel probe.Selection) bool {
	return sel.Format || sel.Streams || sel.Packets || sel.Frames ||
		sel.Chapters || sel.Programs
}

// buildWriter assembles the report writer from config and flags. The returned
// close function releases the sink when the report targets a file.
func buildWriter(cfg *config.Config, flags *inspectFlags, logger *slog.Logger) (*report.Writer, func(), error) {
	closeSink := func() {}
	var sink io.Writer = os.Stdout
	if flags.outputPath != "" {
		file, err := os.Create(flags.outputPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open report output: %w", err)
		}
		sink = file
		closeSink = func() { file.Close() }
	}

	format := strings.TrimSpace(flags.format)
	if format == "" {
		format = cfg.Output.Format
	}

	validationSpec := flags.validation
	if validationSpec == "" {
		validationSpec = cfg.Output.StringValidation
	}
	validation, err := report.ParseValidationMode(validationSpec)
	if err != nil {
		closeSink()
		return nil, nil, err
	}
	replacement := flags.replacement
	if replacement == "" {
		replacement = cfg.Output.StringValidationReplacement
	}

	optionalSpec := flags.optionalFields
	if optionalSpec == "" {
		optionalSpec = cfg.Output.ShowOptionalFields
	}
	optional, err := report.ParseOptionalMode(optionalSpec)
	if err != nil {
		closeSink()
		return nil, nil, err
	}

	registry := report.Sections()

	var filters *report.FieldFilters
	entriesSpec := strings.TrimSpace(flags.showEntries)
	if entriesSpec == "" {
		entriesSpec = cfg.Output.ShowEntries
	}
	if entriesSpec != "" {
		filters, err = report.ParseShowEntries(registry, entriesSpec)
		if err != nil {
			closeSink()
			return nil, nil, err
		}
	}

	var hasher *scalar.Hasher
	hash := strings.TrimSpace(flags.hash)
	if hash == "" {
		hash = cfg.Output.Hash
	}
	if hash != "" {
		hasher, err = scalar.NewHasher(hash)
		if err != nil {
			closeSink()
			return nil, nil, err
		}
	}

	display := scalar.Display{
		Sexagesimal:  flags.sexagesimal || flags.pretty || cfg.Output.Sexagesimal,
		Prefix:       flags.prefix || flags.pretty || cfg.Output.Prefix,
		BinaryPrefix: flags.binaryBytes || flags.pretty || cfg.Output.BinaryBytePrefix,
		ShowUnit:     flags.unit || flags.pretty || cfg.Output.Unit,
	}

	writer, err := report.NewWriter(report.Options{
		Format:      format,
		Sink:        sink,
		Registry:    registry,
		Filters:     filters,
		Validation:  validation,
		Replacement: replacement,
		Optional:    optional,
		Hash:        hasher,
		Display:     display,
		Logger:      logger,
	})
	if err != nil {
		closeSink()
		return nil, nil, err
	}
	return writer, closeSink, nil
}

// obtainDocument returns the probe document, consulting the cache when it is
// enabled and the run targets a real input file.
func obtainDocument(cmd *cobra.Command, cfg *config.Config, flags *inspectFlags, logger *slog.Logger, input string, sel probe.Selection) (*probe.Document, error) {
	runner := &probe.Runner{
		Binary:  cfg.Probe.Binary,
		Timeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		Logger:  logger,
	}

	if !cfg.Cache.Enabled || flags.noCache || input == "" {
		doc, _, err := runner.Inspect(cmd.Context(), input, sel)
		return doc, err
	}

	fingerprint, err := probecache.Fingerprint(input)
	if err != nil {
		logger.Warn("probe cache skipped", "component", "cache", "error", err)
		doc, _, err := runner.Inspect(cmd.Context(), input, sel)
		return doc, err
	}
	signature := sel.Signature()

	store, err := probecache.Open(cfg.Cache.Path)
	if err != nil {
		logger.Warn("probe cache unavailable", "component", "cache", "error", err)
		doc, _, err := runner.Inspect(cmd.Context(), input, sel)
		return doc, err
	}
	defer store.Close()

	if entry, err := store.Get(cmd.Context(), fingerprint, signature); err == nil {
		doc, decodeErr := probe.Decode(entry.RawJSON)
		if decodeErr == nil {
			logger.Debug("probe cache hit", "component", "cache", "run_id", entry.RunID)
			return doc, nil
		}
		logger.Warn("discarding undecodable cache entry", "component", "cache", "error", decodeErr)
	}

	doc, raw, err := runner.Inspect(cmd.Context(), input, sel)
	if err != nil {
		return nil, err
	}
	if doc.Error == nil {
		if runID, putErr := store.Put(cmd.Context(), fingerprint, signature, input, raw); putErr != nil {
			logger.Warn("probe cache write failed", "component", "cache", "error", putErr)
		} else {
			logger.Debug("probe cache write", "component", "cache", "run_id", runID)
		}
	}
	return doc, nil
}

// replayCapturedLogs flushes buffered diagnostics to stderr once the report
// is complete, keeping them out of machine-readable stdout output.
func replayCapturedLogs(stderr io.Writer, capture *logging.CaptureHandler) {
	for _, entry := range capture.Drain() {
		level := logging.LevelName(entry.Level)
		if entry.Component != "" {
			fmt.Fprintf(stderr, "[%s] %s: %s\n", level, entry.Component, entry.Message)
		} else {
			fmt.Fprintf(stderr, "[%s] %s\n", level, entry.Message)
		}
	}
}
