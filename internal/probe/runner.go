package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Selection names the report sections a run should populate.
type Selection struct {
	Format       bool
	Streams      bool
	Packets      bool
	Frames       bool
	Chapters     bool
	Programs     bool
	PixelFormats bool
	Versions     bool
	Data         bool
	// LogLevel, when positive, asks ffprobe to attach decoder log messages
	// to frames at the given numeric level.
	LogLevel int
	// Hash names the digest ffprobe computes for packet and extradata
	// payloads. Empty disables hashing.
	Hash string
}

// anyInput reports whether the selection needs a media file at all.
func (s Selection) anyInput() bool {
	return s.Format || s.Streams || s.Packets || s.Frames || s.Chapters || s.Programs
}

// Runner executes ffprobe and decodes its JSON output.
type Runner struct {
	Binary  string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Inspect probes path and returns the decoded document along with the raw
// JSON payload. A probe-level failure (unreadable input) is returned inside
// the document's Error section, not as a Go error, so it can be rendered.
func (r *Runner) Inspect(ctx context.Context, path string, sel Selection) (*Document, []byte, error) {
	binary := strings.TrimSpace(r.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" && sel.anyInput() {
		return nil, nil, errors.New("probe: empty input path")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := sel.args()
	if path != "" {
		args = append(args, "--", path)
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("running prober", "binary", binary, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, nil, fmt.Errorf("probe %s: %w", path, ctx.Err())
	}

	raw := stdout.Bytes()
	doc := &Document{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, doc); err != nil {
			return nil, nil, fmt.Errorf("probe %s: decode output: %w", path, err)
		}
	}

	// ffprobe exits non-zero on unreadable inputs but still emits an error
	// section; surface that in the document. Anything without a decodable
	// payload is a real execution failure.
	if runErr != nil && doc.Error == nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = runErr.Error()
		}
		return nil, nil, fmt.Errorf("probe %s: %s", path, msg)
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		for _, line := range strings.Split(msg, "\n") {
			logger.Warn("prober diagnostics", "component", "ffprobe", "line", line)
		}
	}
	return doc, append([]byte(nil), raw...), nil
}

// Decode parses a previously captured raw JSON payload, as stored by the
// probe cache.
func Decode(raw []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("probe: decode cached output: %w", err)
	}
	return doc, nil
}

// Signature returns a stable string identifying the selection. Cached probe
// results are keyed on it alongside the input fingerprint, so a run with a
// different selection never reuses a payload missing its sections.
func (s Selection) Signature() string {
	return strings.Join(s.args(), " ")
}

func (s Selection) args() []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-of", "json"}
	if s.Format {
		args = append(args, "-show_format")
	}
	if s.Streams {
		args = append(args, "-show_streams")
	}
	if s.Packets {
		args = append(args, "-show_packets")
	}
	if s.Frames {
		args = append(args, "-show_frames")
	}
	if s.Chapters {
		args = append(args, "-show_chapters")
	}
	if s.Programs {
		args = append(args, "-show_programs")
	}
	if s.PixelFormats {
		args = append(args, "-show_pixel_formats")
	}
	if s.Versions {
		args = append(args, "-show_program_version", "-show_library_versions")
	}
	if s.Data {
		args = append(args, "-show_data")
	}
	if s.LogLevel > 0 {
		args = append(args, "-show_log", strconv.Itoa(s.LogLevel))
	}
	if s.Hash != "" {
		args = append(args, "-show_data_hash", s.Hash)
	}
	return args
}
