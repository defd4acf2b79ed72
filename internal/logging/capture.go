package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Entry is one captured log record.
type Entry struct {
	Time      time.Time
	Level     slog.Level
	Component string
	Message   string
}

// CaptureHandler buffers records so a run can replay its own log output
// into the rendered report. Handle is safe for concurrent use; Drain is
// called after all producers have stopped. Clones made by WithAttrs share
// one buffer.
type CaptureHandler struct {
	level slog.Level
	attrs []slog.Attr
	state *captureState
}

type captureState struct {
	mu      sync.Mutex
	entries []Entry
}

// NewCaptureHandler buffers records at or above level.
func NewCaptureHandler(level slog.Level) *CaptureHandler {
	return &CaptureHandler{level: level, state: &captureState{}}
}

func (h *CaptureHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *CaptureHandler) Handle(_ context.Context, record slog.Record) error {
	entry := Entry{Time: record.Time, Level: record.Level, Message: record.Message}
	for _, attr := range h.attrs {
		if attr.Key == "component" {
			entry.Component = attr.Value.Resolve().String()
		}
	}
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "component" {
			entry.Component = attr.Value.Resolve().String()
		}
		return true
	})

	h.state.mu.Lock()
	h.state.entries = append(h.state.entries, entry)
	h.state.mu.Unlock()
	return nil
}

func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CaptureHandler{
		level: h.level,
		attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...),
		state: h.state,
	}
}

func (h *CaptureHandler) WithGroup(string) slog.Handler { return h }

// Drain returns the captured entries and resets the buffer.
func (h *CaptureHandler) Drain() []Entry {
	h.state.mu.Lock()
	defer h.state.mu.Unlock()
	out := h.state.entries
	h.state.entries = nil
	return out
}

// Tee duplicates records into every given handler.
func Tee(handlers ...slog.Handler) slog.Handler {
	filtered := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			filtered = append(filtered, h)
		}
	}
	switch len(filtered) {
	case 0:
		return slog.DiscardHandler
	case 1:
		return filtered[0]
	}
	return &teeHandler{handlers: filtered}
}

type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for i, h := range t.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		rec := record
		if i < len(t.handlers)-1 {
			rec = record.Clone()
		}
		if err := h.Handle(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: next}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: next}
}

// LevelNumber maps a slog level to the numeric value recorded in report
// log sections, mirroring syslog-style ordering where lower is more severe.
func LevelNumber(level slog.Level) int64 {
	switch {
	case level >= slog.LevelError:
		return 16
	case level >= slog.LevelWarn:
		return 24
	case level >= slog.LevelInfo:
		return 32
	default:
		return 48
	}
}

// LevelName renders the label used in report log sections.
func LevelName(level slog.Level) string {
	return strings.ToLower(levelLabel(level))
}
