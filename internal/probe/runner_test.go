package probe

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestSelectionArgs(t *testing.T) {
	sel := Selection{
		Format:       true,
		Streams:      true,
		Packets:      true,
		Frames:       true,
		Chapters:     true,
		Programs:     true,
		PixelFormats: true,
		Versions:     true,
		Data:         true,
		Hash:         "sha256",
	}

	got := strings.Join(sel.args(), " ")
	want := "-hide_banner -loglevel error -of json" +
		" -show_format -show_streams -show_packets -show_frames" +
		" -show_chapters -show_programs -show_pixel_formats" +
		" -show_program_version -show_library_versions" +
		" -show_data -show_data_hash sha256"
	if got != want {
		t.Fatalf("args:\ngot  %q\nwant %q", got, want)
	}
}

func TestSelectionArgsLogLevel(t *testing.T) {
	got := strings.Join(Selection{Frames: true, LogLevel: 32}.args(), " ")
	want := "-hide_banner -loglevel error -of json -show_frames -show_log 32"
	if got != want {
		t.Fatalf("args:\ngot  %q\nwant %q", got, want)
	}
}

func TestSelectionSignatureStable(t *testing.T) {
	a := Selection{Format: true, Streams: true}
	b := Selection{Streams: true, Format: true}
	if a.Signature() != b.Signature() {
		t.Fatal("equal selections must share a signature")
	}
	if a.Signature() == (Selection{Format: true}).Signature() {
		t.Fatal("different selections must not share a signature")
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	r := &Runner{}
	_, _, err := r.Inspect(context.Background(), "", Selection{Format: true})
	if err == nil {
		t.Fatal("expected error for empty input path")
	}
}

func TestInspectAllowsEmptyPathForProberSections(t *testing.T) {
	// Pixel formats and versions need no input file; the selection check
	// must not reject them. The missing binary still fails, which is the
	// error we expect here.
	r := &Runner{Binary: filepath.Join(t.TempDir(), "no-such-ffprobe")}
	_, _, err := r.Inspect(context.Background(), "", Selection{PixelFormats: true})
	if err == nil {
		t.Fatal("expected execution error for missing binary")
	}
	if strings.Contains(err.Error(), "empty input path") {
		t.Fatalf("selection wrongly required an input: %v", err)
	}
}

func TestInspectMissingBinary(t *testing.T) {
	r := &Runner{Binary: filepath.Join(t.TempDir(), "no-such-ffprobe")}
	_, _, err := r.Inspect(context.Background(), "in.mp4", Selection{Format: true})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
}
