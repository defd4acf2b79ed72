package probe

import (
	"bytes"
	"strings"
	"testing"

	"mediaprobe/internal/report"
)

func renderWith(t *testing.T, format string, doc *Document, sel Selection) string {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := report.NewWriter(report.Options{Format: format, Sink: buf})
	if err != nil {
		t.Fatalf("NewWriter returned error: %v", err)
	}
	r := &Renderer{}
	if err := r.Render(w, doc, sel); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	return buf.String()
}

func TestRenderFormatDefault(t *testing.T) {
	doc := &Document{Format: &Format{
		Filename:   "in.mp4",
		NBStreams:  1,
		FormatName: "mp4",
		ProbeScore: 100,
	}}

	got := renderWith(t, "default", doc, Selection{Format: true})
	want := "[FORMAT]\n" +
		"filename=in.mp4\n" +
		"nb_streams=1\n" +
		"nb_programs=0\n" +
		"format_name=mp4\n" +
		"format_long_name=unknown\n" +
		"start_time=N/A\n" +
		"duration=N/A\n" +
		"size=N/A\n" +
		"bit_rate=N/A\n" +
		"probe_score=100\n" +
		"[/FORMAT]\n"
	if got != want {
		t.Fatalf("unexpected output:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderFormatTagsSorted(t *testing.T) {
	doc := &Document{Format: &Format{
		Filename: "in.mp4",
		Tags:     Tags{"minor_version": "512", "major_brand": "isom"},
	}}

	got := renderWith(t, "default", doc, Selection{Format: true})
	major := strings.Index(got, "TAG:major_brand=isom")
	minor := strings.Index(got, "TAG:minor_version=512")
	if major == -1 || minor == -1 || major > minor {
		t.Fatalf("tags missing or unsorted:\n%s", got)
	}
}

func TestRenderStreamWithSideData(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	got := renderWith(t, "xml", doc, Selection{Streams: true})
	if !strings.Contains(got, `<side_data type="Display Matrix">`) {
		t.Fatalf("typed side data header missing:\n%s", got)
	}
	if !strings.Contains(got, `<side_datum key="rotation" value="-90"/>`) {
		t.Fatalf("side data field missing:\n%s", got)
	}
	if !strings.Contains(got, `<tag key="language" value="eng"/>`) {
		t.Fatalf("stream tag missing:\n%s", got)
	}
}

func TestRenderStreamLanguageName(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	got := renderWith(t, "default", doc, Selection{Streams: true})
	if !strings.Contains(got, "language_name=English") {
		t.Fatalf("language name missing:\n%s", got)
	}
}

func TestRenderCombinedArrayForMixedBackends(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	sel := Selection{Packets: true, Frames: true}

	got := renderWith(t, "json", doc, sel)
	if !strings.Contains(got, `"packets_and_frames": [`) {
		t.Fatalf("combined array missing:\n%s", got)
	}
	packet := strings.Index(got, `"type": "packet"`)
	frame := strings.Index(got, `"type": "frame"`)
	if packet == -1 || frame == -1 || packet > frame {
		t.Fatalf("interleaving lost:\n%s", got)
	}
}

func TestRenderSiblingArraysForLineBackends(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	sel := Selection{Packets: true, Frames: true}

	// The default backend cannot label mixed kinds in one array, so packets
	// and frames render as two sibling runs.
	got := renderWith(t, "default", doc, sel)
	packet := strings.Index(got, "[PACKET]")
	frame := strings.Index(got, "[FRAME]")
	if packet == -1 || frame == -1 || packet > frame {
		t.Fatalf("sibling arrays missing:\n%s", got)
	}
	if strings.Contains(got, "packets_and_frames") {
		t.Fatalf("combined array leaked into line backend:\n%s", got)
	}
}

const mixedWithSubtitle = `{
    "packets_and_frames": [
        {"type": "packet", "codec_type": "video", "stream_index": 0},
        {"type": "subtitle", "media_type": "subtitle", "pts": 900, "num_rects": 1},
        {"type": "frame", "media_type": "video", "stream_index": 0}
    ]
}`

func TestRenderSubtitleKindRoundTrips(t *testing.T) {
	doc, err := Decode([]byte(mixedWithSubtitle))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	sel := Selection{Packets: true, Frames: true}

	got := renderWith(t, "json", doc, sel)
	subtitle := strings.Index(got, `"type": "subtitle"`)
	frame := strings.Index(got, `"type": "frame"`)
	if subtitle == -1 || frame == -1 || subtitle > frame {
		t.Fatalf("subtitle kind label lost:\n%s", got)
	}
	if !strings.Contains(got, `"num_rects": 1`) {
		t.Fatalf("subtitle fields missing:\n%s", got)
	}
}

func TestRenderSubtitleInFramesArray(t *testing.T) {
	doc, err := Decode([]byte(mixedWithSubtitle))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	got := renderWith(t, "default", doc, Selection{Frames: true})
	if !strings.Contains(got, "[SUBTITLE]\nmedia_type=subtitle\n") {
		t.Fatalf("subtitle section missing:\n%s", got)
	}
	if !strings.Contains(got, "[/SUBTITLE]") {
		t.Fatalf("subtitle section not closed:\n%s", got)
	}
	if strings.Contains(got, "[PACKET]") {
		t.Fatalf("packet rendered without being selected:\n%s", got)
	}
}

func TestRenderPacketsOnlyPullsFromCombined(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	got := renderWith(t, "default", doc, Selection{Packets: true})
	if !strings.Contains(got, "[PACKET]") {
		t.Fatalf("packet missing:\n%s", got)
	}
	if strings.Contains(got, "[FRAME]") {
		t.Fatalf("frame rendered without being selected:\n%s", got)
	}
}

func TestRenderErrorSection(t *testing.T) {
	doc := &Document{Error: &ProbeError{Code: -2, String: "No such file or directory"}}

	got := renderWith(t, "default", doc, Selection{Format: true})
	want := "[ERROR]\ncode=-2\nstring=No such file or directory\n[/ERROR]\n"
	if got != want {
		t.Fatalf("unexpected output:\ngot  %q\nwant %q", got, want)
	}
}

func TestRenderVersions(t *testing.T) {
	doc := &Document{
		ProgramVersion: &ProgramVersion{Version: "8.0", Copyright: "Copyright (c) 2007-2025"},
		LibraryVersions: []LibraryVersion{
			{Name: "libavutil", Major: 60, Minor: 8, Micro: 100, Version: 3934308},
		},
	}

	got := renderWith(t, "default", doc, Selection{Versions: true})
	if !strings.Contains(got, "[PROGRAM_VERSION]") || !strings.Contains(got, "version=8.0") {
		t.Fatalf("program version missing:\n%s", got)
	}
	if !strings.Contains(got, "[LIBRARY_VERSION]") || !strings.Contains(got, "name=libavutil") {
		t.Fatalf("library version missing:\n%s", got)
	}
}

func TestRenderPixelFormats(t *testing.T) {
	flags := &PixelFormatFlags{Planar: 1}
	doc := &Document{PixelFormats: []PixelFormat{{
		Name:         "yuv420p",
		NBComponents: 3,
		Flags:        flags,
		Components: []PixelFormatComponent{
			{Index: 1, BitDepth: 8},
			{Index: 2, BitDepth: 8},
			{Index: 3, BitDepth: 8},
		},
	}}}

	got := renderWith(t, "default", doc, Selection{PixelFormats: true})
	if !strings.Contains(got, "[PIXEL_FORMAT]") || !strings.Contains(got, "name=yuv420p") {
		t.Fatalf("pixel format missing:\n%s", got)
	}
	if !strings.Contains(got, "FLAGS:planar=1") {
		t.Fatalf("nested flags missing:\n%s", got)
	}
	if !strings.Contains(got, "[COMPONENT]") {
		t.Fatalf("components missing:\n%s", got)
	}
}

func TestLanguageTagPrecedence(t *testing.T) {
	if got := languageTag(Tags{"lang": "fre", "language": "ger"}); got != "ger" {
		t.Fatalf("languageTag = %q", got)
	}
	if got := languageTag(Tags{"language": "und", "lang": "ita"}); got != "ita" {
		t.Fatalf("languageTag skipping und = %q", got)
	}
	if got := languageTag(Tags{}); got != "" {
		t.Fatalf("languageTag empty = %q", got)
	}
}

func TestLanguageName(t *testing.T) {
	if got := languageName("eng"); got != "English" {
		t.Fatalf("languageName(eng) = %q", got)
	}
	if got := languageName("not-a-code!!"); got != "not-a-code!!" {
		t.Fatalf("unknown code should pass through, got %q", got)
	}
}
