package probe

import (
	"encoding/json"
	"testing"
)

const sampleDocument = `{
    "packets_and_frames": [
        {
            "type": "packet",
            "codec_type": "video",
            "stream_index": 0,
            "pts": 0,
            "size": "1024"
        },
        {
            "type": "frame",
            "media_type": "video",
            "stream_index": 0,
            "key_frame": 1,
            "width": 1920,
            "height": 1080,
            "pict_type": "I"
        }
    ],
    "streams": [
        {
            "index": 0,
            "codec_name": "h264",
            "codec_type": "video",
            "width": 1920,
            "height": 1080,
            "disposition": {
                "default": 1
            },
            "tags": {
                "language": "eng"
            },
            "side_data_list": [
                {
                    "side_data_type": "Display Matrix",
                    "rotation": -90
                }
            ]
        }
    ],
    "format": {
        "filename": "in.mp4",
        "nb_streams": 1,
        "nb_programs": 0,
        "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
        "duration": "1.000000",
        "probe_score": 100,
        "tags": {
            "major_brand": "isom"
        }
    }
}`

func TestDecodeDocument(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if doc.Format == nil || doc.Format.Filename != "in.mp4" {
		t.Fatalf("format not decoded: %+v", doc.Format)
	}
	if doc.Format.Tags["major_brand"] != "isom" {
		t.Fatalf("format tags not decoded: %+v", doc.Format.Tags)
	}

	if len(doc.Streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(doc.Streams))
	}
	s := doc.Streams[0]
	if s.CodecName != "h264" || s.Width == nil || *s.Width != 1920 {
		t.Fatalf("stream not decoded: %+v", s)
	}
	if s.Disposition == nil || s.Disposition.Default != 1 {
		t.Fatalf("disposition not decoded: %+v", s.Disposition)
	}
	if len(s.SideDataList) != 1 || s.SideDataList[0].TypeTag() != "Display Matrix" {
		t.Fatalf("side data not decoded: %+v", s.SideDataList)
	}
}

func TestPacketOrFrameDiscriminator(t *testing.T) {
	doc, err := Decode([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if len(doc.PacketsAndFrames) != 2 {
		t.Fatalf("expected 2 combined elements, got %d", len(doc.PacketsAndFrames))
	}

	first := doc.PacketsAndFrames[0]
	if first.Kind != "packet" || first.Packet == nil || first.Frame != nil {
		t.Fatalf("first element not a packet: %+v", first)
	}
	if first.Packet.Size != "1024" {
		t.Fatalf("packet fields lost: %+v", first.Packet)
	}

	second := doc.PacketsAndFrames[1]
	if second.Kind != "frame" || second.Frame == nil || second.Packet != nil {
		t.Fatalf("second element not a frame: %+v", second)
	}
	if second.Frame.Width == nil || *second.Frame.Width != 1920 {
		t.Fatalf("frame fields lost: %+v", second.Frame)
	}
}

func TestSubtitleDiscriminator(t *testing.T) {
	doc, err := Decode([]byte(`{
        "packets_and_frames": [
            {
                "type": "subtitle",
                "media_type": "subtitle",
                "pts": 900,
                "pts_time": "0.010000",
                "format": 1,
                "start_display_time": 0,
                "end_display_time": 2000,
                "num_rects": 1
            }
        ]
    }`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}

	if len(doc.PacketsAndFrames) != 1 {
		t.Fatalf("expected 1 combined element, got %d", len(doc.PacketsAndFrames))
	}
	el := doc.PacketsAndFrames[0]
	if el.Kind != "subtitle" || el.Subtitle == nil || el.Packet != nil || el.Frame != nil {
		t.Fatalf("element not a subtitle: %+v", el)
	}
	if el.Subtitle.NumRects == nil || *el.Subtitle.NumRects != 1 {
		t.Fatalf("subtitle fields lost: %+v", el.Subtitle)
	}
}

func TestDecodeErrorSection(t *testing.T) {
	doc, err := Decode([]byte(`{"error": {"code": -2, "string": "No such file or directory"}}`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if doc.Error == nil || doc.Error.Code != -2 {
		t.Fatalf("error section not decoded: %+v", doc.Error)
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSideDataTypeTagFallback(t *testing.T) {
	sd := SideData{"rotation": json.RawMessage("-90")}
	if got := sd.TypeTag(); got != "unknown" {
		t.Fatalf("TypeTag = %q", got)
	}
	sd = SideData{"side_data_type": json.RawMessage("42")}
	if got := sd.TypeTag(); got != "unknown" {
		t.Fatalf("TypeTag with non-string type = %q", got)
	}
}
