package probe

import "encoding/json"

// Document is the decoded ffprobe inspection of one input.
type Document struct {
	Format           *Format          `json:"format"`
	Streams          []Stream         `json:"streams"`
	Packets          []Packet         `json:"packets"`
	Frames           []Frame          `json:"frames"`
	PacketsAndFrames []PacketOrFrame  `json:"packets_and_frames"`
	Chapters         []Chapter        `json:"chapters"`
	Programs         []Program        `json:"programs"`
	PixelFormats     []PixelFormat    `json:"pixel_formats"`
	LibraryVersions  []LibraryVersion `json:"library_versions"`
	ProgramVersion   *ProgramVersion  `json:"program_version"`
	Error            *ProbeError      `json:"error"`
}

// Tags is a metadata dictionary attached to a section.
type Tags map[string]string

// Format captures container-level metadata.
type Format struct {
	Filename       string `json:"filename"`
	NBStreams      int64  `json:"nb_streams"`
	NBPrograms     int64  `json:"nb_programs"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	StartTime      string `json:"start_time"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
	ProbeScore     int64  `json:"probe_score"`
	Tags           Tags   `json:"tags"`
}

// Disposition is the per-stream disposition bit set.
type Disposition struct {
	Default         int64 `json:"default"`
	Dub             int64 `json:"dub"`
	Original        int64 `json:"original"`
	Comment         int64 `json:"comment"`
	Lyrics          int64 `json:"lyrics"`
	Karaoke         int64 `json:"karaoke"`
	Forced          int64 `json:"forced"`
	HearingImpaired int64 `json:"hearing_impaired"`
	VisualImpaired  int64 `json:"visual_impaired"`
	CleanEffects    int64 `json:"clean_effects"`
	AttachedPic     int64 `json:"attached_pic"`
	TimedThumbnails int64 `json:"timed_thumbnails"`
	Captions        int64 `json:"captions"`
	Descriptions    int64 `json:"descriptions"`
	Metadata        int64 `json:"metadata"`
	Dependent       int64 `json:"dependent"`
	StillImage      int64 `json:"still_image"`
}

// SideData is one side data element; the type name aside, its fields are
// free-form.
type SideData map[string]json.RawMessage

// Stream describes a single stream in the media container.
type Stream struct {
	Index            int64        `json:"index"`
	CodecName        string       `json:"codec_name"`
	CodecLongName    string       `json:"codec_long_name"`
	Profile          string       `json:"profile"`
	CodecType        string       `json:"codec_type"`
	CodecTagString   string       `json:"codec_tag_string"`
	CodecTag         string       `json:"codec_tag"`
	Width            *int64       `json:"width"`
	Height           *int64       `json:"height"`
	CodedWidth       *int64       `json:"coded_width"`
	CodedHeight      *int64       `json:"coded_height"`
	ClosedCaptions   *int64       `json:"closed_captions"`
	FilmGrain        *int64       `json:"film_grain"`
	HasBFrames       *int64       `json:"has_b_frames"`
	SampleAspect     string       `json:"sample_aspect_ratio"`
	DisplayAspect    string       `json:"display_aspect_ratio"`
	PixFmt           string       `json:"pix_fmt"`
	Level            *int64       `json:"level"`
	ColorRange       string       `json:"color_range"`
	ColorSpace       string       `json:"color_space"`
	ColorTransfer    string       `json:"color_transfer"`
	ColorPrimaries   string       `json:"color_primaries"`
	ChromaLocation   string       `json:"chroma_location"`
	FieldOrder       string       `json:"field_order"`
	Refs             *int64       `json:"refs"`
	SampleFmt        string       `json:"sample_fmt"`
	SampleRate       string       `json:"sample_rate"`
	Channels         *int64       `json:"channels"`
	ChannelLayout    string       `json:"channel_layout"`
	BitsPerSample    *int64       `json:"bits_per_sample"`
	InitialPadding   *int64       `json:"initial_padding"`
	ID               string       `json:"id"`
	RFrameRate       string       `json:"r_frame_rate"`
	AvgFrameRate     string       `json:"avg_frame_rate"`
	TimeBase         string       `json:"time_base"`
	StartPTS         *int64       `json:"start_pts"`
	StartTime        string       `json:"start_time"`
	DurationTS       *int64       `json:"duration_ts"`
	Duration         string       `json:"duration"`
	BitRate          string       `json:"bit_rate"`
	MaxBitRate       string       `json:"max_bit_rate"`
	BitsPerRawSample string       `json:"bits_per_raw_sample"`
	NBFrames         string       `json:"nb_frames"`
	NBReadFrames     string       `json:"nb_read_frames"`
	NBReadPackets    string       `json:"nb_read_packets"`
	ExtradataSize    *int64       `json:"extradata_size"`
	Extradata        string       `json:"extradata"`
	ExtradataHash    string       `json:"extradata_hash"`
	Disposition      *Disposition `json:"disposition"`
	Tags             Tags         `json:"tags"`
	SideDataList     []SideData   `json:"side_data_list"`
}

// Packet is one demuxed packet.
type Packet struct {
	CodecType    string     `json:"codec_type"`
	StreamIndex  int64      `json:"stream_index"`
	PTS          *int64     `json:"pts"`
	PTSTime      string     `json:"pts_time"`
	DTS          *int64     `json:"dts"`
	DTSTime      string     `json:"dts_time"`
	Duration     *int64     `json:"duration"`
	DurationTime string     `json:"duration_time"`
	Size         string     `json:"size"`
	Pos          string     `json:"pos"`
	Flags        string     `json:"flags"`
	Data         string     `json:"data"`
	DataHash     string     `json:"data_hash"`
	Tags         Tags       `json:"tags"`
	SideDataList []SideData `json:"side_data_list"`
}

// Frame is one decoded frame.
type Frame struct {
	MediaType               string     `json:"media_type"`
	StreamIndex             *int64     `json:"stream_index"`
	KeyFrame                *int64     `json:"key_frame"`
	PTS                     *int64     `json:"pts"`
	PTSTime                 string     `json:"pts_time"`
	PktDTS                  *int64     `json:"pkt_dts"`
	PktDTSTime              string     `json:"pkt_dts_time"`
	BestEffortTimestamp     *int64     `json:"best_effort_timestamp"`
	BestEffortTimestampTime string     `json:"best_effort_timestamp_time"`
	Duration                *int64     `json:"duration"`
	DurationTime            string     `json:"duration_time"`
	PktPos                  string     `json:"pkt_pos"`
	PktSize                 string     `json:"pkt_size"`
	Width                   *int64     `json:"width"`
	Height                  *int64     `json:"height"`
	CropTop                 *int64     `json:"crop_top"`
	CropBottom              *int64     `json:"crop_bottom"`
	CropLeft                *int64     `json:"crop_left"`
	CropRight               *int64     `json:"crop_right"`
	PixFmt                  string     `json:"pix_fmt"`
	SampleAspect            string     `json:"sample_aspect_ratio"`
	PictType                string     `json:"pict_type"`
	InterlacedFrame         *int64     `json:"interlaced_frame"`
	TopFieldFirst           *int64     `json:"top_field_first"`
	RepeatPict              *int64     `json:"repeat_pict"`
	ColorRange              string     `json:"color_range"`
	ColorSpace              string     `json:"color_space"`
	ColorPrimaries          string     `json:"color_primaries"`
	ColorTransfer           string     `json:"color_transfer"`
	ChromaLocation          string     `json:"chroma_location"`
	SampleFmt               string     `json:"sample_fmt"`
	NBSamples               *int64     `json:"nb_samples"`
	Channels                *int64     `json:"channels"`
	ChannelLayout           string     `json:"channel_layout"`
	Tags                    Tags       `json:"tags"`
	Logs                    []LogEntry `json:"logs"`
	SideDataList            []SideData `json:"side_data_list"`
}

// LogEntry is one log record attached to a frame or replayed at the end of a
// run.
type LogEntry struct {
	Context  string `json:"context"`
	Level    int64  `json:"level"`
	Category int64  `json:"category"`
	Message  string `json:"message"`
}

// Subtitle is one decoded subtitle event.
type Subtitle struct {
	MediaType        string `json:"media_type"`
	PTS              *int64 `json:"pts"`
	PTSTime          string `json:"pts_time"`
	Format           *int64 `json:"format"`
	StartDisplayTime *int64 `json:"start_display_time"`
	EndDisplayTime   *int64 `json:"end_display_time"`
	NumRects         *int64 `json:"num_rects"`
}

// PacketOrFrame preserves the interleaving of the combined
// packets-and-frames array. Exactly one of Packet, Frame, and Subtitle is
// set.
type PacketOrFrame struct {
	Kind     string
	Packet   *Packet
	Frame    *Frame
	Subtitle *Subtitle
}

// UnmarshalJSON dispatches on the "type" discriminator ffprobe writes into
// combined array elements.
func (p *PacketOrFrame) UnmarshalJSON(data []byte) error {
	var kind struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &kind); err != nil {
		return err
	}
	p.Kind = kind.Type
	switch kind.Type {
	case "packet":
		p.Packet = new(Packet)
		return json.Unmarshal(data, p.Packet)
	case "subtitle":
		p.Subtitle = new(Subtitle)
		return json.Unmarshal(data, p.Subtitle)
	default:
		p.Frame = new(Frame)
		return json.Unmarshal(data, p.Frame)
	}
}

// Chapter is one container chapter.
type Chapter struct {
	ID        int64  `json:"id"`
	TimeBase  string `json:"time_base"`
	Start     *int64 `json:"start"`
	StartTime string `json:"start_time"`
	End       *int64 `json:"end"`
	EndTime   string `json:"end_time"`
	Tags      Tags   `json:"tags"`
}

// Program is one container program with its member streams.
type Program struct {
	ProgramID   int64    `json:"program_id"`
	ProgramNum  int64    `json:"program_num"`
	NBStreams   int64    `json:"nb_streams"`
	PmtPID      int64    `json:"pmt_pid"`
	PcrPID      int64    `json:"pcr_pid"`
	Tags        Tags     `json:"tags"`
	Streams     []Stream `json:"streams"`
}

// PixelFormat describes one pixel format known to the prober.
type PixelFormat struct {
	Name         string                 `json:"name"`
	NBComponents int64                  `json:"nb_components"`
	Log2ChromaW  *int64                 `json:"log2_chroma_w"`
	Log2ChromaH  *int64                 `json:"log2_chroma_h"`
	BitsPerPixel *int64                 `json:"bits_per_pixel"`
	Flags        *PixelFormatFlags      `json:"flags"`
	Components   []PixelFormatComponent `json:"components"`
}

// PixelFormatFlags is the pixel format capability bit set.
type PixelFormatFlags struct {
	BigEndian int64 `json:"big_endian"`
	Palette   int64 `json:"palette"`
	Bitstream int64 `json:"bitstream"`
	HWAccel   int64 `json:"hwaccel"`
	Planar    int64 `json:"planar"`
	RGB       int64 `json:"rgb"`
	Alpha     int64 `json:"alpha"`
}

// PixelFormatComponent is one plane of a pixel format.
type PixelFormatComponent struct {
	Index    int64 `json:"index"`
	BitDepth int64 `json:"bit_depth"`
}

// LibraryVersion identifies one linked library of the prober.
type LibraryVersion struct {
	Name    string `json:"name"`
	Major   int64  `json:"major"`
	Minor   int64  `json:"minor"`
	Micro   int64  `json:"micro"`
	Version int64  `json:"version"`
	Ident   string `json:"ident"`
}

// ProgramVersion identifies the prober build.
type ProgramVersion struct {
	Version       string `json:"version"`
	Copyright     string `json:"copyright"`
	CompilerIdent string `json:"compiler_ident"`
	Configuration string `json:"configuration"`
}

// ProbeError is the error report ffprobe emits when an input cannot be
// opened.
type ProbeError struct {
	Code   int64  `json:"code"`
	String string `json:"string"`
}
