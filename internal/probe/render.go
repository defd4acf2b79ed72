package probe

import (
	"encoding/json"
	"sort"
	"strings"

	"mediaprobe/internal/report"
)

// Renderer walks a Document and drives a report.Writer through the section
// tree. All sequencing decisions live here: which top-level sections appear,
// and whether packets and frames share one combined array.
type Renderer struct{}

// TypeTag names the concrete kind of a side data element for backends that
// label typed sections.
func (s SideData) TypeTag() string {
	raw, ok := s["side_data_type"]
	if !ok {
		return "unknown"
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "unknown"
	}
	return name
}

// Render emits the selected sections of doc in canonical order. The writer's
// sticky error is reported once, at the end.
func (r *Renderer) Render(w *report.Writer, doc *Document, sel Selection) error {
	err := w.Section(report.SectionRoot, func() error {
		if sel.Versions {
			if doc.ProgramVersion != nil {
				r.programVersion(w, doc.ProgramVersion)
			}
			r.libraryVersions(w, doc.LibraryVersions)
		}
		if sel.PixelFormats {
			r.pixelFormats(w, doc.PixelFormats)
		}
		if sel.Packets || sel.Frames {
			r.packetsAndFrames(w, doc, sel)
		}
		if sel.Programs {
			r.programs(w, doc.Programs)
		}
		if sel.Streams {
			r.streams(w, report.SectionStreams, report.SectionStream, doc.Streams)
		}
		if sel.Chapters {
			r.chapters(w, doc.Chapters)
		}
		if sel.Format && doc.Format != nil {
			r.format(w, doc.Format)
		}
		if doc.Error != nil {
			r.probeError(w, doc.Error)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return w.Flush()
}

// packetsAndFrames renders the packet and frame arrays. Backends that label
// mixed element kinds get one combined array preserving demux interleaving;
// the rest get two sibling arrays.
func (r *Renderer) packetsAndFrames(w *report.Writer, doc *Document, sel Selection) {
	if sel.Packets && sel.Frames && w.MixedKindArrays() {
		w.Section(report.SectionPacketsAndFrames, func() error {
			for i := range doc.PacketsAndFrames {
				switch el := &doc.PacketsAndFrames[i]; {
				case el.Packet != nil:
					r.packet(w, el.Packet)
				case el.Frame != nil:
					r.frame(w, el.Frame)
				case el.Subtitle != nil:
					r.subtitle(w, el.Subtitle)
				}
			}
			return nil
		})
		return
	}
	if sel.Packets {
		w.Section(report.SectionPackets, func() error {
			for i := range doc.Packets {
				r.packet(w, &doc.Packets[i])
			}
			for i := range doc.PacketsAndFrames {
				if p := doc.PacketsAndFrames[i].Packet; p != nil {
					r.packet(w, p)
				}
			}
			return nil
		})
	}
	if sel.Frames {
		w.Section(report.SectionFrames, func() error {
			for i := range doc.Frames {
				r.frame(w, &doc.Frames[i])
			}
			// Subtitles live in the frames array alongside frames.
			for i := range doc.PacketsAndFrames {
				switch el := &doc.PacketsAndFrames[i]; {
				case el.Frame != nil:
					r.frame(w, el.Frame)
				case el.Subtitle != nil:
					r.subtitle(w, el.Subtitle)
				}
			}
			return nil
		})
	}
}

func (r *Renderer) packet(w *report.Writer, p *Packet) {
	w.Section(report.SectionPacket, func() error {
		optStr(w, "codec_type", p.CodecType, "unknown")
		w.WriteInt("stream_index", p.StreamIndex)
		optInt(w, "pts", p.PTS)
		optStr(w, "pts_time", p.PTSTime, "N/A")
		optInt(w, "dts", p.DTS)
		optStr(w, "dts_time", p.DTSTime, "N/A")
		optInt(w, "duration", p.Duration)
		optStr(w, "duration_time", p.DurationTime, "N/A")
		optStr(w, "size", p.Size, "N/A")
		optStr(w, "pos", p.Pos, "N/A")
		if p.Flags != "" {
			w.WriteString("flags", p.Flags)
		}
		if p.Data != "" {
			w.WriteString("data", p.Data)
		}
		if p.DataHash != "" {
			w.WriteString("data_hash", p.DataHash)
		}
		r.tags(w, report.SectionPacketTags, p.Tags)
		r.sideData(w, report.SectionPacketSideDataList, report.SectionPacketSideData, p.SideDataList)
		return nil
	})
}

func (r *Renderer) frame(w *report.Writer, f *Frame) {
	w.Section(report.SectionFrame, func() error {
		optStr(w, "media_type", f.MediaType, "unknown")
		optInt(w, "stream_index", f.StreamIndex)
		optInt(w, "key_frame", f.KeyFrame)
		optInt(w, "pts", f.PTS)
		optStr(w, "pts_time", f.PTSTime, "N/A")
		optInt(w, "pkt_dts", f.PktDTS)
		optStr(w, "pkt_dts_time", f.PktDTSTime, "N/A")
		optInt(w, "best_effort_timestamp", f.BestEffortTimestamp)
		optStr(w, "best_effort_timestamp_time", f.BestEffortTimestampTime, "N/A")
		optInt(w, "duration", f.Duration)
		optStr(w, "duration_time", f.DurationTime, "N/A")
		optStr(w, "pkt_pos", f.PktPos, "N/A")
		optStr(w, "pkt_size", f.PktSize, "N/A")

		switch f.MediaType {
		case "video":
			optInt(w, "width", f.Width)
			optInt(w, "height", f.Height)
			optInt(w, "crop_top", f.CropTop)
			optInt(w, "crop_bottom", f.CropBottom)
			optInt(w, "crop_left", f.CropLeft)
			optInt(w, "crop_right", f.CropRight)
			optStr(w, "pix_fmt", f.PixFmt, "unknown")
			optStr(w, "sample_aspect_ratio", f.SampleAspect, "N/A")
			optStr(w, "pict_type", f.PictType, "unknown")
			optInt(w, "interlaced_frame", f.InterlacedFrame)
			optInt(w, "top_field_first", f.TopFieldFirst)
			optInt(w, "repeat_pict", f.RepeatPict)
			optStr(w, "color_range", f.ColorRange, "unknown")
			optStr(w, "color_space", f.ColorSpace, "unknown")
			optStr(w, "color_primaries", f.ColorPrimaries, "unknown")
			optStr(w, "color_transfer", f.ColorTransfer, "unknown")
			optStr(w, "chroma_location", f.ChromaLocation, "unspecified")
		case "audio":
			optStr(w, "sample_fmt", f.SampleFmt, "unknown")
			optInt(w, "nb_samples", f.NBSamples)
			optInt(w, "channels", f.Channels)
			optStr(w, "channel_layout", f.ChannelLayout, "unknown")
		}
		r.tags(w, report.SectionFrameTags, f.Tags)
		r.frameLogs(w, f.Logs)
		r.sideData(w, report.SectionFrameSideDataList, report.SectionFrameSideData, f.SideDataList)
		return nil
	})
}

func (r *Renderer) subtitle(w *report.Writer, s *Subtitle) {
	w.Section(report.SectionSubtitle, func() error {
		w.WriteString("media_type", "subtitle")
		optInt(w, "pts", s.PTS)
		optStr(w, "pts_time", s.PTSTime, "N/A")
		optInt(w, "format", s.Format)
		optInt(w, "start_display_time", s.StartDisplayTime)
		optInt(w, "end_display_time", s.EndDisplayTime)
		optInt(w, "num_rects", s.NumRects)
		return nil
	})
}

func (r *Renderer) frameLogs(w *report.Writer, logs []LogEntry) {
	if len(logs) == 0 {
		return
	}
	w.Section(report.SectionFrameLogs, func() error {
		for _, entry := range logs {
			w.Section(report.SectionFrameLog, func() error {
				optStr(w, "context", entry.Context, "unknown")
				w.WriteInt("level", entry.Level)
				w.WriteInt("category", entry.Category)
				optStr(w, "message", entry.Message, "unknown")
				return nil
			})
		}
		return nil
	})
}

func (r *Renderer) streams(w *report.Writer, listID, elemID report.SectionID, streams []Stream) {
	w.Section(listID, func() error {
		for i := range streams {
			r.stream(w, elemID, &streams[i])
		}
		return nil
	})
}

func (r *Renderer) stream(w *report.Writer, elemID report.SectionID, s *Stream) {
	w.Section(elemID, func() error {
		w.WriteInt("index", s.Index)
		optStr(w, "codec_name", s.CodecName, "unknown")
		optStr(w, "codec_long_name", s.CodecLongName, "unknown")
		if s.Profile != "" {
			w.WriteString("profile", s.Profile)
		}
		optStr(w, "codec_type", s.CodecType, "unknown")
		if s.CodecTagString != "" {
			w.WriteString("codec_tag_string", s.CodecTagString)
			w.WriteString("codec_tag", s.CodecTag)
		}

		switch s.CodecType {
		case "video":
			optInt(w, "width", s.Width)
			optInt(w, "height", s.Height)
			optInt(w, "coded_width", s.CodedWidth)
			optInt(w, "coded_height", s.CodedHeight)
			optInt(w, "closed_captions", s.ClosedCaptions)
			optInt(w, "film_grain", s.FilmGrain)
			optInt(w, "has_b_frames", s.HasBFrames)
			optStr(w, "sample_aspect_ratio", s.SampleAspect, "N/A")
			optStr(w, "display_aspect_ratio", s.DisplayAspect, "N/A")
			optStr(w, "pix_fmt", s.PixFmt, "unknown")
			optInt(w, "level", s.Level)
			optStr(w, "color_range", s.ColorRange, "unknown")
			optStr(w, "color_space", s.ColorSpace, "unknown")
			optStr(w, "color_transfer", s.ColorTransfer, "unknown")
			optStr(w, "color_primaries", s.ColorPrimaries, "unknown")
			optStr(w, "chroma_location", s.ChromaLocation, "unspecified")
			optStr(w, "field_order", s.FieldOrder, "unknown")
			optInt(w, "refs", s.Refs)
		case "audio":
			optStr(w, "sample_fmt", s.SampleFmt, "unknown")
			optStr(w, "sample_rate", s.SampleRate, "N/A")
			optInt(w, "channels", s.Channels)
			optStr(w, "channel_layout", s.ChannelLayout, "unknown")
			optInt(w, "bits_per_sample", s.BitsPerSample)
			optInt(w, "initial_padding", s.InitialPadding)
		}

		optStr(w, "id", s.ID, "N/A")
		optStr(w, "r_frame_rate", s.RFrameRate, "N/A")
		optStr(w, "avg_frame_rate", s.AvgFrameRate, "N/A")
		optStr(w, "time_base", s.TimeBase, "N/A")
		optInt(w, "start_pts", s.StartPTS)
		optStr(w, "start_time", s.StartTime, "N/A")
		optInt(w, "duration_ts", s.DurationTS)
		optStr(w, "duration", s.Duration, "N/A")
		optStr(w, "bit_rate", s.BitRate, "N/A")
		optStr(w, "max_bit_rate", s.MaxBitRate, "N/A")
		optStr(w, "bits_per_raw_sample", s.BitsPerRawSample, "N/A")
		optStr(w, "nb_frames", s.NBFrames, "N/A")
		optStr(w, "nb_read_frames", s.NBReadFrames, "N/A")
		optStr(w, "nb_read_packets", s.NBReadPackets, "N/A")
		if s.Extradata != "" {
			w.WriteString("extradata", s.Extradata)
		}
		if s.ExtradataHash != "" {
			w.WriteString("extradata_hash", s.ExtradataHash)
		}
		optInt(w, "extradata_size", s.ExtradataSize)
		if lang := languageTag(s.Tags); lang != "" {
			w.WriteOptionalString("language_name", languageName(lang))
		}

		if s.Disposition != nil {
			r.disposition(w, dispositionSectionFor(elemID), s.Disposition)
		}
		r.tags(w, tagsSectionFor(elemID), s.Tags)
		if elemID == report.SectionStream {
			r.sideData(w, report.SectionStreamSideDataList, report.SectionStreamSideData, s.SideDataList)
		}
		return nil
	})
}

func dispositionSectionFor(elemID report.SectionID) report.SectionID {
	if elemID == report.SectionProgramStream {
		return report.SectionProgramStreamDisposition
	}
	return report.SectionStreamDisposition
}

func tagsSectionFor(elemID report.SectionID) report.SectionID {
	if elemID == report.SectionProgramStream {
		return report.SectionProgramStreamTags
	}
	return report.SectionStreamTags
}

func (r *Renderer) disposition(w *report.Writer, id report.SectionID, d *Disposition) {
	w.Section(id, func() error {
		w.WriteInt("default", d.Default)
		w.WriteInt("dub", d.Dub)
		w.WriteInt("original", d.Original)
		w.WriteInt("comment", d.Comment)
		w.WriteInt("lyrics", d.Lyrics)
		w.WriteInt("karaoke", d.Karaoke)
		w.WriteInt("forced", d.Forced)
		w.WriteInt("hearing_impaired", d.HearingImpaired)
		w.WriteInt("visual_impaired", d.VisualImpaired)
		w.WriteInt("clean_effects", d.CleanEffects)
		w.WriteInt("attached_pic", d.AttachedPic)
		w.WriteInt("timed_thumbnails", d.TimedThumbnails)
		w.WriteInt("captions", d.Captions)
		w.WriteInt("descriptions", d.Descriptions)
		w.WriteInt("metadata", d.Metadata)
		w.WriteInt("dependent", d.Dependent)
		w.WriteInt("still_image", d.StillImage)
		return nil
	})
}

func (r *Renderer) chapters(w *report.Writer, chapters []Chapter) {
	w.Section(report.SectionChapters, func() error {
		for i := range chapters {
			c := &chapters[i]
			w.Section(report.SectionChapter, func() error {
				w.WriteInt("id", c.ID)
				optStr(w, "time_base", c.TimeBase, "N/A")
				optInt(w, "start", c.Start)
				optStr(w, "start_time", c.StartTime, "N/A")
				optInt(w, "end", c.End)
				optStr(w, "end_time", c.EndTime, "N/A")
				r.tags(w, report.SectionChapterTags, c.Tags)
				return nil
			})
		}
		return nil
	})
}

func (r *Renderer) programs(w *report.Writer, programs []Program) {
	w.Section(report.SectionPrograms, func() error {
		for i := range programs {
			p := &programs[i]
			w.Section(report.SectionProgram, func() error {
				w.WriteInt("program_id", p.ProgramID)
				w.WriteInt("program_num", p.ProgramNum)
				w.WriteInt("nb_streams", p.NBStreams)
				w.WriteInt("pmt_pid", p.PmtPID)
				w.WriteInt("pcr_pid", p.PcrPID)
				r.tags(w, report.SectionProgramTags, p.Tags)
				r.streams(w, report.SectionProgramStreams, report.SectionProgramStream, p.Streams)
				return nil
			})
		}
		return nil
	})
}

func (r *Renderer) format(w *report.Writer, f *Format) {
	w.Section(report.SectionFormat, func() error {
		w.WriteValidatedString("filename", f.Filename)
		w.WriteInt("nb_streams", f.NBStreams)
		w.WriteInt("nb_programs", f.NBPrograms)
		optStr(w, "format_name", f.FormatName, "unknown")
		optStr(w, "format_long_name", f.FormatLongName, "unknown")
		optStr(w, "start_time", f.StartTime, "N/A")
		optStr(w, "duration", f.Duration, "N/A")
		optStr(w, "size", f.Size, "N/A")
		optStr(w, "bit_rate", f.BitRate, "N/A")
		w.WriteInt("probe_score", f.ProbeScore)
		r.tags(w, report.SectionFormatTags, f.Tags)
		return nil
	})
}

func (r *Renderer) probeError(w *report.Writer, e *ProbeError) {
	w.Section(report.SectionError, func() error {
		w.WriteInt("code", e.Code)
		w.WriteValidatedString("string", e.String)
		return nil
	})
}

func (r *Renderer) programVersion(w *report.Writer, v *ProgramVersion) {
	w.Section(report.SectionProgramVersion, func() error {
		w.WriteValidatedString("version", v.Version)
		w.WriteValidatedString("copyright", v.Copyright)
		w.WriteValidatedString("compiler_ident", v.CompilerIdent)
		w.WriteValidatedString("configuration", v.Configuration)
		return nil
	})
}

func (r *Renderer) libraryVersions(w *report.Writer, versions []LibraryVersion) {
	w.Section(report.SectionLibraryVersions, func() error {
		for _, v := range versions {
			w.Section(report.SectionLibraryVersion, func() error {
				w.WriteValidatedString("name", v.Name)
				w.WriteInt("major", v.Major)
				w.WriteInt("minor", v.Minor)
				w.WriteInt("micro", v.Micro)
				w.WriteInt("version", v.Version)
				w.WriteValidatedString("ident", v.Ident)
				return nil
			})
		}
		return nil
	})
}

func (r *Renderer) pixelFormats(w *report.Writer, formats []PixelFormat) {
	w.Section(report.SectionPixelFormats, func() error {
		for i := range formats {
			pf := &formats[i]
			w.Section(report.SectionPixelFormat, func() error {
				w.WriteString("name", pf.Name)
				w.WriteInt("nb_components", pf.NBComponents)
				optInt(w, "log2_chroma_w", pf.Log2ChromaW)
				optInt(w, "log2_chroma_h", pf.Log2ChromaH)
				optInt(w, "bits_per_pixel", pf.BitsPerPixel)
				if pf.Flags != nil {
					w.Section(report.SectionPixelFormatFlags, func() error {
						w.WriteInt("big_endian", pf.Flags.BigEndian)
						w.WriteInt("palette", pf.Flags.Palette)
						w.WriteInt("bitstream", pf.Flags.Bitstream)
						w.WriteInt("hwaccel", pf.Flags.HWAccel)
						w.WriteInt("planar", pf.Flags.Planar)
						w.WriteInt("rgb", pf.Flags.RGB)
						w.WriteInt("alpha", pf.Flags.Alpha)
						return nil
					})
				}
				if len(pf.Components) > 0 {
					w.Section(report.SectionPixelFormatComponents, func() error {
						for _, comp := range pf.Components {
							w.Section(report.SectionPixelFormatComponent, func() error {
								w.WriteInt("index", comp.Index)
								w.WriteInt("bit_depth", comp.BitDepth)
								return nil
							})
						}
						return nil
					})
				}
				return nil
			})
		}
		return nil
	})
}

// tags renders a metadata dictionary as a variable-fields section. Keys are
// sorted so output is deterministic across runs.
func (r *Renderer) tags(w *report.Writer, id report.SectionID, tags Tags) {
	if len(tags) == 0 {
		return
	}
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	w.Section(id, func() error {
		for _, key := range keys {
			w.WriteValidatedString(key, tags[key])
		}
		return nil
	})
}

func (r *Renderer) sideData(w *report.Writer, listID, elemID report.SectionID, list []SideData) {
	if len(list) == 0 {
		return
	}
	w.Section(listID, func() error {
		for _, sd := range list {
			w.SectionData(elemID, sd, func() error {
				keys := make([]string, 0, len(sd))
				for key := range sd {
					if key == "side_data_type" {
						continue
					}
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					writeRawField(w, key, sd[key])
				}
				return nil
			})
		}
		return nil
	})
}

// writeRawField emits one free-form JSON value: integers as integer fields,
// strings validated, everything else as its compact JSON text.
func writeRawField(w *report.Writer, key string, raw json.RawMessage) {
	var asInt int64
	if err := json.Unmarshal(raw, &asInt); err == nil {
		w.WriteInt(key, asInt)
		return
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		w.WriteValidatedString(key, asString)
		return
	}
	w.WriteString(key, strings.TrimSpace(string(raw)))
}

// optStr emits a present string value, or the placeholder as an optional
// field when the source had nothing.
func optStr(w *report.Writer, key, value, placeholder string) {
	if value == "" {
		w.WriteOptionalString(key, placeholder)
		return
	}
	w.WriteValidatedString(key, value)
}

// optInt emits a present integer, or an optional "N/A".
func optInt(w *report.Writer, key string, value *int64) {
	if value == nil {
		w.WriteOptionalString(key, "N/A")
		return
	}
	w.WriteInt(key, *value)
}
