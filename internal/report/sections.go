package report

import "fmt"

// SectionID identifies one kind of output section. The set is closed: every
// section a producer may open is declared in the registry below.
type SectionID int

const (
	SectionNone SectionID = iota - 1
	SectionRoot
	SectionFormat
	SectionFormatTags
	SectionStreams
	SectionStream
	SectionStreamDisposition
	SectionStreamTags
	SectionStreamSideDataList
	SectionStreamSideData
	SectionPackets
	SectionFrames
	SectionPacketsAndFrames
	SectionPacket
	SectionPacketTags
	SectionPacketSideDataList
	SectionPacketSideData
	SectionFrame
	SectionFrameTags
	SectionFrameSideDataList
	SectionFrameSideData
	SectionFrameLogs
	SectionFrameLog
	SectionSubtitle
	SectionChapters
	SectionChapter
	SectionChapterTags
	SectionPrograms
	SectionProgram
	SectionProgramTags
	SectionProgramStreams
	SectionProgramStream
	SectionProgramStreamDisposition
	SectionProgramStreamTags
	SectionError
	SectionProgramVersion
	SectionLibraryVersions
	SectionLibraryVersion
	SectionPixelFormats
	SectionPixelFormat
	SectionPixelFormatFlags
	SectionPixelFormatComponents
	SectionPixelFormatComponent

	sectionCount
)

// SectionFlags describe the structure of a section.
type SectionFlags uint8

const (
	// FlagWrapper marks a section with no fields of its own, only children.
	FlagWrapper SectionFlags = 1 << iota
	// FlagArray marks a section holding repeated elements of the same kind.
	FlagArray
	// FlagVariableFields marks a section whose field keys are decided at
	// runtime, such as a metadata tag dictionary.
	FlagVariableFields
	// FlagHasType marks a section whose concrete kind must be queried from
	// the instance payload at render time.
	FlagHasType
	// FlagNumberingByType marks an array section whose structurally distinct
	// child kinds keep independent running counts.
	FlagNumberingByType
)

// TypeTagger reports the concrete kind of a section instance. Payloads passed
// to Writer.OpenSectionData for FlagHasType sections implement it, or are
// plain strings carrying the tag directly.
type TypeTagger interface {
	TypeTag() string
}

// typeTag resolves the type accessor for FlagHasType sections.
func typeTag(data any) string {
	switch v := data.(type) {
	case TypeTagger:
		return v.TypeTag()
	case string:
		return v
	default:
		return "unknown"
	}
}

// Section is one immutable registry entry.
type Section struct {
	ID   SectionID
	Name string
	// ElementName names one element when the section repeats or carries
	// variable fields.
	ElementName string
	// UniqueName disambiguates sections whose Name collides across parents.
	UniqueName string
	Flags      SectionFlags
	Children   []SectionID
	// TypeOf returns the instance type tag; set when FlagHasType is set.
	TypeOf func(data any) string
}

// DisplayName returns the per-element name, falling back to the section name.
func (s *Section) DisplayName() string {
	if s.ElementName != "" {
		return s.ElementName
	}
	return s.Name
}

// FilterName is the name field filters match against.
func (s *Section) FilterName() string {
	if s.UniqueName != "" {
		return s.UniqueName
	}
	return s.Name
}

// typeOf resolves the instance type tag for FlagHasType sections.
func (s *Section) typeOf(data any) string {
	if s.TypeOf != nil {
		return s.TypeOf(data)
	}
	return typeTag(data)
}

func (s *Section) allowsChild(id SectionID) bool {
	for _, c := range s.Children {
		if c == id {
			return true
		}
	}
	return false
}

// Registry is the immutable section tree, built once at startup.
type Registry struct {
	sections []Section
	// combined is the array section that interleaves distinct child kinds.
	combined SectionID
}

// CombinedArray returns the section interleaving packets and frames, or
// SectionNone when the registry declares none.
func (r *Registry) CombinedArray() SectionID { return r.combined }

// Sections returns the mediaprobe section registry. The tree is a DAG rooted
// at SectionRoot; leaf section kinds such as tags appear under several
// parents via distinct ids sharing a name.
func Sections() *Registry {
	r := &Registry{
		sections: make([]Section, sectionCount),
		combined: SectionPacketsAndFrames,
	}
	add := func(s Section) {
		r.sections[s.ID] = s
	}

	add(Section{ID: SectionRoot, Name: "mediaprobe", Flags: FlagWrapper, Children: []SectionID{
		SectionChapters, SectionFormat, SectionFrames, SectionPrograms, SectionStreams,
		SectionPackets, SectionPacketsAndFrames, SectionError, SectionProgramVersion,
		SectionLibraryVersions, SectionPixelFormats,
	}})

	add(Section{ID: SectionFormat, Name: "format", Children: []SectionID{SectionFormatTags}})
	add(Section{ID: SectionFormatTags, Name: "tags", UniqueName: "format_tags", ElementName: "tag",
		Flags: FlagVariableFields})

	add(Section{ID: SectionStreams, Name: "streams", Flags: FlagArray, Children: []SectionID{SectionStream}})
	add(Section{ID: SectionStream, Name: "stream", Children: []SectionID{
		SectionStreamDisposition, SectionStreamTags, SectionStreamSideDataList,
	}})
	add(Section{ID: SectionStreamDisposition, Name: "disposition", UniqueName: "stream_disposition"})
	add(Section{ID: SectionStreamTags, Name: "tags", UniqueName: "stream_tags", ElementName: "tag",
		Flags: FlagVariableFields})
	add(Section{ID: SectionStreamSideDataList, Name: "side_data_list", UniqueName: "stream_side_data_list",
		ElementName: "side_data", Flags: FlagArray, Children: []SectionID{SectionStreamSideData}})
	add(Section{ID: SectionStreamSideData, Name: "side_data", UniqueName: "stream_side_data",
		ElementName: "side_datum", Flags: FlagVariableFields | FlagHasType, TypeOf: typeTag})

	add(Section{ID: SectionPackets, Name: "packets", Flags: FlagArray, Children: []SectionID{SectionPacket}})
	add(Section{ID: SectionFrames, Name: "frames", Flags: FlagArray, Children: []SectionID{
		SectionFrame, SectionSubtitle,
	}})
	add(Section{ID: SectionPacketsAndFrames, Name: "packets_and_frames",
		Flags:    FlagArray | FlagNumberingByType,
		Children: []SectionID{SectionPacket, SectionFrame, SectionSubtitle}})

	add(Section{ID: SectionPacket, Name: "packet", Children: []SectionID{
		SectionPacketTags, SectionPacketSideDataList,
	}})
	add(Section{ID: SectionPacketTags, Name: "tags", UniqueName: "packet_tags", ElementName: "tag",
		Flags: FlagVariableFields})
	add(Section{ID: SectionPacketSideDataList, Name: "side_data_list", UniqueName: "packet_side_data_list",
		ElementName: "side_data", Flags: FlagArray, Children: []SectionID{SectionPacketSideData}})
	add(Section{ID: SectionPacketSideData, Name: "side_data", UniqueName: "packet_side_data",
		ElementName: "side_datum", Flags: FlagVariableFields | FlagHasType, TypeOf: typeTag})

	add(Section{ID: SectionFrame, Name: "frame", Children: []SectionID{
		SectionFrameTags, SectionFrameSideDataList, SectionFrameLogs,
	}})
	add(Section{ID: SectionFrameTags, Name: "tags", UniqueName: "frame_tags", ElementName: "tag",
		Flags: FlagVariableFields})
	add(Section{ID: SectionFrameSideDataList, Name: "side_data_list", UniqueName: "frame_side_data_list",
		ElementName: "side_data", Flags: FlagArray, Children: []SectionID{SectionFrameSideData}})
	add(Section{ID: SectionFrameSideData, Name: "side_data", UniqueName: "frame_side_data",
		ElementName: "side_datum", Flags: FlagVariableFields | FlagHasType, TypeOf: typeTag})
	add(Section{ID: SectionFrameLogs, Name: "logs", Flags: FlagArray, Children: []SectionID{SectionFrameLog}})
	add(Section{ID: SectionFrameLog, Name: "log"})
	add(Section{ID: SectionSubtitle, Name: "subtitle"})

	add(Section{ID: SectionChapters, Name: "chapters", Flags: FlagArray, Children: []SectionID{SectionChapter}})
	add(Section{ID: SectionChapter, Name: "chapter", Children: []SectionID{SectionChapterTags}})
	add(Section{ID: SectionChapterTags, Name: "tags", UniqueName: "chapter_tags", ElementName: "tag",
		Flags: FlagVariableFields})

	add(Section{ID: SectionPrograms, Name: "programs", Flags: FlagArray, Children: []SectionID{SectionProgram}})
	add(Section{ID: SectionProgram, Name: "program", Children: []SectionID{
		SectionProgramTags, SectionProgramStreams,
	}})
	add(Section{ID: SectionProgramTags, Name: "tags", UniqueName: "program_tags", ElementName: "tag",
		Flags: FlagVariableFields})
	add(Section{ID: SectionProgramStreams, Name: "streams", UniqueName: "program_streams",
		Flags: FlagArray, Children: []SectionID{SectionProgramStream}})
	add(Section{ID: SectionProgramStream, Name: "stream", UniqueName: "program_stream", Children: []SectionID{
		SectionProgramStreamDisposition, SectionProgramStreamTags,
	}})
	add(Section{ID: SectionProgramStreamDisposition, Name: "disposition", UniqueName: "program_stream_disposition"})
	add(Section{ID: SectionProgramStreamTags, Name: "tags", UniqueName: "program_stream_tags",
		ElementName: "tag", Flags: FlagVariableFields})

	add(Section{ID: SectionError, Name: "error"})
	add(Section{ID: SectionProgramVersion, Name: "program_version"})
	add(Section{ID: SectionLibraryVersions, Name: "library_versions", Flags: FlagArray,
		Children: []SectionID{SectionLibraryVersion}})
	add(Section{ID: SectionLibraryVersion, Name: "library_version"})

	add(Section{ID: SectionPixelFormats, Name: "pixel_formats", Flags: FlagArray,
		Children: []SectionID{SectionPixelFormat}})
	add(Section{ID: SectionPixelFormat, Name: "pixel_format", Children: []SectionID{
		SectionPixelFormatFlags, SectionPixelFormatComponents,
	}})
	add(Section{ID: SectionPixelFormatFlags, Name: "flags", UniqueName: "pixel_format_flags"})
	add(Section{ID: SectionPixelFormatComponents, Name: "components", UniqueName: "pixel_format_components",
		Flags: FlagArray, Children: []SectionID{SectionPixelFormatComponent}})
	add(Section{ID: SectionPixelFormatComponent, Name: "component"})

	return r
}

// Descriptor returns the registry entry for id. An id outside the declared
// enumeration is a programming error and panics.
func (r *Registry) Descriptor(id SectionID) *Section {
	if id < 0 || int(id) >= len(r.sections) || r.sections[id].Name == "" {
		panic(fmt.Sprintf("report: unknown section id %d", id))
	}
	return &r.sections[id]
}

// MatchByName returns every section whose name or unique name equals name.
// Name collisions across parents are expected: a filter on "tags" applies to
// every tags section.
func (r *Registry) MatchByName(name string) []SectionID {
	var out []SectionID
	for i := range r.sections {
		s := &r.sections[i]
		if s.Name == "" {
			continue
		}
		if s.Name == name || s.UniqueName == name {
			out = append(out, s.ID)
		}
	}
	return out
}

// Len reports the number of declared sections.
func (r *Registry) Len() int {
	n := 0
	for i := range r.sections {
		if r.sections[i].Name != "" {
			n++
		}
	}
	return n
}

// All returns the declared sections in id order.
func (r *Registry) All() []*Section {
	out := make([]*Section, 0, len(r.sections))
	for i := range r.sections {
		if r.sections[i].Name != "" {
			out = append(out, &r.sections[i])
		}
	}
	return out
}
