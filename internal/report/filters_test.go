package report

import (
	"strings"
	"testing"
)

func TestParseShowEntriesErrors(t *testing.T) {
	reg := Sections()

	if _, err := ParseShowEntries(reg, "no_such_section"); err == nil {
		t.Fatal("expected error for unknown section name")
	}
	if _, err := ParseShowEntries(reg, "=a,b"); err == nil {
		t.Fatal("expected error for missing section name")
	}
	if _, err := ParseShowEntries(reg, ""); err != nil {
		t.Fatalf("empty spec should parse: %v", err)
	}
}

func TestShowEntriesWholeSectionPropagatesToChildren(t *testing.T) {
	reg := Sections()
	filters, err := ParseShowEntries(reg, "stream")
	if err != nil {
		t.Fatalf("ParseShowEntries returned error: %v", err)
	}

	if !filters.Visible(SectionStream, "codec_name") {
		t.Fatal("stream fields should be visible")
	}
	if !filters.Visible(SectionStreamTags, "title") {
		t.Fatal("whole-section selection should cover nested tags")
	}
	if !filters.Visible(SectionStreamDisposition, "default") {
		t.Fatal("whole-section selection should cover disposition")
	}
}

func TestShowEntriesExplicitFieldList(t *testing.T) {
	reg := Sections()
	filters, err := ParseShowEntries(reg, "format=format_name , duration")
	if err != nil {
		t.Fatalf("ParseShowEntries returned error: %v", err)
	}

	if !filters.Visible(SectionFormat, "format_name") {
		t.Fatal("listed field should be visible")
	}
	if !filters.Visible(SectionFormat, "duration") {
		t.Fatal("listed field should be visible")
	}
	if filters.Visible(SectionFormat, "bit_rate") {
		t.Fatal("unlisted field should be hidden")
	}
	// Sections without a filter entry stay fully visible.
	if !filters.Visible(SectionStream, "codec_name") {
		t.Fatal("unfiltered section should stay visible")
	}
}

func TestShowEntriesEmptyListShowsAll(t *testing.T) {
	reg := Sections()
	filters, err := ParseShowEntries(reg, "format=")
	if err != nil {
		t.Fatalf("ParseShowEntries returned error: %v", err)
	}
	if !filters.Visible(SectionFormat, "anything") {
		t.Fatal("empty field list should show the whole section")
	}
}

func TestMarkByNameMatchesAllTagSections(t *testing.T) {
	reg := Sections()

	// The shared name "tags" matches every tag dictionary in the tree.
	ids := reg.MatchByName("tags")
	if len(ids) < 2 {
		t.Fatalf("expected several tags sections, got %d", len(ids))
	}

	// Unique names select exactly one.
	ids = reg.MatchByName("stream_tags")
	if len(ids) != 1 || ids[0] != SectionStreamTags {
		t.Fatalf("stream_tags matched %v", ids)
	}
}

func TestNilFiltersShowEverything(t *testing.T) {
	var filters *FieldFilters
	if !filters.Visible(SectionFormat, "anything") {
		t.Fatal("nil filters must show every field")
	}
}

func TestRegistryShape(t *testing.T) {
	reg := Sections()

	if reg.CombinedArray() != SectionPacketsAndFrames {
		t.Fatalf("combined array = %v", reg.CombinedArray())
	}

	root := reg.Descriptor(SectionRoot)
	if root.Flags&FlagWrapper == 0 {
		t.Fatal("root must be a wrapper")
	}
	combined := reg.Descriptor(SectionPacketsAndFrames)
	if combined.Flags&FlagNumberingByType == 0 {
		t.Fatal("combined array must number by type")
	}

	// Every declared child id must itself be registered.
	for _, section := range reg.All() {
		for _, child := range section.Children {
			if name := reg.Descriptor(child).Name; strings.TrimSpace(name) == "" {
				t.Fatalf("section %s has unregistered child %d", section.Name, child)
			}
		}
	}
}
