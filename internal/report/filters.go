package report

import (
	"fmt"
	"strings"
)

// FieldFilters holds per-run display filters keyed by section id. The zero
// filter set shows every field of every section; filters are configured once
// before the first OpenSection and are not mutated during a run.
type FieldFilters struct {
	bySection map[SectionID]*fieldFilter
}

type fieldFilter struct {
	showAll bool
	entries map[string]struct{}
}

// NewFieldFilters returns an empty filter set (everything visible).
func NewFieldFilters() *FieldFilters {
	return &FieldFilters{bySection: make(map[SectionID]*fieldFilter)}
}

// MarkShowEntries configures the filter for id. When showAll is set, the
// all-entries flag propagates recursively to every child section so a blanket
// "show this subtree" request covers nested tags and side data. Otherwise the
// explicit entry set replaces the filter for id alone.
func (f *FieldFilters) MarkShowEntries(reg *Registry, id SectionID, showAll bool, entries []string) {
	section := reg.Descriptor(id)

	if showAll {
		f.bySection[id] = &fieldFilter{showAll: true}
		for _, child := range section.Children {
			f.MarkShowEntries(reg, child, true, nil)
		}
		return
	}

	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	f.bySection[id] = &fieldFilter{entries: set}
}

// MarkByName applies MarkShowEntries to every section matching name and
// reports how many matched.
func (f *FieldFilters) MarkByName(reg *Registry, name string, showAll bool, entries []string) int {
	ids := reg.MatchByName(name)
	for _, id := range ids {
		f.MarkShowEntries(reg, id, showAll, entries)
	}
	return len(ids)
}

// Visible reports whether key may be emitted inside section id.
func (f *FieldFilters) Visible(id SectionID, key string) bool {
	if f == nil {
		return true
	}
	filter, ok := f.bySection[id]
	if !ok || filter.showAll {
		return true
	}
	_, ok = filter.entries[key]
	return ok
}

// ParseShowEntries builds filters from a selection spec of the form
//
//	section=key1,key2:other_section:tags=title
//
// A section term with no "=" shows the whole section. Unknown section names
// are a configuration error.
func ParseShowEntries(reg *Registry, spec string) (*FieldFilters, error) {
	filters := NewFieldFilters()
	for _, term := range strings.Split(spec, ":") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		name, list, hasList := strings.Cut(term, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("show entries: missing section name in term %q", term)
		}

		var entries []string
		showAll := !hasList
		if hasList {
			for _, key := range strings.Split(list, ",") {
				if key = strings.TrimSpace(key); key != "" {
					entries = append(entries, key)
				}
			}
			// "section=" with no keys means show everything in it.
			showAll = len(entries) == 0
		}

		if filters.MarkByName(reg, name, showAll, entries) == 0 {
			return nil, fmt.Errorf("show entries: no section matches %q", name)
		}
	}
	return filters, nil
}
