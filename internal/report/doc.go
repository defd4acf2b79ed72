// Package report implements the structured-output engine: a statically
// declared tree of output sections, a writer that walks it, and a closed set
// of text backends (default, compact, csv, flat, ini, json, xml) that render
// the walk into one of the stable mediaprobe output grammars.
//
// Producers drive a Writer through a strict open/emit/close protocol: open a
// section, emit zero or more scalar fields or nested child sections, close
// the section. The writer consults the section registry for structural flags,
// applies per-section field filters and the optional-field policy, validates
// text through the configured validation mode, and forwards each call to the
// active backend. Backends own all format-specific escaping, prefixing, and
// separator rules; downstream tooling parses their output, so the grammars
// are treated as frozen.
package report
