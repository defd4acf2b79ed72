// Package probe runs ffprobe against a media file and re-renders the decoded
// inspection data through the report engine.
//
// Key types:
//   - Document: parsed ffprobe output covering format, streams, packets,
//     frames, chapters, and programs
//   - Runner: executes ffprobe with a timeout and decodes its JSON output
//   - Renderer: walks a Document and drives a report.Writer
//
// The renderer owns section sequencing: which top-level sections appear, how
// packet and frame elements interleave, and how captured log records are
// replayed into the report.
package probe
