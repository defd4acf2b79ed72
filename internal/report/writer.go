package report

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"mediaprobe/internal/scalar"
)

// maxLevels bounds section nesting depth.
const maxLevels = 12

// OptionalMode is the display policy for optional fields.
type OptionalMode int

const (
	// OptionalAuto emits optional fields only when the active backend
	// supports placeholder values.
	OptionalAuto OptionalMode = iota
	// OptionalNever suppresses optional fields.
	OptionalNever
	// OptionalAlways emits optional fields regardless of backend.
	OptionalAlways
)

// ParseOptionalMode maps a configuration value to an OptionalMode.
func ParseOptionalMode(value string) (OptionalMode, error) {
	switch value {
	case "", "auto":
		return OptionalAuto, nil
	case "never":
		return OptionalNever, nil
	case "always":
		return OptionalAlways, nil
	default:
		return 0, fmt.Errorf("optional fields: unknown mode %q", value)
	}
}

// Rational is a numerator/denominator pair rendered with a caller-chosen
// separator.
type Rational struct {
	Num int64
	Den int64
}

// Options configure a Writer for one output run.
type Options struct {
	// Format selects and configures the backend: a name, optionally
	// followed by "=key=value:key=value" backend arguments.
	Format string
	// Sink receives the rendered output. Required.
	Sink io.Writer
	// Registry defaults to Sections().
	Registry *Registry
	// Filters restrict emitted fields; nil shows everything.
	Filters *FieldFilters
	// Validation and Replacement control string validation; Replacement
	// defaults to the Unicode replacement character.
	Validation  ValidationMode
	Replacement string
	// Optional is the optional-field display policy.
	Optional OptionalMode
	// Hash enables WriteDataHash when set.
	Hash *scalar.Hasher
	// Display controls numeric value rendering for WriteTime and WriteValue.
	Display scalar.Display
	// Logger receives validation warnings. Defaults to a discard logger.
	Logger *slog.Logger
}

// Writer walks the section tree for one run, dispatching to the configured
// backend. It is single-threaded and non-reentrant: exactly one root
// open/close pair per run, with all calls from one goroutine.
type Writer struct {
	backend backend
	reg     *Registry
	filters *FieldFilters
	valid   validator
	opt     OptionalMode
	hash    *scalar.Hasher
	display scalar.Display
	logger  *slog.Logger

	out writeError
	bw  *bufio.Writer

	level   int
	section [maxLevels]*Section
	items   [maxLevels]int
	prefix  [maxLevels]string

	// Counters for the combined packets-and-frames array: independent
	// per-kind counts plus the count of the kind currently open.
	nbSectionPacket      int
	nbSectionFrame       int
	nbSectionPacketFrame int

	err error
}

// writeError tracks the first sink failure so every later write degrades to a
// no-op and the error surfaces at Flush.
type writeError struct {
	w   io.Writer
	err error
}

func (s *writeError) Write(p []byte) (int, error) {
	if s.err != nil {
		return len(p), nil
	}
	if _, err := s.w.Write(p); err != nil {
		s.err = err
	}
	return len(p), nil
}

// NewWriter builds a Writer from opts. Unknown backend names and malformed
// backend arguments are configuration errors detected here, before any
// section is opened.
func NewWriter(opts Options) (*Writer, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("report writer: nil sink")
	}
	name, args, err := parseFormatSpec(opts.Format)
	if err != nil {
		return nil, err
	}
	b, err := newBackend(name, args)
	if err != nil {
		return nil, err
	}

	reg := opts.Registry
	if reg == nil {
		reg = Sections()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	replacement := opts.Replacement
	if replacement == "" {
		replacement = DefaultReplacement
	}

	w := &Writer{
		backend: b,
		reg:     reg,
		filters: opts.Filters,
		valid: validator{
			mode:        opts.Validation,
			replacement: replacement,
			logger:      logger,
		},
		opt:     opts.Optional,
		hash:    opts.Hash,
		display: opts.Display,
		logger:  logger,
		level:   -1,
	}
	w.out.w = opts.Sink
	w.bw = bufio.NewWriter(&w.out)

	// XML cannot represent most control code points even when they are
	// valid UTF-8, so the validator treats them as invalid for that backend.
	if name == "xml" {
		w.valid.excludeXMLControl = true
		if x := b.(*xmlBackend); x.xsdStrict && (opts.Display.ShowUnit || opts.Display.Prefix) {
			return nil, fmt.Errorf("output format xml: xsd_strict is incompatible with unit or prefix display")
		}
	}
	return w, nil
}

// Backend reports the active backend name.
func (w *Writer) Backend() string { return w.backend.name() }

// MixedKindArrays reports whether the active backend can label structurally
// distinct element kinds interleaved in one enclosing array section.
func (w *Writer) MixedKindArrays() bool { return w.backend.mixedKindArrays() }

// OpenSection opens a child section of the currently open section (or the
// root when none is open). Opening a section the registry does not list under
// the current parent is a producer bug and panics.
func (w *Writer) OpenSection(id SectionID) {
	w.OpenSectionData(id, nil)
}

// OpenSectionData opens a section carrying an instance payload, used by
// sections whose concrete kind is resolved at render time.
func (w *Writer) OpenSectionData(id SectionID, data any) {
	section := w.reg.Descriptor(id)

	parentID := SectionNone
	if w.level >= 0 {
		parent := w.section[w.level]
		parentID = parent.ID
		if !parent.allowsChild(id) {
			panic(fmt.Sprintf("report: section %q is not a legal child of %q",
				section.Name, parent.Name))
		}
	} else if id != SectionRoot {
		panic(fmt.Sprintf("report: section %q opened outside root", section.Name))
	}

	w.level++
	if w.level >= maxLevels {
		panic(fmt.Sprintf("report: section nesting deeper than %d levels", maxLevels))
	}
	w.items[w.level] = 0
	w.section[w.level] = section

	if id == w.reg.combined {
		w.nbSectionPacket = 0
		w.nbSectionFrame = 0
		w.nbSectionPacketFrame = 0
	} else if parentID == w.reg.combined {
		if id == SectionPacket {
			w.nbSectionPacketFrame = w.nbSectionPacket
		} else {
			w.nbSectionPacketFrame = w.nbSectionFrame
		}
	}

	w.backend.openSection(w, data)
}

// CloseSection closes the currently open section. A close without a matching
// open is a producer bug and panics.
func (w *Writer) CloseSection() {
	if w.level < 0 {
		panic("report: section close without matching open")
	}
	section := w.section[w.level]

	parentID := SectionNone
	if w.level > 0 {
		parentID = w.section[w.level-1].ID
		w.items[w.level-1]++
	}
	if parentID == w.reg.combined {
		if section.ID == SectionPacket {
			w.nbSectionPacket++
		} else {
			w.nbSectionFrame++
		}
	}

	w.backend.closeSection(w)
	w.level--
}

// Section opens id, runs fn, and closes the section again even when fn
// fails, so a producer cannot leave the cursor unbalanced on an early return.
func (w *Writer) Section(id SectionID, fn func() error) error {
	return w.SectionData(id, nil, fn)
}

// SectionData is Section with an instance payload.
func (w *Writer) SectionData(id SectionID, data any, fn func() error) error {
	w.OpenSectionData(id, data)
	defer w.CloseSection()
	return fn()
}

func (w *Writer) current() *Section {
	if w.level < 0 {
		panic("report: field emitted outside any section")
	}
	return w.section[w.level]
}

// WriteInt emits an integer field in the current section.
func (w *Writer) WriteInt(key string, value int64) {
	section := w.current()
	if !w.filters.Visible(section.ID, key) {
		return
	}
	w.backend.writeInt(w, key, value)
	w.items[w.level]++
}

// WriteString emits a string field in the current section.
func (w *Writer) WriteString(key, value string) {
	w.writeString(key, value, false)
}

// WriteOptionalString emits a placeholder-style field subject to the
// optional-field policy.
func (w *Writer) WriteOptionalString(key, value string) {
	w.writeString(key, value, true)
}

// WriteValidatedString emits a string field after passing value through the
// configured validation mode. Under ValidationFail an invalid sequence
// terminates the run.
func (w *Writer) WriteValidatedString(key, value string) error {
	section := w.current()
	if !w.filters.Visible(section.ID, key) {
		return nil
	}

	cleanKey, _, err := w.valid.Validate(key)
	if err == nil {
		var cleanValue string
		cleanValue, _, err = w.valid.Validate(value)
		if err == nil {
			w.backend.writeString(w, cleanKey, cleanValue)
			w.items[w.level]++
			return nil
		}
	}

	err = fmt.Errorf("section %s, field %s: %w", section.FilterName(), key, err)
	w.fail(err)
	return err
}

func (w *Writer) writeString(key, value string, optional bool) {
	if optional {
		switch {
		case w.opt == OptionalNever:
			return
		case w.opt == OptionalAuto && !w.backend.displaysOptional():
			return
		}
	}
	section := w.current()
	if !w.filters.Visible(section.ID, key) {
		return
	}
	w.backend.writeString(w, key, value)
	w.items[w.level]++
}

// WriteRational emits a rational field rendered as numerator, separator,
// denominator.
func (w *Writer) WriteRational(key string, r Rational, sep byte) {
	w.writeString(key, fmt.Sprintf("%d%c%d", r.Num, sep, r.Den), false)
}

// WriteTimestamp emits an integer timestamp, or an optional "N/A" when the
// value is unavailable.
func (w *Writer) WriteTimestamp(key string, ts int64, available bool) {
	if !available {
		w.WriteOptionalString(key, "N/A")
		return
	}
	w.WriteInt(key, ts)
}

// WriteTime emits ts scaled by timeBase as seconds, honoring the configured
// display options, or an optional "N/A" when unavailable.
func (w *Writer) WriteTime(key string, ts int64, timeBase Rational, available bool) {
	if !available || timeBase.Den == 0 {
		w.WriteOptionalString(key, "N/A")
		return
	}
	seconds := float64(ts) * float64(timeBase.Num) / float64(timeBase.Den)
	w.writeString(key, w.display.Seconds(seconds), false)
}

// WriteValue emits an integer quantity with unit-aware display formatting.
func (w *Writer) WriteValue(key string, v int64, unit string) {
	w.writeString(key, w.display.Value(v, unit), false)
}

// WriteData emits a binary payload as a fixed-width hex and ASCII dump.
func (w *Writer) WriteData(key string, data []byte) {
	w.writeString(key, scalar.HexDump(data), false)
}

// WriteDataHash emits the configured content hash of data as
// "algorithm:hexdigest". It is a no-op when no hash is configured.
func (w *Writer) WriteDataHash(key string, data []byte) {
	if w.hash == nil {
		return
	}
	w.writeString(key, w.hash.Sum(data), false)
}

// Flush drains buffered output and reports the first error seen during the
// run, whether from the sink or from a failed validation.
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		w.fail(err)
	}
	if w.out.err != nil {
		w.fail(fmt.Errorf("write output: %w", w.out.err))
	}
	return w.err
}

// Err reports the sticky run error, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Raw byte emission used by backends.

func (w *Writer) put(s string) {
	w.bw.WriteString(s)
}

func (w *Writer) putByte(b byte) {
	w.bw.WriteByte(b)
}

func (w *Writer) printf(format string, args ...any) {
	fmt.Fprintf(w.bw, format, args...)
}

// parent returns the section enclosing the current one, or nil at the root.
func (w *Writer) parent() *Section {
	if w.level <= 0 {
		return nil
	}
	return w.section[w.level-1]
}

// parentCombined reports whether the enclosing section is the combined
// mixed-kind array.
func (w *Writer) parentCombined() bool {
	p := w.parent()
	return p != nil && p.ID == w.reg.combined
}

// arrayIndex is the element index within the enclosing array; inside the
// combined array it is the per-kind running count.
func (w *Writer) arrayIndex() int {
	if w.parent() != nil && w.parent().ID == w.reg.combined {
		return w.nbSectionPacketFrame
	}
	return w.items[w.level-1]
}
