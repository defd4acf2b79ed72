package report

// defaultBackend renders KEY=VALUE lines with [SECTION]/[/SECTION] brackets
// around non-wrapper, non-array sections. Nested singleton children are
// folded into a PARENT_ELEMENT: key prefix instead of brackets.
type defaultBackend struct {
	nokey           bool
	noprintWrappers bool
	nested          [maxLevels]bool
}

func newDefaultBackend(opts backendOptions) (backend, error) {
	b := &defaultBackend{}
	var err error
	if b.noprintWrappers, err = opts.takeBool(false, "noprint_wrappers", "nw"); err != nil {
		return nil, err
	}
	if b.nokey, err = opts.takeBool(false, "nokey", "nk"); err != nil {
		return nil, err
	}
	return b, opts.finish()
}

func (b *defaultBackend) name() string           { return "default" }
func (b *defaultBackend) displaysOptional() bool { return true }
func (b *defaultBackend) mixedKindArrays() bool  { return false }

func (b *defaultBackend) openSection(w *Writer, data any) {
	section := w.section[w.level]
	parent := w.parent()

	w.prefix[w.level] = ""
	b.nested[w.level] = parent != nil && parent.Flags&(FlagWrapper|FlagArray) == 0
	if b.nested[w.level] {
		w.prefix[w.level] = w.prefix[w.level-1] + upcase(section.DisplayName()) + ":"
	}

	if b.noprintWrappers || b.nested[w.level] {
		return
	}
	if section.Flags&(FlagWrapper|FlagArray) == 0 {
		w.printf("[%s]\n", upcase(section.Name))
	}
}

func (b *defaultBackend) closeSection(w *Writer) {
	section := w.section[w.level]

	if b.noprintWrappers || b.nested[w.level] {
		return
	}
	if section.Flags&(FlagWrapper|FlagArray) == 0 {
		w.printf("[/%s]\n", upcase(section.Name))
	}
}

func (b *defaultBackend) writeString(w *Writer, key, value string) {
	if !b.nokey {
		w.printf("%s%s=", w.prefix[w.level], key)
	}
	w.put(value)
	w.putByte('\n')
}

func (b *defaultBackend) writeInt(w *Writer, key string, value int64) {
	if !b.nokey {
		w.printf("%s%s=", w.prefix[w.level], key)
	}
	w.printf("%d\n", value)
}
