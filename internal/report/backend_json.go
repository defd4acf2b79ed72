package report

import "strings"

// jsonBackend emits one JSON document per run. Emission is incremental:
// braces, commas and indentation are written as sections open and close, so
// the output stays valid JSON without buffering the whole tree.
type jsonBackend struct {
	indent   int
	compact  bool
	itemSep  string
	itemEdge string
}

func newJSONBackend(opts backendOptions) (backend, error) {
	b := &jsonBackend{}
	var err error
	if b.compact, err = opts.takeBool(false, "compact", "c"); err != nil {
		return nil, err
	}
	if b.compact {
		b.itemSep, b.itemEdge = ", ", " "
	} else {
		b.itemSep, b.itemEdge = ",\n", "\n"
	}
	return b, opts.finish()
}

func (b *jsonBackend) name() string           { return "json" }
func (b *jsonBackend) displaysOptional() bool { return false }
func (b *jsonBackend) mixedKindArrays() bool  { return true }

func (b *jsonBackend) writeIndent(w *Writer) {
	w.put(strings.Repeat(" ", 4*b.indent))
}

func (b *jsonBackend) openSection(w *Writer, _ any) {
	section := w.section[w.level]
	parent := w.parent()

	if w.level > 0 && w.items[w.level-1] > 0 {
		w.put(",\n")
	}

	if section.Flags&FlagWrapper != 0 {
		w.put("{\n")
		b.indent++
		return
	}

	name := jsonEscape(section.Name)
	b.writeIndent(w)
	b.indent++
	switch {
	case section.Flags&FlagArray != 0:
		w.printf("\"%s\": [\n", name)
	case parent != nil && parent.Flags&FlagArray == 0:
		w.printf("\"%s\": {%s", name, b.itemEdge)
	default:
		w.printf("{%s", b.itemEdge)
		// A mixed array interleaves element kinds, so each object carries a
		// discriminator field naming its section.
		if w.parentCombined() {
			if !b.compact {
				b.writeIndent(w)
			}
			w.printf("\"type\": \"%s\"", name)
			w.items[w.level]++
		}
	}
}

func (b *jsonBackend) closeSection(w *Writer) {
	section := w.section[w.level]

	switch {
	case w.level == 0:
		b.indent--
		w.put("\n}\n")
	case section.Flags&FlagArray != 0:
		w.putByte('\n')
		b.indent--
		b.writeIndent(w)
		w.putByte(']')
	default:
		w.put(b.itemEdge)
		b.indent--
		if !b.compact {
			b.writeIndent(w)
		}
		w.putByte('}')
	}
}

func (b *jsonBackend) writeFieldPrefix(w *Writer) {
	if w.items[w.level] > 0 || w.parentCombined() {
		w.put(b.itemSep)
	}
	if !b.compact {
		b.writeIndent(w)
	}
}

func (b *jsonBackend) writeString(w *Writer, key, value string) {
	b.writeFieldPrefix(w)
	w.printf("\"%s\": \"%s\"", jsonEscape(key), jsonEscape(value))
}

func (b *jsonBackend) writeInt(w *Writer, key string, value int64) {
	b.writeFieldPrefix(w)
	w.printf("\"%s\": %d", jsonEscape(key), value)
}

func jsonEscape(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 32 {
				const hexdigits = "0123456789abcdef"
				sb.WriteString(`\u00`)
				sb.WriteByte(hexdigits[c>>4])
				sb.WriteByte(hexdigits[c&0x0f])
			} else {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}
