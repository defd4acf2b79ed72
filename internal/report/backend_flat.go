package report

import (
	"strconv"
	"strings"
)

// flatBackend renders one fully-qualified path.to.key="value" line per leaf
// field. Array elements insert a numeric index segment into the path.
type flatBackend struct {
	sep          byte
	hierarchical bool
}

func newFlatBackend(opts backendOptions) (backend, error) {
	b := &flatBackend{}
	var err error
	if b.sep, err = opts.takeSep('.', "sep_char", "s"); err != nil {
		return nil, err
	}
	if b.hierarchical, err = opts.takeBool(true, "hierarchical", "h"); err != nil {
		return nil, err
	}
	return b, opts.finish()
}

func (b *flatBackend) name() string           { return "flat" }
func (b *flatBackend) displaysOptional() bool { return true }
func (b *flatBackend) mixedKindArrays() bool  { return true }

func (b *flatBackend) openSection(w *Writer, _ any) {
	section := w.section[w.level]
	parent := w.parent()

	w.prefix[w.level] = ""
	if parent == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(w.prefix[w.level-1])
	if b.hierarchical || section.Flags&(FlagArray|FlagWrapper) == 0 {
		sb.WriteString(section.Name)
		sb.WriteByte(b.sep)
		if parent.Flags&FlagArray != 0 {
			sb.WriteString(strconv.Itoa(w.arrayIndex()))
			sb.WriteByte(b.sep)
		}
	}
	w.prefix[w.level] = sb.String()
}

func (b *flatBackend) closeSection(*Writer) {}

func (b *flatBackend) writeString(w *Writer, key, value string) {
	w.printf("%s%s=\"%s\"\n", w.prefix[w.level], flatEscapeKey(key), flatEscapeValue(value))
}

func (b *flatBackend) writeInt(w *Writer, key string, value int64) {
	w.printf("%s%s=%d\n", w.prefix[w.level], key, value)
}

// flatEscapeKey replaces every non-alphanumeric key byte with an underscore;
// the mapping is lossy by design so keys stay shell-safe identifiers.
func flatEscapeKey(key string) string {
	var sb strings.Builder
	sb.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// flatEscapeValue backslash-escapes the characters a shell would interpret
// inside a double-quoted value.
func flatEscapeValue(value string) string {
	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '`':
			sb.WriteString("\\`")
		case '$':
			sb.WriteString(`\$`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
