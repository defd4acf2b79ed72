package report

import (
	"strconv"
	"strings"
)

// iniBackend renders classic INI output: a [dotted.section.path] header per
// object, key=value lines below it, array elements numbered in the path.
type iniBackend struct {
	hierarchical bool
}

func newINIBackend(opts backendOptions) (backend, error) {
	b := &iniBackend{}
	var err error
	if b.hierarchical, err = opts.takeBool(true, "hierarchical", "h"); err != nil {
		return nil, err
	}
	return b, opts.finish()
}

func (b *iniBackend) name() string           { return "ini" }
func (b *iniBackend) displaysOptional() bool { return true }
func (b *iniBackend) mixedKindArrays() bool  { return true }

func (b *iniBackend) openSection(w *Writer, _ any) {
	section := w.section[w.level]
	parent := w.parent()

	w.prefix[w.level] = ""
	if parent == nil {
		w.put("# mediaprobe output\n\n")
		return
	}

	if w.items[w.level-1] > 0 {
		w.putByte('\n')
	}

	var sb strings.Builder
	sb.WriteString(w.prefix[w.level-1])
	if b.hierarchical || section.Flags&(FlagArray|FlagWrapper) == 0 {
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(section.Name)
		if parent.Flags&FlagArray != 0 {
			sb.WriteByte('.')
			sb.WriteString(strconv.Itoa(w.arrayIndex()))
		}
	}
	w.prefix[w.level] = sb.String()

	if section.Flags&(FlagArray|FlagWrapper) == 0 {
		w.printf("[%s]\n", w.prefix[w.level])
	}
}

func (b *iniBackend) closeSection(*Writer) {}

func (b *iniBackend) writeString(w *Writer, key, value string) {
	w.printf("%s=%s\n", iniEscape(key), iniEscape(value))
}

func (b *iniBackend) writeInt(w *Writer, key string, value int64) {
	w.printf("%s=%d\n", key, value)
}

func iniEscape(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
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
		case '\\', '#', '=', ':':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			if c < 32 {
				sb.WriteString("\\x00")
				const hexdigits = "0123456789abcdef"
				sb.WriteByte(hexdigits[c>>4])
				sb.WriteByte(hexdigits[c&0x0f])
			} else {
				sb.WriteByte(c)
			}
		}
	}
	return sb.String()
}
