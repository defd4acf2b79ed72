package report

import (
	"fmt"
	"strings"
)

// escapeFunc renders a field value safe for a separator-delimited line.
type escapeFunc func(value string, sep byte) string

// compactBackend renders one line per leaf section with fields joined by a
// single separator character. The csv backend is the same machinery with
// RFC 4180 defaults.
type compactBackend struct {
	backendName  string
	itemSep      byte
	nokey        bool
	printSection bool
	escape       escapeFunc
	nested       [maxLevels]bool
}

func newCompactBackend(opts backendOptions) (backend, error) {
	return newCompactLike("compact", '|', false, "c", opts)
}

func newCSVBackend(opts backendOptions) (backend, error) {
	return newCompactLike("csv", ',', true, "csv", opts)
}

func newCompactLike(name string, defSep byte, defNokey bool, defEscape string, opts backendOptions) (backend, error) {
	b := &compactBackend{backendName: name}
	var err error
	if b.itemSep, err = opts.takeSep(defSep, "item_sep", "s"); err != nil {
		return nil, err
	}
	if b.nokey, err = opts.takeBool(defNokey, "nokey", "nk"); err != nil {
		return nil, err
	}
	if b.printSection, err = opts.takeBool(true, "print_section", "p"); err != nil {
		return nil, err
	}
	mode, _ := opts.take("escape", "e")
	if mode == "" {
		mode = defEscape
	}
	switch mode {
	case "none":
		b.escape = func(value string, _ byte) string { return value }
	case "c":
		b.escape = cEscape
	case "csv":
		b.escape = csvEscape
	default:
		return nil, fmt.Errorf("unknown escape mode %q", mode)
	}
	return b, opts.finish()
}

func (b *compactBackend) name() string           { return b.backendName }
func (b *compactBackend) displaysOptional() bool { return true }
func (b *compactBackend) mixedKindArrays() bool  { return false }

func (b *compactBackend) openSection(w *Writer, data any) {
	section := w.section[w.level]
	parent := w.parent()

	w.prefix[w.level] = ""
	b.nested[w.level] = false

	// Elements outside an array or wrapper, and array elements carrying a
	// type, are folded into the enclosing line under a name[/type]: prefix.
	if parent != nil &&
		(section.Flags&FlagHasType != 0 ||
			(section.Flags&FlagArray == 0 && parent.Flags&(FlagWrapper|FlagArray) == 0)) {
		b.nested[w.level] = true

		var sb strings.Builder
		sb.WriteString(w.prefix[w.level-1])
		sb.WriteString(section.DisplayName())
		if section.Flags&FlagHasType != 0 {
			sb.WriteByte('/')
			sb.WriteString(normalizeTypeTag(section.typeOf(data)))
		}
		sb.WriteByte(':')
		w.prefix[w.level] = sb.String()

		w.items[w.level] = w.items[w.level-1]
		return
	}

	if parent != nil && parent.Flags&(FlagWrapper|FlagArray) == 0 && w.items[w.level-1] > 0 {
		w.putByte(b.itemSep)
	}
	if b.printSection && section.Flags&(FlagWrapper|FlagArray) == 0 {
		w.printf("%s%c", section.Name, b.itemSep)
	}
}

func (b *compactBackend) closeSection(w *Writer) {
	if !b.nested[w.level] && w.section[w.level].Flags&(FlagWrapper|FlagArray) == 0 {
		w.putByte('\n')
	}
}

func (b *compactBackend) writeString(w *Writer, key, value string) {
	if w.items[w.level] > 0 {
		w.putByte(b.itemSep)
	}
	if !b.nokey {
		w.printf("%s%s=", w.prefix[w.level], key)
	}
	w.put(b.escape(value, b.itemSep))
}

func (b *compactBackend) writeInt(w *Writer, key string, value int64) {
	if w.items[w.level] > 0 {
		w.putByte(b.itemSep)
	}
	if !b.nokey {
		w.printf("%s%s=", w.prefix[w.level], key)
	}
	w.printf("%d", value)
}

// normalizeTypeTag lowercases a type tag and replaces every non-alphanumeric
// byte with an underscore, keeping prefixes parseable.
func normalizeTypeTag(tag string) string {
	var sb strings.Builder
	sb.Grow(len(tag))
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z':
			sb.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			sb.WriteByte(c + ('a' - 'A'))
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// cEscape applies C-style escaping to control characters, backslash, and the
// separator.
func cEscape(value string, sep byte) string {
	var sb strings.Builder
	sb.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch c {
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			if c == sep {
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// csvEscape quotes fields containing the separator, a quote, or a newline,
// doubling embedded quotes per RFC 4180.
func csvEscape(value string, sep byte) string {
	needsQuoting := strings.ContainsAny(value, string([]byte{sep, '"', '\n', '\r'}))
	if !needsQuoting {
		return value
	}
	var sb strings.Builder
	sb.Grow(len(value) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(value); i++ {
		if value[i] == '"' {
			sb.WriteByte('"')
		}
		sb.WriteByte(value[i])
	}
	sb.WriteByte('"')
	return sb.String()
}
