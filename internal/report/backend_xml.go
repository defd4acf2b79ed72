package report

import (
	"fmt"
	"strings"
)

// xmlBackend emits an XML document rooted at the registry's wrapper section.
// Plain fields become attributes on the section element; variable-field
// sections emit one child element per entry instead, since arbitrary keys
// are not valid attribute names.
type xmlBackend struct {
	indent         int
	withinTag      bool
	fullyQualified bool
	xsdStrict      bool
}

func newXMLBackend(opts backendOptions) (backend, error) {
	b := &xmlBackend{}
	var err error
	if b.fullyQualified, err = opts.takeBool(false, "fully_qualified", "q"); err != nil {
		return nil, err
	}
	if b.xsdStrict, err = opts.takeBool(false, "xsd_strict", "x"); err != nil {
		return nil, err
	}
	if b.xsdStrict {
		b.fullyQualified = true
	}
	return b, opts.finish()
}

func (b *xmlBackend) name() string           { return "xml" }
func (b *xmlBackend) displaysOptional() bool { return false }
func (b *xmlBackend) mixedKindArrays() bool  { return true }

func (b *xmlBackend) writeIndent(w *Writer) {
	w.put(strings.Repeat(" ", 4*b.indent))
}

func (b *xmlBackend) openSection(w *Writer, data any) {
	section := w.section[w.level]
	parent := w.parent()

	if w.level == 0 {
		const qual = ` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` +
			` xmlns:mediaprobe="https://mediaprobe.dev/schema/mediaprobe"` +
			` xsi:schemaLocation="https://mediaprobe.dev/schema/mediaprobe mediaprobe.xsd"`

		w.put("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		if b.fullyQualified {
			w.printf("<mediaprobe:%s%s>\n", section.Name, qual)
		} else {
			w.printf("<%s>\n", section.Name)
		}
		return
	}

	if b.withinTag {
		b.withinTag = false
		w.put(">\n")
	}

	if parent != nil && parent.Flags&FlagWrapper != 0 && w.items[w.level-1] > 0 {
		w.putByte('\n')
	}
	b.indent++

	if section.Flags&(FlagArray|FlagVariableFields) != 0 {
		b.writeIndent(w)
		w.printf("<%s", section.Name)
		if section.Flags&FlagHasType != 0 {
			w.printf(" type=\"%s\"", xmlEscape(section.typeOf(data)))
		}
		w.put(">\n")
	} else {
		b.writeIndent(w)
		w.printf("<%s ", section.Name)
		b.withinTag = true
	}
}

func (b *xmlBackend) closeSection(w *Writer) {
	section := w.section[w.level]

	switch {
	case w.level == 0:
		if b.fullyQualified {
			w.printf("</mediaprobe:%s>\n", section.Name)
		} else {
			w.printf("</%s>\n", section.Name)
		}
	case b.withinTag:
		b.withinTag = false
		w.put("/>\n")
		b.indent--
	default:
		b.writeIndent(w)
		w.printf("</%s>\n", section.Name)
		b.indent--
	}
}

func (b *xmlBackend) writeValue(w *Writer, key, value string) {
	section := w.section[w.level]

	if section.Flags&FlagVariableFields != 0 {
		b.indent++
		b.writeIndent(w)
		w.printf("<%s key=\"%s\" value=\"%s\"/>\n",
			section.ElementName, xmlEscape(key), xmlEscape(value))
		b.indent--
		return
	}

	if w.items[w.level] > 0 {
		w.putByte(' ')
	}
	w.printf("%s=\"%s\"", key, xmlEscape(value))
}

func (b *xmlBackend) writeString(w *Writer, key, value string) {
	b.writeValue(w, key, value)
}

func (b *xmlBackend) writeInt(w *Writer, key string, value int64) {
	b.writeValue(w, key, fmt.Sprintf("%d", value))
}

func xmlEscape(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
