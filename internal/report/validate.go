package report

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ValidationMode controls how invalid text handed to WriteValidatedString is
// handled.
type ValidationMode int

const (
	// ValidationReplace substitutes a replacement string for each invalid
	// sequence and logs a warning.
	ValidationReplace ValidationMode = iota
	// ValidationFail aborts the run on the first invalid sequence.
	ValidationFail
	// ValidationIgnore silently drops invalid bytes.
	ValidationIgnore
)

// ErrInvalidText reports an invalid byte sequence under ValidationFail.
var ErrInvalidText = errors.New("invalid text encoding")

// DefaultReplacement is the Unicode replacement character, substituted for
// invalid sequences unless configured otherwise.
const DefaultReplacement = "�"

// ParseValidationMode maps a configuration value to a ValidationMode.
func ParseValidationMode(value string) (ValidationMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "replace":
		return ValidationReplace, nil
	case "fail":
		return ValidationFail, nil
	case "ignore":
		return ValidationIgnore, nil
	default:
		return 0, fmt.Errorf("string validation: unknown mode %q", value)
	}
}

func (m ValidationMode) String() string {
	switch m {
	case ValidationFail:
		return "fail"
	case ValidationIgnore:
		return "ignore"
	default:
		return "replace"
	}
}

// validator checks and repairs text before it reaches a backend.
type validator struct {
	mode        ValidationMode
	replacement string
	// excludeXMLControl additionally rejects control code points that XML
	// 1.0 forbids (everything below 0x20 except tab, LF, CR).
	excludeXMLControl bool
	logger            *slog.Logger
}

// Validate decodes src as UTF-8 and applies the configured policy to every
// invalid sequence. It returns the cleaned text and whether any invalid bytes
// were found; under ValidationFail the first invalid sequence is an error and
// no partial output is produced.
func (v *validator) Validate(src string) (string, bool, error) {
	clean, bad, err := v.validate(src)
	if err != nil {
		return "", true, err
	}
	if bad && v.mode == ValidationReplace && v.logger != nil {
		v.logger.Warn("invalid byte sequence replaced",
			"text", clean,
			"bytes", hexBytes(invalidBytes(src, v.excludeXMLControl)),
			"replacement", v.replacement)
	}
	return clean, bad, nil
}

func (v *validator) validate(src string) (string, bool, error) {
	if v.valid(src) {
		return src, false, nil
	}

	var b strings.Builder
	b.Grow(len(src))
	bad := false
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if v.runeInvalid(r, size) {
			bad = true
			switch v.mode {
			case ValidationFail:
				return "", true, fmt.Errorf("%w: byte sequence %s at offset %d",
					ErrInvalidText, hexBytes([]byte(src[i:i+size])), i)
			case ValidationReplace:
				b.WriteString(v.replacement)
			}
			i += size
			continue
		}
		b.WriteString(src[i : i+size])
		i += size
	}
	return b.String(), bad, nil
}

func (v *validator) valid(src string) bool {
	if !utf8.ValidString(src) {
		return false
	}
	if !v.excludeXMLControl {
		return true
	}
	for _, r := range src {
		if xmlInvalidControl(r) {
			return false
		}
	}
	return true
}

func (v *validator) runeInvalid(r rune, size int) bool {
	if r == utf8.RuneError && size == 1 {
		return true
	}
	return v.excludeXMLControl && xmlInvalidControl(r)
}

func xmlInvalidControl(r rune) bool {
	return r < 0x20 && r != '\t' && r != '\n' && r != '\r'
}

func invalidBytes(src string, excludeXMLControl bool) []byte {
	var out []byte
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if (r == utf8.RuneError && size == 1) || (excludeXMLControl && xmlInvalidControl(r)) {
			out = append(out, src[i:i+size]...)
		}
		i += size
	}
	return out
}

func hexBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteString("0X")
	for _, c := range b {
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}
