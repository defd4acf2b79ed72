package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// backend is one concrete rendering implementation. All instances are
// per-run and single-threaded; backends reach into the Writer for nesting
// state and raw byte emission.
type backend interface {
	name() string
	// displaysOptional reports whether the format shows placeholder values
	// for optional fields under the auto policy.
	displaysOptional() bool
	// mixedKindArrays reports whether the format can label distinct element
	// kinds interleaved in one array section.
	mixedKindArrays() bool

	openSection(w *Writer, data any)
	closeSection(w *Writer)
	writeInt(w *Writer, key string, value int64)
	writeString(w *Writer, key, value string)
}

type backendFactory func(opts backendOptions) (backend, error)

var backendFactories = map[string]backendFactory{
	"default": newDefaultBackend,
	"compact": newCompactBackend,
	"csv":     newCSVBackend,
	"flat":    newFlatBackend,
	"ini":     newINIBackend,
	"json":    newJSONBackend,
	"xml":     newXMLBackend,
}

// Formats lists the selectable backend names.
func Formats() []string {
	names := make([]string, 0, len(backendFactories))
	for name := range backendFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newBackend(name string, opts backendOptions) (backend, error) {
	factory, ok := backendFactories[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)",
			name, strings.Join(Formats(), ", "))
	}
	b, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("output format %s: %w", name, err)
	}
	return b, nil
}

// backendOptions are the parsed key=value arguments of a format spec.
type backendOptions map[string]string

// parseFormatSpec splits "name" or "name=key=value:key=value" into the
// backend name and its argument map. An empty spec selects the default
// backend.
func parseFormatSpec(spec string) (string, backendOptions, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "default", nil, nil
	}
	name, args, hasArgs := strings.Cut(spec, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("output format: missing name in %q", spec)
	}
	if !hasArgs {
		return name, nil, nil
	}

	opts := make(backendOptions)
	for _, pair := range strings.Split(args, ":") {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return "", nil, fmt.Errorf("output format: malformed argument %q in %q", pair, spec)
		}
		opts[key] = value
	}
	return name, opts, nil
}

// take removes and returns a string option.
func (o backendOptions) take(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := o[n]; ok {
			delete(o, n)
			return v, true
		}
	}
	return "", false
}

// takeBool removes and parses a boolean option, keeping def when absent.
func (o backendOptions) takeBool(def bool, names ...string) (bool, error) {
	v, ok := o.take(names...)
	if !ok {
		return def, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("option %s: expected boolean, got %q", names[0], v)
	}
	return parsed, nil
}

// takeSep removes and validates a single-character separator option.
func (o backendOptions) takeSep(def byte, names ...string) (byte, error) {
	v, ok := o.take(names...)
	if !ok {
		return def, nil
	}
	if len(v) != 1 {
		return 0, fmt.Errorf("option %s: separator %q must be a single character", names[0], v)
	}
	return v[0], nil
}

// finish fails on any unconsumed option.
func (o backendOptions) finish() error {
	for key := range o {
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}

func upcase(s string) string {
	return strings.ToUpper(s)
}
