// Package scalar renders numeric and binary values for report output:
// unit-aware quantity formatting, sexagesimal durations, hex dumps, and
// content hashes.
package scalar

import (
	"fmt"
	"math"
	"strings"
)

// UnitSecond is the unit string that selects duration formatting in Value.
const UnitSecond = "s"

// siPrefix holds the divisor and symbol for one magnitude step, in both
// binary (1024-based) and decimal (1000-based) flavors.
type siPrefix struct {
	binVal float64
	decVal float64
	binStr string
	decStr string
}

var siPrefixes = []siPrefix{
	{1.0, 1.0, "", ""},
	{1.024e3, 1e3, "Ki", "K"},
	{1.048576e6, 1e6, "Mi", "M"},
	{1.073741824e9, 1e9, "Gi", "G"},
	{1.099511627776e12, 1e12, "Ti", "T"},
	{1.125899906842624e15, 1e15, "Pi", "P"},
}

// Display holds the user-selected rendering options for numeric values.
// The zero value renders plain numbers with no units.
type Display struct {
	// Sexagesimal renders durations as HOURS:MM:SS.MICROSECONDS.
	Sexagesimal bool
	// Prefix divides large values down to an SI-prefixed magnitude.
	Prefix bool
	// BinaryPrefix uses 1024-based prefixes for byte quantities.
	BinaryPrefix bool
	// ShowUnit appends the unit string to each value.
	ShowUnit bool
}

// Seconds renders a duration in seconds, honoring the sexagesimal and
// prefix options.
func (d Display) Seconds(secs float64) string {
	if d.Sexagesimal {
		mins := int(secs) / 60
		secs -= float64(mins) * 60
		hours := mins / 60
		mins %= 60
		return fmt.Sprintf("%d:%02d:%09.6f", hours, mins, secs)
	}
	return d.format(secs, true, UnitSecond)
}

// Value renders an integer quantity with the given unit.
func (d Display) Value(v int64, unit string) string {
	return d.format(float64(v), false, unit)
}

func (d Display) format(vald float64, isFloat bool, unit string) string {
	prefix := ""
	if d.Prefix && vald > 1 {
		var index int
		p := &siPrefixes[0]
		if unit == "byte" && d.BinaryPrefix {
			index = clampIndex(int(math.Log2(vald)) / 10)
			p = &siPrefixes[index]
			vald /= p.binVal
			prefix = p.binStr
		} else {
			index = clampIndex(int(math.Log10(vald)) / 3)
			p = &siPrefixes[index]
			vald /= p.decVal
			prefix = p.decStr
		}
	}

	var sb strings.Builder
	if isFloat || (d.Prefix && vald != math.Trunc(vald)) {
		fmt.Fprintf(&sb, "%f", vald)
	} else {
		fmt.Fprintf(&sb, "%d", int64(vald))
	}
	if prefix != "" || d.ShowUnit {
		sb.WriteByte(' ')
	}
	sb.WriteString(prefix)
	if d.ShowUnit {
		sb.WriteString(unit)
	}
	return sb.String()
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(siPrefixes) {
		return len(siPrefixes) - 1
	}
	return i
}

// HexDump renders data as a classic hex dump: a leading newline, then lines
// of "OFFSET: " followed by byte pairs and an ASCII column, 16 bytes per
// line.
func HexDump(data []byte) string {
	var sb strings.Builder
	sb.WriteByte('\n')
	offset := 0
	for len(data) > 0 {
		fmt.Fprintf(&sb, "%08x: ", offset)
		l := len(data)
		if l > 16 {
			l = 16
		}
		for i := 0; i < l; i++ {
			fmt.Fprintf(&sb, "%02x", data[i])
			if i&1 == 1 {
				sb.WriteByte(' ')
			}
		}
		for pad := 41 - 2*l - l/2; pad > 0; pad-- {
			sb.WriteByte(' ')
		}
		for i := 0; i < l; i++ {
			c := data[i]
			if c < 32 || c > 126 {
				c = '.'
			}
			sb.WriteByte(c)
		}
		sb.WriteByte('\n')
		offset += l
		data = data[l:]
	}
	return sb.String()
}
