package scalar

import (
	"strings"
	"testing"
)

func TestSecondsPlain(t *testing.T) {
	d := Display{}
	if got := d.Seconds(1.5); got != "1.500000" {
		t.Fatalf("Seconds = %q", got)
	}
}

func TestSecondsSexagesimal(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0, "0:00:00.000000"},
		{1.5, "0:00:01.500000"},
		{61, "0:01:01.000000"},
		{3661.5, "1:01:01.500000"},
		{7322.25, "2:02:02.250000"},
	}
	d := Display{Sexagesimal: true}
	for _, tt := range tests {
		if got := d.Seconds(tt.secs); got != tt.want {
			t.Errorf("Seconds(%v) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestSecondsWithUnit(t *testing.T) {
	d := Display{ShowUnit: true}
	if got := d.Seconds(1.5); got != "1.500000 s" {
		t.Fatalf("Seconds = %q", got)
	}
}

func TestValuePlain(t *testing.T) {
	d := Display{}
	if got := d.Value(1500, "byte"); got != "1500" {
		t.Fatalf("Value = %q", got)
	}
}

func TestValueDecimalPrefix(t *testing.T) {
	d := Display{Prefix: true}
	tests := []struct {
		v    int64
		unit string
		want string
	}{
		{1500, "byte", "1.500000 K"},
		{1000000, "bit/s", "1 M"},
		{1, "byte", "1"},
		{999, "byte", "999"},
	}
	for _, tt := range tests {
		if got := d.Value(tt.v, tt.unit); got != tt.want {
			t.Errorf("Value(%d, %q) = %q, want %q", tt.v, tt.unit, got, tt.want)
		}
	}
}

func TestValueBinaryPrefixOnlyForBytes(t *testing.T) {
	d := Display{Prefix: true, BinaryPrefix: true}

	if got := d.Value(1536, "byte"); got != "1.500000 Ki" {
		t.Fatalf("Value(byte) = %q", got)
	}
	// Non-byte units keep decimal prefixes even with the binary option set.
	if got := d.Value(1000000, "bit/s"); got != "1 M" {
		t.Fatalf("Value(bit/s) = %q", got)
	}
}

func TestValueShowUnit(t *testing.T) {
	d := Display{Prefix: true, ShowUnit: true}
	if got := d.Value(1500, "byte"); got != "1.500000 Kbyte" {
		t.Fatalf("Value = %q", got)
	}
	if got := (Display{ShowUnit: true}).Value(42, "byte"); got != "42 byte" {
		t.Fatalf("Value = %q", got)
	}
}

func TestValueClampsPrefixIndex(t *testing.T) {
	d := Display{Prefix: true}
	got := d.Value(1<<62, "byte")
	if !strings.HasSuffix(got, " P") {
		t.Fatalf("huge value should clamp to the largest prefix, got %q", got)
	}
}

func TestHexDumpShort(t *testing.T) {
	got := HexDump([]byte("ABC"))
	want := "\n00000000: 4142 43" + strings.Repeat(" ", 34) + "ABC\n"
	if got != want {
		t.Fatalf("HexDump:\ngot  %q\nwant %q", got, want)
	}
}

func TestHexDumpMultiLine(t *testing.T) {
	data := make([]byte, 20)
	for i := range data {
		data[i] = byte(i)
	}
	got := HexDump(data)

	lines := strings.Split(got, "\n")
	// Leading newline, two dump lines, trailing newline.
	if len(lines) != 4 || lines[0] != "" || lines[3] != "" {
		t.Fatalf("unexpected line structure: %q", got)
	}
	if !strings.HasPrefix(lines[1], "00000000: 0001 0203 ") {
		t.Fatalf("first line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "00000010: 1011 1213") {
		t.Fatalf("second line = %q", lines[2])
	}
	// Control bytes render as dots in the ASCII column.
	if !strings.HasSuffix(lines[1], strings.Repeat(".", 16)) {
		t.Fatalf("ASCII column = %q", lines[1])
	}
}

func TestHexDumpEmpty(t *testing.T) {
	if got := HexDump(nil); got != "\n" {
		t.Fatalf("HexDump(nil) = %q", got)
	}
}

func TestNewHasherAndSum(t *testing.T) {
	tests := []struct {
		algorithm string
		data      string
		want      string
	}{
		{"md5", "hello", "md5:5d41402abc4b2a76b9719d911017c592"},
		{"crc32", "hello", "crc32:3610a686"},
		{"adler32", "hello", "adler32:062c0215"},
		{"SHA256", "", "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}
	for _, tt := range tests {
		h, err := NewHasher(tt.algorithm)
		if err != nil {
			t.Fatalf("NewHasher(%q) returned error: %v", tt.algorithm, err)
		}
		if got := h.Sum([]byte(tt.data)); got != tt.want {
			t.Errorf("%s.Sum(%q) = %q, want %q", tt.algorithm, tt.data, got, tt.want)
		}
	}
}

func TestNewHasherUnknown(t *testing.T) {
	_, err := NewHasher("rot13")
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	if !strings.Contains(err.Error(), "md5") {
		t.Fatalf("error should list available algorithms: %v", err)
	}
}

func TestHashAlgorithmsSorted(t *testing.T) {
	names := HashAlgorithms()
	if len(names) != 8 {
		t.Fatalf("expected 8 algorithms, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
