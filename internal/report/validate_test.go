package report

import (
	"errors"
	"testing"
)

func TestValidatorReplace(t *testing.T) {
	v := &validator{mode: ValidationReplace, replacement: "?"}

	clean, bad, err := v.Validate("bad\xff byte")
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !bad {
		t.Fatal("expected invalid sequence to be reported")
	}
	if clean != "bad? byte" {
		t.Fatalf("clean = %q", clean)
	}

	clean, bad, err = v.Validate("all good")
	if err != nil || bad || clean != "all good" {
		t.Fatalf("valid input mangled: %q bad=%v err=%v", clean, bad, err)
	}
}

func TestValidatorIgnore(t *testing.T) {
	v := &validator{mode: ValidationIgnore}

	clean, bad, err := v.Validate("bad\xff\xfe byte")
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !bad || clean != "bad byte" {
		t.Fatalf("clean = %q bad=%v", clean, bad)
	}
}

func TestValidatorFail(t *testing.T) {
	v := &validator{mode: ValidationFail}

	_, _, err := v.Validate("bad\xff byte")
	if !errors.Is(err, ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
}

func TestValidatorXMLControlExclusion(t *testing.T) {
	v := &validator{mode: ValidationReplace, replacement: "", excludeXMLControl: true}

	clean, bad, err := v.Validate("bell\x07 tab\t nl\n")
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !bad {
		t.Fatal("control code point should be invalid for XML")
	}
	if clean != "bell tab\t nl\n" {
		t.Fatalf("clean = %q", clean)
	}

	// Without the XML rule the same text is valid UTF-8.
	plain := &validator{mode: ValidationReplace, replacement: ""}
	clean, bad, err = plain.Validate("bell\x07")
	if err != nil || bad || clean != "bell\x07" {
		t.Fatalf("plain validator rejected control byte: %q bad=%v err=%v", clean, bad, err)
	}
}

func TestParseValidationMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ValidationMode
		wantErr bool
	}{
		{"", ValidationReplace, false},
		{"replace", ValidationReplace, false},
		{"FAIL", ValidationFail, false},
		{" ignore ", ValidationIgnore, false},
		{"panic", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseValidationMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseValidationMode(%q) error = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseValidationMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseOptionalMode(t *testing.T) {
	tests := []struct {
		in      string
		want    OptionalMode
		wantErr bool
	}{
		{"", OptionalAuto, false},
		{"auto", OptionalAuto, false},
		{"always", OptionalAlways, false},
		{"never", OptionalNever, false},
		{"sometimes", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseOptionalMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOptionalMode(%q) error = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseOptionalMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
