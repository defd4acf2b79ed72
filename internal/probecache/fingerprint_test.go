package probecache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.mp4")
	writeFile(t, path, "ftypisom payload")

	first, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	second, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}

	if first != second {
		t.Fatalf("fingerprints differ: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "sha256:") {
		t.Fatalf("fingerprint missing algorithm prefix: %q", first)
	}
}

func TestFingerprintTracksContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.mp4")
	// Same byte length and pinned mtime for both versions, so only the
	// hashed head distinguishes them.
	mtime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	writeFile(t, path, "original content")
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	before, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}

	writeFile(t, path, "modified content")
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	after, err := Fingerprint(path)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	if before == after {
		t.Fatal("fingerprint unchanged after content edit")
	}
}

func TestFingerprintTracksSize(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.mp4")
	large := filepath.Join(dir, "large.mp4")
	writeFile(t, small, "x")
	writeFile(t, large, strings.Repeat("x", 4096))

	a, err := Fingerprint(small)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	b, err := Fingerprint(large)
	if err != nil {
		t.Fatalf("Fingerprint returned error: %v", err)
	}
	if a == b {
		t.Fatal("fingerprints collide across sizes")
	}
}

func TestFingerprintMissingFile(t *testing.T) {
	if _, err := Fingerprint(filepath.Join(t.TempDir(), "absent.mp4")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
