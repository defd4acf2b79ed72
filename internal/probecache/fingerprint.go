package probecache

import (
	"fmt"
	"io"
	"os"

	"mediaprobe/internal/scalar"
)

// fingerprintHeadBytes bounds how much of the file is hashed. Size and
// modification time cover the tail; hashing the head catches remuxes that
// keep both.
const fingerprintHeadBytes = 1 << 20

// Fingerprint derives a cache key for one input file from its leading bytes,
// size, and modification time.
func Fingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}

	head := make([]byte, fingerprintHeadBytes)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}

	hasher, err := scalar.NewHasher("sha256")
	if err != nil {
		return "", err
	}
	seed := fmt.Sprintf("%d|%d|", info.Size(), info.ModTime().UnixNano())
	return hasher.Sum(append([]byte(seed), head[:n]...)), nil
}
