package scalar

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/adler32"
	"hash/crc32"
	"sort"
	"strings"
)

// Hasher computes a named content digest over binary payloads.
type Hasher struct {
	algorithm string
	factory   func() hash.Hash
}

var hashFactories = map[string]func() hash.Hash{
	"md5":     md5.New,
	"sha1":    sha1.New,
	"sha224":  sha256.New224,
	"sha256":  sha256.New,
	"sha384":  sha512.New384,
	"sha512":  sha512.New,
	"crc32":   func() hash.Hash { return crc32.NewIEEE() },
	"adler32": func() hash.Hash { return adler32.New() },
}

// HashAlgorithms lists the selectable digest names.
func HashAlgorithms() []string {
	names := make([]string, 0, len(hashFactories))
	for name := range hashFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewHasher selects a digest by name, case-insensitively.
func NewHasher(algorithm string) (*Hasher, error) {
	name := strings.ToLower(strings.TrimSpace(algorithm))
	factory, ok := hashFactories[name]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm %q (available: %s)",
			algorithm, strings.Join(HashAlgorithms(), ", "))
	}
	return &Hasher{algorithm: name, factory: factory}, nil
}

// Algorithm reports the selected digest name.
func (h *Hasher) Algorithm() string { return h.algorithm }

// Sum renders the digest of data as "algorithm:hexdigest".
func (h *Hasher) Sum(data []byte) string {
	d := h.factory()
	d.Write(data)
	return h.algorithm + ":" + hex.EncodeToString(d.Sum(nil))
}
