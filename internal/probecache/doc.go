// Package probecache persists raw probe output keyed by input fingerprint,
// so repeated inspections of unchanged files skip the ffprobe subprocess.
//
// The cache is a single SQLite database. A file lock serializes writers
// across processes; readers go straight to SQLite, which handles concurrent
// reads under WAL.
package probecache
