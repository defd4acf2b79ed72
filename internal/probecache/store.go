package probecache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; existing databases are rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version.
var ErrSchemaMismatch = errors.New("probe cache schema version mismatch")

// ErrMiss is returned by Get when no entry matches.
var ErrMiss = errors.New("probe cache miss")

// Entry is one cached probe result.
type Entry struct {
	Fingerprint string
	Selection   string
	RunID       string
	Path        string
	CreatedAt   time.Time
	RawJSON     []byte
}

// Stats summarizes cache contents.
type Stats struct {
	Entries   int64
	TotalSize int64
	Path      string
}

// Store manages probe result persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{
		db:   db,
		path: path,
		lock: flock.New(path + ".lock"),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'mediaprobe cache clear' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Get returns the cached result for one fingerprint and selection signature.
func (s *Store) Get(ctx context.Context, fingerprint, selection string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, selection, run_id, path, created_at, raw_json
         FROM probe_results WHERE fingerprint = ? AND selection = ?`,
		fingerprint, selection,
	)

	var entry Entry
	var createdAt string
	err := row.Scan(&entry.Fingerprint, &entry.Selection, &entry.RunID, &entry.Path, &createdAt, &entry.RawJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		entry.CreatedAt = parsed
	}
	return &entry, nil
}

// Put stores the raw probe output for one fingerprint and selection
// signature, replacing any previous entry. Returns the run id assigned to
// the entry.
func (s *Store) Put(ctx context.Context, fingerprint, selection, path string, rawJSON []byte) (string, error) {
	// Writes from concurrent processes are serialized with a file lock so
	// two probers do not interleave replace statements for the same input.
	if err := s.lock.Lock(); err != nil {
		return "", fmt.Errorf("acquire cache lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	runID := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO probe_results
            (fingerprint, selection, run_id, path, created_at, raw_json)
         VALUES (?, ?, ?, ?, ?, ?)`,
		fingerprint, selection, runID, path,
		time.Now().UTC().Format(time.RFC3339Nano), rawJSON,
	)
	if err != nil {
		return "", fmt.Errorf("write cache entry: %w", err)
	}
	return runID, nil
}

// Stats reports entry count and total payload size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(LENGTH(raw_json)), 0) FROM probe_results")
	if err := row.Scan(&stats.Entries, &stats.TotalSize); err != nil {
		return Stats{}, fmt.Errorf("read cache stats: %w", err)
	}
	return stats, nil
}

// Clear removes every cached entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if err := s.lock.Lock(); err != nil {
		return 0, fmt.Errorf("acquire cache lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	res, err := s.db.ExecContext(ctx, "DELETE FROM probe_results")
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}
