// Package history persists a summary of each merge run to a local
// sqlite database, so a CLI user can query past runs' conflict counts
// without re-running the merge (spec.md section 4.6, an optional
// collaborator concern). Run reports are stored zstd-compressed.
package history

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

// Run is one recorded merge run.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	PluginCount int
	CellCount   int
	MajorCount  int
	MinorCount  int
	Report      []byte // arbitrary caller-defined JSON, compressed at rest
}

// Store is a sqlite-backed history of merge runs.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open creates the database file (and its parent directory) if absent
// and opens it. Callers must call Close.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: setting journal mode: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: creating zstd decoder: %w", err)
	}

	return &Store{db: db, enc: enc, dec: dec}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	plugin_count INTEGER NOT NULL,
	cell_count INTEGER NOT NULL,
	major_count INTEGER NOT NULL,
	minor_count INTEGER NOT NULL,
	report BLOB
);`
	_, err := db.Exec(schema)
	return err
}

// RecordRun stamps run with a fresh run ID (if unset) and persists it.
func (s *Store) RecordRun(run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	compressed := s.enc.EncodeAll(run.Report, nil)

	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at, finished_at, plugin_count, cell_count, major_count, minor_count, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339),
		run.PluginCount, run.CellCount, run.MajorCount, run.MinorCount, compressed,
	)
	if err != nil {
		return "", fmt.Errorf("history: recording run: %w", err)
	}
	return run.ID, nil
}

// Recent returns the most recent n runs, newest first.
func (s *Store) Recent(n int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at, plugin_count, cell_count, major_count, minor_count, report
		 FROM runs ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: querying recent runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var started, finished string
		var compressed []byte
		if err := rows.Scan(&run.ID, &started, &finished, &run.PluginCount, &run.CellCount, &run.MajorCount, &run.MinorCount, &compressed); err != nil {
			return nil, fmt.Errorf("history: scanning run row: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339, started)
		run.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		if len(compressed) > 0 {
			decoded, err := s.dec.DecodeAll(compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("history: decompressing report for run %s: %w", run.ID, err)
			}
			run.Report = decoded
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Close releases the zstd codecs and the underlying database handle.
func (s *Store) Close() error {
	s.enc.Close()
	s.dec.Close()
	return s.db.Close()
}

// MarshalReport is a convenience for callers building a Run.Report from
// an arbitrary summary value.
func MarshalReport(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("history: marshaling report: %w", err)
	}
	return buf.Bytes(), nil
}
