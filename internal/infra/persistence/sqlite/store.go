// Package sqlite snapshots record datasets into a single SQLite table.
package sqlite

import (
	"antigenseq/internal/infra/persistence/state"
	"antigenseq/pkg/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultPath is used when no database path is configured.
const DefaultPath = "antigenseq.db"

// Store keeps the latest dataset snapshot as JSON payloads in a
// state(bucket, payload) table.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewStore opens (creating if needed) the database at path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path, now: time.Now}, nil
}

// LoadRecords returns the saved records in their saved order.
func (s *Store) LoadRecords(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var raw []state.Row
	for rows.Next() {
		var r state.Row
		if err := rows.Scan(&r.Bucket, &r.Payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		raw = append(raw, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate state: %w", err)
	}
	records, _, err := state.Decode(raw)
	return records, err
}

// SaveRecords replaces the stored snapshot in one transaction.
func (s *Store) SaveRecords(ctx context.Context, records []domain.Record) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := state.Encode(records, s.now())
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, row.Bucket, row.Payload); err != nil {
			return fmt.Errorf("upsert %s: %w", row.Bucket, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
