// Package memory keeps dataset snapshots in process memory.
package memory

import (
	"antigenseq/internal/infra/persistence/state"
	"antigenseq/pkg/domain"
	"context"
	"errors"
	"sync"
	"time"
)

var _ domain.PersistentStore = (*Store)(nil)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("memory store closed")

// Store holds the encoded snapshot rows, so loads always return fresh copies.
type Store struct {
	mu     sync.RWMutex
	rows   []state.Row
	closed bool
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// LoadRecords implements domain.RecordSource.
func (s *Store) LoadRecords(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	records, _, err := state.Decode(s.rows)
	return records, err
}

// SaveRecords implements domain.PersistentStore.
func (s *Store) SaveRecords(ctx context.Context, records []domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows, err := state.Encode(records, time.Now())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.rows = rows
	return nil
}

// Close implements domain.PersistentStore.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
