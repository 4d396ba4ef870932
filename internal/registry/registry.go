// Package registry provides the id-keyed record store that scopes one
// resolution session. Records are registered once and never mutated; Reset
// starts a new session.
package registry

import (
	"antigenseq/pkg/domain"
	"sort"
	"sync"
)

// Compile-time assertion that a registry can back rule evaluation.
var _ domain.RuleView = (*Registry)(nil)

// Snapshot captures a point-in-time clone of the registry contents.
type Snapshot struct {
	Records map[string]domain.Record `json:"records"`
}

// Registry maps record ids to records.
type Registry struct {
	mu         sync.RWMutex
	records    map[string]domain.Record
	order      []string
	generation uint64
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]domain.Record)}
}

// Register stores rec. Registering an id twice fails with DuplicateRecordError.
func (r *Registry) Register(rec domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[rec.ID]; exists {
		return domain.DuplicateRecordError{ID: rec.ID}
	}
	r.records[rec.ID] = rec.Clone()
	r.order = append(r.order, rec.ID)
	return nil
}

// Lookup returns the record registered under id or MissingRecordError.
func (r *Registry) Lookup(id string) (domain.Record, error) {
	rec, ok := r.FindRecord(id)
	if !ok {
		return domain.Record{}, domain.MissingRecordError{ID: id}
	}
	return rec, nil
}

// FindRecord returns a copy of the record registered under id.
func (r *Registry) FindRecord(id string) (domain.Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	if !ok {
		return domain.Record{}, false
	}
	return rec.Clone(), true
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[id]
	return ok
}

// ListRecords returns copies of all records in registration order.
func (r *Registry) ListRecords() []domain.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id].Clone())
	}
	return out
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Reset clears all entries and starts a new generation.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]domain.Record)
	r.order = nil
	r.generation++
}

// Generation identifies the current session. It changes on Reset and
// ImportState, never on Register.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// ExportState clones the current registry contents for external persistence.
func (r *Registry) ExportState() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Snapshot{Records: make(map[string]domain.Record, len(r.records))}
	for id, rec := range r.records {
		s.Records[id] = rec.Clone()
	}
	return s
}

// ImportState replaces the registry contents with snapshot. Registration
// order is not part of a snapshot, so imported records are ordered by id.
func (r *Registry) ImportState(snapshot Snapshot) {
	ids := make([]string, 0, len(snapshot.Records))
	for id := range snapshot.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]domain.Record, len(ids))
	for _, id := range ids {
		rec := snapshot.Records[id].Clone()
		rec.ID = id
		r.records[id] = rec
	}
	r.order = ids
	r.generation++
}
