// Package dataset moves record descriptor documents between blob storage,
// the resolver's registry and the snapshot stores.
package dataset

import (
	"antigenseq/internal/blob"
	"antigenseq/pkg/domain"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ContentType is the media type of descriptor documents.
const ContentType = "application/json"

// MetaRecordCount is the blob metadata key holding the record count.
const MetaRecordCount = "records"

var _ domain.RecordSource = (*Loader)(nil)

// Loader reads a JSON array of record descriptors from one blob key.
type Loader struct {
	store blob.Store
	key   string
}

// NewLoader binds a loader to key in store.
func NewLoader(store blob.Store, key string) *Loader {
	return &Loader{store: store, key: key}
}

// Key returns the document key.
func (l *Loader) Key() string { return l.key }

// LoadRecords implements domain.RecordSource. Unknown descriptor fields are
// rejected, as are records without an id.
func (l *Loader) LoadRecords(ctx context.Context) ([]domain.Record, error) {
	if l.store == nil {
		return nil, errors.New("dataset loader has no blob store")
	}
	_, rc, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.key, err)
	}
	defer func() { _ = rc.Close() }()
	return Decode(rc)
}

// Decode parses a descriptor document.
func Decode(r io.Reader) ([]domain.Record, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var records []domain.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("record %d has no id", i)
		}
	}
	return records, nil
}

// Export writes records as a descriptor document under key, replacing any
// existing document.
func Export(ctx context.Context, store blob.Store, key string, records []domain.Record) (blob.Info, error) {
	if records == nil {
		records = []domain.Record{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode records: %w", err)
	}
	info, err := store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: ContentType,
		Metadata:    map[string]string{MetaRecordCount: strconv.Itoa(len(records))},
		Overwrite:   true,
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("export %s: %w", key, err)
	}
	return info, nil
}
