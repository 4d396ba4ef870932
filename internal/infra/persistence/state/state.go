// Package state encodes a record dataset into the bucket rows shared by the
// SQL snapshot stores.
package state

import (
	"antigenseq/pkg/domain"
	"encoding/json"
	"fmt"
	"time"
)

// Bucket names in the state table.
const (
	BucketRecords = "records"
	BucketMeta    = "meta"
)

// Buckets lists the buckets in write order.
var Buckets = []string{BucketRecords, BucketMeta}

// Meta describes the last saved snapshot.
type Meta struct {
	Count   int       `json:"count"`
	SavedAt time.Time `json:"saved_at"`
}

// Row is one (bucket, payload) pair.
type Row struct {
	Bucket  string
	Payload []byte
}

// Encode serializes records in order along with a meta row.
func Encode(records []domain.Record, savedAt time.Time) ([]Row, error) {
	if records == nil {
		records = []domain.Record{}
	}
	recs, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", BucketRecords, err)
	}
	meta, err := json.Marshal(Meta{Count: len(records), SavedAt: savedAt.UTC()})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", BucketMeta, err)
	}
	return []Row{{Bucket: BucketRecords, Payload: recs}, {Bucket: BucketMeta, Payload: meta}}, nil
}

// Decode rebuilds the records from rows. Unknown buckets are ignored; a
// missing records bucket yields an empty dataset. A meta count that
// disagrees with the decoded records is reported as an error.
func Decode(rows []Row) ([]domain.Record, Meta, error) {
	var (
		records []domain.Record
		meta    Meta
		hasMeta bool
	)
	for _, row := range rows {
		if len(row.Payload) == 0 {
			continue
		}
		switch row.Bucket {
		case BucketRecords:
			if err := json.Unmarshal(row.Payload, &records); err != nil {
				return nil, Meta{}, fmt.Errorf("decode %s: %w", BucketRecords, err)
			}
		case BucketMeta:
			if err := json.Unmarshal(row.Payload, &meta); err != nil {
				return nil, Meta{}, fmt.Errorf("decode %s: %w", BucketMeta, err)
			}
			hasMeta = true
		}
	}
	if hasMeta && meta.Count != len(records) {
		return nil, Meta{}, fmt.Errorf("snapshot meta lists %d records, found %d", meta.Count, len(records))
	}
	return records, meta, nil
}
