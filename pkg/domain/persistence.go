package domain

import "context"

// RecordSource yields raw record descriptors from whatever persisted form the
// surrounding system uses.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]Record, error)
}

// PersistentStore is a durable backend able to snapshot and reload a dataset
// session's records.
type PersistentStore interface {
	RecordSource
	SaveRecords(ctx context.Context, records []Record) error
	Close() error
}
