package state

import (
	"antigenseq/pkg/domain"
	"reflect"
	"testing"
	"time"
)

func TestEncodeDecodePreservesOrder(t *testing.T) {
	records := []domain.Record{
		{ID: "z", Genes: []domain.GeneSequence{{Gene: "HA", Sequence: "AAAA"}}},
		{ID: "a", ParentID: "z", Alterations: []domain.Alteration{{Gene: "HA", Substitutions: []string{"A1C"}}}},
	}
	saved := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rows, err := Encode(records, saved)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(rows) != 2 || rows[0].Bucket != BucketRecords || rows[1].Bucket != BucketMeta {
		t.Fatalf("unexpected rows %+v", rows)
	}
	got, meta, err := Decode(append(rows, Row{Bucket: "legacy", Payload: []byte("junk")}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("records mismatch: %+v", got)
	}
	if meta.Count != 2 || !meta.SavedAt.Equal(saved) {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestDecodeEmptyAndErrors(t *testing.T) {
	got, _, err := Decode(nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty dataset, got %v %v", got, err)
	}
	if _, _, err := Decode([]Row{{Bucket: BucketRecords, Payload: []byte("{")}}); err == nil {
		t.Fatalf("expected records decode error")
	}
	if _, _, err := Decode([]Row{{Bucket: BucketMeta, Payload: []byte("[")}}); err == nil {
		t.Fatalf("expected meta decode error")
	}
	rows, _ := Encode([]domain.Record{{ID: "a"}}, time.Now())
	rows[1].Payload = []byte(`{"count":3}`)
	if _, _, err := Decode(rows); err == nil {
		t.Fatalf("expected count mismatch error")
	}
}

func TestEncodeNilRecords(t *testing.T) {
	rows, err := Encode(nil, time.Now())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(rows[0].Payload) != "[]" {
		t.Fatalf("expected empty array, got %s", rows[0].Payload)
	}
}
