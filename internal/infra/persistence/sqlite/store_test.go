package sqlite

import (
	"antigenseq/pkg/domain"
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store := openTestStore(t, path)

	empty, err := store.LoadRecords(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty dataset, got %v %v", empty, err)
	}

	records := []domain.Record{
		{ID: "parent", Genes: []domain.GeneSequence{{Gene: "HA", Sequence: "DQICIGYHAN"}}},
		{ID: "child", ParentID: "parent", LongName: "A/X/1/2005-D1K", Alterations: []domain.Alteration{{Gene: "HA", Substitutions: []string{"D1K"}}}},
	}
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveRecords(ctx, records[:1]); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if err := store.SaveRecords(ctx, records); err != nil {
		t.Fatalf("third save: %v", err)
	}

	reloaded := openTestStore(t, path)
	got, err := reloaded.LoadRecords(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("records mismatch: %+v", got)
	}
	if reloaded.Path() != path {
		t.Fatalf("unexpected path %s", reloaded.Path())
	}
}

func TestStoreUsesSingleStateTable(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))
	if err := store.SaveRecords(context.Background(), []domain.Record{{ID: "a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	var n int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected records and meta buckets, got %d rows", n)
	}
}

func TestStoreRejectsCorruptSnapshot(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))
	if _, err := store.DB().Exec(`INSERT INTO state(bucket,payload) VALUES('records', ?)`, []byte("{")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := store.LoadRecords(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestStoreClosedDB(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	_ = store.Close()
	if err := store.SaveRecords(context.Background(), nil); err == nil {
		t.Fatalf("expected error on closed db")
	}
	if _, err := store.LoadRecords(context.Background()); err == nil {
		t.Fatalf("expected error on closed db")
	}
}
