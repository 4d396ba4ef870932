package memory

import (
	"antigenseq/internal/blob/core"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()
	md := map[string]string{"records": "2"}
	info, err := store.Put(ctx, "datasets/h3.json", bytes.NewReader([]byte(`[]`)), core.PutOptions{ContentType: "application/json", Metadata: md})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	md["records"] = "mutated"
	if info.Size != 2 || info.ETag == "" || info.Metadata["records"] != "2" {
		t.Fatalf("unexpected info %+v", info)
	}

	got, rc, err := store.Get(ctx, "datasets/h3.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "[]" || got.ContentType != "application/json" {
		t.Fatalf("unexpected blob %q %+v", body, got)
	}
	got.Metadata["records"] = "x"
	head, err := store.Head(ctx, "datasets/h3.json")
	if err != nil || head.Metadata["records"] != "2" {
		t.Fatalf("metadata should be isolated: %+v %v", head, err)
	}
}

func TestStoreExistsAndOverwrite(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v1")), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("v2")), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	info, err := store.Put(ctx, "k", bytes.NewReader([]byte("v22")), core.PutOptions{Overwrite: true})
	if err != nil || info.Size != 3 {
		t.Fatalf("overwrite: %+v %v", info, err)
	}
	if _, err := store.Put(ctx, "", bytes.NewReader(nil), core.PutOptions{}); err == nil {
		t.Fatalf("expected empty key error")
	}
}

func TestStoreMissingAndDelete(t *testing.T) {
	store := New()
	ctx := context.Background()
	if _, _, err := store.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Head(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, err := store.Delete(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected delete false, got %v %v", ok, err)
	}
	_, _ = store.Put(ctx, "k", bytes.NewReader([]byte("v")), core.PutOptions{})
	if ok, err := store.Delete(ctx, "k"); !ok || err != nil {
		t.Fatalf("expected delete true, got %v %v", ok, err)
	}
}

func TestStoreListOrdered(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, k := range []string{"datasets/b.json", "other/x", "datasets/a.json"} {
		_, _ = store.Put(ctx, k, bytes.NewReader([]byte("v")), core.PutOptions{})
	}
	list, err := store.List(ctx, "datasets/")
	if err != nil || len(list) != 2 || list[0].Key != "datasets/a.json" {
		t.Fatalf("unexpected list %+v %v", list, err)
	}
	all, _ := store.List(ctx, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 blobs, got %d", len(all))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, fmt.Errorf("fail") }

func TestStorePutReadErrorAndDriver(t *testing.T) {
	store := New()
	if store.Driver() != core.DriverMemory {
		t.Fatalf("expected memory driver")
	}
	if _, err := store.Put(context.Background(), "bad", failingReader{}, core.PutOptions{}); err == nil {
		t.Fatalf("expected read error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "k", bytes.NewReader(nil), core.PutOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}
