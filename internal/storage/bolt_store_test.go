package storage

import (
	"path/filepath"
	"testing"
)

func TestBoltStoreSetGetDelete(t *testing.T) {
	dir := t.TempDir()

	storeRaw, err := openBolt(filepath.Join(dir, "credentials.db"))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	if _, found, err := store.Get("token"); err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}

	if err := store.Set("token", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, found, err := store.Get("token")
	if err != nil || !found || value != "abc" {
		t.Fatalf("expected stored token, got value=%q found=%v err=%v", value, found, err)
	}

	if err := store.Delete("token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := store.Get("token"); found {
		t.Fatalf("expected token to be removed")
	}

	if err := store.Delete("never-set"); err != nil {
		t.Fatalf("Delete of missing key should not fail: %v", err)
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.db")

	first, err := NewStore(TypeBBolt, path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := first.Set("ndgm_api_base", "http://api.local"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewStore(TypeBBolt, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	value, found, err := second.Get("ndgm_api_base")
	if err != nil || !found || value != "http://api.local" {
		t.Fatalf("expected value to survive reopen, got value=%q found=%v err=%v", value, found, err)
	}
}

func TestNewStoreSupportsMemory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	if err := store.Set("x", "1"); err != nil {
		t.Fatalf("memory store Set: %v", err)
	}
	if v, ok, _ := store.Get("x"); !ok || v != "1" {
		t.Fatalf("memory store Get: got %q %v", v, ok)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := store.Set("x", "2"); err != ErrClosed {
		t.Fatalf("expected ErrClosed after Close, got %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", ""); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " "); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
}
