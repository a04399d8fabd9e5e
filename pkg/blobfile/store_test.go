package blobfile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/haivivi/bufseek/pkg/blobfile"
)

func newMemoryStore(t *testing.T) blobfile.Store {
	t.Helper()
	s := blobfile.NewMemoryStore()
	t.Cleanup(func() { s.Close() })
	return s
}

// newBadgerStore creates an in-memory Badger store for testing.
func newBadgerStore(t *testing.T) blobfile.Store {
	t.Helper()
	s, err := blobfile.OpenBadger(blobfile.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testStore runs the Store contract against one backend.
func testStore(t *testing.T, s blobfile.Store) {
	ctx := context.Background()

	// Get non-existent key.
	if _, err := s.Get(ctx, []byte("missing")); !errors.Is(err, blobfile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Set and Get.
	if err := s.Set(ctx, []byte("a/1"), []byte("hello")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, []byte("a/1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("Get = %q, want hello", got)
	}

	// Overwrite.
	if err := s.Set(ctx, []byte("a/1"), []byte("world")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, _ = s.Get(ctx, []byte("a/1"))
	if string(got) != "world" {
		t.Fatalf("Get = %q, want world", got)
	}

	// BatchSet and prefix iteration in order.
	entries := []blobfile.Entry{
		{Key: []byte("a/3"), Value: []byte("v3")},
		{Key: []byte("a/2"), Value: []byte("v2")},
		{Key: []byte("b/1"), Value: []byte("x")},
	}
	if err := s.BatchSet(ctx, entries); err != nil {
		t.Fatalf("BatchSet: %v", err)
	}
	var keys []string
	for k, err := range s.Keys(ctx, []byte("a/")) {
		if err != nil {
			t.Fatalf("Keys: %v", err)
		}
		keys = append(keys, string(k))
	}
	want := []string{"a/1", "a/2", "a/3"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", keys, want)
		}
	}

	// Early break must not deadlock or panic.
	for range s.Keys(ctx, []byte("a/")) {
		break
	}

	// Delete, twice.
	if err := s.Delete(ctx, []byte("a/1")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, []byte("a/1")); !errors.Is(err, blobfile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, []byte("a/1")); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, newMemoryStore(t))
}

func TestBadgerStore(t *testing.T) {
	testStore(t, newBadgerStore(t))
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := blobfile.NewMemoryStore()

	val := []byte("abc")
	s.Set(ctx, []byte("k"), val)
	val[0] = 'X'

	got, err := s.Get(ctx, []byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller's slice: %q", got)
	}
	got[0] = 'Y'
	again, _ := s.Get(ctx, []byte("k"))
	if string(again) != "abc" {
		t.Fatalf("returned value aliased the store: %q", again)
	}
}
