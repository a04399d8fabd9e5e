package blobfile

import (
	"context"
	"errors"
	"iter"
)

var (
	// ErrNotFound is returned by Store.Get for missing keys.
	ErrNotFound = errors.New("blobfile: not found")

	// ErrClosed is returned by operations on a closed File.
	ErrClosed = errors.New("blobfile: closed")

	// ErrSeek is returned when a seek would land before the start of the
	// blob.
	ErrSeek = errors.New("blobfile: seek to negative position")
)

// Store is the key-value backend blobs are chunked into. Implementations
// must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key []byte) error

	// Keys iterates all keys with the given prefix in lexicographic
	// order.
	Keys(ctx context.Context, prefix []byte) iter.Seq2[[]byte, error]

	// BatchSet stores all entries in one write, atomically where the
	// backend supports it.
	BatchSet(ctx context.Context, entries []Entry) error

	// Close releases the backend.
	Close() error
}

// Entry is a key-value pair handed to BatchSet.
type Entry struct {
	Key   []byte
	Value []byte
}
