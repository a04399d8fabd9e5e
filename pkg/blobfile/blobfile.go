// Package blobfile stores seekable byte streams as fixed-size chunks in a
// key-value store.
//
// A blob is a meta entry (size and chunk size, msgpack-encoded) plus one
// entry per chunk that has ever been written. Chunks that were never
// written read back as zeros, so sparse blobs cost nothing. Reads and
// writes collect dirty chunks in memory; Sync writes them back together
// with the meta entry in a single batch.
//
// File implements io.ReadWriteSeeker, which makes a blob a drop-in stream
// for bufseek.New. The buffered layer turns many small operations into few
// chunk-sized ones, and its flush is forwarded to Sync.
package blobfile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// DefaultChunkSize is used when Options does not set one.
const DefaultChunkSize = 4096

// meta is the blob header entry.
type meta struct {
	Size      int64 `msgpack:"size"`
	ChunkSize int   `msgpack:"chunk_size"`
}

// Options configures Open.
type Options struct {
	// ChunkSize applies when the blob does not exist yet. Existing blobs
	// keep the chunk size they were created with.
	ChunkSize int
}

// File is one named blob. It is not safe for concurrent use; the Store
// behind it may be shared freely.
type File struct {
	ctx       context.Context
	store     Store
	name      string
	size      int64
	chunk     int
	off       int64
	dirty     map[int64][]byte
	metaDirty bool
}

var _ io.ReadWriteSeeker = (*File)(nil)

// Open opens the named blob, creating it on first Sync if it does not
// exist. The context is retained for the store calls the stream interface
// cannot thread through.
func Open(ctx context.Context, store Store, name string, opts *Options) (*File, error) {
	chunk := DefaultChunkSize
	if opts != nil && opts.ChunkSize > 0 {
		chunk = opts.ChunkSize
	}
	f := &File{
		ctx:   ctx,
		store: store,
		name:  name,
		chunk: chunk,
		dirty: make(map[int64][]byte),
	}
	raw, err := store.Get(ctx, metaKey(name))
	switch {
	case errors.Is(err, ErrNotFound):
		f.metaDirty = true
	case err != nil:
		return nil, err
	default:
		var m meta
		if err := msgpack.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("blobfile: decode meta of %s: %w", name, err)
		}
		if m.ChunkSize <= 0 || m.Size < 0 {
			return nil, fmt.Errorf("blobfile: corrupt meta of %s", name)
		}
		f.size = m.Size
		f.chunk = m.ChunkSize
	}
	return f, nil
}

// Remove deletes the named blob's meta and chunk entries.
func Remove(ctx context.Context, store Store, name string) error {
	if err := store.Delete(ctx, metaKey(name)); err != nil {
		return err
	}
	for key, err := range store.Keys(ctx, fmt.Appendf(nil, "%s/c/", name)) {
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func metaKey(name string) []byte { return fmt.Appendf(nil, "%s/meta", name) }

// chunkKey encodes the index with fixed width so keys sort by offset.
func (f *File) chunkKey(idx int64) []byte {
	return fmt.Appendf(nil, "%s/c/%012d", f.name, idx)
}

// Name returns the blob's name.
func (f *File) Name() string { return f.name }

// Size returns the blob's size, including unsynced writes.
func (f *File) Size() int64 { return f.size }

// loadChunk returns the chunk's current bytes at full chunk length. Dirty
// chunks win over stored ones; missing ones are zeros.
func (f *File) loadChunk(idx int64) ([]byte, error) {
	if c, ok := f.dirty[idx]; ok {
		return c, nil
	}
	c, err := f.store.Get(f.ctx, f.chunkKey(idx))
	switch {
	case errors.Is(err, ErrNotFound):
		return make([]byte, f.chunk), nil
	case err != nil:
		return nil, err
	}
	if len(c) != f.chunk {
		grown := make([]byte, f.chunk)
		copy(grown, c)
		c = grown
	}
	return c, nil
}

func (f *File) Read(p []byte) (int, error) {
	if f.store == nil {
		return 0, ErrClosed
	}
	if f.off >= f.size {
		return 0, io.EOF
	}
	n := int(min(int64(len(p)), f.size-f.off))
	total := 0
	for total < n {
		idx := f.off / int64(f.chunk)
		c, err := f.loadChunk(idx)
		if err != nil {
			return total, err
		}
		m := copy(p[total:n], c[f.off%int64(f.chunk):])
		total += m
		f.off += int64(m)
	}
	return total, nil
}

func (f *File) Write(p []byte) (int, error) {
	if f.store == nil {
		return 0, ErrClosed
	}
	total := 0
	for total < len(p) {
		idx := f.off / int64(f.chunk)
		c, err := f.loadChunk(idx)
		if err != nil {
			return total, err
		}
		m := copy(c[f.off%int64(f.chunk):], p[total:])
		f.dirty[idx] = c
		total += m
		f.off += int64(m)
	}
	if f.off > f.size {
		f.size = f.off
		f.metaDirty = true
	}
	return total, nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.store == nil {
		return 0, ErrClosed
	}
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.off
	case io.SeekEnd:
		base = f.size
	default:
		return 0, fmt.Errorf("blobfile: invalid whence %d", whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, ErrSeek
	}
	f.off = pos
	return pos, nil
}

// Sync writes all dirty chunks and the meta entry back in one batch.
func (f *File) Sync() error {
	if f.store == nil {
		return ErrClosed
	}
	if len(f.dirty) == 0 && !f.metaDirty {
		return nil
	}
	entries := make([]Entry, 0, len(f.dirty)+1)
	for idx, c := range f.dirty {
		entries = append(entries, Entry{Key: f.chunkKey(idx), Value: c})
	}
	raw, err := msgpack.Marshal(meta{Size: f.size, ChunkSize: f.chunk})
	if err != nil {
		return fmt.Errorf("blobfile: encode meta of %s: %w", f.name, err)
	}
	entries = append(entries, Entry{Key: metaKey(f.name), Value: raw})
	if err := f.store.BatchSet(f.ctx, entries); err != nil {
		return err
	}
	clear(f.dirty)
	f.metaDirty = false
	return nil
}

// Flush is Sync under the name a wrapping buffered stream looks for.
func (f *File) Flush() error { return f.Sync() }

// Close syncs and detaches from the store. The store itself stays open.
func (f *File) Close() error {
	if f.store == nil {
		return nil
	}
	err := f.Sync()
	f.store = nil
	return err
}
