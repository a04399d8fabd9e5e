// Package mmapfile provides a fixed-size io.ReadWriteSeeker backed by a
// memory-mapped file. Reads and writes touch the mapping directly; nothing
// is promised to be on disk until Sync or Close.
//
// The mapped region does not grow. Writes past the end fail with ErrBounds,
// which makes the type a natural fit for preallocated record files.
package mmapfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

var (
	// ErrBounds is returned when a write runs past the mapped region.
	ErrBounds = errors.New("mmapfile: write past end of mapped region")

	// ErrClosed is returned by operations on a closed File.
	ErrClosed = errors.New("mmapfile: closed")

	// ErrSeek is returned when a seek would land before the start of the
	// file.
	ErrSeek = errors.New("mmapfile: seek to negative position")
)

// File is a memory-mapped file exposed as a byte stream.
type File struct {
	f   *os.File
	mem mmap.MMap
	off int64
}

var (
	_ io.ReadWriteSeeker = (*File)(nil)
	_ io.Closer          = (*File)(nil)
)

// Create creates or truncates the file at path, sizes it to size bytes and
// maps it.
func Create(path string, size int) (*File, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmapfile: invalid size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: create: %w", err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: size %s: %w", path, err)
	}
	return open(f)
}

// Open maps an existing file at path for reading and writing.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: stat %s: %w", path, err)
	}
	if st.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("mmapfile: %s is empty", path)
	}
	return open(f)
}

func open(f *os.File) (*File, error) {
	mem, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmapfile: map %s: %w", f.Name(), err)
	}
	return &File{f: f, mem: mem}, nil
}

// Size returns the size of the mapped region.
func (f *File) Size() int { return len(f.mem) }

func (f *File) Read(p []byte) (int, error) {
	if f.mem == nil {
		return 0, ErrClosed
	}
	if f.off >= int64(len(f.mem)) {
		return 0, io.EOF
	}
	n := copy(p, f.mem[f.off:])
	f.off += int64(n)
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	if f.mem == nil {
		return 0, ErrClosed
	}
	if f.off >= int64(len(f.mem)) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, ErrBounds
	}
	n := copy(f.mem[f.off:], p)
	f.off += int64(n)
	if n < len(p) {
		return n, ErrBounds
	}
	return n, nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.mem == nil {
		return 0, ErrClosed
	}
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.off
	case io.SeekEnd:
		base = int64(len(f.mem))
	default:
		return 0, fmt.Errorf("mmapfile: invalid whence %d", whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, ErrSeek
	}
	f.off = pos
	return pos, nil
}

// Sync flushes the mapped region to disk.
func (f *File) Sync() error {
	if f.mem == nil {
		return ErrClosed
	}
	if err := f.mem.Flush(); err != nil {
		return fmt.Errorf("mmapfile: sync: %w", err)
	}
	return nil
}

// Close flushes the mapping, unmaps it and closes the file. Close after
// Close is a no-op.
func (f *File) Close() error {
	if f.mem == nil {
		return nil
	}
	err := f.mem.Flush()
	if e := f.mem.Unmap(); err == nil {
		err = e
	}
	f.mem = nil
	if e := f.f.Close(); err == nil {
		err = e
	}
	if err != nil {
		return fmt.Errorf("mmapfile: close: %w", err)
	}
	return nil
}
