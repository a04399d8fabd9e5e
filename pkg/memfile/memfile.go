// Package memfile provides an in-memory io.ReadWriteSeeker with file-like
// semantics: reading past the end returns io.EOF, writing past the end
// grows the file, and writing past a seeked-to gap zero-fills it.
package memfile

import (
	"errors"
	"fmt"
	"io"
)

// ErrSeek is returned when a seek would land before the start of the file.
var ErrSeek = errors.New("memfile: seek to negative position")

// File is an in-memory byte stream. The zero value is an empty file ready
// for use.
type File struct {
	data []byte
	off  int64
}

var _ io.ReadWriteSeeker = (*File)(nil)

// New returns a File whose initial content is p. The File takes ownership
// of p.
func New(p []byte) *File {
	return &File{data: p}
}

// Len returns the current size of the file.
func (f *File) Len() int { return len(f.data) }

// Bytes returns the file's content. The slice aliases the file's backing
// store and is only valid until the next write.
func (f *File) Bytes() []byte { return f.data }

// Truncate resizes the file to n bytes, growing it with zeros if needed.
// The offset is left unchanged, so a following write may re-grow the file.
func (f *File) Truncate(n int) {
	if n < 0 {
		panic("memfile: negative truncate size")
	}
	old := len(f.data)
	if n <= old {
		f.data = f.data[:n]
		return
	}
	if n <= cap(f.data) {
		f.data = f.data[:n]
		clear(f.data[old:])
		return
	}
	grown := make([]byte, n)
	copy(grown, f.data)
	f.data = grown
}

func (f *File) Read(p []byte) (int, error) {
	if f.off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.off:])
	f.off += int64(n)
	return n, nil
}

func (f *File) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	old := len(f.data)
	if end := f.off + int64(len(p)); end > int64(old) {
		if end <= int64(cap(f.data)) {
			f.data = f.data[:end]
		} else {
			grown := make([]byte, end)
			copy(grown, f.data)
			f.data = grown
		}
		if f.off > int64(old) {
			clear(f.data[old:f.off])
		}
	}
	copy(f.data[f.off:], p)
	f.off += int64(len(p))
	return len(p), nil
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.off
	case io.SeekEnd:
		base = int64(len(f.data))
	default:
		return 0, fmt.Errorf("memfile: invalid whence %d", whence)
	}
	pos := base + offset
	if pos < 0 {
		return 0, ErrSeek
	}
	f.off = pos
	return pos, nil
}
