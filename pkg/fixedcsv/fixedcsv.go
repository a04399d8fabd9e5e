// Package fixedcsv reads and writes CSV-like files whose records all have
// the same size.
//
// A schema assigns every column a fixed width; values are space-padded to
// it. Because records never vary in size, record i starts at byte offset
// i*RecordSize and can be rewritten in place without touching its
// neighbours. File layers a buffered seekable stream underneath, so
// scattered record accesses batch into large stream operations.
package fixedcsv

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/haivivi/bufseek/pkg/bufseek"
)

var (
	// ErrFieldCount is returned when a record has the wrong number of
	// values for the schema.
	ErrFieldCount = errors.New("fixedcsv: wrong number of fields")

	// ErrTooLong is returned when a value does not fit its field width.
	ErrTooLong = errors.New("fixedcsv: value longer than its field width")

	// ErrFormat is returned when the stream does not look like
	// fixed-width records.
	ErrFormat = errors.New("fixedcsv: malformed record data")
)

// File provides record-level access to a stream of fixed-width records.
// It is not safe for concurrent use.
type File struct {
	rw     *bufseek.ReadWriter
	schema *Schema
	rec    []byte
}

// Open wraps stream for record access with the default buffer size.
func Open(stream io.ReadWriteSeeker, schema *Schema) *File {
	return OpenSize(stream, schema, 0)
}

// OpenSize is Open with an explicit buffer size; zero or negative means
// the default.
func OpenSize(stream io.ReadWriteSeeker, schema *Schema, bufSize int) *File {
	var rw *bufseek.ReadWriter
	if bufSize <= 0 {
		rw = bufseek.New(stream)
	} else {
		rw = bufseek.NewSize(stream, bufSize)
	}
	return &File{rw: rw, schema: schema, rec: make([]byte, schema.RecordSize())}
}

// Schema returns the layout the file was opened with.
func (f *File) Schema() *Schema { return f.schema }

// WriteRecord writes values as one record at the current position. The
// values are validated against the schema before anything is written.
func (f *File) WriteRecord(values []string) error {
	if len(values) != len(f.schema.Fields) {
		return fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(values), len(f.schema.Fields))
	}
	for i, fd := range f.schema.Fields {
		if len(values[i]) > fd.Width {
			return fmt.Errorf("%w: %q in field %s (width %d)", ErrTooLong, values[i], fd.Name, fd.Width)
		}
	}
	rec := f.rec[:0]
	for i, fd := range f.schema.Fields {
		rec = append(rec, values[i]...)
		for pad := fd.Width - len(values[i]); pad > 0; pad-- {
			rec = append(rec, ' ')
		}
		if i < len(f.schema.Fields)-1 {
			rec = append(rec, ',')
		}
	}
	rec = append(rec, '\n')
	_, err := f.rw.Write(rec)
	return err
}

// ReadRecord reads the record at the current position. Right padding is
// trimmed from the values; leading spaces survive a round trip, trailing
// ones do not.
func (f *File) ReadRecord() ([]string, error) {
	if err := f.rw.ReadFull(f.rec); err != nil {
		return nil, err
	}
	values := make([]string, len(f.schema.Fields))
	off := 0
	for i, fd := range f.schema.Fields {
		raw := f.rec[off : off+fd.Width]
		off += fd.Width
		want := byte(',')
		if i == len(f.schema.Fields)-1 {
			want = '\n'
		}
		if sep := f.rec[off]; sep != want {
			return nil, fmt.Errorf("%w: separator %q, want %q", ErrFormat, sep, want)
		}
		off++
		values[i] = strings.TrimRight(string(raw), " ")
	}
	return values, nil
}

// SeekRecord positions the file at the start of record index.
func (f *File) SeekRecord(index int64) error {
	if index < 0 {
		return fmt.Errorf("fixedcsv: negative record index %d", index)
	}
	_, err := f.rw.Seek(index*int64(f.schema.RecordSize()), io.SeekStart)
	return err
}

// SeekRelative moves by delta records relative to the current position.
func (f *File) SeekRelative(delta int64) error {
	_, err := f.rw.Seek(delta*int64(f.schema.RecordSize()), io.SeekCurrent)
	return err
}

// Record reads record index. The position ends up after the record.
func (f *File) Record(index int64) ([]string, error) {
	if err := f.SeekRecord(index); err != nil {
		return nil, err
	}
	return f.ReadRecord()
}

// SetRecord rewrites record index in place.
func (f *File) SetRecord(index int64, values []string) error {
	if err := f.SeekRecord(index); err != nil {
		return err
	}
	return f.WriteRecord(values)
}

// Records iterates the records from the first to the last. A read error
// ends the iteration with a non-nil error value.
func (f *File) Records() iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		if err := f.SeekRecord(0); err != nil {
			yield(nil, err)
			return
		}
		for {
			rec, err := f.ReadRecord()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// Len returns the number of records. The current position is preserved.
func (f *File) Len() (int64, error) {
	cur, err := f.rw.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	n, err := f.SeekEnd()
	if err != nil {
		return 0, err
	}
	if _, err := f.rw.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return n, nil
}

// SeekEnd positions the file after the last record and returns the record
// count.
func (f *File) SeekEnd() (int64, error) {
	end, err := f.rw.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	rs := int64(f.schema.RecordSize())
	if end%rs != 0 {
		return 0, fmt.Errorf("%w: size %d is not a multiple of the record size %d", ErrFormat, end, rs)
	}
	return end / rs, nil
}

// Append writes values as a new record after the last one.
func (f *File) Append(values []string) error {
	if _, err := f.SeekEnd(); err != nil {
		return err
	}
	return f.WriteRecord(values)
}

// Flush writes buffered changes through to the stream.
func (f *File) Flush() error { return f.rw.Flush() }

// Close flushes and releases the stream. The stream itself is not closed.
func (f *File) Close() error { return f.rw.Close() }
