package bufseek

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBufferReadWrite(t *testing.T) {
	b := buffer{data: make([]byte, 8)}

	if n := b.write([]byte("abcde")); n != 5 {
		t.Fatalf("write returned %d, want 5", n)
	}
	if !b.dirty {
		t.Fatal("buffer not dirty after write")
	}
	if b.pos != 5 || b.filled != 5 {
		t.Fatalf("pos=%d filled=%d, want 5 5", b.pos, b.filled)
	}

	b.setPos(0)
	p := make([]byte, 3)
	if n := b.read(p); n != 3 || string(p) != "abc" {
		t.Fatalf("read returned %d %q, want 3 %q", n, p, "abc")
	}
	if got := b.readable(); got != 2 {
		t.Fatalf("readable = %d, want 2", got)
	}
}

func TestBufferWriteStopsAtCapacity(t *testing.T) {
	b := buffer{data: make([]byte, 4)}
	if n := b.write([]byte("abcdef")); n != 4 {
		t.Fatalf("write returned %d, want 4", n)
	}
	if b.writable() != 0 {
		t.Fatalf("writable = %d, want 0", b.writable())
	}
	if n := b.write([]byte("x")); n != 0 {
		t.Fatalf("write into full buffer returned %d, want 0", n)
	}
}

func TestBufferZeroWriteStaysClean(t *testing.T) {
	b := buffer{data: make([]byte, 4)}
	if n := b.write(nil); n != 0 {
		t.Fatalf("write returned %d, want 0", n)
	}
	if b.dirty {
		t.Fatal("zero-length write marked the buffer dirty")
	}
}

func TestBufferWriteOverlapKeepsFilled(t *testing.T) {
	b := buffer{data: make([]byte, 8)}
	b.write([]byte("abcdef"))
	b.setPos(2)
	b.write([]byte("XY"))
	if b.filled != 6 {
		t.Fatalf("filled = %d, want 6", b.filled)
	}
	if got := string(b.data[:b.filled]); got != "abXYef" {
		t.Fatalf("content = %q, want %q", got, "abXYef")
	}
}

func TestBufferSetPosClamps(t *testing.T) {
	b := buffer{data: make([]byte, 8), filled: 5}
	b.setPos(99)
	if b.pos != 5 {
		t.Fatalf("pos = %d, want 5", b.pos)
	}
	b.setPos(-1)
	if b.pos != 0 {
		t.Fatalf("pos = %d, want 0", b.pos)
	}
}

func TestBufferFillFrom(t *testing.T) {
	b := buffer{data: make([]byte, 4)}
	n, err := b.fillFrom(bytes.NewReader([]byte("abcdef")))
	if err != nil || n != 4 {
		t.Fatalf("fillFrom = %d %v, want 4 nil", n, err)
	}
	if b.pos != 0 || b.filled != 4 || b.dirty {
		t.Fatalf("pos=%d filled=%d dirty=%v after fill", b.pos, b.filled, b.dirty)
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestBufferFillFromErrorLeavesBufferEmpty(t *testing.T) {
	b := buffer{data: make([]byte, 4)}
	boom := errors.New("boom")
	if _, err := b.fillFrom(errReader{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if b.filled != 0 {
		t.Fatalf("filled = %d after failed fill, want 0", b.filled)
	}
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

func TestBufferDumpTo(t *testing.T) {
	b := buffer{data: []byte("abcdefgh"), filled: 5, pos: 2}
	var out bytes.Buffer
	if err := b.dumpTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "abcde" {
		t.Fatalf("dumped %q, want %q", out.String(), "abcde")
	}
	// dumpTo leaves the state alone.
	if b.pos != 2 || b.filled != 5 {
		t.Fatalf("pos=%d filled=%d changed by dump", b.pos, b.filled)
	}

	if err := b.dumpTo(shortWriter{}); !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("err = %v, want io.ErrShortWrite", err)
	}
}

func TestClassifyRead(t *testing.T) {
	tests := []struct {
		name string
		buf  buffer
		n    int
		want readCmd
	}{
		{"serve capped at readable", buffer{data: make([]byte, 8), filled: 6, pos: 2}, 10, readCmd{op: readServe, n: 4}},
		{"serve capped at request", buffer{data: make([]byte, 8), filled: 6, pos: 2}, 3, readCmd{op: readServe, n: 3}},
		{"serve wins over direct", buffer{data: make([]byte, 8), filled: 8, pos: 7}, 20, readCmd{op: readServe, n: 1}},
		{"fill when empty", buffer{data: make([]byte, 8)}, 5, readCmd{op: readFill}},
		{"direct at capacity", buffer{data: make([]byte, 8)}, 8, readCmd{op: readDirect}},
		{"direct above capacity", buffer{data: make([]byte, 8)}, 9, readCmd{op: readDirect}},
		{"zero capacity is always direct", buffer{}, 1, readCmd{op: readDirect}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.buf.classifyRead(tt.n); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyReadFull(t *testing.T) {
	tests := []struct {
		name string
		buf  buffer
		n    int
		want readFullCmd
	}{
		{"serve", buffer{data: make([]byte, 8), filled: 6, pos: 1}, 3, readFullCmd{op: readFullServe}},
		{"serve exact", buffer{data: make([]byte, 8), filled: 6, pos: 1}, 5, readFullCmd{op: readFullServe}},
		{"serve then fill", buffer{data: make([]byte, 8), filled: 6, pos: 3}, 5, readFullCmd{op: readFullServeFill, split: 3}},
		{"fill when empty", buffer{data: make([]byte, 8)}, 5, readFullCmd{op: readFullFill}},
		{"direct when empty", buffer{data: make([]byte, 8)}, 8, readFullCmd{op: readFullDirect}},
		{"direct wins over serve", buffer{data: make([]byte, 8), filled: 6, pos: 3}, 9, readFullCmd{op: readFullServeDirect, split: 3}},
		{"zero request is a serve", buffer{data: make([]byte, 8)}, 0, readFullCmd{op: readFullServe}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.buf.classifyReadFull(tt.n); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClassifyWrite(t *testing.T) {
	tests := []struct {
		name string
		buf  buffer
		n    int
		want writeCmd
	}{
		{"buffered when it fits", buffer{data: make([]byte, 8), filled: 3, pos: 3}, 5, writeCmd{op: writeBuffered}},
		{"buffered zero length", buffer{data: make([]byte, 8)}, 0, writeCmd{op: writeBuffered}},
		{"spill", buffer{data: make([]byte, 8), filled: 5, pos: 5}, 6, writeCmd{op: writeSpill, fit: 3}},
		{"direct at capacity", buffer{data: make([]byte, 8)}, 8, writeCmd{op: writeDirect}},
		{"direct above capacity", buffer{data: make([]byte, 8), filled: 3, pos: 3}, 12, writeCmd{op: writeDirect}},
		{"zero capacity is always direct", buffer{}, 0, writeCmd{op: writeDirect}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.buf.classifyWrite(tt.n); got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
