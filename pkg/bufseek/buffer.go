package bufseek

import "io"

// buffer is the byte window shared by the read and write paths. data[:filled]
// holds valid bytes, pos is the cursor inside them, and dirty reports whether
// any of the valid bytes still need to reach the stream.
//
// Invariant: 0 <= pos <= filled <= len(data).
type buffer struct {
	data   []byte
	pos    int
	filled int
	dirty  bool
}

func (b *buffer) capacity() int { return len(b.data) }

// readable is the number of valid bytes after the cursor.
func (b *buffer) readable() int { return b.filled - b.pos }

// writable is the room between the cursor and the end of the buffer.
func (b *buffer) writable() int { return len(b.data) - b.pos }

// read copies up to len(p) valid bytes into p and advances the cursor.
func (b *buffer) read(p []byte) int {
	n := min(b.readable(), len(p))
	copy(p, b.data[b.pos:b.pos+n])
	b.pos += n
	return n
}

// write copies up to len(p) bytes at the cursor, extending the valid region
// when it writes past it. A write of zero bytes leaves the buffer clean.
func (b *buffer) write(p []byte) int {
	n := min(b.writable(), len(p))
	if n == 0 {
		return 0
	}
	copy(b.data[b.pos:], p[:n])
	b.pos += n
	if b.pos > b.filled {
		b.filled = b.pos
	}
	b.dirty = true
	return n
}

// setPos moves the cursor, clamped to the valid region.
func (b *buffer) setPos(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > b.filled {
		pos = b.filled
	}
	b.pos = pos
}

// clear discards the valid region. The backing bytes are left as is.
func (b *buffer) clear() {
	b.pos = 0
	b.filled = 0
	b.dirty = false
}

// fillFrom resets the buffer and fills it with a single read from r. The
// buffer is only touched when the read returns data, so a failed fill leaves
// it empty rather than half valid.
func (b *buffer) fillFrom(r io.Reader) (int, error) {
	n, err := r.Read(b.data)
	if n > 0 {
		b.pos = 0
		b.filled = n
		b.dirty = false
	}
	return n, err
}

// dumpTo writes the valid region to w. Cursor, valid region and dirty flag
// are left untouched; the caller decides what the buffer means afterwards.
func (b *buffer) dumpTo(w io.Writer) error {
	n, err := w.Write(b.data[:b.filled])
	if err != nil {
		return err
	}
	if n < b.filled {
		return io.ErrShortWrite
	}
	return nil
}

// Every public operation is split in two: a pure classification step that
// inspects only the buffer state and the request length, and an execution
// step that performs the stream traffic the classification asks for. The
// command types below are what classification produces.

type readOp int

const (
	readServe  readOp = iota // copy unread bytes out of the buffer
	readFill                 // refill the buffer, then copy from it
	readDirect               // read straight into the caller's slice
)

// readCmd plans a Read. n is the number of bytes a readServe will copy.
type readCmd struct {
	op readOp
	n  int
}

func (b *buffer) classifyRead(n int) readCmd {
	switch {
	case b.readable() > 0:
		return readCmd{op: readServe, n: min(n, b.readable())}
	case n >= b.capacity():
		return readCmd{op: readDirect}
	default:
		return readCmd{op: readFill}
	}
}

type readFullOp int

const (
	readFullServe       readFullOp = iota // the buffer already holds everything
	readFullFill                          // refill as often as needed
	readFullServeFill                     // serve the unread tail, then refill
	readFullDirect                        // read straight into the caller's slice
	readFullServeDirect                   // serve the unread tail, then read direct
)

// readFullCmd plans a ReadFull. split is how many bytes the buffer serves
// before the stream is involved.
type readFullCmd struct {
	op    readFullOp
	split int
}

func (b *buffer) classifyReadFull(n int) readFullCmd {
	r := b.readable()
	switch {
	case n >= b.capacity():
		if r > 0 {
			return readFullCmd{op: readFullServeDirect, split: r}
		}
		return readFullCmd{op: readFullDirect}
	case r >= n:
		return readFullCmd{op: readFullServe}
	case r > 0:
		return readFullCmd{op: readFullServeFill, split: r}
	default:
		return readFullCmd{op: readFullFill}
	}
}

type writeOp int

const (
	writeBuffered writeOp = iota // the bytes fit at the cursor
	writeSpill                   // fill the buffer to the brim, flush, buffer the rest
	writeDirect                  // hand the bytes to the stream
)

// writeCmd plans a Write. fit is how many bytes a writeSpill can still place
// before the buffer runs out of room.
type writeCmd struct {
	op  writeOp
	fit int
}

func (b *buffer) classifyWrite(n int) writeCmd {
	switch {
	case n >= b.capacity():
		return writeCmd{op: writeDirect}
	case n <= b.writable():
		return writeCmd{op: writeBuffered}
	default:
		return writeCmd{op: writeSpill, fit: b.writable()}
	}
}
