package bufseek

import (
	"errors"
	"fmt"
	"io"
)

const defaultBufSize = 8192

var (
	// ErrClosed is returned by operations on a ReadWriter whose stream has
	// been released by Close, Detach or DetachBuffer.
	ErrClosed = errors.New("bufseek: closed")

	// ErrSeek is returned when a seek would land before the start of the
	// stream.
	ErrSeek = errors.New("bufseek: seek to negative position")
)

// ReadWriter adds buffering to an io.ReadWriteSeeker. A single buffer backs
// reads and writes alike, so interleaving the two, or seeking between them,
// needs no explicit flushing by the caller.
//
// The buffer mirrors a window of the stream. Reads are served from the
// window when possible, writes land in the window and are written back
// lazily, and seeks that stay inside the window move only an in-memory
// cursor. Requests of at least the buffer's capacity bypass the window and
// go to the stream directly.
//
// After an I/O error from the underlying stream the ReadWriter's notion of
// the stream position may be stale; callers that want to continue should
// reestablish it with an absolute Seek.
//
// A ReadWriter is not safe for concurrent use.
type ReadWriter struct {
	src io.ReadWriteSeeker

	// pos is where the stream's own cursor is. The window mirrors the
	// stream range [pos-ahead, pos-ahead+buf.filled).
	pos int64

	// ahead is how far the stream cursor sits past the window start: the
	// size of the last fill, or of the last write-back. Zero whenever the
	// window is empty.
	ahead int

	buf buffer
}

var (
	_ io.ReadWriteSeeker = (*ReadWriter)(nil)
	_ io.Closer          = (*ReadWriter)(nil)
)

// New returns a ReadWriter over rws with the default buffer size.
func New(rws io.ReadWriteSeeker) *ReadWriter {
	return NewSize(rws, defaultBufSize)
}

// NewSize returns a ReadWriter over rws whose buffer has the given size.
// A size of zero is allowed and makes every operation go to the stream
// directly. NewSize panics if size is negative.
func NewSize(rws io.ReadWriteSeeker, size int) *ReadWriter {
	if size < 0 {
		panic("bufseek: negative buffer size")
	}
	return NewBuffer(rws, make([]byte, size))
}

// NewBuffer is like NewSize but uses buf as the buffer, allowing callers to
// reuse a buffer handed back by DetachBuffer. The stream's current offset
// becomes the ReadWriter's position; streams that cannot report one are
// taken to be at offset zero.
func NewBuffer(rws io.ReadWriteSeeker, buf []byte) *ReadWriter {
	pos, err := rws.Seek(0, io.SeekCurrent)
	if err != nil {
		pos = 0
	}
	return &ReadWriter{src: rws, pos: pos, buf: buffer{data: buf}}
}

// Capacity returns the size of the buffer.
func (rw *ReadWriter) Capacity() int { return rw.buf.capacity() }

// Position returns the current logical position in the stream, the offset
// the next Read or Write applies to. It performs no I/O.
func (rw *ReadWriter) Position() int64 {
	return rw.pos - int64(rw.ahead) + int64(rw.buf.pos)
}

// Inner returns the underlying stream, or nil after Close, Detach or
// DetachBuffer. Touching the stream while the ReadWriter is in use
// invalidates the buffered state.
func (rw *ReadWriter) Inner() io.ReadWriteSeeker { return rw.src }

// windowStart is the stream offset the buffer's first byte mirrors.
func (rw *ReadWriter) windowStart() int64 {
	return rw.pos - int64(rw.ahead)
}

// flushBuffer writes the window back to the stream at the window start.
// The window is kept, not cleared: afterwards the stream cursor sits just
// past it and ahead equals filled, so buffered bytes stay readable and
// in-window seeks stay cheap.
//
// On error the write-back position may already have been taken; the caller
// sees the error and the buffered bytes are still in memory.
func (rw *ReadWriter) flushBuffer() error {
	if rw.ahead != 0 {
		p, err := rw.src.Seek(-int64(rw.ahead), io.SeekCurrent)
		if err != nil {
			return err
		}
		rw.pos = p
		rw.ahead = 0
	}
	if err := rw.buf.dumpTo(rw.src); err != nil {
		return err
	}
	rw.pos += int64(rw.buf.filled)
	rw.ahead = rw.buf.filled
	return nil
}

// prepareBypass readies the stream for direct I/O at the logical position:
// dirty bytes are written back, the stream cursor is moved onto the logical
// position, and the window is discarded.
func (rw *ReadWriter) prepareBypass() error {
	if rw.buf.dirty {
		if err := rw.flushBuffer(); err != nil {
			return err
		}
	}
	if gap := int64(rw.buf.pos) - int64(rw.ahead); gap != 0 {
		p, err := rw.src.Seek(gap, io.SeekCurrent)
		if err != nil {
			return err
		}
		rw.pos = p
	}
	rw.buf.clear()
	rw.ahead = 0
	return nil
}

// fill loads the next window from the stream. The caller must have emptied
// the window with prepareBypass first.
func (rw *ReadWriter) fill() (int, error) {
	n, err := rw.buf.fillFrom(rw.src)
	if n > 0 {
		rw.pos += int64(n)
		rw.ahead = n
	}
	return n, err
}

// Read reads into p, serving buffered bytes first. When the buffer has
// unread bytes it returns those without touching the stream, so a single
// call may return fewer bytes than requested; use ReadFull to read an exact
// amount. Requests of at least Capacity bytes skip the buffer.
func (rw *ReadWriter) Read(p []byte) (int, error) {
	if rw.src == nil {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	cmd := rw.buf.classifyRead(len(p))
	switch cmd.op {
	case readServe:
		return rw.buf.read(p[:cmd.n]), nil
	case readFill:
		if err := rw.prepareBypass(); err != nil {
			return 0, err
		}
		n, err := rw.fill()
		if n == 0 {
			if err == nil {
				err = io.ErrNoProgress
			}
			return 0, err
		}
		// A fill that returned data may also carry an error; serve the
		// data now, the error resurfaces on the next call.
		return rw.buf.read(p), nil
	default: // readDirect
		if err := rw.prepareBypass(); err != nil {
			return 0, err
		}
		n, err := rw.src.Read(p)
		rw.pos += int64(n)
		return n, err
	}
}

// ReadFull reads exactly len(p) bytes into p. It returns io.EOF if no bytes
// were read and io.ErrUnexpectedEOF if the stream ended after some were.
func (rw *ReadWriter) ReadFull(p []byte) error {
	if rw.src == nil {
		return ErrClosed
	}
	cmd := rw.buf.classifyReadFull(len(p))
	if cmd.op == readFullServe {
		rw.buf.read(p)
		return nil
	}
	done := rw.buf.read(p[:cmd.split])
	if err := rw.prepareBypass(); err != nil {
		return err
	}
	var n int
	var err error
	switch cmd.op {
	case readFullDirect, readFullServeDirect:
		n, err = io.ReadFull(rw.src, p[done:])
		rw.pos += int64(n)
	default: // readFullFill, readFullServeFill
		n, err = rw.fillN(p[done:])
	}
	if err == io.EOF && done+n > 0 {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// fillN refills the window as often as needed to copy len(p) bytes out of
// it. The window must be empty on entry.
func (rw *ReadWriter) fillN(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := rw.fill()
		total += rw.buf.read(p[total:])
		if total == len(p) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}

// Write writes p at the current position. Writes that fit stay in the
// buffer until a flush, a seek away from the window, or a conflicting read
// forces them out. Writes of at least Capacity bytes go to the stream
// directly in multiples of the capacity, with any remainder buffered.
func (rw *ReadWriter) Write(p []byte) (int, error) {
	if rw.src == nil {
		return 0, ErrClosed
	}
	cmd := rw.buf.classifyWrite(len(p))
	switch cmd.op {
	case writeBuffered:
		return rw.buf.write(p), nil
	case writeSpill:
		n := rw.buf.write(p[:cmd.fit])
		if err := rw.prepareBypass(); err != nil {
			return n, err
		}
		return n + rw.buf.write(p[cmd.fit:]), nil
	default: // writeDirect
		if err := rw.prepareBypass(); err != nil {
			return 0, err
		}
		direct := len(p)
		if c := rw.buf.capacity(); c > 0 {
			direct -= len(p) % c
		}
		n, err := rw.src.Write(p[:direct])
		rw.pos += int64(n)
		if err != nil {
			return n, err
		}
		if n < direct {
			return n, io.ErrShortWrite
		}
		return n + rw.buf.write(p[direct:]), nil
	}
}

// Seek sets the position for the next Read or Write. Seeks that land inside
// the buffered window move only the in-memory cursor; everything else
// writes back dirty bytes and delegates to the stream. Seeking before the
// start of the stream returns ErrSeek with the position unchanged.
func (rw *ReadWriter) Seek(offset int64, whence int) (int64, error) {
	if rw.src == nil {
		return 0, ErrClosed
	}
	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return 0, ErrSeek
		}
		start := rw.windowStart()
		if offset >= start && offset < start+int64(rw.buf.filled) {
			rw.buf.setPos(int(offset - start))
			return offset, nil
		}
		return rw.seekStream(offset, io.SeekStart)
	case io.SeekCurrent:
		switch {
		case offset == 0:
			return rw.Position(), nil
		case offset < 0:
			if offset >= -int64(rw.buf.pos) {
				rw.buf.setPos(rw.buf.pos + int(offset))
				return rw.Position(), nil
			}
			if offset < -rw.Position() {
				return 0, ErrSeek
			}
			return rw.seekStream(offset, io.SeekCurrent)
		default:
			if offset < int64(rw.buf.readable()) {
				rw.buf.setPos(rw.buf.pos + int(offset))
				return rw.Position(), nil
			}
			return rw.seekStream(offset, io.SeekCurrent)
		}
	case io.SeekEnd:
		return rw.seekStream(offset, io.SeekEnd)
	default:
		return 0, fmt.Errorf("bufseek: invalid whence %d", whence)
	}
}

// seekStream writes back dirty bytes, discards the window and delegates the
// seek to the stream. Relative offsets are corrected by the gap between the
// logical position and the stream cursor.
func (rw *ReadWriter) seekStream(offset int64, whence int) (int64, error) {
	if rw.buf.dirty {
		if err := rw.flushBuffer(); err != nil {
			return 0, err
		}
	}
	if whence == io.SeekCurrent {
		offset += int64(rw.buf.pos) - int64(rw.ahead)
	}
	p, err := rw.src.Seek(offset, whence)
	if err != nil {
		return 0, err
	}
	rw.pos = p
	rw.buf.clear()
	rw.ahead = 0
	return p, nil
}

// Flush writes any dirty buffered bytes to the stream and forwards the
// flush to the underlying stream if it has a Flush() error method. The
// logical position does not move.
func (rw *ReadWriter) Flush() error {
	if rw.src == nil {
		return ErrClosed
	}
	if err := rw.prepareBypass(); err != nil {
		return err
	}
	if f, ok := rw.src.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes any dirty buffered bytes and releases the stream. It does
// not close the stream itself; that stays with whoever opened it. After
// Close every operation returns ErrClosed, and Close itself becomes a
// no-op.
func (rw *ReadWriter) Close() error {
	if rw.src == nil {
		return nil
	}
	err := rw.Flush()
	rw.src = nil
	return err
}

// Detach flushes any dirty buffered bytes and hands the stream back. The
// stream cursor is left at the logical position. On error the ReadWriter
// stays attached so the call can be retried.
func (rw *ReadWriter) Detach() (io.ReadWriteSeeker, error) {
	if rw.src == nil {
		return nil, ErrClosed
	}
	if err := rw.prepareBypass(); err != nil {
		return nil, err
	}
	src := rw.src
	rw.src = nil
	return src, nil
}

// DetachBuffer is like Detach but also hands back the buffer for reuse with
// NewBuffer.
func (rw *ReadWriter) DetachBuffer() (io.ReadWriteSeeker, []byte, error) {
	src, err := rw.Detach()
	if err != nil {
		return nil, nil, err
	}
	buf := rw.buf.data
	rw.buf.data = nil
	return src, buf, nil
}
