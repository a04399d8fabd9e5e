// Package bufseek buffers reads, writes and seeks over a single
// io.ReadWriteSeeker.
//
// The standard library splits buffering by direction: bufio.Reader for
// reading, bufio.Writer for writing, neither of them seekable. Code that
// edits a stream in place
//
//   - reads a little,
//   - seeks somewhere else,
//   - writes a little,
//
// gets no help from either, because every switch between the two would need
// careful manual flushing and repositioning. ReadWriter does that
// bookkeeping itself. One buffer mirrors a window of the stream; reads,
// writes and seeks that stay inside the window cost no I/O, and everything
// else transparently writes back what must be written and repositions the
// stream.
//
// Usage mirrors bufio:
//
//	f, _ := os.OpenFile("data.bin", os.O_RDWR, 0)
//	rw := bufseek.New(f)
//	defer rw.Close()
//
//	rw.Seek(128, io.SeekStart)
//	rw.Write(patch)
//	rw.Seek(-16, io.SeekCurrent)
//	rw.ReadFull(check)
//
// Close flushes buffered writes but leaves closing the file to the caller.
package bufseek
