package bufseek_test

import (
	"bufio"
	"io"
	"testing"

	"github.com/haivivi/bufseek/pkg/bufseek"
	"github.com/haivivi/bufseek/pkg/memfile"
)

const benchChunk = 50

func BenchmarkWrite(b *testing.B) {
	chunk := make([]byte, benchChunk)
	rw := bufseek.New(memfile.New(nil))
	b.SetBytes(benchChunk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rw.Write(chunk)
	}
	rw.Flush()
}

func BenchmarkWriteBufio(b *testing.B) {
	chunk := make([]byte, benchChunk)
	w := bufio.NewWriter(memfile.New(nil))
	b.SetBytes(benchChunk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Write(chunk)
	}
	w.Flush()
}

func BenchmarkRead(b *testing.B) {
	chunk := make([]byte, benchChunk)
	rw := bufseek.New(memfile.New(make([]byte, 1<<20)))
	b.SetBytes(benchChunk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := rw.ReadFull(chunk); err != nil {
			rw.Seek(0, io.SeekStart)
		}
	}
}

func BenchmarkReadBufio(b *testing.B) {
	chunk := make([]byte, benchChunk)
	m := memfile.New(make([]byte, 1<<20))
	r := bufio.NewReader(m)
	b.SetBytes(benchChunk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := io.ReadFull(r, chunk); err != nil {
			m.Seek(0, io.SeekStart)
			r.Reset(m)
		}
	}
}

func BenchmarkSeekWithinWindow(b *testing.B) {
	rw := bufseek.New(memfile.New(make([]byte, 1<<16)))
	chunk := make([]byte, benchChunk)
	rw.ReadFull(chunk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rw.Seek(10, io.SeekStart)
		rw.ReadFull(chunk)
	}
}
