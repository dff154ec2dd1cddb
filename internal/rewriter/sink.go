package rewriter

import (
	"bufio"
	"io"

	"github.com/tacview-tools/acmi-compress/tacview"
)

// Sink is the byte-counting ACMI text writer the pipeline's consumer
// drains Records into. It wraps w in a buffered writer so the consumer
// goroutine isn't making a syscall per line.
type Sink struct {
	buf *bufio.Writer
	w   *tacview.Writer
}

// NewSink constructs a Sink writing ACMI text to w.
func NewSink(w io.Writer) *Sink {
	buf := bufio.NewWriterSize(w, 64*1024)
	return &Sink{buf: buf, w: tacview.NewWriter(buf)}
}

// Write serialises one Record.
func (s *Sink) Write(rec tacview.Record) error {
	return s.w.Write(rec)
}

// BytesWritten returns the total number of ACMI text bytes emitted so
// far.
func (s *Sink) BytesWritten() int64 {
	return s.w.BytesWritten()
}

// Flush flushes the underlying buffered writer. Callers must call this
// once after the last Write to guarantee the final bytes reach w.
func (s *Sink) Flush() error {
	return s.buf.Flush()
}
