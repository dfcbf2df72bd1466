// Package console is the line-oriented text sink the firmware reports through.
package console

import (
	"io"
	"sync"
)

// Sink accepts whole lines. Implementations add their own terminator.
type Sink interface {
	EmitLine(s string)
}

// WriterSink writes each line plus a terminator to an io.Writer.
// Write errors are counted, never returned: the sink must not stall the loop.
type WriterSink struct {
	mu   sync.Mutex
	w    io.Writer
	eol  string
	buf  []byte
	errs uint32
}

// NewWriterSink terminates lines with "\n".
func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{w: w, eol: "\n"} }

// NewSerialSink terminates lines with "\r\n" for serial terminals.
func NewSerialSink(w io.Writer) *WriterSink { return &WriterSink{w: w, eol: "\r\n"} }

func (s *WriterSink) EmitLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf[:0], line...)
	s.buf = append(s.buf, s.eol...)
	if _, err := s.w.Write(s.buf); err != nil {
		s.errs++
	}
}

// WriteErrors reports how many lines failed to write.
func (s *WriterSink) WriteErrors() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

// Recorder keeps every emitted line in memory. Used by host tests and the simulator.
type Recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *Recorder) EmitLine(s string) {
	r.mu.Lock()
	r.lines = append(r.lines, s)
	r.mu.Unlock()
}

// Lines returns a copy of what has been emitted so far.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Tee fans each line out to several sinks in order.
type Tee []Sink

func (t Tee) EmitLine(s string) {
	for _, sink := range t {
		sink.EmitLine(s)
	}
}
