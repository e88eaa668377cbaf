package jsonlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrSinkClosed is returned when writing to a closed sink.
var ErrSinkClosed = errors.New("jsonlog: sink is closed")

// Sink is an append-only line destination shared by concurrent exchanges.
// Implementations must write each line without interleaving it with others.
type Sink interface {
	// WriteLine appends one line. A trailing newline is added if missing.
	WriteLine(line []byte) error

	// Close releases any resources held by the sink.
	Close() error
}

// WriterSink serializes lines onto an io.Writer. Each line reaches the writer
// in a single Write call while holding the sink's mutex.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	closed bool
}

// NewWriterSink wraps w. Closing the sink does not close w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// NewStdoutSink writes lines to standard output.
func NewStdoutSink() *WriterSink {
	return NewWriterSink(os.Stdout)
}

// NewStderrSink writes lines to standard error.
func NewStderrSink() *WriterSink {
	return NewWriterSink(os.Stderr)
}

// NewFileSink appends lines to the file at path, creating it if needed.
func NewFileSink(path string) (*WriterSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("jsonlog: failed to open log file: %w", err)
	}
	return &WriterSink{w: file, closer: file}, nil
}

// OpenSink resolves a configured output target: "stdout", "stderr", or a file
// path. An empty target yields fallback.
func OpenSink(target string, fallback *WriterSink) (*WriterSink, error) {
	switch target {
	case "":
		return fallback, nil
	case "stdout", "-":
		return NewStdoutSink(), nil
	case "stderr":
		return NewStderrSink(), nil
	default:
		return NewFileSink(target)
	}
}

// WriteLine implements Sink.
func (s *WriterSink) WriteLine(line []byte) error {
	if len(line) == 0 || line[len(line)-1] != '\n' {
		terminated := make([]byte, len(line), len(line)+1)
		copy(terminated, line)
		line = append(terminated, '\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}
	n, err := s.w.Write(line)
	if err != nil {
		return fmt.Errorf("jsonlog: write failed: %w", err)
	}
	if n < len(line) {
		return fmt.Errorf("jsonlog: short write: %w", io.ErrShortWrite)
	}
	return nil
}

// Close implements Sink. Files opened by NewFileSink are synced and closed.
func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer == nil {
		return nil
	}
	if f, ok := s.closer.(*os.File); ok {
		_ = f.Sync()
	}
	return s.closer.Close()
}

var _ Sink = (*WriterSink)(nil)
