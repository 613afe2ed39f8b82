// Package stream implements the generator output stream: a scoped file
// handle that is created (or truncated) on Open, appended to with Print and
// flushed on Close.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stream writes generated text to one destination.
type Stream struct {
	path   string
	closer io.Closer
	w      *bufio.Writer
	err    error
	closed bool
}

// Open creates path, and any missing parent directories, truncating an
// existing file.
func Open(path string) (*Stream, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for writing: %w", path, err)
	}

	return &Stream{path: path, closer: f, w: bufio.NewWriter(f)}, nil
}

// New wraps an arbitrary writer, for tests and for writing to stdout.
// Close flushes but closes w only if it is an io.Closer.
func New(name string, w io.Writer) *Stream {
	s := &Stream{path: name, w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Path returns the destination path given to Open.
func (s *Stream) Path() string {
	return s.path
}

// Print appends formatted text. The first write error is kept and reported
// by Close; later prints are dropped.
func (s *Stream) Print(format string, args ...any) {
	if s.err != nil || s.closed {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

// WriteString appends text verbatim, with the same error handling as Print.
func (s *Stream) WriteString(text string) {
	if s.err != nil || s.closed {
		return
	}
	_, s.err = s.w.WriteString(text)
}

// Write implements io.Writer so a stream can be handed to encoders.
func (s *Stream) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.closed {
		return 0, fmt.Errorf("write to closed stream %s", s.path)
	}
	n, err := s.w.Write(p)
	s.err = err
	return n, err
}

// Close flushes buffered output and releases the file. Calling Close more
// than once is a no-op.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.err
	if ferr := s.w.Flush(); err == nil {
		err = ferr
	}
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}
