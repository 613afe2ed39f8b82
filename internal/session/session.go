// Package session ties one run together: the script engine, the solutions
// loaded from it, the requested action and the single active output stream.
// It also owns the enumeration engine that drives generators over the model.
package session

import (
	"github.com/simonhull/firebird-suite/nest/internal/logger"
	"github.com/simonhull/firebird-suite/nest/internal/project"
	"github.com/simonhull/firebird-suite/nest/internal/script"
	"github.com/simonhull/firebird-suite/nest/internal/stream"
)

// Stream is the output sink handed to generator callbacks.
type Stream interface {
	Print(format string, args ...any)
	WriteString(text string)
	Close() error
}

// Session is the context of a single run. It is not reusable.
type Session struct {
	engine    *script.Engine
	solutions []*project.Solution
	active    Stream
	log       logger.Logger
	closed    bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used by the session and passed to the engine.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// New starts a session with a fresh script engine.
func New(opts ...Option) *Session {
	s := &Session{log: logger.NewSilentLogger()}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = script.New(project.FieldTable, s.log)
	return s
}

// Close releases the active stream and the script engine.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.releaseStream()
	s.engine.Close()
	return err
}

// Logger returns the session logger.
func (s *Session) Logger() logger.Logger {
	return s.log
}

// AddSolution appends sln to the session.
func (s *Session) AddSolution(sln *project.Solution) {
	s.solutions = append(s.solutions, sln)
}

// Solutions returns the solutions in load order.
func (s *Session) Solutions() []*project.Solution {
	return s.solutions
}

// NumSolutions returns the number of solutions.
func (s *Session) NumSolutions() int {
	return len(s.solutions)
}

// SetAction sets the action for this run; scripts see it as _ACTION.
func (s *Session) SetAction(action string) {
	s.engine.SetAction(action)
}

// Action returns the action for this run, or "".
func (s *Session) Action() string {
	return s.engine.Action()
}

// ActiveStream returns the active output stream, or nil.
func (s *Session) ActiveStream() Stream {
	return s.active
}

// SetActiveStream makes strm the active stream, closing the previous one
// first. The returned error is the previous stream's close error; strm
// becomes active either way.
func (s *Session) SetActiveStream(strm Stream) error {
	err := s.releaseStream()
	s.active = strm
	return err
}

// OpenStream creates the file at path and makes it the active stream.
func (s *Session) OpenStream(path string) (Stream, error) {
	strm, err := stream.Open(path)
	if err != nil {
		return nil, err
	}
	s.log.Debug("writing", logger.F("path", path))
	if err := s.SetActiveStream(strm); err != nil {
		return nil, err
	}
	return strm, nil
}

func (s *Session) releaseStream() error {
	if s.active == nil {
		return nil
	}
	strm := s.active
	s.active = nil
	return strm.Close()
}

// RunFile executes a script file.
func (s *Session) RunFile(path string) (script.Result, error) {
	res, err := s.engine.RunFile(path)
	if err != nil {
		return res, s.newError(KindScript, err)
	}
	return res, nil
}

// RunString executes inline script code.
func (s *Session) RunString(code string) (script.Result, error) {
	res, err := s.engine.RunString(code)
	if err != nil {
		return res, s.newError(KindScript, err)
	}
	return res, nil
}
