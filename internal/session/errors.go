package session

import (
	"errors"
)

// Kind classifies a failure by the stage that produced it.
type Kind int

const (
	KindScript Kind = iota + 1
	KindValidation
	KindTraversal
	KindLoader
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindValidation:
		return "validation"
	case KindTraversal:
		return "traversal"
	case KindLoader:
		return "loader"
	default:
		return "unknown"
	}
}

// Error is a failure tagged with its kind and the action that was running.
type Error struct {
	Kind   Kind
	Action string
	Err    error
}

func (e *Error) Error() string {
	if e.Action != "" {
		return e.Action + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a session error of the given kind.
func IsKind(err error, kind Kind) bool {
	var serr *Error
	return errors.As(err, &serr) && serr.Kind == kind
}

// newError wraps err unless it already carries a kind.
func (s *Session) newError(kind Kind, err error) error {
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Kind: kind, Action: s.Action(), Err: err}
}
