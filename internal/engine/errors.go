package engine

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure. Values are stable string codes that
// travel unchanged through HTTP and CLI error payloads.
type Kind string

const (
	KindInvalidOperation Kind = "INVALID_OPERATION"
	KindInvalidArgument  Kind = "INVALID_ARGUMENT"
	KindDivisionByZero   Kind = "DIVISION_BY_ZERO"
	KindEmptyDataset     Kind = "EMPTY_DATASET"

	// KindInvalidRequest is a caller error raised while decoding a
	// structured call, before any formula runs.
	KindInvalidRequest Kind = "INVALID_REQUEST"
)

var (
	ErrInvalidOperation = errors.New("engine: invalid operation")
	ErrInvalidArgument  = errors.New("engine: invalid argument")
	ErrDivisionByZero   = errors.New("engine: division by zero")
	ErrEmptyDataset     = errors.New("engine: empty dataset")
	ErrInvalidRequest   = errors.New("engine: invalid request")
)

// Error is returned by every entry point on failure. It unwraps to the
// sentinel matching its Kind, so callers can use errors.Is.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindInvalidOperation:
		return ErrInvalidOperation
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindDivisionByZero:
		return ErrDivisionByZero
	case KindEmptyDataset:
		return ErrEmptyDataset
	case KindInvalidRequest:
		return ErrInvalidRequest
	}
	return nil
}

// KindOf reports the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func newError(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}
