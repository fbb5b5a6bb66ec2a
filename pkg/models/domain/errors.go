package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures by how they are recovered.
type ErrorKind string

const (
	ErrorKindConfiguration ErrorKind = "configuration"
	ErrorKindCollection    ErrorKind = "collection"
	ErrorKindFetch         ErrorKind = "fetch"
	ErrorKindEvaluation    ErrorKind = "evaluation"
	ErrorKindStore         ErrorKind = "store"
	ErrorKindNotify        ErrorKind = "notify"
	ErrorKindUnexpected    ErrorKind = "unexpected"
)

// Error is a classified pipeline error. Only configuration and unexpected
// errors abort an invocation; the rest are absorbed into the report.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

var (
	ErrConfiguration = &Error{Kind: ErrorKindConfiguration}
	ErrCollection    = &Error{Kind: ErrorKindCollection}
	ErrFetch         = &Error{Kind: ErrorKindFetch}
	ErrEvaluation    = &Error{Kind: ErrorKindEvaluation}
	ErrStore         = &Error{Kind: ErrorKindStore}
	ErrNotify        = &Error{Kind: ErrorKindNotify}
	ErrUnexpected    = &Error{Kind: ErrorKindUnexpected}
)

// IsFatal reports whether err must abort the invocation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var de *Error
	if !errors.As(err, &de) {
		return true
	}
	return de.Kind == ErrorKindConfiguration || de.Kind == ErrorKindUnexpected
}
