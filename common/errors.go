package common

import (
	"errors"
	"fmt"
)

// Error kinds for client operations. These classify a failure without
// making it fatal: most call sites log the error and continue with a
// safe default. Check with errors.Is().
var (
	// ErrRead indicates a persisted record could not be read.
	ErrRead = errors.New("read error")
	// ErrWrite indicates a persisted record could not be written.
	ErrWrite = errors.New("write error")
	// ErrRemove indicates a persisted record could not be removed.
	ErrRemove = errors.New("remove error")
	// ErrParse indicates malformed structured data or configuration text.
	ErrParse = errors.New("parse error")
	// ErrProcess indicates a secret store operation failed.
	ErrProcess = errors.New("process error")
	// ErrAuth indicates an authentication or connection failure
	// surfaced from a connection attempt.
	ErrAuth = errors.New("auth error")
)

// Wrapf builds an error of the given kind with a formatted message.
// The returned error satisfies errors.Is(err, kind).
func Wrapf(kind error, format string, args ...interface{}) error {
	return &kindError{
		msg:  fmt.Sprintf(format, args...),
		kind: kind,
	}
}

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string {
	return e.msg
}

func (e *kindError) Unwrap() error {
	return e.kind
}
