package errors

import (
	stderr "errors"
	"fmt"
)

// IOError is a document level failure reading or writing a breakpoints file.
// It aborts the whole export or import.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error is an implementation of the error interface.
func (n *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", n.Op, n.Path, n.Err)
}

// Unwrap returns the underlying cause.
func (n *IOError) Unwrap() error {
	return n.Err
}

// IsIO reports whether an IOError is part of the error chain.
func IsIO(e error) bool {
	var io *IOError
	return stderr.As(e, &io)
}
