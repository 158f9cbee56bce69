package errors

import (
	stderr "errors"
	"fmt"
)

// MetadataNotFoundError is a tag store error for a location without metadata.
type MetadataNotFoundError struct {
	URL  string
	Line int
}

// Error is an implementation of the error interface.
func (n *MetadataNotFoundError) Error() string {
	return fmt.Sprintf("no metadata for %q at line %d", n.URL, n.Line)
}

// IsMetadataNotFound reports whether MetadataNotFoundError is part of the error chain.
func IsMetadataNotFound(e error) bool {
	var nf *MetadataNotFoundError
	return stderr.As(e, &nf)
}

// BreakpointNotFoundError indicates that the debugger does not know a breakpoint id.
type BreakpointNotFoundError struct {
	ID string
}

// Error is an implementation of the error interface.
func (n *BreakpointNotFoundError) Error() string {
	return fmt.Sprintf("breakpoint %q not found", n.ID)
}
