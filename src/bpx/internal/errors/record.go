package errors

import (
	stderr "errors"
	"fmt"
)

// UnsupportedKindError indicates that no registered provider handles a breakpoint kind.
type UnsupportedKindError struct {
	Kind string
}

// Error is an implementation of the error interface.
func (n *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported breakpoint kind %q", n.Kind)
}

// DeserializationError indicates that an opaque sub-document does not have the shape expected for its discriminator.
type DeserializationError struct {
	// Element is the name of the sub-document, e.g. state or properties.
	Element string
	// Discriminator is the kind string that selected the decoder.
	Discriminator string
	Err           error
}

// Error is an implementation of the error interface.
func (n *DeserializationError) Error() string {
	if n.Err == nil {
		return fmt.Sprintf("malformed %s for %q", n.Element, n.Discriminator)
	}
	return fmt.Sprintf("malformed %s for %q: %v", n.Element, n.Discriminator, n.Err)
}

// Unwrap returns the underlying decoding error.
func (n *DeserializationError) Unwrap() error {
	return n.Err
}

// MissingMetadataError indicates a record that carries no location anchor.
type MissingMetadataError struct {
	Kind string
}

// Error is an implementation of the error interface.
func (n *MissingMetadataError) Error() string {
	return fmt.Sprintf("breakpoint of kind %q has no metadata", n.Kind)
}

// PathResolutionError indicates that a workspace relative path could not be mapped back to a file.
type PathResolutionError struct {
	RelativePath string
	Err          error
}

// Error is an implementation of the error interface.
func (n *PathResolutionError) Error() string {
	if n.Err == nil {
		return fmt.Sprintf("cannot resolve %q in the workspace", n.RelativePath)
	}
	return fmt.Sprintf("cannot resolve %q in the workspace: %v", n.RelativePath, n.Err)
}

// Unwrap returns the underlying cause.
func (n *PathResolutionError) Unwrap() error {
	return n.Err
}

// RecordError attaches the position of a record within a batch to the error it produced.
type RecordError struct {
	Index int
	Kind  string
	Err   error
}

// Error is an implementation of the error interface.
func (n *RecordError) Error() string {
	return fmt.Sprintf("record %d (%s): %v", n.Index, n.Kind, n.Err)
}

// Unwrap returns the underlying cause.
func (n *RecordError) Unwrap() error {
	return n.Err
}

// UnsupportedKind returns the kind and true if UnsupportedKindError is part of the error chain.
func UnsupportedKind(e error) (_ string, ok bool) {
	var uk *UnsupportedKindError
	if !stderr.As(e, &uk) {
		return "", false
	}
	return uk.Kind, true
}
