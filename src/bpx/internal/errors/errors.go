package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoWorkspaceRootError reports that no workspace root could be resolved.
	NoWorkspaceRootError = New("workspace root is unknown")
	// NoSourcePositionError reports that a breakpoint cannot be anchored to a file and line.
	NoSourcePositionError = New("breakpoint has no source position")
)

// IsRecordLevel reports whether the error only concerns a single breakpoint record.
// Record level errors are logged and the record is dropped, the surrounding
// export or import keeps going.
func IsRecordLevel(e error) bool {
	var (
		uk *UnsupportedKindError
		de *DeserializationError
		mm *MissingMetadataError
		pr *PathResolutionError
	)
	return stderr.As(e, &uk) ||
		stderr.As(e, &de) ||
		stderr.As(e, &mm) ||
		stderr.As(e, &pr) ||
		stderr.Is(e, NoSourcePositionError)
}
