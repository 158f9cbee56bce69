package entity

import (
	"fmt"
	"net/url"

	"github.com/gofrs/uuid"
	"go.lsp.dev/uri"
)

// SuspendPolicy controls which threads stop when a breakpoint is hit.
type SuspendPolicy string

// Suspend policies.
const (
	SuspendAll    SuspendPolicy = "ALL"
	SuspendThread SuspendPolicy = "THREAD"
	SuspendNone   SuspendPolicy = "NONE"
)

// BreakpointState is the state shared by every supported kind.
type BreakpointState struct {
	FileURL uri.URI
	// Line is zero-based.
	Line          int
	Enabled       bool
	Condition     string
	LogExpression string
	SuspendPolicy SuspendPolicy
	Temporary     bool
}

// HasSourcePosition reports whether the state can be anchored to a file and line.
func (s BreakpointState) HasSourcePosition() bool {
	return s.FileURL != "" && s.Line >= 0
}

// Properties is the kind specific payload of a breakpoint.
// The set of implementations is closed: *LineProperties, *MethodProperties and *FieldProperties.
type Properties interface {
	isProperties()
}

// LineProperties are carried by JVM line breakpoints.
type LineProperties struct {
	// LambdaOrdinal selects a lambda on the line, nil means the whole line.
	LambdaOrdinal         *int
	EncodedInlinePosition string
	ClassFilters          []string
}

// MethodProperties are carried by method and function breakpoints.
type MethodProperties struct {
	ClassPattern string
	MethodName   string
	Emulated     bool
	WatchEntry   bool
	WatchExit    bool
}

// FieldProperties are carried by field watchpoints.
type FieldProperties struct {
	ClassName         string
	FieldName         string
	WatchAccess       bool
	WatchModification bool
}

func (*LineProperties) isProperties()   {}
func (*MethodProperties) isProperties() {}
func (*FieldProperties) isProperties()  {}

// Breakpoint is a breakpoint as known by the debugger.
type Breakpoint struct {
	ID         uuid.UUID
	Kind       Kind
	TypeID     string
	State      BreakpointState
	Properties Properties
}

// String implements fmt.Stringer.
func (b *Breakpoint) String() string {
	return fmt.Sprintf("%s at %s:%d", b.Kind, b.State.FileURL, b.State.Line)
}

// Record is a breakpoint read from, or written to, an exported document.
type Record struct {
	Breakpoint

	StateKind      string
	PropertiesKind string
	Metadata       *TagMetadata
}

// RelativePath returns the workspace relative path stored in the record's metadata.
func (r *Record) RelativePath() string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata.RelativeURL
}

// String implements fmt.Stringer.
func (r *Record) String() string {
	if r.Metadata == nil {
		return r.Breakpoint.String()
	}
	return fmt.Sprintf("Breakpoint at: %d in %s (relative: %s)", r.Metadata.Line, r.Metadata.URL, r.Metadata.RelativeURL)
}

// FilePath returns the local path of a file URL, and false for anything that is not a local file.
func FilePath(u uri.URI) (string, bool) {
	parsed, err := url.ParseRequestURI(string(u))
	if err != nil || parsed.Scheme != uri.FileScheme || parsed.Path == "" {
		return "", false
	}
	return u.Filename(), true
}
