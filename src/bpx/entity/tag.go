package entity

import (
	"fmt"

	"go.lsp.dev/uri"
)

// Tag is a user defined key/value annotation attached to a breakpoint location.
type Tag struct {
	Key   string
	Value string
}

// String implements fmt.Stringer.
func (t Tag) String() string {
	return t.Key + ":" + t.Value
}

// PrettyText renders the tag the way it is shown next to the breakpoint line.
func (t Tag) PrettyText() string {
	acc := ""
	if t.Key != "" {
		acc += "Tag: " + t.Key
	}
	if t.Value != "" {
		acc += " : " + t.Value
	}
	return acc
}

// MetadataKey identifies metadata by location.
type MetadataKey struct {
	URL  uri.URI
	Line int
}

// TagMetadata holds the tags of a breakpoint location.
// Identity is the (URL, Line) pair, tags do not take part in equality.
type TagMetadata struct {
	URL         uri.URI
	RelativeURL string
	// Line is zero-based.
	Line int
	Tags []Tag
}

// Key returns the identity of the metadata.
func (m *TagMetadata) Key() MetadataKey {
	return MetadataKey{URL: m.URL, Line: m.Line}
}

// Equal reports whether both values describe the same location.
func (m *TagMetadata) Equal(other *TagMetadata) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.Key() == other.Key()
}

// HasTag reports whether the tag is attached.
func (m *TagMetadata) HasTag(tag Tag) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (m *TagMetadata) Clone() *TagMetadata {
	if m == nil {
		return nil
	}
	c := *m
	c.Tags = append([]Tag(nil), m.Tags...)
	return &c
}

// String implements fmt.Stringer.
func (m *TagMetadata) String() string {
	return fmt.Sprintf("BreakpointRef(url='%s', line=%d, tags=%v)", m.URL, m.Line, m.Tags)
}

// Tag row fields reported by validation.
const (
	FieldKey   = "key"
	FieldValue = "value"
)

// FieldError describes one invalid field of an edited tag row.
type FieldError struct {
	Row     int
	Field   string
	Message string
}

// String implements fmt.Stringer.
func (f FieldError) String() string {
	return fmt.Sprintf("row %d %s: %s", f.Row, f.Field, f.Message)
}

// ValidateTags checks edited tag rows.
// Keys must be unique and a value needs a key. A row with neither is treated as unset.
func ValidateTags(rows []Tag) []FieldError {
	var result []FieldError
	defined := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		if row.Value != "" && row.Key == "" {
			result = append(result, FieldError{Row: i, Field: FieldKey, Message: "Expected key name"})
		} else if _, ok := defined[row.Key]; row.Key != "" && ok {
			result = append(result, FieldError{Row: i, Field: FieldKey, Message: "Keys must be unique"})
		}
		defined[row.Key] = struct{}{}
	}
	return result
}
