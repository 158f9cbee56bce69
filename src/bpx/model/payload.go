package model

import "encoding/xml"

// StatePayload is the serialized breakpoint state.
type StatePayload struct {
	XMLName       xml.Name `xml:"state"`
	Enabled       bool     `xml:"enabled,attr"`
	Suspend       string   `xml:"suspend,attr,omitempty"`
	Temporary     bool     `xml:"temporary,attr"`
	URL           string   `xml:"url"`
	Line          int      `xml:"line"`
	Condition     string   `xml:"condition,omitempty"`
	LogExpression string   `xml:"log-expression,omitempty"`
}

// NewStatePayload returns a payload carrying the defaults applied to missing fields.
func NewStatePayload() *StatePayload {
	return &StatePayload{
		Enabled: true,
		Suspend: "ALL",
		Line:    -1,
	}
}

// LinePropertiesPayload is the serialized form of JVM line properties.
type LinePropertiesPayload struct {
	XMLName               xml.Name `xml:"properties"`
	LambdaOrdinal         *int     `xml:"lambda-ordinal,omitempty"`
	EncodedInlinePosition string   `xml:"encoded-inline-position,omitempty"`
	ClassFilters          []string `xml:"class-filters>filter,omitempty"`
}

// MethodPropertiesPayload is the serialized form of method breakpoint properties.
type MethodPropertiesPayload struct {
	XMLName      xml.Name `xml:"properties"`
	ClassPattern string   `xml:"class-pattern"`
	MethodName   string   `xml:"method-name"`
	Emulated     bool     `xml:"emulated"`
	WatchEntry   bool     `xml:"watch-entry"`
	WatchExit    bool     `xml:"watch-exit"`
}

// NewMethodPropertiesPayload returns a payload carrying the defaults applied to missing fields.
func NewMethodPropertiesPayload() *MethodPropertiesPayload {
	return &MethodPropertiesPayload{WatchEntry: true}
}

// FieldPropertiesPayload is the serialized form of field watchpoint properties.
type FieldPropertiesPayload struct {
	XMLName           xml.Name `xml:"properties"`
	ClassName         string   `xml:"class-name"`
	FieldName         string   `xml:"field-name"`
	WatchAccess       bool     `xml:"watch-access"`
	WatchModification bool     `xml:"watch-modification"`
}

// NewFieldPropertiesPayload returns a payload carrying the defaults applied to missing fields.
func NewFieldPropertiesPayload() *FieldPropertiesPayload {
	return &FieldPropertiesPayload{WatchModification: true}
}

// MetadataPayload is the serialized tag metadata of a record.
type MetadataPayload struct {
	XMLName     xml.Name     `xml:"metadata"`
	URL         string       `xml:"url"`
	RelativeURL string       `xml:"relativeUrl"`
	Line        int          `xml:"line"`
	Tags        []TagPayload `xml:"tags>tag"`
}

// NewMetadataPayload returns a payload carrying the defaults applied to missing fields.
func NewMetadataPayload() *MetadataPayload {
	return &MetadataPayload{Line: -1}
}

// TagPayload is a serialized tag.
type TagPayload struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}
