// Package model contains the wire and storage representations of breakpoints and their tags.
package model

import "encoding/xml"

// Element names of the exported document.
const (
	ElementExportedBreakpoints = "exported-breakpoints"
	ElementCommitID            = "commitID"
	ElementBranchName          = "branchName"
	ElementBreakpoints         = "breakpoints"
	ElementList                = "list"
	ElementRecord              = "exported-default-breakpoint"
	ElementState               = "state"
	ElementProperties          = "properties"
	ElementMetadata            = "metadata"
)

// Record attributes.
const (
	AttrBreakpointCanonicalName = "breakpoint-canonical-name"
	AttrPropertiesCanonicalName = "properties-canonical-name"
	AttrStateCanonicalName      = "state-canonical-name"
	AttrTypeCanonicalName       = "type-canonical-name"
	AttrTypeID                  = "type-id"
)

// Discriminators of state and properties payloads.
const (
	StateKindLine = "com.intellij.xdebugger.impl.breakpoints.LineBreakpointState"

	PropertiesKindJavaLine   = "org.jetbrains.java.debugger.breakpoints.properties.JavaLineBreakpointProperties"
	PropertiesKindJavaMethod = "org.jetbrains.java.debugger.breakpoints.properties.JavaMethodBreakpointProperties"
	PropertiesKindJavaField  = "org.jetbrains.java.debugger.breakpoints.properties.JavaFieldBreakpointProperties"

	// BreakpointImplLine is the debugger implementation class written for every exported breakpoint.
	BreakpointImplLine = "com.intellij.xdebugger.impl.breakpoints.XLineBreakpointImpl"
)

// ExportedDocument is the root of an exported breakpoints file.
type ExportedDocument struct {
	XMLName     xml.Name              `xml:"exported-breakpoints"`
	CommitID    string                `xml:"commitID"`
	BranchName  string                `xml:"branchName"`
	Breakpoints []*ExportedBreakpoint `xml:"breakpoints>list>exported-default-breakpoint"`
}

// ExportedBreakpoint is one record of an exported document.
type ExportedBreakpoint struct {
	XMLName                 xml.Name `xml:"exported-default-breakpoint"`
	BreakpointCanonicalName string   `xml:"breakpoint-canonical-name,attr"`
	PropertiesCanonicalName string   `xml:"properties-canonical-name,attr"`
	StateCanonicalName      string   `xml:"state-canonical-name,attr"`
	TypeCanonicalName       string   `xml:"type-canonical-name,attr"`
	TypeID                  string   `xml:"type-id,attr"`
	// Properties holds one of the properties payloads, or nil.
	Properties any              `xml:"properties,omitempty"`
	State      *StatePayload    `xml:"state"`
	Metadata   *MetadataPayload `xml:"metadata,omitempty"`
}
