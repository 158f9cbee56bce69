package model

// TagRow is a persisted tag.
type TagRow struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// TagMetadataRow is the persisted form of tag metadata.
type TagMetadataRow struct {
	URL         string   `yaml:"url"`
	RelativeURL string   `yaml:"relativeUrl,omitempty"`
	Line        int      `yaml:"line"`
	Tags        []TagRow `yaml:"tags"`
}

// TagState is the content of the workspace tag state file.
type TagState struct {
	Version int              `yaml:"version"`
	Entries []TagMetadataRow `yaml:"entries"`
}

// PersistedBreakpoint is a breakpoint saved by the local debugger registry.
type PersistedBreakpoint struct {
	ID     string     `yaml:"id"`
	Kind   string     `yaml:"kind"`
	TypeID string     `yaml:"typeId"`
	State  StateRow   `yaml:"state"`
	Line   *LineRow   `yaml:"lineProperties,omitempty"`
	Method *MethodRow `yaml:"methodProperties,omitempty"`
	Field  *FieldRow  `yaml:"fieldProperties,omitempty"`
}

// StateRow is the persisted breakpoint state.
type StateRow struct {
	URL           string `yaml:"url"`
	Line          int    `yaml:"line"`
	Enabled       bool   `yaml:"enabled"`
	Condition     string `yaml:"condition,omitempty"`
	LogExpression string `yaml:"logExpression,omitempty"`
	Suspend       string `yaml:"suspend,omitempty"`
	Temporary     bool   `yaml:"temporary,omitempty"`
}

// LineRow holds persisted line properties.
type LineRow struct {
	LambdaOrdinal         *int     `yaml:"lambdaOrdinal,omitempty"`
	EncodedInlinePosition string   `yaml:"encodedInlinePosition,omitempty"`
	ClassFilters          []string `yaml:"classFilters,omitempty"`
}

// MethodRow holds persisted method properties.
type MethodRow struct {
	ClassPattern string `yaml:"classPattern"`
	MethodName   string `yaml:"methodName"`
	Emulated     bool   `yaml:"emulated,omitempty"`
	WatchEntry   bool   `yaml:"watchEntry"`
	WatchExit    bool   `yaml:"watchExit"`
}

// FieldRow holds persisted field properties.
type FieldRow struct {
	ClassName         string `yaml:"className"`
	FieldName         string `yaml:"fieldName"`
	WatchAccess       bool   `yaml:"watchAccess"`
	WatchModification bool   `yaml:"watchModification"`
}

// DebuggerState is the content of the local debugger state file.
type DebuggerState struct {
	Breakpoints []PersistedBreakpoint `yaml:"breakpoints"`
}
