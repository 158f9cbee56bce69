package entity

import "fmt"

// VCSStamp is the version control position of a workspace.
type VCSStamp struct {
	CommitID   string
	BranchName string
}

// Document is the content of an exported breakpoints file.
// The stamp is informational only.
type Document struct {
	Stamp   VCSStamp
	Records []*Record
}

// ExportRequest describes where and how to write exported breakpoints.
type ExportRequest struct {
	// OutputDir defaults to the workspace root.
	OutputDir string
	// BaseName is the file name without the .xml extension.
	BaseName string
	Stamp    VCSStamp
}

// ExportResult summarises a finished export.
type ExportResult struct {
	Path     string
	Exported int
	Skipped  int
}

// ConflictEntry pairs a staged record with a live breakpoint at the same location.
type ConflictEntry struct {
	Record   *Record
	Existing *Breakpoint
	// Override must be set by the caller to replace Existing. It defaults to false.
	Override bool
}

// AdvisoryKind classifies an advisory.
type AdvisoryKind int

const (
	// AdvisoryNotARepository is raised when the document has a commit but the workspace has none.
	AdvisoryNotARepository AdvisoryKind = iota + 1
	// AdvisoryRevisionMismatch is raised when the document was exported at another commit.
	AdvisoryRevisionMismatch
)

// Advisory is a non blocking warning about the import context.
type Advisory struct {
	Kind    AdvisoryKind
	Message string
}

// NewRevisionAdvisory compares the exported commit with the current workspace revision.
// It returns nil when there is nothing to report.
func NewRevisionAdvisory(doc VCSStamp, currentRevision string) *Advisory {
	if doc.CommitID == "" {
		return nil
	}
	if currentRevision == "" {
		return &Advisory{
			Kind:    AdvisoryNotARepository,
			Message: fmt.Sprintf("Breakpoints were exported on branch %q at commit %s, but the workspace is not a git repository.", doc.BranchName, doc.CommitID),
		}
	}
	if currentRevision != doc.CommitID {
		return &Advisory{
			Kind:    AdvisoryRevisionMismatch,
			Message: fmt.Sprintf("Breakpoints were exported on branch %q at commit %s, current revision is %s. Lines may have moved.", doc.BranchName, doc.CommitID, currentRevision),
		}
	}
	return nil
}

// ImportResult is the outcome of reading a breakpoints file.
type ImportResult struct {
	Stamp      VCSStamp
	Records    []*Record
	Conflicts  []*ConflictEntry
	Advisories []Advisory
}

// ConflictFor returns the conflict entry of a record, if any.
func (r *ImportResult) ConflictFor(record *Record) *ConflictEntry {
	for _, c := range r.Conflicts {
		if c.Record == record {
			return c
		}
	}
	return nil
}

// CommitResult summarises applying staged records.
type CommitResult struct {
	Applied int
	Skipped int
	Failed  int
}
