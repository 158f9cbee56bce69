package importer

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/uber/bpx/src/bpx/controller/registry"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/mapper"
	"github.com/uber/bpx/src/bpx/model"
	"go.uber.org/zap"
)

// Reasons a record is dropped while reading a document.
const (
	DropUnsupportedKind = "unsupported_kind"
	DropMissingMetadata = "missing_metadata"
	DropMalformed       = "malformed"
)

type visitState int

const (
	stateRoot visitState = iota
	stateExportedBreakpoints
	stateReadingCommitID
	stateReadingBranchName
	stateReadingBreakpoints
	stateReadingBreakpointsList
	stateReadingRecord
	stateReadingProperties
	stateReadingState
	stateReadingMetadata
)

// _escaper normalizes a decoded text piece back to markup before a fragment is parsed again.
var _escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\r", "&#xD;",
)

// pendingRecord holds the fragments of the record being read.
type pendingRecord struct {
	index          int
	kind           entity.Kind
	typeID         string
	stateKind      string
	propertiesKind string

	state      []byte
	properties []byte
	metadata   []byte
}

// visitResult is what a visitor read from a document.
type visitResult struct {
	stamp   entity.VCSStamp
	records []*entity.Record
	dropped map[string]int
}

// visitor reads an exported document token by token.
type visitor struct {
	decoder  *xml.Decoder
	registry registry.Registry
	logger   *zap.SugaredLogger

	state      visitState
	commitID   strings.Builder
	branchName strings.Builder

	current       *pendingRecord
	seen          int
	fragment      bytes.Buffer
	fragmentDepth int

	result visitResult
}

func newVisitor(r io.Reader, reg registry.Registry, logger *zap.SugaredLogger) *visitor {
	return &visitor{
		decoder:  xml.NewDecoder(r),
		registry: reg,
		logger:   logger,
		state:    stateRoot,
		result:   visitResult{dropped: make(map[string]int)},
	}
}

// visit reads the whole document. Errors are returned for malformed documents and
// for cancellation, which is checked after each record.
func (v *visitor) visit(ctx context.Context) (*visitResult, error) {
	for {
		tok, err := v.decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		recordDone, err := v.handle(tok)
		if err != nil {
			return nil, err
		}
		if recordDone {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	v.result.stamp = entity.VCSStamp{
		CommitID:   strings.TrimSpace(v.commitID.String()),
		BranchName: strings.TrimSpace(v.branchName.String()),
	}
	return &v.result, nil
}

// handle advances the state machine by one token and reports whether a record was completed or skipped.
func (v *visitor) handle(tok xml.Token) (bool, error) {
	switch v.state {
	case stateReadingProperties, stateReadingState, stateReadingMetadata:
		v.accumulate(tok)
		return false, nil
	}

	switch t := tok.(type) {
	case xml.StartElement:
		return v.start(t)
	case xml.EndElement:
		return v.end(t)
	case xml.CharData:
		switch v.state {
		case stateReadingCommitID:
			v.commitID.Write(t)
		case stateReadingBranchName:
			v.branchName.Write(t)
		}
	}
	return false, nil
}

func (v *visitor) start(t xml.StartElement) (bool, error) {
	name := t.Name.Local
	switch v.state {
	case stateRoot:
		if name == model.ElementExportedBreakpoints {
			v.state = stateExportedBreakpoints
			return false, nil
		}
	case stateExportedBreakpoints:
		switch name {
		case model.ElementCommitID:
			v.state = stateReadingCommitID
			return false, nil
		case model.ElementBranchName:
			v.state = stateReadingBranchName
			return false, nil
		case model.ElementBreakpoints:
			v.state = stateReadingBreakpoints
			return false, nil
		}
	case stateReadingBreakpoints:
		if name == model.ElementList {
			v.state = stateReadingBreakpointsList
			return false, nil
		}
	case stateReadingBreakpointsList:
		if name == model.ElementRecord {
			return v.beginRecord(t)
		}
	case stateReadingRecord:
		switch name {
		case model.ElementProperties:
			v.beginFragment(t, stateReadingProperties)
			return false, nil
		case model.ElementState:
			v.beginFragment(t, stateReadingState)
			return false, nil
		case model.ElementMetadata:
			v.beginFragment(t, stateReadingMetadata)
			return false, nil
		}
	}

	// Anything else is not part of the format.
	return false, v.decoder.Skip()
}

func (v *visitor) end(t xml.EndElement) (bool, error) {
	switch v.state {
	case stateExportedBreakpoints:
		v.state = stateRoot
	case stateReadingCommitID, stateReadingBranchName:
		v.state = stateExportedBreakpoints
	case stateReadingBreakpoints:
		v.state = stateExportedBreakpoints
	case stateReadingBreakpointsList:
		v.state = stateReadingBreakpoints
	case stateReadingRecord:
		v.finishRecord()
		v.state = stateReadingBreakpointsList
		return true, nil
	}
	return false, nil
}

func (v *visitor) beginRecord(t xml.StartElement) (bool, error) {
	v.seen++
	p := &pendingRecord{index: v.seen - 1}
	for _, attr := range t.Attr {
		switch attr.Name.Local {
		case model.AttrTypeCanonicalName:
			p.kind = entity.Kind(attr.Value)
		case model.AttrTypeID:
			p.typeID = attr.Value
		case model.AttrStateCanonicalName:
			p.stateKind = attr.Value
		case model.AttrPropertiesCanonicalName:
			p.propertiesKind = attr.Value
		}
	}

	if !v.registry.Supports(p.kind) {
		v.logger.Infow("unsupported breakpoint kind", "kind", p.kind, "index", p.index)
		v.result.dropped[DropUnsupportedKind]++
		return true, v.decoder.Skip()
	}

	v.current = p
	v.state = stateReadingRecord
	return false, nil
}

func (v *visitor) beginFragment(t xml.StartElement, next visitState) {
	v.fragment.Reset()
	v.fragmentDepth = 0
	v.state = next
	v.accumulate(t)
}

// accumulate appends a token to the current fragment and closes the fragment with its root element.
func (v *visitor) accumulate(tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		v.fragmentDepth++
		v.fragment.WriteByte('<')
		v.fragment.WriteString(t.Name.Local)
		for _, attr := range t.Attr {
			v.fragment.WriteByte(' ')
			v.fragment.WriteString(attr.Name.Local)
			v.fragment.WriteString(`="`)
			v.fragment.WriteString(_escaper.Replace(attr.Value))
			v.fragment.WriteByte('"')
		}
		v.fragment.WriteByte('>')
	case xml.EndElement:
		v.fragmentDepth--
		v.fragment.WriteString("</")
		v.fragment.WriteString(t.Name.Local)
		v.fragment.WriteByte('>')
		if v.fragmentDepth == 0 {
			v.closeFragment()
		}
	case xml.CharData:
		v.fragment.WriteString(_escaper.Replace(string(t)))
	}
}

func (v *visitor) closeFragment() {
	data := bytes.Clone(v.fragment.Bytes())
	switch v.state {
	case stateReadingProperties:
		v.current.properties = data
	case stateReadingState:
		v.current.state = data
	case stateReadingMetadata:
		v.current.metadata = data
	}
	v.state = stateReadingRecord
}

func (v *visitor) finishRecord() {
	p := v.current
	v.current = nil

	if p.metadata == nil {
		v.logger.Warnw("dropping breakpoint without metadata", "kind", p.kind, "index", p.index)
		v.result.dropped[DropMissingMetadata]++
		return
	}

	record, err := v.build(p)
	if err != nil {
		v.logger.Errorw("could not create breakpoint", "kind", p.kind, "index", p.index, "error", err)
		v.result.dropped[DropMalformed]++
		return
	}
	v.result.records = append(v.result.records, record)
}

func (v *visitor) build(p *pendingRecord) (*entity.Record, error) {
	payload := model.NewMetadataPayload()
	if err := xml.Unmarshal(p.metadata, payload); err != nil {
		return nil, &errors.DeserializationError{Element: model.ElementMetadata, Discriminator: string(p.kind), Err: err}
	}
	metadata, err := mapper.PayloadToMetadata(payload)
	if err != nil {
		return nil, &errors.DeserializationError{Element: model.ElementMetadata, Discriminator: string(p.kind), Err: err}
	}

	if p.state == nil {
		return nil, &errors.DeserializationError{Element: model.ElementState, Discriminator: p.stateKind, Err: errors.New("missing state")}
	}
	state, err := v.registry.DecodeState(p.stateKind, p.state)
	if err != nil {
		return nil, err
	}

	var properties entity.Properties
	if p.properties != nil {
		properties, err = v.registry.DecodeProperties(p.propertiesKind, p.properties)
		if err != nil {
			return nil, err
		}
	}

	return v.registry.Create(p.kind, p.typeID, state, properties, metadata)
}
