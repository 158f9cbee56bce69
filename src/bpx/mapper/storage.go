package mapper

import (
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/model"
	"go.lsp.dev/uri"
)

// TagMetadataToRow maps tag metadata to its persisted form.
func TagMetadataToRow(m *entity.TagMetadata) model.TagMetadataRow {
	row := model.TagMetadataRow{
		URL:         string(m.URL),
		RelativeURL: m.RelativeURL,
		Line:        m.Line,
		Tags:        make([]model.TagRow, 0, len(m.Tags)),
	}
	for _, t := range m.Tags {
		row.Tags = append(row.Tags, model.TagRow{Key: t.Key, Value: t.Value})
	}
	return row
}

// RowToTagMetadata maps a persisted row to its entity equivalent.
func RowToTagMetadata(row model.TagMetadataRow) *entity.TagMetadata {
	m := &entity.TagMetadata{
		URL:         uri.URI(row.URL),
		RelativeURL: row.RelativeURL,
		Line:        row.Line,
		Tags:        make([]entity.Tag, 0, len(row.Tags)),
	}
	for _, t := range row.Tags {
		m.Tags = append(m.Tags, entity.Tag{Key: t.Key, Value: t.Value})
	}
	return m
}

// BreakpointToPersisted maps a breakpoint to the form saved by the local debugger registry.
func BreakpointToPersisted(b *entity.Breakpoint) model.PersistedBreakpoint {
	p := model.PersistedBreakpoint{
		ID:     b.ID.String(),
		Kind:   string(b.Kind),
		TypeID: b.TypeID,
		State: model.StateRow{
			URL:           string(b.State.FileURL),
			Line:          b.State.Line,
			Enabled:       b.State.Enabled,
			Condition:     b.State.Condition,
			LogExpression: b.State.LogExpression,
			Suspend:       string(b.State.SuspendPolicy),
			Temporary:     b.State.Temporary,
		},
	}
	switch v := b.Properties.(type) {
	case *entity.LineProperties:
		p.Line = &model.LineRow{
			LambdaOrdinal:         v.LambdaOrdinal,
			EncodedInlinePosition: v.EncodedInlinePosition,
			ClassFilters:          v.ClassFilters,
		}
	case *entity.MethodProperties:
		p.Method = &model.MethodRow{
			ClassPattern: v.ClassPattern,
			MethodName:   v.MethodName,
			Emulated:     v.Emulated,
			WatchEntry:   v.WatchEntry,
			WatchExit:    v.WatchExit,
		}
	case *entity.FieldProperties:
		p.Field = &model.FieldRow{
			ClassName:         v.ClassName,
			FieldName:         v.FieldName,
			WatchAccess:       v.WatchAccess,
			WatchModification: v.WatchModification,
		}
	}
	return p
}

// PersistedToBreakpoint maps a saved breakpoint to its entity equivalent.
func PersistedToBreakpoint(p model.PersistedBreakpoint) (*entity.Breakpoint, error) {
	id, err := uuid.FromString(p.ID)
	if err != nil {
		return nil, fmt.Errorf("breakpoint id %q: %w", p.ID, err)
	}
	b := &entity.Breakpoint{
		ID:     id,
		Kind:   entity.Kind(p.Kind),
		TypeID: p.TypeID,
		State: entity.BreakpointState{
			FileURL:       uri.URI(p.State.URL),
			Line:          p.State.Line,
			Enabled:       p.State.Enabled,
			Condition:     p.State.Condition,
			LogExpression: p.State.LogExpression,
			SuspendPolicy: entity.SuspendPolicy(p.State.Suspend),
			Temporary:     p.State.Temporary,
		},
	}
	switch {
	case p.Line != nil:
		b.Properties = &entity.LineProperties{
			LambdaOrdinal:         p.Line.LambdaOrdinal,
			EncodedInlinePosition: p.Line.EncodedInlinePosition,
			ClassFilters:          p.Line.ClassFilters,
		}
	case p.Method != nil:
		b.Properties = &entity.MethodProperties{
			ClassPattern: p.Method.ClassPattern,
			MethodName:   p.Method.MethodName,
			Emulated:     p.Method.Emulated,
			WatchEntry:   p.Method.WatchEntry,
			WatchExit:    p.Method.WatchExit,
		}
	case p.Field != nil:
		b.Properties = &entity.FieldProperties{
			ClassName:         p.Field.ClassName,
			FieldName:         p.Field.FieldName,
			WatchAccess:       p.Field.WatchAccess,
			WatchModification: p.Field.WatchModification,
		}
	}
	return b, nil
}
