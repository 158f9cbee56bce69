// Package mapper converts between domain entities and their wire and storage models.
package mapper

import (
	"fmt"

	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/model"
	"go.lsp.dev/uri"
)

// StateToPayload maps a breakpoint state to its serialized form.
func StateToPayload(s entity.BreakpointState) *model.StatePayload {
	return &model.StatePayload{
		Enabled:       s.Enabled,
		Suspend:       string(s.SuspendPolicy),
		Temporary:     s.Temporary,
		URL:           string(s.FileURL),
		Line:          s.Line,
		Condition:     s.Condition,
		LogExpression: s.LogExpression,
	}
}

// PayloadToState maps a serialized state to its entity equivalent.
func PayloadToState(p *model.StatePayload) (entity.BreakpointState, error) {
	if p == nil {
		return entity.BreakpointState{}, fmt.Errorf("missing state payload")
	}
	suspend := entity.SuspendPolicy(p.Suspend)
	switch suspend {
	case entity.SuspendAll, entity.SuspendThread, entity.SuspendNone:
	case "":
		suspend = entity.SuspendAll
	default:
		return entity.BreakpointState{}, fmt.Errorf("unknown suspend policy %q", p.Suspend)
	}
	return entity.BreakpointState{
		FileURL:       uri.URI(p.URL),
		Line:          p.Line,
		Enabled:       p.Enabled,
		Condition:     p.Condition,
		LogExpression: p.LogExpression,
		SuspendPolicy: suspend,
		Temporary:     p.Temporary,
	}, nil
}

// PropertiesToPayload maps kind specific properties to their serialized form.
// A nil result means the breakpoint has no properties element.
func PropertiesToPayload(p entity.Properties) any {
	switch v := p.(type) {
	case *entity.LineProperties:
		return &model.LinePropertiesPayload{
			LambdaOrdinal:         v.LambdaOrdinal,
			EncodedInlinePosition: v.EncodedInlinePosition,
			ClassFilters:          v.ClassFilters,
		}
	case *entity.MethodProperties:
		return &model.MethodPropertiesPayload{
			ClassPattern: v.ClassPattern,
			MethodName:   v.MethodName,
			Emulated:     v.Emulated,
			WatchEntry:   v.WatchEntry,
			WatchExit:    v.WatchExit,
		}
	case *entity.FieldProperties:
		return &model.FieldPropertiesPayload{
			ClassName:         v.ClassName,
			FieldName:         v.FieldName,
			WatchAccess:       v.WatchAccess,
			WatchModification: v.WatchModification,
		}
	}
	return nil
}

// PayloadToProperties maps a serialized properties payload to its entity equivalent.
func PayloadToProperties(p any) (entity.Properties, error) {
	switch v := p.(type) {
	case nil:
		return nil, nil
	case *model.LinePropertiesPayload:
		return &entity.LineProperties{
			LambdaOrdinal:         v.LambdaOrdinal,
			EncodedInlinePosition: v.EncodedInlinePosition,
			ClassFilters:          v.ClassFilters,
		}, nil
	case *model.MethodPropertiesPayload:
		return &entity.MethodProperties{
			ClassPattern: v.ClassPattern,
			MethodName:   v.MethodName,
			Emulated:     v.Emulated,
			WatchEntry:   v.WatchEntry,
			WatchExit:    v.WatchExit,
		}, nil
	case *model.FieldPropertiesPayload:
		return &entity.FieldProperties{
			ClassName:         v.ClassName,
			FieldName:         v.FieldName,
			WatchAccess:       v.WatchAccess,
			WatchModification: v.WatchModification,
		}, nil
	}
	return nil, fmt.Errorf("unexpected properties payload %T", p)
}

// MetadataToPayload maps tag metadata to its serialized form.
func MetadataToPayload(m *entity.TagMetadata) *model.MetadataPayload {
	if m == nil {
		return nil
	}
	result := &model.MetadataPayload{
		URL:         string(m.URL),
		RelativeURL: m.RelativeURL,
		Line:        m.Line,
	}
	for _, t := range m.Tags {
		result.Tags = append(result.Tags, model.TagPayload{Key: t.Key, Value: t.Value})
	}
	return result
}

// PayloadToMetadata maps serialized metadata to its entity equivalent.
func PayloadToMetadata(p *model.MetadataPayload) (*entity.TagMetadata, error) {
	if p == nil {
		return nil, nil
	}
	result := &entity.TagMetadata{
		URL:         uri.URI(p.URL),
		RelativeURL: p.RelativeURL,
		Line:        p.Line,
		Tags:        make([]entity.Tag, 0, len(p.Tags)),
	}
	for _, t := range p.Tags {
		result.Tags = append(result.Tags, entity.Tag{Key: t.Key, Value: t.Value})
	}
	return result, nil
}
