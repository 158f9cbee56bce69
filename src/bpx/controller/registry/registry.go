// Package registry maps breakpoint kinds to the providers that can build and serialize them.
package registry

import (
	"encoding/xml"
	"sync"

	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/mapper"
	"github.com/uber/bpx/src/bpx/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "registry"

// Registry is the set of breakpoint kinds this module can export and import.
type Registry interface {
	// Register adds a provider. Lookups return the first provider supporting a kind.
	Register(p Provider)
	Supports(kind entity.Kind) bool
	Kinds() []entity.Kind
	LineOriented(kind entity.Kind) bool
	// Create builds a staged record from decoded fragments.
	Create(kind entity.Kind, typeID string, state entity.BreakpointState, properties entity.Properties, metadata *entity.TagMetadata) (*entity.Record, error)
	// DecodeState parses a state fragment selected by its discriminator.
	DecodeState(stateKind string, fragment []byte) (entity.BreakpointState, error)
	// DecodeProperties parses a properties fragment selected by its discriminator.
	// An empty discriminator yields nil properties.
	DecodeProperties(propertiesKind string, fragment []byte) (entity.Properties, error)
	// Serialize produces the wire form of a breakpoint, without metadata.
	Serialize(bp *entity.Breakpoint) (*model.ExportedBreakpoint, error)
}

// Params are inbound parameters to initialize a new registry.
type Params struct {
	fx.In

	Logger *zap.SugaredLogger
}

var _stateDecoders = map[string]func() *model.StatePayload{
	model.StateKindLine: model.NewStatePayload,
}

var _propertiesDecoders = map[string]func() any{
	model.PropertiesKindJavaLine:   func() any { return &model.LinePropertiesPayload{} },
	model.PropertiesKindJavaMethod: func() any { return model.NewMethodPropertiesPayload() },
	model.PropertiesKindJavaField:  func() any { return model.NewFieldPropertiesPayload() },
}

type registry struct {
	logger    *zap.SugaredLogger
	mu        sync.RWMutex
	providers []Provider
}

// New creates a registry with the Java, Kotlin, Scala and Python providers registered.
func New(p Params) Registry {
	r := &registry{
		logger: p.Logger.With("component", _nameKey),
	}
	r.Register(NewJavaProvider())
	r.Register(NewKotlinProvider())
	r.Register(NewScalaProvider())
	r.Register(NewPythonProvider())
	return r
}

func (r *registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
	r.logger.Debugw("registered breakpoint provider", "language", p.Language(), "kinds", len(p.Kinds()))
}

func (r *registry) lookup(kind entity.Kind) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.Supports(kind) {
			return p
		}
	}
	return nil
}

func (r *registry) Supports(kind entity.Kind) bool {
	return r.lookup(kind) != nil
}

func (r *registry) Kinds() []entity.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []entity.Kind
	for _, p := range r.providers {
		result = append(result, p.Kinds()...)
	}
	return result
}

func (r *registry) LineOriented(kind entity.Kind) bool {
	return r.Supports(kind) && kind.LineOriented()
}

func (r *registry) Create(kind entity.Kind, typeID string, state entity.BreakpointState, properties entity.Properties, metadata *entity.TagMetadata) (*entity.Record, error) {
	p := r.lookup(kind)
	if p == nil {
		return nil, &errors.UnsupportedKindError{Kind: string(kind)}
	}
	if metadata == nil {
		return nil, &errors.MissingMetadataError{Kind: string(kind)}
	}

	bp, err := p.Build(kind, typeID, state, properties)
	if err != nil {
		return nil, err
	}

	return &entity.Record{
		Breakpoint:     *bp,
		StateKind:      model.StateKindLine,
		PropertiesKind: p.PropertiesKind(kind),
		Metadata:       metadata,
	}, nil
}

func (r *registry) DecodeState(stateKind string, fragment []byte) (entity.BreakpointState, error) {
	newPayload, ok := _stateDecoders[stateKind]
	if !ok {
		return entity.BreakpointState{}, &errors.DeserializationError{
			Element:       model.ElementState,
			Discriminator: stateKind,
			Err:           errors.New("unknown state kind"),
		}
	}

	payload := newPayload()
	if err := xml.Unmarshal(fragment, payload); err != nil {
		return entity.BreakpointState{}, &errors.DeserializationError{Element: model.ElementState, Discriminator: stateKind, Err: err}
	}

	state, err := mapper.PayloadToState(payload)
	if err != nil {
		return entity.BreakpointState{}, &errors.DeserializationError{Element: model.ElementState, Discriminator: stateKind, Err: err}
	}
	return state, nil
}

func (r *registry) DecodeProperties(propertiesKind string, fragment []byte) (entity.Properties, error) {
	if propertiesKind == "" {
		return nil, nil
	}

	newPayload, ok := _propertiesDecoders[propertiesKind]
	if !ok {
		return nil, &errors.DeserializationError{
			Element:       model.ElementProperties,
			Discriminator: propertiesKind,
			Err:           errors.New("unknown properties kind"),
		}
	}

	payload := newPayload()
	if err := xml.Unmarshal(fragment, payload); err != nil {
		return nil, &errors.DeserializationError{Element: model.ElementProperties, Discriminator: propertiesKind, Err: err}
	}

	props, err := mapper.PayloadToProperties(payload)
	if err != nil {
		return nil, &errors.DeserializationError{Element: model.ElementProperties, Discriminator: propertiesKind, Err: err}
	}
	return props, nil
}

func (r *registry) Serialize(bp *entity.Breakpoint) (*model.ExportedBreakpoint, error) {
	p := r.lookup(bp.Kind)
	if p == nil {
		return nil, &errors.UnsupportedKindError{Kind: string(bp.Kind)}
	}
	if !bp.State.HasSourcePosition() {
		return nil, errors.NoSourcePositionError
	}

	typeID := bp.TypeID
	if typeID == "" {
		typeID = bp.Kind.DefaultTypeID()
	}

	return &model.ExportedBreakpoint{
		BreakpointCanonicalName: model.BreakpointImplLine,
		PropertiesCanonicalName: p.PropertiesKind(bp.Kind),
		StateCanonicalName:      model.StateKindLine,
		TypeCanonicalName:       string(bp.Kind),
		TypeID:                  typeID,
		Properties:              mapper.PropertiesToPayload(bp.Properties),
		State:                   mapper.StateToPayload(bp.State),
	}, nil
}
