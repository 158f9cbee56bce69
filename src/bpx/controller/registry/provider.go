package registry

import (
	"fmt"

	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/model"
)

// Provider builds breakpoints for the kinds of one language.
type Provider interface {
	Language() entity.Language
	Kinds() []entity.Kind
	Supports(kind entity.Kind) bool
	// PropertiesKind returns the discriminator of the kind's properties payload, empty if it has none.
	PropertiesKind(kind entity.Kind) string
	// Build validates the payload shape and assembles a breakpoint.
	Build(kind entity.Kind, typeID string, state entity.BreakpointState, properties entity.Properties) (*entity.Breakpoint, error)
}

type kindSpec struct {
	propertiesKind string
	// defaults produces properties for records exported without a properties element.
	defaults func() entity.Properties
	accepts  func(entity.Properties) bool
}

type provider struct {
	language entity.Language
	kinds    []entity.Kind
	specs    map[entity.Kind]kindSpec
}

func newProvider(language entity.Language, specs map[entity.Kind]kindSpec, order ...entity.Kind) *provider {
	return &provider{
		language: language,
		kinds:    order,
		specs:    specs,
	}
}

// NewJavaProvider returns the provider for Java line, method and field breakpoints.
func NewJavaProvider() Provider {
	return newProvider(entity.LanguageJava, map[entity.Kind]kindSpec{
		entity.KindJavaLine:   lineSpec(),
		entity.KindJavaMethod: methodSpec(),
		entity.KindJavaField:  fieldSpec(),
	}, entity.KindJavaLine, entity.KindJavaMethod, entity.KindJavaField)
}

// NewKotlinProvider returns the provider for Kotlin line, function and field breakpoints.
func NewKotlinProvider() Provider {
	return newProvider(entity.LanguageKotlin, map[entity.Kind]kindSpec{
		entity.KindKotlinLine:     lineSpec(),
		entity.KindKotlinFunction: methodSpec(),
		entity.KindKotlinField:    fieldSpec(),
	}, entity.KindKotlinLine, entity.KindKotlinFunction, entity.KindKotlinField)
}

// NewScalaProvider returns the provider for Scala line breakpoints.
func NewScalaProvider() Provider {
	return newProvider(entity.LanguageScala, map[entity.Kind]kindSpec{
		entity.KindScalaLine: lineSpec(),
	}, entity.KindScalaLine)
}

// NewPythonProvider returns the provider for Python line breakpoints, which carry no properties.
func NewPythonProvider() Provider {
	return newProvider(entity.LanguagePython, map[entity.Kind]kindSpec{
		entity.KindPythonLine: {
			defaults: func() entity.Properties { return nil },
			accepts:  func(p entity.Properties) bool { return p == nil },
		},
	}, entity.KindPythonLine)
}

func lineSpec() kindSpec {
	return kindSpec{
		propertiesKind: model.PropertiesKindJavaLine,
		defaults:       func() entity.Properties { return &entity.LineProperties{} },
		accepts: func(p entity.Properties) bool {
			_, ok := p.(*entity.LineProperties)
			return ok
		},
	}
}

func methodSpec() kindSpec {
	return kindSpec{
		propertiesKind: model.PropertiesKindJavaMethod,
		defaults:       func() entity.Properties { return &entity.MethodProperties{WatchEntry: true} },
		accepts: func(p entity.Properties) bool {
			_, ok := p.(*entity.MethodProperties)
			return ok
		},
	}
}

func fieldSpec() kindSpec {
	return kindSpec{
		propertiesKind: model.PropertiesKindJavaField,
		defaults:       func() entity.Properties { return &entity.FieldProperties{WatchModification: true} },
		accepts: func(p entity.Properties) bool {
			_, ok := p.(*entity.FieldProperties)
			return ok
		},
	}
}

func (p *provider) Language() entity.Language {
	return p.language
}

func (p *provider) Kinds() []entity.Kind {
	return append([]entity.Kind(nil), p.kinds...)
}

func (p *provider) Supports(kind entity.Kind) bool {
	_, ok := p.specs[kind]
	return ok
}

func (p *provider) PropertiesKind(kind entity.Kind) string {
	return p.specs[kind].propertiesKind
}

func (p *provider) Build(kind entity.Kind, typeID string, state entity.BreakpointState, properties entity.Properties) (*entity.Breakpoint, error) {
	spec, ok := p.specs[kind]
	if !ok {
		return nil, &errors.UnsupportedKindError{Kind: string(kind)}
	}

	if properties == nil {
		properties = spec.defaults()
	}
	if !spec.accepts(properties) {
		return nil, &errors.DeserializationError{
			Element:       model.ElementProperties,
			Discriminator: string(kind),
			Err:           fmt.Errorf("unexpected properties %T", properties),
		}
	}

	if typeID == "" {
		typeID = kind.DefaultTypeID()
	}

	return &entity.Breakpoint{
		Kind:       kind,
		TypeID:     typeID,
		State:      state,
		Properties: properties,
	}, nil
}
