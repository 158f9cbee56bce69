package registry

import (
	"encoding/xml"
	stderr "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/model"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRegistry() Registry {
	return New(Params{Logger: zap.NewNop().Sugar()})
}

func TestKinds(t *testing.T) {
	r := newRegistry()
	assert.Len(t, r.Kinds(), 8)

	assert.True(t, r.Supports(entity.KindScalaLine))
	assert.False(t, r.Supports("com.example.GoLineBreakpointType"))

	assert.True(t, r.LineOriented(entity.KindPythonLine))
	assert.False(t, r.LineOriented(entity.KindKotlinFunction))
	assert.False(t, r.LineOriented("com.example.GoLineBreakpointType"))
}

func TestCreate(t *testing.T) {
	r := newRegistry()
	state := entity.BreakpointState{FileURL: "file:///p/A.java", Line: 4, Enabled: true, SuspendPolicy: entity.SuspendAll}
	meta := &entity.TagMetadata{URL: "file:///p/A.java", RelativeURL: "A.java", Line: 4}

	t.Run("defaults", func(t *testing.T) {
		rec, err := r.Create(entity.KindJavaLine, "", state, nil, meta)
		require.NoError(t, err)
		assert.Equal(t, "java-line", rec.TypeID)
		assert.Equal(t, &entity.LineProperties{}, rec.Properties)
		assert.Equal(t, model.StateKindLine, rec.StateKind)
		assert.Equal(t, model.PropertiesKindJavaLine, rec.PropertiesKind)
		assert.Same(t, meta, rec.Metadata)
	})

	t.Run("python has no properties", func(t *testing.T) {
		rec, err := r.Create(entity.KindPythonLine, "python-line", state, nil, meta)
		require.NoError(t, err)
		assert.Nil(t, rec.Properties)
		assert.Empty(t, rec.PropertiesKind)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := r.Create("com.example.GoLineBreakpointType", "", state, nil, meta)
		kind, ok := errors.UnsupportedKind(err)
		assert.True(t, ok)
		assert.Equal(t, "com.example.GoLineBreakpointType", kind)
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := r.Create(entity.KindJavaLine, "", state, nil, nil)
		var mm *errors.MissingMetadataError
		assert.True(t, stderr.As(err, &mm))
	})

	t.Run("wrong properties", func(t *testing.T) {
		_, err := r.Create(entity.KindKotlinField, "", state, &entity.MethodProperties{}, meta)
		var de *errors.DeserializationError
		require.True(t, stderr.As(err, &de))
		assert.Equal(t, model.ElementProperties, de.Element)

		_, err = r.Create(entity.KindPythonLine, "", state, &entity.LineProperties{}, meta)
		assert.True(t, errors.IsRecordLevel(err))
	})
}

func TestDecodeState(t *testing.T) {
	r := newRegistry()

	state, err := r.DecodeState(model.StateKindLine, []byte(
		`<state enabled="false" suspend="THREAD"><url>file:///p/foo.py</url><line>9</line><condition>a &amp;&amp; b</condition></state>`))
	require.NoError(t, err)
	assert.Equal(t, entity.BreakpointState{
		FileURL:       "file:///p/foo.py",
		Line:          9,
		Condition:     "a && b",
		SuspendPolicy: entity.SuspendThread,
	}, state)

	state, err = r.DecodeState(model.StateKindLine, []byte(`<state><url>file:///p/foo.py</url></state>`))
	require.NoError(t, err)
	assert.True(t, state.Enabled)
	assert.False(t, state.HasSourcePosition())

	tests := map[string]struct {
		kind     string
		fragment string
	}{
		"unknown kind": {"com.example.State", `<state/>`},
		"wrong root":   {model.StateKindLine, `<metadata/>`},
		"bad line":     {model.StateKindLine, `<state><line>ten</line></state>`},
		"bad suspend":  {model.StateKindLine, `<state suspend="SOMETIMES"/>`},
		"not xml":      {model.StateKindLine, `<state>`},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := r.DecodeState(tt.kind, []byte(tt.fragment))
			var de *errors.DeserializationError
			require.True(t, stderr.As(err, &de))
			assert.Equal(t, model.ElementState, de.Element)
			assert.Equal(t, tt.kind, de.Discriminator)
		})
	}
}

func TestDecodeProperties(t *testing.T) {
	r := newRegistry()

	props, err := r.DecodeProperties("", nil)
	require.NoError(t, err)
	assert.Nil(t, props)

	props, err = r.DecodeProperties(model.PropertiesKindJavaMethod, []byte(
		`<properties><class-pattern>p.A</class-pattern><method-name>run</method-name><watch-exit>true</watch-exit></properties>`))
	require.NoError(t, err)
	assert.Equal(t, &entity.MethodProperties{ClassPattern: "p.A", MethodName: "run", WatchEntry: true, WatchExit: true}, props)

	props, err = r.DecodeProperties(model.PropertiesKindJavaLine, []byte(`<properties><lambda-ordinal>1</lambda-ordinal></properties>`))
	require.NoError(t, err)
	lp, ok := props.(*entity.LineProperties)
	require.True(t, ok)
	require.NotNil(t, lp.LambdaOrdinal)
	assert.Equal(t, 1, *lp.LambdaOrdinal)

	_, err = r.DecodeProperties("com.example.Properties", []byte(`<properties/>`))
	assert.True(t, errors.IsRecordLevel(err))

	_, err = r.DecodeProperties(model.PropertiesKindJavaField, []byte(`<state/>`))
	assert.True(t, errors.IsRecordLevel(err))
}

func TestSerialize(t *testing.T) {
	r := newRegistry()
	bp := &entity.Breakpoint{
		Kind: entity.KindKotlinField,
		State: entity.BreakpointState{
			FileURL:       "file:///p/A.kt",
			Line:          7,
			Enabled:       true,
			SuspendPolicy: entity.SuspendAll,
			LogExpression: "x < 3",
		},
		Properties: &entity.FieldProperties{ClassName: "p.A", FieldName: "x", WatchAccess: true},
	}

	out, err := r.Serialize(bp)
	require.NoError(t, err)
	assert.Equal(t, model.BreakpointImplLine, out.BreakpointCanonicalName)
	assert.Equal(t, model.PropertiesKindJavaField, out.PropertiesCanonicalName)
	assert.Equal(t, string(entity.KindKotlinField), out.TypeCanonicalName)
	assert.Equal(t, "kotlin-field", out.TypeID)
	assert.Nil(t, out.Metadata)

	stateXML, err := xml.Marshal(out.State)
	require.NoError(t, err)
	state, err := r.DecodeState(out.StateCanonicalName, stateXML)
	require.NoError(t, err)
	assert.Equal(t, bp.State, state)

	propsXML, err := xml.Marshal(out.Properties)
	require.NoError(t, err)
	props, err := r.DecodeProperties(out.PropertiesCanonicalName, propsXML)
	require.NoError(t, err)
	assert.Equal(t, bp.Properties, props)
}

func TestSerializeErrors(t *testing.T) {
	r := newRegistry()

	_, err := r.Serialize(&entity.Breakpoint{Kind: "com.example.GoLineBreakpointType"})
	_, ok := errors.UnsupportedKind(err)
	assert.True(t, ok)

	_, err = r.Serialize(&entity.Breakpoint{Kind: entity.KindPythonLine, State: entity.BreakpointState{Line: -1}})
	assert.ErrorIs(t, err, errors.NoSourcePositionError)
}

type goProvider struct {
	Provider
}

func (goProvider) Supports(kind entity.Kind) bool {
	return kind == "com.example.GoLineBreakpointType"
}

func (goProvider) Language() entity.Language { return "go" }

func (goProvider) Kinds() []entity.Kind {
	return []entity.Kind{"com.example.GoLineBreakpointType"}
}

func TestRegister(t *testing.T) {
	r := newRegistry()
	r.Register(goProvider{Provider: NewPythonProvider()})
	assert.True(t, r.Supports("com.example.GoLineBreakpointType"))
	assert.Len(t, r.Kinds(), 9)
}
