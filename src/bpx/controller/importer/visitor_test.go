package importer

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/bpx/src/bpx/controller/registry"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/mapper"
	"github.com/uber/bpx/src/bpx/model"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func visitFile(t *testing.T, ctx context.Context, name string) (*visitResult, *observer.ObservedLogs, error) {
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()
	result, err := newVisitor(f, registry.New(registry.Params{Logger: logger}), logger).visit(ctx)
	return result, logs, err
}

func TestVisitPythonWithCommit(t *testing.T) {
	result, _, err := visitFile(t, context.Background(), "python_commit.xml")
	require.NoError(t, err)

	assert.Equal(t, entity.VCSStamp{CommitID: "1234", BranchName: "foo"}, result.stamp)
	assert.Empty(t, result.dropped)
	require.Len(t, result.records, 1)

	record := result.records[0]
	assert.Equal(t, entity.KindPythonLine, record.Kind)
	assert.Equal(t, "python-line", record.TypeID)
	assert.Equal(t, model.StateKindLine, record.StateKind)
	assert.Empty(t, record.PropertiesKind)
	assert.Nil(t, record.Properties)
	assert.Equal(t, entity.BreakpointState{
		FileURL:       "file:///home/me/proj/foo.py",
		Line:          9,
		Enabled:       true,
		Condition:     "a && b",
		SuspendPolicy: entity.SuspendAll,
	}, record.State)
	assert.Equal(t, &entity.TagMetadata{
		URL:         "file:///home/me/proj/foo.py",
		RelativeURL: "foo.py",
		Line:        9,
		Tags:        []entity.Tag{{Key: "env", Value: "dev"}},
	}, record.Metadata)
	assert.Equal(t, "Breakpoint at: 9 in file:///home/me/proj/foo.py (relative: foo.py)", record.String())
}

func TestVisitWithoutMetadata(t *testing.T) {
	result, logs, err := visitFile(t, context.Background(), "no_metadata.xml")
	require.NoError(t, err)

	assert.Empty(t, result.records)
	assert.Equal(t, entity.VCSStamp{}, result.stamp)
	assert.Equal(t, map[string]int{DropMissingMetadata: 1}, result.dropped)
	assert.Equal(t, 1, logs.FilterMessage("dropping breakpoint without metadata").Len())
}

func TestVisitUnsupportedKind(t *testing.T) {
	result, logs, err := visitFile(t, context.Background(), "unsupported.xml")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{DropUnsupportedKind: 1}, result.dropped)
	assert.Equal(t, 1, logs.FilterMessage("unsupported breakpoint kind").Len())
	require.Len(t, result.records, 1)

	state := result.records[0].State
	assert.False(t, state.Enabled)
	assert.True(t, state.Temporary)
	assert.Equal(t, entity.SuspendThread, state.SuspendPolicy)
	assert.Equal(t, 4, state.Line)
	assert.Empty(t, result.records[0].Metadata.Tags)
}

func TestVisitAmpersands(t *testing.T) {
	result, _, err := visitFile(t, context.Background(), "ampersand.xml")
	require.NoError(t, err)

	assert.Equal(t, entity.VCSStamp{CommitID: "abc", BranchName: "fix&test"}, result.stamp)
	require.Len(t, result.records, 1)

	record := result.records[0]
	assert.Equal(t, "x < 3 && y > 1", record.State.Condition)
	assert.Equal(t, `"a" & "b"`, record.State.LogExpression)
	assert.Equal(t, uri.URI("file:///home/me/proj/a&b.py"), record.State.FileURL)
	assert.Equal(t, "a&b.py", record.RelativePath())
	assert.Equal(t, []entity.Tag{{Key: "owner", Value: "R&D <core>"}}, record.Metadata.Tags)
}

func TestVisitMixedKinds(t *testing.T) {
	result, logs, err := visitFile(t, context.Background(), "mixed.xml")
	require.NoError(t, err)

	assert.Equal(t, entity.VCSStamp{CommitID: "40910804189e3654caac1aa91dfcb1ccf2d4baf6", BranchName: "master"}, result.stamp)
	assert.Equal(t, map[string]int{DropMalformed: 1}, result.dropped)
	assert.Equal(t, 1, logs.FilterMessage("could not create breakpoint").Len())
	require.Len(t, result.records, 3)

	line := result.records[0]
	assert.Equal(t, entity.KindJavaLine, line.Kind)
	assert.Equal(t, model.PropertiesKindJavaLine, line.PropertiesKind)
	assert.Equal(t, entity.SuspendThread, line.State.SuspendPolicy)
	ordinal := 1
	assert.Equal(t, &entity.LineProperties{LambdaOrdinal: &ordinal, ClassFilters: []string{"com.example.*"}}, line.Properties)
	assert.Equal(t, []entity.Tag{{Key: "team", Value: "core"}}, line.Metadata.Tags)

	method := result.records[1]
	assert.Equal(t, entity.KindJavaMethod, method.Kind)
	assert.Equal(t, &entity.MethodProperties{
		ClassPattern: "com.example.Main",
		MethodName:   "run",
		Emulated:     true,
		WatchEntry:   true,
		WatchExit:    true,
	}, method.Properties)

	scala := result.records[2]
	assert.Equal(t, entity.KindScalaLine, scala.Kind)
	assert.Equal(t, "scala-line", scala.TypeID)
	assert.Equal(t, &entity.LineProperties{}, scala.Properties)
}

func TestVisitMalformedDocument(t *testing.T) {
	_, _, err := visitFile(t, context.Background(), "malformed.xml")
	var syntaxErr *xml.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestVisitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := visitFile(t, ctx, "mixed.xml")
	assert.ErrorIs(t, err, context.Canceled)
}

func sampleBreakpoint(kind entity.Kind, line int) *entity.Breakpoint {
	bp := &entity.Breakpoint{
		Kind:   kind,
		TypeID: kind.DefaultTypeID(),
		State: entity.BreakpointState{
			FileURL:       "file:///home/me/proj/src/sample",
			Line:          line,
			Enabled:       line%2 == 0,
			Condition:     "a && b < c",
			LogExpression: `"hit" & <x>`,
			SuspendPolicy: entity.SuspendNone,
			Temporary:     true,
		},
	}
	switch kind {
	case entity.KindJavaMethod, entity.KindKotlinFunction:
		bp.Properties = &entity.MethodProperties{ClassPattern: "com.example.*", MethodName: "run", WatchExit: true}
	case entity.KindJavaField, entity.KindKotlinField:
		bp.Properties = &entity.FieldProperties{ClassName: "com.example.Main", FieldName: "count", WatchAccess: true}
	case entity.KindPythonLine:
	default:
		ordinal := 2
		bp.Properties = &entity.LineProperties{LambdaOrdinal: &ordinal, EncodedInlinePosition: "3:4", ClassFilters: []string{"a.*", "b.*"}}
	}
	return bp
}

func TestVisitRoundTrip(t *testing.T) {
	reg := registry.New(registry.Params{Logger: zap.NewNop().Sugar()})

	doc := &model.ExportedDocument{CommitID: "c0ffee", BranchName: "main"}
	var expected []*entity.Breakpoint
	for i, kind := range reg.Kinds() {
		bp := sampleBreakpoint(kind, i+1)
		exported, err := reg.Serialize(bp)
		require.NoError(t, err)
		exported.Metadata = mapper.MetadataToPayload(&entity.TagMetadata{
			URL:         bp.State.FileURL,
			RelativeURL: "src/sample",
			Line:        bp.State.Line,
			Tags:        []entity.Tag{{Key: "k&v", Value: "<v>"}},
		})
		doc.Breakpoints = append(doc.Breakpoints, exported)
		expected = append(expected, bp)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)

	result, err := newVisitor(bytes.NewReader(out), reg, zap.NewNop().Sugar()).visit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.VCSStamp{CommitID: "c0ffee", BranchName: "main"}, result.stamp)
	require.Len(t, result.records, len(expected))
	for i, record := range result.records {
		assert.Equal(t, *expected[i], record.Breakpoint, expected[i].Kind.String())
		assert.Equal(t, []entity.Tag{{Key: "k&v", Value: "<v>"}}, record.Metadata.Tags)
		assert.Equal(t, expected[i].State.Line, record.Metadata.Line)
	}
}

func TestVisitPreservesCarriageReturns(t *testing.T) {
	reg := registry.New(registry.Params{Logger: zap.NewNop().Sugar()})

	bp := sampleBreakpoint(entity.KindPythonLine, 3)
	bp.State.Condition = "x\r\ny && z"
	bp.State.LogExpression = "line\rend"
	exported, err := reg.Serialize(bp)
	require.NoError(t, err)
	tags := []entity.Tag{{Key: "note", Value: "a\r\nb\tc & d"}}
	exported.Metadata = mapper.MetadataToPayload(&entity.TagMetadata{
		URL:         bp.State.FileURL,
		RelativeURL: "src/sample",
		Line:        bp.State.Line,
		Tags:        tags,
	})

	out, err := xml.MarshalIndent(&model.ExportedDocument{Breakpoints: []*model.ExportedBreakpoint{exported}}, "", "  ")
	require.NoError(t, err)

	result, err := newVisitor(bytes.NewReader(out), reg, zap.NewNop().Sugar()).visit(context.Background())
	require.NoError(t, err)
	require.Len(t, result.records, 1)
	assert.Equal(t, "x\r\ny && z", result.records[0].State.Condition)
	assert.Equal(t, "line\rend", result.records[0].State.LogExpression)
	assert.Equal(t, tags, result.records[0].Metadata.Tags)
}
