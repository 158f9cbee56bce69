package tags

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs"
	"github.com/uber/bpx/src/bpx/internal/fs/fsmock"
	"github.com/uber/bpx/src/bpx/model"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	_fooURL uri.URI = "file:///p/foo.py"
	_barURL uri.URI = "file:///p/bar.py"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRepository(t *testing.T, p Persister) (Repository, tally.TestScope) {
	stats := tally.NewTestScope("", nil)
	r, err := NewWithPersister(context.Background(), p, stats, zap.NewNop().Sugar())
	require.NoError(t, err)
	return r, stats
}

func entries(stats tally.TestScope) float64 {
	g, ok := stats.Snapshot().Gauges()["tags.metadata_entries+"]
	if !ok {
		return -1
	}
	return g.Value()
}

func TestFindOrCreate(t *testing.T) {
	ctx := context.Background()
	r, stats := newTestRepository(t, NewMemoryPersister())

	_, err := r.Find(ctx, _fooURL, 9)
	assert.True(t, errors.IsMetadataNotFound(err))

	m, err := r.FindOrCreate(ctx, _fooURL, 9, "")
	require.NoError(t, err)
	assert.Equal(t, &entity.TagMetadata{URL: _fooURL, Line: 9, Tags: []entity.Tag{}}, m)
	assert.Equal(t, float64(1), entries(stats))

	m, err = r.FindOrCreate(ctx, _fooURL, 9, "foo.py")
	require.NoError(t, err)
	assert.Equal(t, "foo.py", m.RelativeURL)

	m, err = r.FindOrCreate(ctx, _fooURL, 9, "other.py")
	require.NoError(t, err)
	assert.Equal(t, "foo.py", m.RelativeURL)

	found, err := r.Find(ctx, _fooURL, 9)
	require.NoError(t, err)
	assert.True(t, found.Equal(m))
	assert.Equal(t, float64(1), entries(stats))
}

func TestSaveReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t, NewMemoryPersister())

	m, err := r.FindOrCreate(ctx, _fooURL, 1, "foo.py")
	require.NoError(t, err)
	m.Tags = append(m.Tags, entity.Tag{Key: "env", Value: "dev"})

	found, err := r.Find(ctx, _fooURL, 1)
	require.NoError(t, err)
	assert.Empty(t, found.Tags)

	require.NoError(t, r.Save(ctx, m))
	found, err = r.Find(ctx, _fooURL, 1)
	require.NoError(t, err)
	assert.Equal(t, []entity.Tag{{Key: "env", Value: "dev"}}, found.Tags)

	assert.Error(t, r.Save(ctx, nil))
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t, NewMemoryPersister())
	dev := entity.Tag{Key: "env", Value: "dev"}

	require.NoError(t, r.Save(ctx, &entity.TagMetadata{URL: _fooURL, Line: 20, Tags: []entity.Tag{dev}}))
	require.NoError(t, r.Save(ctx, &entity.TagMetadata{URL: _fooURL, Line: 3}))
	require.NoError(t, r.Save(ctx, &entity.TagMetadata{URL: _barURL, Line: 7, Tags: []entity.Tag{dev, {Key: "owner"}}}))

	byFile, err := r.FindByFile(ctx, _fooURL)
	require.NoError(t, err)
	require.Len(t, byFile, 2)
	assert.Equal(t, 3, byFile[0].Line)
	assert.Equal(t, 20, byFile[1].Line)

	byTag, err := r.FindByTag(ctx, dev)
	require.NoError(t, err)
	require.Len(t, byTag, 2)
	assert.Equal(t, _barURL, byTag[0].URL)
	assert.Equal(t, _fooURL, byTag[1].URL)

	none, err := r.FindByTag(ctx, entity.Tag{Key: "env", Value: "prod"})
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	r, stats := newTestRepository(t, NewMemoryPersister())

	m, err := r.FindOrCreate(ctx, _fooURL, 1, "")
	require.NoError(t, err)
	_, err = r.FindOrCreate(ctx, _fooURL, 2, "")
	require.NoError(t, err)

	require.NoError(t, r.RemoveMetadata(ctx, m))
	require.NoError(t, r.Remove(ctx, _fooURL, 2))
	require.NoError(t, r.Remove(ctx, _fooURL, 2))
	require.NoError(t, r.RemoveMetadata(ctx, nil))

	all, err := r.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, float64(0), entries(stats))
}

type failingPersister struct {
	memoryPersister
}

func (failingPersister) Upsert(context.Context, model.TagMetadataRow) error {
	return &errors.IOError{Op: "write", Path: "tags.yaml", Err: assert.AnError}
}

func TestPersisterFailureKeepsIndex(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepository(t, failingPersister{})

	_, err := r.FindOrCreate(ctx, _fooURL, 1, "")
	assert.True(t, errors.IsIO(err))

	_, err = r.Find(ctx, _fooURL, 1)
	assert.True(t, errors.IsMetadataNotFound(err))
}

func testPersisterRoundTrip(t *testing.T, open func() Persister) {
	ctx := context.Background()

	p := open()
	r, _ := newTestRepository(t, p)
	require.NoError(t, r.Save(ctx, &entity.TagMetadata{URL: _fooURL, RelativeURL: "foo.py", Line: 9, Tags: []entity.Tag{{Key: "env", Value: "a & b"}}}))
	require.NoError(t, r.Save(ctx, &entity.TagMetadata{URL: _barURL, Line: 1}))
	require.NoError(t, r.Remove(ctx, _barURL, 1))
	require.NoError(t, p.Close())

	p = open()
	defer p.Close()
	r, stats := newTestRepository(t, p)

	all, err := r.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, &entity.TagMetadata{URL: _fooURL, RelativeURL: "foo.py", Line: 9, Tags: []entity.Tag{{Key: "env", Value: "a & b"}}}, all[0])
	assert.Equal(t, float64(1), entries(stats))
}

func TestYAMLPersister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "tags.yaml")
	testPersisterRoundTrip(t, func() Persister {
		return NewYAMLPersister(fs.New(), path)
	})
}

func TestYAMLPersisterMissingFile(t *testing.T) {
	rows, err := NewYAMLPersister(fs.New(), filepath.Join(t.TempDir(), "tags.yaml")).Load(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestYAMLPersisterWriteFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	fsMock := fsmock.NewMockBpxFS(ctrl)
	p := NewYAMLPersister(fsMock, "/state/tags.yaml")

	fsMock.EXPECT().MkdirAll("/state").Return(nil)
	fsMock.EXPECT().WriteFile("/state/tags.yaml.tmp", gomock.Any()).Return(assert.AnError)

	err := p.Upsert(ctx, model.TagMetadataRow{URL: string(_fooURL), RelativeURL: "foo.py", Line: 1})
	assert.True(t, errors.IsIO(err))
}

func TestYAMLPersisterStatFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsMock := fsmock.NewMockBpxFS(ctrl)
	fsMock.EXPECT().FileExists("/state/tags.yaml").Return(false, assert.AnError)

	_, err := NewYAMLPersister(fsMock, "/state/tags.yaml").Load(context.Background())
	assert.True(t, errors.IsIO(err))
}

func TestSQLitePersister(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.db")
	testPersisterRoundTrip(t, func() Persister {
		p, err := NewSQLitePersister(context.Background(), fs.New(), path)
		require.NoError(t, err)
		return p
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr bool
	}{
		{name: "memory", backend: BackendMemory},
		{name: "yaml", backend: BackendYAML},
		{name: "sqlite", backend: BackendSQLite},
		{name: "unknown", backend: "etcd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.NewStaticProvider(map[string]any{
				"tags": map[string]any{
					"enabled": true,
					"backend": tt.backend,
					"path":    filepath.Join(t.TempDir(), "tags"),
				},
			})
			require.NoError(t, err)

			lc := fxtest.NewLifecycle(t)
			r, err := New(Params{
				Config:    cfg,
				FS:        fs.New(),
				Logger:    zap.NewNop().Sugar(),
				Stats:     tally.NewTestScope("", nil),
				Lifecycle: lc,
			})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			lc.RequireStart()

			_, err = r.FindOrCreate(context.Background(), _fooURL, 0, "foo.py")
			assert.NoError(t, err)
			lc.RequireStop()
		})
	}
}
