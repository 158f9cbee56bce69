package workspaceutils

import (
	"context"
	stderr "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs/fsmock"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg, err := config.NewStaticProvider(map[string]any{"workspace": map[string]any{"root": "/p"}})
	require.NoError(t, err)

	w, err := New(Params{
		Config: cfg,
		Logger: zap.NewNop().Sugar(),
		FS:     fsmock.NewMockBpxFS(ctrl),
	})
	require.NoError(t, err)

	root, err := w.RootPath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/p", root)
}

func TestRootPathFromGit(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	fsMock := fsmock.NewMockBpxFS(ctrl)

	w := &workspaceUtilsImpl{
		logger: zap.NewNop().Sugar(),
		fs:     fsMock,
	}

	t.Run("git failure", func(t *testing.T) {
		fsMock.EXPECT().WorkspaceRoot(gomock.Any()).Return(nil, stderr.New("exit status 128"))
		_, err := w.RootPath(ctx)
		assert.ErrorIs(t, err, errors.NoWorkspaceRootError)
	})

	t.Run("resolved once", func(t *testing.T) {
		fsMock.EXPECT().WorkspaceRoot(gomock.Any()).Return([]byte("/sample/root\n"), nil).Times(1)
		for i := 0; i < 2; i++ {
			root, err := w.RootPath(ctx)
			require.NoError(t, err)
			assert.Equal(t, "/sample/root", root)
		}
	})
}

func TestRelativePath(t *testing.T) {
	ctx := context.Background()
	w := &workspaceUtilsImpl{root: "/sample/root"}

	tests := []struct {
		name    string
		fileURL uri.URI
		want    string
		wantErr bool
	}{
		{name: "nested", fileURL: uri.File("/sample/root/a/b/foo.py"), want: "a/b/foo.py"},
		{name: "top level", fileURL: uri.File("/sample/root/foo.py"), want: "foo.py"},
		{name: "outside", fileURL: uri.File("/sample/other/foo.py"), wantErr: true},
		{name: "sibling prefix", fileURL: uri.File("/sample/root2/foo.py"), wantErr: true},
		{name: "not a file", fileURL: "jar:///rt.jar!/String.class", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.RelativePath(ctx, tt.fileURL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	ctx := context.Background()
	w := &workspaceUtilsImpl{root: "/sample/root"}

	got, err := w.AbsoluteURL(ctx, "a/./b/../foo.py")
	require.NoError(t, err)
	assert.Equal(t, uri.File(filepath.FromSlash("/sample/root/a/foo.py")), got)

	_, err = w.AbsoluteURL(ctx, "")
	assert.True(t, errors.IsRecordLevel(err))
}

func TestAbsoluteURLWithoutRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsMock := fsmock.NewMockBpxFS(ctrl)
	fsMock.EXPECT().WorkspaceRoot(gomock.Any()).Return(nil, stderr.New("not a git repository"))

	w := &workspaceUtilsImpl{logger: zap.NewNop().Sugar(), fs: fsMock}
	_, err := w.AbsoluteURL(context.Background(), "foo.py")

	var pr *errors.PathResolutionError
	require.True(t, stderr.As(err, &pr))
	assert.Equal(t, "foo.py", pr.RelativePath)
	assert.ErrorIs(t, err, errors.NoWorkspaceRootError)
}
