package vcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/executor"
	"github.com/uber/bpx/src/bpx/internal/executor/executormock"
	"github.com/uber/bpx/src/bpx/internal/workspace-utils/workspaceutilsmock"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestGateway(t *testing.T) (Gateway, *executormock.MockExecutor, *workspaceutilsmock.MockWorkspaceUtils) {
	ctrl := gomock.NewController(t)
	executorMock := executormock.NewMockExecutor(ctrl)
	wu := workspaceutilsmock.NewMockWorkspaceUtils(ctrl)
	return New(Params{Executor: executorMock, WorkspaceUtils: wu, Logger: zap.NewNop().Sugar()}), executorMock, wu
}

func TestStamp(t *testing.T) {
	ctx := context.Background()
	g, executorMock, wu := newTestGateway(t)

	wu.EXPECT().RootPath(gomock.Any()).Return("/p", nil).Times(2)
	gomock.InOrder(
		executorMock.EXPECT().Run(gomock.Any(), "/p", "git", "rev-parse", "HEAD").Return(executor.Result{Stdout: "1234\n"}, nil),
		executorMock.EXPECT().Run(gomock.Any(), "/p", "git", "rev-parse", "--abbrev-ref", "HEAD").Return(executor.Result{Stdout: "foo\n"}, nil),
	)

	stamp, err := g.Stamp(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.VCSStamp{CommitID: "1234", BranchName: "foo"}, stamp)
}

func TestNotARepository(t *testing.T) {
	ctx := context.Background()
	g, executorMock, wu := newTestGateway(t)

	wu.EXPECT().RootPath(gomock.Any()).Return("/p", nil)
	executorMock.EXPECT().Run(gomock.Any(), "/p", "git", "rev-parse", "HEAD").Return(executor.Result{Stderr: "fatal: not a git repository", ExitCode: 128}, assert.AnError)

	rev, err := g.CurrentRevision(ctx)
	assert.NoError(t, err)
	assert.Empty(t, rev)
}

func TestNoWorkspaceRoot(t *testing.T) {
	ctx := context.Background()
	g, _, wu := newTestGateway(t)

	wu.EXPECT().RootPath(gomock.Any()).Return("", errors.NoWorkspaceRootError)

	rev, err := g.CurrentRevision(ctx)
	assert.NoError(t, err)
	assert.Empty(t, rev)
}

func TestDetachedHead(t *testing.T) {
	ctx := context.Background()
	g, executorMock, wu := newTestGateway(t)

	wu.EXPECT().RootPath(gomock.Any()).Return("/p", nil)
	executorMock.EXPECT().Run(gomock.Any(), "/p", "git", "rev-parse", "--abbrev-ref", "HEAD").Return(executor.Result{Stdout: "HEAD\n"}, nil)

	branch, err := g.CurrentBranch(ctx)
	assert.NoError(t, err)
	assert.Empty(t, branch)
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, executorMock, wu := newTestGateway(t)

	wu.EXPECT().RootPath(gomock.Any()).Return("/p", nil)
	executorMock.EXPECT().Run(gomock.Any(), "/p", "git", "rev-parse", "HEAD").Return(executor.Result{ExitCode: -1}, context.Canceled)

	_, err := g.Stamp(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
