// Package vcs is the gateway to version control information about the workspace.
package vcs

import (
	"context"
	"strings"

	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/executor"
	workspaceutils "github.com/uber/bpx/src/bpx/internal/workspace-utils"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=vcs.go -destination=vcsmock/vcs_mock.go -package=vcsmock

const _nameKey = "vcs"

// Gateway reports the version control position of the workspace.
// An empty result means the workspace is not under version control.
type Gateway interface {
	CurrentRevision(ctx context.Context) (string, error)
	CurrentBranch(ctx context.Context) (string, error)
	Stamp(ctx context.Context) (entity.VCSStamp, error)
}

// Params are inbound parameters to initialize a new gateway.
type Params struct {
	fx.In

	Executor       executor.Executor
	WorkspaceUtils workspaceutils.WorkspaceUtils
	Logger         *zap.SugaredLogger
}

type gateway struct {
	executor       executor.Executor
	workspaceUtils workspaceutils.WorkspaceUtils
	logger         *zap.SugaredLogger
}

// New returns a git backed Gateway.
func New(p Params) Gateway {
	return &gateway{
		executor:       p.Executor,
		workspaceUtils: p.WorkspaceUtils,
		logger:         p.Logger.With("component", _nameKey),
	}
}

func (g *gateway) CurrentRevision(ctx context.Context) (string, error) {
	return g.revParse(ctx, "HEAD")
}

func (g *gateway) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := g.revParse(ctx, "--abbrev-ref", "HEAD")
	if branch == "HEAD" {
		// detached
		return "", err
	}
	return branch, err
}

func (g *gateway) Stamp(ctx context.Context) (entity.VCSStamp, error) {
	revision, err := g.CurrentRevision(ctx)
	if err != nil {
		return entity.VCSStamp{}, err
	}
	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		return entity.VCSStamp{}, err
	}
	return entity.VCSStamp{CommitID: revision, BranchName: branch}, nil
}

// revParse runs git rev-parse in the workspace root. Anything short of a cancelled
// context is reported as an empty answer.
func (g *gateway) revParse(ctx context.Context, args ...string) (string, error) {
	root, err := g.workspaceUtils.RootPath(ctx)
	if err != nil {
		g.logger.Debugw("no workspace root, skipping git", "error", err)
		return "", nil
	}

	result, err := g.executor.Run(ctx, root, "git", append([]string{"rev-parse"}, args...)...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		g.logger.Debugw("git rev-parse failed", "args", args, "exitCode", result.ExitCode, "stderr", strings.TrimSpace(result.Stderr), "error", err)
		return "", nil
	}
	return strings.TrimSpace(result.Stdout), nil
}
