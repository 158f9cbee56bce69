// Package importer reads an exported breakpoints file and stages its records for commit.
package importer

import (
	"context"

	"github.com/uber-go/tally"
	"github.com/uber/bpx/src/bpx/controller/registry"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/gateway/debugger"
	"github.com/uber/bpx/src/bpx/gateway/vcs"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs"
	workspaceutils "github.com/uber/bpx/src/bpx/internal/workspace-utils"
	"go.lsp.dev/uri"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "importer"

// Controller imports breakpoints.
type Controller interface {
	// Import reads the file at path. Nothing is installed until the result is committed.
	Import(ctx context.Context, path string) (*entity.ImportResult, error)
}

// Params are inbound parameters to initialize a new importer.
type Params struct {
	fx.In

	Registry       registry.Registry
	Debugger       debugger.Gateway
	VCS            vcs.Gateway
	WorkspaceUtils workspaceutils.WorkspaceUtils
	FS             fs.BpxFS
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
}

type controller struct {
	registry       registry.Registry
	debugger       debugger.Gateway
	vcs            vcs.Gateway
	workspaceUtils workspaceutils.WorkspaceUtils
	fs             fs.BpxFS
	logger         *zap.SugaredLogger
	stats          tally.Scope
}

// New creates a new import controller.
func New(p Params) Controller {
	return &controller{
		registry:       p.Registry,
		debugger:       p.Debugger,
		vcs:            p.VCS,
		workspaceUtils: p.WorkspaceUtils,
		fs:             p.FS,
		logger:         p.Logger.With("component", _nameKey),
		stats:          p.Stats.SubScope(_nameKey),
	}
}

func (c *controller) Import(ctx context.Context, path string) (*entity.ImportResult, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return nil, &errors.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	visited, err := newVisitor(f, c.registry, c.logger).visit(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &errors.IOError{Op: "parse", Path: path, Err: err}
	}

	for reason, n := range visited.dropped {
		c.stats.Tagged(map[string]string{"reason": reason}).Counter("dropped").Inc(int64(n))
	}

	result := &entity.ImportResult{
		Stamp:   visited.stamp,
		Records: visited.records,
	}
	for _, record := range result.Records {
		conflict, err := c.stage(ctx, record)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			result.Conflicts = append(result.Conflicts, conflict)
		}
	}

	revision, err := c.vcs.CurrentRevision(ctx)
	if err != nil {
		return nil, err
	}
	if advisory := entity.NewRevisionAdvisory(result.Stamp, revision); advisory != nil {
		c.logger.Warnw(advisory.Message, "commit", result.Stamp.CommitID, "branch", result.Stamp.BranchName)
		result.Advisories = append(result.Advisories, *advisory)
	}

	c.stats.Counter("staged").Inc(int64(len(result.Records)))
	c.stats.Counter("conflicts").Inc(int64(len(result.Conflicts)))
	c.logger.Infow("read breakpoints", "path", path, "staged", len(result.Records), "conflicts", len(result.Conflicts))
	return result, nil
}

// stage points the record at the workspace file and looks for a live breakpoint at its location.
func (c *controller) stage(ctx context.Context, record *entity.Record) (*entity.ConflictEntry, error) {
	c.logger.Debugw("got breakpoint to import", "record", record.String())

	resolved, err := c.resolve(ctx, record)
	if err != nil {
		c.logger.Warnw("breakpoint location not found", "record", record.String(), "error", err)
		return nil, nil
	}
	record.State.FileURL = resolved
	record.Metadata.URL = resolved

	if !c.registry.LineOriented(record.Kind) {
		return nil, nil
	}
	existing, err := c.debugger.FindAtLine(ctx, record.Kind, resolved, record.State.Line)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// staged without a conflict, like an unresolved path
		c.stats.Counter("lookup_failed").Inc(1)
		c.logger.Errorw("could not look up existing breakpoint", "record", record.String(), "error", err)
		return nil, nil
	}
	if existing == nil {
		return nil, nil
	}
	return &entity.ConflictEntry{Record: record, Existing: existing}, nil
}

func (c *controller) resolve(ctx context.Context, record *entity.Record) (uri.URI, error) {
	rel := record.RelativePath()
	resolved, err := c.workspaceUtils.AbsoluteURL(ctx, rel)
	if err != nil {
		return "", err
	}
	path, _ := entity.FilePath(resolved)
	exists, err := c.fs.FileExists(path)
	if err != nil {
		return "", &errors.PathResolutionError{RelativePath: rel, Err: err}
	}
	if !exists {
		return "", &errors.PathResolutionError{RelativePath: rel, Err: errors.New("file does not exist")}
	}
	return resolved, nil
}
