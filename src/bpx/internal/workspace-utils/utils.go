package workspaceutils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=utils.go -destination=workspaceutilsmock/utils_mock.go -package=workspaceutilsmock

const _configKey = "workspace"

// Module provides a new WorkspaceUtils.
var Module = fx.Provide(New)

// WorkspaceUtils resolves paths against the workspace root.
type WorkspaceUtils interface {
	// RootPath returns the configured workspace root, or the git top level of the working directory.
	RootPath(ctx context.Context) (string, error)
	// RelativePath returns the slash separated path of a file URL relative to the root.
	RelativePath(ctx context.Context, fileURL uri.URI) (string, error)
	// AbsoluteURL maps a workspace relative path back to a file URL.
	AbsoluteURL(ctx context.Context, relativePath string) (uri.URI, error)
}

// Params are the parameters required to create a new WorkspaceUtils.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
	FS     fs.BpxFS
}

type workspaceConfig struct {
	Root string `yaml:"root"`
}

type workspaceUtilsImpl struct {
	logger     *zap.SugaredLogger
	fs         fs.BpxFS
	configured string

	mu   sync.Mutex
	root string
}

// New creates a new WorkspaceUtils.
func New(p Params) (WorkspaceUtils, error) {
	var cfg workspaceConfig
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting %s config: %w", _configKey, err)
	}

	return &workspaceUtilsImpl{
		logger:     p.Logger,
		fs:         p.FS,
		configured: cfg.Root,
	}, nil
}

func (w *workspaceUtilsImpl) RootPath(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.root != "" {
		return w.root, nil
	}

	if w.configured != "" {
		root, err := filepath.Abs(w.configured)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errors.NoWorkspaceRootError, err)
		}
		w.root = root
		return w.root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.NoWorkspaceRootError, err)
	}
	out, err := w.fs.WorkspaceRoot(cwd)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not inside a git repository", errors.NoWorkspaceRootError, cwd)
	}

	w.root = strings.TrimSpace(string(out))
	w.logger.Debugf("workspace root: %s", w.root)
	return w.root, nil
}

func (w *workspaceUtilsImpl) RelativePath(ctx context.Context, fileURL uri.URI) (string, error) {
	root, err := w.RootPath(ctx)
	if err != nil {
		return "", err
	}

	path, ok := entity.FilePath(fileURL)
	if !ok {
		return "", fmt.Errorf("%s is not a local file", fileURL)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside of the workspace root %s", path, root)
	}
	return filepath.ToSlash(rel), nil
}

func (w *workspaceUtilsImpl) AbsoluteURL(ctx context.Context, relativePath string) (uri.URI, error) {
	if relativePath == "" {
		return "", &errors.PathResolutionError{RelativePath: relativePath, Err: errors.New("empty relative path")}
	}

	root, err := w.RootPath(ctx)
	if err != nil {
		return "", &errors.PathResolutionError{RelativePath: relativePath, Err: err}
	}

	return uri.File(filepath.Clean(filepath.Join(root, filepath.FromSlash(relativePath)))), nil
}
