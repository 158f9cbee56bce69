// Package exporter writes selected breakpoints and their tag metadata to an XML file.
package exporter

import (
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"

	"github.com/uber-go/tally"
	"github.com/uber/bpx/src/bpx/controller/registry"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs"
	workspaceutils "github.com/uber/bpx/src/bpx/internal/workspace-utils"
	"github.com/uber/bpx/src/bpx/mapper"
	"github.com/uber/bpx/src/bpx/model"
	"github.com/uber/bpx/src/bpx/repository/tags"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey         = "exporter"
	_configKey       = "export"
	_defaultFileName = "Breakpoints"
	_extension       = ".xml"
)

// Controller exports breakpoints.
type Controller interface {
	// Export writes the exportable breakpoints among selected, in the given order, to a new file.
	Export(ctx context.Context, selected []*entity.Breakpoint, req entity.ExportRequest) (*entity.ExportResult, error)
	// CanBeExported reports whether a breakpoint would be written by Export.
	CanBeExported(ctx context.Context, bp *entity.Breakpoint) bool
}

// Params are inbound parameters to initialize a new exporter.
type Params struct {
	fx.In

	Registry       registry.Registry
	Tags           tags.Repository
	WorkspaceUtils workspaceutils.WorkspaceUtils
	FS             fs.BpxFS
	Config         config.Provider
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
}

type exportConfig struct {
	DefaultFileName string `yaml:"defaultFileName"`
}

type controller struct {
	registry       registry.Registry
	tags           tags.Repository
	workspaceUtils workspaceutils.WorkspaceUtils
	fs             fs.BpxFS
	logger         *zap.SugaredLogger
	stats          tally.Scope
	defaultName    string
}

// New creates a new export controller.
func New(p Params) (Controller, error) {
	cfg := exportConfig{DefaultFileName: _defaultFileName}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting %s config: %w", _configKey, err)
	}
	if cfg.DefaultFileName == "" {
		cfg.DefaultFileName = _defaultFileName
	}

	return &controller{
		registry:       p.Registry,
		tags:           p.Tags,
		workspaceUtils: p.WorkspaceUtils,
		fs:             p.FS,
		logger:         p.Logger.With("component", _nameKey),
		stats:          p.Stats.SubScope(_nameKey),
		defaultName:    cfg.DefaultFileName,
	}, nil
}

func (c *controller) Export(ctx context.Context, selected []*entity.Breakpoint, req entity.ExportRequest) (*entity.ExportResult, error) {
	root, err := c.workspaceUtils.RootPath(ctx)
	if err != nil {
		return nil, err
	}

	dir := req.OutputDir
	if dir == "" {
		dir = root
	}
	exists, err := c.fs.DirExists(dir)
	if err != nil {
		return nil, &errors.IOError{Op: "stat", Path: dir, Err: err}
	}
	if !exists {
		return nil, &errors.IOError{Op: "export", Path: dir, Err: errors.New("output directory does not exist")}
	}

	doc := &model.ExportedDocument{
		CommitID:   req.Stamp.CommitID,
		BranchName: req.Stamp.BranchName,
	}
	result := &entity.ExportResult{}
	for _, bp := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := c.exportBreakpoint(ctx, bp)
		if err != nil {
			if !errors.IsRecordLevel(err) {
				return nil, err
			}
			c.logger.Infow("skipping breakpoint", "breakpoint", bp.String(), "reason", err.Error())
			result.Skipped++
			continue
		}
		doc.Breakpoints = append(doc.Breakpoints, record)
		result.Exported++
	}

	path, err := c.outputPath(dir, req.BaseName)
	if err != nil {
		return nil, err
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding breakpoints: %w", err)
	}
	data := make([]byte, 0, len(xml.Header)+len(out)+1)
	data = append(data, xml.Header...)
	data = append(data, out...)
	data = append(data, '\n')
	if err := c.fs.WriteFile(path, data); err != nil {
		return nil, &errors.IOError{Op: "write", Path: path, Err: err}
	}

	result.Path = path
	c.stats.Counter("exported").Inc(int64(result.Exported))
	c.stats.Counter("skipped").Inc(int64(result.Skipped))
	c.logger.Infow("exported breakpoints", "path", path, "exported", result.Exported, "skipped", result.Skipped)
	return result, nil
}

func (c *controller) CanBeExported(ctx context.Context, bp *entity.Breakpoint) bool {
	_, err := c.exportable(ctx, bp)
	return err == nil
}

// exportable returns the workspace relative path of the breakpoint's file.
func (c *controller) exportable(ctx context.Context, bp *entity.Breakpoint) (string, error) {
	if !c.registry.Supports(bp.Kind) {
		return "", &errors.UnsupportedKindError{Kind: string(bp.Kind)}
	}
	if !bp.State.HasSourcePosition() {
		return "", errors.NoSourcePositionError
	}

	path, ok := entity.FilePath(bp.State.FileURL)
	if !ok {
		return "", &errors.PathResolutionError{RelativePath: string(bp.State.FileURL), Err: errors.New("not a local file")}
	}
	exists, err := c.fs.FileExists(path)
	if err != nil || !exists {
		return "", &errors.PathResolutionError{RelativePath: path, Err: errors.New("file does not exist")}
	}

	rel, err := c.workspaceUtils.RelativePath(ctx, bp.State.FileURL)
	if err != nil {
		return "", &errors.PathResolutionError{RelativePath: path, Err: err}
	}
	return rel, nil
}

func (c *controller) exportBreakpoint(ctx context.Context, bp *entity.Breakpoint) (*model.ExportedBreakpoint, error) {
	rel, err := c.exportable(ctx, bp)
	if err != nil {
		return nil, err
	}

	record, err := c.registry.Serialize(bp)
	if err != nil {
		return nil, err
	}

	metadata, err := c.tags.FindOrCreate(ctx, bp.State.FileURL, bp.State.Line, rel)
	if err != nil {
		return nil, fmt.Errorf("loading metadata for %s: %w", bp.String(), err)
	}
	metadata.RelativeURL = rel
	record.Metadata = mapper.MetadataToPayload(metadata)
	return record, nil
}

// outputPath returns the first free name among base.xml, base(1).xml, base(2).xml and so on.
func (c *controller) outputPath(dir, base string) (string, error) {
	if base == "" {
		base = c.defaultName
	}

	for i := 0; ; i++ {
		name := base + _extension
		if i > 0 {
			name = fmt.Sprintf("%s(%d)%s", base, i, _extension)
		}
		path := filepath.Join(dir, name)
		exists, err := c.fs.FileExists(path)
		if err != nil {
			return "", &errors.IOError{Op: "stat", Path: path, Err: err}
		}
		if !exists {
			return path, nil
		}
	}
}
