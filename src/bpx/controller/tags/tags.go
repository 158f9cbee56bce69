// Package tags edits the tags attached to breakpoints and keeps tag metadata in step with the debugger.
package tags

import (
	"context"
	"fmt"
	"sort"

	"github.com/uber-go/tally"
	"github.com/uber/bpx/src/bpx/controller/registry"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/gateway/debugger"
	"github.com/uber/bpx/src/bpx/internal/errors"
	workspaceutils "github.com/uber/bpx/src/bpx/internal/workspace-utils"
	tagsrepo "github.com/uber/bpx/src/bpx/repository/tags"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey   = "tag-editor"
	_configKey = "tags"
)

// Controller manages breakpoint tags.
type Controller interface {
	debugger.Listener

	// Validate checks edited rows and returns one error per offending row.
	Validate(rows []entity.Tag) []entity.FieldError
	// SaveTags replaces the tags of a breakpoint. Rows without a key are ignored.
	// Nothing is stored when validation fails.
	SaveTags(ctx context.Context, bp *entity.Breakpoint, rows []entity.Tag) ([]entity.FieldError, error)
	// RemoveTag removes a tag from every location and returns the number of locations changed.
	// Locations left without tags are forgotten.
	RemoveTag(ctx context.Context, tag entity.Tag) (int, error)
	// TagsOf returns the tags of a breakpoint, nil when it has none.
	TagsOf(ctx context.Context, bp *entity.Breakpoint) ([]entity.Tag, error)
	// Tagged returns the locations carrying the tag.
	Tagged(ctx context.Context, tag entity.Tag) ([]*entity.TagMetadata, error)
	// List returns the distinct tags of the workspace sorted by key and value.
	List(ctx context.Context) ([]entity.Tag, error)
	Enabled() bool
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Tags           tagsrepo.Repository
	Registry       registry.Registry
	Debugger       debugger.Gateway
	WorkspaceUtils workspaceutils.WorkspaceUtils
	Config         config.Provider
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
}

type controller struct {
	tags           tagsrepo.Repository
	registry       registry.Registry
	workspaceUtils workspaceutils.WorkspaceUtils
	logger         *zap.SugaredLogger
	stats          tally.Scope
	enabled        bool
}

// New creates a tag controller and subscribes it to debugger breakpoint events.
func New(p Params) (Controller, error) {
	cfg := tagsrepo.Config{Enabled: true}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting %s config: %w", _configKey, err)
	}

	c := &controller{
		tags:           p.Tags,
		registry:       p.Registry,
		workspaceUtils: p.WorkspaceUtils,
		logger:         p.Logger.With("component", _nameKey),
		stats:          p.Stats.SubScope(_nameKey),
		enabled:        cfg.Enabled,
	}
	p.Debugger.Subscribe(c)
	return c, nil
}

func (c *controller) Validate(rows []entity.Tag) []entity.FieldError {
	return entity.ValidateTags(rows)
}

func (c *controller) SaveTags(ctx context.Context, bp *entity.Breakpoint, rows []entity.Tag) ([]entity.FieldError, error) {
	if invalid := c.Validate(rows); len(invalid) > 0 {
		return invalid, nil
	}
	if !bp.State.HasSourcePosition() {
		return nil, errors.NoSourcePositionError
	}

	toSave := make([]entity.Tag, 0, len(rows))
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		toSave = append(toSave, row)
	}

	metadata, err := c.tags.FindOrCreate(ctx, bp.State.FileURL, bp.State.Line, c.relativePath(ctx, bp))
	if err != nil {
		return nil, err
	}
	metadata.Tags = toSave
	if err := c.tags.Save(ctx, metadata); err != nil {
		return nil, err
	}

	c.stats.Counter("saved").Inc(1)
	c.logger.Debugw("tags saved", "breakpoint", bp.String(), "tags", len(toSave))
	return nil, nil
}

func (c *controller) RemoveTag(ctx context.Context, tag entity.Tag) (int, error) {
	found, err := c.tags.FindByTag(ctx, tag)
	if err != nil {
		return 0, err
	}

	for _, m := range found {
		kept := make([]entity.Tag, 0, len(m.Tags))
		for _, t := range m.Tags {
			if t != tag {
				kept = append(kept, t)
			}
		}
		m.Tags = kept

		if len(m.Tags) == 0 {
			err = c.tags.RemoveMetadata(ctx, m)
		} else {
			err = c.tags.Save(ctx, m)
		}
		if err != nil {
			return 0, err
		}
	}

	c.stats.Counter("removed").Inc(int64(len(found)))
	c.logger.Infow("tag removed", "tag", tag.String(), "locations", len(found))
	return len(found), nil
}

func (c *controller) TagsOf(ctx context.Context, bp *entity.Breakpoint) ([]entity.Tag, error) {
	m, err := c.tags.Find(ctx, bp.State.FileURL, bp.State.Line)
	if err != nil {
		if errors.IsMetadataNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return m.Tags, nil
}

func (c *controller) Tagged(ctx context.Context, tag entity.Tag) ([]*entity.TagMetadata, error) {
	return c.tags.FindByTag(ctx, tag)
}

func (c *controller) List(ctx context.Context) ([]entity.Tag, error) {
	all, err := c.tags.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[entity.Tag]struct{})
	result := make([]entity.Tag, 0)
	for _, m := range all {
		for _, t := range m.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].Value < result[j].Value
	})
	return result, nil
}

func (c *controller) Enabled() bool {
	return c.enabled
}

// BreakpointAdded creates empty metadata at the location of a new line breakpoint.
func (c *controller) BreakpointAdded(ctx context.Context, bp *entity.Breakpoint) {
	if !c.tracks(bp) {
		return
	}
	if _, err := c.tags.FindOrCreate(ctx, bp.State.FileURL, bp.State.Line, c.relativePath(ctx, bp)); err != nil {
		c.logger.Errorw("could not create tag metadata", "breakpoint", bp.String(), "error", err)
	}
}

// BreakpointRemoved forgets the metadata at the location of a removed line breakpoint.
func (c *controller) BreakpointRemoved(ctx context.Context, bp *entity.Breakpoint) {
	if !c.tracks(bp) {
		return
	}
	if err := c.tags.Remove(ctx, bp.State.FileURL, bp.State.Line); err != nil {
		c.logger.Errorw("could not remove tag metadata", "breakpoint", bp.String(), "error", err)
	}
}

func (c *controller) tracks(bp *entity.Breakpoint) bool {
	return bp != nil && c.registry.LineOriented(bp.Kind) && bp.State.HasSourcePosition()
}

func (c *controller) relativePath(ctx context.Context, bp *entity.Breakpoint) string {
	rel, err := c.workspaceUtils.RelativePath(ctx, bp.State.FileURL)
	if err != nil {
		c.logger.Debugw("no relative path", "url", bp.State.FileURL, "error", err)
		return ""
	}
	return rel
}
