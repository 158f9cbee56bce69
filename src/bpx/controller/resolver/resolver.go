// Package resolver installs staged breakpoints and merges their tags into the workspace.
package resolver

import (
	"context"
	"fmt"

	"github.com/uber-go/tally"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/gateway/debugger"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/repository/tags"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _nameKey = "resolver"

// Controller commits imported breakpoints.
type Controller interface {
	// Commit installs records in order. A record with a conflict is installed only
	// when its entry has Override set, replacing the existing breakpoint.
	// Failures of single records are combined into the returned error.
	Commit(ctx context.Context, records []*entity.Record, conflicts []*entity.ConflictEntry) (*entity.CommitResult, error)
}

// Params are inbound parameters to initialize a new resolver.
type Params struct {
	fx.In

	Debugger debugger.Gateway
	Tags     tags.Repository
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
}

type controller struct {
	debugger debugger.Gateway
	tags     tags.Repository
	logger   *zap.SugaredLogger
	stats    tally.Scope
}

// New creates a new resolver.
func New(p Params) Controller {
	return &controller{
		debugger: p.Debugger,
		tags:     p.Tags,
		logger:   p.Logger.With("component", _nameKey),
		stats:    p.Stats.SubScope(_nameKey),
	}
}

func (c *controller) Commit(ctx context.Context, records []*entity.Record, conflicts []*entity.ConflictEntry) (*entity.CommitResult, error) {
	byRecord := make(map[*entity.Record]*entity.ConflictEntry, len(conflicts))
	for _, conflict := range conflicts {
		byRecord[conflict.Record] = conflict
	}

	result := &entity.CommitResult{}
	var errs error
	defer func() {
		c.stats.Counter("applied").Inc(int64(result.Applied))
		c.stats.Counter("skipped").Inc(int64(result.Skipped))
		c.stats.Counter("failed").Inc(int64(result.Failed))
	}()

	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return result, multierr.Append(errs, err)
		}

		conflict := byRecord[record]
		if conflict != nil && !conflict.Override {
			c.logger.Infow("keeping existing breakpoint", "record", record.String(), "existing", conflict.Existing.ID)
			result.Skipped++
			continue
		}

		if err := c.apply(ctx, record, conflict); err != nil {
			c.logger.Errorw("could not import breakpoint", "record", record.String(), "error", err)
			errs = multierr.Append(errs, &errors.RecordError{Index: i, Kind: record.Kind.String(), Err: err})
			result.Failed++
			continue
		}
		result.Applied++
	}

	c.logger.Infow("committed breakpoints", "applied", result.Applied, "skipped", result.Skipped, "failed", result.Failed)
	return result, errs
}

func (c *controller) apply(ctx context.Context, record *entity.Record, conflict *entity.ConflictEntry) error {
	if conflict != nil {
		if err := c.debugger.Remove(ctx, conflict.Existing.ID, debugger.RemoveOptions{}); err != nil {
			return fmt.Errorf("removing overridden breakpoint: %w", err)
		}
	}

	bp := record.Breakpoint
	added, err := c.debugger.Add(ctx, &bp, debugger.AddOptions{Notify: false, Silent: true})
	if err != nil {
		return fmt.Errorf("adding breakpoint: %w", err)
	}

	if record.Metadata == nil {
		return nil
	}
	return c.mergeTags(ctx, added, record)
}

// mergeTags adds the imported tags whose keys are not yet set at the breakpoint's location.
func (c *controller) mergeTags(ctx context.Context, added *entity.Breakpoint, record *entity.Record) error {
	metadata, err := c.tags.FindOrCreate(ctx, added.State.FileURL, added.State.Line, record.RelativePath())
	if err != nil {
		return fmt.Errorf("loading metadata: %w", err)
	}

	keys := make(map[string]struct{}, len(metadata.Tags))
	for _, t := range metadata.Tags {
		keys[t.Key] = struct{}{}
	}
	changed := false
	for _, t := range record.Metadata.Tags {
		if _, ok := keys[t.Key]; ok {
			continue
		}
		keys[t.Key] = struct{}{}
		metadata.Tags = append(metadata.Tags, t)
		changed = true
	}
	if !changed {
		return nil
	}

	if err := c.tags.Save(ctx, metadata); err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}
	return nil
}
