// Package tags stores the tag metadata attached to breakpoint locations.
package tags

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/uber-go/tally"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs"
	"github.com/uber/bpx/src/bpx/mapper"
	"github.com/uber/bpx/src/bpx/model"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey      = "tags"
	_configKey    = "tags"
	_entriesGauge = "metadata_entries"
)

// Repository is the tag metadata store.
// Returned metadata are copies, changes are stored through Save.
type Repository interface {
	Find(ctx context.Context, url uri.URI, line int) (*entity.TagMetadata, error)
	FindOrCreate(ctx context.Context, url uri.URI, line int, relativeURL string) (*entity.TagMetadata, error)
	FindByFile(ctx context.Context, url uri.URI) ([]*entity.TagMetadata, error)
	FindByTag(ctx context.Context, tag entity.Tag) ([]*entity.TagMetadata, error)
	Save(ctx context.Context, m *entity.TagMetadata) error
	Remove(ctx context.Context, url uri.URI, line int) error
	RemoveMetadata(ctx context.Context, m *entity.TagMetadata) error
	All(ctx context.Context) ([]*entity.TagMetadata, error)
}

// Config is the tags section of the configuration.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Params are inbound parameters to initialize a new repository.
type Params struct {
	fx.In

	Config    config.Provider
	FS        fs.BpxFS
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Lifecycle fx.Lifecycle
}

type repository struct {
	mu        sync.Mutex
	memstore  map[entity.MetadataKey]model.TagMetadataRow
	persister Persister
	stats     tally.Scope
	logger    *zap.SugaredLogger
}

// New returns a repository backed by the persister selected in the tags config section.
func New(p Params) (Repository, error) {
	cfg := Config{Enabled: true, Backend: BackendMemory}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting %s config: %w", _configKey, err)
	}

	ctx := context.Background()
	var (
		persister Persister
		err       error
	)
	switch cfg.Backend {
	case "", BackendMemory:
		persister = NewMemoryPersister()
	case BackendYAML:
		persister = NewYAMLPersister(p.FS, cfg.Path)
	case BackendSQLite:
		persister, err = NewSQLitePersister(ctx, p.FS, cfg.Path)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown tags backend %q", cfg.Backend)
	}

	r, err := NewWithPersister(ctx, persister, p.Stats, p.Logger)
	if err != nil {
		_ = persister.Close()
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return persister.Close()
		},
	})
	p.Logger.Infow("tag store ready", "backend", cfg.Backend, "path", cfg.Path)
	return r, nil
}

// NewWithPersister returns a repository loaded from the given persister.
func NewWithPersister(ctx context.Context, persister Persister, stats tally.Scope, logger *zap.SugaredLogger) (Repository, error) {
	r := &repository{
		memstore:  make(map[entity.MetadataKey]model.TagMetadataRow),
		persister: persister,
		stats:     stats.SubScope(_nameKey),
		logger:    logger.With("component", _nameKey),
	}

	rows, err := persister.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		m := mapper.RowToTagMetadata(row)
		r.memstore[m.Key()] = row
	}
	r.updateGauge()
	return r, nil
}

// Find returns the metadata at the given location.
func (r *repository) Find(ctx context.Context, url uri.URI, line int) (*entity.TagMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row, ok := r.memstore[entity.MetadataKey{URL: url, Line: line}]
	if !ok {
		return nil, &errors.MetadataNotFoundError{URL: string(url), Line: line}
	}
	return mapper.RowToTagMetadata(row), nil
}

// FindOrCreate returns the metadata at the given location, creating an untagged entry when absent.
func (r *repository) FindOrCreate(ctx context.Context, url uri.URI, line int, relativeURL string) (*entity.TagMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entity.MetadataKey{URL: url, Line: line}
	if row, ok := r.memstore[key]; ok {
		if row.RelativeURL != "" || relativeURL == "" {
			return mapper.RowToTagMetadata(row), nil
		}
		row.RelativeURL = relativeURL
		if err := r.put(ctx, key, row); err != nil {
			return nil, err
		}
		return mapper.RowToTagMetadata(row), nil
	}

	m := &entity.TagMetadata{URL: url, RelativeURL: relativeURL, Line: line}
	if err := r.put(ctx, key, mapper.TagMetadataToRow(m)); err != nil {
		return nil, err
	}
	m.Tags = []entity.Tag{}
	return m, nil
}

// FindByFile returns the metadata of a file ordered by line.
func (r *repository) FindByFile(ctx context.Context, url uri.URI) ([]*entity.TagMetadata, error) {
	return r.filter(func(row model.TagMetadataRow) bool {
		return row.URL == string(url)
	}), nil
}

// FindByTag returns the metadata carrying the tag.
func (r *repository) FindByTag(ctx context.Context, tag entity.Tag) ([]*entity.TagMetadata, error) {
	return r.filter(func(row model.TagMetadataRow) bool {
		for _, t := range row.Tags {
			if t.Key == tag.Key && t.Value == tag.Value {
				return true
			}
		}
		return false
	}), nil
}

// All returns every entry ordered by file and line.
func (r *repository) All(ctx context.Context) ([]*entity.TagMetadata, error) {
	return r.filter(func(model.TagMetadataRow) bool { return true }), nil
}

// Save stores the metadata, replacing the entry at the same location.
func (r *repository) Save(ctx context.Context, m *entity.TagMetadata) error {
	if m == nil {
		return errors.New("can't save nil metadata")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.put(ctx, m.Key(), mapper.TagMetadataToRow(m))
}

// Remove deletes the entry at the given location. Removing an absent entry is not an error.
func (r *repository) Remove(ctx context.Context, url uri.URI, line int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entity.MetadataKey{URL: url, Line: line}
	if _, ok := r.memstore[key]; !ok {
		return nil
	}
	if err := r.persister.Delete(ctx, string(url), line); err != nil {
		return err
	}
	delete(r.memstore, key)
	r.updateGauge()
	return nil
}

// RemoveMetadata deletes the entry identified by the metadata.
func (r *repository) RemoveMetadata(ctx context.Context, m *entity.TagMetadata) error {
	if m == nil {
		return nil
	}
	return r.Remove(ctx, m.URL, m.Line)
}

// put persists first so the index never holds a row the backend rejected.
func (r *repository) put(ctx context.Context, key entity.MetadataKey, row model.TagMetadataRow) error {
	if err := r.persister.Upsert(ctx, row); err != nil {
		return err
	}
	r.memstore[key] = row
	r.updateGauge()
	return nil
}

func (r *repository) filter(match func(model.TagMetadataRow) bool) []*entity.TagMetadata {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]*entity.TagMetadata, 0)
	for _, row := range r.memstore {
		if match(row) {
			found = append(found, mapper.RowToTagMetadata(row))
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].URL != found[j].URL {
			return found[i].URL < found[j].URL
		}
		return found[i].Line < found[j].Line
	})
	return found
}

func (r *repository) updateGauge() {
	r.stats.Gauge(_entriesGauge).Update(float64(len(r.memstore)))
}
