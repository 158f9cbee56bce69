package tags

import (
	"context"

	"github.com/uber/bpx/src/bpx/model"
)

// Backends selectable through the tags.backend config key.
const (
	BackendMemory = "memory"
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

// Persister stores tag metadata rows outside of the process.
type Persister interface {
	Load(ctx context.Context) ([]model.TagMetadataRow, error)
	Upsert(ctx context.Context, row model.TagMetadataRow) error
	Delete(ctx context.Context, url string, line int) error
	Close() error
}

type memoryPersister struct{}

// NewMemoryPersister returns a persister that keeps nothing beyond the process lifetime.
func NewMemoryPersister() Persister {
	return memoryPersister{}
}

func (memoryPersister) Load(context.Context) ([]model.TagMetadataRow, error) { return nil, nil }

func (memoryPersister) Upsert(context.Context, model.TagMetadataRow) error { return nil }

func (memoryPersister) Delete(context.Context, string, int) error { return nil }

func (memoryPersister) Close() error { return nil }
