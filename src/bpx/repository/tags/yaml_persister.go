package tags

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs"
	"github.com/uber/bpx/src/bpx/model"
	"gopkg.in/yaml.v3"
)

const _stateVersion = 1

type rowKey struct {
	url  string
	line int
}

type yamlPersister struct {
	fs   fs.BpxFS
	path string

	mu   sync.Mutex
	rows map[rowKey]model.TagMetadataRow
}

// NewYAMLPersister returns a persister that rewrites a YAML state file on every change.
func NewYAMLPersister(bpxFS fs.BpxFS, path string) Persister {
	return &yamlPersister{
		fs:   bpxFS,
		path: path,
		rows: make(map[rowKey]model.TagMetadataRow),
	}
}

func (y *yamlPersister) Load(ctx context.Context) ([]model.TagMetadataRow, error) {
	y.mu.Lock()
	defer y.mu.Unlock()

	exists, err := y.fs.FileExists(y.path)
	if err != nil {
		return nil, &errors.IOError{Op: "stat", Path: y.path, Err: err}
	}
	if !exists {
		return nil, nil
	}
	content, err := y.fs.ReadFile(y.path)
	if err != nil {
		return nil, &errors.IOError{Op: "read", Path: y.path, Err: err}
	}

	var state model.TagState
	if err := yaml.Unmarshal(content, &state); err != nil {
		return nil, fmt.Errorf("parsing tag state %s: %w", y.path, err)
	}
	if state.Version > _stateVersion {
		return nil, fmt.Errorf("tag state %s has unsupported version %d", y.path, state.Version)
	}

	for _, row := range state.Entries {
		y.rows[rowKey{url: row.URL, line: row.Line}] = row
	}
	return state.Entries, nil
}

func (y *yamlPersister) Upsert(ctx context.Context, row model.TagMetadataRow) error {
	y.mu.Lock()
	defer y.mu.Unlock()

	y.rows[rowKey{url: row.URL, line: row.Line}] = row
	return y.flush()
}

func (y *yamlPersister) Delete(ctx context.Context, url string, line int) error {
	y.mu.Lock()
	defer y.mu.Unlock()

	k := rowKey{url: url, line: line}
	if _, ok := y.rows[k]; !ok {
		return nil
	}
	delete(y.rows, k)
	return y.flush()
}

func (y *yamlPersister) Close() error {
	return nil
}

// flush writes to a temporary file first so a failed write keeps the previous state.
func (y *yamlPersister) flush() error {
	state := model.TagState{Version: _stateVersion, Entries: make([]model.TagMetadataRow, 0, len(y.rows))}
	for _, row := range y.rows {
		state.Entries = append(state.Entries, row)
	}
	sort.Slice(state.Entries, func(i, j int) bool {
		if state.Entries[i].URL != state.Entries[j].URL {
			return state.Entries[i].URL < state.Entries[j].URL
		}
		return state.Entries[i].Line < state.Entries[j].Line
	})

	content, err := yaml.Marshal(&state)
	if err != nil {
		return fmt.Errorf("encoding tag state: %w", err)
	}

	if err := y.fs.MkdirAll(filepath.Dir(y.path)); err != nil {
		return &errors.IOError{Op: "mkdir", Path: filepath.Dir(y.path), Err: err}
	}
	tmp := y.path + ".tmp"
	if err := y.fs.WriteFile(tmp, content); err != nil {
		return &errors.IOError{Op: "write", Path: tmp, Err: err}
	}
	if err := y.fs.Rename(tmp, y.path); err != nil {
		return &errors.IOError{Op: "rename", Path: y.path, Err: err}
	}
	return nil
}
