// Package debugger is the gateway to the debugger's breakpoint registry.
package debugger

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/internal/errors"
	"github.com/uber/bpx/src/bpx/internal/fs"
	"github.com/uber/bpx/src/bpx/mapper"
	"github.com/uber/bpx/src/bpx/model"
	"go.lsp.dev/uri"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:generate mockgen -source=debugger.go -destination=debuggermock/debugger_mock.go -package=debuggermock

const (
	_nameKey   = "debugger"
	_configKey = "debugger"
)

// AddOptions control the side effects of installing a breakpoint.
type AddOptions struct {
	// Notify delivers the addition to subscribed listeners.
	Notify bool
	// Silent suppresses user facing reporting of the addition.
	Silent bool
}

// RemoveOptions control the side effects of removing a breakpoint.
type RemoveOptions struct {
	// Notify delivers the removal to subscribed listeners.
	Notify bool
}

// Listener observes breakpoint lifecycle events.
type Listener interface {
	BreakpointAdded(ctx context.Context, bp *entity.Breakpoint)
	BreakpointRemoved(ctx context.Context, bp *entity.Breakpoint)
}

// Gateway exposes the breakpoints installed in the debugger.
type Gateway interface {
	ListAll(ctx context.Context) ([]*entity.Breakpoint, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Breakpoint, error)
	// FindAtLine returns the breakpoint of the kind at the location, or nil if there is none.
	FindAtLine(ctx context.Context, kind entity.Kind, file uri.URI, line int) (*entity.Breakpoint, error)
	// Add installs a breakpoint and returns it with its assigned id.
	Add(ctx context.Context, bp *entity.Breakpoint, opts AddOptions) (*entity.Breakpoint, error)
	Remove(ctx context.Context, id uuid.UUID, opts RemoveOptions) error
	Subscribe(l Listener)
}

// Params are inbound parameters to initialize a new gateway.
type Params struct {
	fx.In

	Config config.Provider
	Logger *zap.SugaredLogger
	FS     fs.BpxFS
}

type gatewayConfig struct {
	StateFile string `yaml:"stateFile"`
}

type gateway struct {
	logger    *zap.SugaredLogger
	fs        fs.BpxFS
	stateFile string

	mu          sync.Mutex
	breakpoints []*entity.Breakpoint
	listeners   []Listener
}

// New returns a gateway backed by the local breakpoint registry.
// When debugger.stateFile is set, breakpoints are loaded from and saved to that YAML file.
func New(p Params) (Gateway, error) {
	var cfg gatewayConfig
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting %s config: %w", _configKey, err)
	}

	g := &gateway{
		logger:    p.Logger.With("component", _nameKey),
		fs:        p.FS,
		stateFile: cfg.StateFile,
	}
	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *gateway) ListAll(ctx context.Context) ([]*entity.Breakpoint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	result := make([]*entity.Breakpoint, 0, len(g.breakpoints))
	for _, bp := range g.breakpoints {
		result = append(result, clone(bp))
	}
	return result, nil
}

func (g *gateway) Get(ctx context.Context, id uuid.UUID) (*entity.Breakpoint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, bp := range g.breakpoints {
		if bp.ID == id {
			return clone(bp), nil
		}
	}
	return nil, &errors.BreakpointNotFoundError{ID: id.String()}
}

func (g *gateway) FindAtLine(ctx context.Context, kind entity.Kind, file uri.URI, line int) (*entity.Breakpoint, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, bp := range g.breakpoints {
		if bp.Kind == kind && bp.State.FileURL == file && bp.State.Line == line {
			return clone(bp), nil
		}
	}
	return nil, nil
}

func (g *gateway) Add(ctx context.Context, bp *entity.Breakpoint, opts AddOptions) (*entity.Breakpoint, error) {
	if bp == nil {
		return nil, errors.New("can't add nil breakpoint")
	}

	added := clone(bp)
	if added.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return nil, fmt.Errorf("generating breakpoint id: %w", err)
		}
		added.ID = id
	}

	g.mu.Lock()
	g.breakpoints = append(g.breakpoints, added)
	if err := g.save(); err != nil {
		g.breakpoints = g.breakpoints[:len(g.breakpoints)-1]
		g.mu.Unlock()
		return nil, err
	}
	listeners := append([]Listener(nil), g.listeners...)
	g.mu.Unlock()

	if !opts.Silent {
		g.logger.Infow("breakpoint added", "id", added.ID, "kind", added.Kind.String(), "url", added.State.FileURL, "line", added.State.Line)
	}
	if opts.Notify {
		for _, l := range listeners {
			l.BreakpointAdded(ctx, clone(added))
		}
	}
	return clone(added), nil
}

func (g *gateway) Remove(ctx context.Context, id uuid.UUID, opts RemoveOptions) error {
	g.mu.Lock()
	idx := -1
	for i, bp := range g.breakpoints {
		if bp.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		g.mu.Unlock()
		return &errors.BreakpointNotFoundError{ID: id.String()}
	}

	removed := g.breakpoints[idx]
	previous := g.breakpoints
	g.breakpoints = append(append([]*entity.Breakpoint(nil), previous[:idx]...), previous[idx+1:]...)
	if err := g.save(); err != nil {
		g.breakpoints = previous
		g.mu.Unlock()
		return err
	}
	listeners := append([]Listener(nil), g.listeners...)
	g.mu.Unlock()

	g.logger.Debugw("breakpoint removed", "id", id)
	if opts.Notify {
		for _, l := range listeners {
			l.BreakpointRemoved(ctx, removed)
		}
	}
	return nil
}

func (g *gateway) Subscribe(l Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

func (g *gateway) load() error {
	if g.stateFile == "" {
		return nil
	}

	exists, err := g.fs.FileExists(g.stateFile)
	if err != nil {
		return &errors.IOError{Op: "stat", Path: g.stateFile, Err: err}
	}
	if !exists {
		return nil
	}

	content, err := g.fs.ReadFile(g.stateFile)
	if err != nil {
		return &errors.IOError{Op: "read", Path: g.stateFile, Err: err}
	}

	var state model.DebuggerState
	if err := yaml.Unmarshal(content, &state); err != nil {
		return fmt.Errorf("parsing debugger state %s: %w", g.stateFile, err)
	}

	for _, p := range state.Breakpoints {
		bp, err := mapper.PersistedToBreakpoint(p)
		if err != nil {
			g.logger.Warnw("skipping saved breakpoint", "error", err)
			continue
		}
		g.breakpoints = append(g.breakpoints, bp)
	}
	g.logger.Debugw("loaded breakpoints", "count", len(g.breakpoints), "stateFile", g.stateFile)
	return nil
}

// save must be called with mu held.
func (g *gateway) save() error {
	if g.stateFile == "" {
		return nil
	}

	state := model.DebuggerState{Breakpoints: make([]model.PersistedBreakpoint, 0, len(g.breakpoints))}
	for _, bp := range g.breakpoints {
		state.Breakpoints = append(state.Breakpoints, mapper.BreakpointToPersisted(bp))
	}
	content, err := yaml.Marshal(&state)
	if err != nil {
		return fmt.Errorf("encoding debugger state: %w", err)
	}

	if err := g.fs.MkdirAll(filepath.Dir(g.stateFile)); err != nil {
		return &errors.IOError{Op: "mkdir", Path: filepath.Dir(g.stateFile), Err: err}
	}
	tmp := g.stateFile + ".tmp"
	if err := g.fs.WriteFile(tmp, content); err != nil {
		return &errors.IOError{Op: "write", Path: tmp, Err: err}
	}
	if err := g.fs.Rename(tmp, g.stateFile); err != nil {
		return &errors.IOError{Op: "rename", Path: g.stateFile, Err: err}
	}
	return nil
}

func clone(bp *entity.Breakpoint) *entity.Breakpoint {
	c := *bp
	switch p := bp.Properties.(type) {
	case *entity.LineProperties:
		lp := *p
		lp.ClassFilters = append([]string(nil), p.ClassFilters...)
		c.Properties = &lp
	case *entity.MethodProperties:
		mp := *p
		c.Properties = &mp
	case *entity.FieldProperties:
		fp := *p
		c.Properties = &fp
	}
	return &c
}
