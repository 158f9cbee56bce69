// Package factory builds sample values for tests.
package factory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/uber/bpx/src/bpx/entity"
	"go.lsp.dev/uri"
	"go.uber.org/config"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// Workspace creates a temporary workspace containing the given slash separated files.
func Workspace(t testing.TB, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// FileURL returns the URL of a workspace file.
func FileURL(root, relative string) uri.URI {
	return uri.File(filepath.Join(root, filepath.FromSlash(relative)))
}

// Config returns a static provider for the workspace with the given sections merged over the defaults.
func Config(t testing.TB, root string, sections map[string]any) config.Provider {
	t.Helper()
	values := map[string]any{
		"service":   map[string]any{"name": "bpx"},
		"logging":   map[string]any{"level": "debug", "encoding": "console"},
		"workspace": map[string]any{"root": root},
		"export":    map[string]any{"defaultFileName": "Breakpoints"},
		"tags":      map[string]any{"enabled": true, "backend": "memory"},
		"debugger":  map[string]any{"stateFile": ""},
	}
	for k, v := range sections {
		values[k] = v
	}
	p, err := config.NewStaticProvider(values)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// LineBreakpoint returns an enabled line breakpoint of the kind at the location.
func LineBreakpoint(kind entity.Kind, file uri.URI, line int) *entity.Breakpoint {
	bp := &entity.Breakpoint{
		ID:     UUID(),
		Kind:   kind,
		TypeID: kind.DefaultTypeID(),
		State: entity.BreakpointState{
			FileURL:       file,
			Line:          line,
			Enabled:       true,
			SuspendPolicy: entity.SuspendAll,
		},
	}
	if kind.Language() != entity.LanguagePython {
		bp.Properties = &entity.LineProperties{}
	}
	return bp
}

// MethodBreakpoint returns a Java method breakpoint at the location.
func MethodBreakpoint(file uri.URI, line int, class, method string) *entity.Breakpoint {
	return &entity.Breakpoint{
		ID:     UUID(),
		Kind:   entity.KindJavaMethod,
		TypeID: entity.KindJavaMethod.DefaultTypeID(),
		State: entity.BreakpointState{
			FileURL:       file,
			Line:          line,
			Enabled:       true,
			SuspendPolicy: entity.SuspendAll,
		},
		Properties: &entity.MethodProperties{ClassPattern: class, MethodName: method, WatchEntry: true},
	}
}
