package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/uber/bpx/src/bpx/internal/fs"
	"github.com/uber/bpx/src/bpx/repository/tags"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Context describes where bpx runs.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that bpx is running on a developer machine.
	EnvLocal = "local"

	// EnvCI indicates that bpx is running in continuous integration.
	EnvCI = "ci"

	// Environment variables
	_envBpxEnvironment = "BPX_ENVIRONMENT"
)

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envBpxEnvironment) == EnvCI {
		envValue = EnvCI
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Cfg config.Provider
	FS  fs.BpxFS
}

// decorateConfigProvider prepares the directories the configuration points at before any component opens them.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %v", err)
	}

	if err := ensureStateFolders(combined, p.FS); err != nil {
		return nil, fmt.Errorf("ensuring state folders: %v", err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, fs fs.BpxFS) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range c.OutputPaths {
		if outputPath == "stdout" || outputPath == "stderr" {
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(outputPath)); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}

// ensureStateFolders creates the parent directories of the tag store and debugger state files.
func ensureStateFolders(cfg config.Provider, fs fs.BpxFS) error {
	var tagsCfg tags.Config
	if err := cfg.Get("tags").Populate(&tagsCfg); err != nil {
		return fmt.Errorf("loading tags config: %v", err)
	}
	var debuggerCfg struct {
		StateFile string `yaml:"stateFile"`
	}
	if err := cfg.Get("debugger").Populate(&debuggerCfg); err != nil {
		return fmt.Errorf("loading debugger config: %v", err)
	}

	var files []string
	if tagsCfg.Backend != "" && tagsCfg.Backend != tags.BackendMemory {
		files = append(files, tagsCfg.Path)
	}
	files = append(files, debuggerCfg.StateFile)

	for _, file := range files {
		if file == "" {
			continue
		}
		if err := fs.MkdirAll(filepath.Dir(file)); err != nil {
			return fmt.Errorf("creating directory for %s: %v", file, err)
		}
	}
	return nil
}
