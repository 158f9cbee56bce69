package core

import (
	"fmt"
	"os"
	"path/filepath"

	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

const (
	_configDirEnv     = "BPX_CONFIG_DIR"
	_configOverlayEnv = "BPX_CONFIG_OVERLAY"
	_defaultConfigDir = "src/bpx/config"
	_metaFile         = "meta.yaml"
)

// ConfigModule provides the configuration provider.
var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

// ConfigDir overrides the directory holding meta.yaml.
type ConfigDir string

// ConfigParams are the inputs of NewConfig.
type ConfigParams struct {
	fx.In

	Dir ConfigDir `optional:"true"`
}

// Config is the configuration provider assembled from the files listed in meta.yaml.
type Config struct {
	provider uber_config.Provider
	files    []string
}

// Get implements config.Provider.
func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

// Name implements config.Provider.
func (c Config) Name() string {
	return "config"
}

// Files returns the loaded files in override order.
func (c Config) Files() []string {
	return append([]string(nil), c.files...)
}

// NewConfig loads the files listed by meta.yaml that exist, in order, followed by
// the file named by $BPX_CONFIG_OVERLAY. Later files override earlier ones and
// ${VAR:default} references are expanded from the environment.
func NewConfig(p ConfigParams) (uber_config.Provider, error) {
	dir := getConfigDir(p.Dir)

	listed, err := readMeta(dir)
	if err != nil {
		return nil, err
	}

	files := existing(listed)
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", dir)
	}
	if overlay := os.Getenv(_configOverlayEnv); overlay != "" {
		if _, err := os.Stat(overlay); err != nil {
			return nil, fmt.Errorf("reading %s: %w", _configOverlayEnv, err)
		}
		files = append(files, overlay)
	}

	opts := make([]uber_config.YAMLOption, 0, len(files)+1)
	for _, f := range files {
		opts = append(opts, uber_config.File(f))
	}
	opts = append(opts, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return Config{provider: provider, files: files}, nil
}

// readMeta returns the absolute paths of the files meta.yaml lists.
func readMeta(dir string) ([]string, error) {
	meta, err := uber_config.NewYAML(
		uber_config.File(filepath.Join(dir, _metaFile)),
		uber_config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var names []string
	if err := meta.Get("files").Populate(&names); err != nil {
		return nil, fmt.Errorf("failed to read files list from %s: %w", _metaFile, err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

func existing(paths []string) []string {
	var result []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			result = append(result, p)
		}
	}
	return result
}

func getConfigDir(override ConfigDir) string {
	if override != "" {
		return string(override)
	}
	if dir := os.Getenv(_configDirEnv); dir != "" {
		return dir
	}
	// relative to the workspace root
	return _defaultConfigDir
}
