// Package config holds the configuration of path enumeration runs.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nickng/pathenum/emit"
	"github.com/nickng/pathenum/unroll"
)

// ProjectFile is the project-level config file name.
const ProjectFile = ".pathenum.yaml"

// Config holds all configuration for pathenum.
type Config struct {
	// K is the loop unrolling bound per nesting level.
	K int `yaml:"k" env:"PATHENUM_K"`

	// Caps on the work done per procedure, procedures over the caps are
	// skipped. Zero disables a cap.
	MaxDepth    int `yaml:"max_depth" env:"PATHENUM_MAX_DEPTH"`
	MaxVertices int `yaml:"max_vertices" env:"PATHENUM_MAX_VERTICES"`

	// Workers is the number of procedures processed in parallel.
	Workers int `yaml:"workers" env:"PATHENUM_WORKERS"`

	// Output settings.
	Format       string `yaml:"format" env:"PATHENUM_FORMAT"`
	OutDir       string `yaml:"out_dir" env:"PATHENUM_OUT_DIR"`
	SkipExisting bool   `yaml:"skip_existing" env:"PATHENUM_SKIP_EXISTING"`

	// Strict aborts the run on the first failing procedure.
	Strict bool `yaml:"strict" env:"PATHENUM_STRICT"`

	// CallGraph is the algorithm selecting Go functions (static, cha, rta).
	CallGraph string `yaml:"callgraph" env:"PATHENUM_CALLGRAPH"`

	// Functions restricts the run to the named procedures.
	Functions []string `yaml:"functions,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		K:            1,
		MaxDepth:     6,
		MaxVertices:  1 << 20,
		Workers:      runtime.NumCPU(),
		Format:       "text",
		OutDir:       "",
		SkipExisting: true,
		Strict:       false,
		CallGraph:    "static",
	}
}

// globalConfigFilePath returns the global config file path
// (~/.config/pathenum/config.yaml).
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "pathenum", "config.yaml")
	}
	return filepath.Join(home, ".config", "pathenum", "config.yaml")
}

// GlobalFile returns the path of the global config file.
func GlobalFile() string {
	return globalConfigFilePath()
}

// Load reads configuration with the following priority (highest to lowest):
//  1. Environment variables
//  2. Project-level config (./.pathenum.yaml)
//  3. Global config (~/.config/pathenum/config.yaml)
//  4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()
	for _, path := range []string{globalConfigFilePath(), ProjectFile} {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "failed to parse config file %s", path)
			}
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config to YAML")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if i, ok := envInt("PATHENUM_K"); ok {
		cfg.K = i
	}
	if i, ok := envInt("PATHENUM_MAX_DEPTH"); ok {
		cfg.MaxDepth = i
	}
	if i, ok := envInt("PATHENUM_MAX_VERTICES"); ok {
		cfg.MaxVertices = i
	}
	if i, ok := envInt("PATHENUM_WORKERS"); ok {
		cfg.Workers = i
	}
	if v := os.Getenv("PATHENUM_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("PATHENUM_OUT_DIR"); v != "" {
		cfg.OutDir = v
	}
	if v := os.Getenv("PATHENUM_SKIP_EXISTING"); v != "" {
		cfg.SkipExisting = parseBool(v)
	}
	if v := os.Getenv("PATHENUM_STRICT"); v != "" {
		cfg.Strict = parseBool(v)
	}
	if v := os.Getenv("PATHENUM_CALLGRAPH"); v != "" {
		cfg.CallGraph = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func parseBool(v string) bool {
	return v == "true" || v == "1" || v == "yes"
}

// Validate checks that the configuration has valid fields.
func (c *Config) Validate() error {
	if c.K < 1 || c.K > unroll.MaxK {
		return errors.Errorf("k must be between 1 and %d", unroll.MaxK)
	}
	if c.MaxDepth < 0 {
		return errors.New("max_depth must be non-negative")
	}
	if c.MaxVertices < 0 {
		return errors.New("max_vertices must be non-negative")
	}
	if c.Workers < 1 {
		return errors.New("workers must be positive")
	}
	if _, err := emit.ForFormat(c.Format); err != nil {
		return err
	}
	switch c.CallGraph {
	case "static", "cha", "rta":
	default:
		return errors.Errorf("callgraph must be one of static, cha, rta (got %q)", c.CallGraph)
	}
	return nil
}
