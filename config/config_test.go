package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.K)
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.SkipExisting)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"k-zero", func(c *Config) { c.K = 0 }, true},
		{"k-too-large", func(c *Config) { c.K = 1 << 16 }, true},
		{"no-workers", func(c *Config) { c.Workers = 0 }, true},
		{"bad-format", func(c *Config) { c.Format = "ocaml" }, true},
		{"bad-callgraph", func(c *Config) { c.CallGraph = "pta" }, true},
		{"negative-depth", func(c *Config) { c.MaxDepth = -1 }, true},
		{"msgpack", func(c *Config) { c.Format = "msgpack" }, false},
		{"uncapped", func(c *Config) { c.MaxDepth, c.MaxVertices = 0, 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.K = 3
	cfg.Format = "json"
	cfg.Functions = []string{"main.main"}
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.K)
	assert.Equal(t, "json", loaded.Format)
	assert.Equal(t, []string{"main.main"}, loaded.Functions)
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("k: [1"), 0644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("k: 0\n"), 0644))
	_, err = LoadFromFile(invalid)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PATHENUM_K", "4")
	t.Setenv("PATHENUM_FORMAT", "dot")
	t.Setenv("PATHENUM_STRICT", "yes")
	t.Setenv("PATHENUM_WORKERS", "not-a-number")
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	assert.Equal(t, 4, cfg.K)
	assert.Equal(t, "dot", cfg.Format)
	assert.True(t, cfg.Strict)
	assert.Equal(t, DefaultConfig().Workers, cfg.Workers)
}
