package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Empty(t, cfg.Input)
	assert.Empty(t, cfg.Output.Path)
	assert.True(t, cfg.Output.TrailingNewline)
	assert.False(t, cfg.Dev.Debug)
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
input: "in.json"
output:
  path: "out.json"
  trailing_newline: false
dev:
  debug: true
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".quietjson.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "in.json", cfg.Input)
	assert.Equal(t, "out.json", cfg.Output.Path)
	assert.False(t, cfg.Output.TrailingNewline)
	assert.True(t, cfg.Dev.Debug)
}

func TestConfig_LoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("input: [unclosed"), 0644))

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`input: "only.json"`), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "only.json", cfg.Input)
	assert.True(t, cfg.Output.TrailingNewline)
}

func TestLoadConfigWithCLI_Precedence(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cfg.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("input: \"file.json\"\noutput:\n  path: \"file-out.json\"\n"), 0644))

	cfg, err := LoadConfigWithCLI(configPath, "cli.json", "")
	require.NoError(t, err)

	// CLI values override file values; unset CLI values fall back.
	assert.Equal(t, "cli.json", cfg.Input)
	assert.Equal(t, "file-out.json", cfg.Output.Path)
}
