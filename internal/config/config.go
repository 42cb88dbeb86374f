// Package config loads the optional YAML configuration for the quietjson
// command-line tool. The codec library itself takes no configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for the quietjson CLI.
type Config struct {
	Input  string       `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Dev    DevConfig    `yaml:"dev"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	Path            string `yaml:"path"`
	TrailingNewline bool   `yaml:"trailing_newline"`
}

// DevConfig contains development/debug options.
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			TrailingNewline: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, layered over defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in the current directory and
// its parents, returning "" when none exists.
func FindConfigFile() string {
	configNames := []string{".quietjson.yml", ".quietjson.yaml", "quietjson.yml", "quietjson.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return ""
}

// LoadConfigWithCLI loads config with CLI argument precedence: an explicit
// path wins over discovery, and non-empty CLI values override file values.
func LoadConfigWithCLI(configPath, cliInput, cliOutput string) (*Config, error) {
	path := configPath
	if path == "" {
		path = FindConfigFile()
	}

	cfg := NewConfig()
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cliInput != "" {
		cfg.Input = cliInput
	}
	if cliOutput != "" {
		cfg.Output.Path = cliOutput
	}
	return cfg, nil
}
