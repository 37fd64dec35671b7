package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sfcc-studio/scriptdebug/internal/constants"
)

// Loader resolves config file locations and loads or saves the configuration.
type Loader struct {
	homeDir string
}

// NewLoader creates a new config loader.
// The base directory is resolved in this order:
//  1. SCRIPTDEBUG_CONFIG environment variable.
//  2. User home directory (~/).
//  3. /tmp/scriptdebug-fallback when no home directory exists.
func NewLoader() *Loader {
	if baseDir := os.Getenv(constants.EnvPrefix + "CONFIG"); baseDir != "" {
		return &Loader{homeDir: baseDir}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return &Loader{homeDir: homeDir}
	}

	return &Loader{homeDir: "/tmp/scriptdebug-fallback"}
}

// ConfigPath returns the path to the default config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.homeDir, constants.DefaultDir, constants.ConfigFile)
}

// HistoryPath returns the path to the console history file.
func (l *Loader) HistoryPath() string {
	return filepath.Join(l.homeDir, constants.DefaultDir, constants.HistoryFile)
}

// Load loads the configuration.
// configPath overrides the default config file; projectDir, when set, is searched for dw.json.
func (l *Loader) Load(configPath, projectDir string) (*Config, error) {
	if configPath == "" {
		configPath = l.ConfigPath()
	}

	var dwJSONPath string
	if projectDir != "" {
		dwJSONPath = filepath.Join(projectDir, constants.DwJSONFile)
	}

	cfg, err := NewLayeredLoader().Load(configPath, dwJSONPath)
	if err != nil {
		return nil, err
	}

	// Relative source roots are relative to the project, not the working directory.
	if projectDir != "" && !filepath.IsAbs(cfg.Debugger.SourceRoot) {
		cfg.Debugger.SourceRoot = filepath.Join(projectDir, cfg.Debugger.SourceRoot)
	}

	return cfg, nil
}

// Save writes the configuration to the default config file.
// The file holds credentials and is written 0600.
func (l *Loader) Save(cfg *Config) error {
	path := l.ConfigPath()

	//nolint:gosec // G301: Directory needs standard permissions for traversal
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
