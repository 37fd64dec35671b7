package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sfcc-studio/scriptdebug/internal/safe"
)

// Layer represents a configuration layer source.
type Layer string

const (
	// LayerDefaults represents default configuration values.
	LayerDefaults Layer = "defaults"

	// LayerFile represents configuration from the YAML config file.
	LayerFile Layer = "file"

	// LayerDwJSON represents server credentials from a dw.json project descriptor.
	LayerDwJSON Layer = "dwjson"

	// LayerEnv represents configuration from environment variables.
	LayerEnv Layer = "env"
)

// LayeredLoader provides layered configuration loading.
// Configuration is loaded in the following order:
// 1. Defaults - hardcoded default values
// 2. File - configuration file (YAML)
// 3. dw.json - hostname and credentials of the project
// 4. Environment - SCRIPTDEBUG_* variables
//
// Each layer overrides values from previous layers. Command-line flags are applied by
// the CLI after loading.
type LayeredLoader struct {
	enabledLayers map[Layer]bool
}

// NewLayeredLoader creates a new layered configuration loader with all layers enabled.
func NewLayeredLoader() *LayeredLoader {
	return &LayeredLoader{
		enabledLayers: map[Layer]bool{
			LayerDefaults: true,
			LayerFile:     true,
			LayerDwJSON:   true,
			LayerEnv:      true,
		},
	}
}

// EnableLayer enables a specific configuration layer.
func (l *LayeredLoader) EnableLayer(layer Layer) {
	l.enabledLayers[layer] = true
}

// DisableLayer disables a specific configuration layer.
func (l *LayeredLoader) DisableLayer(layer Layer) {
	l.enabledLayers[layer] = false
}

// Load loads configuration with layered precedence.
// Missing files are skipped; malformed ones are errors.
func (l *LayeredLoader) Load(configPath, dwJSONPath string) (*Config, error) {
	var cfg *Config

	if l.enabledLayers[LayerDefaults] {
		cfg = DefaultConfig()
	} else {
		cfg = &Config{}
	}

	if l.enabledLayers[LayerFile] && configPath != "" {
		if err := l.mergeFromFile(cfg, configPath); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
		}
	}

	if l.enabledLayers[LayerDwJSON] && dwJSONPath != "" {
		if err := l.mergeFromDwJSON(cfg, dwJSONPath); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load %s: %w", dwJSONPath, err)
			}
		}
	}

	if l.enabledLayers[LayerEnv] {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from environment: %w", err)
		}
	}

	return cfg, nil
}

// mergeFromFile loads configuration from a YAML file and merges it into cfg.
func (l *LayeredLoader) mergeFromFile(cfg *Config, filePath string) error {
	data, err := safe.ReadFile(filePath, &safe.ReadOptions{AllowSymlinks: true})
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// mergeFromDwJSON copies the non-empty server fields of a dw.json file into cfg.
// JSON is a subset of YAML, so the YAML decoder reads it as is.
func (l *LayeredLoader) mergeFromDwJSON(cfg *Config, filePath string) error {
	data, err := safe.ReadFile(filePath, &safe.ReadOptions{AllowSymlinks: true})
	if err != nil {
		return err
	}

	var dw DwJSON
	if err := yaml.Unmarshal(data, &dw); err != nil {
		return fmt.Errorf("failed to parse dw.json: %w", err)
	}

	if dw.Hostname != "" {
		cfg.Server.Hostname = dw.Hostname
	}
	if dw.Username != "" {
		cfg.Server.Username = dw.Username
	}
	if dw.Password != "" {
		cfg.Server.Password = dw.Password
	}
	if dw.ClientID != "" {
		cfg.Server.ClientID = dw.ClientID
	}

	return nil
}

// ValidateConfig validates a configuration and returns detailed errors.
func (l *LayeredLoader) ValidateConfig(cfg Validator) error {
	return cfg.Validate()
}
