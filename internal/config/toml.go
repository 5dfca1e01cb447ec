// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultAPIKeyEnv is the environment variable read for the catalog API key.
const DefaultAPIKeyEnv = "HOLDSPLIT_API_KEY"

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Columns ColumnsConfig `toml:"columns"`
	Catalog CatalogConfig `toml:"catalog"`
	Log     LogConfig     `toml:"log"`
}

// ColumnsConfig maps default values for filled-in columns.
type ColumnsConfig struct {
	MaterialType *string `toml:"material-type"`
	ItemPolicy   *string `toml:"item-policy"`
}

// CatalogConfig maps the items API settings.
type CatalogConfig struct {
	BaseURL        *string `toml:"base-url"`
	APIKey         *string `toml:"api-key"`
	APIKeyEnv      *string `toml:"api-key-env"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return FileConfig{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ResolveAPIKey returns the configured key, falling back to the
// environment variable named by api-key-env.
func (c CatalogConfig) ResolveAPIKey(getenv func(string) string) string {
	if c.APIKey != nil && *c.APIKey != "" {
		return *c.APIKey
	}
	name := DefaultAPIKeyEnv
	if c.APIKeyEnv != nil && *c.APIKeyEnv != "" {
		name = *c.APIKeyEnv
	}
	return getenv(name)
}
