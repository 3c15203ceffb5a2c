package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional providers YAML file:
//
//	default_provider: faster_whisper
//	providers:
//	  openai:
//	    settings:
//	      api_key: ${OPENAI_API_KEY}
type FileConfig struct {
	DefaultProvider string                    `yaml:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents configuration for a single provider
type ProviderConfig struct {
	// Provider type, when the entry name is an alias
	Type     string   `yaml:"type,omitempty"`
	Settings Settings `yaml:"settings"`
}

// LoadConfig reads a providers YAML file. ${VAR} references in string settings are expanded.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers config: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse providers config YAML: %w", err)
	}

	for name, pc := range cfg.Providers {
		for key, value := range pc.Settings {
			if s, ok := value.(string); ok {
				pc.Settings[key] = os.ExpandEnv(s)
			}
		}
		cfg.Providers[name] = pc
	}

	if cfg.DefaultProvider != "" {
		if _, ok := cfg.Providers[cfg.DefaultProvider]; !ok {
			return nil, fmt.Errorf("default provider '%s' not found in providers", cfg.DefaultProvider)
		}
	}
	return &cfg, nil
}

// Resolve maps a provider entry name to its registry type and settings.
// Unknown names resolve to themselves with no settings.
func (c *FileConfig) Resolve(name string) (string, Settings) {
	if c == nil {
		return name, Settings{}
	}
	pc, ok := c.Providers[name]
	if !ok {
		return name, Settings{}
	}
	typ := pc.Type
	if typ == "" {
		typ = name
	}
	if pc.Settings == nil {
		return typ, Settings{}
	}
	return typ, pc.Settings
}
