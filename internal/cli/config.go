package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds project settings read from loam.yaml. Flags override
// whatever the file sets.
type Config struct {
	SchemaDir string `yaml:"schema_dir"`
	Database  string `yaml:"database"`
	Format    string `yaml:"format"`
}

// DefaultConfigPath is looked up when no --config flag is given.
const DefaultConfigPath = "loam.yaml"

// LoadConfig reads a YAML config file. A missing file at the default
// path is not an error; a missing file named explicitly is.
func LoadConfig(path string, explicit bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
