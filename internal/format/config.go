package format

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents formatting configuration options
type Config struct {
	IndentSize    int  `yaml:"indent_size"`
	UseTabs       bool `yaml:"use_tabs"`
	MaxBlankLines int  `yaml:"max_blank_lines"`
}

// DefaultConfig returns the default formatting configuration
func DefaultConfig() *Config {
	return &Config{
		IndentSize:    4,
		MaxBlankLines: 1,
	}
}

// LoadConfig reads the format section of a project file such as
// sylvre.yml. A missing file yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	wrapper := struct {
		Format *Config `yaml:"format"`
	}{
		Format: DefaultConfig(),
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}

	config := wrapper.Format
	if config.IndentSize <= 0 {
		config.IndentSize = 4
	}
	if config.MaxBlankLines < 0 {
		config.MaxBlankLines = 0
	}

	return config, nil
}
