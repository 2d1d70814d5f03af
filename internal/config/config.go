package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/roguetools/internal/errors"
)

// Defaults shared by the config file and the CLI help text
const (
	DefaultWidth     = 20
	DefaultIndent    = 4
	DefaultExtension = ".json"

	maxWidth  = 1024
	maxIndent = 16
)

// Config represents the complete configuration for both tools
type Config struct {
	FlagTable  FlagTableConfig  `yaml:"flagtable"`
	FormatJSON FormatJSONConfig `yaml:"formatjson"`
	Dev        DevConfig        `yaml:"dev"`
}

// FlagTableConfig controls how #define tables are parsed and rendered
type FlagTableConfig struct {
	Width  int  `yaml:"width"`
	Strict bool `yaml:"strict"`
}

// FormatJSONConfig controls JSON canonicalization
type FormatJSONConfig struct {
	Indent         int    `yaml:"indent"`
	Extension      string `yaml:"extension"`
	FollowSymlinks bool   `yaml:"follow_symlinks"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// Overrides holds values given on the command line. Zero values mean
// the flag was not given and the file (or default) value is kept.
type Overrides struct {
	Width    int
	Strict   bool
	Indent   int
	NoFollow bool
	Debug    bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		FlagTable: FlagTableConfig{
			Width:  DefaultWidth,
			Strict: false,
		},
		FormatJSON: FormatJSONConfig{
			Indent:         DefaultIndent,
			Extension:      DefaultExtension,
			FollowSymlinks: true,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults so omitted keys keep them
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".roguetools.yml", ".roguetools.yaml", "roguetools.yml", "roguetools.yaml"}

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

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.FlagTable.Width < 1 || c.FlagTable.Width > maxWidth {
		return errors.NewConfigError(
			fmt.Sprintf("flagtable.width must be between 1 and %d, got %d", maxWidth, c.FlagTable.Width),
			errors.ErrInvalidConfig,
		)
	}
	if c.FormatJSON.Indent < 1 || c.FormatJSON.Indent > maxIndent {
		return errors.NewConfigError(
			fmt.Sprintf("formatjson.indent must be between 1 and %d, got %d", maxIndent, c.FormatJSON.Indent),
			errors.ErrInvalidConfig,
		)
	}
	if !strings.HasPrefix(c.FormatJSON.Extension, ".") || len(c.FormatJSON.Extension) < 2 {
		return errors.NewConfigError(
			fmt.Sprintf("formatjson.extension must look like \".json\", got %q", c.FormatJSON.Extension),
			errors.ErrInvalidConfig,
		)
	}
	return nil
}

// IndentString returns the indentation unit used for one nesting level
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.FormatJSON.Indent)
}

// Apply merges CLI overrides into c and validates the result
func (c *Config) Apply(o Overrides) error {
	if o.Width != 0 {
		c.FlagTable.Width = o.Width
	}
	if o.Strict {
		c.FlagTable.Strict = true
	}
	if o.Indent != 0 {
		c.FormatJSON.Indent = o.Indent
	}
	if o.NoFollow {
		c.FormatJSON.FollowSymlinks = false
	}
	if o.Debug {
		c.Dev.Debug = true
	}
	return c.Validate()
}

// LoadConfigWithCLI loads the config file (explicit path, else a discovered
// one, else defaults) and applies CLI overrides on top
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath == "" {
		configPath = FindConfigFile()
	}
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.Apply(o); err != nil {
		return nil, err
	}
	return cfg, nil
}
