package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/redact"
)

// Config represents the complete configuration for jsonkit
type Config struct {
	Format FormatConfig `yaml:"format"`
	Parse  ParseConfig  `yaml:"parse"`
	Mask   MaskConfig   `yaml:"mask"`
	Dev    DevConfig    `yaml:"dev"`
}

// FormatConfig controls output layout
type FormatConfig struct {
	Indent   bool   `yaml:"indent"`
	NewLine  string `yaml:"new_line"`
	SoftTabs bool   `yaml:"soft_tabs"`
	TabWidth int    `yaml:"tab_width"`
}

// ParseConfig controls how input is read
type ParseConfig struct {
	Strict          bool   `yaml:"strict"`
	MaxDepth        int    `yaml:"max_depth"`
	Encoding        string `yaml:"encoding"`
	StandardEscapes bool   `yaml:"standard_escapes"`
}

// MaskConfig lists members whose values are replaced before output
type MaskConfig struct {
	Fields         []string      `yaml:"fields"`
	Patterns       []MaskPattern `yaml:"patterns"`
	Placeholder    string        `yaml:"placeholder"`
	NormalizeNames bool          `yaml:"normalize_names"`
}

// MaskPattern masks every member whose name matches a regular expression
type MaskPattern struct {
	Pattern string `yaml:"pattern"`
	Comment string `yaml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	opts := formatter.DefaultOptions()
	return &Config{
		Format: FormatConfig{
			Indent:   opts.Indent,
			NewLine:  opts.NewLine,
			SoftTabs: opts.SoftTabs,
			TabWidth: opts.TabWidth,
		},
		Parse: ParseConfig{
			Strict:   false,
			MaxDepth: parser.DefaultMaxDepth,
		},
		Mask: MaskConfig{
			Fields:      []string{},
			Patterns:    []MaskPattern{},
			Placeholder: redact.DefaultPlaceholder,
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

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonkit.yml", ".jsonkit.yaml", "jsonkit.yml", "jsonkit.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks every section and compiles mask patterns
func (c *Config) Validate() error {
	if _, err := formatter.NewFormatter(c.FormatterOptions()); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if _, err := parser.NewParser(c.ParserOptions()...); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if err := c.Mask.compilePatterns(); err != nil {
		return fmt.Errorf("mask: %w", err)
	}
	return nil
}

// FormatterOptions converts the format section for formatter.NewFormatter
func (c *Config) FormatterOptions() formatter.Options {
	return formatter.Options{
		Indent:   c.Format.Indent,
		NewLine:  c.Format.NewLine,
		SoftTabs: c.Format.SoftTabs,
		TabWidth: c.Format.TabWidth,
	}
}

// ParserOptions converts the parse section for parser.NewParser
func (c *Config) ParserOptions() []parser.Option {
	return []parser.Option{
		parser.WithStrict(c.Parse.Strict),
		parser.WithMaxDepth(c.Parse.MaxDepth),
		parser.WithEncoding(c.Parse.Encoding),
		parser.WithStandardEscapes(c.Parse.StandardEscapes),
	}
}

// compilePatterns compiles all regex patterns in the mask section
func (m *MaskConfig) compilePatterns() error {
	for i := range m.Patterns {
		pattern := &m.Patterns[i]
		regex, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return fmt.Errorf("invalid mask pattern '%s': %w", pattern.Pattern, err)
		}
		pattern.regex = regex
	}
	return nil
}

// MatchesField checks if this pattern matches the given member name
func (mp *MaskPattern) MatchesField(name string) bool {
	if mp.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(mp.Pattern)
		if err != nil {
			return false
		}
		mp.regex = regex
	}
	return mp.regex.MatchString(name)
}

// Enabled reports whether anything is configured to be masked
func (m *MaskConfig) Enabled() bool {
	return len(m.Fields) > 0 || len(m.Patterns) > 0
}

// Matches reports whether a member name should be masked. With
// NormalizeNames set, authPass, auth_pass and AuthPass are the same name.
func (m *MaskConfig) Matches(name string) bool {
	for _, field := range m.Fields {
		if field == name {
			return true
		}
		if m.NormalizeNames && strcase.ToSnake(field) == strcase.ToSnake(name) {
			return true
		}
	}
	for i := range m.Patterns {
		if m.Patterns[i].MatchesField(name) {
			return true
		}
	}
	return false
}

var _ redact.Matcher = (*MaskConfig)(nil)

// MergeConfigs merges CLI overrides into a base config.
// Non-empty values from override take precedence over base values; boolean
// switches can only be turned on and mask fields accumulate.
func MergeConfigs(base, override *Config) *Config {
	merged := *base // Start with a copy of base

	merged.Format.Indent = base.Format.Indent || override.Format.Indent
	merged.Format.SoftTabs = base.Format.SoftTabs || override.Format.SoftTabs
	if override.Format.NewLine != "" {
		merged.Format.NewLine = override.Format.NewLine
	}
	if override.Format.TabWidth > 0 {
		merged.Format.TabWidth = override.Format.TabWidth
	}

	merged.Parse.Strict = base.Parse.Strict || override.Parse.Strict
	merged.Parse.StandardEscapes = base.Parse.StandardEscapes || override.Parse.StandardEscapes
	if override.Parse.MaxDepth > 0 {
		merged.Parse.MaxDepth = override.Parse.MaxDepth
	}
	if override.Parse.Encoding != "" {
		merged.Parse.Encoding = override.Parse.Encoding
	}

	merged.Mask.Fields = append(append([]string{}, base.Mask.Fields...), override.Mask.Fields...)
	merged.Mask.Patterns = append(append([]MaskPattern{}, base.Mask.Patterns...), override.Mask.Patterns...)
	if override.Mask.Placeholder != "" {
		merged.Mask.Placeholder = override.Mask.Placeholder
	}
	merged.Mask.NormalizeNames = base.Mask.NormalizeNames || override.Mask.NormalizeNames

	merged.Dev.Debug = base.Dev.Debug || override.Dev.Debug

	return &merged
}

// LoadConfigWithCLI loads the config file at configPath, or the defaults
// when it is empty, and applies the CLI overrides on top
func LoadConfigWithCLI(configPath string, cli *Config) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli == nil {
		return cfg, nil
	}

	merged := MergeConfigs(cfg, cli)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
