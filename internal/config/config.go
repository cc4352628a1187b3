package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdcontent/internal/fileutil"
	"github.com/alnah/go-mdcontent/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength        = 2048 // Browser limit
	MaxClassLength      = 100  // CSS class name
	MaxStyleLength      = 50   // Chroma style name
	MaxRelTokenLength   = 50   // "nofollow", "noopener"
	MaxPathLength       = 4096 // PATH_MAX on Linux
	MaxDateFormatLength = 50   // "dddd, MMMM D, YYYY"
)

// Numeric bounds.
const (
	MinWordsPerMinute = 1
	MaxWordsPerMinute = 2000
	MaxWorkers        = 64
)

// ConfigDirName is the directory searched under the user config dir.
const ConfigDirName = "go-mdcontent"

// Config holds all configuration for a content build.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Render  RenderConfig  `yaml:"render"`
	Reading ReadingConfig `yaml:"reading"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	MDX     MDXConfig     `yaml:"mdx"`
	Workers int           `yaml:"workers"` // 0 = auto
}

// SiteConfig identifies the site the content is published on.
type SiteConfig struct {
	Origin string `yaml:"origin"` // Empty = every absolute link is external
}

// RenderConfig tunes the HTML produced by the pipeline.
type RenderConfig struct {
	AutolinkClass  string   `yaml:"autolinkClass"`  // Empty = pipeline default
	HighlightStyle string   `yaml:"highlightStyle"` // Chroma style for the CSS file
	ExternalRel    []string `yaml:"externalRel"`    // Empty = pipeline default
}

// ReadingConfig defines reading-time estimation.
type ReadingConfig struct {
	WordsPerMinute int `yaml:"wordsPerMinute"` // 0 = pipeline default
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default content directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Manifest   bool   `yaml:"manifest"`   // Write manifest.json
	DateFormat string `yaml:"dateFormat"` // Manifest display date, e.g. "MMMM D, YYYY"
}

// MDXConfig defines MDX compilation options.
type MDXConfig struct {
	ScopeFile string `yaml:"scopeFile"` // YAML mapping exposed to expressions
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("site.origin", c.Site.Origin, MaxURLLength); err != nil {
		return err
	}
	if c.Site.Origin != "" {
		u, err := url.Parse(c.Site.Origin)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: site.origin must be an absolute http(s) URL, got %q", ErrInvalidValue, c.Site.Origin)
		}
	}

	if err := validateFieldLength("render.autolinkClass", c.Render.AutolinkClass, MaxClassLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.Render.AutolinkClass, " \t\n\"'<>") {
		return fmt.Errorf("%w: render.autolinkClass must be a single class name, got %q", ErrInvalidValue, c.Render.AutolinkClass)
	}
	if err := validateFieldLength("render.highlightStyle", c.Render.HighlightStyle, MaxStyleLength); err != nil {
		return err
	}
	for i, tok := range c.Render.ExternalRel {
		field := fmt.Sprintf("render.externalRel[%d]", i)
		if err := validateFieldLength(field, tok, MaxRelTokenLength); err != nil {
			return err
		}
		if tok == "" || strings.ContainsAny(tok, " \t\n") {
			return fmt.Errorf("%w: %s must be one non-empty token, got %q", ErrInvalidValue, field, tok)
		}
	}

	if wpm := c.Reading.WordsPerMinute; wpm != 0 && (wpm < MinWordsPerMinute || wpm > MaxWordsPerMinute) {
		return fmt.Errorf("%w: reading.wordsPerMinute must be between %d and %d, got %d",
			ErrInvalidValue, MinWordsPerMinute, MaxWordsPerMinute, wpm)
	}

	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dateFormat", c.Output.DateFormat, MaxDateFormatLength); err != nil {
		return err
	}
	if err := validateFieldLength("mdx.scopeFile", c.MDX.ScopeFile, MaxPathLength); err != nil {
		return err
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that defers every rendering choice
// to the pipeline defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists the files LoadConfig tries for a config name, in order:
// the current directory, then ~/.config/go-mdcontent/, each with .yaml
// before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, ConfigDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
