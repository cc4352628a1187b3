package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-mdcontent/internal/config"
)

// envPrefix marks the environment variables read by mdcontent.
const envPrefix = "MDCONTENT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string // MDCONTENT_CONFIG: config file name or path
	SiteOrigin string // MDCONTENT_SITE_ORIGIN: origin for external-link detection

	// Tier 2 - I/O
	InputDir  string // MDCONTENT_INPUT_DIR: default content directory
	OutputDir string // MDCONTENT_OUTPUT_DIR: default output directory
	ScopeFile string // MDCONTENT_SCOPE: YAML scope for MDX expressions

	// Tier 3 - Extended
	Style          string // MDCONTENT_STYLE: chroma style name
	WordsPerMinute int    // MDCONTENT_WPM: reading speed
	Workers        int    // MDCONTENT_WORKERS: parallel workers
}

// knownEnvVars lists valid MDCONTENT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"MDCONTENT_CONFIG":      true,
	"MDCONTENT_SITE_ORIGIN": true,
	// Tier 2 - I/O
	"MDCONTENT_INPUT_DIR":  true,
	"MDCONTENT_OUTPUT_DIR": true,
	"MDCONTENT_SCOPE":      true,
	// Tier 3 - Extended
	"MDCONTENT_STYLE":   true,
	"MDCONTENT_WPM":     true,
	"MDCONTENT_WORKERS": true,
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized MDCONTENT_* values.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("MDCONTENT_CONFIG"),
		SiteOrigin: os.Getenv("MDCONTENT_SITE_ORIGIN"),
		// Tier 2
		InputDir:  os.Getenv("MDCONTENT_INPUT_DIR"),
		OutputDir: os.Getenv("MDCONTENT_OUTPUT_DIR"),
		ScopeFile: os.Getenv("MDCONTENT_SCOPE"),
		// Tier 3
		Style: os.Getenv("MDCONTENT_STYLE"),
	}

	cfg.WordsPerMinute = positiveEnvInt("MDCONTENT_WPM")
	cfg.Workers = positiveEnvInt("MDCONTENT_WORKERS")

	return cfg
}

// positiveEnvInt parses a positive integer variable. Invalid values are
// ignored so a stray export never blocks a build.
func positiveEnvInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars logs warnings for unrecognized MDCONTENT_* variables.
// Helps catch typos like MDCONTENT_OUTPUTDIR instead of MDCONTENT_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1 - Site
	if env.SiteOrigin != "" && cfg.Site.Origin == "" {
		cfg.Site.Origin = env.SiteOrigin
	}

	// Tier 2 - I/O
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.ScopeFile != "" && cfg.MDX.ScopeFile == "" {
		cfg.MDX.ScopeFile = env.ScopeFile
	}

	// Tier 3 - Rendering and batch
	if env.Style != "" && cfg.Render.HighlightStyle == "" {
		cfg.Render.HighlightStyle = env.Style
	}
	if env.WordsPerMinute > 0 && cfg.Reading.WordsPerMinute == 0 {
		cfg.Reading.WordsPerMinute = env.WordsPerMinute
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
