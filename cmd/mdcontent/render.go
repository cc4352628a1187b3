package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alecthomas/chroma/v2/styles"

	mdcontent "github.com/alnah/go-mdcontent"
	"github.com/alnah/go-mdcontent/internal/config"
	"github.com/alnah/go-mdcontent/internal/dateutil"
	"github.com/alnah/go-mdcontent/internal/fileutil"
	"github.com/alnah/go-mdcontent/internal/yamlutil"
)

// ErrStyleNotFound reports a highlight style chroma does not know.
var ErrStyleNotFound = errors.New("highlight style not found")

// build holds everything resolved once per render command.
type build struct {
	pipeline  *mdcontent.Pipeline
	cfg       *config.Config
	flags     *renderFlags
	inputPath string
	outputDir string
	workers   int
}

// runRender orchestrates the render process.
func runRender(ctx context.Context, positionalArgs []string, flags *renderFlags, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadRenderConfig(flags.common.config, envCfg.ConfigPath, env)
	if err != nil {
		return err
	}

	// Precedence: config file < environment < CLI flags
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := validateSettings(cfg); err != nil {
		return err
	}

	p, err := mdcontent.NewPipeline(buildPipelineOptions(cfg, flags.html.noAutolink)...)
	if err != nil {
		return fmt.Errorf("%w%s", err, hintFor(err))
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	b := &build{
		pipeline:  p,
		cfg:       cfg,
		flags:     flags,
		inputPath: inputPath,
		outputDir: resolveOutputDir(flags.output, cfg),
		workers:   resolveWorkers(flags.workers, cfg.Workers),
	}
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", b.workers)
	}

	if !flags.watch {
		return b.run(ctx, env)
	}

	// In watch mode a failed build is reported and the next change retried.
	rebuild := func(ctx context.Context) {
		if err := b.run(ctx, env); err != nil && ctx.Err() == nil {
			fmt.Fprintln(env.Stderr, err)
		}
	}
	rebuild(ctx)
	return watchContent(ctx, watchTarget{
		root:      inputPath,
		scopeFile: cfg.MDX.ScopeFile,
	}, rebuild, env)
}

// loadRenderConfig loads the config named by the flag, else by
// MDCONTENT_CONFIG, else returns a copy of the environment's config.
func loadRenderConfig(flagConfig, envConfig string, env *Environment) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envConfig
	}
	if name == "" {
		base := config.DefaultConfig()
		if env.Config != nil {
			*base = *env.Config
		}
		return base, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w%s", err, configHint(err, name))
	}
	return cfg, nil
}

// validateSettings checks the merged configuration, including the values
// only the CLI can verify.
func validateSettings(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if name := cfg.Render.HighlightStyle; name != "" {
		if _, ok := styles.Registry[name]; !ok {
			err := fmt.Errorf("%w: %q", ErrStyleNotFound, name)
			return fmt.Errorf("%w%s", err, hintFor(err))
		}
	}
	if _, err := dateutil.ResolveFormat(cfg.Output.DateFormat); err != nil {
		return fmt.Errorf("invalid settings: output.dateFormat: %w", err)
	}
	return nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *renderFlags, cfg *config.Config) {
	// Site flags
	if flags.site.origin != "" {
		cfg.Site.Origin = flags.site.origin
	}
	if len(flags.site.rel) > 0 {
		cfg.Render.ExternalRel = flags.site.rel
	}

	// HTML flags
	if flags.html.autolinkClass != "" {
		cfg.Render.AutolinkClass = flags.html.autolinkClass
	}
	if flags.html.style != "" {
		cfg.Render.HighlightStyle = flags.html.style
	}

	// Reading and MDX flags
	if flags.wpm != 0 {
		cfg.Reading.WordsPerMinute = flags.wpm
	}
	if flags.scope != "" {
		cfg.MDX.ScopeFile = flags.scope
	}

	// Output flags
	if flags.outputs.manifest {
		cfg.Output.Manifest = true
	}
	if flags.outputs.dateFormat != "" {
		cfg.Output.DateFormat = flags.outputs.dateFormat
	}

	// Disable flags
	if flags.outputs.noManifest {
		cfg.Output.Manifest = false
	}
}

// buildPipelineOptions maps the merged configuration to pipeline options.
// Zero values keep the pipeline defaults.
func buildPipelineOptions(cfg *config.Config, noAutolink bool) []mdcontent.Option {
	var opts []mdcontent.Option
	if cfg.Site.Origin != "" {
		opts = append(opts, mdcontent.WithSiteOrigin(cfg.Site.Origin))
	}
	if noAutolink {
		opts = append(opts, mdcontent.WithAutolinkClass(""))
	} else if cfg.Render.AutolinkClass != "" {
		opts = append(opts, mdcontent.WithAutolinkClass(cfg.Render.AutolinkClass))
	}
	if cfg.Render.HighlightStyle != "" {
		opts = append(opts, mdcontent.WithHighlightStyle(cfg.Render.HighlightStyle))
	}
	if len(cfg.Render.ExternalRel) > 0 {
		opts = append(opts, mdcontent.WithExternalLinkRel(cfg.Render.ExternalRel...))
	}
	if cfg.Reading.WordsPerMinute > 0 {
		opts = append(opts, mdcontent.WithReadingSpeed(cfg.Reading.WordsPerMinute))
	}
	return opts
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// loadScope reads the MDX scope file. No file means an empty scope.
func loadScope(path string) (mdcontent.Scope, error) {
	if path == "" {
		return mdcontent.Scope{}, nil
	}
	m, err := yamlutil.ReadMapFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadScope, err)
	}
	return mdcontent.Scope(m), nil
}

// run discovers, renders and indexes the content once.
func (b *build) run(ctx context.Context, env *Environment) error {
	start := env.Now()

	scope, err := loadScope(b.cfg.MDX.ScopeFile)
	if err != nil {
		return err
	}

	files, err := discoverFiles(b.inputPath, b.outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoContent, b.inputPath)
	}

	results := renderBatch(ctx, b.pipeline, files, &renderParams{scope: scope, workers: b.workers})
	printResultsWithWriter(results, b.flags.common.quiet, b.flags.common.verbose, env)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	root := resolveOutputRoot(b.inputPath, b.outputDir)
	if !b.flags.outputs.noCSS {
		cssPath := filepath.Join(root, highlightFileName)
		if err := writeHighlightCSS(b.pipeline, cssPath); err != nil {
			return err
		}
		b.printCreated(env, cssPath)
	}
	if b.cfg.Output.Manifest {
		manifestPath := filepath.Join(root, manifestFileName)
		entries, warnings, err := buildManifest(results, manifestLayout{
			root:        root,
			contentRoot: resolveOutputRoot(b.inputPath, ""),
			dateFormat:  b.cfg.Output.DateFormat,
		})
		if err != nil {
			return fmt.Errorf("building manifest: %w", err)
		}
		for _, w := range warnings {
			fmt.Fprintf(env.Stderr, "warning: %v\n", w)
		}
		if err := writeManifest(manifestPath, entries); err != nil {
			return err
		}
		b.printCreated(env, manifestPath)
	}

	if b.flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Done in %v\n", env.Now().Sub(start).Round(time.Millisecond))
	}
	return batchErr(results)
}

func (b *build) printCreated(env *Environment, path string) {
	if !b.flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", path)
	}
}

// writeHighlightCSS writes the stylesheet for highlighted code blocks.
func writeHighlightCSS(p *mdcontent.Pipeline, path string) error {
	var buf bytes.Buffer
	if err := p.WriteHighlightCSS(&buf); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}
