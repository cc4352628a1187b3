package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// siteFlags holds link-classification flags.
type siteFlags struct {
	origin string
	rel    []string
}

// htmlFlags holds flags shaping the rendered HTML.
type htmlFlags struct {
	autolinkClass string
	noAutolink    bool
	style         string
}

// outputFlags holds flags for files written next to the documents.
type outputFlags struct {
	manifest   bool
	noManifest bool
	dateFormat string
	noCSS      bool
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	output  string
	workers int
	wpm     int
	scope   string
	watch   bool
	site    siteFlags
	html    htmlFlags
	outputs outputFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addSiteFlags adds link-classification flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVar(&f.origin, "site-origin", "", "site origin, e.g. https://example.com")
	fs.StringSliceVar(&f.rel, "rel", nil, "rel tokens for external links (comma-separated)")
}

// addHTMLFlags adds HTML shaping flags to a FlagSet.
func addHTMLFlags(fs *flag.FlagSet, f *htmlFlags) {
	fs.StringVar(&f.autolinkClass, "autolink-class", "", "class of heading anchor links")
	fs.BoolVar(&f.noAutolink, "no-autolink", false, "disable heading anchor links")
	fs.StringVar(&f.style, "style", "", "chroma style for highlight.css")
}

// addOutputFlags adds output file flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.manifest, "manifest", false, "write manifest.json")
	fs.BoolVar(&f.noManifest, "no-manifest", false, "do not write manifest.json")
	fs.StringVar(&f.dateFormat, "date-format", "", "manifest display date format")
	fs.BoolVar(&f.noCSS, "no-css", false, "do not write highlight.css")
}

// newRenderFlagSet registers every render flag on a fresh FlagSet bound to f.
// Parsing and completion share it.
func newRenderFlagSet(f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.IntVar(&f.wpm, "wpm", 0, "reading speed in words per minute")
	fs.StringVar(&f.scope, "scope", "", "YAML file of values for MDX expressions")
	fs.BoolVar(&f.watch, "watch", false, "re-render when content changes")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addHTMLFlags(fs, &f.html)
	addOutputFlags(fs, &f.outputs)

	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
// Usage goes to usage; parse errors are returned, not printed.
func parseRenderFlags(args []string, usage io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(f)
	fs.Usage = func() { printRenderUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
