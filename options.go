package mdcontent

import (
	"slices"

	"github.com/alnah/go-mdcontent/internal/pipeline"
)

// Defaults applied by NewPipeline.
const (
	DefaultReadingSpeed   = pipeline.DefaultWordsPerMinute
	DefaultAutolinkClass  = pipeline.DefaultAutolinkClass
	DefaultHighlightStyle = pipeline.DefaultHighlightStyle
)

// DefaultExternalLinkRel returns the rel tokens added to external links.
func DefaultExternalLinkRel() []string {
	return slices.Clone(pipeline.DefaultExternalRel)
}

// Option configures a Pipeline.
type Option func(*pipelineConfig)

// pipelineConfig holds the settings resolved by NewPipeline.
type pipelineConfig struct {
	siteOrigin     string
	autolinkClass  string
	readingSpeed   int
	highlightStyle string
	externalRel    []string
}

func defaultConfig() pipelineConfig {
	return pipelineConfig{
		autolinkClass:  DefaultAutolinkClass,
		readingSpeed:   DefaultReadingSpeed,
		highlightStyle: DefaultHighlightStyle,
		externalRel:    DefaultExternalLinkRel(),
	}
}

// WithSiteOrigin sets the origin links are compared against, such as
// "https://example.com". Links to any other origin are external. Without
// it every absolute http(s) link is external. NewPipeline returns
// ErrInvalidSiteOrigin when the URL has no http(s) scheme or host.
func WithSiteOrigin(origin string) Option {
	return func(c *pipelineConfig) {
		c.siteOrigin = origin
	}
}

// WithAutolinkClass sets the class of heading anchor links.
// An empty class disables heading anchors.
func WithAutolinkClass(class string) Option {
	return func(c *pipelineConfig) {
		c.autolinkClass = class
	}
}

// WithReadingSpeed sets the words per minute used by EstimateReadingTime.
// Panics if wpm <= 0 (programmer error, similar to time.NewTicker).
func WithReadingSpeed(wpm int) Option {
	if wpm <= 0 {
		panic("mdcontent: WithReadingSpeed words per minute must be positive")
	}
	return func(c *pipelineConfig) {
		c.readingSpeed = wpm
	}
}

// WithHighlightStyle names the chroma style used for code blocks.
// Unknown names fall back to chroma's default style.
func WithHighlightStyle(name string) Option {
	return func(c *pipelineConfig) {
		c.highlightStyle = name
	}
}

// WithExternalLinkRel replaces the rel tokens merged into external links.
func WithExternalLinkRel(tokens ...string) Option {
	return func(c *pipelineConfig) {
		c.externalRel = slices.Clone(tokens)
	}
}
