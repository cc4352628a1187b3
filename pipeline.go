package mdcontent

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alnah/go-mdcontent/internal/mdx"
	"github.com/alnah/go-mdcontent/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
)

// Pipeline renders Markdown and MDX documents. Create one with NewPipeline
// and share it: a Pipeline holds no per-document state and is safe for
// concurrent use.
type Pipeline struct {
	cfg          pipelineConfig
	preprocessor pipeline.MarkdownPreprocessor
	markdown     pipeline.HTMLConverter // raw HTML omitted
	compiler     *mdx.Compiler
	passes       []pipeline.TreePass
}

// NewPipeline creates a Pipeline with default configuration.
// Use options to customize behavior (e.g., WithSiteOrigin, WithReadingSpeed).
func NewPipeline(opts ...Option) (*Pipeline, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	origin, err := pipeline.ParseOrigin(cfg.siteOrigin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSiteOrigin, err)
	}

	mdxConverter := pipeline.NewGoldmarkConverter(pipeline.ConverterOptions{
		AllowRawHTML:   true,
		HighlightStyle: cfg.highlightStyle,
	})

	return &Pipeline{
		cfg:          cfg,
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		markdown: pipeline.NewGoldmarkConverter(pipeline.ConverterOptions{
			HighlightStyle: cfg.highlightStyle,
		}),
		compiler: mdx.NewCompiler(mdxConverter, cfg.autolinkClass),
		// Sanitize runs first so the anchors and rel values added later
		// are never stripped.
		passes: []pipeline.TreePass{
			pipeline.Sanitize(),
			pipeline.AutolinkHeadings(cfg.autolinkClass),
			pipeline.ExternalLinks(origin, cfg.externalRel),
		},
	}, nil
}

// RenderMarkdown converts Markdown to sanitized HTML. Headings get unique
// slug ids and anchor links, fenced code is highlighted, and links to other
// origins open in a new tab with rel="nofollow noopener noreferrer".
// A leading frontmatter block is discarded; use Render to read it.
func (p *Pipeline) RenderMarkdown(ctx context.Context, content string) (html string, err error) {
	defer recoverInternal(&err)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	content = p.preprocessor.PreprocessMarkdown(ctx, content)
	return p.renderMarkdown(ctx, pipeline.StripFrontmatter(content))
}

// RenderMDX compiles MDX into a Descriptor. Expressions and component props
// are resolved against scope; frontmatter is available as {frontmatter.key}.
// External links are not annotated and raw HTML is kept: MDX sources are
// trusted. Any failure fails the whole compile with an ErrCompile or
// ErrParse error.
func (p *Pipeline) RenderMDX(ctx context.Context, source string, scope Scope) (d *Descriptor, err error) {
	defer recoverInternal(&err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source = p.preprocessor.PreprocessMarkdown(ctx, source)
	frontmatter, body, err := splitFrontmatter(source)
	if err != nil {
		return nil, err
	}
	return p.compile(ctx, body, scope, frontmatter)
}

// Render renders a document according to its dialect and derives its
// metadata. Errors name the document: "rendering <source>: <cause>".
func (p *Pipeline) Render(ctx context.Context, doc Document) (*Result, error) {
	res, err := p.render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", documentName(doc), err)
	}
	return res, nil
}

// EstimateReadingTime returns the reading time of rendered HTML in whole
// minutes at the configured speed, never less than one.
func (p *Pipeline) EstimateReadingTime(html string) int {
	return pipeline.EstimateReadingTime(html, p.cfg.readingSpeed)
}

// WriteHighlightCSS writes the stylesheet for the configured highlight style.
// Highlighted code only carries class names, so pages need this CSS.
func (p *Pipeline) WriteHighlightCSS(w io.Writer) error {
	return pipeline.WriteHighlightCSS(w, p.cfg.highlightStyle)
}

// EstimateReadingTime returns the reading time of rendered HTML in whole
// minutes at DefaultReadingSpeed: markup is stripped, words are counted on
// whitespace, and the result is rounded with a floor of one minute.
func EstimateReadingTime(html string) int {
	return pipeline.EstimateReadingTime(html, DefaultReadingSpeed)
}

func (p *Pipeline) render(ctx context.Context, doc Document) (res *Result, err error) {
	defer recoverInternal(&err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dialect := doc.Dialect
	if dialect == "" {
		if dialect, err = DialectFromPath(doc.Source); err != nil {
			return nil, err
		}
	}

	content := p.preprocessor.PreprocessMarkdown(ctx, doc.Content)
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, err
	}

	res = &Result{Source: doc.Source, Dialect: dialect, Frontmatter: frontmatter}
	switch dialect {
	case DialectMarkdown:
		if res.HTML, err = p.renderMarkdown(ctx, body); err != nil {
			return nil, err
		}
	case DialectMDX:
		if res.Descriptor, err = p.compile(ctx, body, doc.Scope, frontmatter); err != nil {
			return nil, err
		}
		res.HTML = res.Descriptor.StaticHTML()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}

	res.ReadingTime = p.EstimateReadingTime(res.HTML)
	res.Headings = pipeline.ExtractHeadings(res.HTML, 1, 6)
	return res, nil
}

// renderMarkdown runs the Markdown stages on a preprocessed body.
func (p *Pipeline) renderMarkdown(ctx context.Context, body string) (string, error) {
	htmlContent, err := p.markdown.ToHTML(ctx, body)
	if err != nil {
		return "", parseFailure(err)
	}

	out, err := pipeline.ApplyPasses(htmlContent, p.passes...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	return out, nil
}

// compile runs the MDX compiler and classifies its errors.
func (p *Pipeline) compile(ctx context.Context, body string, scope Scope, frontmatter map[string]any) (*Descriptor, error) {
	d, err := p.compiler.Compile(ctx, mdx.Input{Source: body, Scope: scope, Frontmatter: frontmatter})
	switch {
	case err == nil:
		return d, nil
	case errors.Is(err, pipeline.ErrHTMLConversion), errors.Is(err, pipeline.ErrHTMLTree):
		return nil, parseFailure(err)
	case isContextError(err):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
}

// splitFrontmatter separates and decodes a leading frontmatter block.
// Documents without one yield a nil map.
func splitFrontmatter(content string) (map[string]any, string, error) {
	fm, body, err := pipeline.ExtractFrontmatter(content)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fm, body, nil
}

// parseFailure wraps converter errors in ErrParse, leaving cancellation as is.
func parseFailure(err error) error {
	if isContextError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrParse, err)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// recoverInternal turns a panic in a render call into an ErrParse error.
// It must be deferred directly.
func recoverInternal(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: internal error: %v", ErrParse, r)
	}
}

func documentName(doc Document) string {
	if doc.Source == "" {
		return "<input>"
	}
	return doc.Source
}
