package mdx

import (
	"context"
	"fmt"
	"html"

	"github.com/alnah/go-mdcontent/internal/pipeline"
)

// frontmatterKey exposes the document's frontmatter to expressions.
const frontmatterKey = "frontmatter"

// Input is one MDX document to compile.
type Input struct {
	Source      string         // MDX body with frontmatter removed
	Scope       Scope          // values available to expressions and props
	Frontmatter map[string]any // parsed frontmatter, if any
}

// Compiler turns MDX into descriptors. It holds no per-document state and is
// safe for concurrent use when its converter is.
type Compiler struct {
	converter     pipeline.HTMLConverter
	autolinkClass string
}

// NewCompiler returns a Compiler rendering Markdown with converter. The
// converter must pass raw HTML through, since lowercase JSX elements are
// emitted as HTML. An empty autolinkClass disables heading anchors.
func NewCompiler(converter pipeline.HTMLConverter, autolinkClass string) *Compiler {
	return &Compiler{converter: converter, autolinkClass: autolinkClass}
}

// Compile resolves expressions against the scope, renders the Markdown, and
// builds the descriptor tree. Failures are *SyntaxError values wrapping
// ErrUnresolvedReference, ErrInvalidExpression, ErrInvalidComponent or ErrESM.
func (c *Compiler) Compile(ctx context.Context, in Input) (*Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scope := make(Scope, len(in.Scope)+1)
	for k, v := range in.Scope {
		scope[k] = v
	}
	if _, ok := scope[frontmatterKey]; !ok && in.Frontmatter != nil {
		scope[frontmatterKey] = in.Frontmatter
	}

	// Character references such as &#57344; only become marker runes once
	// rendered and parsed, so a collision there means scanning again.
	var (
		scanned *scanResult
		content string
	)
	for from := rune(firstMarkerStart); ; from = scanned.mark + 1 {
		var err error
		scanned, err = scanFrom(in.Source, scope, from)
		if err != nil {
			return nil, err
		}
		content, err = c.converter.ToHTML(ctx, scanned.markdown)
		if err != nil {
			return nil, err
		}
		if !scanned.markCollides(html.UnescapeString(content)) {
			break
		}
	}

	root, err := pipeline.ParseFragment(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pipeline.ErrHTMLTree, err)
	}
	pipeline.AutolinkHeadings(c.autolinkClass)(root)

	tb := &treeBuilder{comps: scanned.components, mark: scanned.mark}
	nodes, err := tb.build(root)
	if err != nil {
		return nil, err
	}

	if nodes == nil {
		nodes = []*Node{}
	}
	outScope := in.Scope
	if outScope == nil {
		outScope = Scope{}
	}
	frontmatter := in.Frontmatter
	if frontmatter == nil {
		frontmatter = map[string]any{}
	}

	return &Descriptor{
		Version:     DescriptorVersion,
		Nodes:       nodes,
		Components:  tb.names(),
		Scope:       outScope,
		Frontmatter: frontmatter,
	}, nil
}
