// Package mdcontent renders Markdown and MDX content for static sites.
//
// # Quick Start
//
// Create a pipeline once and reuse it for every document:
//
//	p, err := mdcontent.NewPipeline(
//	    mdcontent.WithSiteOrigin("https://example.com"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	html, err := p.RenderMarkdown(ctx, "# Hello\n\nSee [Go](https://go.dev).")
//	minutes := p.EstimateReadingTime(html)
//
// # Markdown Pipeline
//
// RenderMarkdown runs these stages in order:
//
//  1. Parse with goldmark (CommonMark, GFM tables, strikethrough, autolinks,
//     task lists, footnotes)
//  2. Assign GitHub-style heading slugs: "title", then "title-1", "title-2"
//  3. Render HTML without raw HTML, then sanitize the tree
//  4. Prepend an anchor link to each heading
//  5. Highlight fenced code with chroma CSS classes; unknown languages are
//     left as plain code
//  6. Open links to other origins in a new tab with rel="nofollow noopener
//     noreferrer"
//  7. Serialize the tree
//
// # MDX
//
// RenderMDX compiles MDX into a Descriptor, a JSON-serializable tree of HTML
// runs and component nodes for a component-aware renderer. Expressions such
// as {post.title} and component props are resolved against a Scope at
// compile time:
//
//	d, err := p.RenderMDX(ctx, "<Callout type=\"tip\">\n\nHi {name}\n\n</Callout>",
//	    mdcontent.Scope{"name": "Ada"})
//
// The MDX path applies heading slugs, heading anchors and highlighting but
// neither sanitizes nor annotates external links: MDX sources are trusted.
// Descriptor.StaticHTML renders the tree without a component runtime.
//
// # Errors
//
// Failures wrap ErrParse or ErrCompile and are scoped to one document.
// MDX failures carry a *SyntaxError with the line and column:
//
//	var se *mdcontent.SyntaxError
//	if errors.As(err, &se) {
//	    fmt.Printf("%d:%d: %v\n", se.Line, se.Column, se.Err)
//	}
//
// Unknown code block languages are not an error.
//
// # Concurrency
//
// A Pipeline is safe for concurrent use. Slug state lives in each parse, so
// documents rendered in parallel never share counters.
package mdcontent
