// Package pipeline implements the stages of the Markdown rendering pipeline.
//
// Stages, in the order the root package runs them:
//   - Preprocessing (byte order mark, line endings, frontmatter split)
//   - Markdown to HTML via goldmark, with GitHub-style heading slugs assigned
//     by an AST transformer and fenced code highlighted by chroma
//   - HTML tree passes over golang.org/x/net/html nodes: Sanitize,
//     AutolinkHeadings and ExternalLinks
//   - Heading extraction and reading time over the rendered fragment
//
// Every stage is stateless or keeps its state per call, so converters and
// passes can be shared across goroutines.
package pipeline
