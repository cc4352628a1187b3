package mdcontent

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdcontent/internal/mdx"
	"github.com/alnah/go-mdcontent/internal/pipeline"
)

// Dialect selects the rendering path for a document.
type Dialect string

// Dialect constants.
const (
	DialectMarkdown Dialect = "markdown"
	DialectMDX      Dialect = "mdx"
)

// DialectFromPath infers the dialect from a file extension:
// .md and .markdown are Markdown, .mdx is MDX.
func DialectFromPath(path string) (Dialect, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return DialectMarkdown, nil
	case ".mdx":
		return DialectMDX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, path)
	}
}

// Document is one content file to render.
type Document struct {
	Source  string  // identifier used in errors, usually the file path
	Content string  // raw text, optionally starting with a --- frontmatter block
	Dialect Dialect // empty means infer from Source
	Scope   Scope   // MDX only: values available to expressions
}

// Result is the output of Render.
type Result struct {
	Source      string         `json:"source"`
	Dialect     Dialect        `json:"dialect"`
	HTML        string         `json:"html"`                 // Markdown: sanitized HTML; MDX: StaticHTML()
	Descriptor  *Descriptor    `json:"descriptor,omitempty"` // MDX only
	ReadingTime int            `json:"readingTime"`          // minutes, at least 1
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Headings    []Heading      `json:"headings,omitempty"`
}

// Title returns the frontmatter title, or the text of the first heading.
func (r *Result) Title() string {
	if t, ok := r.Frontmatter["title"].(string); ok && t != "" {
		return t
	}
	if len(r.Headings) > 0 {
		return r.Headings[0].Text
	}
	return ""
}

// Scope maps identifiers to values for MDX expressions and component props.
type Scope = mdx.Scope

// Descriptor is a compiled MDX document ready for a component-aware renderer.
type Descriptor = mdx.Descriptor

// Node is one entry of a Descriptor tree.
type Node = mdx.Node

// Heading is a heading of a rendered document.
type Heading = pipeline.Heading

// Descriptor node types.
const (
	NodeHTML      = mdx.NodeHTML
	NodeElement   = mdx.NodeElement
	NodeComponent = mdx.NodeComponent
)
