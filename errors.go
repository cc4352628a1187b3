package mdcontent

import (
	"errors"

	"github.com/alnah/go-mdcontent/internal/mdx"
	"github.com/alnah/go-mdcontent/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	// ErrParse reports Markdown or MDX the parser could not process, including
	// malformed frontmatter. It aborts only the affected document.
	ErrParse = errors.New("parse error")

	// ErrCompile reports an MDX compile failure: an unresolved scope
	// reference, an unsupported expression or a malformed component.
	ErrCompile = errors.New("compile error")

	// Configuration errors.
	ErrInvalidSiteOrigin = errors.New("invalid site origin")
	ErrUnknownDialect    = errors.New("unknown content dialect")
)

// ErrFrontmatter reports a frontmatter block that is not a YAML mapping.
// It is wrapped under ErrParse.
var ErrFrontmatter = pipeline.ErrFrontmatter

// MDX compile causes, wrapped under ErrCompile.
var (
	ErrUnresolvedReference = mdx.ErrUnresolvedReference
	ErrInvalidExpression   = mdx.ErrInvalidExpression
	ErrInvalidComponent    = mdx.ErrInvalidComponent
	ErrESM                 = mdx.ErrESM
)

// SyntaxError locates an MDX compile failure by line and column.
type SyntaxError = mdx.SyntaxError
