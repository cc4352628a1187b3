package mdx

import (
	"errors"
	"fmt"
)

// Sentinel errors for MDX compilation.
var (
	ErrUnresolvedReference = errors.New("unresolved scope reference")
	ErrInvalidExpression   = errors.New("unsupported expression")
	ErrInvalidComponent    = errors.New("malformed component")
	ErrESM                 = errors.New("import/export statements are not supported")
)

// SyntaxError locates a compile failure in the MDX source.
// Line and Column are 1-based; Column counts bytes.
type SyntaxError struct {
	Line   int
	Column int
	Err    error  // one of the sentinel errors above
	Detail string // what was found at the position
}

func (e *SyntaxError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%d:%d: %v: %s", e.Line, e.Column, e.Err, e.Detail)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
