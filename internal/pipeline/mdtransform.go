package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-mdcontent/internal/yamlutil"
)

// ErrFrontmatter indicates a frontmatter block could not be decoded.
var ErrFrontmatter = errors.New("invalid frontmatter")

// frontmatterDelimiter opens and closes a YAML frontmatter block.
const frontmatterDelimiter = "---"

// byteOrderMark is stripped from the start of documents saved by some editors.
const byteOrderMark = "\uFEFF"

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor normalizes raw documents before parsing.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown strips a leading byte order mark and normalizes line endings.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	return normalizeLineEndings(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// yamlFrontmatter decodes a "---" block into a map[string]any.
var yamlFrontmatter = frontmatter.NewFormat(frontmatterDelimiter, frontmatterDelimiter, decodeFrontmatter)

// skippedFrontmatter matches the same block without decoding it.
var skippedFrontmatter = frontmatter.NewFormat(frontmatterDelimiter, frontmatterDelimiter, func([]byte, any) error { return nil })

// ExtractFrontmatter decodes a leading "---" delimited YAML block and returns
// it with the remaining body. Blank lines may precede the block. Without a
// complete block the map is nil and the body is content unchanged. An empty
// block yields an empty, non-nil map.
func ExtractFrontmatter(content string) (map[string]any, string, error) {
	var meta map[string]any
	body, err := frontmatter.Parse(strings.NewReader(content), &meta, yamlFrontmatter)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrFrontmatter, err)
	}
	return meta, string(body), nil
}

// StripFrontmatter removes a leading frontmatter block without decoding it.
func StripFrontmatter(content string) string {
	body, err := frontmatter.Parse(strings.NewReader(content), &struct{}{}, skippedFrontmatter)
	if err != nil {
		return content
	}
	return string(body)
}

// decodeFrontmatter is the frontmatter.UnmarshalFunc for YAML mappings.
func decodeFrontmatter(data []byte, v any) error {
	dst, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("unsupported frontmatter target %T", v)
	}
	meta, err := yamlutil.UnmarshalMap(data)
	if err != nil {
		return err
	}
	*dst = meta
	return nil
}
