package pipeline

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Heading is a heading found in rendered HTML.
type Heading struct {
	Level int    `json:"level"` // 1-6
	ID    string `json:"id"`    // slug, usable as a fragment
	Text  string `json:"text"`  // text content without markup
}

// headingPattern matches h1-h6 tags with id attribute.
// Note: (?s) makes . match newlines for multiline heading content.
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

// htmlTagPattern matches HTML tags for stripping from heading text.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes HTML tags from a string, decodes HTML entities,
// and trims surrounding whitespace.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// ExtractHeadings returns headings between minDepth and maxDepth in document
// order. Headings without ids are skipped. Depths outside 1-6 are clamped.
func ExtractHeadings(htmlContent string, minDepth, maxDepth int) []Heading {
	minDepth = min(max(minDepth, 1), 6)
	maxDepth = min(max(maxDepth, 1), 6)

	matches := headingPattern.FindAllStringSubmatch(htmlContent, -1)
	if len(matches) == 0 {
		return nil
	}

	var headings []Heading
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, Heading{
			Level: level,
			ID:    html.UnescapeString(m[2]),
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}
