package pipeline

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// fallbackSlug is used when a heading has no sluggable characters.
const fallbackSlug = "heading"

// headingIDPriority runs the slug transformer before other transformers.
const headingIDPriority = 100

// Slugger generates unique URL-safe slugs, GitHub style.
// A Slugger is not safe for concurrent use; create one per document.
type Slugger struct {
	occurrences map[string]int
}

// NewSlugger returns a Slugger with no recorded slugs.
func NewSlugger() *Slugger {
	return &Slugger{occurrences: make(map[string]int)}
}

// Slug returns a slug for value that is unique within this Slugger.
// Repeated values get "-1", "-2", ... suffixes in call order.
func (s *Slugger) Slug(value string) string {
	slug := Slugify(value)
	if slug == "" {
		slug = fallbackSlug
	}

	base := slug
	for {
		if _, taken := s.occurrences[slug]; !taken {
			break
		}
		s.occurrences[base]++
		slug = base + "-" + strconv.Itoa(s.occurrences[base])
	}
	s.occurrences[slug] = 0
	return slug
}

// Slugify lowercases value, drops characters other than letters, marks,
// numbers, connector punctuation, spaces and hyphens, then turns each
// space into a hyphen. It does not deduplicate.
func Slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	for _, r := range strings.ToLower(value) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-':
			b.WriteRune(r)
		case unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.Pc):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// headingIDTransformer assigns slug ids to every heading in a document.
// Slug state lives in the Transform call so one goldmark instance can be
// shared across goroutines.
type headingIDTransformer struct{}

// newHeadingIDTransformer wraps the transformer for parser.WithASTTransformers.
func newHeadingIDTransformer() util.PrioritizedValue {
	return util.Prioritized(&headingIDTransformer{}, headingIDPriority)
}

func (t *headingIDTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()
	slugger := NewSlugger()

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		slug := slugger.Slug(headingText(heading, source))
		heading.SetAttributeString("id", []byte(slug))
		return ast.WalkSkipChildren, nil
	})
}

// headingText concatenates the literal text under a heading.
// Raw HTML is ignored; image alt text and autolink labels are included.
func headingText(heading ast.Node, source []byte) string {
	var b strings.Builder

	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			value := node.Value(source)
			if !node.IsRaw() {
				value = util.UnescapePunctuations(value)
				value = util.ResolveNumericReferences(value)
				value = util.ResolveEntityNames(value)
			}
			b.Write(value)
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(source))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
