package mdx

import (
	"errors"
	"fmt"
	"strings"
)

type attrKind int

const (
	attrBool   attrKind = iota // <X open>
	attrString                 // <X title="a">
	attrExpr                   // <X count={n}>
	attrSpread                 // <X {...props}>
)

// attrSyntax is one attribute as written in the source.
type attrSyntax struct {
	name   string
	kind   attrKind
	value  string // string contents, or expression source
	raw    string // original text, for verbatim output
	offset int
}

// tagSyntax is a parsed JSX or HTML tag.
type tagSyntax struct {
	name        string
	closing     bool
	selfClosing bool
	attrs       []attrSyntax
	end         int // offset after '>'
}

func (t tagSyntax) hasExpressions() bool {
	for _, a := range t.attrs {
		if a.kind == attrExpr || a.kind == attrSpread {
			return true
		}
	}
	return false
}

var errUnterminatedTag = errors.New("unterminated tag")

// parseTag parses the tag starting at src[i] == '<'. Tags may span lines.
func parseTag(src string, i, end int) (tagSyntax, error) {
	var t tagSyntax
	j := i + 1
	if j < end && src[j] == '/' {
		t.closing = true
		j++
	}

	nameStart := j
	for j < end && isNameChar(src[j]) {
		j++
	}
	t.name = src[nameStart:j]
	if t.name == "" {
		return t, fmt.Errorf("missing tag name")
	}

	for {
		j = skipSpace(src, j, end)
		if j >= end {
			return t, errUnterminatedTag
		}

		switch {
		case src[j] == '>':
			t.end = j + 1
			return t, nil
		case src[j] == '/' && j+1 < end && src[j+1] == '>':
			t.selfClosing = true
			t.end = j + 2
			return t, nil
		case src[j] == '{':
			close, ok := matchBrace(src, j, end)
			if !ok {
				return t, errUnterminatedTag
			}
			inner := strings.TrimSpace(src[j+1 : close])
			rest, ok := strings.CutPrefix(inner, "...")
			if !ok {
				return t, fmt.Errorf("unexpected expression %q in tag", inner)
			}
			t.attrs = append(t.attrs, attrSyntax{kind: attrSpread, value: rest, raw: src[j : close+1], offset: j})
			j = close + 1
			continue
		}

		a, next, err := parseAttr(src, j, end)
		if err != nil {
			return t, err
		}
		t.attrs = append(t.attrs, a)
		j = next
	}
}

// parseAttr parses name, name="v", name='v' or name={expr} at j.
func parseAttr(src string, j, end int) (attrSyntax, int, error) {
	a := attrSyntax{offset: j}
	start := j
	for j < end && isNameChar(src[j]) {
		j++
	}
	if j == start {
		return a, 0, fmt.Errorf("unexpected character %q in tag", src[j])
	}
	a.name = src[start:j]

	k := skipSpace(src, j, end)
	if k >= end || src[k] != '=' {
		a.kind = attrBool
		a.raw = a.name
		return a, j, nil
	}
	k = skipSpace(src, k+1, end)
	if k >= end {
		return a, 0, errUnterminatedTag
	}

	switch q := src[k]; q {
	case '"', '\'':
		close := strings.IndexByte(src[k+1:end], q)
		if close < 0 {
			return a, 0, errUnterminatedTag
		}
		close += k + 1
		a.kind = attrString
		a.value = src[k+1 : close]
		a.raw = src[start : close+1]
		return a, close + 1, nil
	case '{':
		close, ok := matchBrace(src, k, end)
		if !ok {
			return a, 0, errUnterminatedTag
		}
		a.kind = attrExpr
		a.value = src[k+1 : close]
		a.raw = src[start : close+1]
		return a, close + 1, nil
	default:
		return a, 0, fmt.Errorf("attribute %s needs a quoted or {expression} value", a.name)
	}
}

func skipSpace(src string, j, end int) int {
	for j < end {
		switch src[j] {
		case ' ', '\t', '\n', '\r':
			j++
		default:
			return j
		}
	}
	return j
}

func isNameChar(c byte) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == '.' || c == ':'
}
