package mdx

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// Component markers are Private Use Area runes. goldmark treats them as plain
// text, so they survive Markdown rendering and are swapped for descriptor
// nodes afterwards. A marker is a start rune, an id rune, then a kind rune.
// The start rune is chosen per document among runes its output does not
// otherwise contain, so author text such as icon-font glyphs is never taken
// for a marker.
const (
	markerOpen   = '\uE001'
	markerClose  = '\uE002'
	markerVoid   = '\uE003'
	markerIDBase = 0xF0000

	firstMarkerStart = '\uE000'
	lastMarkerStart  = '\uF8FF'

	// MaxComponents bounds the component tags in one document.
	MaxComponents = 0xFFFD
)

// component is a JSX element found in the source.
type component struct {
	name   string
	props  map[string]any
	block  bool
	line   int
	column int
}

// scanResult is Markdown ready for goldmark plus the components it references.
type scanResult struct {
	markdown   string
	components []component
	mark       rune // start rune of every marker in markdown
	markers    int
}

type scanner struct {
	src     string
	scope   Scope
	mark    rune
	markers int // markers written
	out     strings.Builder
	comps   []component
	open    []int // ids of unclosed components
}

// scan rewrites MDX source into Markdown. Expressions are replaced by their
// escaped text, component tags by markers; fenced code is copied untouched.
func scan(src string, scope Scope) (*scanResult, error) {
	return scanFrom(src, scope, firstMarkerStart)
}

// scanFrom scans with the first usable marker start rune at or after from.
// A rune found in the source is skipped; one that an expression value brings
// in is detected after the pass, which is then repeated with the next rune.
func scanFrom(src string, scope Scope, from rune) (*scanResult, error) {
	for mark := from; mark <= lastMarkerStart; mark++ {
		if isMarkerKind(mark) || strings.ContainsRune(src, mark) {
			continue
		}
		res, err := scanWith(src, scope, mark)
		if err != nil {
			return nil, err
		}
		if !res.markCollides(res.markdown) {
			return res, nil
		}
	}
	return nil, errMarkersExhausted
}

var errMarkersExhausted = &SyntaxError{Line: 1, Column: 1, Err: ErrInvalidComponent,
	Detail: "document uses every private use rune available for component markers"}

// markCollides reports whether text holds the marker start rune more often
// than the markers written, meaning document text contains it too.
func (r *scanResult) markCollides(text string) bool {
	return strings.Count(text, string(r.mark)) > r.markers
}

func isMarkerKind(r rune) bool {
	return r == markerOpen || r == markerClose || r == markerVoid
}

func scanWith(src string, scope Scope, mark rune) (*scanResult, error) {
	s := &scanner{src: src, scope: scope, mark: mark}
	s.out.Grow(len(src))

	var (
		fenceChar  byte
		fenceLen   int
		proseStart = 0
		prevBlank  = true
	)

	offset := 0
	for offset < len(src) {
		lineEnd := strings.IndexByte(src[offset:], '\n')
		next := len(src)
		if lineEnd >= 0 {
			lineEnd += offset
			next = lineEnd + 1
		} else {
			lineEnd = len(src)
		}
		line := src[offset:lineEnd]
		trimmed := strings.TrimLeft(line, " \t")

		if fenceLen > 0 {
			s.out.WriteString(src[offset:next])
			if closesFence(trimmed, fenceChar, fenceLen) {
				fenceLen = 0
				prevBlank = false
			}
			offset = next
			proseStart = next
			continue
		}

		if c, n := opensFence(trimmed); n > 0 {
			if err := s.prose(proseStart, offset); err != nil {
				return nil, err
			}
			s.out.WriteString(src[offset:next])
			fenceChar, fenceLen = c, n
			proseStart = next
			offset = next
			prevBlank = false
			continue
		}

		if prevBlank && isESM(line) {
			return nil, s.errorAt(offset, ErrESM, strings.Fields(trimmed)[0])
		}
		prevBlank = strings.TrimSpace(line) == ""
		offset = next
	}

	if err := s.prose(proseStart, len(src)); err != nil {
		return nil, err
	}
	return s.result()
}

func (s *scanner) result() (*scanResult, error) {
	if len(s.open) > 0 {
		c := s.comps[s.open[len(s.open)-1]]
		return nil, &SyntaxError{Line: c.line, Column: c.column, Err: ErrInvalidComponent,
			Detail: fmt.Sprintf("expected closing tag </%s>", c.name)}
	}
	return &scanResult{markdown: s.out.String(), components: s.comps, mark: s.mark, markers: s.markers}, nil
}

// prose scans src[start:end], which contains no fenced code.
func (s *scanner) prose(start, end int) error {
	src := s.src
	i := start
	for i < end {
		switch src[i] {
		case '\\':
			if i+1 < end {
				s.out.WriteString(src[i : i+2])
				i += 2
				continue
			}
		case '`':
			j := codeSpanEnd(src, i, end)
			s.out.WriteString(src[i:j])
			i = j
			continue
		case '{':
			j, err := s.expression(i, end)
			if err != nil {
				return err
			}
			i = j
			continue
		case '<':
			j, handled, err := s.tag(i, end)
			if err != nil {
				return err
			}
			if handled {
				i = j
				continue
			}
		}
		s.out.WriteByte(src[i])
		i++
	}
	return nil
}

// expression evaluates the {...} starting at i and writes its text.
func (s *scanner) expression(i, end int) (int, error) {
	close, ok := matchBrace(s.src, i, end)
	if !ok {
		return 0, s.errorAt(i, ErrInvalidExpression, "unterminated expression")
	}
	inner := s.src[i+1 : close]
	if strings.TrimSpace(inner) == "" || isCommentExpression(inner) {
		return close + 1, nil
	}

	v, err := evaluate(inner, s.scope)
	if err != nil {
		return 0, s.wrapAt(i, err)
	}
	text, err := textValue(v)
	if err != nil {
		return 0, s.wrapAt(i, err)
	}
	s.out.WriteString(escapeText(text))
	return close + 1, nil
}

// tag handles a '<' at i. It reports handled=false when the '<' is not the
// start of a tag and should be copied as text.
func (s *scanner) tag(i, end int) (int, bool, error) {
	src := s.src
	if i+1 >= end {
		return 0, false, nil
	}

	switch {
	case strings.HasPrefix(src[i:end], "<>"):
		return i + 2, true, nil
	case strings.HasPrefix(src[i:end], "</>"):
		return i + 3, true, nil
	case strings.HasPrefix(src[i:end], "<!--"):
		close := strings.Index(src[i+4:end], "-->")
		if close == -1 {
			return 0, false, nil
		}
		stop := i + 4 + close + 3
		s.out.WriteString(src[i:stop])
		return stop, true, nil
	}

	nameAt := i + 1
	if src[nameAt] == '/' {
		nameAt++
	}
	if nameAt >= end || !isASCIILetter(src[nameAt]) {
		return 0, false, nil
	}
	isComponent := src[nameAt] >= 'A' && src[nameAt] <= 'Z'

	t, err := parseTag(src, i, end)
	if err != nil {
		if !isComponent {
			return 0, false, nil
		}
		return 0, false, s.errorAt(i, ErrInvalidComponent, err.Error())
	}

	if !isComponent {
		return t.end, true, s.htmlTag(i, t)
	}
	return t.end, true, s.componentTag(i, t)
}

// htmlTag copies a lowercase tag, evaluating any {expression} attributes.
func (s *scanner) htmlTag(at int, t tagSyntax) error {
	if !t.hasExpressions() {
		s.out.WriteString(s.src[at:t.end])
		return nil
	}

	var b strings.Builder
	b.WriteByte('<')
	if t.closing {
		b.WriteByte('/')
	}
	b.WriteString(t.name)
	for _, a := range t.attrs {
		b.WriteByte(' ')
		switch a.kind {
		case attrBool:
			b.WriteString(a.name)
		case attrString:
			b.WriteString(a.raw)
		case attrExpr:
			v, err := evaluate(a.value, s.scope)
			if err != nil {
				return s.wrapAt(a.offset, err)
			}
			text, err := textValue(v)
			if err != nil {
				return s.wrapAt(a.offset, err)
			}
			b.WriteString(a.name)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(text))
			b.WriteByte('"')
		case attrSpread:
			return s.errorAt(a.offset, ErrInvalidExpression, "spread attributes need a component")
		}
	}
	if t.selfClosing {
		b.WriteString(" /")
	}
	b.WriteByte('>')
	s.out.WriteString(b.String())
	return nil
}

// componentTag records a component and writes its marker.
func (s *scanner) componentTag(at int, t tagSyntax) error {
	block := s.isBlockTag(at, t.end)

	if t.closing {
		if t.selfClosing || len(t.attrs) > 0 {
			return s.errorAt(at, ErrInvalidComponent, fmt.Sprintf("closing tag </%s> cannot have attributes", t.name))
		}
		if len(s.open) == 0 {
			return s.errorAt(at, ErrInvalidComponent, fmt.Sprintf("unexpected closing tag </%s>", t.name))
		}
		id := s.open[len(s.open)-1]
		if s.comps[id].name != t.name {
			return s.errorAt(at, ErrInvalidComponent,
				fmt.Sprintf("expected closing tag </%s>, found </%s>", s.comps[id].name, t.name))
		}
		s.open = s.open[:len(s.open)-1]
		s.writeMarker(s.marker(id, markerClose), block)
		return nil
	}

	if len(s.comps) >= MaxComponents {
		return s.errorAt(at, ErrInvalidComponent, "too many components")
	}
	props, err := s.props(t)
	if err != nil {
		return err
	}

	line, col := s.position(at)
	id := len(s.comps)
	s.comps = append(s.comps, component{name: t.name, props: props, block: block, line: line, column: col})

	if t.selfClosing {
		s.writeMarker(s.marker(id, markerVoid), block)
		return nil
	}
	s.open = append(s.open, id)
	s.writeMarker(s.marker(id, markerOpen), block)
	return nil
}

// props evaluates component attributes. Expression values keep their type.
func (s *scanner) props(t tagSyntax) (map[string]any, error) {
	props := make(map[string]any, len(t.attrs))
	for _, a := range t.attrs {
		switch a.kind {
		case attrBool:
			props[a.name] = true
		case attrString:
			props[a.name] = html.UnescapeString(a.value)
		case attrExpr:
			v, err := evaluate(a.value, s.scope)
			if err != nil {
				return nil, s.wrapAt(a.offset, err)
			}
			props[a.name] = v
		case attrSpread:
			v, err := evaluate(a.value, s.scope)
			if err != nil {
				return nil, s.wrapAt(a.offset, err)
			}
			m, ok := v.(map[string]any)
			if !ok {
				return nil, s.errorAt(a.offset, ErrInvalidExpression, fmt.Sprintf("cannot spread %T", v))
			}
			for k, val := range m {
				props[k] = val
			}
		}
	}
	return props, nil
}

// marker encodes a component id and marker kind.
func (s *scanner) marker(id int, kind rune) string {
	return string([]rune{s.mark, rune(markerIDBase + id), kind})
}

// writeMarker emits a marker, on its own paragraph when block-level.
func (s *scanner) writeMarker(m string, block bool) {
	s.markers++
	if !block {
		s.out.WriteString(m)
		return
	}
	s.out.WriteString("\n\n")
	s.out.WriteString(m)
	s.out.WriteString("\n\n")
}

// isBlockTag reports whether the tag ending at end sits on a line holding
// nothing but component tags, fragments and whitespace. All tags on such a
// line are block-level; a tag sharing its line with text is inline.
func (s *scanner) isBlockTag(start, end int) bool {
	src := s.src
	lineStart := strings.LastIndexByte(src[:start], '\n') + 1
	lineEnd := len(src)
	if nl := strings.IndexByte(src[end:], '\n'); nl >= 0 {
		lineEnd = end + nl
	}

	i := lineStart
	for i < lineEnd {
		switch {
		case src[i] == ' ' || src[i] == '\t' || src[i] == '\r':
			i++
		case strings.HasPrefix(src[i:], "<>"):
			i += 2
		case strings.HasPrefix(src[i:], "</>"):
			i += 3
		case src[i] == '<':
			nameAt := i + 1
			if nameAt < len(src) && src[nameAt] == '/' {
				nameAt++
			}
			if nameAt >= len(src) || !isUpper(src[nameAt]) {
				return false
			}
			t, err := parseTag(src, i, len(src))
			if err != nil {
				return false
			}
			i = t.end
		default:
			return false
		}
	}
	return true
}

func (s *scanner) position(offset int) (int, int) {
	line := strings.Count(s.src[:offset], "\n") + 1
	col := offset - strings.LastIndexByte(s.src[:offset], '\n')
	return line, col
}

func (s *scanner) errorAt(offset int, sentinel error, detail string) error {
	line, col := s.position(offset)
	return &SyntaxError{Line: line, Column: col, Err: sentinel, Detail: detail}
}

// wrapAt attaches a position to an error from evaluate or textValue.
func (s *scanner) wrapAt(offset int, err error) error {
	line, col := s.position(offset)
	sentinel := ErrInvalidExpression
	if errors.Is(err, ErrUnresolvedReference) {
		sentinel = ErrUnresolvedReference
	}
	detail := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	return &SyntaxError{Line: line, Column: col, Err: sentinel, Detail: detail}
}

// escapeText turns a value into Markdown text that renders literally, both
// in paragraphs and inside raw HTML, by writing ASCII punctuation as numeric
// character references. Newlines become spaces.
func escapeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r < 0x80 && isASCIIPunct(byte(r)):
			fmt.Fprintf(&b, "&#%d;", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// codeSpanEnd returns the offset after the code span opening at i, or after
// the backtick run itself when no closing run exists before a blank line.
func codeSpanEnd(src string, i, end int) int {
	n := 0
	for i+n < end && src[i+n] == '`' {
		n++
	}
	run := strings.Repeat("`", n)

	limit := end
	if blank := strings.Index(src[i+n:end], "\n\n"); blank >= 0 {
		limit = i + n + blank
	}

	j := i + n
	for j < limit {
		k := strings.Index(src[j:limit], run)
		if k < 0 {
			break
		}
		k += j
		after := k + n
		if after < limit && src[after] == '`' {
			for after < limit && src[after] == '`' {
				after++
			}
			j = after
			continue
		}
		return after
	}
	return i + n
}

// matchBrace finds the '}' closing the '{' at i, skipping strings and comments.
func matchBrace(src string, i, end int) (int, bool) {
	depth := 0
	for j := i; j < end; j++ {
		switch c := src[j]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, true
			}
		case '"', '\'', '`':
			k := j + 1
			for k < end && src[k] != c {
				if src[k] == '\\' {
					k++
				}
				k++
			}
			if k >= end {
				return 0, false
			}
			j = k
		case '/':
			if j+1 < end && src[j+1] == '*' {
				close := strings.Index(src[j+2:end], "*/")
				if close < 0 {
					return 0, false
				}
				j += 2 + close + 1
			}
		}
	}
	return 0, false
}

// opensFence reports the fence character and length when line opens a code fence.
func opensFence(trimmed string) (byte, int) {
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return 0, 0
	}
	c := trimmed[0]
	n := 0
	for n < len(trimmed) && trimmed[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0
	}
	if c == '`' && strings.ContainsRune(trimmed[n:], '`') {
		return 0, 0
	}
	return c, n
}

// closesFence reports whether line closes a fence of at least n c characters.
func closesFence(trimmed string, c byte, n int) bool {
	k := 0
	for k < len(trimmed) && trimmed[k] == c {
		k++
	}
	return k >= n && strings.TrimSpace(trimmed[k:]) == ""
}

// isESM reports whether a line starts an import or export statement.
func isESM(line string) bool {
	for _, kw := range []string{"import", "export"} {
		if rest, ok := strings.CutPrefix(line, kw); ok {
			if rest == "" {
				return false
			}
			switch rest[0] {
			case ' ', '\t', '{', '*':
				return true
			}
		}
	}
	return false
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}
