package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// droppedElements are removed together with their content.
var droppedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Form:     true,
	atom.Base:     true,
	atom.Meta:     true,
	atom.Link:     true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Frame:    true,
	atom.Frameset: true,
}

// urlAttributes hold URLs and are checked for script-capable schemes.
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
	"poster":     true,
	"background": true,
}

// Sanitize returns a pass that strips script-capable markup: dangerous
// elements, comments, event handler and style attributes, and URLs using the
// javascript:, vbscript: or non-image data: schemes. Table cell alignment
// styles emitted for GFM tables are the only style attributes kept.
func Sanitize() TreePass {
	return sanitizeNode
}

func sanitizeNode(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode, html.DoctypeNode:
			n.RemoveChild(c)
		case html.ElementNode:
			if droppedElements[c.DataAtom] || (c.DataAtom == 0 && isDroppedName(c.Data)) {
				n.RemoveChild(c)
				break
			}
			c.Attr = sanitizeAttrs(c)
			sanitizeNode(c)
		default:
			sanitizeNode(c)
		}
		c = next
	}
}

// isDroppedName catches namespaced elements (svg script) the atom table misses.
func isDroppedName(name string) bool {
	switch strings.ToLower(name) {
	case "script", "style", "iframe", "object", "embed":
		return true
	}
	return false
}

func sanitizeAttrs(n *html.Node) []html.Attribute {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" {
			key = strings.ToLower(a.Namespace) + ":" + key
		}
		switch {
		case strings.HasPrefix(key, "on"), key == "srcdoc":
			continue
		case key == "style" && !isAlignmentStyle(a.Val):
			continue
		case urlAttributes[key] && !isSafeURL(a.Val, n.DataAtom == atom.Img && key == "src"):
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// isSafeURL rejects script-capable schemes. Browsers ignore ASCII whitespace
// and control characters inside the scheme, so those are removed first.
func isSafeURL(raw string, allowImageData bool) bool {
	var b strings.Builder
	for _, r := range raw {
		if r <= ' ' || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	v := strings.ToLower(b.String())

	switch {
	case strings.HasPrefix(v, "javascript:"), strings.HasPrefix(v, "vbscript:"):
		return false
	case strings.HasPrefix(v, "data:"):
		return allowImageData && strings.HasPrefix(v, "data:image/") && !strings.HasPrefix(v, "data:image/svg")
	}
	return true
}

// isAlignmentStyle matches the text-align declarations goldmark writes on table cells.
func isAlignmentStyle(v string) bool {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), " ", "") {
	case "text-align:left", "text-align:center", "text-align:right",
		"text-align:left;", "text-align:center;", "text-align:right;":
		return true
	}
	return false
}
