package pipeline

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultAutolinkClass is the class set on heading anchor links.
const DefaultAutolinkClass = "autolink"

// AutolinkHeadings returns a pass that prepends a self-link to every heading
// carrying an id. The anchor is hidden from assistive technology and holds an
// empty icon span for styling. An empty class disables the pass.
func AutolinkHeadings(class string) TreePass {
	return func(root *html.Node) {
		if class == "" {
			return
		}
		walkElements(root, func(n *html.Node) {
			if !isHeading(n) {
				return
			}
			id, ok := getAttr(n, "id")
			if !ok || id == "" {
				return
			}
			n.InsertBefore(newHeadingAnchor(id, class), n.FirstChild)
		})
	}
}

// newHeadingAnchor builds <a aria-hidden tabindex class href><span class="icon icon-link"></span></a>.
func newHeadingAnchor(id, class string) *html.Node {
	icon := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Span,
		Data:     "span",
		Attr:     []html.Attribute{{Key: "class", Val: "icon icon-link"}},
	}
	anchor := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.A,
		Data:     "a",
		Attr: []html.Attribute{
			{Key: "aria-hidden", Val: "true"},
			{Key: "tabindex", Val: "-1"},
			{Key: "class", Val: class},
			{Key: "href", Val: "#" + id},
		},
	}
	anchor.AppendChild(icon)
	return anchor
}
