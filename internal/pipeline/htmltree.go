package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrHTMLTree indicates an HTML fragment could not be parsed or serialized.
var ErrHTMLTree = errors.New("HTML tree pass failed")

// TreePass transforms a parsed HTML fragment in place.
// The root is a document node whose children are the fragment's top-level nodes.
type TreePass func(root *html.Node)

// ApplyPasses parses an HTML fragment, runs each pass in order, and renders
// the result. With no passes the input is returned unchanged.
func ApplyPasses(fragment string, passes ...TreePass) (string, error) {
	if len(passes) == 0 {
		return fragment, nil
	}

	root, err := ParseFragment(fragment)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLTree, err)
	}

	for _, pass := range passes {
		pass(root)
	}

	out, err := RenderFragment(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLTree, err)
	}
	return out, nil
}

// ParseFragment parses HTML with a body context to avoid <html><body> wrapping,
// and gathers the resulting nodes under a container for uniform traversal.
func ParseFragment(content string) (*html.Node, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// RenderFragment renders only the container's children.
func RenderFragment(root *html.Node) (string, error) {
	var buf strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// walkElements calls fn for every element node under n, depth first.
// Children are captured before fn runs so fn may detach the node.
func walkElements(n *html.Node, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			fn(c)
		}
		if c.Parent != nil {
			walkElements(c, fn)
		}
		c = next
	}
}

// getAttr returns the value of the named attribute.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// setAttr sets or replaces the named attribute.
func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// isHeading reports whether n is an h1-h6 element.
func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}
