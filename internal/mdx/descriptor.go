package mdx

import (
	"fmt"
	"html"
	"slices"
	"strings"

	xhtml "golang.org/x/net/html"
)

// DescriptorVersion is bumped whenever the descriptor JSON shape changes.
const DescriptorVersion = 1

// NodeType discriminates descriptor nodes.
type NodeType string

const (
	NodeHTML      NodeType = "html"      // serialized markup without components
	NodeElement   NodeType = "element"   // HTML element with component descendants
	NodeComponent NodeType = "component" // JSX element resolved by the host
)

// Node is one entry of the descriptor tree. Only the fields relevant to its
// Type are set.
type Node struct {
	Type     NodeType          `json:"type"`
	HTML     string            `json:"html,omitempty"`
	Tag      string            `json:"tag,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Name     string            `json:"name,omitempty"`
	Props    map[string]any    `json:"props,omitempty"`
	Block    bool              `json:"block,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Descriptor is a compiled MDX document. A host renders it by walking Nodes
// and mapping component names to its own implementations.
type Descriptor struct {
	Version     int            `json:"version"`
	Nodes       []*Node        `json:"nodes"`
	Components  []string       `json:"components"`
	Scope       Scope          `json:"scope"`
	Frontmatter map[string]any `json:"frontmatter"`
}

// StaticHTML renders the descriptor without a component runtime: each
// component is replaced by its children.
func (d *Descriptor) StaticHTML() string {
	var b strings.Builder
	writeStatic(&b, d.Nodes)
	return b.String()
}

func writeStatic(b *strings.Builder, nodes []*Node) {
	for _, n := range nodes {
		switch n.Type {
		case NodeHTML:
			b.WriteString(n.HTML)
		case NodeComponent:
			writeStatic(b, n.Children)
		case NodeElement:
			b.WriteByte('<')
			b.WriteString(n.Tag)
			keys := make([]string, 0, len(n.Attrs))
			for k := range n.Attrs {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(b, ` %s="%s"`, k, html.EscapeString(n.Attrs[k]))
			}
			b.WriteByte('>')
			if voidElements[n.Tag] {
				continue
			}
			writeStatic(b, n.Children)
			b.WriteString("</")
			b.WriteString(n.Tag)
			b.WriteByte('>')
		}
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// treeBuilder turns a rendered fragment holding component markers into
// descriptor nodes.
type treeBuilder struct {
	comps []component
	mark  rune
}

// frame collects the children of the node being built.
type frame struct {
	id    int   // component id; -1 for the element being walked
	node  *Node // nil for the element being walked
	nodes []*Node
}

// build converts the children of parent. Components opened inside parent
// must be closed inside it.
func (tb *treeBuilder) build(parent *xhtml.Node) ([]*Node, error) {
	stack := []*frame{{id: -1}}

	appendNode := func(n *Node) {
		top := stack[len(stack)-1]
		if n.Type == NodeHTML && len(top.nodes) > 0 {
			if last := top.nodes[len(top.nodes)-1]; last.Type == NodeHTML {
				last.HTML += n.HTML
				return
			}
		}
		top.nodes = append(top.nodes, n)
	}

	handleMarker := func(id int, kind rune) error {
		if id < 0 || id >= len(tb.comps) {
			return fmt.Errorf("%w: unknown component marker", ErrInvalidComponent)
		}
		c := tb.comps[id]
		switch kind {
		case markerVoid:
			appendNode(tb.componentNode(c))
		case markerOpen:
			n := tb.componentNode(c)
			appendNode(n)
			stack = append(stack, &frame{id: id, node: n})
		case markerClose:
			if stack[len(stack)-1].id != id {
				return tb.errorFor(c, fmt.Sprintf("closing tag </%s> must be in the same block as its opening tag", c.name))
			}
			top := stack[len(stack)-1]
			top.node.Children = top.nodes
			stack = stack[:len(stack)-1]
		}
		return nil
	}

	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		switch {
		case child.Type == xhtml.TextNode && strings.ContainsRune(child.Data, tb.mark):
			for _, tok := range tb.splitMarkers(child.Data) {
				if tok.kind == 0 {
					appendNode(&Node{Type: NodeHTML, HTML: html.EscapeString(tok.text)})
					continue
				}
				if err := handleMarker(tok.id, tok.kind); err != nil {
					return nil, err
				}
			}

		case child.Type == xhtml.ElementNode && tb.containsMarker(child):
			if id, kind, ok := tb.soleMarker(child); ok {
				if err := handleMarker(id, kind); err != nil {
					return nil, err
				}
				continue
			}
			children, err := tb.build(child)
			if err != nil {
				return nil, err
			}
			appendNode(&Node{Type: NodeElement, Tag: child.Data, Attrs: attrMap(child), Children: children})

		default:
			var b strings.Builder
			if err := xhtml.Render(&b, child); err != nil {
				return nil, err
			}
			appendNode(&Node{Type: NodeHTML, HTML: b.String()})
		}
	}

	if len(stack) > 1 {
		c := tb.comps[stack[len(stack)-1].id]
		where := "document"
		if parent.Type == xhtml.ElementNode {
			where = "<" + parent.Data + ">"
		}
		return nil, tb.errorFor(c, fmt.Sprintf("expected closing tag </%s> before the end of %s", c.name, where))
	}
	return stack[0].nodes, nil
}

func (tb *treeBuilder) componentNode(c component) *Node {
	return &Node{Type: NodeComponent, Name: c.name, Props: c.props, Block: c.block}
}

func (tb *treeBuilder) errorFor(c component, detail string) error {
	return &SyntaxError{Line: c.line, Column: c.column, Err: ErrInvalidComponent, Detail: detail}
}

// names returns the sorted, distinct component names.
func (tb *treeBuilder) names() []string {
	names := make([]string, 0, len(tb.comps))
	for _, c := range tb.comps {
		names = append(names, c.name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// markerToken is either text (kind 0) or a component marker.
type markerToken struct {
	text string
	id   int
	kind rune
}

// splitMarkers splits text around component markers.
func (tb *treeBuilder) splitMarkers(text string) []markerToken {
	var tokens []markerToken
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != tb.mark || i+2 >= len(runes) {
			continue
		}
		if start < i {
			tokens = append(tokens, markerToken{text: string(runes[start:i])})
		}
		tokens = append(tokens, markerToken{id: int(runes[i+1]) - markerIDBase, kind: runes[i+2]})
		i += 2
		start = i + 1
	}
	if start < len(runes) {
		tokens = append(tokens, markerToken{text: string(runes[start:])})
	}
	return tokens
}

// soleMarker reports whether n is a paragraph wrapping only one marker,
// which is how goldmark renders a block-level component tag.
func (tb *treeBuilder) soleMarker(n *xhtml.Node) (int, rune, bool) {
	if n.Data != "p" || n.FirstChild == nil || n.FirstChild != n.LastChild || n.FirstChild.Type != xhtml.TextNode {
		return 0, 0, false
	}
	tokens := tb.splitMarkers(strings.TrimSpace(n.FirstChild.Data))
	if len(tokens) != 1 || tokens[0].kind == 0 {
		return 0, 0, false
	}
	return tokens[0].id, tokens[0].kind, true
}

func (tb *treeBuilder) containsMarker(n *xhtml.Node) bool {
	if n.Type == xhtml.TextNode {
		return strings.ContainsRune(n.Data, tb.mark)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if tb.containsMarker(c) {
			return true
		}
	}
	return false
}

func attrMap(n *xhtml.Node) map[string]string {
	if len(n.Attr) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	return attrs
}
