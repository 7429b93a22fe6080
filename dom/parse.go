package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements never have an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// ParseHTML parses a whole page. Doctypes are dropped.
func ParseHTML(r io.Reader) (*Document, error) {
	parsed, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	for c := parsed.FirstChild; c != nil; c = c.NextSibling {
		if n := doc.importHTML(c); n != nil {
			doc.AsNode().AppendChild(n)
		}
	}
	return doc, nil
}

// ParseFragment parses markup as the content of e, so that context
// sensitive tags like <td> or SVG children come out right. The nodes are
// detached.
func (e *Element) ParseFragment(markup string) ([]*Node, error) {
	if markup == "" {
		return nil, nil
	}
	doc := e.AsNode().ownerDoc
	if doc == nil {
		return nil, domError(InvalidStateError, "%s has no owner document", e.LocalName())
	}
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     e.LocalName(),
		DataAtom: atom.Lookup([]byte(e.LocalName())),
	}
	if e.NamespaceURI() == SVGNamespace {
		context.Namespace = "svg"
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, err
	}
	var out []*Node
	for _, p := range parsed {
		if n := doc.importHTML(p); n != nil {
			out = append(out, n)
		}
	}
	return out, nil
}

// importHTML copies a parser node and its subtree into d.
func (d *Document) importHTML(p *html.Node) *Node {
	var n *Node
	switch p.Type {
	case html.TextNode:
		n = d.CreateTextNode(p.Data)
	case html.CommentNode:
		n = d.CreateComment(p.Data)
	case html.ElementNode:
		var el *Element
		if p.Namespace == "svg" {
			el = d.CreateElementNS(SVGNamespace, p.Data)
		} else {
			el = d.CreateElement(p.Data)
		}
		for _, a := range p.Attr {
			el.SetAttribute(a.Key, a.Val)
		}
		n = el.AsNode()
	default:
		return nil
	}
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if child := d.importHTML(c); child != nil {
			n.link(child, nil)
		}
	}
	return n
}

// InnerHTML serializes the children of e.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for c := e.AsNode().first; c != nil; c = c.next {
		writeHTML(&sb, c)
	}
	return sb.String()
}

// OuterHTML serializes e itself.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	writeHTML(&sb, e.AsNode())
	return sb.String()
}

// SetInnerHTML replaces the children of e with parsed markup. Nothing is
// removed when parsing fails.
func (e *Element) SetInnerHTML(markup string) error {
	nodes, err := e.ParseFragment(markup)
	if err != nil {
		return err
	}
	e.AsNode().clear()
	for _, n := range nodes {
		e.AsNode().AppendChild(n)
	}
	return nil
}

func writeHTML(sb *strings.Builder, n *Node) {
	switch n.nodeType {
	case TextNode:
		sb.WriteString(html.EscapeString(n.nodeValue))
		return
	case CommentNode:
		sb.WriteString("<!--" + n.nodeValue + "-->")
		return
	case ElementNode:
		el := (*Element)(n)
		sb.WriteString("<" + el.LocalName())
		for _, a := range n.element.attributes {
			sb.WriteString(" " + a.name + `="` + html.EscapeString(a.value) + `"`)
		}
		sb.WriteString(">")
		if voidElements[el.LocalName()] {
			return
		}
	}
	for c := n.first; c != nil; c = c.next {
		writeHTML(sb, c)
	}
	if el, ok := n.AsElement(); ok {
		sb.WriteString("</" + el.LocalName() + ">")
	}
}
