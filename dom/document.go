package dom

import "strings"

// Document is the document view of a Node. It owns the lifecycle observers.
type Document Node

// NewDocument returns a document with no children.
func NewDocument() *Document {
	n := newNode(DocumentNode, "#document", nil)
	n.document = &documentData{}
	n.ownerDoc = (*Document)(n)
	return n.ownerDoc
}

// NewHTMLDocument returns html > (head, body).
func NewHTMLDocument() *Document {
	d := NewDocument()
	root := d.CreateElement("html")
	root.Append(d.CreateElement("head"), d.CreateElement("body"))
	d.AsNode().AppendChild(root.AsNode())
	return d
}

func (d *Document) AsNode() *Node { return (*Node)(d) }

// DocumentElement is the single element child, usually <html>.
func (d *Document) DocumentElement() *Element {
	for c := d.first; c != nil; c = c.next {
		if el, ok := c.AsElement(); ok {
			return el
		}
	}
	return nil
}

func (d *Document) Head() *Element { return d.section("head") }
func (d *Document) Body() *Element { return d.section("body") }

func (d *Document) section(name string) *Element {
	if root := d.DocumentElement(); root != nil {
		for _, c := range root.Children() {
			if c.LocalName() == name {
				return c
			}
		}
	}
	return nil
}

// CreateElement makes an HTML element; the name is case-insensitive.
func (d *Document) CreateElement(name string) *Element {
	local := strings.ToLower(name)
	return d.newElement(HTMLNamespace, local, strings.ToUpper(local))
}

// CreateElementNS makes an element in ns. Outside HTML names keep their case.
func (d *Document) CreateElementNS(ns, name string) *Element {
	if ns == HTMLNamespace {
		return d.CreateElement(name)
	}
	return d.newElement(ns, name, name)
}

func (d *Document) newElement(ns, local, tag string) *Element {
	n := newNode(ElementNode, tag, d)
	n.element = &elementData{localName: local, namespaceURI: ns, tagName: tag}
	return (*Element)(n)
}

func (d *Document) CreateTextNode(data string) *Node {
	n := newNode(TextNode, "#text", d)
	n.nodeValue = data
	return n
}

func (d *Document) CreateComment(data string) *Node {
	n := newNode(CommentNode, "#comment", d)
	n.nodeValue = data
	return n
}

func (d *Document) CreateDocumentFragment() *Node {
	return newNode(DocumentFragmentNode, "#document-fragment", d)
}

// GetElementById returns the first element in tree order with the id.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.AsNode().Walk(func(n *Node) bool {
		if el, ok := n.AsElement(); ok && found == nil && el.Id() == id {
			found = el
		}
		return found == nil
	})
	return found
}

func (d *Document) QuerySelector(selector string) *Element {
	return first(query(d.AsNode(), selector, 1))
}

func (d *Document) QuerySelectorAll(selector string) []*Element {
	return query(d.AsNode(), selector, -1)
}
