package dom

import "fmt"

// Element is the element view of a Node.
type Element Node

// Namespaces the parser creates elements in.
const (
	HTMLNamespace = "http://www.w3.org/1999/xhtml"
	SVGNamespace  = "http://www.w3.org/2000/svg"
)

func (e *Element) AsNode() *Node { return (*Node)(e) }

func (e *Element) NodeType() NodeType { return ElementNode }

// TagName is uppercase for HTML elements and as written otherwise.
func (e *Element) TagName() string      { return e.element.tagName }
func (e *Element) LocalName() string    { return e.element.localName }
func (e *Element) NamespaceURI() string { return e.element.namespaceURI }

func (e *Element) isHTMLElement() bool { return e.element.namespaceURI == HTMLNamespace }

func (e *Element) Id() string            { return e.GetAttribute("id") }
func (e *Element) SetId(id string)       { e.SetAttribute("id", id) }
func (e *Element) ClassName() string     { return e.GetAttribute("class") }
func (e *Element) SetClassName(v string) { e.SetAttribute("class", v) }

// ClassList is a live view of the class attribute.
func (e *Element) ClassList() *DOMTokenList {
	if e.element.classList == nil {
		e.element.classList = &DOMTokenList{owner: e, attr: "class"}
	}
	return e.element.classList
}

func (e *Element) ParentElement() *Element { return e.AsNode().ParentElement() }
func (e *Element) IsConnected() bool       { return e.AsNode().IsConnected() }
func (e *Element) Contains(other *Node) bool {
	return e.AsNode().Contains(other)
}

// Children lists the element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.first; c != nil; c = c.next {
		if el, ok := c.AsElement(); ok {
			out = append(out, el)
		}
	}
	return out
}

func (e *Element) FirstElementChild() *Element {
	return first(e.Children())
}

func (e *Element) AppendChild(child *Node) *Node { return e.AsNode().AppendChild(child) }

// Append appends each element in turn.
func (e *Element) Append(children ...*Element) {
	for _, c := range children {
		e.AsNode().AppendChild(c.AsNode())
	}
}

// Remove detaches e from its parent, if any.
func (e *Element) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e.AsNode())
	}
}

func (e *Element) TextContent() string     { return e.AsNode().TextContent() }
func (e *Element) SetTextContent(v string) { e.AsNode().SetTextContent(v) }

// String renders <tag> or <tag id="x"> for logs and assertion messages.
func (e *Element) String() string {
	if id := e.Id(); id != "" {
		return fmt.Sprintf("<%s id=%q>", e.LocalName(), id)
	}
	return "<" + e.LocalName() + ">"
}
