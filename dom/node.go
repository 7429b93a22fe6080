package dom

import "strings"

// Node is one node of the tree. Document and Element are conversions of
// the same struct, so a *Node can be viewed as either without allocation.
type Node struct {
	nodeType  NodeType
	nodeName  string
	nodeValue string
	ownerDoc  *Document

	parent, first, last, prev, next *Node

	element   *elementData
	document  *documentData
	listeners *listenerTable
}

type elementData struct {
	localName    string
	namespaceURI string
	tagName      string
	attributes   []*Attr
	classList    *DOMTokenList
}

type documentData struct {
	observers      []observerEntry
	nextObserverID int
}

func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	return &Node{nodeType: nodeType, nodeName: nodeName, ownerDoc: ownerDoc}
}

func (n *Node) NodeType() NodeType { return n.nodeType }

// NodeName is the uppercase tag name for HTML elements and "#text",
// "#comment", "#document" or "#document-fragment" otherwise.
func (n *Node) NodeName() string { return n.nodeName }

// NodeValue is the data of text and comment nodes.
func (n *Node) NodeValue() string { return n.nodeValue }

// SetNodeValue is ignored for anything but text and comments.
func (n *Node) SetNodeValue(value string) {
	if n.nodeType == TextNode || n.nodeType == CommentNode {
		n.nodeValue = value
	}
}

// OwnerDocument is nil for documents themselves.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

func (n *Node) ParentNode() *Node      { return n.parent }
func (n *Node) FirstChild() *Node      { return n.first }
func (n *Node) LastChild() *Node       { return n.last }
func (n *Node) PreviousSibling() *Node { return n.prev }
func (n *Node) NextSibling() *Node     { return n.next }
func (n *Node) HasChildNodes() bool    { return n.first != nil }

// ParentElement is the parent when it is an element.
func (n *Node) ParentElement() *Element {
	el, _ := n.parent.AsElement()
	return el
}

// AsElement converts n when it is an element. It is safe on nil.
func (n *Node) AsElement() (*Element, bool) {
	if n == nil || n.nodeType != ElementNode {
		return nil, false
	}
	return (*Element)(n), true
}

// ChildNodes copies the child list.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.first; c != nil; c = c.next {
		out = append(out, c)
	}
	return out
}

// GetRootNode follows parents to the top of the tree.
func (n *Node) GetRootNode() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// IsConnected reports whether the tree's root is a document.
func (n *Node) IsConnected() bool {
	return n.GetRootNode().nodeType == DocumentNode
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for ; other != nil; other = other.parent {
		if other == n {
			return true
		}
	}
	return false
}

// Walk calls fn on n and its descendants in tree order. Children of a node
// for which fn returns false are skipped. Siblings are read before descending,
// so fn may detach the node it is visiting.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.first; c != nil; {
		next := c.next
		c.Walk(fn)
		c = next
	}
}

// TextContent concatenates descendant text. Documents have none.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode:
		return ""
	case TextNode, CommentNode:
		return n.nodeValue
	}
	var sb strings.Builder
	n.Walk(func(d *Node) bool {
		if d.nodeType == TextNode {
			sb.WriteString(d.nodeValue)
		}
		return d.nodeType != CommentNode
	})
	return sb.String()
}

// SetTextContent replaces the children of elements and fragments with one
// text node, or sets the data of text and comments.
func (n *Node) SetTextContent(value string) {
	switch n.nodeType {
	case DocumentNode:
	case TextNode, CommentNode:
		n.nodeValue = value
	default:
		n.clear()
		if value != "" {
			n.AppendChild(n.ownerDoc.CreateTextNode(value))
		}
	}
}
