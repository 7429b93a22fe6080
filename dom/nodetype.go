// Package dom provides the subset of the DOM Living Standard that the event
// dispatcher delegates over: a node tree, elements with attributes and class
// lists, simple selectors, HTML fragment parsing and native event dispatch.
// https://dom.spec.whatwg.org/
package dom

// NodeType is the numeric nodeType of a Node. Only the kinds a parsed page
// or template can produce exist here.
type NodeType uint16

const (
	ElementNode          NodeType = 1
	TextNode             NodeType = 3
	CommentNode          NodeType = 8
	DocumentNode         NodeType = 9
	DocumentFragmentNode NodeType = 11
)

var nodeTypeNames = map[NodeType]string{
	ElementNode:          "element",
	TextNode:             "text",
	CommentNode:          "comment",
	DocumentNode:         "document",
	DocumentFragmentNode: "fragment",
}

func (nt NodeType) String() string {
	if name, ok := nodeTypeNames[nt]; ok {
		return name
	}
	return "unknown"
}
