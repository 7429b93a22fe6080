package dom

// Mutation entry points come in pairs: the plain form drops the error for
// callers that build trees they know to be valid.

// AppendChild appends child, moving it from its current parent.
func (n *Node) AppendChild(child *Node) *Node {
	out, _ := n.InsertBeforeWithError(child, nil)
	return out
}

func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts child before ref, or last when ref is nil.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	out, _ := n.InsertBeforeWithError(child, ref)
	return out
}

// InsertBeforeWithError inserts child before ref. A fragment contributes its
// children. Observers hear about each connected subtree once it is in place.
func (n *Node) InsertBeforeWithError(child, ref *Node) (*Node, error) {
	if err := n.checkInsert(child, ref); err != nil {
		return nil, err
	}
	if child == ref {
		return child, nil
	}

	moved := []*Node{child}
	if child.nodeType == DocumentFragmentNode {
		moved = child.ChildNodes()
		for _, c := range moved {
			child.unlink(c)
		}
	} else if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	for _, c := range moved {
		n.link(c, ref)
	}
	if n.IsConnected() && n.ownerDoc != nil {
		for _, c := range moved {
			n.ownerDoc.notifyConnected(c)
		}
	}
	return child, nil
}

// checkInsert applies the pre-insert validity rules that matter for a tree
// without doctypes.
func (n *Node) checkInsert(child, ref *Node) error {
	switch {
	case child == nil:
		return domError(HierarchyRequestError, "cannot insert nil")
	case n.nodeType != ElementNode && n.nodeType != DocumentNode && n.nodeType != DocumentFragmentNode:
		return domError(HierarchyRequestError, "a %s node cannot have children", n.nodeType)
	case child.nodeType == DocumentNode:
		return domError(HierarchyRequestError, "a document cannot be inserted")
	case child.Contains(n):
		return domError(HierarchyRequestError, "cannot insert a node into its own subtree")
	case ref != nil && ref.parent != n:
		return domError(NotFoundError, "reference node is not a child of this node")
	}
	if n.nodeType == DocumentNode {
		if child.nodeType == TextNode {
			return domError(HierarchyRequestError, "text cannot be a child of a document")
		}
		if child.nodeType == ElementNode && (*Document)(n).DocumentElement() != nil {
			return domError(HierarchyRequestError, "the document already has a document element")
		}
	}
	return nil
}

// link splices c in before ref without validation or notification and
// hands it to this tree's document.
func (n *Node) link(c, ref *Node) {
	c.parent = n
	doc := n.ownerDoc
	if n.nodeType == DocumentNode {
		doc = (*Document)(n)
	}
	if doc != nil && c.ownerDoc != doc {
		c.Walk(func(d *Node) bool {
			d.ownerDoc = doc
			return true
		})
	}

	c.next = ref
	if ref == nil {
		c.prev = n.last
		n.last = c
	} else {
		c.prev = ref.prev
		ref.prev = c
	}
	if c.prev == nil {
		n.first = c
	} else {
		c.prev.next = c
	}
}

// unlink is the inverse of link.
func (n *Node) unlink(c *Node) {
	if c.prev == nil {
		n.first = c.next
	} else {
		c.prev.next = c.next
	}
	if c.next == nil {
		n.last = c.prev
	} else {
		c.next.prev = c.prev
	}
	c.parent, c.prev, c.next = nil, nil, nil
}

// RemoveChild detaches child.
func (n *Node) RemoveChild(child *Node) *Node {
	out, _ := n.RemoveChildWithError(child)
	return out
}

func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil || child.parent != n {
		return nil, domError(NotFoundError, "node is not a child of this node")
	}
	connected := n.IsConnected()
	n.unlink(child)
	if connected && n.ownerDoc != nil {
		n.ownerDoc.notifyDisconnected(child)
	}
	return child, nil
}

// ReplaceChild puts child where old was and returns old.
func (n *Node) ReplaceChild(child, old *Node) (*Node, error) {
	if old == nil || old.parent != n {
		return nil, domError(NotFoundError, "node to replace is not a child of this node")
	}
	if child == old {
		return old, nil
	}
	ref := old.next
	if ref == child {
		ref = child.next
	}
	n.RemoveChild(old)
	if _, err := n.InsertBeforeWithError(child, ref); err != nil {
		return nil, err
	}
	return old, nil
}

func (n *Node) clear() {
	for n.first != nil {
		n.RemoveChild(n.first)
	}
}
