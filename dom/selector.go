package dom

import "strings"

// A selector list is compiled into complex selectors, each a chain of
// compounds joined by combinators. Supported: type, *, #id, .class,
// [attr] and [attr op value] with = ~= |= ^= $= *=, descendant and child
// combinators, and comma lists. Anything else never matches.

type attrCond struct {
	name, op, value string
}

type compound struct {
	tag     string // "" matches any element
	id      string
	classes []string
	attrs   []attrCond
	// child is true when this compound must be the parent of the next one.
	child bool
}

type complexSel []compound

func compileList(selector string) []complexSel {
	var out []complexSel
	for _, part := range strings.Split(selector, ",") {
		if sel, ok := compileComplex(strings.TrimSpace(part)); ok {
			out = append(out, sel)
		}
	}
	return out
}

func compileComplex(s string) (complexSel, bool) {
	var sel complexSel
	var word strings.Builder
	inAttr := false
	childNext := false
	emit := func() bool {
		if word.Len() == 0 {
			return true
		}
		c, ok := compileCompound(word.String())
		word.Reset()
		if !ok {
			return false
		}
		if childNext {
			if len(sel) == 0 {
				return false
			}
			sel[len(sel)-1].child = true
			childNext = false
		}
		sel = append(sel, c)
		return true
	}
	for _, r := range s {
		switch {
		case r == '[' || r == ']':
			inAttr = r == '['
			word.WriteRune(r)
		case inAttr:
			word.WriteRune(r)
		case r == '>':
			if !emit() {
				return nil, false
			}
			childNext = true
		case r == ' ' || r == '\t' || r == '\n':
			if !emit() {
				return nil, false
			}
		default:
			word.WriteRune(r)
		}
	}
	if !emit() || childNext || len(sel) == 0 {
		return nil, false
	}
	return sel, true
}

func compileCompound(s string) (compound, bool) {
	var c compound
	cut := strings.IndexAny(s, ".#[")
	if cut < 0 {
		cut = len(s)
	}
	if tag := s[:cut]; tag != "*" {
		c.tag = strings.ToLower(tag)
	}
	for rest := s[cut:]; rest != ""; {
		switch rest[0] {
		case '.', '#':
			end := strings.IndexAny(rest[1:], ".#[") + 1
			if end == 0 {
				end = len(rest)
			}
			name := rest[1:end]
			if name == "" {
				return c, false
			}
			if rest[0] == '#' {
				c.id = name
			} else {
				c.classes = append(c.classes, name)
			}
			rest = rest[end:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return c, false
			}
			cond, ok := compileAttr(rest[1:end])
			if !ok {
				return c, false
			}
			c.attrs = append(c.attrs, cond)
			rest = rest[end+1:]
		default:
			return c, false
		}
	}
	return c, true
}

func compileAttr(s string) (attrCond, bool) {
	eq := strings.IndexByte(s, '=')
	if eq < 0 {
		name := strings.TrimSpace(s)
		return attrCond{name: name}, name != ""
	}
	name, op := s[:eq], "="
	if eq > 0 && strings.ContainsRune("~|^$*", rune(s[eq-1])) {
		name, op = s[:eq-1], s[eq-1:eq+1]
	}
	value := strings.Trim(strings.TrimSpace(s[eq+1:]), `"'`)
	name = strings.TrimSpace(name)
	return attrCond{name: name, op: op, value: value}, name != ""
}

func (a attrCond) match(e *Element) bool {
	if !e.HasAttribute(a.name) {
		return false
	}
	v := e.GetAttribute(a.name)
	switch a.op {
	case "":
		return true
	case "=":
		return v == a.value
	case "~=":
		return indexOf(strings.Fields(v), a.value) >= 0
	case "|=":
		return v == a.value || strings.HasPrefix(v, a.value+"-")
	case "^=":
		return a.value != "" && strings.HasPrefix(v, a.value)
	case "$=":
		return a.value != "" && strings.HasSuffix(v, a.value)
	case "*=":
		return a.value != "" && strings.Contains(v, a.value)
	}
	return false
}

func (c compound) match(e *Element) bool {
	if c.tag != "" && strings.ToLower(e.LocalName()) != c.tag {
		return false
	}
	if c.id != "" && e.Id() != c.id {
		return false
	}
	for _, class := range c.classes {
		if !e.ClassList().Contains(class) {
			return false
		}
	}
	for _, a := range c.attrs {
		if !a.match(e) {
			return false
		}
	}
	return true
}

// match checks the last compound against e, then walks ancestors for the
// rest, right to left.
func (sel complexSel) match(e *Element) bool {
	last := len(sel) - 1
	if !sel[last].match(e) {
		return false
	}
	if last == 0 {
		return true
	}
	rest := sel[:last]
	if rest[last-1].child {
		p := e.ParentElement()
		return p != nil && rest.match(p)
	}
	for a := e.ParentElement(); a != nil; a = a.ParentElement() {
		if rest.match(a) {
			return true
		}
	}
	return false
}

func matchAny(list []complexSel, e *Element) bool {
	for _, sel := range list {
		if sel.match(e) {
			return true
		}
	}
	return false
}

// Matches reports whether e matches selector.
func (e *Element) Matches(selector string) bool {
	return matchAny(compileList(selector), e)
}

// Closest returns e or its nearest ancestor matching selector.
func (e *Element) Closest(selector string) *Element {
	list := compileList(selector)
	for cur := e; cur != nil; cur = cur.ParentElement() {
		if matchAny(list, cur) {
			return cur
		}
	}
	return nil
}

// QuerySelector returns the first matching descendant in tree order.
func (e *Element) QuerySelector(selector string) *Element {
	return first(query(e.AsNode(), selector, 1))
}

// QuerySelectorAll returns every matching descendant in tree order.
func (e *Element) QuerySelectorAll(selector string) []*Element {
	return query(e.AsNode(), selector, -1)
}

// query collects up to limit matching descendants of root; a negative
// limit collects all.
func query(root *Node, selector string, limit int) []*Element {
	list := compileList(selector)
	if len(list) == 0 {
		return nil
	}
	var out []*Element
	root.Walk(func(n *Node) bool {
		if limit >= 0 && len(out) >= limit {
			return false
		}
		if el, ok := n.AsElement(); ok && n != root && matchAny(list, el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

func first(els []*Element) *Element {
	if len(els) == 0 {
		return nil
	}
	return els[0]
}
