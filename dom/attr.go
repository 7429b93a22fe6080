package dom

import "strings"

// Attr is one name/value pair. Names of attributes on HTML elements are
// stored lowercased.
type Attr struct {
	name  string
	value string
}

func (a *Attr) Name() string  { return a.name }
func (a *Attr) Value() string { return a.value }

// IsValidAttributeLocalName rejects empty names and names containing
// whitespace, NUL, '/', '=' or '>'.
func IsValidAttributeLocalName(name string) bool {
	return name != "" && !strings.ContainsAny(name, asciiWhitespace+"\x00/=>")
}

func (e *Element) attrKey(name string) string {
	if e.isHTMLElement() {
		return strings.ToLower(name)
	}
	return name
}

// attr returns the attribute called name and its position.
func (e *Element) attr(name string) (*Attr, int) {
	key := e.attrKey(name)
	for i, a := range e.AsNode().element.attributes {
		if a.name == key {
			return a, i
		}
	}
	return nil, -1
}

// GetAttribute returns "" for a missing attribute.
func (e *Element) GetAttribute(name string) string {
	if a, _ := e.attr(name); a != nil {
		return a.value
	}
	return ""
}

func (e *Element) HasAttribute(name string) bool {
	a, _ := e.attr(name)
	return a != nil
}

// SetAttribute ignores invalid names.
func (e *Element) SetAttribute(name, value string) {
	_ = e.SetAttributeWithError(name, value)
}

// SetAttributeWithError updates the attribute in place or appends it.
func (e *Element) SetAttributeWithError(name, value string) error {
	if !IsValidAttributeLocalName(name) {
		return domError(InvalidCharacterError, "invalid attribute name %q", name)
	}
	if a, _ := e.attr(name); a != nil {
		a.value = value
		return nil
	}
	data := e.AsNode().element
	data.attributes = append(data.attributes, &Attr{name: e.attrKey(name), value: value})
	return nil
}

func (e *Element) RemoveAttribute(name string) {
	if _, i := e.attr(name); i >= 0 {
		data := e.AsNode().element
		data.attributes = append(data.attributes[:i], data.attributes[i+1:]...)
	}
}

// ToggleAttribute flips a boolean attribute, or forces it on or off, and
// reports whether it is present afterwards.
func (e *Element) ToggleAttribute(name string, force ...bool) bool {
	on := !e.HasAttribute(name)
	if len(force) > 0 {
		on = force[0]
	}
	if !on {
		e.RemoveAttribute(name)
	} else if !e.HasAttribute(name) {
		e.SetAttribute(name, "")
	}
	return on
}

// Attributes copies the attribute list in insertion order.
func (e *Element) Attributes() []*Attr {
	return append([]*Attr(nil), e.AsNode().element.attributes...)
}

func (e *Element) AttributeNames() []string {
	var names []string
	for _, a := range e.AsNode().element.attributes {
		names = append(names, a.name)
	}
	return names
}
