package component

import (
	"github.com/pkg/errors"

	"github.com/chrisuehlinger/eventdispatch/dom"
)

// Registry maps elements to the components that own them.
type Registry struct {
	byElement map[*dom.Element]*Component
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byElement: make(map[*dom.Element]*Component)}
}

// Register records c as the owner of its element.
func (r *Registry) Register(c *Component) error {
	if existing, ok := r.byElement[c.element]; ok && existing != c {
		return errors.Errorf("component: %s already owns %s", existing, c.element)
	}
	r.byElement[c.element] = c
	return nil
}

// Unregister forgets c.
func (r *Registry) Unregister(c *Component) {
	if r.byElement[c.element] == c {
		delete(r.byElement, c.element)
	}
}

// ComponentFor returns the component owning el.
func (r *Registry) ComponentFor(el *dom.Element) (*Component, bool) {
	c, ok := r.byElement[el]
	return c, ok
}

// Nearest returns the component owning el or its closest ancestor.
func (r *Registry) Nearest(el *dom.Element) (*Component, bool) {
	for cur := el; cur != nil; cur = cur.ParentElement() {
		if c, ok := r.byElement[cur]; ok {
			return c, true
		}
	}
	return nil, false
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.byElement)
}
