// Package component provides the component tree the dispatcher delegates
// to: definitions with their event handlers and actions, live instances
// bound to elements, and the renderer that builds them from templates.
package component

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/chrisuehlinger/eventdispatch/action"
	"github.com/chrisuehlinger/eventdispatch/dom"
)

// ErrStop is returned by an EventHandler to stop propagation and prevent
// the native default action.
var ErrStop = errors.New("component: stop propagation")

// EventHandler handles one logical event. ev.Target is the element the
// native event originated on.
type EventHandler func(ev *dom.Event) error

// ActionFunc handles a named action.
type ActionFunc func(args ...any) error

// EventHandlerSet is an object consulted for handlers after the
// component's own.
type EventHandlerSet interface {
	EventHandlers() map[string]EventHandler
}

// HandlerMap is an EventHandlerSet backed by a map.
type HandlerMap map[string]EventHandler

// EventHandlers implements EventHandlerSet.
func (m HandlerMap) EventHandlers() map[string]EventHandler { return m }

// Component is a live instance owning one element.
type Component struct {
	def       *Definition
	element   *dom.Element
	parent    *Component
	handlers  map[string]EventHandler
	actions   map[string]ActionFunc
	listeners []EventHandlerSet

	// State is free-form per-instance data for handlers and actions.
	State map[string]any
}

func newComponent(def *Definition, el *dom.Element, parent *Component) *Component {
	c := &Component{
		def:      def,
		element:  el,
		parent:   parent,
		handlers: make(map[string]EventHandler, len(def.Handlers)),
		actions:  make(map[string]ActionFunc, len(def.Actions)),
		State:    make(map[string]any),
	}
	for name, h := range def.Handlers {
		c.handlers[name] = h
	}
	for name, fn := range def.Actions {
		c.actions[name] = fn
	}
	return c
}

// Name returns the definition name.
func (c *Component) Name() string { return c.def.Name }

// Definition returns the definition the component was created from.
func (c *Component) Definition() *Definition { return c.def }

// Element returns the component's element.
func (c *Component) Element() *dom.Element { return c.element }

// Parent returns the enclosing component, or nil.
func (c *Component) Parent() *Component { return c.parent }

// Handler returns the handler for a logical event name, looking at the
// component first and then its listener sets in the order they were added.
func (c *Component) Handler(logical string) (EventHandler, bool) {
	if h, ok := c.handlers[logical]; ok && h != nil {
		return h, true
	}
	for _, set := range c.listeners {
		if h, ok := set.EventHandlers()[logical]; ok && h != nil {
			return h, true
		}
	}
	return nil, false
}

// HasHandler reports whether Handler would find one.
func (c *Component) HasHandler(logical string) bool {
	_, ok := c.Handler(logical)
	return ok
}

// SetHandler installs or, with a nil handler, removes a handler.
func (c *Component) SetHandler(logical string, h EventHandler) {
	if h == nil {
		delete(c.handlers, logical)
		return
	}
	c.handlers[logical] = h
}

// SetAction installs or, with a nil func, removes an action.
func (c *Component) SetAction(name string, fn ActionFunc) {
	if fn == nil {
		delete(c.actions, name)
		return
	}
	c.actions[name] = fn
}

// AddEventListener adds a handler set consulted after the component's own
// handlers.
func (c *Component) AddEventListener(set EventHandlerSet) {
	c.listeners = append(c.listeners, set)
}

// RemoveEventListener removes a handler set added with AddEventListener.
func (c *Component) RemoveEventListener(set EventHandlerSet) {
	for i, l := range c.listeners {
		if l == set {
			c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
			return
		}
	}
}

// TriggerAction runs the named action. It implements action.Target.
func (c *Component) TriggerAction(name string, args ...any) error {
	fn, ok := c.actions[name]
	if !ok {
		return &action.AssertionError{Message: fmt.Sprintf("%s had no action handler for: %s", c, name)}
	}
	return fn(args...)
}

// Send is an alias for TriggerAction.
func (c *Component) Send(name string, args ...any) error {
	return c.TriggerAction(name, args...)
}

func (c *Component) String() string {
	if id := c.element.Id(); id != "" {
		return fmt.Sprintf("<%s#%s>", c.def.Name, id)
	}
	return fmt.Sprintf("<%s>", c.def.Name)
}
