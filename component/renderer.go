package component

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chrisuehlinger/eventdispatch/action"
	"github.com/chrisuehlinger/eventdispatch/deprecate"
	"github.com/chrisuehlinger/eventdispatch/dom"
	"github.com/chrisuehlinger/eventdispatch/runloop"
)

// Declarative action attributes recognized in templates.
const (
	ActionAttr               = "action"
	ActionOnAttr             = "action-on"
	ActionArgsAttr           = "action-args"
	ActionBubblesAttr        = "action-bubbles"
	ActionPreventDefaultAttr = "action-prevent-default"
	ActionAllowedKeysAttr    = "action-allowed-keys"
)

var deprecatedHandlers = []string{"mouseEnter", "mouseLeave", "mouseMove"}

// Renderer builds components from definitions. Structural changes run
// inside the loop; removal unregisters actions synchronously and the
// component itself on the destroy queue.
type Renderer struct {
	doc        *dom.Document
	registry   *Registry
	actions    *action.Helper
	loop       *runloop.Loop
	log        *logrus.Entry
	deprecator *deprecate.Tracker
	defs       map[string]*Definition
}

// NewRenderer creates a Renderer. A nil log uses the standard logger and
// a nil tracker creates one.
func NewRenderer(doc *dom.Document, registry *Registry, actions *action.Helper, loop *runloop.Loop, log *logrus.Entry, deprecator *deprecate.Tracker) *Renderer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if deprecator == nil {
		deprecator = deprecate.NewTracker(log)
	}
	return &Renderer{
		doc:        doc,
		registry:   registry,
		actions:    actions,
		loop:       loop,
		log:        log.WithField("component", "renderer"),
		deprecator: deprecator,
		defs:       make(map[string]*Definition),
	}
}

// Document returns the document components render into.
func (r *Renderer) Document() *dom.Document { return r.doc }

// Registry returns the component registry.
func (r *Renderer) Registry() *Registry { return r.registry }

// Define registers a definition, replacing one with the same name.
func (r *Renderer) Define(def *Definition) error {
	if err := def.validate(); err != nil {
		return err
	}
	r.defs[def.key()] = def
	return nil
}

// Lookup returns the definition with the given name.
func (r *Renderer) Lookup(name string) (*Definition, bool) {
	def, ok := r.defs[strings.ToLower(name)]
	return def, ok
}

// Append creates a component and appends its element to parent.
func (r *Renderer) Append(name string, parent *dom.Element) (*Component, error) {
	def, ok := r.Lookup(name)
	if !ok {
		return nil, errors.Errorf("component: no definition named %q", name)
	}
	var c *Component
	err := r.loop.Run(func() error {
		el := r.createElement(def.TagName)
		var err error
		c, err = r.instantiate(def, el, r.nearestOwner(parent))
		if err != nil {
			return err
		}
		parent.Append(el)
		return nil
	})
	return c, err
}

func (r *Renderer) createElement(tag string) *dom.Element {
	if strings.EqualFold(tag, "svg") {
		return r.doc.CreateElementNS(dom.SVGNamespace, "svg")
	}
	return r.doc.CreateElement(tag)
}

// Upgrade turns the elements under root whose tag names a definition into
// components. It is used for pages parsed from HTML.
func (r *Renderer) Upgrade(root *dom.Element) ([]*Component, error) {
	var created []*Component
	err := r.loop.Run(func() error {
		var err error
		created, err = r.upgradeChildren(root, r.nearestOwner(root))
		return err
	})
	return created, err
}

// Rerender schedules c's template to be rendered again on the render queue.
// Elements inside c are replaced, so their actions get new ids.
func (r *Renderer) Rerender(c *Component) error {
	return r.loop.Schedule(runloop.Render, func() error {
		return r.render(c)
	})
}

// Destroy removes c's element from the document. Actions inside it are
// unregistered at once; components inside it are unregistered when the
// destroy queue flushes.
func (r *Renderer) Destroy(c *Component) error {
	return r.loop.Run(func() error {
		owned := r.componentsUnder(c.element)
		c.element.Remove()
		for _, el := range r.actions.BoundElements(c.element.AsNode()) {
			r.actions.Unbind(el)
		}
		return r.loop.Schedule(runloop.Destroy, func() error {
			for _, child := range owned {
				r.registry.Unregister(child)
			}
			r.log.WithField("name", c.Name()).Debug("destroyed component")
			return nil
		})
	})
}

func (r *Renderer) nearestOwner(el *dom.Element) *Component {
	if el == nil {
		return nil
	}
	c, _ := r.registry.Nearest(el)
	return c
}

func (r *Renderer) instantiate(def *Definition, el *dom.Element, parent *Component) (*Component, error) {
	c := newComponent(def, el, parent)
	if err := r.registry.Register(c); err != nil {
		return nil, err
	}
	for _, name := range deprecatedHandlers {
		if _, ok := def.Handlers[name]; ok {
			r.deprecator.Warn(deprecate.IDComponentMouseEvents,
				"Using `"+name+"` event handler methods in components has been deprecated.",
				def.Name)
		}
	}
	if err := r.render(c); err != nil {
		r.registry.Unregister(c)
		return nil, err
	}
	r.log.WithField("name", def.Name).Debug("created component")
	return c, nil
}

// render fills c's element from its template, upgrades nested components
// and binds c's actions.
func (r *Renderer) render(c *Component) error {
	el := c.element
	if c.def.Template != "" {
		for _, child := range r.componentsUnder(el) {
			if child != c {
				r.registry.Unregister(child)
			}
		}
		for _, bound := range r.actions.BoundElements(el.AsNode()) {
			r.actions.Unbind(bound)
		}
		if err := el.SetInnerHTML(c.def.Template); err != nil {
			return errors.Wrapf(err, "component %s: template", c.def.Name)
		}
	} else {
		for _, bound := range r.actions.BoundElements(el.AsNode()) {
			if r.owns(c, bound) {
				r.actions.Unbind(bound)
			}
		}
	}

	if _, err := r.upgradeChildren(el, c); err != nil {
		return err
	}
	return r.bindActions(c)
}

func (r *Renderer) upgradeChildren(root *dom.Element, owner *Component) ([]*Component, error) {
	var created []*Component
	for _, child := range root.Children() {
		if _, ok := r.registry.ComponentFor(child); ok {
			continue
		}
		if def, ok := r.defs[child.LocalName()]; ok {
			c, err := r.instantiate(def, child, owner)
			if err != nil {
				return created, err
			}
			created = append(created, c)
			continue
		}
		nested, err := r.upgradeChildren(child, owner)
		created = append(created, nested...)
		if err != nil {
			return created, err
		}
	}
	return created, nil
}

func (r *Renderer) bindActions(c *Component) error {
	for _, b := range c.def.Bindings {
		targets := []*dom.Element{c.element}
		if b.Selector != "" {
			targets = c.element.QuerySelectorAll(b.Selector)
		}
		for _, el := range targets {
			if !r.owns(c, el) {
				continue
			}
			if _, err := r.actions.Bind(el, c, b.Action, b.Args, b.Options); err != nil {
				return err
			}
		}
	}

	declared := append([]*dom.Element{c.element}, c.element.QuerySelectorAll("["+ActionAttr+"]")...)
	for _, el := range declared {
		if !el.HasAttribute(ActionAttr) || !r.owns(c, el) {
			continue
		}
		name, args, opts, err := declaredAction(el)
		if err != nil {
			return errors.Wrapf(err, "component %s", c.def.Name)
		}
		if _, err := r.actions.Bind(el, c, name, args, opts); err != nil {
			return err
		}
	}
	return nil
}

// owns reports whether c is the nearest component of el.
func (r *Renderer) owns(c *Component, el *dom.Element) bool {
	if el == c.element {
		return true
	}
	nearest, ok := r.registry.Nearest(el)
	return ok && nearest == c
}

func declaredAction(el *dom.Element) (string, []any, action.Options, error) {
	opts := action.Options{
		On:   el.GetAttribute(ActionOnAttr),
		Path: el.GetAttribute(ActionAttr),
	}
	var args []any
	for _, arg := range strings.Fields(el.GetAttribute(ActionArgsAttr)) {
		args = append(args, arg)
	}
	if el.HasAttribute(ActionAllowedKeysAttr) {
		opts.AllowedKeys = action.String(el.GetAttribute(ActionAllowedKeysAttr))
	}
	for attr, dst := range map[string]*func() bool{
		ActionBubblesAttr:        &opts.Bubbles,
		ActionPreventDefaultAttr: &opts.PreventDefault,
	} {
		if !el.HasAttribute(attr) {
			continue
		}
		v, err := strconv.ParseBool(el.GetAttribute(attr))
		if err != nil {
			return "", nil, opts, errors.Wrapf(err, "%s on %s", attr, el)
		}
		*dst = action.Bool(v)
	}
	return el.GetAttribute(ActionAttr), args, opts, nil
}

func (r *Renderer) componentsUnder(root *dom.Element) []*Component {
	var out []*Component
	root.AsNode().Walk(func(n *dom.Node) bool {
		if el, ok := n.AsElement(); ok {
			if c, ok := r.registry.ComponentFor(el); ok {
				out = append(out, c)
			}
		}
		return true
	})
	return out
}
