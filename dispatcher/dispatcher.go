// Package dispatcher delegates native DOM events to components and
// actions. One listener per enabled native event is attached at a root
// element; each event walks from its target up to the root, calling the
// component handler for its logical name and the actions bound on every
// element in the chain.
package dispatcher

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chrisuehlinger/eventdispatch/action"
	"github.com/chrisuehlinger/eventdispatch/component"
	"github.com/chrisuehlinger/eventdispatch/deprecate"
	"github.com/chrisuehlinger/eventdispatch/dom"
	"github.com/chrisuehlinger/eventdispatch/instrument"
	"github.com/chrisuehlinger/eventdispatch/runloop"
)

const (
	// DefaultRootElement is used when Setup is given no selector.
	DefaultRootElement = "body"
	// MarkerClass is added to the root while a dispatcher owns it.
	MarkerClass = "ember-application"
	// InstrumentPrefix prefixes the logical name in instrumentation.
	InstrumentPrefix = "interaction."
)

// Options supplies the collaborators of an EventDispatcher. Nil fields are
// created fresh, so two dispatchers never share state unless given it.
type Options struct {
	Components   *component.Registry
	Actions      *action.Registry
	Loop         *runloop.Loop
	Instrumenter *instrument.Instrumenter
	Deprecator   *deprecate.Tracker
	Log          *logrus.Entry
}

type rootListener struct {
	native string
	id     dom.ListenerID
}

// EventDispatcher owns the root listeners of one application instance.
type EventDispatcher struct {
	doc          *dom.Document
	components   *component.Registry
	actions      *action.Registry
	loop         *runloop.Loop
	instrumenter *instrument.Instrumenter
	deprecator   *deprecate.Tracker
	log          *logrus.Entry

	events       EventTypeMap
	rootSelector string
	root         *dom.Element
	listeners    []rootListener
	rootAttached bool
	observerID   dom.ObserverID
	destroyed    bool
}

// New creates a dispatcher for doc. Call Setup to attach it.
func New(doc *dom.Document, opts Options) *EventDispatcher {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	d := &EventDispatcher{
		doc:          doc,
		components:   opts.Components,
		actions:      opts.Actions,
		loop:         opts.Loop,
		instrumenter: opts.Instrumenter,
		deprecator:   opts.Deprecator,
		log:          log.WithField("component", "dispatcher"),
	}
	if d.components == nil {
		d.components = component.NewRegistry()
	}
	if d.actions == nil {
		d.actions = action.NewRegistry()
	}
	if d.loop == nil {
		d.loop = runloop.New(log)
	}
	if d.instrumenter == nil {
		d.instrumenter = instrument.New()
	}
	if d.deprecator == nil {
		d.deprecator = deprecate.NewTracker(log)
	}
	d.observerID = doc.Observe(d)
	return d
}

// Events returns the event map installed by the last Setup.
func (d *EventDispatcher) Events() EventTypeMap {
	return d.events
}

// RootElement returns the selector recorded by the last Setup.
func (d *EventDispatcher) RootElement() string {
	return d.rootSelector
}

// Root returns the root element, or nil before Setup.
func (d *EventDispatcher) Root() *dom.Element {
	return d.root
}

// RootAttached reports whether the root is currently connected.
func (d *EventDispatcher) RootAttached() bool {
	return d.root != nil && d.rootAttached
}

// Loop returns the update boundary used for every dispatch.
func (d *EventDispatcher) Loop() *runloop.Loop { return d.loop }

// Instrumenter returns the instrumentation hub.
func (d *EventDispatcher) Instrumenter() *instrument.Instrumenter { return d.instrumenter }

// Setup merges customEvents into the default map, resolves rootSelector
// (DefaultRootElement when empty) and attaches one listener per enabled
// native event. Calling it again detaches and reattaches; a refused root
// leaves the current one attached.
func (d *EventDispatcher) Setup(customEvents map[string]string, rootSelector string) error {
	if d.destroyed {
		return &ConfigurationError{Message: "cannot set up a destroyed event dispatcher"}
	}
	if rootSelector == "" {
		rootSelector = DefaultRootElement
	}
	root := d.doc.QuerySelector(rootSelector)
	if root == nil {
		return &ConfigurationError{Message: fmt.Sprintf("root element (%s) not found", rootSelector)}
	}

	if err := d.checkOwnership(root, rootSelector); err != nil {
		return err
	}
	d.detach()
	if err := root.ClassList().Add(MarkerClass); err != nil {
		return errors.Wrap(err, "dispatcher: marking root")
	}

	d.events = DefaultEvents().Merge(customEvents)
	d.root = root
	d.rootSelector = rootSelector
	d.rootAttached = root.IsConnected()

	for _, native := range d.events.Enabled() {
		logical, _ := d.events.Logical(native)
		switch native {
		case MouseEnter, MouseLeave:
			d.setupHover(native, logical)
		default:
			d.listen(native, d.delegate(native, logical))
		}
	}

	d.log.WithFields(logrus.Fields{
		"root":      rootSelector,
		"listeners": len(d.listeners),
	}).Debug("event dispatcher set up")
	return nil
}

// Destroy detaches every listener and releases the root. The dispatcher
// cannot be set up again.
func (d *EventDispatcher) Destroy() {
	if d.destroyed {
		return
	}
	d.detach()
	d.doc.Unobserve(d.observerID)
	d.destroyed = true
	d.log.Debug("event dispatcher destroyed")
}

// checkOwnership refuses roots overlapping another application. The marker
// on the dispatcher's own current root does not count.
func (d *EventDispatcher) checkOwnership(root *dom.Element, selector string) error {
	owned := func(el *dom.Element) bool {
		return el != d.root && el.ClassList().Contains(MarkerClass)
	}
	if owned(root) {
		return &ConfigurationError{Message: fmt.Sprintf(
			"You cannot use the same root element (%s) multiple times in an application", selector)}
	}
	for anc := root.ParentElement(); anc != nil; anc = anc.ParentElement() {
		if owned(anc) {
			return &ConfigurationError{Message: "You cannot make a new application using a root element that is a descendent of an existing application"}
		}
	}
	for _, el := range root.QuerySelectorAll("." + MarkerClass) {
		if owned(el) {
			return &ConfigurationError{Message: "You cannot make a new application using a root element that is an ancestor of an existing application"}
		}
	}
	return nil
}

func (d *EventDispatcher) listen(native string, fn dom.EventListener) {
	id := d.root.AsNode().AddEventListener(native, fn)
	d.listeners = append(d.listeners, rootListener{native: native, id: id})
}

func (d *EventDispatcher) detach() {
	if d.root == nil {
		return
	}
	for _, l := range d.listeners {
		d.root.AsNode().RemoveEventListener(l.native, l.id)
	}
	d.listeners = nil
	_ = d.root.ClassList().Remove(MarkerClass)
	d.root = nil
}

// NodeConnected tracks the root entering the document.
func (d *EventDispatcher) NodeConnected(n *dom.Node) {
	if d.root != nil && n.Contains(d.root.AsNode()) {
		d.rootAttached = true
		d.log.Debug("root attached")
	}
}

// NodeDisconnected tracks the root leaving the document.
func (d *EventDispatcher) NodeDisconnected(n *dom.Node) {
	if d.root != nil && n.Contains(d.root.AsNode()) {
		d.rootAttached = false
		d.log.Debug("root detached")
	}
}

// delegate returns the root listener for one native event.
func (d *EventDispatcher) delegate(native, logical string) dom.EventListener {
	name := InstrumentPrefix + logical
	return func(ev *dom.Event) error {
		payload := &instrument.Payload{Event: ev}
		return d.instrumenter.Instrument(name, payload, func() error {
			return d.loop.Run(func() error {
				handled, err := d.walk(ev, native, logical)
				payload.Handlers = handled
				d.log.WithFields(logrus.Fields{
					"native":   native,
					"logical":  logical,
					"handlers": handled,
				}).Debug("dispatched")
				return err
			})
		})
	}
}

// chain returns target and its ancestors up to the root, inclusive.
func (d *EventDispatcher) chain(target *dom.Element) []*dom.Element {
	var out []*dom.Element
	for el := target; el != nil; el = el.ParentElement() {
		out = append(out, el)
		if el == d.root {
			return out
		}
	}
	// target is outside the root
	return nil
}

// walk runs the handlers for ev along the snapshotted ancestor chain. At
// each element the component handler runs first, then the matching
// actions in registration order. A handler returning component.ErrStop,
// stopPropagation, or an action with bubbles off ends the walk after the
// current element.
func (d *EventDispatcher) walk(ev *dom.Event, native, logical string) (int, error) {
	handled := 0
	for _, el := range d.chain(ev.TargetElement()) {
		stop := false

		if c, ok := d.components.ComponentFor(el); ok {
			if h, ok := c.Handler(logical); ok {
				handled++
				if err := h(ev); err != nil {
					if !errors.Is(err, component.ErrStop) {
						return handled, errors.Wrapf(err, "%s handler of %s", logical, c)
					}
					ev.PreventDefault()
					ev.StopPropagation()
					stop = true
				}
			}
		}

		for _, r := range d.actions.ForElement(el) {
			if !r.Matches(native, logical) {
				continue
			}
			fired, bubbles, err := r.Fire(ev, d.instrumenter)
			if fired {
				handled++
			}
			if err != nil {
				return handled, errors.Wrapf(err, "action %s", r.Name)
			}
			if fired && !bubbles {
				stop = true
			}
		}

		if stop || ev.PropagationStopped() {
			break
		}
	}
	return handled, nil
}
