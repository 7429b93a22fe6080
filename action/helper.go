package action

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chrisuehlinger/eventdispatch/deprecate"
	"github.com/chrisuehlinger/eventdispatch/dom"
)

var deprecatedEvents = map[string]string{
	"mouseenter": "mouseEnter",
	"mouseleave": "mouseLeave",
	"mousemove":  "mouseMove",
}

// binding is a record waiting for, or holding, a registration.
type binding struct {
	record *Record
	id     int
}

// Helper binds actions to elements. Records are registered while their
// element is connected to the document and unregistered synchronously
// when it, or an ancestor, is removed.
//
// Bindings outlive removal so a re-inserted element registers again, and
// are dropped by Unbind. Helpers for pages that never re-insert nodes set
// ReleaseOnRemove so removed elements are not retained.
type Helper struct {
	// ReleaseOnRemove drops an element's bindings when it is removed
	// instead of keeping them for re-insertion.
	ReleaseOnRemove bool

	doc        *dom.Document
	registry   *Registry
	log        *logrus.Entry
	deprecator *deprecate.Tracker
	bindings   map[*dom.Element][]*binding
	observerID dom.ObserverID
}

// NewHelper creates a Helper observing doc. A nil log uses the standard
// logger; a nil tracker creates one.
func NewHelper(doc *dom.Document, registry *Registry, log *logrus.Entry, deprecator *deprecate.Tracker) *Helper {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if deprecator == nil {
		deprecator = deprecate.NewTracker(log)
	}
	h := &Helper{
		doc:        doc,
		registry:   registry,
		log:        log.WithField("component", "action"),
		deprecator: deprecator,
		bindings:   make(map[*dom.Element][]*binding),
	}
	h.observerID = doc.Observe(h)
	return h
}

// Registry returns the registry the helper registers into.
func (h *Helper) Registry() *Registry {
	return h.registry
}

// Bind attaches an action to el. name is an action name resolved on the
// target, or a Func called directly. Any other name is an AssertionError.
// If el is connected the record is registered immediately.
func (h *Helper) Bind(el *dom.Element, scope Target, name any, args []any, opts Options) (*Record, error) {
	r, err := NewRecord(el, scope, name, args, opts)
	if err != nil {
		return nil, err
	}
	if logical, ok := deprecatedEvents[strings.ToLower(r.Event)]; ok {
		h.deprecator.Warn(deprecate.IDActionMouseEvents,
			"Using the `{{action}}` modifier with `"+logical+"` events has been deprecated.",
			el.String()+" "+r.Name)
	}

	b := &binding{record: r}
	h.bindings[el] = append(h.bindings[el], b)
	if el.IsConnected() {
		h.register(b)
	}
	return r, nil
}

// Unbind drops every binding on el, unregistering live records.
func (h *Helper) Unbind(el *dom.Element) {
	for _, b := range h.bindings[el] {
		h.unregister(b)
	}
	delete(h.bindings, el)
}

// BoundElements returns the elements under root, inclusive, that carry
// bindings, whether or not they are currently registered.
func (h *Helper) BoundElements(root *dom.Node) []*dom.Element {
	var out []*dom.Element
	if len(h.bindings) == 0 {
		return out
	}
	root.Walk(func(n *dom.Node) bool {
		if el, ok := n.AsElement(); ok && len(h.bindings[el]) > 0 {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Len returns the number of elements holding bindings.
func (h *Helper) Len() int {
	return len(h.bindings)
}

// Close stops observing the document and unregisters every record.
func (h *Helper) Close() {
	h.doc.Unobserve(h.observerID)
	for el := range h.bindings {
		h.Unbind(el)
	}
}

// NodeConnected registers the bindings inside the inserted subtree.
func (h *Helper) NodeConnected(n *dom.Node) {
	h.eachBound(n, h.register)
}

// NodeDisconnected unregisters the bindings inside the removed subtree,
// releasing them when ReleaseOnRemove is set.
func (h *Helper) NodeDisconnected(n *dom.Node) {
	if !h.ReleaseOnRemove {
		h.eachBound(n, h.unregister)
		return
	}
	for _, el := range h.BoundElements(n) {
		h.Unbind(el)
	}
}

func (h *Helper) eachBound(root *dom.Node, fn func(*binding)) {
	if len(h.bindings) == 0 {
		return
	}
	root.Walk(func(n *dom.Node) bool {
		if el, ok := n.AsElement(); ok {
			for _, b := range h.bindings[el] {
				fn(b)
			}
		}
		return true
	})
}

func (h *Helper) register(b *binding) {
	if b.id != 0 {
		return
	}
	b.id = h.registry.Register(b.record)
	h.log.WithFields(logrus.Fields{
		"id":     b.id,
		"action": b.record.Name,
		"on":     b.record.Event,
	}).Debug("registered action")
}

func (h *Helper) unregister(b *binding) {
	if b.id == 0 {
		return
	}
	h.registry.Unregister(b.id)
	h.log.WithField("id", b.id).Debug("unregistered action")
	b.id = 0
}
