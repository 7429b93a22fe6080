package action

import (
	"strings"

	"github.com/chrisuehlinger/eventdispatch/dom"
	"github.com/chrisuehlinger/eventdispatch/instrument"
)

// DefaultEvent is the event an action listens for when On is empty.
const DefaultEvent = "click"

// InstrumentName is published around every fired action.
const InstrumentName = "interaction.ember-action"

// Target receives named actions. Components implement it.
type Target interface {
	TriggerAction(name string, args ...any) error
}

// Func is an action given directly as a function.
type Func func(args ...any) error

// Ref is a bound value read when the action fires rather than when it is
// registered. Args may contain Refs.
type Ref func() any

// Options are the named arguments of an action binding. Func-valued
// options are evaluated at fire time; nil means the default.
type Options struct {
	// On is the logical or native event name, matched case-insensitively.
	On string
	// Target overrides the scope as the receiver of a named action.
	Target func() Target
	// AllowedKeys lists permitted modifiers, e.g. "alt shift" or "any".
	AllowedKeys func() string
	// Bubbles defaults to true.
	Bubbles func() bool
	// PreventDefault defaults to true.
	PreventDefault func() bool
	// Path is the template expression that produced the action name,
	// used in assertion messages.
	Path string
}

// Bool returns a constant option value.
func Bool(v bool) func() bool { return func() bool { return v } }

// String returns a constant option value.
func String(v string) func() string { return func() string { return v } }

// TargetOf returns a constant Target option.
func TargetOf(t Target) func() Target { return func() Target { return t } }

// Record is one registered action on one element.
type Record struct {
	ID      int
	Element *dom.Element
	Name    string
	Func    Func
	Event   string

	scope Target
	args  []any
	opts  Options
}

// NewRecord builds an unregistered record. name must be a string or a Func.
func NewRecord(el *dom.Element, scope Target, name any, args []any, opts Options) (*Record, error) {
	r := &Record{
		Element: el,
		Event:   opts.On,
		scope:   scope,
		args:    args,
		opts:    opts,
	}
	if r.Event == "" {
		r.Event = DefaultEvent
	}
	switch n := name.(type) {
	case string:
		r.Name = n
	case Func:
		r.Name = "<function>"
		r.Func = n
	case func(args ...any) error:
		r.Name = "<function>"
		r.Func = n
	default:
		path := opts.Path
		if path == "" {
			path = "this"
		}
		return nil, quotelessPathError(path)
	}
	return r, nil
}

// Matches reports whether the record listens for the event, by logical or
// native name.
func (r *Record) Matches(native, logical string) bool {
	return strings.EqualFold(r.Event, logical) || strings.EqualFold(r.Event, native)
}

// Args resolves the bound arguments.
func (r *Record) Args() []any {
	out := make([]any, len(r.args))
	for i, arg := range r.args {
		if ref, ok := arg.(Ref); ok {
			out[i] = ref()
			continue
		}
		out[i] = arg
	}
	return out
}

// Target returns the current receiver of a named action.
func (r *Record) Target() Target {
	if r.opts.Target != nil {
		return r.opts.Target()
	}
	return r.scope
}

// Bubbles reports the current bubbles option.
func (r *Record) Bubbles() bool {
	return r.opts.Bubbles == nil || r.opts.Bubbles()
}

func (r *Record) preventDefault() bool {
	return r.opts.PreventDefault == nil || r.opts.PreventDefault()
}

func (r *Record) allowedKeys() *string {
	if r.opts.AllowedKeys == nil {
		return nil
	}
	keys := r.opts.AllowedKeys()
	return &keys
}

// Fire runs the action for ev if its modifier filter admits the event.
// fired reports whether it ran; bubbles is false when the walk must stop
// after this element. Errors from the action are returned.
func (r *Record) Fire(ev *dom.Event, in *instrument.Instrumenter) (fired, bubbles bool, err error) {
	if !IsAllowedEvent(ev, r.allowedKeys()) {
		return false, true, nil
	}
	if r.preventDefault() {
		ev.PreventDefault()
	}
	bubbles = r.Bubbles()
	if !bubbles {
		ev.StopPropagation()
	}

	args := r.Args()
	payload := &instrument.Payload{Name: r.Name, Args: args, Event: ev}
	err = in.Instrument(InstrumentName, payload, func() error {
		if r.Func != nil {
			return r.Func(args...)
		}
		target := r.Target()
		if target == nil {
			return &AssertionError{Message: "The action '" + r.Name + "' has no target."}
		}
		return target.TriggerAction(r.Name, args...)
	})
	return true, bubbles, err
}
