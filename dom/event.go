package dom

import "time"

// EventPhase represents the phase of event dispatch.
type EventPhase int

const (
	EventPhaseNone      EventPhase = 0
	EventPhaseCapturing EventPhase = 1
	EventPhaseAtTarget  EventPhase = 2
	EventPhaseBubbling  EventPhase = 3
)

// Event represents a native DOM event, including the mouse, keyboard and
// drag fields the dispatcher reads.
type Event struct {
	Type       string
	Bubbles    bool
	Cancelable bool

	// Target is set by DispatchEvent when nil. Synthesized events may preset it.
	Target        *Node
	CurrentTarget *Node
	RelatedTarget *Node

	// Modifier keys
	CtrlKey  bool
	AltKey   bool
	ShiftKey bool
	MetaKey  bool

	// Button is the pressed mouse button (0 = primary).
	Button int
	Key    string
	Which  int

	DataTransfer any
	Detail       any
	TimeStamp    time.Time

	phase                       EventPhase
	defaultPrevented            bool
	propagationStopped          bool
	immediatePropagationStopped bool
	dispatching                 bool
}

// NewEvent creates a bubbling, cancelable event of the given type.
func NewEvent(eventType string) *Event {
	return &Event{
		Type:       eventType,
		Bubbles:    true,
		Cancelable: true,
		TimeStamp:  time.Now(),
	}
}

// Phase returns the current dispatch phase.
func (e *Event) Phase() EventPhase {
	return e.phase
}

// PreventDefault marks the event as canceled if it is cancelable.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// StopPropagation prevents the event from reaching further nodes.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// StopImmediatePropagation also skips remaining listeners on the current node.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatePropagationStopped = true
}

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool {
	return e.propagationStopped
}

// HasModifier reports whether any of ctrl, alt, shift or meta is pressed.
func (e *Event) HasModifier() bool {
	return e.CtrlKey || e.AltKey || e.ShiftKey || e.MetaKey
}

// TargetElement returns the target if it is an element, or the parent
// element of a text or comment target.
func (e *Event) TargetElement() *Element {
	if e.Target == nil {
		return nil
	}
	if el, ok := e.Target.AsElement(); ok {
		return el
	}
	return e.Target.ParentElement()
}
