package dispatcher

import "sort"

// EventTypeMap maps native event names to logical names. An empty logical
// name disables delegation for that native event.
type EventTypeMap map[string]string

// Hover keys are delegated through mouseover and mouseout.
const (
	MouseEnter = "mouseenter"
	MouseLeave = "mouseleave"
	MouseMove  = "mousemove"
)

// DefaultEvents returns a fresh copy of the default map.
func DefaultEvents() EventTypeMap {
	return EventTypeMap{
		"touchstart":  "touchStart",
		"touchmove":   "touchMove",
		"touchend":    "touchEnd",
		"touchcancel": "touchCancel",
		"keydown":     "keyDown",
		"keyup":       "keyUp",
		"keypress":    "keyPress",
		"mousedown":   "mouseDown",
		"mouseup":     "mouseUp",
		"contextmenu": "contextMenu",
		"click":       "click",
		"dblclick":    "doubleClick",
		"focusin":     "focusIn",
		"focusout":    "focusOut",
		"submit":      "submit",
		"input":       "input",
		"change":      "change",
		"dragstart":   "dragStart",
		"drag":        "drag",
		"dragenter":   "dragEnter",
		"dragleave":   "dragLeave",
		"dragover":    "dragOver",
		"drop":        "drop",
		"dragend":     "dragEnd",
		MouseEnter:    "mouseEnter",
		MouseLeave:    "mouseLeave",
		MouseMove:     "mouseMove",
	}
}

// Merge returns a copy of m with custom applied on top. Custom entries add,
// remap or, with an empty value, disable native events.
func (m EventTypeMap) Merge(custom map[string]string) EventTypeMap {
	out := make(EventTypeMap, len(m)+len(custom))
	for native, logical := range m {
		out[native] = logical
	}
	for native, logical := range custom {
		out[native] = logical
	}
	return out
}

// Logical returns the logical name for native, and false when the event is
// unknown or disabled.
func (m EventTypeMap) Logical(native string) (string, bool) {
	logical, ok := m[native]
	return logical, ok && logical != ""
}

// Enabled returns the enabled native names in sorted order.
func (m EventTypeMap) Enabled() []string {
	var out []string
	for native, logical := range m {
		if logical != "" {
			out = append(out, native)
		}
	}
	sort.Strings(out)
	return out
}
