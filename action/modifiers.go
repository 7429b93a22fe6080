package action

import (
	"strings"

	"github.com/chrisuehlinger/eventdispatch/dom"
)

var modifierKeys = []string{"alt", "shift", "meta", "ctrl"}

func isPointerEvent(eventType string) bool {
	return strings.HasPrefix(eventType, "click") ||
		strings.Contains(eventType, "mouse") ||
		strings.Contains(eventType, "touch")
}

// IsSimpleClick reports a primary-button event with no modifier pressed.
func IsSimpleClick(ev *dom.Event) bool {
	secondary := ev.Button > 0 || ev.Which > 1
	return !ev.HasModifier() && !secondary
}

// IsAllowedEvent applies an action's allowedKeys filter. When allowedKeys
// is unset, pointer events must be simple clicks and other events must have
// no modifier pressed. "any" admits everything; otherwise every pressed
// modifier must be listed.
func IsAllowedEvent(ev *dom.Event, allowedKeys *string) bool {
	keys := ""
	if allowedKeys == nil {
		if isPointerEvent(ev.Type) {
			return IsSimpleClick(ev)
		}
	} else {
		keys = *allowedKeys
	}
	if strings.Contains(keys, "any") {
		return true
	}
	pressed := map[string]bool{
		"alt":   ev.AltKey,
		"shift": ev.ShiftKey,
		"meta":  ev.MetaKey,
		"ctrl":  ev.CtrlKey,
	}
	for _, key := range modifierKeys {
		if pressed[key] && !strings.Contains(keys, key) {
			return false
		}
	}
	return true
}
