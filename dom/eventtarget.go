package dom

// EventListener is a callback registered with AddEventListener. A non-nil
// error aborts the dispatch and is returned from DispatchEvent.
type EventListener func(ev *Event) error

// ListenerID uniquely identifies a listener for removal, since Go funcs
// cannot be compared.
type ListenerID uint64

// ListenerOptions represents addEventListener options.
type ListenerOptions struct {
	Capture bool
	Once    bool
}

type listenerEntry struct {
	id       ListenerID
	listener EventListener
	options  ListenerOptions
}

// listenerTable holds a node's listeners keyed by event type.
type listenerTable struct {
	byType map[string][]listenerEntry
	nextID ListenerID
}

// AddEventListener registers a bubble-phase listener and returns its id.
func (n *Node) AddEventListener(eventType string, listener EventListener) ListenerID {
	return n.AddEventListenerWithOptions(eventType, listener, ListenerOptions{})
}

// AddEventListenerWithOptions registers a listener with capture/once options.
func (n *Node) AddEventListenerWithOptions(eventType string, listener EventListener, opts ListenerOptions) ListenerID {
	if n.listeners == nil {
		n.listeners = &listenerTable{byType: make(map[string][]listenerEntry)}
	}
	n.listeners.nextID++
	id := n.listeners.nextID
	n.listeners.byType[eventType] = append(n.listeners.byType[eventType], listenerEntry{
		id:       id,
		listener: listener,
		options:  opts,
	})
	return id
}

// RemoveEventListener unregisters the listener with the given id.
func (n *Node) RemoveEventListener(eventType string, id ListenerID) bool {
	if n.listeners == nil {
		return false
	}
	entries := n.listeners.byType[eventType]
	for i, l := range entries {
		if l.id == id {
			n.listeners.byType[eventType] = append(entries[:i:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

// HasEventListeners returns true if there are any listeners for the event type.
func (n *Node) HasEventListeners(eventType string) bool {
	return n.listeners != nil && len(n.listeners.byType[eventType]) > 0
}

// DispatchEvent dispatches ev with this node as target through capture,
// target and (if the event bubbles) bubble phases. The propagation path is
// fixed before any listener runs. It returns false if the default action
// was prevented. Listener errors stop the dispatch and are returned.
func (n *Node) DispatchEvent(ev *Event) (bool, error) {
	if ev.dispatching {
		return false, domError(InvalidStateError, "event %s is already being dispatched", ev.Type)
	}
	ev.dispatching = true
	defer func() {
		ev.dispatching = false
		ev.phase = EventPhaseNone
		ev.CurrentTarget = nil
	}()

	if ev.Target == nil {
		ev.Target = n
	}

	var path []*Node
	for node := n; node != nil; node = node.parent {
		path = append(path, node)
	}

	ev.phase = EventPhaseCapturing
	for i := len(path) - 1; i > 0; i-- {
		if err := path[i].invokeListeners(ev, true); err != nil {
			return !ev.defaultPrevented, err
		}
		if ev.propagationStopped {
			return !ev.defaultPrevented, nil
		}
	}

	ev.phase = EventPhaseAtTarget
	if err := n.invokeListeners(ev, true); err != nil {
		return !ev.defaultPrevented, err
	}
	if !ev.immediatePropagationStopped {
		if err := n.invokeListeners(ev, false); err != nil {
			return !ev.defaultPrevented, err
		}
	}

	if ev.Bubbles {
		ev.phase = EventPhaseBubbling
		for _, node := range path[1:] {
			if ev.propagationStopped {
				break
			}
			if err := node.invokeListeners(ev, false); err != nil {
				return !ev.defaultPrevented, err
			}
		}
	}

	return !ev.defaultPrevented, nil
}

func (n *Node) invokeListeners(ev *Event, capture bool) error {
	if n.listeners == nil {
		return nil
	}
	entries := n.listeners.byType[ev.Type]
	listeners := make([]listenerEntry, len(entries))
	copy(listeners, entries)

	ev.CurrentTarget = n
	for _, l := range listeners {
		if l.options.Capture != capture {
			continue
		}
		if l.options.Once {
			n.RemoveEventListener(ev.Type, l.id)
		}
		if err := l.listener(ev); err != nil {
			return err
		}
		if ev.immediatePropagationStopped {
			break
		}
	}
	return nil
}

// Trigger dispatches a bubbling, cancelable event of the given type at the
// element after applying the optional init functions, and returns the event.
func (e *Element) Trigger(eventType string, init ...func(*Event)) (*Event, error) {
	ev := NewEvent(eventType)
	for _, fn := range init {
		fn(ev)
	}
	_, err := e.AsNode().DispatchEvent(ev)
	return ev, err
}

// Click dispatches a primary-button click at the element.
func (e *Element) Click() (*Event, error) {
	return e.Trigger("click")
}
