package dom

// LifecycleObserver receives notifications when subtrees enter or leave a
// document. Notifications are delivered synchronously, after the tree has
// been updated, once per inserted or removed subtree root; observers walk
// the subtree themselves.
type LifecycleObserver interface {
	NodeConnected(n *Node)
	NodeDisconnected(n *Node)
}

// ObserverID identifies a registered observer for removal.
type ObserverID int

type observerEntry struct {
	id       ObserverID
	observer LifecycleObserver
}

// Observe registers an observer for this document.
func (d *Document) Observe(observer LifecycleObserver) ObserverID {
	data := d.AsNode().document
	data.nextObserverID++
	id := ObserverID(data.nextObserverID)
	data.observers = append(data.observers, observerEntry{id: id, observer: observer})
	return id
}

// Unobserve removes a previously registered observer.
func (d *Document) Unobserve(id ObserverID) {
	data := d.AsNode().document
	for i, entry := range data.observers {
		if entry.id == id {
			data.observers = append(data.observers[:i:i], data.observers[i+1:]...)
			return
		}
	}
}

// snapshotObservers lets observers register or unregister while being notified.
func (d *Document) snapshotObservers() []observerEntry {
	observers := d.AsNode().document.observers
	out := make([]observerEntry, len(observers))
	copy(out, observers)
	return out
}

func (d *Document) notifyConnected(n *Node) {
	for _, entry := range d.snapshotObservers() {
		entry.observer.NodeConnected(n)
	}
}

func (d *Document) notifyDisconnected(n *Node) {
	for _, entry := range d.snapshotObservers() {
		entry.observer.NodeDisconnected(n)
	}
}
