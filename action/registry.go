// Package action implements element-bound actions: the registry keyed by
// marker attribute ids, the records describing each binding, and the
// helper that ties registration to element connect and disconnect.
package action

import (
	"strconv"
	"strings"

	"github.com/chrisuehlinger/eventdispatch/dom"
)

// Marker attributes written on action-bearing elements.
const (
	MarkerAttr       = "data-ember-action"
	MarkerAttrPrefix = "data-ember-action-"
)

// Registry maps action ids to records. Ids increase monotonically and are
// never reused within one Registry.
type Registry struct {
	records map[int]*Record
	nextID  int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[int]*Record)}
}

// Register assigns r a fresh id, stores it and writes the marker attributes.
func (reg *Registry) Register(r *Record) int {
	reg.nextID++
	r.ID = reg.nextID
	reg.records[r.ID] = r
	if r.Element != nil {
		id := strconv.Itoa(r.ID)
		r.Element.SetAttribute(MarkerAttr, "")
		r.Element.SetAttribute(MarkerAttrPrefix+id, id)
	}
	return r.ID
}

// Unregister removes the record and its marker attribute. It reports
// whether the id was registered.
func (reg *Registry) Unregister(id int) bool {
	r, ok := reg.records[id]
	if !ok {
		return false
	}
	delete(reg.records, id)
	if el := r.Element; el != nil {
		el.RemoveAttribute(MarkerAttrPrefix + strconv.Itoa(id))
		if len(markerIDs(el)) == 0 {
			el.RemoveAttribute(MarkerAttr)
		}
	}
	return true
}

// Get returns the record with the given id, or nil.
func (reg *Registry) Get(id int) *Record {
	return reg.records[id]
}

// Lookup resolves a marker attribute value. The value may hold several
// space separated ids; unknown ids are skipped.
func (reg *Registry) Lookup(markerValue string) []*Record {
	var out []*Record
	for _, field := range strings.Fields(markerValue) {
		id, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		if r := reg.records[id]; r != nil {
			out = append(out, r)
		}
	}
	return out
}

// ForElement returns the records registered on el in registration order.
func (reg *Registry) ForElement(el *dom.Element) []*Record {
	var out []*Record
	for _, id := range markerIDs(el) {
		if r := reg.records[id]; r != nil && r.Element == el {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of registered actions.
func (reg *Registry) Len() int {
	return len(reg.records)
}

// markerIDs reads the ids from el's indexed marker attributes in attribute
// order, which is registration order.
func markerIDs(el *dom.Element) []int {
	if !el.HasAttribute(MarkerAttr) {
		return nil
	}
	var ids []int
	for _, attr := range el.Attributes() {
		if !strings.HasPrefix(attr.Name(), MarkerAttrPrefix) {
			continue
		}
		id, err := strconv.Atoi(attr.Value())
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
