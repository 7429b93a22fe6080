// Package deprecate emits deprecation warnings once per call site.
package deprecate

import (
	"github.com/sirupsen/logrus"
)

// Deprecation ids used by the legacy hover events.
const (
	IDComponentMouseEvents = "ember-views.event-dispatcher.mouseenter-leave-move"
	IDActionMouseEvents    = "deprecated-mouse-event-action"
)

// Warning is a single emitted deprecation.
type Warning struct {
	ID      string
	Message string
	Site    string
}

// Tracker remembers which call sites already warned.
type Tracker struct {
	log      *logrus.Entry
	seen     map[string]struct{}
	warnings []Warning

	// OnWarn, if set, is called for every emitted warning.
	OnWarn func(Warning)
}

// NewTracker creates a Tracker. A nil log uses the standard logger.
func NewTracker(log *logrus.Entry) *Tracker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Tracker{
		log:  log,
		seen: make(map[string]struct{}),
	}
}

// Warn logs message for (id, site) unless it was already logged, and
// reports whether it emitted.
func (t *Tracker) Warn(id, message, site string) bool {
	key := id + "\x00" + site
	if _, ok := t.seen[key]; ok {
		return false
	}
	t.seen[key] = struct{}{}

	w := Warning{ID: id, Message: message, Site: site}
	t.warnings = append(t.warnings, w)
	t.log.WithFields(logrus.Fields{
		"id":   id,
		"site": site,
	}).Warn("DEPRECATION: " + message)
	if t.OnWarn != nil {
		t.OnWarn(w)
	}
	return true
}

// Warnings returns the warnings emitted so far.
func (t *Tracker) Warnings() []Warning {
	out := make([]Warning, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// Reset forgets every call site.
func (t *Tracker) Reset() {
	t.seen = make(map[string]struct{})
	t.warnings = nil
}
