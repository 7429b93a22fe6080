// Package instrument publishes timed before/after notifications around
// named operations. Dispatch uses "interaction.<logicalName>" around each
// delegated native event and "interaction.ember-action" around each fired
// action.
package instrument

import (
	"strings"
	"time"

	"github.com/chrisuehlinger/eventdispatch/dom"
)

// Wildcards accepted in subscription patterns.
const (
	WildcardSingle = "*"
	WildcardMulti  = "**"
	Separator      = "."
)

// Payload carries the data published with an instrumented operation.
type Payload struct {
	// Name and Args describe a fired action.
	Name string
	Args []any

	// Event is the native event being handled, if any.
	Event *dom.Event
	// Handlers counts the component handlers and actions invoked.
	Handlers int
	// Duration is set before After listeners run.
	Duration time.Duration
	// Err holds the error returned by the instrumented operation.
	Err error
}

// Listener receives notifications for matching names. Either func may be nil.
type Listener struct {
	Before func(name string, timestamp time.Time, payload *Payload)
	After  func(name string, timestamp time.Time, payload *Payload)
}

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID int

type subscription struct {
	id       SubscriptionID
	pattern  []string
	listener Listener
}

// Instrumenter holds the subscriptions of one application instance.
type Instrumenter struct {
	subs   []subscription
	nextID SubscriptionID
}

// New creates an empty Instrumenter.
func New() *Instrumenter {
	return &Instrumenter{}
}

// Subscribe registers listener for names matching pattern. Patterns are
// dot-separated; "*" matches one segment and "**" any number of segments.
func (in *Instrumenter) Subscribe(pattern string, listener Listener) SubscriptionID {
	in.nextID++
	in.subs = append(in.subs, subscription{
		id:       in.nextID,
		pattern:  split(pattern),
		listener: listener,
	})
	return in.nextID
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (in *Instrumenter) Unsubscribe(id SubscriptionID) {
	for i, s := range in.subs {
		if s.id == id {
			in.subs = append(in.subs[:i:i], in.subs[i+1:]...)
			return
		}
	}
}

// Reset removes every subscription.
func (in *Instrumenter) Reset() {
	in.subs = nil
}

// HasSubscribers reports whether any subscription matches name.
func (in *Instrumenter) HasSubscribers(name string) bool {
	return len(in.matching(name)) > 0
}

// Instrument runs fn, notifying matching listeners before and after.
// After listeners run even when fn returns an error or panics.
func (in *Instrumenter) Instrument(name string, payload *Payload, fn func() error) (err error) {
	subs := in.matching(name)
	if len(subs) == 0 {
		return fn()
	}
	if payload == nil {
		payload = &Payload{}
	}

	start := time.Now()
	for _, s := range subs {
		if s.listener.Before != nil {
			s.listener.Before(name, start, payload)
		}
	}
	defer func() {
		end := time.Now()
		payload.Duration = end.Sub(start)
		payload.Err = err
		for _, s := range subs {
			if s.listener.After != nil {
				s.listener.After(name, end, payload)
			}
		}
	}()
	return fn()
}

func (in *Instrumenter) matching(name string) []subscription {
	if in == nil || len(in.subs) == 0 {
		return nil
	}
	segments := split(name)
	var out []subscription
	for _, s := range in.subs {
		if matchSegments(segments, s.pattern) {
			out = append(out, s)
		}
	}
	return out
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, Separator)
}

func matchSegments(name, pattern []string) bool {
	ni, pi := 0, 0
	for pi < len(pattern) {
		if pattern[pi] == WildcardMulti {
			for ni <= len(name) {
				if matchSegments(name[ni:], pattern[pi+1:]) {
					return true
				}
				ni++
			}
			return false
		}
		if ni >= len(name) {
			return false
		}
		if pattern[pi] != WildcardSingle && pattern[pi] != name[ni] {
			return false
		}
		ni++
		pi++
	}
	return ni == len(name)
}
