package dispatcher

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chrisuehlinger/eventdispatch/action"
	"github.com/chrisuehlinger/eventdispatch/component"
	"github.com/chrisuehlinger/eventdispatch/dom"
	"github.com/chrisuehlinger/eventdispatch/instrument"
)

// Legacy hover delegation. mouseenter and mouseleave do not bubble, so they
// are derived from mouseover and mouseout: starting at the target, every
// element that does not contain the related target gets a synthesized,
// non-bubbling event. Containment is recomputed from relatedTarget on every
// native event, so skipped intermediate events still yield exactly one
// enter and one leave per element.

var hoverSources = map[string]string{
	MouseEnter: "mouseover",
	MouseLeave: "mouseout",
}

func (d *EventDispatcher) setupHover(native, logical string) {
	source := hoverSources[native]
	name := InstrumentPrefix + logical
	d.listen(source, func(ev *dom.Event) error {
		payload := &instrument.Payload{Event: ev}
		return d.instrumenter.Instrument(name, payload, func() error {
			return d.loop.Run(func() error {
				handled, err := d.hover(ev, native, logical)
				payload.Handlers = handled
				d.log.WithFields(logrus.Fields{
					"native":   source,
					"logical":  logical,
					"handlers": handled,
				}).Debug("dispatched hover")
				return err
			})
		})
	})
}

func (d *EventDispatcher) hover(ev *dom.Event, native, logical string) (int, error) {
	related := ev.RelatedTarget
	handled := 0
	for _, el := range d.chain(ev.TargetElement()) {
		if related != nil && el.Contains(related) {
			break
		}

		c, isComponent := d.components.ComponentFor(el)
		var records []*action.Record
		for _, r := range d.actions.ForElement(el) {
			if r.Matches(native, logical) {
				records = append(records, r)
			}
		}
		if !isComponent && len(records) == 0 {
			continue
		}

		synthetic := syntheticEvent(native, ev)
		if isComponent {
			if h, ok := c.Handler(logical); ok {
				handled++
				if err := h(synthetic); err != nil && !errors.Is(err, component.ErrStop) {
					return handled, errors.Wrapf(err, "%s handler of %s", logical, c)
				}
			}
		}
		for _, r := range records {
			fired, _, err := r.Fire(synthetic, d.instrumenter)
			if fired {
				handled++
			}
			if err != nil {
				return handled, errors.Wrapf(err, "action %s", r.Name)
			}
		}
	}
	return handled, nil
}

// syntheticEvent copies the fields of a mouseover or mouseout event into a
// non-bubbling event of the hover type. Target stays the original target.
func syntheticEvent(eventType string, src *dom.Event) *dom.Event {
	return &dom.Event{
		Type:          eventType,
		Bubbles:       false,
		Cancelable:    src.Cancelable,
		Target:        src.Target,
		CurrentTarget: src.CurrentTarget,
		RelatedTarget: src.RelatedTarget,
		CtrlKey:       src.CtrlKey,
		AltKey:        src.AltKey,
		ShiftKey:      src.ShiftKey,
		MetaKey:       src.MetaKey,
		Button:        src.Button,
		Key:           src.Key,
		Which:         src.Which,
		DataTransfer:  src.DataTransfer,
		Detail:        src.Detail,
		TimeStamp:     src.TimeStamp,
	}
}
