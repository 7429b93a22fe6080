package dispatcher

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/eventdispatch/action"
	"github.com/chrisuehlinger/eventdispatch/component"
	"github.com/chrisuehlinger/eventdispatch/deprecate"
	"github.com/chrisuehlinger/eventdispatch/dom"
	"github.com/chrisuehlinger/eventdispatch/instrument"
	"github.com/chrisuehlinger/eventdispatch/runloop"
)

// fixture wires one isolated application instance per test.
type fixture struct {
	t          *testing.T
	doc        *dom.Document
	app        *dom.Element
	hook       *test.Hook
	log        *logrus.Entry
	components *component.Registry
	actions    *action.Helper
	loop       *runloop.Loop
	instr      *instrument.Instrumenter
	deprecator *deprecate.Tracker
	renderer   *component.Renderer
	dispatcher *EventDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	log := logrus.NewEntry(logger)

	doc := dom.NewHTMLDocument()
	require.NoError(t, doc.Body().SetInnerHTML(`<div id="app"></div><div id="outside"></div>`))

	f := &fixture{
		t:          t,
		doc:        doc,
		app:        doc.GetElementById("app"),
		hook:       hook,
		log:        log,
		components: component.NewRegistry(),
		loop:       runloop.New(log),
		instr:      instrument.New(),
		deprecator: deprecate.NewTracker(log),
	}
	registry := action.NewRegistry()
	f.actions = action.NewHelper(doc, registry, log, f.deprecator)
	f.renderer = component.NewRenderer(doc, f.components, f.actions, f.loop, log, f.deprecator)
	f.dispatcher = New(doc, Options{
		Components:   f.components,
		Actions:      registry,
		Loop:         f.loop,
		Instrumenter: f.instr,
		Deprecator:   f.deprecator,
		Log:          log,
	})
	t.Cleanup(f.dispatcher.Destroy)
	return f
}

func (f *fixture) setup(custom map[string]string) {
	f.t.Helper()
	require.NoError(f.t, f.dispatcher.Setup(custom, "#app"))
}

func (f *fixture) define(def *component.Definition) {
	f.t.Helper()
	require.NoError(f.t, f.renderer.Define(def))
}

func (f *fixture) render(name string) *component.Component {
	f.t.Helper()
	c, err := f.renderer.Append(name, f.app)
	require.NoError(f.t, err)
	return c
}

func (f *fixture) byID(id string) *dom.Element {
	f.t.Helper()
	el := f.doc.GetElementById(id)
	require.NotNil(f.t, el, "missing #%s", id)
	return el
}

func (f *fixture) trigger(el *dom.Element, native string, init ...func(*dom.Event)) *dom.Event {
	f.t.Helper()
	ev, err := el.Trigger(native, init...)
	require.NoError(f.t, err)
	return ev
}

func (f *fixture) warnings() []string {
	var out []string
	for _, w := range f.deprecator.Warnings() {
		out = append(out, w.Message)
	}
	return out
}

// counter records calls by name.
type counter map[string]int

func (c counter) handler(name string) component.EventHandler {
	return func(*dom.Event) error {
		c[name]++
		return nil
	}
}

func (c counter) action(name string) component.ActionFunc {
	return func(...any) error {
		c[name]++
		return nil
	}
}
