package dispatcher

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/eventdispatch/component"
	"github.com/chrisuehlinger/eventdispatch/dom"
	"github.com/chrisuehlinger/eventdispatch/instrument"
)

func TestSetup_MissingRoot(t *testing.T) {
	f := newFixture(t)
	err := f.dispatcher.Setup(nil, "#missing")
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Message, "#missing")
	assert.Nil(t, f.dispatcher.Root())
}

func TestSetup_MarksRootAndRecordsSelector(t *testing.T) {
	f := newFixture(t)
	f.setup(nil)

	assert.Equal(t, "#app", f.dispatcher.RootElement())
	assert.True(t, f.app.ClassList().Contains(MarkerClass))
	assert.True(t, f.dispatcher.RootAttached())
}

func TestSetup_DefaultRoot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dispatcher.Setup(nil, ""))
	assert.Equal(t, DefaultRootElement, f.dispatcher.RootElement())
	assert.True(t, f.doc.Body().ClassList().Contains(MarkerClass))
}

func TestSetup_RejectsOwnedRoots(t *testing.T) {
	f := newFixture(t)
	f.setup(nil)

	tests := []struct {
		name     string
		selector string
	}{
		{"same root", "#app"},
		{"ancestor of a root", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := New(f.doc, Options{Log: f.log})
			defer other.Destroy()
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(other.Setup(nil, tt.selector), &cfgErr))
		})
	}

	require.NoError(t, f.app.SetInnerHTML(`<div id="nested"></div>`))
	other := New(f.doc, Options{Log: f.log})
	defer other.Destroy()
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(other.Setup(nil, "#nested"), &cfgErr), "descendant of a root")

	sibling := New(f.doc, Options{Log: f.log})
	defer sibling.Destroy()
	assert.NoError(t, sibling.Setup(nil, "#outside"))
}

func TestSetup_RerunReattaches(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	f.define(&component.Definition{
		Name:     "x-button",
		Handlers: map[string]component.EventHandler{"click": calls.handler("click")},
	})
	f.setup(nil)
	f.setup(nil)
	c := f.render("x-button")

	f.trigger(c.Element(), "click")
	assert.Equal(t, 1, calls["click"], "listeners must not be attached twice")

	require.NoError(t, f.dispatcher.Setup(nil, "#outside"))
	assert.False(t, f.app.ClassList().Contains(MarkerClass))
	f.trigger(c.Element(), "click")
	assert.Equal(t, 1, calls["click"], "old root must be detached")
}

func TestSetup_RefusedRerunKeepsCurrentRoot(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	f.define(&component.Definition{
		Name:     "x-button",
		Handlers: map[string]component.EventHandler{"click": calls.handler("click")},
	})
	other := New(f.doc, Options{Log: f.log})
	defer other.Destroy()
	require.NoError(t, other.Setup(nil, "#outside"))

	f.setup(nil)
	c := f.render("x-button")

	var cfgErr *ConfigurationError
	require.True(t, errors.As(f.dispatcher.Setup(nil, "#outside"), &cfgErr))
	assert.Contains(t, cfgErr.Message, "same root element")

	assert.Equal(t, f.app, f.dispatcher.Root())
	assert.Equal(t, "#app", f.dispatcher.RootElement())
	assert.True(t, f.app.ClassList().Contains(MarkerClass))
	assert.True(t, f.app.AsNode().HasEventListeners("click"))
	f.trigger(c.Element(), "click")
	assert.Equal(t, 1, calls["click"])
}

func TestSetup_RerunInsideOwnRoot(t *testing.T) {
	f := newFixture(t)
	f.setup(nil)
	require.NoError(t, f.app.SetInnerHTML(`<div id="nested"></div>`))

	require.NoError(t, f.dispatcher.Setup(nil, "#nested"))
	assert.False(t, f.app.ClassList().Contains(MarkerClass))
	assert.True(t, f.byID("nested").ClassList().Contains(MarkerClass))

	require.NoError(t, f.dispatcher.Setup(nil, "#app"), "own root is not an existing application")
	assert.True(t, f.app.ClassList().Contains(MarkerClass))
	assert.False(t, f.byID("nested").ClassList().Contains(MarkerClass))
}

func TestDestroy(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	f.define(&component.Definition{
		Name:     "x-button",
		Handlers: map[string]component.EventHandler{"click": calls.handler("click")},
	})
	f.setup(nil)
	c := f.render("x-button")

	f.dispatcher.Destroy()
	assert.False(t, f.app.ClassList().Contains(MarkerClass))
	assert.False(t, f.app.AsNode().HasEventListeners("click"))
	f.trigger(c.Element(), "click")
	assert.Equal(t, 0, calls["click"])

	var cfgErr *ConfigurationError
	assert.True(t, errors.As(f.dispatcher.Setup(nil, "#app"), &cfgErr))
}

func TestDispatch_EveryDefaultEvent(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	targets := map[string]*dom.Node{}
	handlers := map[string]component.EventHandler{}
	for native, logical := range DefaultEvents() {
		if native == MouseEnter || native == MouseLeave {
			continue
		}
		logical := logical
		handlers[logical] = func(ev *dom.Event) error {
			calls[logical]++
			targets[logical] = ev.Target
			return nil
		}
	}
	f.define(&component.Definition{Name: "x-all", Handlers: handlers})
	f.setup(nil)
	c := f.render("x-all")

	for native, logical := range DefaultEvents() {
		if native == MouseEnter || native == MouseLeave {
			continue
		}
		f.trigger(c.Element(), native)
		assert.Equal(t, 1, calls[logical], "%s -> %s", native, logical)
		assert.Equal(t, c.Element().AsNode(), targets[logical], "%s target", native)
	}
}

func TestDispatch_TargetIsOriginatingElement(t *testing.T) {
	f := newFixture(t)
	var target *dom.Node
	f.define(&component.Definition{
		Name:     "x-card",
		Template: `<p><button id="go">go</button></p>`,
		Handlers: map[string]component.EventHandler{
			"mouseDown": func(ev *dom.Event) error {
				target = ev.Target
				return nil
			},
		},
	})
	f.setup(nil)
	f.render("x-card")

	f.trigger(f.byID("go"), "mousedown")
	assert.Equal(t, f.byID("go").AsNode(), target)
}

func TestDispatch_TextNodeTarget(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	f.define(&component.Definition{
		Name:     "x-label",
		Template: `<span id="label">hello</span>`,
		Handlers: map[string]component.EventHandler{"click": calls.handler("click")},
	})
	f.setup(nil)
	f.render("x-label")

	text := f.byID("label").AsNode().FirstChild()
	_, err := text.DispatchEvent(dom.NewEvent("click"))
	require.NoError(t, err)
	assert.Equal(t, 1, calls["click"])
}

func nestedComponents(f *fixture, calls counter, innerClick component.EventHandler) {
	f.define(&component.Definition{
		Name:     "x-outer",
		Template: `<x-inner id="inner"></x-inner>`,
		Handlers: map[string]component.EventHandler{"click": calls.handler("outer")},
	})
	f.define(&component.Definition{
		Name:     "x-inner",
		Template: `<button id="leaf">leaf</button>`,
		Handlers: map[string]component.EventHandler{"click": innerClick},
	})
	f.setup(nil)
	f.render("x-outer")
}

func TestDispatch_BubblesThroughComponents(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	nestedComponents(f, calls, calls.handler("inner"))

	f.trigger(f.byID("leaf"), "click")
	assert.Equal(t, counter{"inner": 1, "outer": 1}, calls)
}

func TestDispatch_ErrStopHaltsAncestors(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	nestedComponents(f, calls, func(*dom.Event) error {
		calls["inner"]++
		return component.ErrStop
	})

	ev := f.trigger(f.byID("leaf"), "click")
	assert.Equal(t, counter{"inner": 1}, calls)
	assert.True(t, ev.DefaultPrevented())
	assert.True(t, ev.PropagationStopped())
}

func TestDispatch_StopPropagationHaltsAncestors(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	nestedComponents(f, calls, func(ev *dom.Event) error {
		calls["inner"]++
		ev.StopPropagation()
		return nil
	})

	ev := f.trigger(f.byID("leaf"), "click")
	assert.Equal(t, counter{"inner": 1}, calls)
	assert.False(t, ev.DefaultPrevented())
}

func TestDispatch_HandlerErrorPropagates(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	boom := errors.New("boom")
	nestedComponents(f, calls, func(*dom.Event) error { return boom })

	_, err := f.byID("leaf").Click()
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 0, calls["outer"])
	assert.False(t, f.loop.InLoop(), "boundary must be closed after an error")
}

func TestDispatch_HandlerPanicClosesBoundary(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	afterCalled := false
	f.instr.Subscribe("interaction.click", instrument.Listener{
		After: func(string, time.Time, *instrument.Payload) { afterCalled = true },
	})
	nestedComponents(f, calls, func(*dom.Event) error { panic("handler failed") })

	assert.Panics(t, func() { _, _ = f.byID("leaf").Click() })
	assert.False(t, f.loop.InLoop())
	assert.True(t, afterCalled)
}

func TestDispatch_EventListenerSet(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	f.define(&component.Definition{Name: "x-plain"})
	f.setup(nil)
	c := f.render("x-plain")

	set := component.HandlerMap{"doubleClick": calls.handler("listener")}
	c.AddEventListener(set)
	f.trigger(c.Element(), "dblclick")
	assert.Equal(t, 1, calls["listener"])

	c.RemoveEventListener(set)
	f.trigger(c.Element(), "dblclick")
	assert.Equal(t, 1, calls["listener"])
}

func TestDispatch_DropKeepsDataTransfer(t *testing.T) {
	f := newFixture(t)
	var got any
	f.define(&component.Definition{
		Name: "x-dropzone",
		Handlers: map[string]component.EventHandler{
			"drop": func(ev *dom.Event) error {
				got = ev.DataTransfer
				return nil
			},
		},
	})
	f.setup(nil)
	c := f.render("x-dropzone")

	payload := map[string]string{"text/plain": "hello"}
	f.trigger(c.Element(), "drop", func(ev *dom.Event) { ev.DataTransfer = payload })
	assert.Equal(t, payload, got)
}

func TestDispatch_CustomEvents(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	f.define(&component.Definition{
		Name:     "x-button",
		Template: `<a id="link" action="go">go</a>`,
		Handlers: map[string]component.EventHandler{
			"click":       calls.handler("click"),
			"doubleClick": calls.handler("doubleClick"),
			"myEvent":     calls.handler("myEvent"),
			"pressed":     calls.handler("pressed"),
		},
		Actions: map[string]component.ActionFunc{"go": calls.action("go")},
	})
	f.setup(map[string]string{
		"click":   "",
		"myevent": "myEvent",
		"keydown": "pressed",
	})
	f.render("x-button")

	f.trigger(f.byID("link"), "click")
	assert.Equal(t, 0, calls["click"], "disabled component handler")
	assert.Equal(t, 0, calls["go"], "disabled click action")
	assert.False(t, f.app.AsNode().HasEventListeners("click"))

	f.trigger(f.byID("link"), "dblclick")
	f.trigger(f.byID("link"), "myevent")
	f.trigger(f.byID("link"), "keydown")
	assert.Equal(t, 1, calls["doubleClick"])
	assert.Equal(t, 1, calls["myEvent"])
	assert.Equal(t, 1, calls["pressed"])
}

func TestDispatch_SnapshotsChainBeforeHandlers(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	nestedComponents(f, calls, func(ev *dom.Event) error {
		calls["inner"]++
		// Detach the subtree mid-walk; the outer handler still runs.
		f.byID("inner").Remove()
		return nil
	})

	f.trigger(f.byID("leaf"), "click")
	assert.Equal(t, counter{"inner": 1, "outer": 1}, calls)
}

func TestDispatch_OneBoundaryPerNativeEvent(t *testing.T) {
	f := newFixture(t)
	var depths []int
	f.define(&component.Definition{
		Name:     "x-outer",
		Template: `<button id="a">a</button><button id="b">b</button>`,
		Handlers: map[string]component.EventHandler{
			"click": func(ev *dom.Event) error {
				depths = append(depths, f.loop.Depth())
				if ev.Target == f.byID("a").AsNode() {
					_, err := f.byID("b").Click()
					return err
				}
				return nil
			},
		},
	})
	f.setup(nil)
	f.render("x-outer")
	before := f.loop.Flushes()

	f.trigger(f.byID("a"), "click")
	assert.Equal(t, []int{1, 2}, depths, "nested native events open a nested boundary")
	assert.Equal(t, before+1, f.loop.Flushes(), "queues flush once, at the outermost close")
}

func TestDispatch_Instrumentation(t *testing.T) {
	f := newFixture(t)
	calls := counter{}
	var log []string
	var handlers int
	f.instr.Subscribe("interaction.click", instrument.Listener{
		Before: func(name string, _ time.Time, p *instrument.Payload) {
			log = append(log, "before "+name)
		},
		After: func(name string, _ time.Time, p *instrument.Payload) {
			log = append(log, "after "+name)
			handlers = p.Handlers
		},
	})
	f.define(&component.Definition{
		Name:     "x-button",
		Handlers: map[string]component.EventHandler{"click": calls.handler("click")},
	})
	f.setup(nil)
	c := f.render("x-button")

	f.trigger(c.Element(), "click")
	assert.Equal(t, []string{"before interaction.click", "after interaction.click"}, log)
	assert.Equal(t, 1, handlers)
}

func TestDispatch_DebugLogging(t *testing.T) {
	f := newFixture(t)
	f.define(&component.Definition{Name: "x-button"})
	f.setup(nil)
	c := f.render("x-button")
	f.trigger(c.Element(), "keyup")

	entry := f.hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "dispatched", entry.Message)
	assert.Equal(t, "keyUp", entry.Data["logical"])
}

func TestRootAttachDetach(t *testing.T) {
	f := newFixture(t)
	f.setup(nil)
	assert.True(t, f.dispatcher.RootAttached())

	f.app.Remove()
	assert.False(t, f.dispatcher.RootAttached())

	f.doc.Body().Append(f.app)
	assert.True(t, f.dispatcher.RootAttached())
}
