package component

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/eventdispatch/action"
	"github.com/chrisuehlinger/eventdispatch/dom"
	"github.com/chrisuehlinger/eventdispatch/runloop"
)

func newRenderer(t *testing.T) (*Renderer, *dom.Element) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	log := logrus.NewEntry(logger)
	doc := dom.NewHTMLDocument()
	helper := action.NewHelper(doc, action.NewRegistry(), log, nil)
	return NewRenderer(doc, NewRegistry(), helper, runloop.New(log), log, nil), doc.Body()
}

func TestDefine_Validates(t *testing.T) {
	r, _ := newRenderer(t)
	assert.Error(t, r.Define(&Definition{}))

	def := &Definition{Name: "X-Foo"}
	require.NoError(t, r.Define(def))
	assert.Equal(t, "div", def.TagName)
	got, ok := r.Lookup("x-foo")
	assert.True(t, ok)
	assert.Same(t, def, got)
}

func TestAppend_RendersTemplateAndRegisters(t *testing.T) {
	r, body := newRenderer(t)
	require.NoError(t, r.Define(&Definition{
		Name:     "x-list",
		TagName:  "ul",
		Template: `<li id="one">1</li><li>2</li>`,
	}))

	c, err := r.Append("x-list", body)
	require.NoError(t, err)
	assert.Equal(t, "ul", c.Element().LocalName())
	assert.True(t, c.Element().IsConnected())
	assert.Len(t, c.Element().Children(), 2)

	got, ok := r.Registry().ComponentFor(c.Element())
	require.True(t, ok)
	assert.Same(t, c, got)

	nearest, ok := r.Registry().Nearest(r.Document().GetElementById("one"))
	require.True(t, ok)
	assert.Same(t, c, nearest)
}

func TestAppend_UnknownDefinition(t *testing.T) {
	r, body := newRenderer(t)
	_, err := r.Append("x-missing", body)
	assert.Error(t, err)
}

func TestRender_UpgradesNestedComponents(t *testing.T) {
	r, body := newRenderer(t)
	require.NoError(t, r.Define(&Definition{Name: "x-outer", Template: `<section><x-inner id="in"></x-inner></section>`}))
	require.NoError(t, r.Define(&Definition{Name: "x-inner", Template: `<i>inner</i>`}))

	outer, err := r.Append("x-outer", body)
	require.NoError(t, err)

	innerEl := r.Document().GetElementById("in")
	inner, ok := r.Registry().ComponentFor(innerEl)
	require.True(t, ok)
	assert.Same(t, outer, inner.Parent())
	assert.Equal(t, "<i>inner</i>", innerEl.InnerHTML())
	assert.Equal(t, 2, r.Registry().Len())
}

func TestUpgrade_ParsedPage(t *testing.T) {
	r, body := newRenderer(t)
	require.NoError(t, r.Define(&Definition{Name: "x-clock"}))
	require.NoError(t, body.SetInnerHTML(`<main><x-clock id="a">keep</x-clock><x-clock id="b"></x-clock></main>`))

	created, err := r.Upgrade(body)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, "keep", r.Document().GetElementById("a").TextContent(), "empty templates keep children")

	created, err = r.Upgrade(body)
	require.NoError(t, err)
	assert.Empty(t, created, "already upgraded elements are skipped")
}

func TestComponent_HandlerLookupOrder(t *testing.T) {
	r, body := newRenderer(t)
	var called string
	require.NoError(t, r.Define(&Definition{
		Name: "x-h",
		Handlers: map[string]EventHandler{
			"click": func(*dom.Event) error { called = "own"; return nil },
		},
	}))
	c, err := r.Append("x-h", body)
	require.NoError(t, err)

	c.AddEventListener(HandlerMap{
		"click":   func(*dom.Event) error { called = "set"; return nil },
		"keyDown": func(*dom.Event) error { called = "set-key"; return nil },
	})

	h, ok := c.Handler("click")
	require.True(t, ok)
	require.NoError(t, h(nil))
	assert.Equal(t, "own", called)

	h, ok = c.Handler("keyDown")
	require.True(t, ok)
	require.NoError(t, h(nil))
	assert.Equal(t, "set-key", called)

	c.SetHandler("click", nil)
	h, _ = c.Handler("click")
	require.NoError(t, h(nil))
	assert.Equal(t, "set", called)

	assert.False(t, c.HasHandler("submit"))
}

func TestComponent_TriggerAction(t *testing.T) {
	r, body := newRenderer(t)
	var got []any
	require.NoError(t, r.Define(&Definition{
		Name: "x-a",
		Actions: map[string]ActionFunc{
			"save": func(args ...any) error { got = args; return nil },
		},
	}))
	c, err := r.Append("x-a", body)
	require.NoError(t, err)

	require.NoError(t, c.Send("save", 1, 2))
	assert.Equal(t, []any{1, 2}, got)

	err = c.TriggerAction("nope")
	var assertion *action.AssertionError
	require.True(t, errors.As(err, &assertion))
	assert.Equal(t, "<x-a> had no action handler for: nope", assertion.Message)
}

func TestDeclaredAction_InvalidBool(t *testing.T) {
	r, body := newRenderer(t)
	require.NoError(t, r.Define(&Definition{
		Name:     "x-bad",
		Template: `<a action="go" action-bubbles="maybe">x</a>`,
	}))
	_, err := r.Append("x-bad", body)
	assert.Error(t, err)
	assert.Equal(t, 0, r.Registry().Len())
}

func TestDestroy_UnregistersOnDestroyQueue(t *testing.T) {
	r, body := newRenderer(t)
	require.NoError(t, r.Define(&Definition{Name: "x-outer", Template: `<x-inner></x-inner>`}))
	require.NoError(t, r.Define(&Definition{Name: "x-inner"}))
	c, err := r.Append("x-outer", body)
	require.NoError(t, err)
	require.Equal(t, 2, r.Registry().Len())

	require.NoError(t, r.Destroy(c))
	assert.Equal(t, 0, r.Registry().Len())
	assert.False(t, c.Element().IsConnected())
}
