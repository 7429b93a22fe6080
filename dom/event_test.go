package dom

import (
	"errors"
	"strings"
	"testing"
)

func buildTree(t *testing.T) (*Document, *Element, *Element, *Element) {
	t.Helper()
	doc := NewHTMLDocument()
	if err := doc.Body().SetInnerHTML(`<div id="outer"><p id="inner"><span id="leaf">text</span></p></div>`); err != nil {
		t.Fatalf("SetInnerHTML failed: %v", err)
	}
	return doc, doc.GetElementById("outer"), doc.GetElementById("inner"), doc.GetElementById("leaf")
}

func TestDispatchEvent_PhaseOrder(t *testing.T) {
	_, outer, inner, leaf := buildTree(t)
	var log []string
	record := func(label string) EventListener {
		return func(ev *Event) error {
			log = append(log, label)
			return nil
		}
	}

	outer.AsNode().AddEventListenerWithOptions("click", record("outer-capture"), ListenerOptions{Capture: true})
	outer.AsNode().AddEventListener("click", record("outer-bubble"))
	inner.AsNode().AddEventListener("click", record("inner-bubble"))
	leaf.AsNode().AddEventListener("click", record("leaf-target"))

	if _, err := leaf.Click(); err != nil {
		t.Fatalf("Click failed: %v", err)
	}
	want := "outer-capture,leaf-target,inner-bubble,outer-bubble"
	if got := strings.Join(log, ","); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestDispatchEvent_StopPropagation(t *testing.T) {
	_, outer, inner, leaf := buildTree(t)
	outerCalled := false
	inner.AsNode().AddEventListener("click", func(ev *Event) error {
		ev.StopPropagation()
		return nil
	})
	outer.AsNode().AddEventListener("click", func(ev *Event) error {
		outerCalled = true
		return nil
	})

	ev, _ := leaf.Click()
	if outerCalled {
		t.Error("StopPropagation should keep the event from reaching outer")
	}
	if !ev.PropagationStopped() {
		t.Error("Expected PropagationStopped")
	}
	if ev.Phase() != EventPhaseNone || ev.CurrentTarget != nil {
		t.Error("Dispatch state should be reset after dispatch")
	}
}

func TestDispatchEvent_StopImmediatePropagation(t *testing.T) {
	_, _, _, leaf := buildTree(t)
	second := false
	leaf.AsNode().AddEventListener("click", func(ev *Event) error {
		ev.StopImmediatePropagation()
		return nil
	})
	leaf.AsNode().AddEventListener("click", func(ev *Event) error {
		second = true
		return nil
	})
	_, _ = leaf.Click()
	if second {
		t.Error("Second listener should not run after StopImmediatePropagation")
	}
}

func TestDispatchEvent_NonBubbling(t *testing.T) {
	_, outer, _, leaf := buildTree(t)
	called := false
	outer.AsNode().AddEventListener("focus", func(ev *Event) error {
		called = true
		return nil
	})
	_, _ = leaf.Trigger("focus", func(ev *Event) { ev.Bubbles = false })
	if called {
		t.Error("Non-bubbling event should not reach ancestors in the bubble phase")
	}
}

func TestDispatchEvent_PreventDefault(t *testing.T) {
	_, _, _, leaf := buildTree(t)
	leaf.AsNode().AddEventListener("submit", func(ev *Event) error {
		ev.PreventDefault()
		return nil
	})
	notCanceled, err := leaf.AsNode().DispatchEvent(NewEvent("submit"))
	if err != nil {
		t.Fatal(err)
	}
	if notCanceled {
		t.Error("Expected DispatchEvent to report a canceled event")
	}

	ev := &Event{Type: "submit"}
	_, _ = leaf.AsNode().DispatchEvent(ev)
	if ev.DefaultPrevented() {
		t.Error("PreventDefault must have no effect on non-cancelable events")
	}
}

func TestDispatchEvent_ListenerError(t *testing.T) {
	_, outer, _, leaf := buildTree(t)
	boom := errors.New("boom")
	reached := false
	leaf.AsNode().AddEventListener("click", func(ev *Event) error { return boom })
	outer.AsNode().AddEventListener("click", func(ev *Event) error {
		reached = true
		return nil
	})
	if _, err := leaf.Click(); !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if reached {
		t.Error("Dispatch should abort after a listener error")
	}
}

func TestDispatchEvent_RejectsRedispatch(t *testing.T) {
	_, _, _, leaf := buildTree(t)
	var inner error
	leaf.AsNode().AddEventListener("click", func(ev *Event) error {
		_, inner = leaf.AsNode().DispatchEvent(ev)
		return nil
	})
	_, _ = leaf.Click()
	var domErr *DOMError
	if !errors.As(inner, &domErr) || domErr.Name != "InvalidStateError" {
		t.Errorf("Expected InvalidStateError, got %v", inner)
	}
}

func TestListenerOnceAndRemove(t *testing.T) {
	_, _, _, leaf := buildTree(t)
	count := 0
	leaf.AsNode().AddEventListenerWithOptions("click", func(ev *Event) error {
		count++
		return nil
	}, ListenerOptions{Once: true})
	_, _ = leaf.Click()
	_, _ = leaf.Click()
	if count != 1 {
		t.Errorf("Once listener ran %d times", count)
	}

	id := leaf.AsNode().AddEventListener("click", func(ev *Event) error {
		count++
		return nil
	})
	if !leaf.AsNode().RemoveEventListener("click", id) {
		t.Fatal("RemoveEventListener returned false")
	}
	if leaf.AsNode().HasEventListeners("click") {
		t.Error("Expected no click listeners")
	}
	_, _ = leaf.Click()
	if count != 1 {
		t.Error("Removed listener should not run")
	}
}

func TestEvent_TargetElementForText(t *testing.T) {
	_, _, _, leaf := buildTree(t)
	text := leaf.AsNode().FirstChild()
	if text.NodeType() != TextNode {
		t.Fatalf("Expected text node, got %v", text.NodeType())
	}
	var seen *Element
	leaf.AsNode().AddEventListener("click", func(ev *Event) error {
		seen = ev.TargetElement()
		return nil
	})
	_, _ = text.DispatchEvent(NewEvent("click"))
	if seen != leaf {
		t.Errorf("Expected TargetElement to be the parent span, got %v", seen)
	}
}

func TestEvent_HasModifier(t *testing.T) {
	ev := NewEvent("click")
	if ev.HasModifier() {
		t.Error("Fresh event should have no modifiers")
	}
	ev.ShiftKey = true
	if !ev.HasModifier() {
		t.Error("Expected HasModifier with shift pressed")
	}
}
