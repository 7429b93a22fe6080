package script

import (
	"github.com/dop251/goja"

	"github.com/chrisuehlinger/eventdispatch/dom"
)

// wrapElement returns the JS view of el, reusing it across calls so
// identity comparisons hold in scripts.
func (r *Runtime) wrapElement(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	if obj, ok := r.elements[el]; ok {
		return obj
	}
	vm := r.vm
	obj := vm.NewObject()
	obj.Set("tagName", el.TagName())
	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !el.HasAttribute(name) {
			return goja.Null()
		}
		return vm.ToValue(el.GetAttribute(name))
	})
	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if err := el.SetAttributeWithError(call.Argument(0).String(), call.Argument(1).String()); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	})
	obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.HasAttribute(call.Argument(0).String()))
	})
	obj.Set("closest", func(call goja.FunctionCall) goja.Value {
		return r.wrapElement(el.Closest(call.Argument(0).String()))
	})
	obj.Set("click", func(call goja.FunctionCall) goja.Value {
		if _, err := el.Click(); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	})
	accessor := func(get func() goja.Value, set func(goja.Value)) (goja.Value, goja.Value) {
		getter := vm.ToValue(func(goja.FunctionCall) goja.Value { return get() })
		if set == nil {
			return getter, nil
		}
		setter := vm.ToValue(func(call goja.FunctionCall) goja.Value {
			set(call.Argument(0))
			return goja.Undefined()
		})
		return getter, setter
	}
	define := func(name string, get func() goja.Value, set func(goja.Value)) {
		getter, setter := accessor(get, set)
		_ = obj.DefineAccessorProperty(name, getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	define("id", func() goja.Value { return vm.ToValue(el.Id()) }, func(v goja.Value) { el.SetId(v.String()) })
	define("className", func() goja.Value { return vm.ToValue(el.ClassName()) }, func(v goja.Value) { el.SetClassName(v.String()) })
	define("textContent", func() goja.Value { return vm.ToValue(el.TextContent()) }, func(v goja.Value) { el.SetTextContent(v.String()) })
	define("parentElement", func() goja.Value { return r.wrapElement(el.ParentElement()) }, nil)

	r.elements[el] = obj
	return obj
}

func (r *Runtime) wrapNode(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if el, ok := n.AsElement(); ok {
		return r.wrapElement(el)
	}
	return r.wrapElement(n.ParentElement())
}

// wrapEvent exposes ev to scripts. preventDefault and stopPropagation act
// on the native event.
func (r *Runtime) wrapEvent(ev *dom.Event) goja.Value {
	if ev == nil {
		return goja.Null()
	}
	vm := r.vm
	obj := vm.NewObject()
	obj.Set("type", ev.Type)
	obj.Set("bubbles", ev.Bubbles)
	obj.Set("cancelable", ev.Cancelable)
	obj.Set("target", r.wrapNode(ev.Target))
	obj.Set("relatedTarget", r.wrapNode(ev.RelatedTarget))
	obj.Set("ctrlKey", ev.CtrlKey)
	obj.Set("altKey", ev.AltKey)
	obj.Set("shiftKey", ev.ShiftKey)
	obj.Set("metaKey", ev.MetaKey)
	obj.Set("button", ev.Button)
	obj.Set("key", ev.Key)
	obj.Set("which", ev.Which)
	obj.Set("dataTransfer", ev.DataTransfer)
	obj.Set("detail", ev.Detail)
	obj.Set("preventDefault", func(goja.FunctionCall) goja.Value {
		ev.PreventDefault()
		return goja.Undefined()
	})
	obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})
	obj.Set("stopImmediatePropagation", func(goja.FunctionCall) goja.Value {
		ev.StopImmediatePropagation()
		return goja.Undefined()
	})
	obj.Set("isDefaultPrevented", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(ev.DefaultPrevented())
	})
	obj.Set("isPropagationStopped", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(ev.PropagationStopped())
	})
	return obj
}
