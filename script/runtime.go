// Package script defines components in JavaScript. A script calls
// define(name, proto) where proto holds tagName, template, an actions object,
// an optional bindings array, and event handlers named by logical event.
// Handlers that return false stop propagation.
package script

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/chrisuehlinger/eventdispatch/action"
	"github.com/chrisuehlinger/eventdispatch/component"
	"github.com/chrisuehlinger/eventdispatch/dom"
)

// reserved keys that are not event handlers
var reserved = map[string]bool{
	"tagName":  true,
	"template": true,
	"actions":  true,
	"bindings": true,
}

// Runtime wraps a goja VM holding component definitions.
type Runtime struct {
	vm       *goja.Runtime
	log      *logrus.Entry
	defs     []*component.Definition
	pending  []*component.Definition
	elements map[*dom.Element]*goja.Object
}

// NewRuntime creates a runtime with define and console installed. A nil
// log uses the standard logger.
func NewRuntime(log *logrus.Entry) *Runtime {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	r := &Runtime{
		vm:       goja.New(),
		log:      log.WithField("component", "script"),
		elements: make(map[*dom.Element]*goja.Object),
	}
	r.setupConsole()
	r.vm.Set("define", r.define)
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Definitions returns every definition loaded so far.
func (r *Runtime) Definitions() []*component.Definition {
	out := make([]*component.Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Load runs src and returns the definitions it declared. Nothing is kept
// from a script that fails.
func (r *Runtime) Load(src, name string) (defs []*component.Definition, err error) {
	r.pending = nil
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("script %s: panic: %v", name, p)
		}
		if err != nil {
			r.pending = nil
		}
	}()

	program, err := goja.Compile(name, src, false)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", name)
	}
	if _, err := r.vm.RunProgram(program); err != nil {
		return nil, errors.Wrapf(err, "running %s", name)
	}
	defs = r.pending
	r.defs = append(r.defs, defs...)
	r.pending = nil
	return defs, nil
}

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	logAt := func(level logrus.Level) func(call goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				parts[i] = arg.String()
			}
			r.log.Log(level, strings.Join(parts, " "))
			return goja.Undefined()
		}
	}
	console.Set("log", logAt(logrus.InfoLevel))
	console.Set("info", logAt(logrus.InfoLevel))
	console.Set("warn", logAt(logrus.WarnLevel))
	console.Set("error", logAt(logrus.ErrorLevel))
	console.Set("debug", logAt(logrus.DebugLevel))
	r.vm.Set("console", console)
}

// define implements the JS define(name, proto) global.
func (r *Runtime) define(call goja.FunctionCall) goja.Value {
	name := call.Argument(0)
	if goja.IsUndefined(name) || goja.IsNull(name) || name.String() == "" {
		panic(r.vm.NewTypeError("define: a component name is required"))
	}
	proto, ok := call.Argument(1).(*goja.Object)
	if !ok {
		panic(r.vm.NewTypeError("define: proto for %s must be an object", name.String()))
	}

	def := &component.Definition{
		Name:     name.String(),
		TagName:  stringProp(proto, "tagName"),
		Template: stringProp(proto, "template"),
		Handlers: make(map[string]component.EventHandler),
		Actions:  make(map[string]component.ActionFunc),
	}
	for _, key := range proto.Keys() {
		if reserved[key] {
			continue
		}
		if fn, ok := goja.AssertFunction(proto.Get(key)); ok {
			def.Handlers[key] = r.eventHandler(proto, fn)
		}
	}
	if actions, ok := proto.Get("actions").(*goja.Object); ok {
		for _, key := range actions.Keys() {
			if fn, ok := goja.AssertFunction(actions.Get(key)); ok {
				def.Actions[key] = r.actionFunc(proto, fn)
			}
		}
	}
	bindings, err := r.bindings(proto)
	if err != nil {
		panic(r.vm.NewTypeError("define %s: %v", def.Name, err))
	}
	def.Bindings = bindings

	r.pending = append(r.pending, def)
	r.log.WithFields(logrus.Fields{
		"name":     def.Name,
		"handlers": len(def.Handlers),
		"actions":  len(def.Actions),
	}).Debug("defined component")
	return goja.Undefined()
}

func (r *Runtime) eventHandler(this *goja.Object, fn goja.Callable) component.EventHandler {
	return func(ev *dom.Event) error {
		result, err := fn(this, r.wrapEvent(ev))
		if err != nil {
			return errors.Wrap(err, "script handler")
		}
		if result != nil && result.StrictEquals(r.vm.ToValue(false)) {
			return component.ErrStop
		}
		return nil
	}
}

func (r *Runtime) actionFunc(this *goja.Object, fn goja.Callable) component.ActionFunc {
	return func(args ...any) error {
		values := make([]goja.Value, len(args))
		for i, arg := range args {
			values[i] = r.toValue(arg)
		}
		if _, err := fn(this, values...); err != nil {
			return errors.Wrap(err, "script action")
		}
		return nil
	}
}

// bindings reads proto.bindings: [{selector, action, on, args, bubbles,
// preventDefault, allowedKeys}].
func (r *Runtime) bindings(proto *goja.Object) ([]component.Binding, error) {
	list, ok := proto.Get("bindings").(*goja.Object)
	if !ok {
		return nil, nil
	}
	var out []component.Binding
	for i := 0; i < int(list.Get("length").ToInteger()); i++ {
		item, ok := list.Get(fmt.Sprint(i)).(*goja.Object)
		if !ok {
			return nil, errors.Errorf("binding %d is not an object", i)
		}
		b := component.Binding{
			Selector: stringProp(item, "selector"),
			Options: action.Options{
				On: stringProp(item, "on"),
			},
		}
		actionValue := item.Get("action")
		if fn, ok := goja.AssertFunction(actionValue); ok {
			b.Action = action.Func(func(args ...any) error {
				values := make([]goja.Value, len(args))
				for j, arg := range args {
					values[j] = r.toValue(arg)
				}
				_, err := fn(item, values...)
				return err
			})
		} else if actionValue != nil && !goja.IsUndefined(actionValue) {
			b.Action = actionValue.Export()
			b.Options.Path = actionValue.String()
		}
		if v := item.Get("args"); v != nil {
			if args, ok := v.Export().([]any); ok {
				b.Args = args
			}
		}
		if v := item.Get("bubbles"); v != nil && !goja.IsUndefined(v) {
			b.Options.Bubbles = action.Bool(v.ToBoolean())
		}
		if v := item.Get("preventDefault"); v != nil && !goja.IsUndefined(v) {
			b.Options.PreventDefault = action.Bool(v.ToBoolean())
		}
		if v := item.Get("allowedKeys"); v != nil && !goja.IsUndefined(v) {
			b.Options.AllowedKeys = action.String(v.String())
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *Runtime) toValue(v any) goja.Value {
	switch x := v.(type) {
	case *dom.Element:
		return r.wrapElement(x)
	case *dom.Event:
		return r.wrapEvent(x)
	}
	return r.vm.ToValue(v)
}

func stringProp(obj *goja.Object, key string) string {
	v := obj.Get(key)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}
