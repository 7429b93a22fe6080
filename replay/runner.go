// Package replay drives the event dispatcher without a browser. It loads a
// page and script components, replays native events against it and records
// what each event triggered.
package replay

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chrisuehlinger/eventdispatch/action"
	"github.com/chrisuehlinger/eventdispatch/component"
	"github.com/chrisuehlinger/eventdispatch/config"
	"github.com/chrisuehlinger/eventdispatch/deprecate"
	"github.com/chrisuehlinger/eventdispatch/dispatcher"
	"github.com/chrisuehlinger/eventdispatch/dom"
	"github.com/chrisuehlinger/eventdispatch/instrument"
	"github.com/chrisuehlinger/eventdispatch/runloop"
	"github.com/chrisuehlinger/eventdispatch/script"
)

// Status is the outcome of one replayed event.
type Status int

const (
	StatusHandled Status = iota
	StatusIgnored
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusHandled:
		return "HANDLED"
	case StatusIgnored:
		return "IGNORED"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ActionCall is one action fired while an event was dispatched.
type ActionCall struct {
	Name string
	Args []any
}

// StepResult is the result of replaying one event.
type StepResult struct {
	Index              int
	Type               string
	Target             string
	Status             Status
	Handlers           int
	Actions            []ActionCall
	DefaultPrevented   bool
	PropagationStopped bool
	Duration           time.Duration
	Error              string
}

// Runner holds one page and the dispatcher wired to it.
type Runner struct {
	Config  *config.Config
	Results []StepResult

	log          *logrus.Entry
	runtime      *script.Runtime
	instrumenter *instrument.Instrumenter
	deprecator   *deprecate.Tracker
	loop         *runloop.Loop

	doc        *dom.Document
	renderer   *component.Renderer
	helper     *action.Helper
	dispatcher *dispatcher.EventDispatcher

	current *StepResult
}

// NewRunner creates a runner. A nil config uses config.Default and a nil
// log the standard logger.
func NewRunner(cfg *config.Config, log *logrus.Entry) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	r := &Runner{
		Config:       cfg,
		log:          log.WithField("component", "replay"),
		runtime:      script.NewRuntime(log),
		instrumenter: instrument.New(),
		deprecator:   deprecate.NewTracker(log),
		loop:         runloop.New(log),
	}
	r.instrumenter.Subscribe(dispatcher.InstrumentPrefix+"*", instrument.Listener{
		After: r.record,
	})
	return r
}

// Runtime returns the script runtime components are loaded into.
func (r *Runner) Runtime() *script.Runtime { return r.runtime }

// Document returns the page, or nil before Start.
func (r *Runner) Document() *dom.Document { return r.doc }

// Dispatcher returns the dispatcher, or nil before Start.
func (r *Runner) Dispatcher() *dispatcher.EventDispatcher { return r.dispatcher }

// Deprecations returns the deprecation warnings raised so far.
func (r *Runner) Deprecations() []deprecate.Warning { return r.deprecator.Warnings() }

// LoadScript runs a component script. Definitions are applied by Start.
func (r *Runner) LoadScript(src, name string) error {
	defs, err := r.runtime.Load(src, name)
	if err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{"script": name, "components": len(defs)}).Info("loaded components")
	return nil
}

// Start parses page, upgrades its components and sets up the dispatcher.
func (r *Runner) Start(page string) error {
	if r.dispatcher != nil {
		return errors.New("replay: already started")
	}
	doc, err := dom.ParseHTML(strings.NewReader(page))
	if err != nil {
		return errors.Wrap(err, "replay: parsing page")
	}
	if doc.Body() == nil {
		return errors.New("replay: page has no body")
	}

	components := component.NewRegistry()
	actions := action.NewRegistry()
	r.doc = doc
	r.helper = action.NewHelper(doc, actions, r.log, r.deprecator)
	r.helper.ReleaseOnRemove = r.Config.ReleaseRemovedActions
	r.renderer = component.NewRenderer(doc, components, r.helper, r.loop, r.log, r.deprecator)
	for _, def := range r.runtime.Definitions() {
		if err := r.renderer.Define(def); err != nil {
			return errors.Wrapf(err, "replay: defining %s", def.Name)
		}
	}
	r.dispatcher = dispatcher.New(doc, dispatcher.Options{
		Components:   components,
		Actions:      actions,
		Loop:         r.loop,
		Instrumenter: r.instrumenter,
		Deprecator:   r.deprecator,
		Log:          r.log,
	})
	if err := r.dispatcher.Setup(r.Config.CustomEvents(), r.Config.RootElement); err != nil {
		return err
	}
	created, err := r.renderer.Upgrade(doc.Body())
	if err != nil {
		return errors.Wrap(err, "replay: upgrading components")
	}
	r.log.WithFields(logrus.Fields{
		"components": len(created),
		"actions":    actions.Len(),
	}).Info("page ready")
	return nil
}

// Close tears down the dispatcher and the action helper.
func (r *Runner) Close() {
	if r.dispatcher != nil {
		r.dispatcher.Destroy()
	}
	if r.helper != nil {
		r.helper.Close()
	}
}

// Run replays every event in order and appends the results.
func (r *Runner) Run(rp *config.Replay) []StepResult {
	out := make([]StepResult, 0, len(rp.Events))
	for i, ev := range rp.Events {
		res := r.RunEvent(i+1, ev)
		out = append(out, res)
		r.Results = append(r.Results, res)
	}
	return out
}

// RunEvent dispatches a single event at its target.
func (r *Runner) RunEvent(index int, step config.ReplayEvent) StepResult {
	start := time.Now()
	res := StepResult{Index: index, Type: step.Type, Target: step.Target}
	fail := func(err error) StepResult {
		res.Status = StatusError
		res.Error = err.Error()
		res.Duration = time.Since(start)
		r.log.WithError(err).WithField("step", index).Warn("replay step failed")
		return res
	}

	if r.doc == nil {
		return fail(errors.New("replay: not started"))
	}
	target := r.doc.QuerySelector(step.Target)
	if target == nil {
		return fail(errors.Errorf("target %q not found", step.Target))
	}
	var related *dom.Node
	if step.Related != "" {
		el := r.doc.QuerySelector(step.Related)
		if el == nil {
			return fail(errors.Errorf("related target %q not found", step.Related))
		}
		related = el.AsNode()
	}

	r.current = &res
	ev, err := target.Trigger(step.Type, func(ev *dom.Event) {
		ev.Bubbles = step.Bubbling()
		ev.RelatedTarget = related
		ev.CtrlKey = step.Ctrl
		ev.AltKey = step.Alt
		ev.ShiftKey = step.Shift
		ev.MetaKey = step.Meta
		ev.Button = step.Button
		ev.Which = step.Button + 1
		ev.Key = step.Key
		if step.Data != "" {
			ev.DataTransfer = step.Data
		}
	})
	r.current = nil
	if err != nil {
		return fail(err)
	}

	res.DefaultPrevented = ev.DefaultPrevented()
	res.PropagationStopped = ev.PropagationStopped()
	res.Duration = time.Since(start)
	if res.Handlers > 0 || len(res.Actions) > 0 {
		res.Status = StatusHandled
	} else {
		res.Status = StatusIgnored
	}
	r.log.WithFields(logrus.Fields{
		"step":     index,
		"type":     step.Type,
		"target":   step.Target,
		"handlers": res.Handlers,
		"actions":  len(res.Actions),
	}).Debug("replayed event")
	return res
}

// record collects instrumentation for the event being replayed.
func (r *Runner) record(name string, _ time.Time, p *instrument.Payload) {
	if r.current == nil || p == nil {
		return
	}
	if name == action.InstrumentName {
		r.current.Actions = append(r.current.Actions, ActionCall{Name: p.Name, Args: p.Args})
		return
	}
	r.current.Handlers += p.Handlers
}

// Summary counts the results by status.
func (r *Runner) Summary() (handled, ignored, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusHandled:
			handled++
		case StatusIgnored:
			ignored++
		case StatusError:
			failed++
		}
	}
	return
}

// Exported is the serialized form of a StepResult.
type Exported struct {
	Step               int      `json:"step" msgpack:"step"`
	Type               string   `json:"type" msgpack:"type"`
	Target             string   `json:"target" msgpack:"target"`
	Status             string   `json:"status" msgpack:"status"`
	Handlers           int      `json:"handlers" msgpack:"handlers"`
	Actions            []string `json:"actions,omitempty" msgpack:"actions,omitempty"`
	DefaultPrevented   bool     `json:"defaultPrevented" msgpack:"defaultPrevented"`
	PropagationStopped bool     `json:"propagationStopped" msgpack:"propagationStopped"`
	Duration           int64    `json:"durationMicros" msgpack:"durationMicros"`
	Error              string   `json:"error,omitempty" msgpack:"error,omitempty"`
}

// ExportJSON exports the results as indented JSON.
func (r *Runner) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(r.exported(), "", "  ")
}

// ExportMsgpack exports the results as a msgpack array, for tools that
// diff replays.
func (r *Runner) ExportMsgpack() ([]byte, error) {
	data, err := msgpack.Marshal(r.exported())
	if err != nil {
		return nil, errors.Wrap(err, "replay: encoding msgpack")
	}
	return data, nil
}

func (r *Runner) exported() []Exported {
	results := make([]Exported, 0, len(r.Results))
	for _, res := range r.Results {
		jr := Exported{
			Step:               res.Index,
			Type:               res.Type,
			Target:             res.Target,
			Status:             res.Status.String(),
			Handlers:           res.Handlers,
			DefaultPrevented:   res.DefaultPrevented,
			PropagationStopped: res.PropagationStopped,
			Duration:           res.Duration.Microseconds(),
			Error:              res.Error,
		}
		for _, call := range res.Actions {
			jr.Actions = append(jr.Actions, call.String())
		}
		results = append(results, jr)
	}
	return results
}

func (c ActionCall) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}
