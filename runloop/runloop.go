// Package runloop provides the atomic update boundary that wraps every
// delegated native event. Work scheduled while a boundary is open is
// coalesced into named queues and flushed once, when the outermost
// boundary closes.
package runloop

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Queue names, in flush order.
const (
	Actions     = "actions"
	Render      = "render"
	AfterRender = "afterRender"
	Destroy     = "destroy"
)

// DefaultQueues is the flush order used by New.
var DefaultQueues = []string{Actions, Render, AfterRender, Destroy}

// Task is a unit of deferred work.
type Task func() error

// Loop is a reentrant update boundary. It is not safe for concurrent use;
// like the DOM it serves, it is driven from a single goroutine.
type Loop struct {
	log      *logrus.Entry
	order    []string
	queues   map[string][]Task
	depth    int
	flushing bool
	flushes  int
}

// New creates a loop with the default queues. A nil log uses the standard logger.
func New(log *logrus.Entry) *Loop {
	return NewWithQueues(log, DefaultQueues...)
}

// NewWithQueues creates a loop flushing the given queues in order.
func NewWithQueues(log *logrus.Entry, queues ...string) *Loop {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	l := &Loop{
		log:    log.WithField("component", "runloop"),
		order:  append([]string(nil), queues...),
		queues: make(map[string][]Task, len(queues)),
	}
	return l
}

// Run executes fn inside a boundary. Boundaries nest: only the outermost
// close flushes the queues. The boundary is closed on every exit path,
// including a panic in fn, which is re-raised after the close.
func (l *Loop) Run(fn func() error) (err error) {
	l.depth++
	defer func() {
		l.depth--
		if l.depth > 0 {
			return
		}
		if ferr := l.flush(); err == nil {
			err = ferr
		}
	}()
	return fn()
}

// InLoop reports whether a boundary is currently open.
func (l *Loop) InLoop() bool {
	return l.depth > 0
}

// Depth returns the current nesting depth.
func (l *Loop) Depth() int {
	return l.depth
}

// Flushes returns how many times the queues were flushed. Tests use it to
// assert one flush per native event.
func (l *Loop) Flushes() int {
	return l.flushes
}

// Schedule queues task on the named queue. Outside any boundary the task
// opens an autorun boundary, which flushes before Schedule returns.
func (l *Loop) Schedule(queue string, task Task) error {
	if _, ok := l.indexOf(queue); !ok {
		return errors.Errorf("runloop: unknown queue %q", queue)
	}
	if l.depth == 0 {
		return l.Run(func() error {
			l.queues[queue] = append(l.queues[queue], task)
			return nil
		})
	}
	l.queues[queue] = append(l.queues[queue], task)
	return nil
}

// Pending returns the number of tasks waiting in the named queue.
func (l *Loop) Pending(queue string) int {
	return len(l.queues[queue])
}

func (l *Loop) indexOf(queue string) (int, bool) {
	for i, name := range l.order {
		if name == queue {
			return i, true
		}
	}
	return -1, false
}

// flush drains the queues in order. A task that schedules onto an earlier
// queue restarts the pass from that queue. The first error is returned
// after every queue is empty.
func (l *Loop) flush() error {
	if l.flushing {
		return nil
	}
	l.flushing = true
	defer func() { l.flushing = false }()

	var first error
	ran := 0
	for i := 0; i < len(l.order); {
		name := l.order[i]
		tasks := l.queues[name]
		if len(tasks) == 0 {
			i++
			continue
		}
		l.queues[name] = nil
		for _, task := range tasks {
			ran++
			if err := task(); err != nil && first == nil {
				first = errors.Wrapf(err, "runloop: %s queue", name)
			}
		}
		i = l.firstNonEmpty()
	}
	l.flushes++
	if ran > 0 {
		l.log.WithField("tasks", ran).Debug("flushed")
	}
	return first
}

func (l *Loop) firstNonEmpty() int {
	for i, name := range l.order {
		if len(l.queues[name]) > 0 {
			return i
		}
	}
	return len(l.order)
}
