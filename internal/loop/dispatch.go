package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed indicates a task submitted after the dispatcher stopped serving.
var ErrClosed = errors.New("loop: dispatcher closed")

// Invoker runs fn on the goroutine that owns the display surface and
// returns once fn has completed.
type Invoker interface {
	Invoke(fn func()) error
}

// Direct runs tasks on the calling goroutine.
type Direct struct{}

func (Direct) Invoke(fn func()) error {
	fn()
	return nil
}

type task struct {
	fn   func()
	done chan struct{}
}

// Dispatcher hands tasks to a serving goroutine and blocks the submitter
// until each task is finished, so work from different frames never overlaps.
type Dispatcher struct {
	tasks chan task
	quit  chan struct{}
	once  sync.Once
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{tasks: make(chan task), quit: make(chan struct{})}
}

func (d *Dispatcher) Invoke(fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}
	select {
	case d.tasks <- t:
	case <-d.quit:
		return ErrClosed
	}
	<-t.done
	return nil
}

// Serve executes submitted tasks on the calling goroutine until ctx is
// done or Close is called. Callers that need a fixed OS thread lock it
// before calling Serve. Once Serve returns the dispatcher is closed.
func (d *Dispatcher) Serve(ctx context.Context) error {
	defer d.Close()
	for {
		select {
		case t := <-d.tasks:
			t.fn()
			close(t.done)
		case <-d.quit:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops Serve and fails pending and later Invoke calls.
func (d *Dispatcher) Close() {
	d.once.Do(func() { close(d.quit) })
}
