// Package loop drives camera updates at a fixed rate and renders once per
// iteration.
//
// Each iteration measures the real time since the previous one, runs as many
// fixed steps as that time buys, then submits the render step to the
// surface's thread and waits for it. Update and render therefore strictly
// alternate and never touch the scene concurrently.
package loop

import (
	"context"
	"time"

	"github.com/san-kum/kmviz/internal/logging"
)

type Loop struct {
	// Update advances state by dt seconds. It runs on the loop goroutine.
	Update func(dt float64)
	// Render draws a frame. It runs through Invoker.
	Render func()
	// Report receives the fps/ups summary once per second.
	Report func(status string)
	// Done is checked after every frame; true ends the loop.
	Done func() bool

	Invoker Invoker
	Now     func() time.Time

	acc     *Accumulator
	counter Counter
}

func New(step time.Duration) *Loop {
	return &Loop{acc: NewAccumulator(step), Invoker: Direct{}, Now: time.Now}
}

// Run iterates until Done reports true, ctx is canceled, or the invoker
// refuses a task.
func (l *Loop) Run(ctx context.Context) error {
	log := logging.Logger()
	update := l.Update
	if update == nil {
		update = func(float64) {}
	}

	last := l.Now()
	frames := 0
	for {
		if err := ctx.Err(); err != nil {
			log.Debug("loop stopped", "reason", err, "frames", frames)
			return err
		}

		now := l.Now()
		elapsed := now.Sub(last)
		last = now

		l.counter.Updates(l.acc.Advance(elapsed, update))

		if l.Render != nil {
			if err := l.Invoker.Invoke(l.Render); err != nil {
				log.Debug("loop stopped", "reason", err, "frames", frames)
				return err
			}
		}
		l.counter.Frame()
		frames++

		if status, ok := l.counter.Tick(elapsed); ok && l.Report != nil {
			l.Report(status)
		}
		if l.Done != nil && l.Done() {
			log.Debug("loop finished", "frames", frames)
			return nil
		}
	}
}
