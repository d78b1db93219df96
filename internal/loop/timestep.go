package loop

import (
	"fmt"
	"time"
)

// DefaultStep is the fixed simulation increment, 60 updates per second.
const DefaultStep = time.Second / 60

// DefaultMaxSteps bounds the updates run for a single Advance call.
const DefaultMaxSteps = 240

// Accumulator turns variable frame times into fixed-size update steps.
type Accumulator struct {
	Step     time.Duration
	MaxSteps int

	pending time.Duration
}

func NewAccumulator(step time.Duration) *Accumulator {
	if step <= 0 {
		step = DefaultStep
	}
	return &Accumulator{Step: step, MaxSteps: DefaultMaxSteps}
}

// Advance adds elapsed real time and calls update once per whole step that
// is buffered. The remainder carries into the next call. If more than
// MaxSteps are owed the backlog is dropped. It returns the number of
// updates performed.
func (a *Accumulator) Advance(elapsed time.Duration, update func(dt float64)) int {
	if elapsed > 0 {
		a.pending += elapsed
	}
	dt := a.Step.Seconds()
	n := 0
	for a.pending >= a.Step {
		if a.MaxSteps > 0 && n >= a.MaxSteps {
			a.pending = 0
			break
		}
		update(dt)
		a.pending -= a.Step
		n++
	}
	return n
}

// Pending returns the buffered time not yet consumed by a step.
func (a *Accumulator) Pending() time.Duration { return a.pending }

// Counter tracks frames and updates and produces a summary once per second.
type Counter struct {
	frames, updates int
	elapsed         time.Duration
}

func (c *Counter) Frame()        { c.frames++ }
func (c *Counter) Updates(n int) { c.updates += n }

// Tick adds elapsed time. Once at least a second has accumulated it returns
// the "N fps, M ups" summary and resets.
func (c *Counter) Tick(elapsed time.Duration) (string, bool) {
	c.elapsed += elapsed
	if c.elapsed < time.Second {
		return "", false
	}
	s := fmt.Sprintf("%d fps, %d ups", c.frames, c.updates)
	c.frames, c.updates, c.elapsed = 0, 0, 0
	return s, true
}
