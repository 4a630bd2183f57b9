// Package core wraps the pipeline in an Akita ticking component so an
// event-driven engine can clock the processor model.
package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/r3sim/timing/pipeline"
)

// Core is an engine-driven processor model. Each engine tick advances the
// pipeline by one cycle until it reaches a terminal state.
type Core struct {
	*sim.TickingComponent

	pipeline  *pipeline.Pipeline
	maxCycles uint64
}

// Tick advances the pipeline by one cycle. It reports false once the
// pipeline can no longer make progress, which stops the tick scheduling.
func (c *Core) Tick() bool {
	if c.maxCycles > 0 && c.pipeline.Stats().Cycles >= c.maxCycles {
		return false
	}

	c.pipeline.Tick()

	switch c.pipeline.State() {
	case pipeline.StateHalted, pipeline.StateFaulted:
		return false
	}
	return true
}

// Run schedules the first tick and drives the engine until the pipeline
// stops.
func (c *Core) Run() error {
	c.TickNow()
	if err := c.Engine.Run(); err != nil {
		return fmt.Errorf("failed to run engine: %w", err)
	}
	if fault := c.pipeline.Fault(); fault != nil {
		return fault
	}
	if c.maxCycles > 0 && !c.pipeline.Halted() {
		return fmt.Errorf("cycle limit reached (%d)", c.maxCycles)
	}
	return nil
}

// Pipeline returns the wrapped pipeline model.
func (c *Core) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// SetPC sets the next fetch address.
func (c *Core) SetPC(pc uint32) {
	c.pipeline.SetPC(pc)
}

// Halted returns whether the pipeline retired a halt.
func (c *Core) Halted() bool {
	return c.pipeline.Halted()
}

// ExitCode returns the program's exit code. Meaningful after a halt.
func (c *Core) ExitCode() int {
	return c.pipeline.ExitCode()
}

// Stats returns the pipeline statistics.
func (c *Core) Stats() pipeline.Statistics {
	return c.pipeline.Stats()
}
