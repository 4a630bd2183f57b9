package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/timing/latency"
	"github.com/sarchlab/r3sim/timing/pipeline"
)

// Builder can create cores.
type Builder struct {
	engine       sim.Engine
	freq         sim.Freq
	regFile      *emu.RegFile
	instMem      *emu.Memory
	dataMem      *emu.Memory
	latencyTable *latency.Table
	observer     pipeline.Observer
	maxCycles    uint64
}

// NewBuilder creates a builder with a 1 GHz default frequency.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the event engine that clocks the core.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the core frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithRegFile sets the architectural register file.
func (b Builder) WithRegFile(regFile *emu.RegFile) Builder {
	b.regFile = regFile
	return b
}

// WithInstMem sets the instruction memory.
func (b Builder) WithInstMem(mem *emu.Memory) Builder {
	b.instMem = mem
	return b
}

// WithDataMem sets the data memory.
func (b Builder) WithDataMem(mem *emu.Memory) Builder {
	b.dataMem = mem
	return b
}

// WithLatencyTable sets the execute-stage latency table.
func (b Builder) WithLatencyTable(table *latency.Table) Builder {
	b.latencyTable = table
	return b
}

// WithObserver registers a per-cycle observer on the pipeline.
func (b Builder) WithObserver(obs pipeline.Observer) Builder {
	b.observer = obs
	return b
}

// WithMaxCycles limits how many cycles the core will run. Zero means no
// limit.
func (b Builder) WithMaxCycles(n uint64) Builder {
	b.maxCycles = n
	return b
}

// Build creates a core with the given name.
func (b Builder) Build(name string) *Core {
	if b.instMem == nil || b.dataMem == nil {
		panic("core requires instruction and data memories")
	}
	if b.regFile == nil {
		b.regFile = &emu.RegFile{}
	}

	var opts []pipeline.PipelineOption
	if b.latencyTable != nil {
		opts = append(opts, pipeline.WithLatencyTable(b.latencyTable))
	}
	if b.observer != nil {
		opts = append(opts, pipeline.WithObserver(b.observer))
	}

	c := &Core{
		pipeline:  pipeline.NewPipeline(b.regFile, b.instMem, b.dataMem, opts...),
		maxCycles: b.maxCycles,
	}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	return c
}
