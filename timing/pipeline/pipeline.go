package pipeline

import (
	"fmt"

	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/insts"
	"github.com/sarchlab/r3sim/timing/latency"
)

// fillCycles is the pipeline fill overhead. With three stages the first
// instruction retires two cycles after its fetch, so a hazard-free program
// of N instructions finishes in N+2 cycles.
const fillCycles = 2

// State is the pipeline's condition after a tick.
type State int

const (
	// StateRunning means the pipeline advanced normally.
	StateRunning State = iota
	// StateStalled means the front end was frozen this cycle by a hazard
	// or a multi-cycle operation.
	StateStalled
	// StateHalted means an ECALL or EBREAK retired. Terminal.
	StateHalted
	// StateFaulted means the program did something unrecoverable. Terminal.
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStalled:
		return "stalled"
	case StateHalted:
		return "halted"
	case StateFaulted:
		return "faulted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// FaultKind classifies what drove the pipeline into the faulted state.
type FaultKind int

const (
	// FaultInvalidOpcode means decode saw a word that is not a valid
	// instruction.
	FaultInvalidOpcode FaultKind = iota
	// FaultAddressOutOfRange means a fetch or data access was misaligned
	// or outside the memory extent.
	FaultAddressOutOfRange
)

func (k FaultKind) String() string {
	switch k {
	case FaultInvalidOpcode:
		return "invalid opcode"
	case FaultAddressOutOfRange:
		return "address out of range"
	}
	return fmt.Sprintf("fault(%d)", int(k))
}

// Fault describes a terminal fault: what went wrong, where, and when.
type Fault struct {
	Kind  FaultKind
	PC    uint32
	Cycle uint64
	Err   error // Underlying cause, if any
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%v at PC 0x%08x, cycle %d: %v", f.Kind, f.PC, f.Cycle, f.Err)
	}
	return fmt.Sprintf("%v at PC 0x%08x, cycle %d", f.Kind, f.PC, f.Cycle)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Statistics tracks pipeline performance counters.
type Statistics struct {
	Cycles        uint64
	Instructions  uint64 // Retired instructions, including the halt
	LoadUseStalls uint64
	ComputeStalls uint64
	Forwards      uint64 // Operands satisfied from the forwarding window
	Branches      uint64 // Control transfers resolved in decode
	BranchesTaken uint64
}

// CPI returns cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Stalls returns the total stall cycles across both classes.
func (s Statistics) Stalls() uint64 {
	return s.LoadUseStalls + s.ComputeStalls
}

// TickInfo is the per-cycle record handed to the observer after every
// tick. PC is the next fetch address.
type TickInfo struct {
	Cycle uint64
	PC    uint32
	State State
}

// Observer receives a TickInfo after every tick. The pipeline itself never
// logs; tracing hangs off this hook.
type Observer func(TickInfo)

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLatencyTable sets the execute-stage latency table.
func WithLatencyTable(table *latency.Table) PipelineOption {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// WithObserver registers an observer called after every tick.
func WithObserver(obs Observer) PipelineOption {
	return func(p *Pipeline) {
		p.observer = obs
	}
}

// Pipeline models a 3-stage in-order pipeline: fetch/decode, execute, and
// a combined memory/writeback stage. Stages are evaluated back to front
// within a tick, so a value committed by memory/writeback is visible to
// the decode happening in the same cycle.
type Pipeline struct {
	idex  IDEXRegister
	exmem EXMEMRegister

	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage
	hazardUnit     *HazardUnit
	branchUnit     *BranchUnit

	latencyTable *latency.Table
	execBusy     uint64 // Remaining execute cycles for the instruction in IDEX

	regFile *emu.RegFile
	imem    *emu.Memory
	dmem    *emu.Memory

	pc       uint32
	haltSeen bool // A halt has been decoded; fetch is stopped

	state    State
	fault    *Fault
	exitCode int
	stats    Statistics
	observer Observer
}

// NewPipeline creates a pipeline with separate instruction and data
// memories sharing regFile with the functional model.
func NewPipeline(regFile *emu.RegFile, imem, dmem *emu.Memory, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		fetchStage:     NewFetchStage(imem),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(dmem),
		writebackStage: NewWritebackStage(regFile),
		hazardUnit:     NewHazardUnit(),
		branchUnit:     NewBranchUnit(),
		latencyTable:   latency.NewTable(),
		regFile:        regFile,
		imem:           imem,
		dmem:           dmem,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PC returns the next fetch address.
func (p *Pipeline) PC() uint32 {
	return p.pc
}

// SetPC sets the next fetch address.
func (p *Pipeline) SetPC(pc uint32) {
	p.pc = pc
	p.regFile.PC = pc
}

// State returns the pipeline state after the most recent tick.
func (p *Pipeline) State() State {
	return p.state
}

// Halted returns whether the pipeline retired a halt.
func (p *Pipeline) Halted() bool {
	return p.state == StateHalted
}

// Fault returns the fault that stopped the pipeline, or nil.
func (p *Pipeline) Fault() *Fault {
	return p.fault
}

// ExitCode returns the program's exit code. Meaningful after a halt.
func (p *Pipeline) ExitCode() int {
	return p.exitCode
}

// Stats returns the accumulated statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Tick advances the pipeline by one cycle. Ticking a halted or faulted
// pipeline does nothing.
func (p *Pipeline) Tick() {
	if p.state == StateHalted || p.state == StateFaulted {
		return
	}

	p.stats.Cycles++

	// Stage 3: memory/writeback on the cycle-start EXMEM contents. Loads
	// read and stores write within this cycle, so the committed value can
	// feed the decode below through the forwarding window.
	memProducer := Producer{Origin: ForwardFromMemWriteback}
	if p.exmem.Valid {
		if p.exmem.IsHalt {
			p.retireHalt()
			return
		}
		memResult, err := p.memoryStage.Access(&p.exmem)
		if err != nil {
			p.raiseFault(FaultAddressOutOfRange, p.exmem.PC, err)
			return
		}
		value := p.writebackStage.Writeback(&p.exmem, memResult)
		p.stats.Instructions++
		memProducer = Producer{
			Origin: ForwardFromMemWriteback,
			Rd:     p.exmem.Rd,
			Value:  value,
			Valid:  p.exmem.RegWrite,
		}
	}

	// Stage 2: execute on the cycle-start IDEX contents. A multi-cycle
	// operation occupies the stage, freezing the front and sending bubbles
	// down until its final cycle.
	execProducer := Producer{Origin: ForwardFromExecute}
	var nextEXMEM EXMEMRegister
	if p.idex.Valid {
		if p.execBusy == 0 {
			p.execBusy = p.latencyTable.GetLatency(p.idex.Inst)
		}
		if p.execBusy > 0 {
			p.execBusy--
		}
		if p.execBusy > 0 {
			p.stats.ComputeStalls++
			p.exmem.Clear()
			p.finishTick(StateStalled)
			return
		}
		result := p.executeStage.Execute(&p.idex)
		nextEXMEM = EXMEMRegister{
			Valid:      true,
			PC:         p.idex.PC,
			Inst:       p.idex.Inst,
			ALUResult:  result.Value,
			StoreValue: p.idex.Rs2Value,
			Rd:         p.idex.Rd,
			RegWrite:   p.idex.RegWrite,
			MemRead:    p.idex.MemRead,
			MemWrite:   p.idex.MemWrite,
			IsHalt:     p.idex.IsHalt,
		}
		execProducer = Producer{
			Origin:  ForwardFromExecute,
			Rd:      p.idex.Rd,
			Value:   result.Value,
			Valid:   p.idex.RegWrite,
			Pending: p.idex.MemRead,
		}
	}

	// Stage 1: fetch, decode, operand resolution, and branch resolution.
	// Once a halt is in flight the front only produces bubbles.
	var nextIDEX IDEXRegister
	pcNext := p.pc
	stalled := false
	if !p.haltSeen {
		word, err := p.fetchStage.Fetch(p.pc)
		if err != nil {
			p.raiseFault(FaultAddressOutOfRange, p.pc, err)
			return
		}
		dec := p.decodeStage.Decode(word)
		if dec.Inst.Op == insts.OpUnknown {
			p.raiseFault(FaultInvalidOpcode, p.pc, fmt.Errorf("word 0x%08x", word))
			return
		}

		window := Window{execProducer, memProducer}
		rs1 := OperandResult{Value: dec.Rs1Value}
		rs2 := OperandResult{Value: dec.Rs2Value}
		if dec.UsesRs1 {
			rs1 = p.hazardUnit.Resolve(dec.Rs1, dec.Rs1Value, window)
		}
		if dec.UsesRs2 {
			rs2 = p.hazardUnit.Resolve(dec.Rs2, dec.Rs2Value, window)
		}

		if rs1.Stall || rs2.Stall {
			// Load-use hazard: hold the instruction in decode for one
			// cycle and let a bubble enter execute. Next cycle the load's
			// data forwards from memory/writeback.
			p.stats.LoadUseStalls++
			stalled = true
		} else {
			if rs1.Origin != ForwardNone {
				p.stats.Forwards++
			}
			if rs2.Origin != ForwardNone {
				p.stats.Forwards++
			}

			pcNext = p.pc + insts.InstructionWidth
			if dec.IsBranch {
				br := p.branchUnit.Resolve(dec.Inst, rs1.Value, rs2.Value, p.pc)
				p.stats.Branches++
				if br.Taken {
					p.stats.BranchesTaken++
					pcNext = br.Target
				}
			}

			nextIDEX = IDEXRegister{
				Valid:    true,
				PC:       p.pc,
				Inst:     dec.Inst,
				Rs1Value: rs1.Value,
				Rs2Value: rs2.Value,
				Rd:       dec.Rd,
				RegWrite: dec.RegWrite,
				MemRead:  dec.MemRead,
				MemWrite: dec.MemWrite,
				IsHalt:   dec.IsHalt,
			}
			if dec.IsHalt {
				p.haltSeen = true
				pcNext = p.pc
			}
		}
	}

	p.exmem = nextEXMEM
	if stalled {
		p.idex.Clear()
		p.finishTick(StateStalled)
		return
	}
	p.idex = nextIDEX
	p.pc = pcNext
	p.regFile.PC = pcNext
	p.finishTick(StateRunning)
}

// Run ticks the pipeline until it halts or faults. A maxCycles of zero
// means no limit. A fault is returned as the error.
func (p *Pipeline) Run(maxCycles uint64) error {
	for p.state != StateHalted && p.state != StateFaulted {
		if maxCycles > 0 && p.stats.Cycles >= maxCycles {
			return fmt.Errorf("cycle limit reached (%d)", maxCycles)
		}
		p.Tick()
	}
	if p.fault != nil {
		return p.fault
	}
	return nil
}

// retireHalt completes the halt in EXMEM. Everything older has already
// committed, so the exit code registers are final.
func (p *Pipeline) retireHalt() {
	if p.exmem.Inst.Op == insts.OpECALL {
		p.exitCode = int(int32(p.regFile.ReadReg(10)))
	}
	p.stats.Instructions++
	p.exmem.Clear()
	p.finishTick(StateHalted)
}

func (p *Pipeline) raiseFault(kind FaultKind, pc uint32, err error) {
	p.fault = &Fault{Kind: kind, PC: pc, Cycle: p.stats.Cycles, Err: err}
	p.finishTick(StateFaulted)
}

func (p *Pipeline) finishTick(state State) {
	p.state = state
	if p.observer != nil {
		p.observer(TickInfo{Cycle: p.stats.Cycles, PC: p.pc, State: p.state})
	}
}
