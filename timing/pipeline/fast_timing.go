package pipeline

import (
	"fmt"

	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/insts"
	"github.com/sarchlab/r3sim/timing/latency"
)

// FastTiming estimates cycle counts in a single functional pass, without
// simulating the latches. It charges one issue cycle per instruction plus
// the same stall rules the pipeline applies: one cycle when an instruction
// consumes the destination of the immediately preceding load, and the
// extra execute cycles of multi-cycle operations. For programs that halt,
// the total equals the pipeline's cycle count.
type FastTiming struct {
	regFile  *emu.RegFile
	imem     *emu.Memory
	emulator *emu.Emulator
	decoder  *insts.Decoder

	latencyTable *latency.Table
	maxInsts     uint64

	issued        uint64 // Issue and stall cycles charged so far
	loadUseStalls uint64
	computeStalls uint64
	pendingLoadRd uint8 // Destination of the previous instruction if it was a load
}

// FastTimingOption configures a FastTiming model.
type FastTimingOption func(*FastTiming)

// WithMaxInstructions limits how many instructions Run will execute. Zero
// means no limit.
func WithMaxInstructions(n uint64) FastTimingOption {
	return func(ft *FastTiming) {
		ft.maxInsts = n
	}
}

// NewFastTiming creates a fast timing model over the same state a pipeline
// would use. A nil table means default latencies.
func NewFastTiming(regFile *emu.RegFile, imem, dmem *emu.Memory, table *latency.Table, opts ...FastTimingOption) *FastTiming {
	if table == nil {
		table = latency.NewTable()
	}
	ft := &FastTiming{
		regFile:      regFile,
		imem:         imem,
		emulator:     emu.NewEmulator(regFile, imem, dmem),
		decoder:      insts.NewDecoder(),
		latencyTable: table,
	}
	for _, opt := range opts {
		opt(ft)
	}
	return ft
}

// Step executes one instruction and charges its issue and stall cycles.
func (ft *FastTiming) Step() error {
	if ft.emulator.Halted() {
		return nil
	}

	pc := ft.regFile.PC
	word, err := ft.imem.ReadWord(pc)
	if err != nil {
		return fmt.Errorf("instruction fetch at PC 0x%08x: %w", pc, err)
	}
	inst := ft.decoder.Decode(word)

	ft.issued++
	if ft.pendingLoadRd != 0 && usesReg(inst, ft.pendingLoadRd) {
		ft.issued++
		ft.loadUseStalls++
	}
	if lat := ft.latencyTable.GetLatency(inst); lat > 1 {
		ft.issued += lat - 1
		ft.computeStalls += lat - 1
	}
	ft.pendingLoadRd = 0
	if inst.Op == insts.OpLW && inst.Rd != 0 {
		ft.pendingLoadRd = inst.Rd
	}

	return ft.emulator.Step()
}

// Run executes instructions until the program halts.
func (ft *FastTiming) Run() error {
	for !ft.emulator.Halted() {
		if ft.maxInsts > 0 && ft.emulator.InstCount() >= ft.maxInsts {
			return fmt.Errorf("instruction limit reached (%d)", ft.maxInsts)
		}
		if err := ft.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Cycles returns the estimated cycle count, including the pipeline fill.
func (ft *FastTiming) Cycles() uint64 {
	return ft.issued + fillCycles
}

// Halted returns whether the program has halted.
func (ft *FastTiming) Halted() bool {
	return ft.emulator.Halted()
}

// ExitCode returns the program's exit code. Meaningful after a halt.
func (ft *FastTiming) ExitCode() int {
	return ft.emulator.ExitCode()
}

// Stats returns the estimate as pipeline statistics. Forwarding and branch
// counters are not modeled here and stay zero.
func (ft *FastTiming) Stats() Statistics {
	return Statistics{
		Cycles:        ft.Cycles(),
		Instructions:  ft.emulator.InstCount(),
		LoadUseStalls: ft.loadUseStalls,
		ComputeStalls: ft.computeStalls,
	}
}

func usesReg(inst *insts.Instruction, reg uint8) bool {
	if inst.UsesRs1() && inst.Rs1 == reg {
		return true
	}
	return inst.UsesRs2() && inst.Rs2 == reg
}
