// Package latency provides instruction timing lookups for the cycle-stepped
// pipeline model. The execute-stage occupancy of each instruction class is
// configurable via TimingConfig.
package latency

import (
	"github.com/sarchlab/r3sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a latency table with a custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execute-stage occupancy in cycles for the given
// instruction. Loads, stores, branches and jumps occupy the execute stage for
// a single cycle; their remaining work happens in other stages.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	if t.IsMultOp(inst) {
		return t.config.MultiplyLatency
	}
	return t.config.ALULatency
}

// IsMultOp returns true if the instruction belongs to the multiply group.
func (t *Table) IsMultOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpMUL, insts.OpMULH, insts.OpMULHSU, insts.OpMULHU:
		return true
	default:
		return false
	}
}

// IsMemoryOp returns true if the instruction accesses data memory.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpLW || inst.Op == insts.OpSW
}

// IsLoadOp returns true if the instruction is a load.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpLW
}

// IsStoreOp returns true if the instruction is a store.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpSW
}

// IsBranchOp returns true if the instruction is a branch or jump.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpBEQ, insts.OpBNE, insts.OpJAL, insts.OpJALR:
		return true
	default:
		return false
	}
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
