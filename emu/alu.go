package emu

import "github.com/sarchlab/r3sim/insts"

// ALU implements the single-cycle integer operations as pure functions. The
// second operand is the resolved register value or immediate, as the
// instruction format dictates; shift operations use its low five bits.
type ALU struct{}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// Execute computes the result of an ALU-class operation.
func (a *ALU) Execute(op insts.Op, x, y uint32) uint32 {
	switch op {
	case insts.OpADD, insts.OpADDI:
		return x + y
	case insts.OpSUB:
		return x - y
	case insts.OpSLL, insts.OpSLLI:
		return x << (y & 0x1F)
	case insts.OpSLT, insts.OpSLTI:
		if int32(x) < int32(y) {
			return 1
		}
		return 0
	case insts.OpSLTU, insts.OpSLTIU:
		if x < y {
			return 1
		}
		return 0
	case insts.OpXOR, insts.OpXORI:
		return x ^ y
	case insts.OpSRL, insts.OpSRLI:
		return x >> (y & 0x1F)
	case insts.OpSRA, insts.OpSRAI:
		return uint32(int32(x) >> (y & 0x1F))
	case insts.OpOR, insts.OpORI:
		return x | y
	case insts.OpAND, insts.OpANDI:
		return x & y
	}
	return 0
}

// Multiplier implements the M-extension multiply group as pure functions. Its
// latency is declared through the timing configuration, not here.
type Multiplier struct{}

// NewMultiplier creates a new multiplier.
func NewMultiplier() *Multiplier {
	return &Multiplier{}
}

// Multiply computes the 64-bit product of the operands and returns the half
// selected by the operation.
func (m *Multiplier) Multiply(op insts.Op, x, y uint32) uint32 {
	switch op {
	case insts.OpMUL:
		return x * y
	case insts.OpMULH:
		return uint32((int64(int32(x)) * int64(int32(y))) >> 32)
	case insts.OpMULHSU:
		return uint32((int64(int32(x)) * int64(y)) >> 32)
	case insts.OpMULHU:
		return uint32((uint64(x) * uint64(y)) >> 32)
	}
	return 0
}
