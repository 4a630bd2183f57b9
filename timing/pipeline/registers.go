// Package pipeline provides the 3-stage pipeline implementation for timing simulation.
package pipeline

import "github.com/sarchlab/r3sim/insts"

// IDEXRegister is the latch between the fetch/decode stage and the execute
// stage. Operand values are already resolved through the forwarding window,
// so execute never touches the register file.
type IDEXRegister struct {
	Valid bool // Whether this register contains a valid instruction
	PC    uint32
	Inst  *insts.Instruction

	Rs1Value uint32 // Resolved first operand
	Rs2Value uint32 // Resolved second operand, also the store data for SW

	Rd       uint8 // Destination register
	RegWrite bool  // Whether to write Rd at writeback
	MemRead  bool  // Load instruction
	MemWrite bool  // Store instruction
	IsHalt   bool  // ECALL/EBREAK
}

// Clear resets the register to a bubble.
func (r *IDEXRegister) Clear() {
	r.Valid = false
	r.PC = 0
	r.Inst = nil
	r.Rs1Value = 0
	r.Rs2Value = 0
	r.Rd = 0
	r.RegWrite = false
	r.MemRead = false
	r.MemWrite = false
	r.IsHalt = false
}

// EXMEMRegister is the latch between the execute stage and the combined
// memory/writeback stage.
type EXMEMRegister struct {
	Valid bool // Whether this register contains a valid instruction
	PC    uint32
	Inst  *insts.Instruction

	ALUResult  uint32 // Computed result, or the effective address for LW/SW
	StoreValue uint32 // Data to store for SW

	Rd       uint8 // Destination register
	RegWrite bool  // Whether to write Rd at writeback
	MemRead  bool  // Load instruction
	MemWrite bool  // Store instruction
	IsHalt   bool  // ECALL/EBREAK
}

// Clear resets the register to a bubble.
func (r *EXMEMRegister) Clear() {
	r.Valid = false
	r.PC = 0
	r.Inst = nil
	r.ALUResult = 0
	r.StoreValue = 0
	r.Rd = 0
	r.RegWrite = false
	r.MemRead = false
	r.MemWrite = false
	r.IsHalt = false
}
