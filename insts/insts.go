// Package insts provides RV32 instruction definitions, decoding, and encoding.
//
// This package implements decoding of RV32IM machine code into structured
// instruction representations. It supports:
//   - Register-register and register-immediate arithmetic (ADD, SUB, logic, shifts, SLT)
//   - The M-extension multiply group (MUL, MULH, MULHSU, MULHU)
//   - Word loads and stores (LW, SW)
//   - Control transfer: BEQ, BNE, JAL, JALR
//   - Upper-immediate forms (LUI, AUIPC) and the ECALL/EBREAK system instructions
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x00500093) // addi x1, x0, 5
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts

// InstructionWidth is the size of every instruction word in bytes.
const InstructionWidth = 4
