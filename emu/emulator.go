package emu

import (
	"fmt"

	"github.com/sarchlab/r3sim/insts"
)

// Emulator is a functional RV32IM interpreter over the same architectural
// state the timing model uses: one instruction per Step, no pipelining, no
// timing. It serves as the reference oracle for the cycle-stepped model and
// as the default execution mode of the CLI.
type Emulator struct {
	regFile *RegFile
	imem    *Memory
	dmem    *Memory
	decoder *insts.Decoder
	alu     *ALU
	mult    *Multiplier

	halted    bool
	exitCode  int
	instCount uint64
}

// NewEmulator creates an emulator over the given register file, instruction
// memory, and data memory.
func NewEmulator(regFile *RegFile, imem, dmem *Memory) *Emulator {
	return &Emulator{
		regFile: regFile,
		imem:    imem,
		dmem:    dmem,
		decoder: insts.NewDecoder(),
		alu:     NewALU(),
		mult:    NewMultiplier(),
	}
}

// Step fetches, decodes, and executes a single instruction. Once the emulator
// has halted, Step is a no-op.
func (e *Emulator) Step() error {
	if e.halted {
		return nil
	}

	pc := e.regFile.PC
	word, err := e.imem.ReadWord(pc)
	if err != nil {
		return fmt.Errorf("instruction fetch at PC 0x%08x: %w", pc, err)
	}

	inst := e.decoder.Decode(word)
	if inst.Op == insts.OpUnknown {
		return fmt.Errorf("invalid opcode: word 0x%08x at PC 0x%08x", word, pc)
	}

	e.instCount++
	nextPC := pc + insts.InstructionWidth

	rs1 := e.regFile.ReadReg(inst.Rs1)
	rs2 := e.regFile.ReadReg(inst.Rs2)
	imm := uint32(inst.Imm)

	switch inst.Op {
	case insts.OpADD, insts.OpSUB, insts.OpSLL, insts.OpSLT, insts.OpSLTU,
		insts.OpXOR, insts.OpSRL, insts.OpSRA, insts.OpOR, insts.OpAND:
		e.regFile.WriteReg(inst.Rd, e.alu.Execute(inst.Op, rs1, rs2))

	case insts.OpMUL, insts.OpMULH, insts.OpMULHSU, insts.OpMULHU:
		e.regFile.WriteReg(inst.Rd, e.mult.Multiply(inst.Op, rs1, rs2))

	case insts.OpADDI, insts.OpSLTI, insts.OpSLTIU, insts.OpXORI,
		insts.OpORI, insts.OpANDI, insts.OpSLLI, insts.OpSRLI, insts.OpSRAI:
		e.regFile.WriteReg(inst.Rd, e.alu.Execute(inst.Op, rs1, imm))

	case insts.OpLUI:
		e.regFile.WriteReg(inst.Rd, imm)

	case insts.OpAUIPC:
		e.regFile.WriteReg(inst.Rd, pc+imm)

	case insts.OpLW:
		value, err := e.dmem.ReadWord(rs1 + imm)
		if err != nil {
			return fmt.Errorf("load at PC 0x%08x: %w", pc, err)
		}
		e.regFile.WriteReg(inst.Rd, value)

	case insts.OpSW:
		if err := e.dmem.WriteWord(rs1+imm, rs2); err != nil {
			return fmt.Errorf("store at PC 0x%08x: %w", pc, err)
		}

	case insts.OpBEQ:
		if rs1 == rs2 {
			nextPC = pc + imm
		}

	case insts.OpBNE:
		if rs1 != rs2 {
			nextPC = pc + imm
		}

	case insts.OpJAL:
		e.regFile.WriteReg(inst.Rd, pc+insts.InstructionWidth)
		nextPC = pc + imm

	case insts.OpJALR:
		e.regFile.WriteReg(inst.Rd, pc+insts.InstructionWidth)
		nextPC = (rs1 + imm) &^ 1

	case insts.OpECALL:
		e.halted = true
		e.exitCode = int(int32(e.regFile.ReadReg(10)))
		return nil

	case insts.OpEBREAK:
		e.halted = true
		return nil
	}

	e.regFile.PC = nextPC
	return nil
}

// Run executes instructions until the program halts. A maxInsts of zero means
// no limit; otherwise exceeding the limit is an error.
func (e *Emulator) Run(maxInsts uint64) error {
	for !e.halted {
		if maxInsts > 0 && e.instCount >= maxInsts {
			return fmt.Errorf("instruction limit reached (%d)", maxInsts)
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Halted reports whether the program has executed ECALL or EBREAK.
func (e *Emulator) Halted() bool {
	return e.halted
}

// ExitCode returns the exit code of a halted program: x10 for ECALL, zero for
// EBREAK.
func (e *Emulator) ExitCode() int {
	return e.exitCode
}

// InstCount returns the number of instructions executed so far.
func (e *Emulator) InstCount() uint64 {
	return e.instCount
}
