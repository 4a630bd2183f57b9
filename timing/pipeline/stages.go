package pipeline

import (
	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/insts"
)

// FetchStage reads instruction words from instruction memory.
type FetchStage struct {
	imem *emu.Memory
}

// NewFetchStage creates a fetch stage backed by imem.
func NewFetchStage(imem *emu.Memory) *FetchStage {
	return &FetchStage{imem: imem}
}

// Fetch reads the instruction word at pc.
func (s *FetchStage) Fetch(pc uint32) (uint32, error) {
	return s.imem.ReadWord(pc)
}

// DecodeResult holds the decoded instruction, its raw register file reads,
// and the control signals derived from its format. Operand forwarding
// happens after decode, so Rs1Value and Rs2Value here are the unforwarded
// register file contents.
type DecodeResult struct {
	Inst *insts.Instruction

	Rs1      uint8
	Rs2      uint8
	Rs1Value uint32
	Rs2Value uint32
	UsesRs1  bool
	UsesRs2  bool

	Rd       uint8
	RegWrite bool
	MemRead  bool
	MemWrite bool
	IsBranch bool
	IsHalt   bool
}

// DecodeStage decodes instruction words and reads the register file.
type DecodeStage struct {
	decoder *insts.Decoder
	regFile *emu.RegFile
}

// NewDecodeStage creates a decode stage reading from regFile.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{
		decoder: insts.NewDecoder(),
		regFile: regFile,
	}
}

// Decode decodes word and derives the control signals for the rest of the
// pipeline.
func (s *DecodeStage) Decode(word uint32) DecodeResult {
	inst := s.decoder.Decode(word)
	result := DecodeResult{
		Inst:    inst,
		Rs1:     inst.Rs1,
		Rs2:     inst.Rs2,
		Rd:      inst.Rd,
		UsesRs1: inst.UsesRs1(),
		UsesRs2: inst.UsesRs2(),
	}

	if result.UsesRs1 {
		result.Rs1Value = s.regFile.ReadReg(inst.Rs1)
	}
	if result.UsesRs2 {
		result.Rs2Value = s.regFile.ReadReg(inst.Rs2)
	}

	switch inst.Format {
	case insts.FormatR:
		result.RegWrite = inst.Rd != 0
	case insts.FormatI:
		result.RegWrite = inst.Rd != 0
		result.MemRead = inst.Op == insts.OpLW
		result.IsBranch = inst.Op == insts.OpJALR
	case insts.FormatS:
		result.MemWrite = true
	case insts.FormatB:
		result.IsBranch = true
	case insts.FormatU:
		result.RegWrite = inst.Rd != 0
	case insts.FormatJ:
		result.RegWrite = inst.Rd != 0
		result.IsBranch = true
	case insts.FormatSystem:
		result.IsHalt = true
	}

	return result
}

// ExecuteResult holds the value produced by the execute stage.
type ExecuteResult struct {
	Value uint32
}

// ExecuteStage computes results from resolved operands. For loads and
// stores the result is the effective address; for jumps it is the link
// value.
type ExecuteStage struct {
	alu  *emu.ALU
	mult *emu.Multiplier
}

// NewExecuteStage creates an execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{
		alu:  emu.NewALU(),
		mult: emu.NewMultiplier(),
	}
}

// Execute computes the result for the instruction in idex.
func (s *ExecuteStage) Execute(idex *IDEXRegister) ExecuteResult {
	inst := idex.Inst
	switch inst.Op {
	case insts.OpMUL, insts.OpMULH, insts.OpMULHSU, insts.OpMULHU:
		return ExecuteResult{Value: s.mult.Multiply(inst.Op, idex.Rs1Value, idex.Rs2Value)}
	case insts.OpLW, insts.OpSW:
		return ExecuteResult{Value: idex.Rs1Value + uint32(inst.Imm)}
	case insts.OpLUI:
		return ExecuteResult{Value: uint32(inst.Imm)}
	case insts.OpAUIPC:
		return ExecuteResult{Value: idex.PC + uint32(inst.Imm)}
	case insts.OpJAL, insts.OpJALR:
		return ExecuteResult{Value: idex.PC + insts.InstructionWidth}
	case insts.OpBEQ, insts.OpBNE, insts.OpECALL, insts.OpEBREAK:
		return ExecuteResult{}
	}
	if inst.Format == insts.FormatI {
		return ExecuteResult{Value: s.alu.Execute(inst.Op, idex.Rs1Value, uint32(inst.Imm))}
	}
	return ExecuteResult{Value: s.alu.Execute(inst.Op, idex.Rs1Value, idex.Rs2Value)}
}

// MemoryResult holds the data read by a load.
type MemoryResult struct {
	Data uint32
}

// MemoryStage performs at most one data memory access per cycle.
type MemoryStage struct {
	dmem *emu.Memory
}

// NewMemoryStage creates a memory stage backed by dmem.
func NewMemoryStage(dmem *emu.Memory) *MemoryStage {
	return &MemoryStage{dmem: dmem}
}

// Access performs the load or store for the instruction in exmem. Loads
// return the data read; non-memory instructions do nothing.
func (s *MemoryStage) Access(exmem *EXMEMRegister) (MemoryResult, error) {
	switch {
	case exmem.MemRead:
		data, err := s.dmem.ReadWord(exmem.ALUResult)
		if err != nil {
			return MemoryResult{}, err
		}
		return MemoryResult{Data: data}, nil
	case exmem.MemWrite:
		if err := s.dmem.WriteWord(exmem.ALUResult, exmem.StoreValue); err != nil {
			return MemoryResult{}, err
		}
	}
	return MemoryResult{}, nil
}

// WritebackStage is the only place the register file is written.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a writeback stage committing to regFile.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{regFile: regFile}
}

// Writeback commits the instruction's result and returns the committed
// value. Loads commit the memory data, everything else the execute result.
// Writes to x0 are dropped by the register file.
func (s *WritebackStage) Writeback(exmem *EXMEMRegister, mem MemoryResult) uint32 {
	value := exmem.ALUResult
	if exmem.MemRead {
		value = mem.Data
	}
	if exmem.RegWrite {
		s.regFile.WriteReg(exmem.Rd, value)
	}
	return value
}
