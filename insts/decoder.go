package insts

// Op represents an RV32 opcode.
type Op uint16

// RV32IM opcodes.
const (
	OpUnknown Op = iota
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpLUI
	OpAUIPC
	OpLW
	OpSW
	OpBEQ
	OpBNE
	OpJAL
	OpJALR
	OpECALL
	OpEBREAK
)

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // Register-register (opcode 0x33)
	FormatI              // Register-immediate, loads, JALR (opcodes 0x13, 0x03, 0x67)
	FormatS              // Stores (opcode 0x23)
	FormatB              // Conditional branches (opcode 0x63)
	FormatU              // LUI, AUIPC (opcodes 0x37, 0x17)
	FormatJ              // JAL (opcode 0x6F)
	FormatSystem         // ECALL, EBREAK (opcode 0x73)
)

// Base opcode values (bits [6:0] of the instruction word).
const (
	opcodeLoad   = 0x03
	opcodeOpImm  = 0x13
	opcodeAUIPC  = 0x17
	opcodeStore  = 0x23
	opcodeOp     = 0x33
	opcodeLUI    = 0x37
	opcodeBranch = 0x63
	opcodeJALR   = 0x67
	opcodeJAL    = 0x6F
	opcodeSystem = 0x73
)

// Instruction represents a decoded RV32 instruction.
type Instruction struct {
	Word   uint32 // Raw instruction word
	Op     Op     // Operation code
	Format Format // Encoding format

	Rd  uint8 // Destination register
	Rs1 uint8 // First source register
	Rs2 uint8 // Second source register

	Imm int32 // Sign-extended immediate value
}

// UsesRs1 reports whether the instruction reads its first source register.
func (i *Instruction) UsesRs1() bool {
	switch i.Format {
	case FormatR, FormatI, FormatS, FormatB:
		return true
	}
	return false
}

// UsesRs2 reports whether the instruction reads its second source register.
func (i *Instruction) UsesRs2() bool {
	switch i.Format {
	case FormatR, FormatS, FormatB:
		return true
	}
	return false
}

// Decoder decodes RV32 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new RV32 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a 32-bit RV32 instruction word. Unrecognized opcode or
// function-selector combinations produce an instruction with Op == OpUnknown.
func (d *Decoder) Decode(word uint32) *Instruction {
	inst := &Instruction{Word: word, Op: OpUnknown, Format: FormatUnknown}

	// RV32 uses a fixed 7-bit base opcode in bits [6:0]
	opcode := word & 0x7F

	switch opcode {
	case opcodeOp:
		d.decodeOp(word, inst)
	case opcodeOpImm:
		d.decodeOpImm(word, inst)
	case opcodeLoad:
		d.decodeLoad(word, inst)
	case opcodeStore:
		d.decodeStore(word, inst)
	case opcodeBranch:
		d.decodeBranch(word, inst)
	case opcodeJAL:
		d.decodeJAL(word, inst)
	case opcodeJALR:
		d.decodeJALR(word, inst)
	case opcodeLUI:
		inst.Format = FormatU
		inst.Op = OpLUI
		inst.Rd = rdField(word)
		inst.Imm = immU(word)
	case opcodeAUIPC:
		inst.Format = FormatU
		inst.Op = OpAUIPC
		inst.Rd = rdField(word)
		inst.Imm = immU(word)
	case opcodeSystem:
		d.decodeSystem(word, inst)
	}

	return inst
}

// Register and function-selector field extraction.

func rdField(word uint32) uint8 {
	return uint8((word >> 7) & 0x1F) // bits [11:7]
}

func rs1Field(word uint32) uint8 {
	return uint8((word >> 15) & 0x1F) // bits [19:15]
}

func rs2Field(word uint32) uint8 {
	return uint8((word >> 20) & 0x1F) // bits [24:20]
}

func funct3Field(word uint32) uint32 {
	return (word >> 12) & 0x7 // bits [14:12]
}

func funct7Field(word uint32) uint32 {
	return (word >> 25) & 0x7F // bits [31:25]
}

// Immediate extraction. Each format scatters the immediate differently; all
// immediates are sign-extended to 32 bits.

// immI extracts the I-type immediate: imm[11:0] = bits [31:20].
func immI(word uint32) int32 {
	return int32(word) >> 20
}

// immS extracts the S-type immediate: imm[11:5] = bits [31:25], imm[4:0] = bits [11:7].
func immS(word uint32) int32 {
	return (int32(word)>>25)<<5 | int32((word>>7)&0x1F)
}

// immB extracts the B-type immediate:
// imm[12] = bit 31, imm[11] = bit 7, imm[10:5] = bits [30:25], imm[4:1] = bits [11:8].
// Bit 0 is always zero.
func immB(word uint32) int32 {
	return (int32(word)>>31)<<12 |
		int32((word>>7)&0x1)<<11 |
		int32((word>>25)&0x3F)<<5 |
		int32((word>>8)&0xF)<<1
}

// immU extracts the U-type immediate: imm[31:12] = bits [31:12], low 12 bits zero.
func immU(word uint32) int32 {
	return int32(word & 0xFFFFF000)
}

// immJ extracts the J-type immediate:
// imm[20] = bit 31, imm[19:12] = bits [19:12], imm[11] = bit 20, imm[10:1] = bits [30:21].
// Bit 0 is always zero.
func immJ(word uint32) int32 {
	return (int32(word)>>31)<<20 |
		int32((word>>12)&0xFF)<<12 |
		int32((word>>20)&0x1)<<11 |
		int32((word>>21)&0x3FF)<<1
}

// decodeOp decodes register-register instructions (opcode 0x33).
// Format: funct7 | rs2 | rs1 | funct3 | rd | 0110011
func (d *Decoder) decodeOp(word uint32, inst *Instruction) {
	inst.Format = FormatR
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)

	funct3 := funct3Field(word)
	funct7 := funct7Field(word)

	switch funct7 {
	case 0x00:
		switch funct3 {
		case 0x0:
			inst.Op = OpADD
		case 0x1:
			inst.Op = OpSLL
		case 0x2:
			inst.Op = OpSLT
		case 0x3:
			inst.Op = OpSLTU
		case 0x4:
			inst.Op = OpXOR
		case 0x5:
			inst.Op = OpSRL
		case 0x6:
			inst.Op = OpOR
		case 0x7:
			inst.Op = OpAND
		}
	case 0x20:
		switch funct3 {
		case 0x0:
			inst.Op = OpSUB
		case 0x5:
			inst.Op = OpSRA
		}
	case 0x01:
		// M extension. Only the multiply group is implemented; the divide
		// group (funct3 4..7) stays OpUnknown.
		switch funct3 {
		case 0x0:
			inst.Op = OpMUL
		case 0x1:
			inst.Op = OpMULH
		case 0x2:
			inst.Op = OpMULHSU
		case 0x3:
			inst.Op = OpMULHU
		}
	}
}

// decodeOpImm decodes register-immediate instructions (opcode 0x13).
// Format: imm[11:0] | rs1 | funct3 | rd | 0010011
// Shift forms reuse the funct7 slot: imm[11:5] selects SRLI (0x00) vs SRAI (0x20).
func (d *Decoder) decodeOpImm(word uint32, inst *Instruction) {
	inst.Format = FormatI
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)

	funct3 := funct3Field(word)
	funct7 := funct7Field(word)

	switch funct3 {
	case 0x0:
		inst.Op = OpADDI
		inst.Imm = immI(word)
	case 0x2:
		inst.Op = OpSLTI
		inst.Imm = immI(word)
	case 0x3:
		inst.Op = OpSLTIU
		inst.Imm = immI(word)
	case 0x4:
		inst.Op = OpXORI
		inst.Imm = immI(word)
	case 0x6:
		inst.Op = OpORI
		inst.Imm = immI(word)
	case 0x7:
		inst.Op = OpANDI
		inst.Imm = immI(word)
	case 0x1:
		if funct7 == 0x00 {
			inst.Op = OpSLLI
			inst.Imm = int32((word >> 20) & 0x1F) // shamt = bits [24:20]
		}
	case 0x5:
		switch funct7 {
		case 0x00:
			inst.Op = OpSRLI
			inst.Imm = int32((word >> 20) & 0x1F)
		case 0x20:
			inst.Op = OpSRAI
			inst.Imm = int32((word >> 20) & 0x1F)
		}
	}
}

// decodeLoad decodes load instructions (opcode 0x03).
// The data memory is word-addressable, so only LW (funct3 010) is recognized.
func (d *Decoder) decodeLoad(word uint32, inst *Instruction) {
	if funct3Field(word) != 0x2 {
		return
	}
	inst.Format = FormatI
	inst.Op = OpLW
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Imm = immI(word)
}

// decodeStore decodes store instructions (opcode 0x23). Only SW (funct3 010)
// is recognized.
func (d *Decoder) decodeStore(word uint32, inst *Instruction) {
	if funct3Field(word) != 0x2 {
		return
	}
	inst.Format = FormatS
	inst.Op = OpSW
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)
	inst.Imm = immS(word)
}

// decodeBranch decodes conditional branches (opcode 0x63). The branch unit
// evaluates an equality predicate, so only BEQ (funct3 000) and BNE (funct3
// 001) are recognized.
func (d *Decoder) decodeBranch(word uint32, inst *Instruction) {
	funct3 := funct3Field(word)
	if funct3 > 0x1 {
		return
	}
	inst.Format = FormatB
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)
	inst.Imm = immB(word)

	if funct3 == 0x0 {
		inst.Op = OpBEQ
	} else {
		inst.Op = OpBNE
	}
}

// decodeJAL decodes the jump-and-link instruction (opcode 0x6F).
// Format: imm[20|10:1|11|19:12] | rd | 1101111
func (d *Decoder) decodeJAL(word uint32, inst *Instruction) {
	inst.Format = FormatJ
	inst.Op = OpJAL
	inst.Rd = rdField(word)
	inst.Imm = immJ(word)
}

// decodeJALR decodes the register-indirect jump-and-link (opcode 0x67,
// funct3 000).
func (d *Decoder) decodeJALR(word uint32, inst *Instruction) {
	if funct3Field(word) != 0x0 {
		return
	}
	inst.Format = FormatI
	inst.Op = OpJALR
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Imm = immI(word)
}

// decodeSystem decodes ECALL and EBREAK (opcode 0x73). All other system
// encodings stay OpUnknown.
func (d *Decoder) decodeSystem(word uint32, inst *Instruction) {
	switch word {
	case 0x00000073:
		inst.Format = FormatSystem
		inst.Op = OpECALL
	case 0x00100073:
		inst.Format = FormatSystem
		inst.Op = OpEBREAK
	}
}
