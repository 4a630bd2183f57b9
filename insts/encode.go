package insts

// Instruction word assembly. The format-level encoders place each field at
// its architectural bit position; the mnemonic helpers below them are used by
// tests and benchmark kernels to build programs without an external assembler.

// EncodeRType assembles an R-type word: funct7 | rs2 | rs1 | funct3 | rd | opcode.
func EncodeRType(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return opcode&0x7F |
		(rd&0x1F)<<7 |
		(funct3&0x7)<<12 |
		(rs1&0x1F)<<15 |
		(rs2&0x1F)<<20 |
		(funct7&0x7F)<<25
}

// EncodeIType assembles an I-type word: imm[11:0] | rs1 | funct3 | rd | opcode.
func EncodeIType(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return opcode&0x7F |
		(rd&0x1F)<<7 |
		(funct3&0x7)<<12 |
		(rs1&0x1F)<<15 |
		(uint32(imm)&0xFFF)<<20
}

// EncodeSType assembles an S-type word: imm[11:5] | rs2 | rs1 | funct3 | imm[4:0] | opcode.
func EncodeSType(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return opcode&0x7F |
		(u&0x1F)<<7 |
		(funct3&0x7)<<12 |
		(rs1&0x1F)<<15 |
		(rs2&0x1F)<<20 |
		((u>>5)&0x7F)<<25
}

// EncodeBType assembles a B-type word with the branch immediate scattered as
// imm[12] | imm[10:5] | rs2 | rs1 | funct3 | imm[4:1] | imm[11] | opcode.
// The offset must be even.
func EncodeBType(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return opcode&0x7F |
		((u>>11)&0x1)<<7 |
		((u>>1)&0xF)<<8 |
		(funct3&0x7)<<12 |
		(rs1&0x1F)<<15 |
		(rs2&0x1F)<<20 |
		((u>>5)&0x3F)<<25 |
		((u>>12)&0x1)<<31
}

// EncodeUType assembles a U-type word: imm[31:12] | rd | opcode. The imm20
// argument is the upper-immediate field, not a pre-shifted value.
func EncodeUType(opcode, rd, imm20 uint32) uint32 {
	return opcode&0x7F |
		(rd&0x1F)<<7 |
		(imm20&0xFFFFF)<<12
}

// EncodeJType assembles a J-type word with the jump immediate scattered as
// imm[20] | imm[10:1] | imm[11] | imm[19:12] | rd | opcode.
// The offset must be even.
func EncodeJType(opcode, rd uint32, imm int32) uint32 {
	u := uint32(imm)
	return opcode&0x7F |
		(rd&0x1F)<<7 |
		((u>>12)&0xFF)<<12 |
		((u>>11)&0x1)<<20 |
		((u>>1)&0x3FF)<<21 |
		((u>>20)&0x1)<<31
}

// Mnemonic helpers. Register operands are register numbers (0..31);
// immediates are signed byte offsets or values as in assembly syntax.

// ADD assembles add rd, rs1, rs2.
func ADD(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x0, rs1, rs2, 0x00) }

// SUB assembles sub rd, rs1, rs2.
func SUB(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x0, rs1, rs2, 0x20) }

// SLL assembles sll rd, rs1, rs2.
func SLL(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x1, rs1, rs2, 0x00) }

// SLT assembles slt rd, rs1, rs2.
func SLT(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x2, rs1, rs2, 0x00) }

// SLTU assembles sltu rd, rs1, rs2.
func SLTU(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x3, rs1, rs2, 0x00) }

// XOR assembles xor rd, rs1, rs2.
func XOR(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x4, rs1, rs2, 0x00) }

// SRL assembles srl rd, rs1, rs2.
func SRL(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x5, rs1, rs2, 0x00) }

// SRA assembles sra rd, rs1, rs2.
func SRA(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x5, rs1, rs2, 0x20) }

// OR assembles or rd, rs1, rs2.
func OR(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x6, rs1, rs2, 0x00) }

// AND assembles and rd, rs1, rs2.
func AND(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x7, rs1, rs2, 0x00) }

// MUL assembles mul rd, rs1, rs2.
func MUL(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x0, rs1, rs2, 0x01) }

// MULH assembles mulh rd, rs1, rs2.
func MULH(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x1, rs1, rs2, 0x01) }

// MULHSU assembles mulhsu rd, rs1, rs2.
func MULHSU(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x2, rs1, rs2, 0x01) }

// MULHU assembles mulhu rd, rs1, rs2.
func MULHU(rd, rs1, rs2 uint32) uint32 { return EncodeRType(opcodeOp, rd, 0x3, rs1, rs2, 0x01) }

// ADDI assembles addi rd, rs1, imm.
func ADDI(rd, rs1 uint32, imm int32) uint32 { return EncodeIType(opcodeOpImm, rd, 0x0, rs1, imm) }

// SLTI assembles slti rd, rs1, imm.
func SLTI(rd, rs1 uint32, imm int32) uint32 { return EncodeIType(opcodeOpImm, rd, 0x2, rs1, imm) }

// SLTIU assembles sltiu rd, rs1, imm.
func SLTIU(rd, rs1 uint32, imm int32) uint32 { return EncodeIType(opcodeOpImm, rd, 0x3, rs1, imm) }

// XORI assembles xori rd, rs1, imm.
func XORI(rd, rs1 uint32, imm int32) uint32 { return EncodeIType(opcodeOpImm, rd, 0x4, rs1, imm) }

// ORI assembles ori rd, rs1, imm.
func ORI(rd, rs1 uint32, imm int32) uint32 { return EncodeIType(opcodeOpImm, rd, 0x6, rs1, imm) }

// ANDI assembles andi rd, rs1, imm.
func ANDI(rd, rs1 uint32, imm int32) uint32 { return EncodeIType(opcodeOpImm, rd, 0x7, rs1, imm) }

// SLLI assembles slli rd, rs1, shamt.
func SLLI(rd, rs1, shamt uint32) uint32 {
	return EncodeIType(opcodeOpImm, rd, 0x1, rs1, int32(shamt&0x1F))
}

// SRLI assembles srli rd, rs1, shamt.
func SRLI(rd, rs1, shamt uint32) uint32 {
	return EncodeIType(opcodeOpImm, rd, 0x5, rs1, int32(shamt&0x1F))
}

// SRAI assembles srai rd, rs1, shamt. The SRA selector lives in the funct7
// slot of the immediate field.
func SRAI(rd, rs1, shamt uint32) uint32 {
	return EncodeIType(opcodeOpImm, rd, 0x5, rs1, int32(shamt&0x1F)|0x400)
}

// LW assembles lw rd, offset(rs1).
func LW(rd, rs1 uint32, offset int32) uint32 { return EncodeIType(opcodeLoad, rd, 0x2, rs1, offset) }

// SW assembles sw rs2, offset(rs1).
func SW(rs2, rs1 uint32, offset int32) uint32 {
	return EncodeSType(opcodeStore, 0x2, rs1, rs2, offset)
}

// BEQ assembles beq rs1, rs2, offset.
func BEQ(rs1, rs2 uint32, offset int32) uint32 {
	return EncodeBType(opcodeBranch, 0x0, rs1, rs2, offset)
}

// BNE assembles bne rs1, rs2, offset.
func BNE(rs1, rs2 uint32, offset int32) uint32 {
	return EncodeBType(opcodeBranch, 0x1, rs1, rs2, offset)
}

// JAL assembles jal rd, offset.
func JAL(rd uint32, offset int32) uint32 { return EncodeJType(opcodeJAL, rd, offset) }

// JALR assembles jalr rd, offset(rs1).
func JALR(rd, rs1 uint32, offset int32) uint32 {
	return EncodeIType(opcodeJALR, rd, 0x0, rs1, offset)
}

// LUI assembles lui rd, imm20.
func LUI(rd, imm20 uint32) uint32 { return EncodeUType(opcodeLUI, rd, imm20) }

// AUIPC assembles auipc rd, imm20.
func AUIPC(rd, imm20 uint32) uint32 { return EncodeUType(opcodeAUIPC, rd, imm20) }

// ECALL assembles the environment-call instruction.
func ECALL() uint32 { return 0x00000073 }

// EBREAK assembles the breakpoint instruction, used as the halt instruction.
func EBREAK() uint32 { return 0x00100073 }
