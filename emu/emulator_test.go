package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/insts"
)

func writeProgram(mem *emu.Memory, base uint32, words ...uint32) {
	GinkgoHelper()
	for i, w := range words {
		Expect(mem.WriteWord(base+uint32(i)*insts.InstructionWidth, w)).To(Succeed())
	}
}

var _ = Describe("Emulator", func() {
	var (
		regFile  *emu.RegFile
		imem     *emu.Memory
		dmem     *emu.Memory
		emulator *emu.Emulator
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		imem = emu.NewMemory(4096)
		dmem = emu.NewMemory(4096)
		emulator = emu.NewEmulator(regFile, imem, dmem)
	})

	It("should execute straight-line arithmetic", func() {
		writeProgram(imem, 0,
			insts.ADDI(1, 0, 21), // addi x1, x0, 21
			insts.ADD(2, 1, 1),   // add  x2, x1, x1
			insts.SUB(3, 2, 1),   // sub  x3, x2, x1
			insts.EBREAK(),
		)

		Expect(emulator.Run(0)).To(Succeed())

		Expect(regFile.ReadReg(1)).To(Equal(uint32(21)))
		Expect(regFile.ReadReg(2)).To(Equal(uint32(42)))
		Expect(regFile.ReadReg(3)).To(Equal(uint32(21)))
		Expect(emulator.InstCount()).To(Equal(uint64(4)))
	})

	It("should run loads and stores against data memory", func() {
		Expect(dmem.WriteWord(0x100, 77)).To(Succeed())
		writeProgram(imem, 0,
			insts.ADDI(2, 0, 0x100), // addi x2, x0, 0x100
			insts.LW(1, 2, 0),       // lw   x1, 0(x2)
			insts.ADDI(1, 1, 1),     // addi x1, x1, 1
			insts.SW(1, 2, 4),       // sw   x1, 4(x2)
			insts.EBREAK(),
		)

		Expect(emulator.Run(0)).To(Succeed())

		Expect(regFile.ReadReg(1)).To(Equal(uint32(78)))
		Expect(dmem.ReadWord(0x104)).To(Equal(uint32(78)))
	})

	It("should link and return through jal and jalr", func() {
		writeProgram(imem, 0,
			insts.ADDI(10, 0, 1), // 0x00: addi x10, x0, 1
			insts.JAL(1, 12),     // 0x04: jal  x1, 0x10
			insts.ADDI(10, 10, 2), // 0x08: addi x10, x10, 2 (after return)
			insts.EBREAK(),        // 0x0C
			insts.ADDI(10, 10, 4), // 0x10: addi x10, x10, 4 (subroutine)
			insts.JALR(0, 1, 0),   // 0x14: jalr x0, 0(x1)
		)

		Expect(emulator.Run(0)).To(Succeed())

		Expect(regFile.ReadReg(1)).To(Equal(uint32(0x08)))
		Expect(regFile.ReadReg(10)).To(Equal(uint32(7)))
	})

	It("should clear bit zero of jalr targets", func() {
		writeProgram(imem, 0,
			insts.ADDI(1, 0, 0x0D), // addi x1, x0, 13
			insts.JALR(0, 1, 0),    // jalr x0, 0(x1) -> 0x0C
		)
		writeProgram(imem, 0x0C, insts.EBREAK())

		Expect(emulator.Run(0)).To(Succeed())
		Expect(regFile.PC).To(Equal(uint32(0x0C)))
	})

	It("should build constants with lui and auipc", func() {
		writeProgram(imem, 0,
			insts.LUI(1, 0x12345),   // lui   x1, 0x12345
			insts.AUIPC(2, 0x1),     // auipc x2, 0x1 (PC = 4)
			insts.EBREAK(),
		)

		Expect(emulator.Run(0)).To(Succeed())

		Expect(regFile.ReadReg(1)).To(Equal(uint32(0x12345000)))
		Expect(regFile.ReadReg(2)).To(Equal(uint32(0x1004)))
	})

	It("should sum five down to one through the loop kernel", func() {
		writeProgram(imem, 0,
			insts.ADDI(1, 0, 5),  // 0x00: addi x1, x0, 5
			insts.ADDI(2, 0, 0),  // 0x04: addi x2, x0, 0
			insts.BEQ(1, 0, 16),  // 0x08: beq  x1, x0, 0x18
			insts.ADD(2, 2, 1),   // 0x0C: add  x2, x2, x1
			insts.ADDI(1, 1, -1), // 0x10: addi x1, x1, -1
			insts.BEQ(0, 0, -12), // 0x14: beq  x0, x0, 0x08
			insts.EBREAK(),       // 0x18
		)

		Expect(emulator.Run(0)).To(Succeed())

		Expect(regFile.ReadReg(2)).To(Equal(uint32(15)))
		Expect(regFile.ReadReg(1)).To(Equal(uint32(0)))
		Expect(emulator.InstCount()).To(Equal(uint64(24)))
		Expect(regFile.PC).To(Equal(uint32(0x18)))
	})

	It("should report the ecall exit code from x10", func() {
		writeProgram(imem, 0,
			insts.ADDI(10, 0, 7), // addi x10, x0, 7
			insts.ECALL(),
		)

		Expect(emulator.Run(0)).To(Succeed())

		Expect(emulator.Halted()).To(BeTrue())
		Expect(emulator.ExitCode()).To(Equal(7))
	})

	It("should never alter x0", func() {
		writeProgram(imem, 0,
			insts.ADDI(0, 0, 5), // addi x0, x0, 5
			insts.LUI(0, 0xFFF), // lui  x0, 0xFFF
			insts.EBREAK(),
		)

		Expect(emulator.Run(0)).To(Succeed())
		Expect(regFile.ReadReg(0)).To(Equal(uint32(0)))
	})

	It("should fail on an invalid opcode", func() {
		writeProgram(imem, 0, uint32(0xFFFFFFFF))

		err := emulator.Run(0)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("invalid opcode"))
	})

	It("should fail on an out-of-range fetch", func() {
		writeProgram(imem, 0, insts.JAL(0, 0x2000)) // jump past the extent

		err := emulator.Run(0)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("instruction fetch"))
	})

	It("should fail on an out-of-range load", func() {
		writeProgram(imem, 0,
			insts.LUI(2, 0x10),  // lui x2, 0x10 -> x2 = 0x10000
			insts.LW(1, 2, 0),   // lw  x1, 0(x2)
		)

		err := emulator.Run(0)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("load at PC"))
	})

	It("should stop at the instruction limit", func() {
		writeProgram(imem, 0, insts.JAL(0, 0)) // jal x0, 0: spin forever

		err := emulator.Run(100)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("instruction limit"))
	})
})
