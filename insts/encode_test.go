package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r3sim/insts"
)

var _ = Describe("Encoders", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	It("should assemble known instruction words", func() {
		Expect(insts.ADDI(1, 0, 5)).To(Equal(uint32(0x00500093)))
		Expect(insts.ADDI(1, 1, -1)).To(Equal(uint32(0xFFF08093)))
		Expect(insts.ADD(3, 1, 2)).To(Equal(uint32(0x002081B3)))
		Expect(insts.MUL(3, 1, 2)).To(Equal(uint32(0x022081B3)))
		Expect(insts.LW(5, 2, 8)).To(Equal(uint32(0x00812283)))
		Expect(insts.SW(5, 2, 12)).To(Equal(uint32(0x00512623)))
		Expect(insts.BEQ(1, 0, 16)).To(Equal(uint32(0x00008863)))
		Expect(insts.BNE(1, 2, -8)).To(Equal(uint32(0xFE209CE3)))
		Expect(insts.JAL(0, -12)).To(Equal(uint32(0xFF5FF06F)))
		Expect(insts.JALR(0, 1, 0)).To(Equal(uint32(0x00008067)))
		Expect(insts.LUI(5, 0x12345)).To(Equal(uint32(0x123452B7)))
		Expect(insts.EBREAK()).To(Equal(uint32(0x00100073)))
	})

	It("should scatter branch immediates at the range edges", func() {
		for _, offset := range []int32{-4096, -2, 2, 4094} {
			inst := decoder.Decode(insts.BEQ(7, 9, offset))

			Expect(inst.Op).To(Equal(insts.OpBEQ))
			Expect(inst.Rs1).To(Equal(uint8(7)))
			Expect(inst.Rs2).To(Equal(uint8(9)))
			Expect(inst.Imm).To(Equal(offset))
		}
	})

	It("should scatter jump immediates at the range edges", func() {
		for _, offset := range []int32{-1048576, -2, 2, 1048574} {
			inst := decoder.Decode(insts.JAL(31, offset))

			Expect(inst.Op).To(Equal(insts.OpJAL))
			Expect(inst.Rd).To(Equal(uint8(31)))
			Expect(inst.Imm).To(Equal(offset))
		}
	})

	It("should place store immediates across both fields", func() {
		for _, offset := range []int32{-2048, -1, 0, 1, 2047} {
			inst := decoder.Decode(insts.SW(10, 11, offset))

			Expect(inst.Op).To(Equal(insts.OpSW))
			Expect(inst.Rs1).To(Equal(uint8(11)))
			Expect(inst.Rs2).To(Equal(uint8(10)))
			Expect(inst.Imm).To(Equal(offset))
		}
	})

	It("should keep the shift selector out of the shamt", func() {
		srai := decoder.Decode(insts.SRAI(4, 5, 31))
		Expect(srai.Op).To(Equal(insts.OpSRAI))
		Expect(srai.Imm).To(Equal(int32(31)))

		srli := decoder.Decode(insts.SRLI(4, 5, 31))
		Expect(srli.Op).To(Equal(insts.OpSRLI))
		Expect(srli.Imm).To(Equal(int32(31)))
	})
})
