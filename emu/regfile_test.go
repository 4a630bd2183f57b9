package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r3sim/emu"
)

var _ = Describe("RegFile", func() {
	var regFile *emu.RegFile

	BeforeEach(func() {
		regFile = &emu.RegFile{}
	})

	It("should store and load general-purpose registers", func() {
		regFile.WriteReg(1, 42)
		regFile.WriteReg(31, 0xDEADBEEF)

		Expect(regFile.ReadReg(1)).To(Equal(uint32(42)))
		Expect(regFile.ReadReg(31)).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should discard writes to x0", func() {
		regFile.WriteReg(0, 123)

		Expect(regFile.ReadReg(0)).To(Equal(uint32(0)))
		Expect(regFile.X[0]).To(Equal(uint32(0)))
	})

	It("should read zero for out-of-range register numbers", func() {
		Expect(regFile.ReadReg(32)).To(Equal(uint32(0)))
		Expect(regFile.ReadReg(255)).To(Equal(uint32(0)))
	})

	It("should clear all state on reset", func() {
		regFile.WriteReg(5, 99)
		regFile.PC = 0x100

		regFile.Reset()

		Expect(regFile.ReadReg(5)).To(Equal(uint32(0)))
		Expect(regFile.PC).To(Equal(uint32(0)))
	})
})
