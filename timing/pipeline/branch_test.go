package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r3sim/insts"
	"github.com/sarchlab/r3sim/timing/pipeline"
)

var _ = Describe("BranchUnit", func() {
	var (
		unit    *pipeline.BranchUnit
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		unit = pipeline.NewBranchUnit()
		decoder = insts.NewDecoder()
	})

	It("should take BEQ on equal operands", func() {
		inst := decoder.Decode(insts.BEQ(1, 2, 16))

		result := unit.Resolve(inst, 5, 5, 0x100)

		Expect(result.Taken).To(BeTrue())
		Expect(result.Target).To(Equal(uint32(0x110)))
	})

	It("should not take BEQ on unequal operands", func() {
		inst := decoder.Decode(insts.BEQ(1, 2, 16))

		result := unit.Resolve(inst, 5, 6, 0x100)

		Expect(result.Taken).To(BeFalse())
	})

	It("should take BNE on unequal operands", func() {
		inst := decoder.Decode(insts.BNE(1, 2, -8))

		result := unit.Resolve(inst, 5, 6, 0x100)

		Expect(result.Taken).To(BeTrue())
		Expect(result.Target).To(Equal(uint32(0xF8)))
	})

	It("should always take JAL", func() {
		inst := decoder.Decode(insts.JAL(1, 0x40))

		result := unit.Resolve(inst, 0, 0, 0x200)

		Expect(result.Taken).To(BeTrue())
		Expect(result.Target).To(Equal(uint32(0x240)))
	})

	It("should take JALR to the forwarded base with the low bit cleared", func() {
		inst := decoder.Decode(insts.JALR(1, 5, 3))

		result := unit.Resolve(inst, 0x300, 0, 0x10)

		Expect(result.Taken).To(BeTrue())
		Expect(result.Target).To(Equal(uint32(0x302)))
	})

	It("should resolve non-branches as not taken", func() {
		inst := decoder.Decode(insts.ADD(1, 2, 3))

		result := unit.Resolve(inst, 4, 5, 0)

		Expect(result.Taken).To(BeFalse())
	})
})
