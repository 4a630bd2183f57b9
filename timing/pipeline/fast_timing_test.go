package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/insts"
	"github.com/sarchlab/r3sim/timing/pipeline"
)

var _ = Describe("FastTiming", func() {
	// Runs the program on both models from identical fresh state and
	// checks that the fast estimate matches the pipeline exactly.
	expectAgreement := func(dataInit func(*emu.Memory), words ...uint32) {
		GinkgoHelper()

		pipeRegs := &emu.RegFile{}
		pipeIMem := emu.NewMemory(4096)
		pipeDMem := emu.NewMemory(4096)
		writeProgram(pipeIMem, 0, words...)
		if dataInit != nil {
			dataInit(pipeDMem)
		}
		pipe := pipeline.NewPipeline(pipeRegs, pipeIMem, pipeDMem)
		Expect(pipe.Run(0)).To(Succeed())

		fastRegs := &emu.RegFile{}
		fastIMem := emu.NewMemory(4096)
		fastDMem := emu.NewMemory(4096)
		writeProgram(fastIMem, 0, words...)
		if dataInit != nil {
			dataInit(fastDMem)
		}
		fast := pipeline.NewFastTiming(fastRegs, fastIMem, fastDMem, nil)
		Expect(fast.Run()).To(Succeed())

		pipeStats := pipe.Stats()
		fastStats := fast.Stats()
		Expect(fastStats.Cycles).To(Equal(pipeStats.Cycles))
		Expect(fastStats.Instructions).To(Equal(pipeStats.Instructions))
		Expect(fastStats.LoadUseStalls).To(Equal(pipeStats.LoadUseStalls))
		Expect(fastStats.ComputeStalls).To(Equal(pipeStats.ComputeStalls))
		Expect(fast.ExitCode()).To(Equal(pipe.ExitCode()))
		Expect(fastRegs.X).To(Equal(pipeRegs.X))
	}

	It("should match the pipeline on straight-line code", func() {
		expectAgreement(nil,
			insts.ADDI(1, 0, 10), // addi x1, x0, 10
			insts.ADDI(2, 0, 20), // addi x2, x0, 20
			insts.ADD(3, 1, 2),   // add  x3, x1, x2
			insts.EBREAK(),
		)
	})

	It("should match the pipeline on load-use stalls", func() {
		expectAgreement(func(dmem *emu.Memory) {
			Expect(dmem.WriteWord(0x100, 21)).To(Succeed())
		},
			insts.ADDI(2, 0, 0x100), // addi x2, x0, 0x100
			insts.LW(1, 2, 0),       // lw   x1, 0(x2)
			insts.ADD(3, 1, 1),      // add  x3, x1, x1
			insts.LW(4, 2, 0),       // lw   x4, 0(x2)
			insts.ADDI(5, 0, 1),     // addi x5, x0, 1
			insts.ADD(6, 4, 4),      // add  x6, x4, x4
			insts.EBREAK(),
		)
	})

	It("should match the pipeline on multiply latency", func() {
		expectAgreement(nil,
			insts.ADDI(1, 0, 6), // addi x1, x0, 6
			insts.ADDI(2, 0, 7), // addi x2, x0, 7
			insts.MUL(3, 1, 2),  // mul  x3, x1, x2
			insts.MUL(4, 3, 3),  // mul  x4, x3, x3
			insts.ADD(5, 4, 0),  // add  x5, x4, x0
			insts.EBREAK(),
		)
	})

	It("should match the pipeline across loop iterations", func() {
		expectAgreement(nil,
			insts.ADDI(1, 0, 5),  // 0x00: addi x1, x0, 5
			insts.ADDI(2, 0, 0),  // 0x04: addi x2, x0, 0
			insts.BEQ(1, 0, 16),  // 0x08: beq  x1, x0, 0x18
			insts.ADD(2, 2, 1),   // 0x0C: add  x2, x2, x1
			insts.ADDI(1, 1, -1), // 0x10: addi x1, x1, -1
			insts.BEQ(0, 0, -12), // 0x14: beq  x0, x0, 0x08
			insts.EBREAK(),       // 0x18
		)
	})

	It("should match the pipeline on an ECALL exit", func() {
		expectAgreement(nil,
			insts.ADDI(10, 0, 9), // addi x10, x0, 9
			insts.ECALL(),
		)
	})

	It("should stop at the instruction limit", func() {
		regFile := &emu.RegFile{}
		imem := emu.NewMemory(4096)
		dmem := emu.NewMemory(4096)
		writeProgram(imem, 0,
			insts.BEQ(0, 0, 0), // beq x0, x0, 0 (spin)
		)
		fast := pipeline.NewFastTiming(regFile, imem, dmem, nil,
			pipeline.WithMaxInstructions(20))

		err := fast.Run()

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("instruction limit reached"))
	})
})
