package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r3sim/insts"
	"github.com/sarchlab/r3sim/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should have unit ALU latency", func() {
			Expect(table.Config().ALULatency).To(Equal(uint64(1)))
		})

		It("should have the three-cycle multiply latency", func() {
			Expect(table.Config().MultiplyLatency).To(Equal(uint64(3)))
		})
	})

	Describe("GetLatency", func() {
		It("should return 1 cycle for ALU instructions", func() {
			Expect(table.GetLatency(decoder.Decode(insts.ADD(1, 2, 3)))).To(Equal(uint64(1)))
			Expect(table.GetLatency(decoder.Decode(insts.ADDI(1, 2, 5)))).To(Equal(uint64(1)))
			Expect(table.GetLatency(decoder.Decode(insts.XOR(1, 2, 3)))).To(Equal(uint64(1)))
		})

		It("should return the multiply latency for the multiply group", func() {
			Expect(table.GetLatency(decoder.Decode(insts.MUL(1, 2, 3)))).To(Equal(uint64(3)))
			Expect(table.GetLatency(decoder.Decode(insts.MULH(1, 2, 3)))).To(Equal(uint64(3)))
			Expect(table.GetLatency(decoder.Decode(insts.MULHSU(1, 2, 3)))).To(Equal(uint64(3)))
			Expect(table.GetLatency(decoder.Decode(insts.MULHU(1, 2, 3)))).To(Equal(uint64(3)))
		})

		It("should return 1 cycle for loads, stores, and branches", func() {
			Expect(table.GetLatency(decoder.Decode(insts.LW(1, 2, 0)))).To(Equal(uint64(1)))
			Expect(table.GetLatency(decoder.Decode(insts.SW(1, 2, 0)))).To(Equal(uint64(1)))
			Expect(table.GetLatency(decoder.Decode(insts.BEQ(1, 2, 8)))).To(Equal(uint64(1)))
		})

		It("should return 1 cycle for a nil instruction", func() {
			Expect(table.GetLatency(nil)).To(Equal(uint64(1)))
		})

		It("should honor a custom multiply latency", func() {
			custom := latency.NewTableWithConfig(&latency.TimingConfig{
				ALULatency:      1,
				MultiplyLatency: 7,
			})

			Expect(custom.GetLatency(decoder.Decode(insts.MUL(1, 2, 3)))).To(Equal(uint64(7)))
			Expect(custom.GetLatency(decoder.Decode(insts.ADD(1, 2, 3)))).To(Equal(uint64(1)))
		})
	})

	Describe("Instruction Classification", func() {
		It("should classify multiplies", func() {
			Expect(table.IsMultOp(decoder.Decode(insts.MUL(1, 2, 3)))).To(BeTrue())
			Expect(table.IsMultOp(decoder.Decode(insts.ADD(1, 2, 3)))).To(BeFalse())
		})

		It("should classify memory operations", func() {
			Expect(table.IsLoadOp(decoder.Decode(insts.LW(1, 2, 0)))).To(BeTrue())
			Expect(table.IsStoreOp(decoder.Decode(insts.SW(1, 2, 0)))).To(BeTrue())
			Expect(table.IsMemoryOp(decoder.Decode(insts.LW(1, 2, 0)))).To(BeTrue())
			Expect(table.IsMemoryOp(decoder.Decode(insts.ADD(1, 2, 3)))).To(BeFalse())
		})

		It("should classify control transfers", func() {
			Expect(table.IsBranchOp(decoder.Decode(insts.BEQ(1, 2, 8)))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(insts.BNE(1, 2, 8)))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(insts.JAL(1, 8)))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(insts.JALR(1, 2, 0)))).To(BeTrue())
			Expect(table.IsBranchOp(decoder.Decode(insts.ADD(1, 2, 3)))).To(BeFalse())
		})
	})

	Describe("Configuration", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "latency-config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should round-trip a config through disk", func() {
			path := filepath.Join(tempDir, "timing.json")
			config := &latency.TimingConfig{ALULatency: 2, MultiplyLatency: 5}

			Expect(config.SaveConfig(path)).To(Succeed())
			loaded, err := latency.LoadConfig(path)

			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(config))
		})

		It("should fail to load a missing file", func() {
			_, err := latency.LoadConfig(filepath.Join(tempDir, "missing.json"))

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to read timing config"))
		})

		It("should fail to load malformed JSON", func() {
			path := filepath.Join(tempDir, "bad.json")
			Expect(os.WriteFile(path, []byte("{not json"), 0o644)).To(Succeed())

			_, err := latency.LoadConfig(path)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse timing config"))
		})

		It("should reject zero latencies", func() {
			config := &latency.TimingConfig{ALULatency: 0, MultiplyLatency: 3}

			Expect(config.Validate()).To(HaveOccurred())
		})

		It("should clone without sharing", func() {
			config := latency.DefaultTimingConfig()
			clone := config.Clone()
			clone.MultiplyLatency = 9

			Expect(config.MultiplyLatency).To(Equal(uint64(3)))
		})
	})
})
