package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/r3sim/timing/pipeline"
)

var _ = Describe("HazardUnit", func() {
	var hazard *pipeline.HazardUnit

	BeforeEach(func() {
		hazard = pipeline.NewHazardUnit()
	})

	It("should fall through to the register file when no producer matches", func() {
		window := pipeline.Window{
			{Origin: pipeline.ForwardFromExecute, Rd: 3, Value: 30, Valid: true},
			{Origin: pipeline.ForwardFromMemWriteback, Rd: 4, Value: 40, Valid: true},
		}

		result := hazard.Resolve(5, 55, window)

		Expect(result.Value).To(Equal(uint32(55)))
		Expect(result.Origin).To(Equal(pipeline.ForwardNone))
		Expect(result.Stall).To(BeFalse())
	})

	It("should forward from the execute producer", func() {
		window := pipeline.Window{
			{Origin: pipeline.ForwardFromExecute, Rd: 7, Value: 70, Valid: true},
			{Origin: pipeline.ForwardFromMemWriteback, Rd: 4, Value: 40, Valid: true},
		}

		result := hazard.Resolve(7, 1, window)

		Expect(result.Value).To(Equal(uint32(70)))
		Expect(result.Origin).To(Equal(pipeline.ForwardFromExecute))
	})

	It("should forward from the memory/writeback producer", func() {
		window := pipeline.Window{
			{Origin: pipeline.ForwardFromExecute, Rd: 7, Value: 70, Valid: true},
			{Origin: pipeline.ForwardFromMemWriteback, Rd: 4, Value: 40, Valid: true},
		}

		result := hazard.Resolve(4, 1, window)

		Expect(result.Value).To(Equal(uint32(40)))
		Expect(result.Origin).To(Equal(pipeline.ForwardFromMemWriteback))
	})

	It("should prefer the youngest producer when both match", func() {
		window := pipeline.Window{
			{Origin: pipeline.ForwardFromExecute, Rd: 6, Value: 2, Valid: true},
			{Origin: pipeline.ForwardFromMemWriteback, Rd: 6, Value: 1, Valid: true},
		}

		result := hazard.Resolve(6, 0, window)

		Expect(result.Value).To(Equal(uint32(2)))
		Expect(result.Origin).To(Equal(pipeline.ForwardFromExecute))
	})

	It("should stall on a pending producer", func() {
		window := pipeline.Window{
			{Origin: pipeline.ForwardFromExecute, Rd: 9, Valid: true, Pending: true},
			{Origin: pipeline.ForwardFromMemWriteback, Rd: 4, Value: 40, Valid: true},
		}

		result := hazard.Resolve(9, 1, window)

		Expect(result.Stall).To(BeTrue())
		Expect(result.Origin).To(Equal(pipeline.ForwardFromExecute))
	})

	It("should skip invalid producers", func() {
		window := pipeline.Window{
			{Origin: pipeline.ForwardFromExecute, Rd: 8, Value: 99, Valid: false},
			{Origin: pipeline.ForwardFromMemWriteback, Rd: 8, Value: 80, Valid: true},
		}

		result := hazard.Resolve(8, 1, window)

		Expect(result.Value).To(Equal(uint32(80)))
		Expect(result.Origin).To(Equal(pipeline.ForwardFromMemWriteback))
	})

	It("should never forward x0", func() {
		window := pipeline.Window{
			{Origin: pipeline.ForwardFromExecute, Rd: 0, Value: 123, Valid: true},
		}

		result := hazard.Resolve(0, 0, window)

		Expect(result.Value).To(Equal(uint32(0)))
		Expect(result.Origin).To(Equal(pipeline.ForwardNone))
		Expect(result.Stall).To(BeFalse())
	})

	It("should not stall x0 on a pending x0 load", func() {
		window := pipeline.Window{
			{Origin: pipeline.ForwardFromExecute, Rd: 0, Valid: true, Pending: true},
		}

		result := hazard.Resolve(0, 0, window)

		Expect(result.Stall).To(BeFalse())
	})
})
