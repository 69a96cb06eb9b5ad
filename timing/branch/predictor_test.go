package branch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/miscsim/timing/branch"
)

var _ = Describe("Predictor", func() {
	var bp *branch.Predictor

	BeforeEach(func() {
		bp = branch.NewPredictor(branch.Config{BHTSize: 16, BTBSize: 4})
	})

	It("should predict weakly taken with an unknown target at first", func() {
		pred := bp.Predict(7)

		Expect(pred.Taken).To(BeTrue())
		Expect(pred.TargetKnown).To(BeFalse())
		Expect(bp.Stats().BTBMisses).To(Equal(uint64(1)))
	})

	It("should learn the target of a taken branch", func() {
		bp.Update(7, true, 4)

		pred := bp.Predict(7)

		Expect(pred.TargetKnown).To(BeTrue())
		Expect(pred.Target).To(Equal(uint32(4)))
		Expect(bp.Stats().BTBHits).To(Equal(uint64(1)))
	})

	It("should flip to not taken after two not-taken outcomes", func() {
		bp.Update(9, false, 0)
		Expect(bp.Predict(9).Taken).To(BeFalse())

		bp.Update(9, false, 0)
		bp.Update(9, true, 3)
		Expect(bp.Predict(9).Taken).To(BeFalse())
	})

	It("should saturate the counter", func() {
		for range 5 {
			bp.Update(2, true, 1)
		}
		bp.Update(2, false, 0)

		Expect(bp.Predict(2).Taken).To(BeTrue())
	})

	It("should not confuse aliasing branches in the BTB", func() {
		bp.Update(1, true, 10)

		// 5 maps to the same BTB entry as 1
		Expect(bp.Predict(5).TargetKnown).To(BeFalse())
	})

	It("should count correct and mispredicted directions", func() {
		bp.Update(3, true, 0)
		bp.Update(3, false, 0)

		stats := bp.Stats()
		Expect(stats.Correct).To(Equal(uint64(1)))
		Expect(stats.Mispredictions).To(Equal(uint64(1)))
	})

	It("should report rates", func() {
		bp.Predict(0)
		bp.Predict(0)
		bp.Update(0, true, 0)
		bp.Update(0, true, 0)

		stats := bp.Stats()
		Expect(stats.Accuracy()).To(BeNumerically("~", 100.0))
		Expect(stats.MispredictionRate()).To(BeZero())
		Expect(stats.BTBHitRate()).To(BeNumerically("~", 0.0))
	})

	It("should clear state on Reset", func() {
		bp.Update(7, true, 4)
		bp.Reset()

		Expect(bp.Stats()).To(Equal(branch.Stats{}))
		Expect(bp.Predict(7).TargetKnown).To(BeFalse())
	})

	It("should fall back to default sizes", func() {
		p := branch.NewPredictor(branch.Config{})

		Expect(p.Predict(1000).Taken).To(BeTrue())
	})
})
