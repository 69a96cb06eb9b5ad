package emu_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/miscsim/emu"
)

var _ = Describe("ALU", func() {
	var (
		regFile *emu.RegFile
		alu     *emu.ALU
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile(32)
		alu = emu.NewALU(regFile)
	})

	DescribeTable("Add flags",
		func(x, y, want int32, carry, zero bool) {
			Expect(alu.Add(x, y)).To(Equal(want))
			Expect(regFile.Flags.C).To(Equal(carry))
			Expect(regFile.Flags.Z).To(Equal(zero))
		},
		Entry("small positives", int32(1), int32(2), int32(3), false, false),
		Entry("positive overflow", int32(math.MaxInt32), int32(1), int32(math.MinInt32), true, false),
		Entry("mixed signs to zero", int32(-1), int32(1), int32(0), false, true),
		Entry("negative overflow", int32(math.MinInt32), int32(-1), int32(math.MaxInt32), true, false),
		Entry("two negatives", int32(-2), int32(-3), int32(-5), false, false),
	)

	DescribeTable("Sub flags",
		func(x, y, want int32, carry, zero bool) {
			Expect(alu.Sub(x, y)).To(Equal(want))
			Expect(regFile.Flags.C).To(Equal(carry))
			Expect(regFile.Flags.Z).To(Equal(zero))
		},
		Entry("equal operands", int32(5), int32(5), int32(0), false, true),
		Entry("same sign, negative result", int32(1), int32(2), int32(-1), true, false),
		Entry("mixed signs", int32(-1), int32(1), int32(-2), false, false),
		Entry("mixed signs overflow", int32(math.MinInt32), int32(1), int32(math.MaxInt32), false, false),
		Entry("same sign, positive result", int32(9), int32(4), int32(5), false, false),
	)

	Describe("logic", func() {
		It("should update zero and leave carry alone", func() {
			regFile.Flags.C = true

			Expect(alu.And(0x0F, 0xF0)).To(Equal(int32(0)))
			Expect(regFile.Flags.Z).To(BeTrue())
			Expect(regFile.Flags.C).To(BeTrue())

			Expect(alu.Or(0x0F, 0xF0)).To(Equal(int32(0xFF)))
			Expect(regFile.Flags.Z).To(BeFalse())

			Expect(alu.Xor(7, 7)).To(Equal(int32(0)))
			Expect(regFile.Flags.Z).To(BeTrue())

			Expect(alu.Not(-1)).To(Equal(int32(0)))
			Expect(regFile.Flags.Z).To(BeTrue())
			Expect(regFile.Flags.C).To(BeTrue())
		})
	})

	Describe("shifts", func() {
		It("should leave the value and carry alone for a zero amount", func() {
			regFile.Flags.C = true

			Expect(alu.Lsl(1, 0)).To(Equal(int32(1)))
			Expect(regFile.Flags.C).To(BeTrue())
			Expect(regFile.Flags.Z).To(BeFalse())

			Expect(alu.Lsr(0, 0)).To(Equal(int32(0)))
			Expect(regFile.Flags.Z).To(BeTrue())

			Expect(alu.Asr(-5, 0)).To(Equal(int32(-5)))
			Expect(regFile.Flags.C).To(BeTrue())
		})

		It("should carry the last bit shifted out on lsl", func() {
			Expect(alu.Lsl(math.MinInt32, 1)).To(Equal(int32(0)))
			Expect(regFile.Flags.C).To(BeTrue())
			Expect(regFile.Flags.Z).To(BeTrue())

			Expect(alu.Lsl(3, 4)).To(Equal(int32(48)))
			Expect(regFile.Flags.C).To(BeFalse())
		})

		It("should shift everything out at 32", func() {
			Expect(alu.Lsl(1, 32)).To(Equal(int32(0)))
			Expect(regFile.Flags.C).To(BeTrue())
			Expect(regFile.Flags.Z).To(BeTrue())

			Expect(alu.Lsr(-1, 32)).To(Equal(int32(0)))
			Expect(regFile.Flags.C).To(BeTrue())
		})

		It("should clear result and carry beyond 32", func() {
			regFile.Flags.C = true
			Expect(alu.Lsl(-1, 33)).To(Equal(int32(0)))
			Expect(regFile.Flags.C).To(BeFalse())

			regFile.Flags.C = true
			Expect(alu.Lsr(-1, 100)).To(Equal(int32(0)))
			Expect(regFile.Flags.C).To(BeFalse())
			Expect(regFile.Flags.Z).To(BeTrue())
		})

		It("should zero fill on lsr", func() {
			Expect(alu.Lsr(-1, 28)).To(Equal(int32(15)))
			Expect(regFile.Flags.C).To(BeTrue())

			Expect(alu.Lsr(3, 1)).To(Equal(int32(1)))
			Expect(regFile.Flags.C).To(BeTrue())
		})

		It("should sign fill on asr", func() {
			Expect(alu.Asr(-8, 1)).To(Equal(int32(-4)))
			Expect(regFile.Flags.C).To(BeFalse())

			Expect(alu.Asr(math.MinInt32, 31)).To(Equal(int32(-1)))
			Expect(alu.Asr(-1, 32)).To(Equal(int32(-1)))
			Expect(alu.Asr(16, 2)).To(Equal(int32(4)))
			Expect(regFile.Flags.Z).To(BeFalse())
		})

		It("should fill negatives to -1 beyond 32 on asr", func() {
			Expect(alu.Asr(-7, 40)).To(Equal(int32(-1)))
			Expect(regFile.Flags.C).To(BeFalse())

			Expect(alu.Asr(7, 40)).To(Equal(int32(0)))
			Expect(regFile.Flags.Z).To(BeTrue())
		})
	})
})
