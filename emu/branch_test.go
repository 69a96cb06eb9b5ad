package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/insts"
)

var _ = Describe("BranchUnit", func() {
	var (
		regFile    *emu.RegFile
		memory     *emu.Memory
		branchUnit *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile(32)
		regFile.PC = 100
		regFile.WriteReg(regFile.SP(), 50)
		memory = emu.NewMemory(10)
		branchUnit = emu.NewBranchUnit(regFile, emu.NewLoadStoreUnit(regFile, memory))
	})

	DescribeTable("CheckCondition",
		func(cond insts.Cond, z, c, want bool) {
			regFile.Flags = emu.Flags{Z: z, C: c}

			taken, err := branchUnit.CheckCondition(insts.Instruction{Op: insts.OpBr, Cond: cond})

			Expect(err).NotTo(HaveOccurred())
			Expect(taken).To(Equal(want))
		},
		Entry("always", insts.CondAlways, false, false, true),
		Entry("cy set", insts.CondCarry, false, true, true),
		Entry("cy clear", insts.CondCarry, true, false, false),
		Entry("!cy set", insts.CondNotCarry, false, true, false),
		Entry("!cy clear", insts.CondNotCarry, false, false, true),
		Entry("zero set", insts.CondZero, true, false, true),
		Entry("zero clear", insts.CondZero, false, true, false),
		Entry("!zero set", insts.CondNotZero, true, false, false),
		Entry("!zero clear", insts.CondNotZero, false, false, true),
	)

	It("should fault on the sentinel condition", func() {
		_, err := branchUnit.CheckCondition(insts.Instruction{Op: insts.OpCall, Cond: insts.CondNotUsed})

		Expect(err).To(MatchError(insts.ErrIllegalCondition))
	})

	It("should fault when evaluated on a non-branch", func() {
		_, err := branchUnit.CheckCondition(insts.Instruction{Op: insts.OpAdd, Cond: insts.CondAlways})

		Expect(err).To(MatchError(emu.ErrInternal))
	})

	Describe("Branch", func() {
		It("should branch forward", func() {
			branchUnit.Branch(7)

			Expect(regFile.PC).To(Equal(uint32(107)))
		})

		It("should branch backward", func() {
			branchUnit.Branch(-3)

			Expect(regFile.PC).To(Equal(uint32(97)))
		})
	})

	Describe("Call and Return", func() {
		It("should push the return address and branch", func() {
			addr := branchUnit.Call(10)

			Expect(addr).To(Equal(uint32(49)))
			Expect(memory.Read(49)).To(Equal(int32(100)))
			Expect(regFile.ReadReg(regFile.SP())).To(Equal(int32(49)))
			Expect(regFile.PC).To(Equal(uint32(110)))
		})

		It("should resume at the return address", func() {
			branchUnit.Call(-40)
			branchUnit.Return()

			Expect(regFile.PC).To(Equal(uint32(100)))
			Expect(regFile.ReadReg(regFile.SP())).To(Equal(int32(50)))
		})
	})
})
