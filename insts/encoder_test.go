package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/miscsim/insts"
)

var _ = Describe("Encoder", func() {
	var (
		layout  insts.Layout
		decoder *insts.Decoder
	)

	BeforeEach(func() {
		layout = insts.DefaultLayout()
		decoder = insts.NewDecoder(layout)
	})

	decode := func(word int32) insts.Instruction {
		inst, err := decoder.Decode(uint32(word))
		Expect(err).NotTo(HaveOccurred())
		return inst
	}

	Describe("known words", func() {
		It("should encode addi r1, 42", func() {
			Expect(insts.Must(layout.EncodeImmediate(insts.OpAddi, 1, 42))).
				To(Equal(int32(0x1040002A)))
		})

		It("should encode add r1, r2", func() {
			Expect(insts.Must(layout.EncodeRegister(insts.OpAdd, 1, 2, 0))).
				To(Equal(int32(0x08440000)))
		})

		It("should encode halt", func() {
			word := insts.Must(layout.EncodeControl(insts.OpHalt))
			Expect(uint32(word)).To(Equal(uint32(0xF0000000)))
		})

		It("should encode br always -3", func() {
			word := insts.Must(layout.EncodeBranch(insts.OpBr, insts.CondAlways, -3))
			Expect(uint32(word)).To(Equal(uint32(0xD8FFFFFD)))
		})
	})

	DescribeTable("register layout round trip",
		func(op insts.Op, j, k uint16, imm int32) {
			inst := decode(insts.Must(layout.EncodeRegister(op, j, k, imm)))

			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(insts.FormatRegister))
			Expect(inst.Rj).To(Equal(j))
			Expect(inst.Rk).To(Equal(k))
			Expect(inst.Imm).To(Equal(imm))
			Expect(inst.Cond).To(Equal(insts.CondNotUsed))
		},
		Entry("add", insts.OpAdd, uint16(1), uint16(2), int32(0)),
		Entry("load with negative displacement", insts.OpLoad, uint16(31), uint16(0), int32(-1)),
		Entry("store at largest displacement", insts.OpStore, uint16(7), uint16(30), int32(65535)),
		Entry("store at smallest displacement", insts.OpStore, uint16(0), uint16(31), int32(-65536)),
		Entry("loadil", insts.OpLoadil, uint16(4), uint16(0), int32(0)),
		Entry("pop", insts.OpPop, uint16(3), uint16(0), int32(0)),
	)

	DescribeTable("immediate layout round trip",
		func(op insts.Op, j uint16, imm int32) {
			inst := decode(insts.Must(layout.EncodeImmediate(op, j, imm)))

			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(insts.FormatImmediate))
			Expect(inst.Rj).To(Equal(j))
			Expect(inst.Imm).To(Equal(imm))
		},
		Entry("addi", insts.OpAddi, uint16(1), int32(42)),
		Entry("subi -1", insts.OpSubi, uint16(31), int32(-1)),
		Entry("loadi most negative", insts.OpLoadi, uint16(2), int32(-2097152)),
		Entry("cmpi most positive", insts.OpCmpi, uint16(9), int32(2097151)),
		Entry("lsri", insts.OpLsri, uint16(5), int32(3)),
	)

	DescribeTable("branch layout round trip",
		func(op insts.Op, cond insts.Cond, imm int32) {
			inst := decode(insts.Must(layout.EncodeBranch(op, cond, imm)))

			Expect(inst.Op).To(Equal(op))
			Expect(inst.Format).To(Equal(insts.FormatBranch))
			Expect(inst.Cond).To(Equal(cond))
			Expect(inst.Imm).To(Equal(imm))
		},
		Entry("br always backward", insts.OpBr, insts.CondAlways, int32(-3)),
		Entry("br !zero", insts.OpBr, insts.CondNotZero, int32(-8388608)),
		Entry("br cy", insts.OpBr, insts.CondCarry, int32(8388607)),
		Entry("call !cy", insts.OpCall, insts.CondNotCarry, int32(12)),
		Entry("call zero", insts.OpCall, insts.CondZero, int32(0)),
	)

	It("should round trip under a narrow layout", func() {
		narrow, err := insts.NewLayout(3)
		Expect(err).NotTo(HaveOccurred())
		d := insts.NewDecoder(narrow)

		inst, err := d.Decode(uint32(insts.Must(narrow.EncodeRegister(insts.OpStore, 7, 6, -5))))

		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Rj).To(Equal(uint16(7)))
		Expect(inst.Rk).To(Equal(uint16(6)))
		Expect(inst.Imm).To(Equal(int32(-5)))
	})

	It("should truncate an immediate to the field width", func() {
		inst := decode(insts.Must(layout.EncodeImmediate(insts.OpLoadi, 1, 1<<21)))

		Expect(inst.Imm).To(Equal(int32(-2097152)))
	})

	Describe("precondition violations", func() {
		It("should reject an immediate opcode in the register layout", func() {
			_, err := layout.EncodeRegister(insts.OpAddi, 1, 2, 0)
			Expect(err).To(MatchError(insts.ErrEncoding))
		})

		It("should reject a branch in the immediate layout", func() {
			_, err := layout.EncodeImmediate(insts.OpBr, 0, 1)
			Expect(err).To(MatchError(insts.ErrEncoding))
		})

		It("should reject the sentinel condition", func() {
			_, err := layout.EncodeBranch(insts.OpCall, insts.CondNotUsed, 1)
			Expect(err).To(MatchError(insts.ErrEncoding))
		})

		It("should reject the sentinel opcode", func() {
			_, err := layout.EncodeRegister(insts.OpNotUsed, 0, 0, 0)
			Expect(err).To(MatchError(insts.ErrEncoding))
		})

		It("should reject a register index beyond the file", func() {
			_, err := layout.EncodeImmediate(insts.OpAddi, 32, 0)
			Expect(err).To(MatchError(insts.ErrEncoding))
		})

		It("should reject operands on a control encoding", func() {
			_, err := layout.EncodeControl(insts.OpAdd)
			Expect(err).To(MatchError(insts.ErrEncoding))
		})

		It("should panic from Must", func() {
			Expect(func() {
				insts.Must(layout.EncodeControl(insts.OpPush))
			}).To(Panic())
		})
	})
})
