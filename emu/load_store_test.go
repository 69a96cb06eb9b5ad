package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/insts"
)

var _ = Describe("LoadStoreUnit", func() {
	var (
		regFile *emu.RegFile
		memory  *emu.Memory
		lsu     *emu.LoadStoreUnit
	)

	BeforeEach(func() {
		regFile = emu.NewRegFile(8)
		memory = emu.NewMemory(8)
		lsu = emu.NewLoadStoreUnit(regFile, memory)
	})

	It("should start memory with the illegal fill word", func() {
		Expect(memory.Depth()).To(Equal(256))
		Expect(memory.Read(0)).To(Equal(insts.IllegalWord))
		Expect(memory.Read(255)).To(Equal(insts.IllegalWord))
	})

	It("should wrap addresses modulo the depth", func() {
		memory.Write(256+3, 11)

		Expect(memory.Read(3)).To(Equal(int32(11)))
	})

	It("should store and load with a displacement", func() {
		Expect(lsu.Store(9, 20, -8)).To(Equal(uint32(12)))
		Expect(lsu.Load(2, 20, -8)).To(Equal(uint32(12)))

		Expect(regFile.ReadReg(2)).To(Equal(int32(9)))
	})

	It("should load the word following PC and step over it", func() {
		regFile.PC = 5
		memory.Write(5, 0x12345)

		lsu.LoadLong(3)

		Expect(regFile.ReadReg(3)).To(Equal(int32(0x12345)))
		Expect(regFile.PC).To(Equal(uint32(6)))
	})

	It("should restore the register and SP after push then pop", func() {
		sp := regFile.SP()
		regFile.WriteReg(sp, 100)

		Expect(lsu.Push(-42)).To(Equal(uint32(99)))
		Expect(regFile.ReadReg(sp)).To(Equal(int32(99)))
		Expect(memory.Read(99)).To(Equal(int32(-42)))

		value, addr := lsu.Pop()

		Expect(value).To(Equal(int32(-42)))
		Expect(addr).To(Equal(uint32(99)))
		Expect(regFile.ReadReg(sp)).To(Equal(int32(100)))
	})

	It("should reject a program larger than memory", func() {
		err := memory.Load(250, make([]int32, 10))

		Expect(err).To(MatchError(emu.ErrProgramSize))
	})
})
