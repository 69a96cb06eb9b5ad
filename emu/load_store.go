package emu

// LoadStoreUnit implements MISC memory and stack operations. None of them
// touch the flags.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// Load performs r[rj] = mem[base + disp] and returns the address read.
func (lsu *LoadStoreUnit) Load(rj uint16, base, disp int32) uint32 {
	addr := uint32(base + disp)
	lsu.regFile.WriteReg(rj, lsu.memory.Read(addr))
	return addr
}

// Store performs mem[base + disp] = value and returns the address written.
func (lsu *LoadStoreUnit) Store(value, base, disp int32) uint32 {
	addr := uint32(base + disp)
	lsu.memory.Write(addr, value)
	return addr
}

// LoadLong performs r[rj] = mem[PC] and steps PC over the consumed word.
// It returns the address read.
func (lsu *LoadStoreUnit) LoadLong(rj uint16) uint32 {
	addr := lsu.regFile.PC
	lsu.regFile.WriteReg(rj, lsu.memory.Read(addr))
	lsu.regFile.PC++
	return addr
}

// Push decrements SP and writes value at the new SP. It returns the address
// written.
func (lsu *LoadStoreUnit) Push(value int32) uint32 {
	spIx := lsu.regFile.SP()
	sp := uint32(lsu.regFile.ReadReg(spIx)) - 1
	lsu.memory.Write(sp, value)
	lsu.regFile.WriteReg(spIx, int32(sp))
	return sp
}

// Pop reads the word at SP and increments SP. It returns the value and the
// address read.
func (lsu *LoadStoreUnit) Pop() (int32, uint32) {
	spIx := lsu.regFile.SP()
	sp := uint32(lsu.regFile.ReadReg(spIx))
	value := lsu.memory.Read(sp)
	lsu.regFile.WriteReg(spIx, int32(sp+1))
	return value, sp
}
