package emu

import (
	"sync/atomic"

	"github.com/sarchlab/miscsim/insts"
)

// Access classifies the data-memory access of an executed instruction.
type Access uint8

// Data access kinds.
const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)

// Working holds the decode and execute fields of the most recently executed
// instruction.
type Working struct {
	Inst insts.Instruction

	// PC is the address the instruction was fetched from.
	PC uint32

	// Operand values read at decode and the ALU result.
	RJ   int32
	RK   int32
	ALUZ int32

	// Taken reports whether a branch or call condition held.
	Taken bool

	// Access and Addr describe the data-memory access, if any.
	Access Access
	Addr   uint32
}

// View is the read-only CPU state handed to a PerfMon.
type View interface {
	PC() uint32
	ReadReg(ix uint16) int32
	NumRegs() int
	Flags() Flags
	Current() Working
	ReadMem(addr uint32) int32
	MemDepth() int
}

// PerfMon observes the CPU after every executed instruction. An instance may
// be shared by emulators running on separate goroutines, so implementations
// must be safe for concurrent use.
type PerfMon interface {
	Process(v View)
	InstructionCount() uint64
}

// Counter is the default PerfMon. It counts executed instructions.
type Counter struct {
	count atomic.Uint64
}

// NewCounter creates a zeroed Counter.
func NewCounter() *Counter {
	return &Counter{}
}

// Process counts one instruction.
func (c *Counter) Process(View) {
	c.count.Add(1)
}

// InstructionCount returns the number of instructions processed.
func (c *Counter) InstructionCount() uint64 {
	return c.count.Load()
}

// Reset zeroes the count.
func (c *Counter) Reset() {
	c.count.Store(0)
}
