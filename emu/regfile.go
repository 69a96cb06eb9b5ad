// Package emu provides functional MISC emulation.
package emu

// RegisterFill is the value every register holds after construction.
const RegisterFill int32 = -0x21524111 // 0xDEADBEEF

// Flags holds the condition flags.
type Flags struct {
	// Z is the zero flag.
	Z bool
	// C is the carry flag.
	C bool
}

// RegFile represents the MISC register file: 2^W general-purpose registers,
// the program counter and the flags. The last register is the stack pointer
// by convention.
type RegFile struct {
	// R holds the general-purpose registers.
	R []int32

	// PC is the word address of the next instruction to fetch.
	PC uint32

	// Flags holds the zero and carry flags.
	Flags Flags
}

// NewRegFile creates a register file of n registers filled with RegisterFill.
func NewRegFile(n int) *RegFile {
	r := &RegFile{R: make([]int32, n)}
	for i := range r.R {
		r.R[i] = RegisterFill
	}
	return r
}

// ReadReg reads a register value.
func (r *RegFile) ReadReg(ix uint16) int32 {
	return r.R[ix]
}

// WriteReg writes a value to a register.
func (r *RegFile) WriteReg(ix uint16, value int32) {
	r.R[ix] = value
}

// SP returns the index of the stack-pointer register.
func (r *RegFile) SP() uint16 {
	return uint16(len(r.R) - 1)
}
