package insts

import "fmt"

// Fixed field widths.
const (
	// WordBits is the width of an instruction word.
	WordBits = 32
	// OpBits is the width of the opcode field.
	OpBits = 5
	// CondBits is the width of the branch/call condition field.
	CondBits = 3
	// BranchImmBits is the width of the branch/call offset field.
	BranchImmBits = WordBits - OpBits - CondBits

	// DefaultRegisterBits selects 32 registers.
	DefaultRegisterBits = 5
	// MaxRegisterBits is the widest register index a layout accepts: the
	// opcode plus three register-width fields must fit in a word.
	MaxRegisterBits = (WordBits - OpBits) / 3
)

// IllegalWord is a word whose opcode field holds OpNotUsed. Memory is filled
// with it so that executing uninitialised memory traps on the first fetch.
const IllegalWord int32 = -1 << (WordBits - OpBits)

// ProgramEnd terminates a word sequence handed to a bulk program load.
const ProgramEnd int32 = -1

// Layout holds the field widths derived from the register-index width. An
// encoder and a decoder only agree when they share a Layout.
type Layout struct {
	regBits uint
}

// NewLayout returns the layout for a register-index width of regBits.
func NewLayout(regBits uint) (Layout, error) {
	if (1 << OpBits) <= int(OpNotUsed) {
		return Layout{}, fmt.Errorf("%w: %d opcode bits cannot hold %d opcodes",
			ErrLayout, OpBits, int(OpNotUsed)+1)
	}
	if regBits == 0 || OpBits+3*regBits > WordBits {
		return Layout{}, fmt.Errorf("%w: register index width %d outside [1,%d]",
			ErrLayout, regBits, MaxRegisterBits)
	}

	return Layout{regBits: regBits}, nil
}

// DefaultLayout returns the 32-register layout.
func DefaultLayout() Layout {
	return Layout{regBits: DefaultRegisterBits}
}

// RegBits returns the register-index width W.
func (l Layout) RegBits() uint {
	return l.regBits
}

// NumRegs returns the number of addressable registers, 2^W.
func (l Layout) NumRegs() int {
	return 1 << l.regBits
}

// SPIndex returns the register reserved by convention as the stack pointer.
// No opcode prevents using it for anything else.
func (l Layout) SPIndex() uint16 {
	return uint16(l.NumRegs() - 1)
}

// ImmBits returns the width of the immediate field for a format.
func (l Layout) ImmBits(f Format) uint {
	switch f {
	case FormatImmediate:
		return WordBits - OpBits - l.regBits
	case FormatBranch:
		return BranchImmBits
	default:
		return WordBits - OpBits - 2*l.regBits
	}
}

// ImmRange returns the smallest and largest signed immediate that survive
// an encode/decode round trip in format f.
func (l Layout) ImmRange(f Format) (lo, hi int32) {
	bits := l.ImmBits(f)
	hi = int32(1)<<(bits-1) - 1
	lo = -hi - 1
	return lo, hi
}

// field extracts width bits of word whose least significant bit is at lsb.
func field(word uint32, lsb, width uint) uint32 {
	return (word >> lsb) & (1<<width - 1)
}

// place returns value truncated to width bits and moved to lsb.
func place(value uint32, lsb, width uint) uint32 {
	return (value & (1<<width - 1)) << lsb
}

// SignExtend interprets the low bits of v as a two's-complement number.
func SignExtend(v uint32, bits uint) int32 {
	if bits >= WordBits {
		return int32(v)
	}
	shift := WordBits - bits
	return int32(v<<shift) >> shift
}
