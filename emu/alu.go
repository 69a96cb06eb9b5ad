package emu

// ALU implements MISC arithmetic, logic and shift operations. Every
// operation returns its result and updates the flags of the register file;
// write-back is left to the caller.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// Add returns x + y and sets the flags by the add/sub rule.
func (a *ALU) Add(x, y int32) int32 {
	z := x + y
	a.setArithFlags(x, y, z)
	return z
}

// Sub returns x - y and sets the flags by the add/sub rule. The carry is
// computed from the signs of x, y and the result, y taken as given rather
// than negated.
func (a *ALU) Sub(x, y int32) int32 {
	z := x - y
	a.setArithFlags(x, y, z)
	return z
}

// And returns x & y. Carry is unchanged.
func (a *ALU) And(x, y int32) int32 {
	return a.setZero(x & y)
}

// Or returns x | y. Carry is unchanged.
func (a *ALU) Or(x, y int32) int32 {
	return a.setZero(x | y)
}

// Xor returns x ^ y. Carry is unchanged.
func (a *ALU) Xor(x, y int32) int32 {
	return a.setZero(x ^ y)
}

// Not returns ^x. Carry is unchanged.
func (a *ALU) Not(x int32) int32 {
	return a.setZero(^x)
}

// Lsl shifts x left by amt, filling with zeros. The carry receives the last
// bit shifted out.
func (a *ALU) Lsl(x int32, amt uint32) int32 {
	z := x
	switch {
	case amt == 0:
	case amt <= 32:
		a.regFile.Flags.C = bit(x, 32-amt)
		z = int32(uint32(x) << amt)
	default:
		z = 0
		a.regFile.Flags.C = false
	}
	return a.setZero(z)
}

// Lsr shifts x right by amt, filling with zeros. The carry receives the last
// bit shifted out.
func (a *ALU) Lsr(x int32, amt uint32) int32 {
	return a.setZero(a.shiftRight(x, amt))
}

// Asr shifts x right by amt, filling the vacated bits with ones when x is
// negative. The carry is as for Lsr.
func (a *ALU) Asr(x int32, amt uint32) int32 {
	z := a.shiftRight(x, amt)
	if x < 0 && amt > 0 {
		if amt >= 32 {
			z = -1
		} else {
			z |= -1 << (32 - amt)
		}
	}
	return a.setZero(z)
}

func (a *ALU) shiftRight(x int32, amt uint32) int32 {
	switch {
	case amt == 0:
		return x
	case amt <= 32:
		a.regFile.Flags.C = bit(x, amt-1)
		return int32(uint32(x) >> amt)
	default:
		a.regFile.Flags.C = false
		return 0
	}
}

// setArithFlags applies the add/sub rule: no carry when the operands differ
// in sign, otherwise carry when the result's sign differs from theirs.
func (a *ALU) setArithFlags(x, y, z int32) {
	signA, signB, signZ := x < 0, y < 0, z < 0
	if signA != signB {
		a.regFile.Flags.C = false
	} else {
		a.regFile.Flags.C = signZ != signA
	}
	a.setZero(z)
}

func (a *ALU) setZero(z int32) int32 {
	a.regFile.Flags.Z = z == 0
	return z
}

func bit(x int32, pos uint32) bool {
	return (uint32(x)>>pos)&1 != 0
}
