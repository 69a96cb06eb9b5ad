package insts

import "fmt"

// Instruction represents a decoded MISC instruction.
type Instruction struct {
	Word   uint32 // raw instruction word
	Op     Op
	Format Format

	// Register indices. Only Rj is meaningful for the immediate layout and
	// neither is for branch/call.
	Rj uint16
	Rk uint16

	// Imm is the sign-extended immediate, displacement or branch offset.
	Imm int32

	// Cond is the branch/call condition, CondNotUsed for everything else.
	Cond Cond
}

// String returns a short human-readable rendering of the instruction.
func (i Instruction) String() string {
	switch i.Format {
	case FormatBranch:
		return fmt.Sprintf("%v %v %+d", i.Op, i.Cond, i.Imm)
	case FormatImmediate:
		return fmt.Sprintf("%v r%d, %d", i.Op, i.Rj, i.Imm)
	default:
		if IsControl(i.Op) {
			return i.Op.String()
		}
		return fmt.Sprintf("%v r%d, r%d, %d", i.Op, i.Rj, i.Rk, i.Imm)
	}
}

// Decoder decodes instruction words of one Layout.
type Decoder struct {
	layout Layout
}

// NewDecoder creates a new instruction decoder for layout.
func NewDecoder(layout Layout) *Decoder {
	return &Decoder{layout: layout}
}

// Layout returns the layout the decoder was built for.
func (d *Decoder) Layout() Layout {
	return d.layout
}

// Decode decodes a 32-bit instruction word. The sentinel opcode and an
// illegal branch condition are reported as errors wrapping ErrIllegalOpcode
// and ErrIllegalCondition.
func (d *Decoder) Decode(word uint32) (Instruction, error) {
	inst := Instruction{
		Word: word,
		Op:   Op(field(word, WordBits-OpBits, OpBits)),
		Cond: CondNotUsed,
	}

	if !inst.Op.Valid() {
		return inst, fmt.Errorf("%w: word 0x%08X", ErrIllegalOpcode, word)
	}

	inst.Format = FormatOf(inst.Op)
	w := d.layout.regBits

	switch inst.Format {
	case FormatBranch:
		inst.Cond = Cond(field(word, BranchImmBits, CondBits))
		inst.Imm = SignExtend(field(word, 0, BranchImmBits), BranchImmBits)
		if !inst.Cond.Valid() {
			return inst, fmt.Errorf("%w: %v condition %d in word 0x%08X",
				ErrIllegalCondition, inst.Op, uint8(inst.Cond), word)
		}
	case FormatImmediate:
		immBits := d.layout.ImmBits(FormatImmediate)
		inst.Rj = uint16(field(word, immBits, w))
		inst.Imm = SignExtend(field(word, 0, immBits), immBits)
	default:
		immBits := d.layout.ImmBits(FormatRegister)
		inst.Rj = uint16(field(word, immBits+w, w))
		inst.Rk = uint16(field(word, immBits, w))
		inst.Imm = SignExtend(field(word, 0, immBits), immBits)
	}

	return inst, nil
}
