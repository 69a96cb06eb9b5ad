package insts

import "fmt"

// EncodeRegister packs a register-layout instruction: opcode, registers j
// and k, and a displacement that only load and store interpret. Immediate
// and branch/call opcodes are rejected.
func (l Layout) EncodeRegister(op Op, j, k uint16, immed int32) (int32, error) {
	if !op.Valid() || FormatOf(op) != FormatRegister {
		return 0, fmt.Errorf("%w: %v does not use the register layout", ErrEncoding, op)
	}
	if err := l.checkReg(op, j); err != nil {
		return 0, err
	}
	if err := l.checkReg(op, k); err != nil {
		return 0, err
	}

	immBits := l.ImmBits(FormatRegister)
	word := place(uint32(op), WordBits-OpBits, OpBits) |
		place(uint32(j), immBits+l.regBits, l.regBits) |
		place(uint32(k), immBits, l.regBits) |
		place(uint32(immed), 0, immBits)

	return int32(word), nil
}

// EncodeImmediate packs an immediate-layout instruction. op must satisfy
// HasImmed; immed is truncated to the field width.
func (l Layout) EncodeImmediate(op Op, j uint16, immed int32) (int32, error) {
	if !HasImmed(op) || IsBranchOrCall(op) {
		return 0, fmt.Errorf("%w: %v does not take an immediate", ErrEncoding, op)
	}
	if err := l.checkReg(op, j); err != nil {
		return 0, err
	}

	immBits := l.ImmBits(FormatImmediate)
	word := place(uint32(op), WordBits-OpBits, OpBits) |
		place(uint32(j), immBits, l.regBits) |
		place(uint32(immed), 0, immBits)

	return int32(word), nil
}

// EncodeBranch packs a branch or call with a condition and a signed word
// offset relative to the address following the instruction.
func (l Layout) EncodeBranch(op Op, cond Cond, immed int32) (int32, error) {
	if !IsBranchOrCall(op) {
		return 0, fmt.Errorf("%w: %v is not a branch or call", ErrEncoding, op)
	}
	if !cond.Valid() {
		return 0, fmt.Errorf("%w: condition %v on %v", ErrEncoding, cond, op)
	}

	word := place(uint32(op), WordBits-OpBits, OpBits) |
		place(uint32(cond), BranchImmBits, CondBits) |
		place(uint32(immed), 0, BranchImmBits)

	return int32(word), nil
}

// EncodeControl packs one of the zero-operand opcodes nop, halt and retn.
func (l Layout) EncodeControl(op Op) (int32, error) {
	if !IsControl(op) {
		return 0, fmt.Errorf("%w: %v takes operands", ErrEncoding, op)
	}
	return l.EncodeRegister(op, 0, 0, 0)
}

func (l Layout) checkReg(op Op, ix uint16) error {
	if int(ix) >= l.NumRegs() {
		return fmt.Errorf("%w: %v register %d outside %d registers",
			ErrEncoding, op, ix, l.NumRegs())
	}
	return nil
}

// Must returns word, panicking if err is non-nil. It is meant for programs
// written as literals where an encoding error is a programming mistake.
func Must(word int32, err error) int32 {
	if err != nil {
		panic(err)
	}
	return word
}
