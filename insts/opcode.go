package insts

// Op represents a MISC opcode. The numeric values are part of the encoding.
type Op uint8

// MISC opcodes.
const (
	OpNop Op = iota

	// Arithmetic
	OpAdd  // r[j] = r[j] + r[k]
	OpAddi // r[j] = r[j] + immed
	OpSub  // r[j] = r[j] - r[k]
	OpSubi // r[j] = r[j] - immed

	// Load/store
	OpLoad   // r[j] = mem[r[k]+immed]
	OpLoadr  // r[j] = r[k]
	OpLoadi  // r[j] = immed
	OpLoadil // r[j] = mem[pc], the word following the instruction
	OpStore  // mem[r[k]+immed] = r[j]
	OpPush   // mem[--sp] = r[j]
	OpPop    // r[j] = mem[sp++]

	// Shift and logic
	OpLsl  // r[j] = r[j] << r[k]
	OpLsli // r[j] = r[j] << immed
	OpLsr  // r[j] = r[j] >> r[k], zero fill
	OpLsri // r[j] = r[j] >> immed, zero fill
	OpAsr  // r[j] = r[j] >> r[k], sign fill
	OpAsri // r[j] = r[j] >> immed, sign fill
	OpAnd  // r[j] = r[j] & r[k]
	OpOr   // r[j] = r[j] | r[k]
	OpXor  // r[j] = r[j] ^ r[k]
	OpAndi // r[j] = r[j] & immed
	OpOri  // r[j] = r[j] | immed
	OpXori // r[j] = r[j] ^ immed
	OpNot  // r[j] = ^r[j]
	OpCmp  // flags of r[j] - r[k]
	OpCmpi // flags of r[j] - immed

	// Control
	OpBr   // pc = pc + immed if cond
	OpCall // push pc; pc = pc + immed if cond
	OpRetn // pc = pop()
	OpHalt

	// OpNotUsed is the reserved sentinel. It is never produced by an encoder
	// and decoding it is an illegal-opcode fault.
	OpNotUsed
)

var opNames = [...]string{
	OpNop:     "nop",
	OpAdd:     "add",
	OpAddi:    "addi",
	OpSub:     "sub",
	OpSubi:    "subi",
	OpLoad:    "load",
	OpLoadr:   "loadr",
	OpLoadi:   "loadi",
	OpLoadil:  "loadil",
	OpStore:   "store",
	OpPush:    "push",
	OpPop:     "pop",
	OpLsl:     "lsl",
	OpLsli:    "lsli",
	OpLsr:     "lsr",
	OpLsri:    "lsri",
	OpAsr:     "asr",
	OpAsri:    "asri",
	OpAnd:     "and",
	OpOr:      "or",
	OpXor:     "xor",
	OpAndi:    "andi",
	OpOri:     "ori",
	OpXori:    "xori",
	OpNot:     "not",
	OpCmp:     "cmp",
	OpCmpi:    "cmpi",
	OpBr:      "br",
	OpCall:    "call",
	OpRetn:    "retn",
	OpHalt:    "halt",
	OpNotUsed: "notused",
}

// String returns the mnemonic of the opcode.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "op?"
}

// Valid reports whether op is a real opcode (not the sentinel, not out of range).
func (op Op) Valid() bool {
	return op < OpNotUsed
}

// HasImmed reports whether op uses the immediate-with-one-register layout.
func HasImmed(op Op) bool {
	switch op {
	case OpAddi, OpAsri, OpLoadi, OpLsli, OpLsri,
		OpSubi, OpAndi, OpOri, OpXori, OpCmpi:
		return true
	default:
		return false
	}
}

// IsBranchOrCall reports whether op uses the condition-coded layout.
func IsBranchOrCall(op Op) bool {
	return op == OpBr || op == OpCall
}

// IsControl reports whether op is one of the zero-operand control opcodes.
func IsControl(op Op) bool {
	return op == OpNop || op == OpHalt || op == OpRetn
}

// ReadsRJ reports whether decode pre-loads the value of register j for op.
func ReadsRJ(op Op) bool {
	switch op {
	case OpAdd, OpSub, OpCmp, OpLoad, OpLoadr, OpStore,
		OpLsl, OpLsr, OpAsr, OpAnd, OpOr, OpXor,
		OpAndi, OpOri, OpXori, OpAddi, OpSubi, OpCmpi,
		OpLoadi, OpLsli, OpLsri, OpAsri, OpNot, OpPush:
		return true
	default:
		return false
	}
}

// ReadsRK reports whether decode pre-loads the value of register k for op.
func ReadsRK(op Op) bool {
	switch op {
	case OpAdd, OpSub, OpCmp, OpLoad, OpLoadr, OpStore,
		OpLsl, OpLsr, OpAsr, OpAnd, OpOr, OpXor:
		return true
	default:
		return false
	}
}

// Format represents an instruction encoding layout.
type Format uint8

// Instruction formats.
const (
	FormatRegister  Format = iota // [opcode][regJ][regK][displacement]
	FormatImmediate               // [opcode][regJ][immediate]
	FormatBranch                  // [opcode][cond][offset]
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatRegister:
		return "register"
	case FormatImmediate:
		return "immediate"
	case FormatBranch:
		return "branch"
	default:
		return "format?"
	}
}

// FormatOf returns the layout used by op. The register layout is the
// default when op is neither immediate nor branch/call.
func FormatOf(op Op) Format {
	switch {
	case HasImmed(op):
		return FormatImmediate
	case IsBranchOrCall(op):
		return FormatBranch
	default:
		return FormatRegister
	}
}

// Cond represents a branch/call condition code.
type Cond uint8

// Condition codes.
const (
	CondAlways   Cond = 0 // unconditional
	CondCarry    Cond = 1 // carry flag set
	CondNotCarry Cond = 2 // carry flag clear
	CondZero     Cond = 3 // zero flag set
	CondNotZero  Cond = 4 // zero flag clear
	CondNotUsed  Cond = 5 // sentinel for non-branch instructions
)

var condNames = [...]string{
	CondAlways:   "always",
	CondCarry:    "cy",
	CondNotCarry: "!cy",
	CondZero:     "zero",
	CondNotZero:  "!zero",
	CondNotUsed:  "notused",
}

// String returns a short name for the condition.
func (c Cond) String() string {
	if int(c) < len(condNames) {
		return condNames[c]
	}
	return "cond?"
}

// Valid reports whether c may appear on a branch or call.
func (c Cond) Valid() bool {
	return c < CondNotUsed
}
