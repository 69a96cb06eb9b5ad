// Package insts provides MISC instruction definitions, encoding and decoding.
//
// Every instruction is a single 32-bit word whose top five bits hold the
// opcode. The remaining bits follow one of three layouts selected by the
// opcode class:
//   - Register: [opcode:5][regJ:W][regK:W][displacement:32-5-2W]
//   - Immediate: [opcode:5][regJ:W][immediate:32-5-W]
//   - Branch: [opcode:5][cond:3][offset:24]
//
// W is the register-index width of the Layout. Encoders and decoders of the
// same Layout are exact inverses for every representable operand.
//
// Usage:
//
//	layout, _ := insts.NewLayout(insts.DefaultRegisterBits)
//	word := insts.Must(layout.EncodeImmediate(insts.OpAddi, 1, 42))
//	inst, err := insts.NewDecoder(layout).Decode(uint32(word))
package insts
