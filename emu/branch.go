package emu

import (
	"fmt"

	"github.com/sarchlab/miscsim/insts"
)

// BranchUnit implements MISC branch, call and return operations. Offsets are
// in words and relative to the address following the instruction, which is
// where PC points once the instruction has been fetched.
type BranchUnit struct {
	regFile *RegFile
	lsu     *LoadStoreUnit
}

// NewBranchUnit creates a new BranchUnit. Calls and returns use lsu for the
// memory-resident stack.
func NewBranchUnit(regFile *RegFile, lsu *LoadStoreUnit) *BranchUnit {
	return &BranchUnit{regFile: regFile, lsu: lsu}
}

// CheckCondition evaluates the condition of a branch or call against the
// current flags.
func (b *BranchUnit) CheckCondition(inst insts.Instruction) (bool, error) {
	if !insts.IsBranchOrCall(inst.Op) {
		return false, fmt.Errorf("%w: condition evaluated on %v", ErrInternal, inst.Op)
	}

	flags := b.regFile.Flags
	switch inst.Cond {
	case insts.CondAlways:
		return true, nil
	case insts.CondCarry:
		return flags.C, nil
	case insts.CondNotCarry:
		return !flags.C, nil
	case insts.CondZero:
		return flags.Z, nil
	case insts.CondNotZero:
		return !flags.Z, nil
	default:
		return false, fmt.Errorf("%w: condition %v on %v",
			insts.ErrIllegalCondition, inst.Cond, inst.Op)
	}
}

// Branch adds offset to PC.
func (b *BranchUnit) Branch(offset int32) {
	b.regFile.PC += uint32(offset)
}

// Call pushes PC, the return address, then adds offset to PC. It returns the
// stack address written.
func (b *BranchUnit) Call(offset int32) uint32 {
	addr := b.lsu.Push(int32(b.regFile.PC))
	b.regFile.PC += uint32(offset)
	return addr
}

// Return pops the return address into PC. It returns the stack address read.
func (b *BranchUnit) Return() uint32 {
	target, addr := b.lsu.Pop()
	b.regFile.PC = uint32(target)
	return addr
}
