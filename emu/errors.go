package emu

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig reports an emulator option outside its valid range.
	ErrConfig = errors.New("invalid emulator configuration")

	// ErrInternal reports an opcode reaching execute without a handler.
	ErrInternal = errors.New("internal consistency fault")

	// ErrProgramSize reports a program that does not fit in memory.
	ErrProgramSize = errors.New("program exceeds memory")
)

// IllegalInstructionError is the trap raised when a fetched word does not
// decode. Err wraps insts.ErrIllegalOpcode or insts.ErrIllegalCondition.
type IllegalInstructionError struct {
	PC   uint32 // address the word was fetched from
	Word uint32
	Err  error
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction 0x%08X at pc %d: %v", e.Word, e.PC, e.Err)
}

func (e *IllegalInstructionError) Unwrap() error {
	return e.Err
}
