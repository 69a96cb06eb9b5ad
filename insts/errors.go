package insts

import "errors"

var (
	// ErrLayout reports field widths that cannot encode the instruction set.
	ErrLayout = errors.New("invalid instruction layout")

	// ErrEncoding reports a precondition violation in an encoder call.
	ErrEncoding = errors.New("invalid encoding request")

	// ErrIllegalOpcode reports a decoded opcode field holding the sentinel.
	ErrIllegalOpcode = errors.New("illegal opcode")

	// ErrIllegalCondition reports a branch/call whose condition field holds
	// the sentinel or an undefined value.
	ErrIllegalCondition = errors.New("illegal condition")
)
