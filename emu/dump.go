package emu

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Snapshot is a copy of the architectural state and the working fields of
// the last instruction.
type Snapshot struct {
	PC               uint32
	Flags            Flags
	Regs             []int32
	Current          Working
	InstructionCount uint64
	Halted           bool
	Fault            string
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Snapshot copies the current state.
func (e *Emulator) Snapshot() Snapshot {
	s := Snapshot{
		PC:               e.regFile.PC,
		Flags:            e.regFile.Flags,
		Regs:             append([]int32(nil), e.regFile.R...),
		Current:          e.current,
		InstructionCount: e.instructionCount,
		Halted:           e.halted,
	}
	if e.fault != nil {
		s.Fault = e.fault.Error()
	}
	return s
}

// DumpRegs writes registers lo through hi, one per line. hi is clamped to
// the last register.
func (e *Emulator) DumpRegs(w io.Writer, lo, hi uint16) error {
	if last := e.SPIndex(); hi > last {
		hi = last
	}
	for ix := int(lo); ix <= int(hi); ix++ {
		if _, err := fmt.Fprintf(w, "r%d=%d\n", ix, e.regFile.R[ix]); err != nil {
			return err
		}
	}
	return nil
}

// DumpState writes a full dump of Snapshot.
func (e *Emulator) DumpState(w io.Writer) {
	dumpConfig.Fdump(w, e.Snapshot())
}
