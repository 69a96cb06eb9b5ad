// Package latency provides per-instruction cycle costs for the MISC timing
// model. The values can be configured via TimingConfig.
package latency

import (
	"github.com/sarchlab/miscsim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given instruction.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch {
	case t.IsBranchOp(inst):
		return t.config.BranchLatency
	case t.IsLoadOp(inst):
		return t.config.LoadLatency
	case t.IsStoreOp(inst):
		return t.config.StoreLatency
	case t.IsShiftOp(inst):
		return t.config.ShiftLatency
	default:
		return t.config.ALULatency
	}
}

// IsMemoryOp returns true if the instruction accesses data memory. Calls
// and returns touch the stack but are classed as branches.
func (t *Table) IsMemoryOp(inst *insts.Instruction) bool {
	return t.IsLoadOp(inst) || t.IsStoreOp(inst)
}

// IsLoadOp returns true if the instruction reads data memory.
func (t *Table) IsLoadOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpLoad, insts.OpLoadil, insts.OpPop:
		return true
	default:
		return false
	}
}

// IsStoreOp returns true if the instruction writes data memory.
func (t *Table) IsStoreOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Op == insts.OpStore || inst.Op == insts.OpPush
}

// IsShiftOp returns true if the instruction is one of the shifts.
func (t *Table) IsShiftOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	switch inst.Op {
	case insts.OpLsl, insts.OpLsli, insts.OpLsr, insts.OpLsri, insts.OpAsr, insts.OpAsri:
		return true
	default:
		return false
	}
}

// IsBranchOp returns true if the instruction can redirect the PC.
func (t *Table) IsBranchOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return insts.IsBranchOrCall(inst.Op) || inst.Op == insts.OpRetn
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
