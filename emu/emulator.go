package emu

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/miscsim/insts"
)

// Memory width limits, in address bits.
const (
	DefaultMemoryBits = 20
	MaxMemoryBits     = 30
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if the instruction executed was halt.
	Halted bool

	// Err is set if the instruction trapped. The emulator stays faulted and
	// every later Step returns the same error.
	Err error
}

// Emulator executes MISC instructions functionally.
type Emulator struct {
	layout  insts.Layout
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	perfMon PerfMon
	logger  *log.Logger

	// Construction parameters set by options
	regBits          uint
	memBits          uint
	noDefaultPerfMon bool
	fixedLsri        bool

	// Execution state
	current          Working
	instructionCount uint64
	halted           bool
	fault            error
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithRegisterBits sets the register-index width W. The emulator has 2^W
// registers.
func WithRegisterBits(bits uint) EmulatorOption {
	return func(e *Emulator) {
		e.regBits = bits
	}
}

// WithMemoryBits sets the memory address width D. The emulator has 2^D
// words of memory.
func WithMemoryBits(bits uint) EmulatorOption {
	return func(e *Emulator) {
		e.memBits = bits
	}
}

// WithoutDefaultPerfMon leaves the emulator without an observer unless one
// is given with WithPerfMon.
func WithoutDefaultPerfMon() EmulatorOption {
	return func(e *Emulator) {
		e.noDefaultPerfMon = true
	}
}

// WithPerfMon attaches p in place of the default Counter.
func WithPerfMon(p PerfMon) EmulatorOption {
	return func(e *Emulator) {
		e.perfMon = p
	}
}

// WithLogger logs every executed instruction at debug level and traps at
// error level.
func WithLogger(logger *log.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithFixedShiftRightImmediate makes lsri shift right. Without it lsri
// executes a left shift, matching existing MISC binaries.
func WithFixedShiftRightImmediate() EmulatorOption {
	return func(e *Emulator) {
		e.fixedLsri = true
	}
}

// NewEmulator creates a new MISC emulator. Registers hold RegisterFill and
// memory holds insts.IllegalWord until a program is loaded.
func NewEmulator(opts ...EmulatorOption) (*Emulator, error) {
	e := &Emulator{
		regBits: insts.DefaultRegisterBits,
		memBits: DefaultMemoryBits,
	}

	for _, opt := range opts {
		opt(e)
	}

	layout, err := insts.NewLayout(e.regBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if e.memBits == 0 || e.memBits > MaxMemoryBits {
		return nil, fmt.Errorf("%w: memory address width %d outside [1,%d]",
			ErrConfig, e.memBits, MaxMemoryBits)
	}

	e.layout = layout
	e.decoder = insts.NewDecoder(layout)
	e.regFile = NewRegFile(layout.NumRegs())
	e.memory = NewMemory(e.memBits)

	// Create execution units
	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile, e.lsu)

	if e.perfMon == nil && !e.noDefaultPerfMon {
		e.perfMon = NewCounter()
	}

	e.Reset()

	return e, nil
}

// Layout returns the instruction layout programs for this emulator must be
// encoded with.
func (e *Emulator) Layout() insts.Layout {
	return e.layout
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// SetPerfMon attaches or replaces the observer. A nil p detaches it.
func (e *Emulator) SetPerfMon(p PerfMon) {
	e.perfMon = p
}

// PerfMon returns the attached observer, or nil.
func (e *Emulator) PerfMon() PerfMon {
	return e.perfMon
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Halted reports whether the last instruction executed was halt.
func (e *Emulator) Halted() bool {
	return e.halted
}

// Fault returns the trap that stopped the emulator, or nil.
func (e *Emulator) Fault() error {
	return e.fault
}

// LoadProgram copies words into memory from address 0, stopping before the
// first insts.ProgramEnd.
func (e *Emulator) LoadProgram(words []int32) error {
	for i, w := range words {
		if w == insts.ProgramEnd {
			words = words[:i]
			break
		}
	}
	return e.memory.Load(0, words)
}

// Reset clears PC, flags and any trap. Registers and memory keep their
// contents.
func (e *Emulator) Reset() {
	e.regFile.PC = 0
	e.regFile.Flags = Flags{}
	e.current = Working{Inst: insts.Instruction{Cond: insts.CondNotUsed}}
	e.halted = false
	e.fault = nil
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	if e.fault != nil {
		return StepResult{Err: e.fault}
	}

	// 1. Fetch
	pc := e.regFile.PC
	word := uint32(e.memory.Read(pc))
	e.regFile.PC++

	// 2. Decode
	inst, err := e.decoder.Decode(word)
	if err != nil {
		return e.trap(&IllegalInstructionError{PC: pc, Word: word, Err: err})
	}
	e.current = Working{Inst: inst, PC: pc}
	e.readOperands(&e.current)

	// 3. Execute
	if err := e.execute(&e.current); err != nil {
		return e.trap(err)
	}

	e.instructionCount++

	if e.logger != nil {
		e.logger.Debug("Executed",
			log.Hex("pc", pc),
			log.Hex("word", word),
			log.String("inst", inst.String()))
	}

	if e.perfMon != nil {
		e.perfMon.Process(e)
	}

	e.halted = inst.Op == insts.OpHalt
	return StepResult{Halted: e.halted}
}

// Run executes instructions until halt, a trap, or until budget
// instructions have executed. A budget of 0 means no limit.
func (e *Emulator) Run(budget uint64) error {
	for {
		result := e.Step()
		if result.Err != nil {
			return result.Err
		}
		if result.Halted {
			return nil
		}
		if budget > 0 {
			budget--
			if budget == 0 {
				return nil
			}
		}
	}
}

func (e *Emulator) trap(err error) StepResult {
	e.fault = err
	e.halted = false
	if e.logger != nil {
		e.logger.Error("Trap", log.Err(err))
	}
	return StepResult{Err: err}
}

// readOperands pre-loads the register values the opcode consumes.
func (e *Emulator) readOperands(w *Working) {
	if insts.ReadsRJ(w.Inst.Op) {
		w.RJ = e.regFile.ReadReg(w.Inst.Rj)
	}
	if insts.ReadsRK(w.Inst.Op) {
		w.RK = e.regFile.ReadReg(w.Inst.Rk)
	}
}

// execute dispatches and executes a decoded instruction.
//
//nolint:gocyclo // one case per opcode
func (e *Emulator) execute(w *Working) error {
	inst := w.Inst
	writeBack := true

	switch inst.Op {
	case insts.OpNop, insts.OpHalt:
		return nil

	// Arithmetic
	case insts.OpAdd:
		w.ALUZ = e.alu.Add(w.RJ, w.RK)
	case insts.OpAddi:
		w.ALUZ = e.alu.Add(w.RJ, inst.Imm)
	case insts.OpSub:
		w.ALUZ = e.alu.Sub(w.RJ, w.RK)
	case insts.OpSubi:
		w.ALUZ = e.alu.Sub(w.RJ, inst.Imm)
	case insts.OpCmp:
		w.ALUZ = e.alu.Sub(w.RJ, w.RK)
		writeBack = false
	case insts.OpCmpi:
		w.ALUZ = e.alu.Sub(w.RJ, inst.Imm)
		writeBack = false

	// Shifts
	case insts.OpLsl:
		w.ALUZ = e.alu.Lsl(w.RJ, uint32(w.RK))
	case insts.OpLsli:
		w.ALUZ = e.alu.Lsl(w.RJ, uint32(inst.Imm))
	case insts.OpLsr:
		w.ALUZ = e.alu.Lsr(w.RJ, uint32(w.RK))
	case insts.OpLsri:
		if e.fixedLsri {
			w.ALUZ = e.alu.Lsr(w.RJ, uint32(inst.Imm))
		} else {
			w.ALUZ = e.alu.Lsl(w.RJ, uint32(inst.Imm))
		}
	case insts.OpAsr:
		w.ALUZ = e.alu.Asr(w.RJ, uint32(w.RK))
	case insts.OpAsri:
		w.ALUZ = e.alu.Asr(w.RJ, uint32(inst.Imm))

	// Logic
	case insts.OpAnd:
		w.ALUZ = e.alu.And(w.RJ, w.RK)
	case insts.OpOr:
		w.ALUZ = e.alu.Or(w.RJ, w.RK)
	case insts.OpXor:
		w.ALUZ = e.alu.Xor(w.RJ, w.RK)
	case insts.OpAndi:
		w.ALUZ = e.alu.And(w.RJ, inst.Imm)
	case insts.OpOri:
		w.ALUZ = e.alu.Or(w.RJ, inst.Imm)
	case insts.OpXori:
		w.ALUZ = e.alu.Xor(w.RJ, inst.Imm)
	case insts.OpNot:
		w.ALUZ = e.alu.Not(w.RJ)

	default:
		return e.executeNonALU(w)
	}

	if writeBack {
		e.regFile.WriteReg(inst.Rj, w.ALUZ)
	}
	return nil
}

// executeNonALU handles memory, stack and control-flow opcodes.
func (e *Emulator) executeNonALU(w *Working) error {
	inst := w.Inst

	switch inst.Op {
	case insts.OpLoad:
		w.Access, w.Addr = AccessRead, e.lsu.Load(inst.Rj, w.RK, inst.Imm)
	case insts.OpLoadr:
		e.regFile.WriteReg(inst.Rj, w.RK)
	case insts.OpLoadi:
		e.regFile.WriteReg(inst.Rj, inst.Imm)
	case insts.OpLoadil:
		w.Access, w.Addr = AccessRead, e.lsu.LoadLong(inst.Rj)
	case insts.OpStore:
		w.Access, w.Addr = AccessWrite, e.lsu.Store(w.RJ, w.RK, inst.Imm)
	case insts.OpPush:
		w.Access, w.Addr = AccessWrite, e.lsu.Push(w.RJ)
	case insts.OpPop:
		value, addr := e.lsu.Pop()
		e.regFile.WriteReg(inst.Rj, value)
		w.Access, w.Addr = AccessRead, addr

	case insts.OpBr, insts.OpCall:
		taken, err := e.branchUnit.CheckCondition(inst)
		if err != nil {
			return err
		}
		w.Taken = taken
		if !taken {
			return nil
		}
		if inst.Op == insts.OpCall {
			w.Access, w.Addr = AccessWrite, e.branchUnit.Call(inst.Imm)
		} else {
			e.branchUnit.Branch(inst.Imm)
		}
	case insts.OpRetn:
		w.Taken = true
		w.Access, w.Addr = AccessRead, e.branchUnit.Return()

	default:
		return fmt.Errorf("%w: no handler for %v at pc %d", ErrInternal, inst.Op, w.PC)
	}

	return nil
}

// PC returns the address of the next instruction to fetch.
func (e *Emulator) PC() uint32 {
	return e.regFile.PC
}

// ReadReg reads register ix.
func (e *Emulator) ReadReg(ix uint16) int32 {
	return e.regFile.ReadReg(ix)
}

// NumRegs returns the number of registers.
func (e *Emulator) NumRegs() int {
	return len(e.regFile.R)
}

// SPIndex returns the index of the stack-pointer register.
func (e *Emulator) SPIndex() uint16 {
	return e.layout.SPIndex()
}

// Flags returns the condition flags.
func (e *Emulator) Flags() Flags {
	return e.regFile.Flags
}

// Current returns the working fields of the last executed instruction.
func (e *Emulator) Current() Working {
	return e.current
}

// ReadMem reads the memory word at addr.
func (e *Emulator) ReadMem(addr uint32) int32 {
	return e.memory.Read(addr)
}

// MemDepth returns the number of memory words.
func (e *Emulator) MemDepth() int {
	return e.memory.Depth()
}
