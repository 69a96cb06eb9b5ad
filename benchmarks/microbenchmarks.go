// Package benchmarks provides MISC benchmark programs and a harness that runs
// them functionally or under the timing model.
package benchmarks

import (
	"fmt"
	"maps"
	"slices"

	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/insts"
)

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Program builds the memory image for a layout and memory depth. The
	// image is loaded at address 0.
	Program func(l insts.Layout, memDepth int) []int32

	// ExpectedRegs and ExpectedMem are checked after the program halts.
	ExpectedRegs map[uint16]int32
	ExpectedMem  map[uint32]int32

	// ExpectedInstructions is the retired instruction count, 0 if unchecked.
	ExpectedInstructions uint64
}

// Verify compares the state seen through v with the expectations and
// returns one message per mismatch.
func (b Benchmark) Verify(v emu.View, instructions uint64) []string {
	var failures []string

	for _, ix := range slices.Sorted(maps.Keys(b.ExpectedRegs)) {
		want := b.ExpectedRegs[ix]
		if got := v.ReadReg(ix); got != want {
			failures = append(failures, fmt.Sprintf("r%d = %d, want %d", ix, got, want))
		}
	}

	for _, addr := range slices.Sorted(maps.Keys(b.ExpectedMem)) {
		want := b.ExpectedMem[addr]
		if got := v.ReadMem(addr); got != want {
			failures = append(failures, fmt.Sprintf("mem[%d] = %d, want %d", addr, got, want))
		}
	}

	if b.ExpectedInstructions != 0 && instructions != b.ExpectedInstructions {
		failures = append(failures, fmt.Sprintf("%d instructions, want %d",
			instructions, b.ExpectedInstructions))
	}

	return failures
}

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// targets a specific part of the instruction set or the timing model.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		nestedLoop(),
		fullDemo(),
		arithmeticSequential(),
		dependencyChain(),
		functionCalls(),
		stackReverse(),
		memoryWalk(),
		shifts(),
		logicAndCompare(),
		shiftRightImmediateLegacy(),
	}
}

// GetCoreBenchmarks returns a minimal set for quick validation: the demo
// loops and call overhead.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		nestedLoop(),
		fullDemo(),
		functionCalls(),
	}
}

// ByName returns the microbenchmark called name.
func ByName(name string) (Benchmark, bool) {
	for _, b := range GetMicrobenchmarks() {
		if b.Name == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

// Names returns the names of all microbenchmarks.
func Names() []string {
	var names []string
	for _, b := range GetMicrobenchmarks() {
		names = append(names, b.Name)
	}
	return names
}

func immed(l insts.Layout, op insts.Op, j uint16, v int32) int32 {
	return insts.Must(l.EncodeImmediate(op, j, v))
}

func regs(l insts.Layout, op insts.Op, j, k uint16, disp int32) int32 {
	return insts.Must(l.EncodeRegister(op, j, k, disp))
}

func branch(l insts.Layout, op insts.Op, cond insts.Cond, offset int32) int32 {
	return insts.Must(l.EncodeBranch(op, cond, offset))
}

func halt(l insts.Layout) int32 {
	return insts.Must(l.EncodeControl(insts.OpHalt))
}

// 1. Nested loop - the built-in demo: two passes of a two-iteration loop
func nestedLoop() Benchmark {
	return Benchmark{
		Name:        "nested_loop",
		Description: "2x2 nested counting loop - the built-in demo program",
		Program: func(l insts.Layout, memDepth int) []int32 {
			return []int32{
				immed(l, insts.OpLoadi, l.SPIndex(), int32(memDepth)),
				immed(l, insts.OpLoadi, 3, 2),
				immed(l, insts.OpLoadi, 0, 0), // outer
				immed(l, insts.OpLoadi, 1, 2),
				immed(l, insts.OpLoadi, 2, 2),
				immed(l, insts.OpAddi, 1, 1), // inner
				immed(l, insts.OpSubi, 2, 1),
				branch(l, insts.OpBr, insts.CondNotZero, -3),
				immed(l, insts.OpSubi, 3, 1),
				branch(l, insts.OpBr, insts.CondNotZero, -8),
				halt(l),
			}
		},
		ExpectedRegs:         map[uint16]int32{1: 4, 2: 0, 3: 0},
		ExpectedInstructions: 25,
	}
}

// 2. Full demo - nested loop, then a store over a skipped data word and a
// push/pop round trip
func fullDemo() Benchmark {
	return Benchmark{
		Name:        "full_demo",
		Description: "Nested loop plus store, push and pop - exercises loadil and the stack",
		Program: func(l insts.Layout, memDepth int) []int32 {
			return []int32{
				regs(l, insts.OpLoadil, l.SPIndex(), 0, 0),
				int32(memDepth),
				immed(l, insts.OpLoadi, 3, 2),
				immed(l, insts.OpLoadi, 0, 0), // outer
				immed(l, insts.OpLoadi, 1, 2),
				immed(l, insts.OpLoadi, 2, 2),
				immed(l, insts.OpAddi, 1, 1), // inner
				immed(l, insts.OpSubi, 2, 1),
				branch(l, insts.OpBr, insts.CondNotZero, -3),
				immed(l, insts.OpSubi, 3, 1),
				branch(l, insts.OpBr, insts.CondNotZero, -8),
				branch(l, insts.OpBr, insts.CondAlways, 1),
				0, // result slot
				immed(l, insts.OpLoadi, 4, 20),
				regs(l, insts.OpStore, 1, 4, -8),
				regs(l, insts.OpPush, 1, 0, 0),
				immed(l, insts.OpLoadi, 1, 666),
				regs(l, insts.OpPop, 1, 0, 0),
				halt(l),
			}
		},
		ExpectedRegs:         map[uint16]int32{1: 4, 4: 20},
		ExpectedMem:          map[uint32]int32{12: 4},
		ExpectedInstructions: 31,
	}
}

// 3. Arithmetic sequential - independent immediate adds over five registers
func arithmeticSequential() Benchmark {
	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent ADDI operations - measures ALU throughput",
		Program: func(l insts.Layout, _ int) []int32 {
			prog := make([]int32, 0, 26)
			for r := uint16(0); r < 5; r++ {
				prog = append(prog, immed(l, insts.OpLoadi, r, 0))
			}
			for i := 0; i < 20; i++ {
				prog = append(prog, immed(l, insts.OpAddi, uint16(i%5), 1))
			}
			return append(prog, halt(l))
		},
		ExpectedRegs:         map[uint16]int32{0: 4, 1: 4, 2: 4, 3: 4, 4: 4},
		ExpectedInstructions: 26,
	}
}

// 4. Dependency chain - every add reads the previous result
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent ADDIs (r0 += 1) - measures back-to-back latency",
		Program: func(l insts.Layout, _ int) []int32 {
			return buildDependencyChain(l, 20)
		},
		ExpectedRegs:         map[uint16]int32{0: 20},
		ExpectedInstructions: 22,
	}
}

func buildDependencyChain(l insts.Layout, n int) []int32 {
	prog := make([]int32, 0, n+2)
	prog = append(prog, immed(l, insts.OpLoadi, 0, 0))
	for i := 0; i < n; i++ {
		prog = append(prog, immed(l, insts.OpAddi, 0, 1))
	}
	return append(prog, halt(l))
}

// 5. Function calls - five calls to a leaf that increments r0
func functionCalls() Benchmark {
	return Benchmark{
		Name:        "function_calls",
		Description: "5 function calls (call + retn pairs) - measures call overhead",
		Program: func(l insts.Layout, memDepth int) []int32 {
			prog := []int32{
				regs(l, insts.OpLoadil, l.SPIndex(), 0, 0),
				int32(memDepth),
				immed(l, insts.OpLoadi, 0, 0),
			}
			// The leaf sits right after the halt at word 8.
			for pc := int32(3); pc < 8; pc++ {
				prog = append(prog, branch(l, insts.OpCall, insts.CondAlways, 8-pc))
			}
			return append(prog,
				halt(l),
				immed(l, insts.OpAddi, 0, 1), // leaf
				insts.Must(l.EncodeControl(insts.OpRetn)),
			)
		},
		ExpectedRegs:         map[uint16]int32{0: 5},
		ExpectedInstructions: 18,
	}
}

// 6. Stack reverse - three pushes popped back in reverse order
func stackReverse() Benchmark {
	return Benchmark{
		Name:        "stack_reverse",
		Description: "3 pushes and 3 pops into swapped registers - measures stack traffic",
		Program: func(l insts.Layout, memDepth int) []int32 {
			return []int32{
				regs(l, insts.OpLoadil, l.SPIndex(), 0, 0),
				int32(memDepth),
				immed(l, insts.OpLoadi, 1, 1),
				immed(l, insts.OpLoadi, 2, 2),
				immed(l, insts.OpLoadi, 3, 3),
				regs(l, insts.OpPush, 1, 0, 0),
				regs(l, insts.OpPush, 2, 0, 0),
				regs(l, insts.OpPush, 3, 0, 0),
				regs(l, insts.OpPop, 1, 0, 0),
				regs(l, insts.OpPop, 2, 0, 0),
				regs(l, insts.OpPop, 3, 0, 0),
				halt(l),
			}
		},
		ExpectedRegs:         map[uint16]int32{1: 3, 2: 2, 3: 1},
		ExpectedInstructions: 11,
	}
}

// 7. Memory walk - fill an 8-word array, then sum it
func memoryWalk() Benchmark {
	return Benchmark{
		Name:        "memory_walk",
		Description: "Store 1..8 to sequential words then load and sum them - measures data cache behavior",
		Program: func(l insts.Layout, _ int) []int32 {
			return []int32{
				immed(l, insts.OpLoadi, 0, 100),
				immed(l, insts.OpLoadi, 1, 8),
				immed(l, insts.OpLoadi, 2, 0),
				immed(l, insts.OpAddi, 2, 1), // fill
				regs(l, insts.OpStore, 2, 0, 0),
				immed(l, insts.OpAddi, 0, 1),
				immed(l, insts.OpSubi, 1, 1),
				branch(l, insts.OpBr, insts.CondNotZero, -5),
				immed(l, insts.OpLoadi, 0, 100),
				immed(l, insts.OpLoadi, 1, 8),
				immed(l, insts.OpLoadi, 3, 0),
				regs(l, insts.OpLoad, 4, 0, 0), // sum
				regs(l, insts.OpAdd, 3, 4, 0),
				immed(l, insts.OpAddi, 0, 1),
				immed(l, insts.OpSubi, 1, 1),
				branch(l, insts.OpBr, insts.CondNotZero, -5),
				halt(l),
			}
		},
		ExpectedRegs: map[uint16]int32{0: 108, 1: 0, 3: 36},
		ExpectedMem: map[uint32]int32{
			100: 1, 101: 2, 102: 3, 103: 4, 104: 5, 105: 6, 106: 7, 107: 8,
		},
		ExpectedInstructions: 87,
	}
}

// 8. Shifts - register and immediate shifts with both fill modes
func shifts() Benchmark {
	return Benchmark{
		Name:        "shifts",
		Description: "lsl, asr, lsr and lsli - measures shifter latency",
		Program: func(l insts.Layout, _ int) []int32 {
			return []int32{
				immed(l, insts.OpLoadi, 1, 1),
				immed(l, insts.OpLoadi, 2, 4),
				regs(l, insts.OpLsl, 1, 2, 0),
				immed(l, insts.OpLoadi, 3, -64),
				immed(l, insts.OpLoadi, 4, 2),
				regs(l, insts.OpAsr, 3, 4, 0),
				immed(l, insts.OpLoadi, 5, -64),
				regs(l, insts.OpLsr, 5, 4, 0),
				immed(l, insts.OpLoadi, 6, 3),
				immed(l, insts.OpLsli, 6, 5),
				halt(l),
			}
		},
		ExpectedRegs: map[uint16]int32{
			1: 16,
			3: -16,
			5: 0x3FFFFFF0,
			6: 96,
		},
		ExpectedInstructions: 11,
	}
}

// 9. Logic and compare - bitwise immediates, not, loadr and a taken
// conditional skip
func logicAndCompare() Benchmark {
	return Benchmark{
		Name:        "logic_compare",
		Description: "andi, ori, xori, not, loadr and cmpi with a zero branch",
		Program: func(l insts.Layout, _ int) []int32 {
			return []int32{
				immed(l, insts.OpLoadi, 1, 0xF0),
				immed(l, insts.OpAndi, 1, 0x3C),
				immed(l, insts.OpOri, 1, 0x100),
				immed(l, insts.OpXori, 1, 0x1FF),
				regs(l, insts.OpNot, 1, 0, 0),
				regs(l, insts.OpLoadr, 5, 1, 0),
				immed(l, insts.OpLoadi, 2, 5),
				immed(l, insts.OpCmpi, 2, 5),
				branch(l, insts.OpBr, insts.CondZero, 1),
				immed(l, insts.OpLoadi, 2, 99),
				halt(l),
			}
		},
		ExpectedRegs:         map[uint16]int32{1: ^int32(0xCF), 2: 5, 5: ^int32(0xCF)},
		ExpectedInstructions: 10,
	}
}

// 10. lsri legacy - the immediate right shift executes as a left shift
// unless the emulator is built with the corrected behavior.
func shiftRightImmediateLegacy() Benchmark {
	return Benchmark{
		Name:        "lsri_legacy",
		Description: "lsri r1, 2 on 8 - pins the legacy left-shift result of 32",
		Program: func(l insts.Layout, _ int) []int32 {
			return []int32{
				immed(l, insts.OpLoadi, 1, 8),
				immed(l, insts.OpLsri, 1, 2),
				halt(l),
			}
		},
		ExpectedRegs:         map[uint16]int32{1: 32},
		ExpectedInstructions: 3,
	}
}
