// Package main provides accuracy validation for the MISC simulator. It
// checks that the encoder and decoder agree on every benchmark word and that
// attaching the timing model never changes architectural results.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/sarchlab/miscsim/benchmarks"
	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/insts"
	"github.com/sarchlab/miscsim/timing/branch"
	"github.com/sarchlab/miscsim/timing/core"
)

// reencode packs a decoded instruction back into a word.
func reencode(l insts.Layout, inst insts.Instruction) (int32, error) {
	switch inst.Format {
	case insts.FormatBranch:
		return l.EncodeBranch(inst.Op, inst.Cond, inst.Imm)
	case insts.FormatImmediate:
		return l.EncodeImmediate(inst.Op, inst.Rj, inst.Imm)
	default:
		return l.EncodeRegister(inst.Op, inst.Rj, inst.Rk, inst.Imm)
	}
}

// testInstructionDecoding validates that every benchmark word decodes and
// encodes back to itself.
func testInstructionDecoding() bool {
	fmt.Println("Testing instruction decoder accuracy...")

	for _, bits := range []uint{3, insts.DefaultRegisterBits, insts.MaxRegisterBits} {
		l, err := insts.NewLayout(bits)
		if err != nil {
			fmt.Printf("❌ Layout with %d register bits: %v\n", bits, err)
			return false
		}
		decoder := insts.NewDecoder(l)

		for _, b := range benchmarks.GetMicrobenchmarks() {
			for addr, word := range b.Program(l, 1<<12) {
				inst, err := decoder.Decode(uint32(word))
				if err != nil {
					fmt.Printf("❌ %s word %d (0x%08X): %v\n", b.Name, addr, uint32(word), err)
					return false
				}
				back, err := reencode(l, inst)
				if err != nil || back != word {
					fmt.Printf("❌ %s word %d: 0x%08X decoded as %v re-encodes to 0x%08X (%v)\n",
						b.Name, addr, uint32(word), inst, uint32(back), err)
					return false
				}
			}
		}
		fmt.Printf("✅ %d register bits: all benchmark words round-trip\n", bits)
	}

	return true
}

func runBenchmark(b benchmarks.Benchmark, timed bool) (emu.Snapshot, error) {
	var opts []emu.EmulatorOption
	if timed {
		opts = append(opts, emu.WithPerfMon(core.NewMonitor()))
	}

	e, err := emu.NewEmulator(opts...)
	if err != nil {
		return emu.Snapshot{}, err
	}
	if err := e.LoadProgram(b.Program(e.Layout(), e.MemDepth())); err != nil {
		return emu.Snapshot{}, err
	}
	err = e.Run(0)
	return e.Snapshot(), err
}

// testTimingTransparency validates that the timing monitor leaves registers,
// flags and counts identical to a functional run.
func testTimingTransparency() bool {
	fmt.Println("\nTesting timing model transparency...")

	for _, b := range benchmarks.GetMicrobenchmarks() {
		functional, err := runBenchmark(b, false)
		if err != nil {
			fmt.Printf("❌ %s functional run: %v\n", b.Name, err)
			return false
		}
		timed, err := runBenchmark(b, true)
		if err != nil {
			fmt.Printf("❌ %s timed run: %v\n", b.Name, err)
			return false
		}

		if functional.PC != timed.PC ||
			functional.Flags != timed.Flags ||
			functional.InstructionCount != timed.InstructionCount ||
			!slices.Equal(functional.Regs, timed.Regs) {
			fmt.Printf("❌ %s: timed state differs\n", b.Name)
			fmt.Printf("  functional: pc=%d flags=%+v count=%d\n",
				functional.PC, functional.Flags, functional.InstructionCount)
			fmt.Printf("  timed:      pc=%d flags=%+v count=%d\n",
				timed.PC, timed.Flags, timed.InstructionCount)
			return false
		}

		fmt.Printf("✅ %s: %d instructions, identical state\n", b.Name, timed.InstructionCount)
	}

	return true
}

// testBranchPredictorAccuracy validates that two predictors trained on the
// same outcomes make the same predictions, before and after Reset.
func testBranchPredictorAccuracy() bool {
	fmt.Println("\nTesting branch predictor accuracy...")

	config := branch.Config{BHTSize: 16, BTBSize: 8}
	bp1 := branch.NewPredictor(config)
	bp2 := branch.NewPredictor(config)

	testPCs := []uint32{7, 9, 23, 40}
	testTarget := uint32(5)

	for i, pc := range testPCs {
		pred1 := bp1.Predict(pc)
		pred2 := bp2.Predict(pc)

		if pred1 != pred2 {
			fmt.Printf("❌ Prediction mismatch at pc %d\n", pc)
			return false
		}

		bp1.Update(pc, i%2 == 0, testTarget)
		bp2.Update(pc, i%2 == 0, testTarget)

		fmt.Printf("✅ pc %d: Prediction consistent (taken=%v, target=%d)\n",
			pc, pred1.Taken, pred1.Target)
	}

	bp1.Reset()
	bp2.Reset()

	for _, pc := range testPCs {
		if bp1.Predict(pc) != bp2.Predict(pc) {
			fmt.Printf("❌ Post-reset prediction mismatch at pc %d\n", pc)
			return false
		}
	}

	fmt.Println("✅ Branch predictor reset behavior validated")
	return true
}

func main() {
	fmt.Println("MISC Accuracy Validation")
	fmt.Println("========================")

	allPassed := true

	if !testInstructionDecoding() {
		allPassed = false
	}

	if !testTimingTransparency() {
		allPassed = false
	}

	if !testBranchPredictorAccuracy() {
		allPassed = false
	}

	fmt.Println("\n========================")
	if allPassed {
		fmt.Println("🎉 ALL ACCURACY TESTS PASSED")
		os.Exit(0)
	} else {
		fmt.Println("❌ ACCURACY TESTS FAILED")
		os.Exit(1)
	}
}
