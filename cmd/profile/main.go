// Package main provides a profiling wrapper for the MISC emulator to identify
// performance bottlenecks.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/miscsim/benchmarks"
	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/loader"
	"github.com/sarchlab/miscsim/timing/core"
)

var (
	timing      = flag.Bool("timing", false, "Enable timing simulation mode")
	bench       = flag.String("bench", "memory_walk", "Benchmark program to profile when no program file is given")
	cpuProfile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile  = flag.String("memprofile", "", "write memory profile to file")
	duration    = flag.Duration("duration", 30*time.Second, "max duration to run (for profiling)")
	iterations  = flag.Int("iterations", 10000, "number of times to run the program")
	instruction = flag.Uint64("max-instr", 1000000, "max instructions per run (0 = unlimited)")
)

func main() {
	flag.Parse()

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] [program.txt]\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	image, err := programImage(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	// Start CPU profiling if requested
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()
	deadline := start.Add(*duration)

	var instrCount uint64
	var cycles uint64
	runs := 0
	for ; runs < *iterations && time.Now().Before(deadline); runs++ {
		n, c, err := runOnce(image)
		instrCount += n
		cycles += c
		if err != nil {
			fmt.Fprintf(os.Stderr, "Run %d stopped: %v\n", runs, err)
			runs++
			break
		}
	}

	elapsed := time.Since(start)

	// Write memory profile if requested
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Runs: %d\n", runs)
	fmt.Printf("Instructions executed: %d\n", instrCount)
	if *timing {
		fmt.Printf("Simulated cycles: %d\n", cycles)
	}
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if instrCount > 0 {
		fmt.Printf("Instructions/second: %.0f\n", float64(instrCount)/elapsed.Seconds())
	}
}

// programImage returns the words of the program file at path, or of the
// selected benchmark built for the default layout when path is empty.
func programImage(path string) ([]int32, error) {
	if path != "" {
		prog, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		return prog.Words, nil
	}

	b, ok := benchmarks.ByName(*bench)
	if !ok {
		return nil, fmt.Errorf("unknown benchmark %q", *bench)
	}
	e, err := emu.NewEmulator()
	if err != nil {
		return nil, err
	}
	return b.Program(e.Layout(), e.MemDepth()), nil
}

// runOnce runs image on a fresh emulator and returns the instruction and
// cycle counts.
func runOnce(image []int32) (uint64, uint64, error) {
	var opts []emu.EmulatorOption
	var monitor *core.Monitor
	if *timing {
		monitor = core.NewMonitor()
		opts = append(opts, emu.WithPerfMon(monitor))
	}

	e, err := emu.NewEmulator(opts...)
	if err != nil {
		return 0, 0, err
	}
	if err := e.Memory().Load(0, image); err != nil {
		return 0, 0, err
	}

	runErr := e.Run(*instruction)

	var cycles uint64
	if monitor != nil {
		cycles = monitor.Stats().Cycles
	}
	return e.InstructionCount(), cycles, runErr
}
