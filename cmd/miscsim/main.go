// Command miscsim runs MISC programs on the functional emulator, optionally
// under the timing model.
//
// Usage:
//
//	miscsim [flags] [program.txt]
//
// Without a program file the selected benchmark program runs, by default
// the nested-loop demo. A program file holds one decimal word per memory
// location starting at address 0.
//
// Example:
//
//	# Run the demo and print r0..r7 and the stack pointer
//	go run ./cmd/miscsim
//
//	# Write a benchmark program to a file, then run it with timing
//	go run ./cmd/miscsim -bench full_demo -emit demo.txt
//	go run ./cmd/miscsim -timing demo.txt
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/retrogolib/log"

	"github.com/sarchlab/miscsim/benchmarks"
	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/insts"
	"github.com/sarchlab/miscsim/loader"
	"github.com/sarchlab/miscsim/timing/core"
	"github.com/sarchlab/miscsim/timing/latency"
)

const defaultBenchmark = "nested_loop"

var errUsage = errors.New("invalid usage")

type options struct {
	program    string
	bench      string
	list       bool
	emit       string
	budget     uint64
	regBits    uint
	memBits    uint
	fixLsri    bool
	timing     bool
	configPath string
	regs       string
	state      bool
	lang       string
	verbose    bool
	quiet      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger := createLogger(opts.verbose, opts.quiet)

	if err := simulate(opts, logger, stdout); err != nil {
		logger.Error("Simulation failed", log.Err(err))
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("miscsim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.bench, "bench", defaultBenchmark, "Benchmark program to run when no program file is given")
	fs.BoolVar(&opts.list, "list", false, "List benchmark programs and exit")
	fs.StringVar(&opts.emit, "emit", "", "Write the selected benchmark program to this file and exit")
	fs.Uint64Var(&opts.budget, "n", 0, "Instruction budget, 0 runs until halt")
	fs.UintVar(&opts.regBits, "w", insts.DefaultRegisterBits, "Register index width in bits")
	fs.UintVar(&opts.memBits, "d", emu.DefaultMemoryBits, "Memory address width in bits")
	fs.BoolVar(&opts.fixLsri, "fix-lsri", false, "Execute lsri as a right shift instead of the legacy left shift")
	fs.BoolVar(&opts.timing, "timing", false, "Enable timing simulation mode")
	fs.StringVar(&opts.configPath, "config", "", "Path to timing configuration JSON file")
	fs.StringVar(&opts.regs, "regs", "0:7", "Register range to dump as lo:hi, empty for none")
	fs.BoolVar(&opts.state, "state", false, "Dump the full emulator state after the run")
	fs.StringVar(&opts.lang, "lang", "", "Language tag for the report, default from the system locale")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output, logs every instruction")
	fs.BoolVar(&opts.quiet, "q", false, "Only log errors")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: miscsim [options] [program.txt]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return nil, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args()[1:])
	}
	opts.program = fs.Arg(0)

	return opts, nil
}

func simulate(opts *options, logger *log.Logger, stdout io.Writer) error {
	if opts.list {
		for _, b := range benchmarks.GetMicrobenchmarks() {
			_, _ = fmt.Fprintf(stdout, "%-22s %s\n", b.Name, b.Description)
		}
		return nil
	}

	bench, ok := benchmarks.ByName(opts.bench)
	if !ok {
		return fmt.Errorf("%w: unknown benchmark %q", errUsage, opts.bench)
	}

	lo, hi, err := parseRange(opts.regs)
	if err != nil {
		return err
	}

	var monitor *core.Monitor
	emuOpts := []emu.EmulatorOption{
		emu.WithRegisterBits(opts.regBits),
		emu.WithMemoryBits(opts.memBits),
		emu.WithLogger(logger),
	}
	if opts.fixLsri {
		emuOpts = append(emuOpts, emu.WithFixedShiftRightImmediate())
	}
	if opts.timing {
		monitor, err = newMonitor(opts.configPath)
		if err != nil {
			return err
		}
		emuOpts = append(emuOpts, emu.WithPerfMon(monitor))
	}

	e, err := emu.NewEmulator(emuOpts...)
	if err != nil {
		return err
	}

	if opts.emit != "" {
		if err := loader.Save(opts.emit, bench.Program(e.Layout(), e.MemDepth())); err != nil {
			return err
		}
		logger.Info("Wrote benchmark program", log.String("benchmark", bench.Name), log.String("path", opts.emit))
		return nil
	}

	if err := loadProgram(e, opts, bench, logger); err != nil {
		return err
	}

	runErr := e.Run(opts.budget)

	if opts.regs != "" {
		if err := e.DumpRegs(stdout, lo, hi); err != nil {
			return err
		}
		if hi < e.SPIndex() {
			if err := e.DumpRegs(stdout, e.SPIndex(), e.SPIndex()); err != nil {
				return err
			}
		}
	}
	if opts.state {
		e.DumpState(stdout)
	}

	p := newPrinter(opts.lang, logger)
	printReport(p, stdout, e, monitor)

	return runErr
}

func loadProgram(e *emu.Emulator, opts *options, bench benchmarks.Benchmark, logger *log.Logger) error {
	if opts.program == "" {
		logger.Debug("Loading benchmark program", log.String("benchmark", bench.Name))
		return e.LoadProgram(bench.Program(e.Layout(), e.MemDepth()))
	}

	prog, err := loader.Load(opts.program)
	if err != nil {
		return err
	}
	if prog.Stopped {
		logger.Info("Program file ended at a non-numeric token",
			log.String("path", opts.program), log.String("token", prog.StopToken))
	}
	logger.Debug("Loaded program", log.String("path", opts.program), log.Int("words", len(prog.Words)))

	return e.Memory().Load(0, prog.Words)
}

func newMonitor(configPath string) (*core.Monitor, error) {
	if configPath == "" {
		return core.NewMonitor(), nil
	}

	config, err := latency.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return core.NewMonitor(core.WithLatencyTable(latency.NewTableWithConfig(config))), nil
}

// parseRange parses "lo:hi" register bounds. An empty string selects no
// registers.
func parseRange(s string) (uint16, uint16, error) {
	if s == "" {
		return 0, 0, nil
	}

	loStr, hiStr, found := strings.Cut(s, ":")
	if !found {
		hiStr = loStr
	}

	lo, err := strconv.ParseUint(loStr, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: register range %q", errUsage, s)
	}
	hi, err := strconv.ParseUint(hiStr, 10, 16)
	if err != nil || hi < lo {
		return 0, 0, fmt.Errorf("%w: register range %q", errUsage, s)
	}
	return uint16(lo), uint16(hi), nil
}
