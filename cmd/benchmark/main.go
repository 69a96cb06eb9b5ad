// Command benchmark runs the MISC benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv         Output results in CSV format (default: human-readable)
//	-json        Output a JSON report
//	-core        Run only the core benchmarks
//	-functional  Run without the timing model
//	-no-icache   Disable instruction cache simulation
//	-no-dcache   Disable data cache simulation
//	-config      Timing configuration JSON file
//
// Example:
//
//	# Run all benchmarks with human-readable output
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
//
// The exit status is non-zero when any benchmark misses its expected
// register, memory or instruction count results.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/miscsim/benchmarks"
	"github.com/sarchlab/miscsim/timing/latency"
)

func main() {
	// Parse flags
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as a JSON report")
	coreOnly := flag.Bool("core", false, "Run only the core benchmarks")
	functional := flag.Bool("functional", false, "Run without the timing model")
	noICache := flag.Bool("no-icache", false, "Disable instruction cache simulation")
	noDCache := flag.Bool("no-dcache", false, "Disable data cache simulation")
	configPath := flag.String("config", "", "Path to timing configuration JSON file")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Configure harness
	config := benchmarks.DefaultConfig()
	config.EnableTiming = !*functional
	config.EnableICache = !*noICache
	config.EnableDCache = !*noDCache
	config.Verbose = *verbose
	config.Output = os.Stdout

	if *configPath != "" {
		timingConfig, err := latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		if err := timingConfig.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid timing config: %v\n", err)
			os.Exit(1)
		}
		config.TimingConfig = timingConfig
	}

	// Create harness and add benchmarks
	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	textOutput := !*csvOutput && !*jsonOutput

	// Print configuration
	if textOutput {
		fmt.Println("MISC Benchmark Harness")
		fmt.Println("======================")
		fmt.Printf("Timing:  %v\n", config.EnableTiming)
		fmt.Printf("I-Cache: %v\n", config.EnableICache)
		fmt.Printf("D-Cache: %v\n", config.EnableDCache)
		fmt.Println("")
	}

	// Run benchmarks
	results := harness.RunAll()

	// Output results
	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON report: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
		fmt.Println("=== Summary ===")
		fmt.Println(benchmarks.Summary(results))
	}

	if len(benchmarks.Failed(results)) > 0 {
		os.Exit(1)
	}
}
