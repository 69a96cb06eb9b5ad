package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/timing/cache"
	"github.com/sarchlab/miscsim/timing/core"
	"github.com/sarchlab/miscsim/timing/latency"
)

// Version is reported in JSON benchmark reports.
const Version = "0.1.0"

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// SimulatedCycles is the total cycle count from the timing model, 0 when
	// the run was functional only
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// FetchStalls, MemStalls and BranchStalls break down the stall cycles
	FetchStalls  uint64 `json:"fetch_stalls"`
	MemStalls    uint64 `json:"mem_stalls"`
	BranchStalls uint64 `json:"branch_stalls"`

	// ICacheHits/Misses (if cache enabled)
	ICacheHits   uint64 `json:"icache_hits,omitempty"`
	ICacheMisses uint64 `json:"icache_misses,omitempty"`

	// DCacheHits/Misses (if cache enabled)
	DCacheHits   uint64 `json:"dcache_hits,omitempty"`
	DCacheMisses uint64 `json:"dcache_misses,omitempty"`

	// Branch predictor stats
	BranchPredictions     uint64  `json:"branch_predictions,omitempty"`
	BranchMispredictions  uint64  `json:"branch_mispredictions,omitempty"`
	BranchAccuracyPercent float64 `json:"branch_accuracy_percent,omitempty"`

	// Passed is true when the run halted and every expectation held
	Passed bool `json:"passed"`

	// Failures lists the expectations that did not hold
	Failures []string `json:"failures,omitempty"`

	// Error is the fault or setup error that stopped the run
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// EnableTiming attaches a timing monitor to every run
	EnableTiming bool

	// EnableICache enables instruction cache simulation
	EnableICache bool

	// EnableDCache enables data cache simulation
	EnableDCache bool

	// TimingConfig overrides the default latency table
	TimingConfig *latency.TimingConfig

	// RegisterBits and MemoryBits size the emulator, 0 for the defaults
	RegisterBits uint
	MemoryBits   uint

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables detailed output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		EnableTiming: true,
		EnableICache: true,
		EnableDCache: true,
		Output:       os.Stdout,
		Verbose:      false,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		result := h.runBenchmark(bench)
		results = append(results, result)
	}

	return results
}

func (h *Harness) emulatorOptions() []emu.EmulatorOption {
	var opts []emu.EmulatorOption
	if h.config.RegisterBits != 0 {
		opts = append(opts, emu.WithRegisterBits(h.config.RegisterBits))
	}
	if h.config.MemoryBits != 0 {
		opts = append(opts, emu.WithMemoryBits(h.config.MemoryBits))
	}
	return opts
}

func (h *Harness) newMonitor() *core.Monitor {
	opts := []core.MonitorOption{core.WithoutCaches()}
	if h.config.EnableICache {
		opts = append(opts, core.WithICache(cache.DefaultICacheConfig()))
	}
	if h.config.EnableDCache {
		opts = append(opts, core.WithDCache(cache.DefaultDCacheConfig()))
	}
	if h.config.TimingConfig != nil {
		opts = append(opts, core.WithLatencyTable(latency.NewTableWithConfig(h.config.TimingConfig)))
	}
	return core.NewMonitor(opts...)
}

// runBenchmark executes a single benchmark.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	opts := h.emulatorOptions()

	var monitor *core.Monitor
	if h.config.EnableTiming {
		monitor = h.newMonitor()
		opts = append(opts, emu.WithPerfMon(monitor))
	}

	e, err := emu.NewEmulator(opts...)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	if err := e.LoadProgram(bench.Program(e.Layout(), e.MemDepth())); err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	runErr := e.Run(0)
	result.WallTime = time.Since(start)

	result.InstructionsRetired = e.InstructionCount()
	if runErr != nil {
		result.Error = runErr.Error()
	}

	if monitor != nil {
		h.collectTiming(&result, monitor.Stats())
	}

	result.Failures = bench.Verify(e, result.InstructionsRetired)
	result.Passed = runErr == nil && e.Halted() && len(result.Failures) == 0

	if h.config.Verbose {
		_, _ = fmt.Fprintf(h.config.Output, "ran %s: %d instructions, passed=%v\n",
			bench.Name, result.InstructionsRetired, result.Passed)
	}

	return result
}

func (h *Harness) collectTiming(result *BenchmarkResult, stats core.Stats) {
	result.SimulatedCycles = stats.Cycles
	result.CPI = stats.CPI()
	result.FetchStalls = stats.FetchStalls
	result.MemStalls = stats.MemoryStalls
	result.BranchStalls = stats.BranchStalls

	if h.config.EnableICache {
		result.ICacheHits = stats.ICache.Hits
		result.ICacheMisses = stats.ICache.Misses
	}
	if h.config.EnableDCache {
		result.DCacheHits = stats.DCache.Hits
		result.DCacheMisses = stats.DCache.Misses
	}

	result.BranchPredictions = stats.Predictor.Predictions
	result.BranchMispredictions = stats.Mispredictions
	result.BranchAccuracyPercent = stats.Predictor.Accuracy()
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== MISC Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Passed: %v\n", r.Passed)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		for _, f := range r.Failures {
			_, _ = fmt.Fprintf(h.config.Output, "  Failure: %s\n", f)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)

		if r.SimulatedCycles > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
			_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
			_, _ = fmt.Fprintf(h.config.Output, "  Fetch Stalls:         %d\n", r.FetchStalls)
			_, _ = fmt.Fprintf(h.config.Output, "  Mem Stalls:           %d\n", r.MemStalls)
			_, _ = fmt.Fprintf(h.config.Output, "  Branch Stalls:        %d\n", r.BranchStalls)
		}

		if r.ICacheHits > 0 || r.ICacheMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- I-Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:   %d\n", r.ICacheHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses: %d\n", r.ICacheMisses)
		}

		if r.DCacheHits > 0 || r.DCacheMisses > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- D-Cache ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Hits:   %d\n", r.DCacheHits)
			_, _ = fmt.Fprintf(h.config.Output, "  Misses: %d\n", r.DCacheMisses)
		}

		if r.BranchPredictions > 0 {
			_, _ = fmt.Fprintln(h.config.Output, "  --- Branch Predictor ---")
			_, _ = fmt.Fprintf(h.config.Output, "  Predictions:     %d\n", r.BranchPredictions)
			_, _ = fmt.Fprintf(h.config.Output, "  Mispredictions:  %d\n", r.BranchMispredictions)
			_, _ = fmt.Fprintf(h.config.Output, "  Accuracy:        %.1f%%\n", r.BranchAccuracyPercent)
		}

		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,instructions,cycles,cpi,fetch_stalls,mem_stalls,branch_stalls,icache_hits,icache_misses,dcache_hits,dcache_misses,mispredictions,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%d,%d,%d,%d,%v\n",
			r.Name,
			r.InstructionsRetired,
			r.SimulatedCycles,
			r.CPI,
			r.FetchStalls,
			r.MemStalls,
			r.BranchStalls,
			r.ICacheHits,
			r.ICacheMisses,
			r.DCacheHits,
			r.DCacheMisses,
			r.BranchMispredictions,
			r.Passed,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual benchmark results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// Config describes the benchmark configuration
	Config BenchmarkConfig `json:"config"`
}

// BenchmarkConfig describes the harness configuration used.
type BenchmarkConfig struct {
	TimingEnabled bool                  `json:"timing_enabled"`
	ICacheEnabled bool                  `json:"icache_enabled"`
	DCacheEnabled bool                  `json:"dcache_enabled"`
	Latencies     *latency.TimingConfig `json:"latencies,omitempty"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Passed is the number of benchmarks whose expectations held
	Passed int `json:"passed"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalInstructions is the sum of all instructions retired
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageCPI is the average cycles per instruction
	AverageCPI float64 `json:"average_cpi"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// Report builds the JSON report for results.
func (h *Harness) Report(results []BenchmarkResult) BenchmarkReport {
	var summary ReportSummary
	summary.TotalBenchmarks = len(results)
	for _, r := range results {
		summary.TotalCycles += r.SimulatedCycles
		summary.TotalInstructions += r.InstructionsRetired
		summary.TotalWallTime += r.WallTime
		if r.Passed {
			summary.Passed++
		}
	}
	if summary.TotalInstructions > 0 {
		summary.AverageCPI = float64(summary.TotalCycles) / float64(summary.TotalInstructions)
	}

	latencies := h.config.TimingConfig
	if latencies == nil && h.config.EnableTiming {
		latencies = latency.DefaultTimingConfig()
	}

	return BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
			Config: BenchmarkConfig{
				TimingEnabled: h.config.EnableTiming,
				ICacheEnabled: h.config.EnableICache,
				DCacheEnabled: h.config.EnableDCache,
				Latencies:     latencies,
			},
		},
		Results: results,
		Summary: summary,
	}
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(h.Report(results))
}

// Failed returns the names of the benchmarks that did not pass.
func Failed(results []BenchmarkResult) []string {
	var names []string
	for _, r := range results {
		if !r.Passed {
			names = append(names, r.Name)
		}
	}
	return names
}

// Summary returns a one-line pass count such as "9/10 passed (failed: x)".
func Summary(results []BenchmarkResult) string {
	failed := Failed(results)
	line := fmt.Sprintf("%d/%d passed", len(results)-len(failed), len(results))
	if len(failed) > 0 {
		line += " (failed: " + strings.Join(failed, ", ") + ")"
	}
	return line
}
