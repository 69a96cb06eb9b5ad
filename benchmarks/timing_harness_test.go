package benchmarks_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/miscsim/benchmarks"
	"github.com/sarchlab/miscsim/insts"
	"github.com/sarchlab/miscsim/timing/latency"
)

var _ = Describe("Harness", func() {
	var (
		out    *bytes.Buffer
		config benchmarks.HarnessConfig
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		config = benchmarks.DefaultConfig()
		config.Output = out
	})

	runOne := func(name string) benchmarks.BenchmarkResult {
		b, ok := benchmarks.ByName(name)
		Expect(ok).To(BeTrue())
		h := benchmarks.NewHarness(config)
		h.AddBenchmark(b)
		results := h.RunAll()
		Expect(results).To(HaveLen(1))
		return results[0]
	}

	It("should pass every microbenchmark under the timing model", func() {
		h := benchmarks.NewHarness(config)
		h.AddBenchmarks(benchmarks.GetMicrobenchmarks())

		results := h.RunAll()

		Expect(results).To(HaveLen(len(benchmarks.GetMicrobenchmarks())))
		for _, r := range results {
			Expect(r.Passed).To(BeTrue(), "%s: %v %s", r.Name, r.Failures, r.Error)
			Expect(r.SimulatedCycles).To(BeNumerically(">=", r.InstructionsRetired), r.Name)
		}
		Expect(benchmarks.Failed(results)).To(BeEmpty())
		Expect(benchmarks.Summary(results)).To(Equal("10/10 passed"))
	})

	It("should charge cold misses and mispredictions on the nested loop", func() {
		r := runOne("nested_loop")

		Expect(r.InstructionsRetired).To(Equal(uint64(25)))
		Expect(r.ICacheMisses).To(Equal(uint64(2)))
		Expect(r.FetchStalls).To(Equal(uint64(18)))
		Expect(r.BranchMispredictions).To(Equal(uint64(5)))
		Expect(r.BranchStalls).To(Equal(uint64(15)))
		Expect(r.SimulatedCycles).To(Equal(uint64(58)))
	})

	It("should run functionally without timing", func() {
		config.EnableTiming = false

		r := runOne("memory_walk")

		Expect(r.Passed).To(BeTrue())
		Expect(r.InstructionsRetired).To(Equal(uint64(87)))
		Expect(r.SimulatedCycles).To(BeZero())
		Expect(r.CPI).To(BeZero())
	})

	It("should model only the instruction cache when asked", func() {
		config.EnableDCache = false

		r := runOne("memory_walk")

		Expect(r.ICacheMisses).NotTo(BeZero())
		Expect(r.DCacheHits + r.DCacheMisses).To(BeZero())
		Expect(r.MemStalls).To(BeZero())
	})

	It("should see data cache misses on the memory walk", func() {
		r := runOne("memory_walk")

		// 100..107 spans two 8-word lines.
		Expect(r.DCacheMisses).To(Equal(uint64(2)))
		Expect(r.DCacheHits).To(Equal(uint64(14)))
	})

	It("should apply a custom latency table", func() {
		config.EnableICache = false
		config.EnableDCache = false
		config.TimingConfig = latency.DefaultTimingConfig()
		config.TimingConfig.ALULatency = 2

		r := runOne("dependency_chain")

		Expect(r.SimulatedCycles).To(Equal(uint64(2 * 22)))
		Expect(r.CPI).To(BeNumerically("~", 2.0))
	})

	It("should report a failing benchmark", func() {
		b, _ := benchmarks.ByName("lsri_legacy")
		b.ExpectedRegs = map[uint16]int32{1: 2}
		h := benchmarks.NewHarness(config)
		h.AddBenchmark(b)

		results := h.RunAll()

		Expect(results[0].Passed).To(BeFalse())
		Expect(results[0].Failures).To(ConsistOf("r1 = 32, want 2"))
		Expect(benchmarks.Summary(results)).To(Equal("0/1 passed (failed: lsri_legacy)"))
	})

	It("should report a fault as an error", func() {
		b := benchmarks.Benchmark{
			Name:    "empty",
			Program: func(_ insts.Layout, _ int) []int32 { return nil },
		}
		h := benchmarks.NewHarness(config)
		h.AddBenchmark(b)

		r := h.RunAll()[0]

		Expect(r.Passed).To(BeFalse())
		Expect(r.Error).To(ContainSubstring("illegal opcode"))
	})

	Describe("output", func() {
		var (
			h       *benchmarks.Harness
			results []benchmarks.BenchmarkResult
		)

		BeforeEach(func() {
			h = benchmarks.NewHarness(config)
			h.AddBenchmarks(benchmarks.GetCoreBenchmarks())
			results = h.RunAll()
		})

		It("should print human-readable results", func() {
			h.PrintResults(results)

			text := out.String()
			Expect(text).To(ContainSubstring("=== MISC Benchmark Results ==="))
			Expect(text).To(ContainSubstring("Benchmark: nested_loop"))
			Expect(text).To(ContainSubstring("--- Branch Predictor ---"))
		})

		It("should print one CSV row per result", func() {
			h.PrintCSV(results)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(HaveLen(1 + len(results)))
			Expect(lines[0]).To(HavePrefix("name,instructions,cycles,cpi"))
			Expect(lines[1]).To(HavePrefix("nested_loop,25,58,2.320,"))
			Expect(lines[1]).To(HaveSuffix(",true"))
		})

		It("should print a JSON report with a summary", func() {
			Expect(h.PrintJSON(results)).To(Succeed())

			var report benchmarks.BenchmarkReport
			Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())
			Expect(report.Metadata.Version).To(Equal(benchmarks.Version))
			Expect(report.Metadata.Config.TimingEnabled).To(BeTrue())
			Expect(report.Metadata.Config.Latencies).NotTo(BeNil())
			Expect(report.Results).To(HaveLen(3))
			Expect(report.Summary.TotalBenchmarks).To(Equal(3))
			Expect(report.Summary.Passed).To(Equal(3))
			Expect(report.Summary.TotalInstructions).To(Equal(uint64(25 + 31 + 18)))
			Expect(report.Summary.AverageCPI).To(BeNumerically(">", 1.0))
		})
	})
})
