// Validate decoder allocations - measures decode throughput and allocations
// over the benchmark programs.
package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/sarchlab/miscsim/benchmarks"
	"github.com/sarchlab/miscsim/insts"
)

func main() {
	layout := insts.DefaultLayout()
	decoder := insts.NewDecoder(layout)

	var words []uint32
	for _, b := range benchmarks.GetMicrobenchmarks() {
		for _, w := range b.Program(layout, 1<<12) {
			words = append(words, uint32(w))
		}
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		_, _ = decoder.Decode(words[i%len(words)])
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	for i := 0; i < iterations; i++ {
		for _, w := range words {
			_, _ = decoder.Decode(w)
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(words)
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))

	if allocations == 0 {
		fmt.Printf("\n✅ SUCCESS: Zero allocations detected\n")
	} else if float64(allocations)/float64(totalDecodes) < 0.1 {
		fmt.Printf("\n✅ GOOD: Low allocation rate (< 0.1 per decode)\n")
	} else {
		fmt.Printf("\n⚠️  WARNING: High allocation rate detected\n")
	}
}
