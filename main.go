// Package main provides the entry point for miscsim, an instruction-set
// simulator for the MISC 32-bit CPU.
//
// For the full CLI, use: go run ./cmd/miscsim
package main

import (
	"fmt"
	"os"

	"github.com/sarchlab/miscsim/benchmarks"
)

func main() {
	fmt.Println("miscsim - MISC CPU Simulator")
	fmt.Println("")
	fmt.Println("Usage: miscsim [options] [program.txt]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing    Enable timing simulation mode")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -n         Instruction budget")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Built-in programs:")
	for _, name := range benchmarks.Names() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/miscsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/miscsim' instead.")
	}
}
