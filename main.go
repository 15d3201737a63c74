// Package main provides the entry point for r10ksim.
// r10ksim is a cycle-accurate behavioral model of a MIPS R10000-style
// superscalar out-of-order instruction pipeline.
//
// For the full CLI, use: go run ./cmd/ooosim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("r10ksim - Out-of-Order Datapath Simulator")
	fmt.Println("")
	fmt.Println("Usage: ooosim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -trace     Path to a literal instruction trace JSON file")
	fmt.Println("  -config    Path to microarchitecture configuration JSON file")
	fmt.Println("  -cycles    Maximum number of cycles to simulate")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ooosim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ooosim' instead.")
	}
}
