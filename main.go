// Package main provides the entry point for R3Sim.
// R3Sim is a cycle-stepped RV32IM CPU simulator built on Akita.
//
// For the full CLI, use: go run ./cmd/r3sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("R3Sim - RV32IM CPU Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: r3sim [options] <program.elf|program.hex>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing         Enable timing simulation mode")
	fmt.Println("  -timing-config  Path to timing configuration JSON file")
	fmt.Println("  -mem-size       Instruction and data memory size in bytes")
	fmt.Println("  -max-cycles     Stop after this many cycles")
	fmt.Println("  -trace          Log every pipeline tick")
	fmt.Println("  -v              Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/r3sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/r3sim' instead.")
	}
}
