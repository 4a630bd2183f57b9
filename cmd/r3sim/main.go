// Package main provides the entry point for R3Sim.
// R3Sim is a cycle-stepped RV32IM CPU simulator built on Akita.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/loader"
	"github.com/sarchlab/r3sim/timing/core"
	"github.com/sarchlab/r3sim/timing/latency"
	"github.com/sarchlab/r3sim/timing/pipeline"
)

var (
	timing     = flag.Bool("timing", false, "Enable timing simulation mode")
	configPath = flag.String("timing-config", "", "Path to timing configuration JSON file")
	memSize    = flag.Uint("mem-size", 1<<20, "Instruction and data memory size in bytes")
	maxCycles  = flag.Uint64("max-cycles", 0,
		"Stop after this many cycles (instructions in emulation mode), 0 means no limit")
	trace   = flag.Bool("trace", false, "Log every pipeline tick")
	verbose = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: r3sim [options] <program.elf|program.hex>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		atexit.Exit(1)
	}

	setupLogging()

	programPath := flag.Arg(0)
	prog, err := loadProgram(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		atexit.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%08X\n", prog.Entry)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	if *timing {
		atexit.Exit(runTiming(prog, programPath))
	}
	atexit.Exit(runEmulation(prog, programPath))
}

// setupLogging routes slog through a text handler on stderr. Tracing
// lowers the level so per-tick records become visible.
func setupLogging() {
	level := slog.LevelInfo
	if *trace {
		level = pipeline.LevelTrace
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// loadProgram reads the RV32 program image. Files ending in .hex are
// parsed as $readmemh-style word lists, everything else as ELF.
func loadProgram(path string) (*loader.Program, error) {
	if strings.HasSuffix(path, ".hex") {
		return loader.LoadHex(path)
	}
	return loader.LoadELF(path)
}

// loadMemories builds the instruction and data memories and writes the
// program image into both.
func loadMemories(prog *loader.Program) (*emu.Memory, *emu.Memory, error) {
	imem := emu.NewMemory(uint32(*memSize))
	dmem := emu.NewMemory(uint32(*memSize))
	if err := prog.WriteTo(imem); err != nil {
		return nil, nil, err
	}
	if err := prog.WriteTo(dmem); err != nil {
		return nil, nil, err
	}
	return imem, dmem, nil
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(prog *loader.Program, programPath string) int {
	imem, dmem, err := loadMemories(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading memory image: %v\n", err)
		return 1
	}

	regFile := &emu.RegFile{}
	regFile.PC = prog.Entry

	emulator := emu.NewEmulator(regFile, imem, dmem)
	if err := emulator.Run(*maxCycles); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Printf("\nProgram: %s\n", programPath)
		fmt.Printf("Exit code: %d\n", emulator.ExitCode())
		fmt.Printf("Instructions executed: %d\n", emulator.InstCount())
	}

	return emulator.ExitCode()
}

// runTiming runs the program on the engine-driven pipeline model.
func runTiming(prog *loader.Program, programPath string) int {
	var timingConfig *latency.TimingConfig
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			return 1
		}
	} else {
		timingConfig = latency.DefaultTimingConfig()
	}

	imem, dmem, err := loadMemories(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading memory image: %v\n", err)
		return 1
	}

	engine := sim.NewSerialEngine()
	builder := core.NewBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithInstMem(imem).
		WithDataMem(dmem).
		WithLatencyTable(latency.NewTableWithConfig(timingConfig)).
		WithMaxCycles(*maxCycles)
	if *trace {
		builder = builder.WithObserver(pipeline.SlogObserver(slog.Default()))
	}

	c := builder.Build("Core")
	c.SetPC(prog.Entry)

	if err := c.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	stats := c.Stats()
	fmt.Printf("\n")
	fmt.Printf("Program: %s\n", programPath)
	fmt.Printf("Exit code: %d\n", c.ExitCode())
	fmt.Printf("Total Instructions: %d\n", stats.Instructions)
	fmt.Printf("Total Cycles: %d\n", stats.Cycles)
	fmt.Printf("CPI: %.2f\n", stats.CPI())
	fmt.Printf("\n")
	fmt.Printf("Pipeline Events:\n")
	fmt.Printf("  Load-Use Stalls: %d\n", stats.LoadUseStalls)
	fmt.Printf("  Compute Stalls:  %d\n", stats.ComputeStalls)
	fmt.Printf("  Forwards:        %d\n", stats.Forwards)
	fmt.Printf("  Branches:        %d (%d taken)\n", stats.Branches, stats.BranchesTaken)

	return c.ExitCode()
}
