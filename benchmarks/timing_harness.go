// Package benchmarks provides timing benchmark infrastructure for R3Sim calibration.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/r3sim/emu"
	"github.com/sarchlab/r3sim/insts"
	"github.com/sarchlab/r3sim/timing/latency"
	"github.com/sarchlab/r3sim/timing/pipeline"
)

// BenchmarkResult holds the timing results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark measures
	Description string `json:"description"`

	// SimulatedCycles is the total cycle count from the timing simulator
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// InstructionsRetired is the number of completed instructions
	InstructionsRetired uint64 `json:"instructions_retired"`

	// CPI is cycles per instruction
	CPI float64 `json:"cpi"`

	// StallCycles is the total number of stall cycles
	StallCycles uint64 `json:"stall_cycles"`

	// LoadUseStalls is stalls from a load feeding the next instruction
	LoadUseStalls uint64 `json:"load_use_stalls"`

	// ComputeStalls is stalls from multi-cycle execution
	ComputeStalls uint64 `json:"compute_stalls"`

	// Forwards is the number of operands satisfied by forwarding
	Forwards uint64 `json:"forwards"`

	// Branches is the number of control transfers resolved in decode
	Branches uint64 `json:"branches"`

	// BranchesTaken is the number of those that redirected the PC
	BranchesTaken uint64 `json:"branches_taken"`

	// ExitCode is the program's exit code
	ExitCode int `json:"exit_code"`

	// EmulatorMatch reports whether the functional emulator, run on the
	// same program from the same initial state, reached the same exit
	// code and register file
	EmulatorMatch bool `json:"emulator_match"`

	// Error is set when the run faulted or hit the cycle limit
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single benchmark program.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark measures
	Description string

	// Setup prepares the initial state (e.g., seed registers, data memory)
	Setup func(regFile *emu.RegFile, dmem *emu.Memory)

	// Program is the RV32 machine code, one word per instruction,
	// loaded at address 0
	Program []uint32

	// ExpectedExit is the expected exit code (for validation)
	ExpectedExit int
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// TimingConfig sets the latencies used by the pipeline. Nil selects
	// the defaults.
	TimingConfig *latency.TimingConfig

	// MemSize is the extent of the instruction and data memories in bytes
	MemSize uint32

	// MaxCycles bounds each benchmark run
	MaxCycles uint64

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables per-benchmark progress output
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		TimingConfig: nil,
		MemSize:      1 << 20,
		MaxCycles:    1_000_000,
		Output:       os.Stdout,
		Verbose:      false,
	}
}

// Harness runs timing benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.MemSize == 0 {
		config.MemSize = 1 << 20
	}
	if config.MaxCycles == 0 {
		config.MaxCycles = 1_000_000
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
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "running %s...\n", bench.Name)
		}
		result := h.runBenchmark(bench)
		results = append(results, result)
	}

	return results
}

// runBenchmark executes a single benchmark on the timing pipeline, then
// replays it on the functional emulator to cross-check the outcome.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	regFile, imem, dmem, err := h.freshState(bench)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	table := latency.NewTable()
	if h.config.TimingConfig != nil {
		table = latency.NewTableWithConfig(h.config.TimingConfig)
	}
	pipe := pipeline.NewPipeline(regFile, imem, dmem,
		pipeline.WithLatencyTable(table))

	start := time.Now()
	runErr := pipe.Run(h.config.MaxCycles)
	result.WallTime = time.Since(start)
	if runErr != nil {
		result.Error = runErr.Error()
	}

	stats := pipe.Stats()
	result.SimulatedCycles = stats.Cycles
	result.InstructionsRetired = stats.Instructions
	result.CPI = stats.CPI()
	result.StallCycles = stats.Stalls()
	result.LoadUseStalls = stats.LoadUseStalls
	result.ComputeStalls = stats.ComputeStalls
	result.Forwards = stats.Forwards
	result.Branches = stats.Branches
	result.BranchesTaken = stats.BranchesTaken
	result.ExitCode = pipe.ExitCode()

	refRegFile, refImem, refDmem, err := h.freshState(bench)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	ref := emu.NewEmulator(refRegFile, refImem, refDmem)
	_ = ref.Run(h.config.MaxCycles)

	result.EmulatorMatch = pipe.Halted() && ref.Halted() &&
		pipe.ExitCode() == ref.ExitCode() &&
		regFile.X == refRegFile.X

	return result
}

// freshState builds an initial machine state for one benchmark run.
func (h *Harness) freshState(bench Benchmark) (*emu.RegFile, *emu.Memory, *emu.Memory, error) {
	regFile := &emu.RegFile{}
	imem := emu.NewMemory(h.config.MemSize)
	dmem := emu.NewMemory(h.config.MemSize)

	if bench.Setup != nil {
		bench.Setup(regFile, dmem)
	}

	for i, word := range bench.Program {
		addr := uint32(i) * insts.InstructionWidth
		if err := imem.WriteWord(addr, word); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load program word %d: %w", i, err)
		}
	}

	return regFile, imem, dmem, nil
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== R3Sim Timing Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s\n", r.Name)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Exit Code: %d\n", r.ExitCode)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles:     %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Instructions Retired: %d\n", r.InstructionsRetired)
		_, _ = fmt.Fprintf(h.config.Output, "  CPI:                  %.3f\n", r.CPI)
		_, _ = fmt.Fprintf(h.config.Output, "  Stall Cycles:         %d\n", r.StallCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Load-Use Stalls:      %d\n", r.LoadUseStalls)
		_, _ = fmt.Fprintf(h.config.Output, "  Compute Stalls:       %d\n", r.ComputeStalls)
		_, _ = fmt.Fprintf(h.config.Output, "  Forwards:             %d\n", r.Forwards)
		if r.Branches > 0 {
			_, _ = fmt.Fprintf(h.config.Output, "  Branches:             %d (%d taken)\n",
				r.Branches, r.BranchesTaken)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Emulator Match:       %v\n", r.EmulatorMatch)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,instructions,cpi,stalls,load_use_stalls,compute_stalls,forwards,branches,branches_taken,exit_code,emulator_match")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.3f,%d,%d,%d,%d,%d,%d,%d,%v\n",
			r.Name,
			r.SimulatedCycles,
			r.InstructionsRetired,
			r.CPI,
			r.StallCycles,
			r.LoadUseStalls,
			r.ComputeStalls,
			r.Forwards,
			r.Branches,
			r.BranchesTaken,
			r.ExitCode,
			r.EmulatorMatch,
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
	ALULatency      uint64 `json:"alu_latency"`
	MultiplyLatency uint64 `json:"multiply_latency"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	// TotalBenchmarks is the number of benchmarks run
	TotalBenchmarks int `json:"total_benchmarks"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalInstructions is the sum of all instructions retired
	TotalInstructions uint64 `json:"total_instructions"`

	// AverageCPI is the average cycles per instruction
	AverageCPI float64 `json:"average_cpi"`

	// TotalWallTime is the total wall clock time for all benchmarks
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	var totalCycles, totalInstructions uint64
	var totalWallTime time.Duration
	for _, r := range results {
		totalCycles += r.SimulatedCycles
		totalInstructions += r.InstructionsRetired
		totalWallTime += r.WallTime
	}

	avgCPI := float64(0)
	if totalInstructions > 0 {
		avgCPI = float64(totalCycles) / float64(totalInstructions)
	}

	timingConfig := latency.DefaultTimingConfig()
	if h.config.TimingConfig != nil {
		timingConfig = h.config.TimingConfig
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "0.1.0",
			Config: BenchmarkConfig{
				ALULatency:      timingConfig.ALULatency,
				MultiplyLatency: timingConfig.MultiplyLatency,
			},
		},
		Results: results,
		Summary: ReportSummary{
			TotalBenchmarks:   len(results),
			TotalCycles:       totalCycles,
			TotalInstructions: totalInstructions,
			AverageCPI:        avgCPI,
			TotalWallTime:     totalWallTime,
		},
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
