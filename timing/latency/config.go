package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds the execute-stage occupancy, in cycles, for each
// instruction class. A value of 1 means the result is forwardable in the same
// cycle it executes; larger values hold the instruction in the execute stage
// and stall the front of the pipeline for value-1 extra cycles.
type TimingConfig struct {
	// ALULatency is the execute-stage occupancy for single-cycle integer
	// operations. The hazard rules assume 1; it is configurable for
	// experiments only.
	ALULatency uint64 `json:"alu_latency"`

	// MultiplyLatency is the execute-stage occupancy for the multiply
	// group. Default: 3 cycles. A value of 1 models a fully pipelined
	// single-cycle multiplier.
	MultiplyLatency uint64 `json:"multiply_latency"`
}

// DefaultTimingConfig returns the default timing values.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:      1,
		MultiplyLatency: 3,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields absent from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0).
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.MultiplyLatency == 0 {
		return fmt.Errorf("multiply_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	return &TimingConfig{
		ALULatency:      c.ALULatency,
		MultiplyLatency: c.MultiplyLatency,
	}
}
