package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for each MISC instruction class.
type TimingConfig struct {
	// ALULatency is the execution latency for arithmetic, logic, compare,
	// register moves, nop and halt. Default: 1 cycle.
	ALULatency uint64 `json:"alu_latency"`

	// ShiftLatency is the execution latency for the shift family.
	// Default: 1 cycle.
	ShiftLatency uint64 `json:"shift_latency"`

	// BranchLatency is the base latency for br, call and retn. It does not
	// include the misprediction penalty. Default: 1 cycle.
	BranchLatency uint64 `json:"branch_latency"`

	// BranchMispredictPenalty is the additional cycles lost on a
	// misprediction. Default: 3 cycles.
	BranchMispredictPenalty uint64 `json:"branch_mispredict_penalty"`

	// LoadLatency is the latency of load, loadil and pop assuming a data
	// cache hit. Default: 2 cycles.
	LoadLatency uint64 `json:"load_latency"`

	// StoreLatency is the latency of store and push. Default: 1 cycle.
	StoreLatency uint64 `json:"store_latency"`
}

// DefaultTimingConfig returns a TimingConfig for a simple in-order core.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		ALULatency:              1,
		ShiftLatency:            1,
		BranchLatency:           1,
		BranchMispredictPenalty: 3,
		LoadLatency:             2,
		StoreLatency:            1,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
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

// Validate checks that all latency values are valid (> 0). The
// misprediction penalty may be zero.
func (c *TimingConfig) Validate() error {
	if c.ALULatency == 0 {
		return fmt.Errorf("alu_latency must be > 0")
	}
	if c.ShiftLatency == 0 {
		return fmt.Errorf("shift_latency must be > 0")
	}
	if c.BranchLatency == 0 {
		return fmt.Errorf("branch_latency must be > 0")
	}
	if c.LoadLatency == 0 {
		return fmt.Errorf("load_latency must be > 0")
	}
	if c.StoreLatency == 0 {
		return fmt.Errorf("store_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
