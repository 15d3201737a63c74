// Package config holds the build-time microarchitecture configuration for
// the out-of-order datapath: renaming strategy, pipeline widths, and
// structural resource sizes. In the C++ original these were preprocessor
// switches (UARCH_*); here they are plain fields read once at
// construction time, since Go has no cheap equivalent of conditional
// compilation that is worth fighting for on a handful of integers.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// InstQScanPolicy selects how InstQ.Readied chooses its scan start
// position among ready candidates.
type InstQScanPolicy string

const (
	// ScanRoundRobin starts each scan at a persisted cursor, which rests on
	// the slot where the previous scan stopped.
	ScanRoundRobin InstQScanPolicy = "round_robin"
	// ScanRandom draws a fresh start position every cycle.
	ScanRandom InstQScanPolicy = "random"
)

// Config is the microarchitecture configuration table from the external
// interfaces section of the specification.
type Config struct {
	// ROBRename selects ROB-indexed rename (true) or physical-register-file
	// rename, R10K-style (false).
	ROBRename bool `json:"rob_rename"`

	// CascadeIssueOperand collapses Stage 4 (Issue) and Stage 5 (Operand
	// Fetch) into a single combinational cycle, R10K-style.
	CascadeIssueOperand bool `json:"cascade_issue_operand"`

	// DecodeWidth is the max instructions accepted (Mapped) per cycle.
	DecodeWidth int `json:"decode_width"`
	// RetireWidth is the max instructions retired per cycle.
	RetireWidth int `json:"retire_width"`
	// ExecuteWidth is the number of ALU lanes. Only lane 0 executes BEQ.
	ExecuteWidth int `json:"execute_width"`

	// OOODegree is the Active List (ROB) capacity.
	OOODegree int `json:"ooo_degree"`
	// InstQSize is the per-lane reservation station capacity.
	InstQSize int `json:"instq_size"`
	// SpeculateDepth is the branch-checkpoint stack depth.
	SpeculateDepth int `json:"speculate_depth"`

	// DRISChecker enables the redundant centralized issue-bookkeeping
	// assertion oracle. Only meaningful when ROBRename is true.
	DRISChecker bool `json:"dris_checker"`
	// InstQScan selects the wake-up/select tie-break policy.
	InstQScan InstQScanPolicy `json:"instq_scan"`
}

// BaselineConfig returns the "regression" preset from the reference
// implementation: DECODE=RETIRE=4, EXECUTE=3, OOO_DEGREE=32,
// INSTQ_SIZE=16, SPECULATE_DEPTH=4. This is the configuration the
// concrete scenarios in the specification's testable-properties section
// are written against.
func BaselineConfig() *Config {
	return &Config{
		ROBRename:           true,
		CascadeIssueOperand: false,
		DecodeWidth:         4,
		RetireWidth:         4,
		ExecuteWidth:        3,
		OOODegree:           32,
		InstQSize:           16,
		SpeculateDepth:      4,
		DRISChecker:         false,
		InstQScan:           ScanRoundRobin,
	}
}

// HackingConfig returns the narrow, single-issue preset used for quick
// interactive debugging: width 1 everywhere, OOO_DEGREE=32, INSTQ_SIZE=16,
// SPECULATE_DEPTH=4.
func HackingConfig() *Config {
	return &Config{
		ROBRename:           true,
		CascadeIssueOperand: true,
		DecodeWidth:         1,
		RetireWidth:         1,
		ExecuteWidth:        1,
		OOODegree:           32,
		InstQSize:           16,
		SpeculateDepth:      4,
		DRISChecker:         false,
		InstQScan:           ScanRoundRobin,
	}
}

// Preset looks up a named configuration preset ("baseline" or "hacking").
func Preset(name string) (*Config, error) {
	switch name {
	case "baseline", "":
		return BaselineConfig(), nil
	case "hacking":
		return HackingConfig(), nil
	default:
		return nil, fmt.Errorf("unknown config preset %q", name)
	}
}

// LoadConfig loads a Config from a JSON file, starting from BaselineConfig
// defaults so a partial JSON document only overrides what it names.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read microarchitecture config file: %w", err)
	}

	cfg := BaselineConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse microarchitecture config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize microarchitecture config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write microarchitecture config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a buildable datapath.
func (c *Config) Validate() error {
	if c.DecodeWidth <= 0 {
		return fmt.Errorf("decode_width must be > 0")
	}
	if c.RetireWidth <= 0 {
		return fmt.Errorf("retire_width must be > 0")
	}
	if c.ExecuteWidth <= 0 {
		return fmt.Errorf("execute_width must be > 0")
	}
	if c.OOODegree <= 0 {
		return fmt.Errorf("ooo_degree must be > 0")
	}
	if c.InstQSize <= 0 {
		return fmt.Errorf("instq_size must be > 0")
	}
	if c.SpeculateDepth <= 0 {
		return fmt.Errorf("speculate_depth must be > 0")
	}
	if c.SpeculateDepth > 64 {
		return fmt.Errorf("speculate_depth must fit in a 64-bit mask")
	}
	if c.DRISChecker && !c.ROBRename {
		return fmt.Errorf("dris_checker is only meaningful with rob_rename")
	}
	switch c.InstQScan {
	case ScanRoundRobin, ScanRandom, "":
	default:
		return fmt.Errorf("unknown instq_scan policy %q", c.InstQScan)
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
