package golden

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/r10ksim/arch"
)

// namedScenarios exposes the concrete scenarios by name for the CLI and
// tests, mirroring the six literal inputs from the specification's
// testable-properties section.
var namedScenarios = map[string]func() []arch.Instruction{
	"rawwaw":         ScenarioRAWWAW,
	"forwarding":     ScenarioIntraBundleForwarding,
	"correct-branch": ScenarioCorrectBranch,
	"mispredict":     ScenarioMispredictedBranch,
	"exception":      ScenarioPreciseException,
	"cascade-chain":  ScenarioCascadeChain,
}

// Scenario looks up a built-in trace by name.
func Scenario(name string) ([]arch.Instruction, error) {
	build, ok := namedScenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return build(), nil
}

// LoadTrace reads a literal instruction trace from a JSON file: an array
// of objects with the same field names as arch.Instruction. This is the
// toy architecture's equivalent of loader.Load's ELF parsing — there is
// no real binary format here, just a flat program, so JSON is the
// idiomatic stand-in.
func LoadTrace(path string) ([]arch.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %w", err)
	}

	var trace []arch.Instruction
	if err := json.Unmarshal(data, &trace); err != nil {
		return nil, fmt.Errorf("failed to parse trace file: %w", err)
	}

	return trace, nil
}
