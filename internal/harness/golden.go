package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// Snapshot is the golden form of a scenario run.
type Snapshot struct {
	ScenarioName string
	ActionType   string
	Commands     []ir.Command
	CompileError string
}

// toIR converts a Snapshot to an IRObject for canonical JSON serialization.
func (s *Snapshot) toIR() ir.IRObject {
	obj := ir.IRObject{
		"scenario_name": ir.IRString(s.ScenarioName),
		"action_type":   ir.IRString(s.ActionType),
		"commands":      ir.SequenceIR(s.Commands),
	}
	if s.CompileError != "" {
		obj["compile_error"] = ir.IRString(s.CompileError)
	}
	return obj
}

// MarshalSnapshot returns the canonical JSON stored in a scenario's golden file.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := Snapshot{
		ScenarioName: scenarioName,
		ActionType:   result.ActionType,
		Commands:     result.Commands,
		CompileError: result.CompileError,
	}
	return ir.MarshalCanonical(snapshot.toIR())
}

// RunWithGolden executes a scenario and compares its commands against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the output doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
