package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lafritemema/MARS-data-build/internal/actiondoc"
	"github.com/lafritemema/MARS-data-build/internal/compiler"
	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/proxy"
	"github.com/lafritemema/MARS-data-build/internal/store"
	"github.com/lafritemema/MARS-data-build/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// An error is returned when the scenario cannot run at all: its action fails
// to load, or compilation fails without the scenario expecting it. Assertion
// failures are reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	action, err := resolveAction(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.ActionType = action.Type

	c := compiler.New(
		compiler.WithBuilder(newBuilder(scenario)),
		compiler.WithDrillingReport(scenario.DrillingReport),
	)
	cmds, err := c.Compile(action)
	if scenario.ExpectError != "" {
		return checkExpectedError(scenario, result, err)
	}
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", action.Type, err)
	}

	result.Commands = cmds
	if result.SequenceID, err = ir.SequenceID(cmds); err != nil {
		return nil, err
	}
	if result.ShapeHash, err = ir.ShapeHash(cmds); err != nil {
		return nil, err
	}

	if err := roundTrip(action, cmds, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(cmds, scenario.Assertions) {
		result.AddError(msg)
	}

	slog.Debug("scenario run", "name", scenario.Name, "commands", len(cmds), "pass", result.Pass)
	return result, nil
}

func newBuilder(scenario *Scenario) *proxy.Builder {
	var gen proxy.UIDGenerator = testutil.NewSequentialGenerator(scenario.Name)
	if len(scenario.UIDs) > 0 {
		gen = proxy.NewFixedGenerator(scenario.UIDs...)
	}

	var opts []proxy.BuilderOption
	if scenario.TrackInterval > 0 {
		opts = append(opts, proxy.WithTrackInterval(scenario.TrackInterval))
	}
	return proxy.NewBuilder(gen, opts...)
}

// resolveAction checks the inline action, or loads the selected action of
// the scenario's document.
func resolveAction(scenario *Scenario) (model.Action, error) {
	loader, err := actiondoc.NewLoader()
	if err != nil {
		return model.Action{}, err
	}

	if scenario.Action != nil {
		a, err := loader.Check(scenario.Name, *scenario.Action)
		if err != nil {
			return model.Action{}, fmt.Errorf("scenario action: %w", err)
		}
		return a, nil
	}

	actions, err := loader.LoadFile(scenario.Document)
	if err != nil {
		return model.Action{}, fmt.Errorf("scenario document: %w", err)
	}
	if scenario.Index >= len(actions) {
		return model.Action{}, fmt.Errorf("scenario document: index %d out of range (%d actions)", scenario.Index, len(actions))
	}
	return actions[scenario.Index], nil
}

// checkExpectedError records the compilation error a scenario expects.
func checkExpectedError(scenario *Scenario, result *Result, err error) (*Result, error) {
	if err == nil {
		result.Failf("expected %s, compilation succeeded", scenario.ExpectError)
		return result, nil
	}

	var compileErr *ir.Error
	if !errors.As(err, &compileErr) {
		return nil, fmt.Errorf("compile %s: %w", result.ActionType, err)
	}
	result.CompileError = compileErr.Error()
	if string(compileErr.Code) != scenario.ExpectError {
		result.Failf("expected %s, got %s", scenario.ExpectError, compileErr.Code)
	}
	return result, nil
}

// roundTrip writes the sequence to a fresh in-memory store and checks that
// it reads back with the same id.
func roundTrip(action model.Action, cmds []ir.Command, result *Result) error {
	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	seq, err := store.NewSequence(action.Type, action.Description, cmds)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if _, err := st.WriteSequence(ctx, seq); err != nil {
		return err
	}
	stored, err := st.ReadSequence(ctx, seq.ID)
	if err != nil {
		return err
	}

	id, err := ir.SequenceID(stored.Commands)
	if err != nil {
		return err
	}
	if id != seq.ID {
		result.Failf("stored sequence hashes to %s, want %s", id, seq.ID)
	}
	return nil
}
