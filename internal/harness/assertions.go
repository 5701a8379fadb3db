package harness

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the compiled commands to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Commands []ir.Command // Full sequence for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nCommands:\n")
	for i, c := range e.Commands {
		fmt.Fprintf(&buf, "  [%d] %s  %s\n", i, Label(c), c.Description)
	}

	return buf.String()
}

// Label renders a command as "ORIGIN/ACTION[ METHOD path]".
func Label(c ir.Command) string {
	label := string(c.Origin) + "/" + string(c.Action)
	switch def := c.Definition.(type) {
	case ir.ProxyRequest:
		label += " " + string(def.Method) + " " + def.Path
	case ir.HMIRequest:
		label += " " + string(def.Method) + " " + def.Path
	}
	return label
}

// assertCommandCount checks the sequence length.
func assertCommandCount(cmds []ir.Command, assertion Assertion) error {
	if len(cmds) == assertion.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCommandCount,
		Expected: fmt.Sprintf("%d commands", assertion.Count),
		Actual:   fmt.Sprintf("%d commands", len(cmds)),
		Commands: cmds,
	}
}

// assertCommandOrder checks that the labels appear in order.
// Labels don't need to be consecutive (intervening commands are allowed).
func assertCommandOrder(cmds []ir.Command, assertion Assertion) error {
	next := 0
	for _, c := range cmds {
		if next < len(assertion.Commands) && Label(c) == assertion.Commands[next] {
			next++
		}
	}
	if next == len(assertion.Commands) {
		return nil
	}
	return &AssertionError{
		Type:     AssertCommandOrder,
		Expected: fmt.Sprintf("commands in order: %v", assertion.Commands),
		Actual:   fmt.Sprintf("%q not found after the first %d", assertion.Commands[next], next),
		Commands: cmds,
	}
}

// assertCommandAt checks one command against a partial command.
func assertCommandAt(cmds []ir.Command, assertion Assertion) error {
	fail := func(actual string) error {
		return &AssertionError{
			Type:     AssertCommandAt,
			Expected: fmt.Sprintf("command %d to match %+v", assertion.Index, *assertion.Expect),
			Actual:   actual,
			Commands: cmds,
		}
	}

	if assertion.Index >= len(cmds) {
		return fail(fmt.Sprintf("only %d commands", len(cmds)))
	}
	c := cmds[assertion.Index]
	want := assertion.Expect

	var method, path string
	var query, body ir.IRObject
	switch def := c.Definition.(type) {
	case ir.ProxyRequest:
		method, path, query, body = string(def.Method), def.Path, def.Query, def.Body
	case ir.HMIRequest:
		method, path, body = string(def.Method), def.Path, def.Body
	}

	fields := []struct {
		name, want, got string
	}{
		{"origin", want.Origin, string(c.Origin)},
		{"action", want.Action, string(c.Action)},
		{"description", want.Description, c.Description},
		{"method", want.Method, method},
		{"path", want.Path, path},
	}
	for _, f := range fields {
		if f.want != "" && f.want != f.got {
			return fail(fmt.Sprintf("%s is %q", f.name, f.got))
		}
	}

	if err := matchSubset("query", want.Query, query); err != nil {
		return fail(err.Error())
	}
	if err := matchSubset("body", want.Body, body); err != nil {
		return fail(err.Error())
	}
	return nil
}

// assertTrackerPaired checks that every WAIT directly follows the tracker
// subscription carrying its uid, and that no tracker is left without a wait.
func assertTrackerPaired(cmds []ir.Command, _ Assertion) error {
	fail := func(actual string) error {
		return &AssertionError{
			Type:     AssertTrackerPaired,
			Expected: "every tracker immediately followed by a wait on its uid",
			Actual:   actual,
			Commands: cmds,
		}
	}

	for i, c := range cmds {
		if uid, ok := c.TrackerUID(); ok {
			if i+1 >= len(cmds) {
				return fail(fmt.Sprintf("tracker %s at %d is the last command", uid, i))
			}
			waitUID, ok := cmds[i+1].WaitUID()
			if !ok {
				return fail(fmt.Sprintf("tracker %s at %d followed by %s", uid, i, Label(cmds[i+1])))
			}
			if waitUID != uid {
				return fail(fmt.Sprintf("tracker %s at %d followed by wait on %s", uid, i, waitUID))
			}
			continue
		}
		if uid, ok := c.WaitUID(); ok {
			if i == 0 {
				return fail(fmt.Sprintf("wait on %s is the first command", uid))
			}
			if trackUID, ok := cmds[i-1].TrackerUID(); !ok || trackUID != uid {
				return fail(fmt.Sprintf("wait on %s at %d has no tracker before it", uid, i))
			}
		}
	}
	return nil
}

// matchSubset checks that every key of expected is present in actual with
// an equal value. Objects recurse; other values compare by canonical JSON,
// so 3 matches both an integer and a float register value.
func matchSubset(path string, expected map[string]any, actual ir.IRObject) error {
	for key, want := range expected {
		fieldPath := path + "." + key
		got, ok := actual[key]
		if !ok {
			return fmt.Errorf("%s is missing", fieldPath)
		}

		if nested, ok := want.(map[string]any); ok {
			gotObj, ok := got.(ir.IRObject)
			if !ok {
				return fmt.Errorf("%s is not an object", fieldPath)
			}
			if err := matchSubset(fieldPath, nested, gotObj); err != nil {
				return err
			}
			continue
		}

		wantJSON, err := ir.MarshalCanonical(want)
		if err != nil {
			return fmt.Errorf("%s: %w", fieldPath, err)
		}
		gotJSON, err := ir.MarshalCanonical(got)
		if err != nil {
			return fmt.Errorf("%s: %w", fieldPath, err)
		}
		if !bytes.Equal(wantJSON, gotJSON) {
			return fmt.Errorf("%s is %s, want %s", fieldPath, gotJSON, wantJSON)
		}
	}
	return nil
}

// EvaluateAssertions runs all assertions and collects failures.
func EvaluateAssertions(cmds []ir.Command, assertions []Assertion) []string {
	var errors []string
	for _, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertCommandCount:
			err = assertCommandCount(cmds, assertion)
		case AssertCommandOrder:
			err = assertCommandOrder(cmds, assertion)
		case AssertCommandAt:
			err = assertCommandAt(cmds, assertion)
		case AssertTrackerPaired:
			err = assertTrackerPaired(cmds, assertion)
		default:
			err = fmt.Errorf("unknown assertion type: %s", assertion.Type)
		}
		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}
