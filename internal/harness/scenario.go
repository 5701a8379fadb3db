package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lafritemema/MARS-data-build/internal/actiondoc"
	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// Scenario defines a compilation test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Action is the action to compile, written like a document entry.
	// Exactly one of Action and Document must be set.
	Action *actiondoc.RawAction `yaml:"action,omitempty"`

	// Document is the path of an action document. Relative paths are
	// resolved from the scenario file location.
	Document string `yaml:"document,omitempty"`

	// Index selects the action of Document to compile.
	Index int `yaml:"index,omitempty"`

	// UIDs are handed out to trackers in order. When empty, uids come from
	// a sequential generator prefixed with the scenario name.
	UIDs []string `yaml:"uids,omitempty"`

	// DrillingReport appends the drilling report read to WORK.DRILL sequences.
	DrillingReport bool `yaml:"drilling_report,omitempty"`

	// TrackInterval overrides the tracker polling interval in milliseconds.
	TrackInterval int `yaml:"track_interval,omitempty"`

	// ExpectError is the error code compilation must fail with
	// (CONFIG_ERROR or DATA_INCONSISTENCY). Assertions are skipped.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the compiled commands.
	// Supported types: command_count, command_order, command_at, tracker_paired
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the compiled commands.
type Assertion struct {
	// Type specifies the assertion type:
	// - "command_count": exactly Count commands
	// - "command_order": Commands labels appear in order
	// - "command_at": the command at Index matches Expect
	// - "tracker_paired": every wait follows the tracker of its uid
	Type string `yaml:"type"`

	// Count is the expected number of commands (used by command_count).
	Count int `yaml:"count,omitempty"`

	// Commands are the expected labels, in order (used by command_order).
	// A label is "ORIGIN/ACTION", followed by "METHOD path" for requests,
	// e.g. "PROXY/REQUEST PUT /numericRegister/single" or "PROXY/WAIT".
	Commands []string `yaml:"commands,omitempty"`

	// Index is the position of the checked command (used by command_at).
	Index int `yaml:"index,omitempty"`

	// Expect is the subset the command must match (used by command_at).
	Expect *CommandMatch `yaml:"expect,omitempty"`
}

// CommandMatch is a partial command. Empty fields are not checked; Query
// and Body are subset matches.
type CommandMatch struct {
	Origin      string         `yaml:"origin,omitempty"`
	Action      string         `yaml:"action,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Method      string         `yaml:"method,omitempty"`
	Path        string         `yaml:"path,omitempty"`
	Query       map[string]any `yaml:"query,omitempty"`
	Body        map[string]any `yaml:"body,omitempty"`
}

// Assertion type constants.
const (
	AssertCommandCount  = "command_count"
	AssertCommandOrder  = "command_order"
	AssertCommandAt     = "command_at"
	AssertTrackerPaired = "tracker_paired"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Document != "" && !filepath.IsAbs(scenario.Document) {
		scenario.Document = filepath.Join(filepath.Dir(path), scenario.Document)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Action == nil && s.Document == "":
		return fmt.Errorf("one of action or document is required")
	case s.Action != nil && s.Document != "":
		return fmt.Errorf("action and document are mutually exclusive")
	}

	if s.Document != "" {
		if _, err := os.Stat(s.Document); os.IsNotExist(err) {
			return fmt.Errorf("document not found: %s", s.Document)
		}
		if s.Index < 0 {
			return fmt.Errorf("index must be non-negative")
		}
	}

	if s.TrackInterval < 0 {
		return fmt.Errorf("track_interval must be non-negative")
	}

	switch ir.ErrorCode(s.ExpectError) {
	case "", ir.ErrCodeConfig, ir.ErrCodeDataInconsistency:
	default:
		return fmt.Errorf("unknown expect_error %q", s.ExpectError)
	}

	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCommandCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for command_count", index)
		}
	case AssertCommandOrder:
		if len(a.Commands) == 0 {
			return fmt.Errorf("assertions[%d]: commands list is required for command_order", index)
		}
	case AssertCommandAt:
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for command_at", index)
		}
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for command_at", index)
		}
	case AssertTrackerPaired:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
