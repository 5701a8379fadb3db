package harness

import (
	"fmt"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// Result is the outcome of one scenario.
type Result struct {
	Pass       bool         `json:"pass"`
	ActionType string       `json:"action_type"`
	Commands   []ir.Command `json:"commands"` // empty when compilation failed
	SequenceID string       `json:"sequence_id,omitempty"`
	ShapeHash  string       `json:"shape_hash,omitempty"`

	// CompileError is the code of an expected compilation failure.
	CompileError string   `json:"compile_error,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

// NewResult returns a passing result with no commands.
func NewResult() *Result {
	return &Result{Pass: true, Commands: []ir.Command{}, Errors: []string{}}
}

// AddError records a failed check.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Failf records a failed check built from a format string.
func (r *Result) Failf(format string, args ...any) {
	r.AddError(fmt.Sprintf(format, args...))
}
