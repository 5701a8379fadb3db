package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lafritemema/MARS-data-build/internal/actiondoc"
	"github.com/lafritemema/MARS-data-build/internal/compiler"
)

// ValidationIssue is a validation error located in a document.
// Index is -1 for document-level errors.
type ValidationIssue struct {
	File  string `json:"file,omitempty"`
	Index int    `json:"index"`
	compiler.ValidationError
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Actions int               `json:"actions"`
	Errors  []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Validate action documents without compiling",
		Long: `Validate action documents without generating command sequences.

Checks every document against the action schema, then checks each action
against the sequence registry and the controller code tables (effectors,
frames, movement types, manipulation trackers). All errors are reported.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadActions(path, actiondoc.LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return outputValidateError(formatter, ErrorCode(loadErrors[0]), errorMessage(loadErrors[0]), nil)
	}

	formatter.VerboseLog("Loaded %d document(s) from %s", len(loadResult.Files), path)

	result := ValidationResult{}
	for _, err := range loadErrors {
		result.Errors = append(result.Errors, loadIssue(err))
	}

	registry := compiler.DefaultRegistry()
	for _, file := range loadResult.Files {
		for i, action := range file.Actions {
			formatter.VerboseLog("Validating %s[%d]: %s", file.Path, i, action.Type)
			result.Actions++
			for _, verr := range compiler.ValidateAction(registry, action) {
				result.Errors = append(result.Errors, ValidationIssue{File: file.Path, Index: i, ValidationError: verr})
			}
		}
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}

	result.Valid = true
	return outputValidateSuccess(formatter, result)
}

// loadIssue converts a document load error into a validation issue.
func loadIssue(err error) ValidationIssue {
	issue := ValidationIssue{
		Index: -1,
		ValidationError: compiler.ValidationError{
			Field:   "document",
			Message: errorMessage(err),
			Code:    ErrorCode(err),
		},
	}
	if docErr, ok := err.(*actiondoc.Error); ok {
		issue.File = docErr.File
		issue.Index = docErr.Index
		issue.Message = docErr.Message
	}
	return issue
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All actions valid (%d checked)\n", result.Actions)
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Unreadable input is a command-level error (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, issue := range errs {
		switch {
		case issue.File != "" && issue.Index >= 0:
			fmt.Fprintf(formatter.Writer, "%s[%d] %s\n", issue.File, issue.Index, issue.Field)
		case issue.File != "":
			fmt.Fprintf(formatter.Writer, "%s\n", issue.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", issue.Code, issue.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
