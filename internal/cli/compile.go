package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lafritemema/MARS-data-build/internal/actiondoc"
	"github.com/lafritemema/MARS-data-build/internal/compiler"
	"github.com/lafritemema/MARS-data-build/internal/config"
	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/proxy"
	"github.com/lafritemema/MARS-data-build/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output         string // output file path
	Database       string
	Interval       int
	DrillingReport bool

	// UIDGenerator allows overriding the tracker uid source (for testing).
	// If nil, defaults to proxy.UUIDGenerator.
	UIDGenerator proxy.UIDGenerator
}

// CompiledSequence is the command sequence of one action.
type CompiledSequence struct {
	File        string       `json:"file"`
	Index       int          `json:"index"`
	ActionType  string       `json:"action_type"`
	Description string       `json:"description,omitempty"`
	ID          string       `json:"id"`
	ShapeHash   string       `json:"shape_hash"`
	Commands    []ir.Command `json:"commands"`
}

// CompilationResult holds every compiled sequence, in document order.
type CompilationResult struct {
	Sequences []CompiledSequence `json:"sequences"`
	Stored    int                `json:"stored,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <path>",
		Short: "Compile action documents to command sequences",
		Long: `Compile the actions of a document, or of every document under a
directory, into controller command sequences.

Each action becomes one ordered list of PROXY and HMI commands. Sequences can
be written to a JSON file (--output) and recorded in a sequence database (--db)
for the executor.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record sequences in this SQLite database (overrides MARS_DATABASE)")
	cmd.Flags().IntVar(&opts.Interval, "interval", 0, "tracker polling interval in ms (overrides MARS_TRACK_INTERVAL)")
	cmd.Flags().BoolVar(&opts.DrillingReport, "drilling-report", false, "append the drilling report read to WORK.DRILL sequences")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg := compileConfig(opts, cmd)
	if opts.Interval < 0 {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("--interval must be positive, got %d", opts.Interval), nil)
	}

	loadResult, loadErrors := LoadActions(path, actiondoc.LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		return outputCompileError(formatter, ErrorCode(loadErrors[0]), errorMessage(loadErrors[0]), nil)
	}
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}

	formatter.VerboseLog("Loaded %d document(s) from %s", len(loadResult.Files), path)

	c := compiler.New(
		compiler.WithBuilder(proxy.NewBuilder(opts.UIDGenerator, proxy.WithTrackInterval(cfg.TrackInterval))),
		compiler.WithDrillingReport(cfg.DrillingReport),
	)

	result := &CompilationResult{Sequences: []CompiledSequence{}}
	var compileErrors []error
	for _, file := range loadResult.Files {
		for i, action := range file.Actions {
			formatter.VerboseLog("Compiling %s[%d]: %s", file.Path, i, action.Type)

			cmds, err := c.Compile(action)
			if err != nil {
				compileErrors = append(compileErrors, &actionError{File: file.Path, Index: i, Err: err})
				continue
			}
			seq, err := store.NewSequence(action.Type, action.Description, cmds)
			if err != nil {
				compileErrors = append(compileErrors, &actionError{File: file.Path, Index: i, Err: err})
				continue
			}
			result.Sequences = append(result.Sequences, CompiledSequence{
				File:        file.Path,
				Index:       i,
				ActionType:  action.Type,
				Description: action.Description,
				ID:          seq.ID,
				ShapeHash:   seq.ShapeHash,
				Commands:    cmds,
			})
		}
	}

	if len(compileErrors) > 0 {
		return outputCompileErrors(formatter, compileErrors)
	}

	if opts.Output != "" {
		if err := writeSequencesToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if cfg.Database != "" {
		stored, err := storeSequences(cmd.Context(), cfg.Database, result)
		if err != nil {
			return outputCompileError(formatter, ErrCodeStoreFailed, fmt.Sprintf("storing sequences: %v", err), nil)
		}
		result.Stored = stored
	}

	return outputCompileSuccess(formatter, result, opts.Output, cfg.Database)
}

// compileConfig applies the command flags on top of the loaded configuration.
func compileConfig(opts *CompileOptions, cmd *cobra.Command) config.Config {
	cfg := opts.Config
	if cmd.Flags().Changed("interval") {
		cfg.TrackInterval = opts.Interval
	}
	if cmd.Flags().Changed("drilling-report") {
		cfg.DrillingReport = opts.DrillingReport
	}
	if cmd.Flags().Changed("db") {
		cfg.Database = opts.Database
	}
	return cfg
}

// actionError locates a compilation error in its document.
type actionError struct {
	File  string
	Index int
	Err   error
}

func (e *actionError) Error() string {
	return fmt.Sprintf("%s: actions[%d]: %v", e.File, e.Index, e.Err)
}

func (e *actionError) Unwrap() error {
	return e.Err
}

// storeSequences records every sequence and returns how many were new.
func storeSequences(ctx context.Context, path string, result *CompilationResult) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	inserted := 0
	for _, s := range result.Sequences {
		seq, err := store.NewSequence(s.ActionType, s.Description, s.Commands)
		if err != nil {
			return inserted, err
		}
		ok, err := st.WriteSequence(ctx, seq)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	slog.Info("sequences stored", "db", path, "inserted", inserted, "total", len(result.Sequences))
	return inserted, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile, database string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	total := 0
	for _, s := range result.Sequences {
		total += len(s.Commands)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d action(s) into %d command(s)\n\n", len(result.Sequences), total)

	if len(result.Sequences) > 0 {
		fmt.Fprintln(formatter.Writer, "Sequences:")
		for _, s := range result.Sequences {
			fmt.Fprintf(formatter.Writer, "  %s[%d] %s: %d command(s), id %s\n",
				s.File, s.Index, s.ActionType, len(s.Commands), shortID(s.ID))
		}
		fmt.Fprintln(formatter.Writer)
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote sequences to %s\n", outputFile)
	}
	if database != "" {
		fmt.Fprintf(formatter.Writer, "Stored %d new sequence(s) in %s\n", result.Stored, database)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple load or compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			cliErrors[i] = CLIError{
				Code:    ErrorCode(err),
				Message: errorMessage(err),
			}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		var docErr *actiondoc.Error
		if errors.As(err, &docErr) && docErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				docErr.Pos.Filename(),
				docErr.Pos.Line(),
				docErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", ErrorCode(err), errorMessage(err))
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// writeSequencesToFile writes the compilation result to a file.
func writeSequencesToFile(result *CompilationResult, filename string) error {
	// Indented for readability; canonical JSON is used only for hashing.
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling sequences: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}

// shortID abbreviates a content id for text output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
