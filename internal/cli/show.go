package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lafritemema/MARS-data-build/internal/harness"
	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	Tracker  string
	Shape    string
}

// SequenceSummary is a stored sequence without its commands.
type SequenceSummary struct {
	ID              string `json:"id"`
	ShapeHash       string `json:"shape_hash"`
	ActionType      string `json:"action_type"`
	Description     string `json:"description,omitempty"`
	CommandCount    int    `json:"command_count"`
	CompilerVersion string `json:"compiler_version"`
	Seq             int64  `json:"seq"`
}

// SequenceDetail is a stored sequence with its commands.
type SequenceDetail struct {
	SequenceSummary
	Commands []ir.Command `json:"commands"`
}

// TrackerDetail is a stored tracker subscription.
type TrackerDetail struct {
	UID          string `json:"uid"`
	SequenceID   string `json:"sequence_id"`
	Position     int    `json:"position"`
	WaitPosition int    `json:"wait_position"`
	Kind         string `json:"kind"`
	Path         string `json:"path"`
	Reg          int64  `json:"reg"`
	IntervalMs   int64  `json:"interval_ms"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [sequence-id]",
		Short: "Inspect stored sequences",
		Long: `Inspect the sequences recorded by "marsc compile --db".

Without arguments, lists every stored sequence in write order. With a
sequence id, prints its commands. --tracker resolves a tracker uid to the
sequence and position that subscribed it.

Examples:
  marsc show --db ./mars.db
  marsc show --db ./mars.db 3f2a...
  marsc show --db ./mars.db --tracker 0b1c...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runShow(opts, id, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides MARS_DATABASE)")
	cmd.Flags().StringVar(&opts.Tracker, "tracker", "", "show the tracker with this uid")
	cmd.Flags().StringVar(&opts.Shape, "shape", "", "list sequences with this shape hash")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path := opts.Config.Database
	if cmd.Flags().Changed("db") {
		path = opts.Database
	}
	if path == "" {
		return showError(formatter, ExitCommandError, ErrCodeGeneric, "no database: set --db or MARS_DATABASE")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return showError(formatter, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", path))
	}

	st, err := store.Open(path)
	if err != nil {
		return showError(formatter, ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("opening database: %v", err))
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case opts.Tracker != "":
		return showTracker(ctx, formatter, st, opts.Tracker)
	case id != "":
		return showSequence(ctx, formatter, st, id)
	default:
		return listSequences(ctx, formatter, st, opts.Shape)
	}
}

func listSequences(ctx context.Context, formatter *OutputFormatter, st *store.Store, shape string) error {
	var seqs []store.Sequence
	var err error
	if shape != "" {
		seqs, err = st.SequencesWithShape(ctx, shape)
	} else {
		seqs, err = st.ListSequences(ctx)
	}
	if err != nil {
		return showError(formatter, ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("listing sequences: %v", err))
	}

	summaries := make([]SequenceSummary, len(seqs))
	for i, s := range seqs {
		summaries[i] = summarize(s)
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No sequences stored.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%4d  %s  %-20s %3d command(s)  %s\n",
			s.Seq, shortID(s.ID), s.ActionType, s.CommandCount, s.Description)
	}
	return nil
}

func showSequence(ctx context.Context, formatter *OutputFormatter, st *store.Store, id string) error {
	seq, err := st.ReadSequence(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return showError(formatter, ExitFailure, ErrCodeNotFound, fmt.Sprintf("sequence not found: %s", id))
	}
	if err != nil {
		return showError(formatter, ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("reading sequence: %v", err))
	}

	detail := SequenceDetail{SequenceSummary: summarize(seq), Commands: seq.Commands}
	if formatter.Format == "json" {
		return formatter.Success(detail)
	}

	fmt.Fprintf(formatter.Writer, "%s %s (%d command(s))\n", detail.ActionType, detail.ID, detail.CommandCount)
	if detail.Description != "" {
		fmt.Fprintf(formatter.Writer, "  %s\n", detail.Description)
	}
	fmt.Fprintln(formatter.Writer)
	for i, c := range detail.Commands {
		fmt.Fprintf(formatter.Writer, "%3d  %-45s %s\n", i, harness.Label(c), c.Description)
	}
	return nil
}

func showTracker(ctx context.Context, formatter *OutputFormatter, st *store.Store, uid string) error {
	t, err := st.ReadTracker(ctx, uid)
	if errors.Is(err, sql.ErrNoRows) {
		return showError(formatter, ExitFailure, ErrCodeNotFound, fmt.Sprintf("tracker not found: %s", uid))
	}
	if err != nil {
		return showError(formatter, ExitCommandError, ErrCodeStoreFailed, fmt.Sprintf("reading tracker: %v", err))
	}

	detail := TrackerDetail(t)
	if formatter.Format == "json" {
		return formatter.Success(detail)
	}

	fmt.Fprintf(formatter.Writer, "tracker %s\n", detail.UID)
	fmt.Fprintf(formatter.Writer, "  sequence: %s (command %d)\n", detail.SequenceID, detail.Position)
	fmt.Fprintf(formatter.Writer, "  watch:    %s reg %d, %s, every %d ms\n", detail.Path, detail.Reg, detail.Kind, detail.IntervalMs)
	if detail.WaitPosition >= 0 {
		fmt.Fprintf(formatter.Writer, "  wait:     command %d\n", detail.WaitPosition)
	} else {
		fmt.Fprintln(formatter.Writer, "  wait:     none")
	}
	return nil
}

func summarize(s store.Sequence) SequenceSummary {
	return SequenceSummary{
		ID:              s.ID,
		ShapeHash:       s.ShapeHash,
		ActionType:      s.ActionType,
		Description:     s.Description,
		CommandCount:    s.CommandCount,
		CompilerVersion: s.CompilerVersion,
		Seq:             s.Seq,
	}
}

func showError(formatter *OutputFormatter, exitCode int, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(exitCode, fmt.Sprintf("%s: %s", code, message))
}
