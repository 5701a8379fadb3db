package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lafritemema/MARS-data-build/internal/compiler"
	"github.com/lafritemema/MARS-data-build/internal/register"
)

// CatalogEntry is one register family as printed by the catalog command.
type CatalogEntry struct {
	Kind       string `json:"kind"`
	BasePath   string `json:"base_path"`
	ReadLimit  int    `json:"read_limit"`
	WriteLimit int    `json:"write_limit"`
	Subtype    string `json:"subtype,omitempty"`
	PayloadKey string `json:"payload_key"`
}

// CatalogResult lists the register families and the compilable action types.
type CatalogResult struct {
	Registers   []CatalogEntry `json:"registers"`
	ActionTypes []string       `json:"action_types"`
}

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List register families and action types",
		Long: `List the register families of the robot controller proxy, with their
base path and per-request read and write limits, and the action types the
compiler has a sequence for.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(rootOpts, cmd)
		},
	}

	return cmd
}

func runCatalog(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result, err := buildCatalog()
	if err != nil {
		_ = formatter.Error(ErrorCode(err), err.Error(), nil)
		return WrapExitError(ExitCommandError, "catalog", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tPATH\tREAD\tWRITE\tTYPE\tPAYLOAD")
	for _, e := range result.Registers {
		subtype := e.Subtype
		if subtype == "" {
			subtype = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n", e.Kind, e.BasePath, e.ReadLimit, e.WriteLimit, subtype, e.PayloadKey)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(formatter.Writer)
	fmt.Fprintln(formatter.Writer, "Action types:")
	for _, tag := range result.ActionTypes {
		fmt.Fprintf(formatter.Writer, "  %s\n", tag)
	}
	return nil
}

func buildCatalog() (CatalogResult, error) {
	result := CatalogResult{
		ActionTypes: compiler.DefaultRegistry().Tags(),
	}
	for _, kind := range register.Kinds() {
		e, err := register.Lookup(kind)
		if err != nil {
			return CatalogResult{}, err
		}
		result.Registers = append(result.Registers, CatalogEntry{
			Kind:       string(e.Kind),
			BasePath:   e.BasePath,
			ReadLimit:  e.ReadLimit,
			WriteLimit: e.WriteLimit,
			Subtype:    e.Subtype,
			PayloadKey: e.PayloadKey,
		})
	}
	return result, nil
}
