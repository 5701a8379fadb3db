package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/lafritemema/MARS-data-build/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	LogFile string
	EnvFile string

	// Config is loaded before any subcommand runs. Subcommand flags
	// override its fields.
	Config config.Config

	logCloser io.Closer
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the marsc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "marsc",
		Short: "marsc - MARS sequence compiler",
		Long: `Compile planned robot actions into controller command sequences.

Actions are read from YAML, JSON or CUE documents and compiled into the
ordered PROXY and HMI commands an executor sends to the robot controller.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Subcommands silence cobra's error output.
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", msg)
				return NewExitError(ExitCommandError, msg)
			}

			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid configuration: %v\n", err)
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = opts.LogFile
			}
			opts.Config = cfg

			closer, err := setupLogging(cfg, opts.Verbose, cmd.ErrOrStderr())
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: failed to set up logging: %v\n", err)
				return WrapExitError(ExitCommandError, "failed to set up logging", err)
			}
			opts.logCloser = closer
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.logCloser != nil {
				return opts.logCloser.Close()
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "also write JSON logs to this file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", config.DefaultDotenv, "dotenv file read before MARS_* variables")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newFormatter builds the formatter of a command run.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
