package cli

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/foxvault/internal/config"
	"github.com/roach88/foxvault/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the FoxVault CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "foxvault",
		Short: "FoxVault - console banking terminal",
		Long: `FoxVault is a single-user console banking terminal over a fixed-width
account file and an append-only transaction log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// setup loads the configuration and builds the diagnostic logger on the
// command's stderr.
func (o *RootOptions) setup(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	f := o.formatter(cmd)
	cfg, err := config.Load(config.LoadOptions{File: o.ConfigFile})
	if err != nil {
		return config.Config{}, zerolog.Nop(),
			f.Fail(CodeConfig, WrapExitError(ExitCommandError, "failed to load config", err))
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, o.Verbose)
	if err != nil {
		return config.Config{}, zerolog.Nop(),
			f.Fail(CodeConfig, WrapExitError(ExitCommandError, "failed to configure logging", err))
	}
	return cfg, log, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
