package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/foxvault/internal/app"
	"github.com/roach88/foxvault/internal/console"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Accounts string
	Log      string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an interactive banking session",
		Long: `Start an interactive console session over the account file.

The account file is created with the administrator record (ID 9999,
PIN 9999) if it does not exist.

Exit codes:
  1 - Session ended (exit option, closed input or interrupt)
  2 - Fatal file or configuration error
  3 - Too many failed login attempts

Example:
  foxvault run
  foxvault run --accounts ./accounts.dat --log ./transactions.log`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Accounts, "accounts", "", "account file (overrides config)")
	cmd.Flags().StringVar(&opts.Log, "log", "", "transaction log (overrides config)")

	return cmd
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
	cfg, log, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	if opts.Accounts != "" {
		cfg.AccountsPath = opts.Accounts
	}
	if opts.Log != "" {
		cfg.LogPath = opts.Log
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := console.New(cmd.InOrStdin(), cmd.OutOrStdout())
	defer ui.Close()

	log.Debug().Str("accounts", cfg.AccountsPath).Str("log", cfg.LogPath).Msg("session starting")
	out, err := app.New(cfg, ui, app.WithLogger(log)).Run(ctx)
	log.Debug().
		Stringer("reason", out.Reason).
		Stringer("last_state", out.LastState).
		Uint16("account", out.AccountID).
		Msg("session ended")

	return exitFor(out, err)
}

// exitFor maps a finished session to its process exit status.
func exitFor(out app.Outcome, err error) error {
	if err != nil {
		return WrapExitError(ExitCommandError, "session aborted", err)
	}
	switch out.Reason {
	case app.ReasonLockout:
		return NewExitError(ExitLockout, "too many failed login attempts")
	case app.ReasonFatal:
		return NewExitError(ExitCommandError, "session aborted")
	default:
		return NewExitError(ExitFailure, "")
	}
}
