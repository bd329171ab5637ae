package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/foxvault/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Accounts string
	Database string
}

// ExportResult is the export payload.
type ExportResult struct {
	Database string      `json:"database"`
	Meta     export.Meta `json:"meta"`
}

// String renders the text form of the result.
func (r ExportResult) String() string {
	return fmt.Sprintf("Exported %d records from %s to %s", r.Meta.Records, r.Meta.Source, r.Database)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a SQLite snapshot of the account file",
		Long: `Write the id, name and balance of every record into a SQLite database.

The accounts table is replaced on every export; PINs are never written.

Example:
  foxvault export --db report.db
  foxvault export --accounts ./accounts.dat --db report.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Accounts, "accounts", "", "account file (overrides config)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	cfg, log, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	path := cfg.AccountsPath
	if opts.Accounts != "" {
		path = opts.Accounts
	}

	f := opts.formatter(cmd)
	st, err := openExisting(f, path, log)
	if err != nil {
		return err
	}
	defer st.Close()

	f.VerboseLog("writing snapshot %s", opts.Database)
	snap, err := export.Open(opts.Database, export.WithLogger(log))
	if err != nil {
		return f.Fail(CodeIO, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer snap.Close()

	meta, err := snap.Write(cmd.Context(), path, st.Scan())
	if err != nil {
		return f.Fail(CodeIO, WrapExitError(ExitCommandError, "export failed", err))
	}

	return f.Success(ExportResult{Database: opts.Database, Meta: meta})
}
