package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roach88/foxvault/internal/ledger"
	"github.com/roach88/foxvault/internal/store"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	Accounts string
}

// InspectResult is the inspect payload. PINs are never included.
type InspectResult struct {
	Path     string           `json:"path"`
	Records  int              `json:"records"`
	Accounts []ledger.Account `json:"accounts"`
}

// String renders the text form of the result.
func (r InspectResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d records\n", r.Path, r.Records)
	for _, a := range r.Accounts {
		fmt.Fprintf(&b, "  %s\n", a)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print every record of the account file",
		Long: `Print the id, name and balance of every record in the account file.

The file is opened read-only: it is not created if it is missing and is
never modified.

Examples:
  foxvault inspect
  foxvault inspect --accounts ./accounts.dat --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Accounts, "accounts", "", "account file (overrides config)")

	return cmd
}

func runInspect(opts *InspectOptions, cmd *cobra.Command) error {
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

	accounts, err := st.ScanAll()
	if err != nil {
		return f.Fail(CodeIO, WrapExitError(ExitCommandError, "failed to read account file", err))
	}

	return f.Success(InspectResult{
		Path:     path,
		Records:  len(accounts),
		Accounts: accounts,
	})
}

// openExisting opens an account file that must already exist. The file is
// opened read-only and is never seeded.
func openExisting(f *OutputFormatter, path string, log zerolog.Logger) (*store.Store, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, f.Fail(CodeNotFound, NewExitError(ExitCommandError, fmt.Sprintf("account file not found: %s", path)))
	}
	f.VerboseLog("reading %s", path)
	st, err := store.Open(path, store.ReadOnly(), store.WithLogger(log))
	if err != nil {
		return nil, f.Fail(CodeIO, WrapExitError(ExitCommandError, "failed to open account file", err))
	}
	return st, nil
}
