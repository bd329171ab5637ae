package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/foxvault/internal/ledger"
	"github.com/roach88/foxvault/internal/store"
)

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seedAccounts writes an account file holding admin plus accounts and
// returns its path.
func seedAccounts(t *testing.T, dir string, accounts ...ledger.Account) string {
	t.Helper()
	path := filepath.Join(dir, "accounts.dat")
	st, err := store.Open(path)
	require.NoError(t, err)
	for _, a := range accounts {
		require.NoError(t, st.Append(a))
	}
	require.NoError(t, st.Close())
	return path
}

var alice = ledger.Account{ID: 1000, Name: "Alice", PIN: 1111, Balance: 12.5}
