package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/foxvault/internal/config"
	"github.com/roach88/foxvault/internal/console"
	"github.com/roach88/foxvault/internal/ledger"
	"github.com/roach88/foxvault/internal/store"
	"github.com/roach88/foxvault/internal/testutil"
)

type runResult struct {
	outcome  Outcome
	err      error
	screen   string
	log      []string
	accounts []ledger.Account
}

// testConfig returns defaults with both files inside a fresh temp dir.
func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.AccountsPath = filepath.Join(dir, "accounts.dat")
	cfg.LogPath = filepath.Join(dir, "transactions.log")
	return cfg
}

// seed creates the account file with the given user accounts after admin.
func seed(t *testing.T, cfg config.Config, accounts ...ledger.Account) {
	t.Helper()
	s, err := store.Open(cfg.AccountsPath)
	require.NoError(t, err)
	for _, a := range accounts {
		require.NoError(t, s.Append(a))
	}
	require.NoError(t, s.Close())
}

func readAccountFile(t *testing.T, cfg config.Config) []byte {
	t.Helper()
	b, err := os.ReadFile(cfg.AccountsPath)
	require.NoError(t, err)
	return b
}

// runSession feeds input lines to a machine and collects everything it left
// behind. Input that runs out ends the session as a closed console.
func runSession(t *testing.T, cfg config.Config, input ...string) runResult {
	t.Helper()
	var screen bytes.Buffer
	in := strings.NewReader(strings.Join(input, "\n") + "\n")
	ui := console.New(in, &screen)
	defer ui.Close()

	clock := testutil.NewDeterministicClock()
	m := New(cfg, ui, WithClock(clock.Now))
	out, err := m.Run(context.Background())

	res := runResult{outcome: out, err: err, screen: screen.String()}
	res.log = auditMessages(t, cfg.LogPath)
	if _, statErr := os.Stat(cfg.AccountsPath); statErr == nil {
		s, openErr := store.Open(cfg.AccountsPath)
		require.NoError(t, openErr)
		res.accounts, err = s.ScanAll()
		require.NoError(t, err)
		require.NoError(t, s.Close())
	}
	return res
}

// auditMessages returns log entries with their timestamp prefix removed.
func auditMessages(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var out []string
	for _, line := range strings.Split(strings.TrimSuffix(string(b), "\n"), "\n") {
		if line == "" {
			continue
		}
		_, msg, ok := strings.Cut(line, "] ")
		require.True(t, ok, "malformed log line %q", line)
		out = append(out, msg)
	}
	return out
}

func findAccount(accounts []ledger.Account, id uint16) (ledger.Account, bool) {
	for _, a := range accounts {
		if a.ID == id {
			return a, true
		}
	}
	return ledger.Account{}, false
}

var alice = ledger.Account{ID: 1000, Name: "Alice", PIN: 1111}
