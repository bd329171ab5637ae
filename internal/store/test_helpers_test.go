package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/foxvault/internal/ledger"
)

// createTestStore opens a fresh store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accounts.dat")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedStore appends accounts after the admin record.
func seedStore(t *testing.T, s *Store, accounts ...ledger.Account) {
	t.Helper()
	for _, a := range accounts {
		require.NoError(t, s.Append(a))
	}
}

func readFile(t *testing.T, s *Store) []byte {
	t.Helper()
	b, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	return b
}

func ids(t *testing.T, s *Store) []uint16 {
	t.Helper()
	all, err := s.ScanAll()
	require.NoError(t, err)
	out := make([]uint16, 0, len(all))
	for _, a := range all {
		out = append(out, a.ID)
	}
	return out
}

var (
	alice = ledger.Account{ID: 1000, Name: "Alice", PIN: 1111, Balance: 0}
	bob   = ledger.Account{ID: 1001, Name: "Bob", PIN: 2222, Balance: 25.5}
	carol = ledger.Account{ID: 1002, Name: "Carol", PIN: 3333, Balance: 7}
)
