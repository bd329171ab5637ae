package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/foxvault/internal/ledger"
)

func TestFindByID_AfterAppend(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, alice, bob, carol)

	for _, want := range []ledger.Account{alice, bob, carol, ledger.Admin()} {
		got, err := s.FindByID(want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.FindByID(1234)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Exists(1234)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScan_FileOrderAndRestartable(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, alice, bob)

	want := []uint16{9999, 1000, 1001}
	assert.Equal(t, want, ids(t, s))
	assert.Equal(t, want, ids(t, s), "second scan starts from the beginning")
}

func TestScan_EarlyBreak(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, alice, bob)

	seen := 0
	for _, err := range s.Scan() {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestScan_PartialTrailingRecordEndsStream(t *testing.T) {
	s := createTestStore(t)
	seedStore(t, s, alice)

	f, err := os.OpenFile(s.Path(), os.O_WRONLY|os.O_APPEND, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{0xE9, 0x03, 'Z'})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, []uint16{9999, 1000}, ids(t, s))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestScan_ClosedStoreYieldsIOError(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())

	_, err := s.ScanAll()
	assert.True(t, IsIOError(err))

	_, err = s.FindByID(ledger.AdminID)
	assert.True(t, IsIOError(err))
}
