package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/foxvault/internal/ledger"
)

func TestNew_Empty(t *testing.T) {
	s := New()
	a, ok := s.Current()
	assert.False(t, ok)
	assert.Zero(t, a)
	assert.Empty(t, s.Token())
}

func TestBind_CapturesSnapshot(t *testing.T) {
	s := New()
	alice := ledger.Account{ID: 1000, Name: "Alice", PIN: 1111, Balance: 5}
	s.Bind(alice)

	got, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, alice, got)

	tok, err := uuid.Parse(s.Token())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), tok.Version())
}

func TestBind_RefreshKeepsToken(t *testing.T) {
	s := New()
	alice := ledger.Account{ID: 1000, Name: "Alice", PIN: 1111}
	s.Bind(alice)
	tok := s.Token()

	alice.Balance = 100
	s.Bind(alice)

	got, _ := s.Current()
	assert.Equal(t, 100.0, got.Balance)
	assert.Equal(t, tok, s.Token())
}

func TestBind_OtherAccountReplaces(t *testing.T) {
	s := New()
	s.Bind(ledger.Account{ID: 1000})
	tok := s.Token()

	s.Bind(ledger.Admin())

	got, ok := s.Current()
	require.True(t, ok)
	assert.True(t, got.IsAdmin())
	assert.NotEqual(t, tok, s.Token())
}

func TestClear(t *testing.T) {
	s := New()
	s.Bind(ledger.Admin())
	s.Clear()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
}
