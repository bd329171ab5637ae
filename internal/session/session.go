// Package session holds the single authenticated identity of a process.
package session

import (
	"github.com/google/uuid"

	"github.com/roach88/foxvault/internal/ledger"
)

// Session is either empty or bound to one account snapshot. The snapshot is
// not synced with the store automatically; operations that mutate the
// bound account rebind with the record the store returned.
type Session struct {
	acct  ledger.Account
	bound bool
	token string
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Bind captures a as the active identity, replacing any previous snapshot.
// Rebinding the same account id keeps the correlation token; binding a
// different id starts a new one.
func (s *Session) Bind(a ledger.Account) {
	if !s.bound || s.acct.ID != a.ID {
		s.token = uuid.Must(uuid.NewV7()).String()
	}
	s.acct = a
	s.bound = true
}

// Current returns the bound snapshot and true, or a zero Account and false.
func (s *Session) Current() (ledger.Account, bool) {
	return s.acct, s.bound
}

// Token returns the correlation id of the current login, or "" when empty.
func (s *Session) Token() string {
	return s.token
}

// Clear returns the session to the unauthenticated state.
func (s *Session) Clear() {
	*s = Session{}
}
