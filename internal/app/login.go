package app

import (
	"context"
	"errors"

	"github.com/roach88/foxvault/internal/ledger"
	"github.com/roach88/foxvault/internal/store"
)

// login authenticates up to maxAttempts times. The new-account sentinel
// short-circuits regardless of attempts used.
func (m *Machine) login(ctx context.Context) (Event, error) {
	renderWelcome(m.ui)

	limit := m.maxAttempts()
	for attempt := 1; attempt <= limit; attempt++ {
		remaining := limit - attempt

		id, err := m.ui.ReadID(ctx, "ID", ledger.AdminID)
		if err != nil {
			return "", err
		}
		if id == ledger.NewAccountID {
			m.ui.Printf("\n")
			return EventCreate, nil
		}

		pin, err := m.ui.ReadID(ctx, "PIN", 9999)
		if err != nil {
			return "", err
		}

		acct, err := m.store.FindByID(id)
		if errors.Is(err, store.ErrNotFound) {
			m.ui.Printf(" ID not found. Remaining attempts: %d\n\n", remaining)
			m.audit.Record("ID:%d - ID not found", id)
			continue
		}
		if err != nil {
			return "", err
		}

		if acct.PIN != pin {
			m.ui.Printf(" PIN does not match. Remaining attempts: %d\n\n", remaining)
			m.audit.Record("ID:%d - Wrong PIN", id)
			continue
		}

		m.sess.Bind(acct)
		m.log.Info().Uint16("id", acct.ID).Str("session", m.sess.Token()).Msg("login")
		if acct.IsAdmin() {
			m.audit.Record("ID:%d %s - successful login", acct.ID, acct.Name)
			return EventAdmin, nil
		}
		m.audit.Record("ID:%d - Successful login", acct.ID)
		return EventUser, nil
	}

	m.ui.Printf(" Too many failed attempts. Exiting.\n")
	m.audit.Record("Login failed %d times - exiting", limit)
	return EventLockout, nil
}

// createAccount collects an unused id, a name and a confirmed PIN, then
// appends the account with a zero balance.
func (m *Machine) createAccount(ctx context.Context) (Event, error) {
	m.ui.Box("Create new account")

	var id uint16
	for {
		n, err := m.ui.ReadID(ctx, "ID", uint16(m.cfg.NewAccountMaxID))
		if err != nil {
			return "", err
		}
		if ledger.IsReserved(n) {
			m.ui.Printf(" ID %d is reserved. Enter another.\n\n", n)
			continue
		}
		exists, err := m.store.Exists(n)
		if err != nil {
			return "", err
		}
		if exists {
			m.ui.Printf(" Entered ID already exists. Enter another.\n\n")
			continue
		}
		id = n
		break
	}

	name, err := m.ui.ReadLine(ctx, "Name")
	if err != nil {
		return "", err
	}

	var pin uint16
	for {
		p, err := m.ui.ReadID(ctx, "New PIN", 9999)
		if err != nil {
			return "", err
		}
		confirm, err := m.ui.ReadID(ctx, "Confirm", 9999)
		if err != nil {
			return "", err
		}
		if p == confirm {
			pin = p
			break
		}
		m.ui.Printf(" PINs do not match.\n\n")
	}

	acct := ledger.Account{ID: id, Name: ledger.NormalizeName(name), PIN: pin}
	if err := m.store.Append(acct); err != nil {
		return "", err
	}

	m.ui.Printf(" Account successfully created.\n\n")
	m.audit.Record("ID:%d - New account created", id)
	return EventDone, nil
}
