package app

import (
	"context"
	"math"

	"github.com/roach88/foxvault/internal/ledger"
)

func (m *Machine) mainMenu(ctx context.Context) (Event, error) {
	renderMainMenu(m.ui)
	n, err := m.ui.ReadChoice(ctx, "Choose option", len(mainMenuItems))
	if err != nil {
		return "", err
	}
	return Choice(n), nil
}

func (m *Machine) showBalance(ctx context.Context) (Event, error) {
	acct := m.current()
	m.ui.Box("Account details")
	m.ui.Printf(" Balance: %.2f %s\n", acct.Balance, m.cfg.Currency)
	m.ui.Printf(" Name: %s\n", acct.Name)
	m.ui.Printf(" ID: %d\n", acct.ID)

	m.audit.Record("ID:%d - Balance viewed", acct.ID)
	return EventDone, nil
}

func (m *Machine) deposit(ctx context.Context) (Event, error) {
	acct := m.current()
	m.ui.Box("Deposit")

	amount, err := m.ui.ReadAmount(ctx, "Deposit")
	if err != nil {
		return "", err
	}

	if math.IsInf(acct.Balance+amount, 0) {
		m.ui.Printf(" Deposit would exceed the balance limit!\n")
		m.audit.Record("ID:%d - Failed deposit attempt %.2f %s", acct.ID, amount, m.cfg.Currency)
		return EventDone, nil
	}

	if err := m.adjustBalance(acct.ID, amount); err != nil {
		return "", err
	}
	m.audit.Record("ID:%d - Deposit %+.2f %s", acct.ID, amount, m.cfg.Currency)
	return EventDone, nil
}

// withdraw refuses amounts above the session's cached balance without
// touching the store.
func (m *Machine) withdraw(ctx context.Context) (Event, error) {
	acct := m.current()
	m.ui.Box("Withdraw")

	amount, err := m.ui.ReadAmount(ctx, "Withdraw")
	if err != nil {
		return "", err
	}

	if amount > acct.Balance {
		m.ui.Printf(" Not enough funds in the account!\n")
		m.audit.Record("ID:%d - Failed withdraw attempt %.2f %s", acct.ID, amount, m.cfg.Currency)
		return EventDone, nil
	}

	if err := m.adjustBalance(acct.ID, -amount); err != nil {
		return "", err
	}
	m.audit.Record("ID:%d - Withdraw %+.2f %s", acct.ID, -amount, m.cfg.Currency)
	return EventDone, nil
}

// adjustBalance applies delta in the store and rebinds the session with the
// stored result.
func (m *Machine) adjustBalance(id uint16, delta float64) error {
	updated, found, err := m.store.UpdateField(id, func(a *ledger.Account) {
		a.Balance += delta
	})
	if err != nil {
		return err
	}
	if found {
		m.sess.Bind(updated)
	}
	return nil
}

// changePIN verifies the current PIN, then requires the new one twice.
// Exhausting either stage abandons the change.
func (m *Machine) changePIN(ctx context.Context) (Event, error) {
	acct := m.current()
	m.ui.Box("Change PIN")

	limit := m.maxAttempts()
	verified := false
	for attempt := 1; attempt <= limit; attempt++ {
		pin, err := m.ui.ReadID(ctx, "PIN", 9999)
		if err != nil {
			return "", err
		}
		if pin == acct.PIN {
			verified = true
			break
		}
		m.ui.Printf(" PIN does not match. Remaining attempts: %d\n\n", limit-attempt)
		m.audit.Record("ID:%d - Wrong verification PIN", acct.ID)
	}
	if !verified {
		m.audit.Record("ID:%d - PIN verification failed", acct.ID)
		return m.menuEvent(), nil
	}
	m.ui.Printf("\n")

	for attempt := 1; attempt <= limit; attempt++ {
		newPIN, err := m.ui.ReadID(ctx, "New PIN", 9999)
		if err != nil {
			return "", err
		}
		confirm, err := m.ui.ReadID(ctx, "Confirm", 9999)
		if err != nil {
			return "", err
		}
		if newPIN != confirm {
			m.ui.Printf(" PINs do not match. Remaining attempts: %d\n\n", limit-attempt)
			continue
		}

		updated, found, err := m.store.UpdateField(acct.ID, func(a *ledger.Account) {
			a.PIN = newPIN
		})
		if err != nil {
			return "", err
		}
		if found {
			m.sess.Bind(updated)
		}
		m.audit.Record("ID:%d - PIN successfully changed", acct.ID)
		m.ui.Printf(" PIN was successfully changed\n")
		break
	}
	return m.menuEvent(), nil
}

func (m *Machine) logout(ctx context.Context) (Event, error) {
	acct := m.current()
	m.ui.Box("Successfully logged out")
	m.ui.Printf("\n\n\n\n\n")

	m.audit.Record("ID:%d - Successfully logged out", acct.ID)
	m.log.Info().Uint16("id", acct.ID).Str("session", m.sess.Token()).Msg("logout")
	m.sess.Clear()
	return EventDone, nil
}
