package app

import (
	"context"
	"errors"

	"github.com/roach88/foxvault/internal/ledger"
	"github.com/roach88/foxvault/internal/store"
)

func (m *Machine) adminMenu(ctx context.Context) (Event, error) {
	renderAdminMenu(m.ui)
	n, err := m.ui.ReadChoice(ctx, "Choose option", len(adminMenuItems))
	if err != nil {
		return "", err
	}
	return Choice(n), nil
}

func (m *Machine) listAccounts(ctx context.Context) (Event, error) {
	admin := m.current()
	m.ui.Box("All accounts")

	if _, err := m.printAccounts(); err != nil {
		return "", err
	}
	m.audit.Record("ID:%d %s - Listed all accounts", admin.ID, admin.Name)
	return EventDone, nil
}

// printAccounts lists every record except the administrator's and returns
// how many were printed.
func (m *Machine) printAccounts() (int, error) {
	users := 0
	for a, err := range m.store.Scan() {
		if err != nil {
			return 0, err
		}
		if a.IsAdmin() {
			continue
		}
		m.ui.Printf(" ID: %d\n", a.ID)
		m.ui.Printf(" Name: %s\n", a.Name)
		m.ui.Printf(" Balance: %.2f\n\n", a.Balance)
		users++
	}
	if users == 0 {
		m.ui.Printf(" No user accounts created.\n\n")
	}
	return users, nil
}

// deleteAccount asks for an existing user id, up to maxAttempts times, and
// rebuilds the store without it. The administrator record is never deleted.
func (m *Machine) deleteAccount(ctx context.Context) (Event, error) {
	admin := m.current()
	m.ui.Box("Delete account")

	users, err := m.printAccounts()
	if err != nil {
		return "", err
	}
	if users == 0 {
		return EventDone, nil
	}

	limit := m.maxAttempts()
	var target uint16
	for attempt := 1; attempt <= limit && target == 0; attempt++ {
		id, err := m.ui.ReadID(ctx, "ID", ledger.AdminID)
		if err != nil {
			return "", err
		}
		if id == ledger.AdminID {
			m.ui.Printf(" The administrator account cannot be deleted. Remaining attempts: %d\n\n", limit-attempt)
			continue
		}
		exists, err := m.store.Exists(id)
		if err != nil {
			return "", err
		}
		if !exists {
			m.ui.Printf(" ID does not exist. Remaining attempts: %d\n\n", limit-attempt)
			continue
		}
		target = id
	}

	if target != 0 {
		err = m.store.DeleteByID(target)
		if errors.Is(err, store.ErrNotFound) {
			target = 0
		} else if err != nil {
			return "", err
		}
	}
	if target == 0 {
		m.audit.Record("ID:%d %s - Account deletion failed.", admin.ID, admin.Name)
		return EventDone, nil
	}

	m.audit.Record("ID:%d %s - Account with ID: %d successfully deleted", admin.ID, admin.Name, target)
	m.ui.Printf(" Account with ID %d was successfully deleted.\n\n", target)
	return EventDone, nil
}
