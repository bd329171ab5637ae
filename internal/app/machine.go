package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roach88/foxvault/internal/audit"
	"github.com/roach88/foxvault/internal/config"
	"github.com/roach88/foxvault/internal/console"
	"github.com/roach88/foxvault/internal/ledger"
	"github.com/roach88/foxvault/internal/session"
	"github.com/roach88/foxvault/internal/store"
)

// ExitReason says why the machine reached ExitApp.
type ExitReason int

const (
	// ReasonQuit: the user chose the exit menu option.
	ReasonQuit ExitReason = iota
	// ReasonLockout: login attempts were exhausted.
	ReasonLockout
	// ReasonInputClosed: the console input reached EOF.
	ReasonInputClosed
	// ReasonInterrupted: the run context was cancelled.
	ReasonInterrupted
	// ReasonFatal: a file operation failed.
	ReasonFatal
)

func (r ExitReason) String() string {
	switch r {
	case ReasonQuit:
		return "quit"
	case ReasonLockout:
		return "lockout"
	case ReasonInputClosed:
		return "input closed"
	case ReasonInterrupted:
		return "interrupted"
	case ReasonFatal:
		return "fatal"
	default:
		return fmt.Sprintf("ExitReason(%d)", int(r))
	}
}

// Outcome summarises a finished run.
type Outcome struct {
	Reason ExitReason
	// LastState is the state whose handler ran last.
	LastState State
	// AccountID is the id bound at exit, or 0 if no session was bound.
	AccountID uint16
}

type handler func(ctx context.Context) (Event, error)

// Machine is one console session over an account file and audit log.
type Machine struct {
	cfg   config.Config
	ui    *console.Console
	sess  *session.Session
	store *store.Store
	audit *audit.Log
	log   zerolog.Logger
	now   func() time.Time

	state    State
	handlers map[State]handler
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the diagnostic logger passed down to the store and log.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// WithClock sets the audit timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// New returns a machine in the Init state. Files are opened by Run.
func New(cfg config.Config, ui *console.Console, opts ...Option) *Machine {
	m := &Machine{
		cfg:   cfg,
		ui:    ui,
		sess:  session.New(),
		log:   zerolog.Nop(),
		now:   time.Now,
		state: Init,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.handlers = map[State]handler{
		Init:          m.init,
		Login:         m.login,
		NewAccount:    m.createAccount,
		MainMenu:      m.mainMenu,
		Balance:       m.showBalance,
		Deposit:       m.deposit,
		Withdrawal:    m.withdraw,
		ChangePIN:     m.changePIN,
		Logout:        m.logout,
		AdminMenu:     m.adminMenu,
		Accounts:      m.listAccounts,
		DeleteAccount: m.deleteAccount,
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Run drives the session until ExitApp, then shuts down. The returned error
// is non-nil only for file failures, in which case Reason is ReasonFatal.
func (m *Machine) Run(ctx context.Context) (Outcome, error) {
	out := Outcome{Reason: ReasonQuit}
	var runErr error

	for m.state != ExitApp {
		if ctx.Err() != nil {
			out.Reason = ReasonInterrupted
			m.transition(ExitApp, "interrupted")
			break
		}

		out.LastState = m.state
		ev, err := m.handlers[m.state](ctx)
		if err != nil {
			out.Reason, runErr = classify(err)
			m.transition(ExitApp, Event(out.Reason.String()))
			break
		}

		next := Next(m.state, ev)
		if ev == EventLockout {
			out.Reason = ReasonLockout
		}
		m.transition(next, ev)
	}

	if acct, ok := m.sess.Current(); ok {
		out.AccountID = acct.ID
	}
	if err := m.shutdown(); err != nil {
		out.Reason = ReasonFatal
		runErr = errors.Join(runErr, err)
	}
	return out, runErr
}

func classify(err error) (ExitReason, error) {
	switch {
	case errors.Is(err, console.ErrInputClosed):
		return ReasonInputClosed, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonInterrupted, nil
	default:
		return ReasonFatal, err
	}
}

func (m *Machine) transition(next State, ev Event) {
	m.log.Debug().
		Stringer("from", m.state).
		Str("event", string(ev)).
		Stringer("to", next).
		Str("session", m.sess.Token()).
		Msg("transition")
	m.state = next
}

func (m *Machine) init(ctx context.Context) (Event, error) {
	m.ui.Printf("\n")

	st, err := store.Open(m.cfg.AccountsPath, store.WithLogger(m.log))
	if err != nil {
		return "", err
	}
	m.store = st

	lg, err := audit.Open(m.cfg.LogPath, audit.WithClock(m.now), audit.WithLogger(m.log))
	if err != nil {
		return "", err
	}
	m.audit = lg

	return EventDone, nil
}

// shutdown closes the store, writes the final audit entry, and closes the log.
func (m *Machine) shutdown() error {
	var errs []error
	if m.store != nil {
		errs = append(errs, m.store.Close())
	}
	if m.audit != nil {
		if acct, ok := m.sess.Current(); ok {
			m.audit.Record("ID:%d - Application closed", acct.ID)
		} else {
			m.audit.Record("Application closed without login")
		}
		errs = append(errs, m.audit.Close())
	}
	m.sess.Clear()
	return errors.Join(errs...)
}

// current returns the bound account. Handlers past Login always have one.
func (m *Machine) current() ledger.Account {
	acct, _ := m.sess.Current()
	return acct
}

// menuEvent routes back to the menu owning the current session.
func (m *Machine) menuEvent() Event {
	if m.current().IsAdmin() {
		return EventAdmin
	}
	return EventUser
}

func (m *Machine) maxAttempts() int {
	return max(m.cfg.MaxAttempts, 1)
}
