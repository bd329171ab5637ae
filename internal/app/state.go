package app

import "strconv"

// State is a screen or operation of the console session.
type State int

const (
	Init State = iota
	Login
	NewAccount
	MainMenu
	Balance
	Deposit
	Withdrawal
	ChangePIN
	Logout
	ExitApp
	AdminMenu
	Accounts
	DeleteAccount
)

var stateNames = [...]string{
	Init:          "Init",
	Login:         "Login",
	NewAccount:    "NewAccount",
	MainMenu:      "MainMenu",
	Balance:       "Balance",
	Deposit:       "Deposit",
	Withdrawal:    "Withdrawal",
	ChangePIN:     "ChangePIN",
	Logout:        "Logout",
	ExitApp:       "ExitApp",
	AdminMenu:     "AdminMenu",
	Accounts:      "Accounts",
	DeleteAccount: "DeleteAccount",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Event is what a state handler reports when it finishes.
type Event string

const (
	// EventDone is reported by states with a single successor.
	EventDone Event = "done"
	// EventUser and EventAdmin report which menu the session belongs to.
	EventUser  Event = "user"
	EventAdmin Event = "admin"
	// EventCreate is reported when the new-account sentinel is entered.
	EventCreate Event = "create"
	// EventLockout is reported when login attempts are exhausted.
	EventLockout Event = "lockout"
)

// Choice is the event for menu option n.
func Choice(n int) Event {
	return Event(strconv.Itoa(n))
}

var transitions = map[State]map[Event]State{
	Init: {EventDone: Login},
	Login: {
		EventUser:    MainMenu,
		EventAdmin:   AdminMenu,
		EventCreate:  NewAccount,
		EventLockout: ExitApp,
	},
	NewAccount: {EventDone: Login},
	MainMenu: {
		Choice(1): Balance,
		Choice(2): Deposit,
		Choice(3): Withdrawal,
		Choice(4): ChangePIN,
		Choice(5): Logout,
		Choice(6): ExitApp,
	},
	Balance:    {EventDone: MainMenu},
	Deposit:    {EventDone: MainMenu},
	Withdrawal: {EventDone: MainMenu},
	ChangePIN: {
		EventUser:  MainMenu,
		EventAdmin: AdminMenu,
	},
	Logout: {EventDone: Login},
	AdminMenu: {
		Choice(1): Accounts,
		Choice(2): DeleteAccount,
		Choice(3): ChangePIN,
		Choice(4): Logout,
		Choice(5): ExitApp,
	},
	Accounts:      {EventDone: AdminMenu},
	DeleteAccount: {EventDone: AdminMenu},
}

// Next returns the state that follows from on ev. Unknown pairs, including
// anything from ExitApp, go to ExitApp.
func Next(from State, ev Event) State {
	if to, ok := transitions[from][ev]; ok {
		return to
	}
	return ExitApp
}
