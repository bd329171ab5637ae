package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/foxvault/internal/ledger"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	// Log is the audit log for context.
	Log []LogEntry
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Log) > 0 {
		fmt.Fprintf(&buf, "\nAudit log:\n")
		for i, entry := range e.Log {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, entry.Message)
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(r, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertExitReason:
		return assertExitReason(r, a)
	case AssertLastState:
		return assertLastState(r, a)
	case AssertAccount:
		return assertAccount(r, a)
	case AssertAccountAbsent:
		return assertAccountAbsent(r, a)
	case AssertAccountIDs:
		return assertAccountIDs(r, a)
	case AssertLogContains:
		return assertLogContains(r, a)
	case AssertLogOrder:
		return assertLogOrder(r, a)
	case AssertScreenContains:
		return assertScreenContains(r, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertExitReason(r *Result, a Assertion) error {
	if got := r.Outcome.Reason.String(); got != a.Reason {
		return &AssertionError{Type: a.Type, Expected: a.Reason, Actual: got, Log: r.Log}
	}
	return nil
}

func assertLastState(r *Result, a Assertion) error {
	if got := r.Outcome.LastState.String(); got != a.State {
		return &AssertionError{Type: a.Type, Expected: a.State, Actual: got, Log: r.Log}
	}
	return nil
}

func findAccount(accounts []ledger.Account, id uint16) (ledger.Account, bool) {
	i := slices.IndexFunc(accounts, func(a ledger.Account) bool { return a.ID == id })
	if i < 0 {
		return ledger.Account{}, false
	}
	return accounts[i], true
}

// assertAccount checks the record exists and matches the expected subset of
// fields.
func assertAccount(r *Result, a Assertion) error {
	acct, ok := findAccount(r.Accounts, a.ID)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("account %d present", a.ID),
			Actual:   fmt.Sprintf("ids %v", accountIDs(r.Accounts)),
		}
	}

	for field, want := range a.Expect {
		var got any
		var match bool
		switch field {
		case "name":
			got = acct.Name
			match = fmt.Sprint(want) == acct.Name
		case "pin":
			got = acct.PIN
			n, isNum := toFloat(want)
			match = isNum && n == float64(acct.PIN)
		case "balance":
			got = acct.Balance
			n, isNum := toFloat(want)
			match = isNum && n == acct.Balance
		default:
			return fmt.Errorf("unknown account field %q", field)
		}
		if !match {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("account %d %s = %v", a.ID, field, want),
				Actual:   fmt.Sprintf("%v", got),
				Log:      r.Log,
			}
		}
	}
	return nil
}

func assertAccountAbsent(r *Result, a Assertion) error {
	if _, ok := findAccount(r.Accounts, a.ID); ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("no account %d", a.ID),
			Actual:   fmt.Sprintf("ids %v", accountIDs(r.Accounts)),
			Log:      r.Log,
		}
	}
	return nil
}

func assertAccountIDs(r *Result, a Assertion) error {
	got := accountIDs(r.Accounts)
	want := slices.Clone(a.IDs)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("ids %v", want),
			Actual:   fmt.Sprintf("ids %v", got),
		}
	}
	return nil
}

func assertLogContains(r *Result, a Assertion) error {
	if slices.Contains(r.Messages(), a.Message) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("entry %q", a.Message),
		Actual:   "not found in audit log",
		Log:      r.Log,
	}
}

// assertLogOrder checks the messages appear in order. Intervening entries
// are allowed.
func assertLogOrder(r *Result, a Assertion) error {
	msgs := r.Messages()
	pos := 0
	for _, want := range a.Messages {
		i := slices.Index(msgs[pos:], want)
		if i < 0 {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("entries in order: %q", a.Messages),
				Actual:   fmt.Sprintf("%q not found after entry %d", want, pos),
				Log:      r.Log,
			}
		}
		pos += i + 1
	}
	return nil
}

func assertScreenContains(r *Result, a Assertion) error {
	if !strings.Contains(r.Screen, a.Text) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("screen contains %q", a.Text),
			Actual:   "not found in console output",
		}
	}
	return nil
}

func accountIDs(accounts []ledger.Account) []uint16 {
	ids := make([]uint16, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
