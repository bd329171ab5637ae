package harness

import (
	"github.com/roach88/foxvault/internal/app"
	"github.com/roach88/foxvault/internal/ledger"
)

// LogEntry is one audit log line split into its parts.
type LogEntry struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	Outcome app.Outcome `json:"outcome"`

	// Screen is everything the console printed.
	Screen string `json:"-"`

	// Log holds the audit entries in file order. RawLog is the file content.
	Log    []LogEntry `json:"log"`
	RawLog []byte     `json:"-"`

	// Accounts is the record file content after shutdown.
	Accounts []ledger.Account `json:"accounts"`

	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failed assertion and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Messages returns the audit messages without timestamps.
func (r *Result) Messages() []string {
	out := make([]string, len(r.Log))
	for i, e := range r.Log {
		out[i] = e.Message
	}
	return out
}
