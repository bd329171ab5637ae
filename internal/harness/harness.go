package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roach88/foxvault/internal/app"
	"github.com/roach88/foxvault/internal/console"
	"github.com/roach88/foxvault/internal/ledger"
	"github.com/roach88/foxvault/internal/store"
	"github.com/roach88/foxvault/internal/testutil"
)

// Harness executes scenarios in isolated directories.
type Harness struct {
	dir   string
	clock *testutil.DeterministicClock
	log   zerolog.Logger
}

// Run executes a scenario in a fresh temp directory and evaluates its
// assertions. The returned error is reserved for harness failures and fatal
// session errors; failed assertions are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "foxvault-scenario-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario dir: %w", err)
	}
	defer os.RemoveAll(dir)

	h := &Harness{
		dir:   dir,
		clock: testutil.NewDeterministicClock(),
		log:   zerolog.Nop(),
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg := scenario.Settings(h.dir)

	if err := h.seed(cfg.AccountsPath, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed accounts: %w", err)
	}

	var screen bytes.Buffer
	input := strings.NewReader(joinInput(scenario.Input))
	ui := console.New(input, &screen)
	defer ui.Close()

	m := app.New(cfg, ui, app.WithClock(h.clock.Now), app.WithLogger(h.log))
	outcome, err := m.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("session failed: %w", err)
	}

	result := NewResult()
	result.Outcome = outcome
	result.Screen = screen.String()

	if result.RawLog, err = os.ReadFile(cfg.LogPath); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	if result.Log, err = parseLog(result.RawLog); err != nil {
		return nil, err
	}
	if result.Accounts, err = readAccounts(cfg.AccountsPath); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// seed creates the account file when the scenario has seed accounts.
// Opening it writes the administrator record first.
func (h *Harness) seed(path string, scenario *Scenario) error {
	if len(scenario.Seed) == 0 {
		return nil
	}
	st, err := store.Open(path, store.WithLogger(h.log))
	if err != nil {
		return err
	}
	for _, a := range scenario.Seed {
		if err := st.Append(a.Account()); err != nil {
			st.Close()
			return err
		}
	}
	return st.Close()
}

func joinInput(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func readAccounts(path string) ([]ledger.Account, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen accounts: %w", err)
	}
	defer st.Close()
	return st.ScanAll()
}

// parseLog splits "[timestamp] message" lines.
func parseLog(raw []byte) ([]LogEntry, error) {
	var entries []LogEntry
	for i, line := range strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n") {
		if line == "" {
			continue
		}
		ts, msg, ok := strings.Cut(line, "] ")
		if !ok || !strings.HasPrefix(ts, "[") {
			return nil, fmt.Errorf("audit log line %d malformed: %q", i+1, line)
		}
		entries = append(entries, LogEntry{Time: ts[1:], Message: msg})
	}
	return entries, nil
}
