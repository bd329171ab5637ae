package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/foxvault/internal/config"
	"github.com/roach88/foxvault/internal/ledger"
)

// Scenario is one scripted console session with expectations.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Config overrides the default settings. Paths are always temporary.
	Config *ConfigOverrides `yaml:"config,omitempty"`

	// Seed accounts are written after the administrator record.
	Seed []SeedAccount `yaml:"seed,omitempty"`

	// Input is the console input, one entry per line.
	Input []string `yaml:"input"`

	Assertions []Assertion `yaml:"assertions"`
}

// ConfigOverrides holds the settings a scenario may change.
type ConfigOverrides struct {
	MaxAttempts     int    `yaml:"max_attempts,omitempty"`
	NewAccountMaxID int    `yaml:"new_account_max_id,omitempty"`
	Currency        string `yaml:"currency,omitempty"`
}

// SeedAccount is an account present before the session starts.
type SeedAccount struct {
	ID      uint16  `yaml:"id"`
	Name    string  `yaml:"name"`
	PIN     uint16  `yaml:"pin"`
	Balance float64 `yaml:"balance"`
}

// Account converts the seed to a ledger record.
func (s SeedAccount) Account() ledger.Account {
	return ledger.Account{ID: s.ID, Name: ledger.NormalizeName(s.Name), PIN: s.PIN, Balance: s.Balance}
}

// Assertion validates the session outcome, the record file or the audit log.
type Assertion struct {
	Type string `yaml:"type"`

	// Reason is the expected exit reason (exit_reason).
	Reason string `yaml:"reason,omitempty"`

	// State is the expected last state (last_state).
	State string `yaml:"state,omitempty"`

	// ID selects the account (account, account_absent).
	ID uint16 `yaml:"id,omitempty"`

	// Expect holds field values, a subset of name, pin and balance (account).
	Expect map[string]any `yaml:"expect,omitempty"`

	// IDs is the exact id set of the file (account_ids).
	IDs []uint16 `yaml:"ids,omitempty"`

	// Message is an audit message without timestamp (log_contains).
	Message string `yaml:"message,omitempty"`

	// Messages is an ordered list of audit messages (log_order).
	Messages []string `yaml:"messages,omitempty"`

	// Text is a console output fragment (screen_contains).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertExitReason     = "exit_reason"
	AssertLastState      = "last_state"
	AssertAccount        = "account"
	AssertAccountAbsent  = "account_absent"
	AssertAccountIDs     = "account_ids"
	AssertLogContains    = "log_contains"
	AssertLogOrder       = "log_order"
	AssertScreenContains = "screen_contains"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Settings returns the scenario configuration with its file paths under dir.
func (s *Scenario) Settings(dir string) config.Config {
	cfg := config.Default()
	cfg.AccountsPath = filepath.Join(dir, "accounts.dat")
	cfg.LogPath = filepath.Join(dir, "transactions.log")
	if o := s.Config; o != nil {
		if o.MaxAttempts != 0 {
			cfg.MaxAttempts = o.MaxAttempts
		}
		if o.NewAccountMaxID != 0 {
			cfg.NewAccountMaxID = o.NewAccountMaxID
		}
		if o.Currency != "" {
			cfg.Currency = o.Currency
		}
	}
	return cfg
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	if s.Config != nil {
		if err := s.Settings(".").Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	seen := make(map[uint16]bool, len(s.Seed))
	for i, a := range s.Seed {
		if a.ID == 0 {
			return fmt.Errorf("seed[%d]: id is required", i)
		}
		if ledger.IsReserved(a.ID) {
			return fmt.Errorf("seed[%d]: id %d is reserved", i, a.ID)
		}
		if seen[a.ID] {
			return fmt.Errorf("seed[%d]: duplicate id %d", i, a.ID)
		}
		seen[a.ID] = true
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertExitReason:
		if a.Reason == "" {
			return fmt.Errorf("assertions[%d]: reason is required for exit_reason", index)
		}
	case AssertLastState:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for last_state", index)
		}
	case AssertAccount:
		if a.ID == 0 {
			return fmt.Errorf("assertions[%d]: id is required for account", index)
		}
		for k := range a.Expect {
			switch k {
			case "name", "pin", "balance":
			default:
				return fmt.Errorf("assertions[%d]: unknown account field %q", index, k)
			}
		}
	case AssertAccountAbsent:
		if a.ID == 0 {
			return fmt.Errorf("assertions[%d]: id is required for account_absent", index)
		}
	case AssertAccountIDs:
		if len(a.IDs) == 0 {
			return fmt.Errorf("assertions[%d]: ids list is required for account_ids", index)
		}
	case AssertLogContains:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for log_contains", index)
		}
	case AssertLogOrder:
		if len(a.Messages) == 0 {
			return fmt.Errorf("assertions[%d]: messages list is required for log_order", index)
		}
	case AssertScreenContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for screen_contains", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
