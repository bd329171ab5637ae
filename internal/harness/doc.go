// Package harness runs end-to-end console scenarios against the state machine.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: deposit_withdraw
//	description: "Deposit then withdraw updates the balance and the log"
//	config:
//	  max_attempts: 3
//	seed:
//	  - { id: 1000, name: Alice, pin: 1111, balance: 0 }
//	input: ["1000", "1111", "2", "100", "6"]
//	assertions:
//	  - type: exit_reason
//	    reason: quit
//	  - type: account
//	    id: 1000
//	    expect: { balance: 100 }
//	  - type: log_order
//	    messages: ["ID:1000 - Deposit +100.00 CZK"]
//
// Seed accounts are appended after the administrator record. Input lines are
// fed to the console in order; when they run out the console reports closed
// input and the session ends the way a closed terminal would.
//
// # Assertion Types
//
//   - exit_reason: the Outcome reason ("quit", "lockout", "input closed")
//   - last_state: the state whose handler ran last
//   - account: a record exists and matches expect (name, pin, balance)
//   - account_absent: no record has id
//   - account_ids: the file holds exactly ids, in any order
//   - log_contains: some audit entry equals message
//   - log_order: the messages appear in the audit log in this order
//   - screen_contains: the console output contains text
//
// # Deterministic Testing
//
// Every scenario runs in a fresh temp directory with a
// testutil.DeterministicClock, so audit logs are reproducible and can be
// compared against golden files.
package harness
