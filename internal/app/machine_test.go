package app

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/foxvault/internal/console"
	"github.com/roach88/foxvault/internal/ledger"
	"github.com/roach88/foxvault/internal/store"
)

func TestRun_FreshStoreClosedInput(t *testing.T) {
	cfg := testConfig(t)

	res := runSession(t, cfg)

	require.NoError(t, res.err)
	assert.Equal(t, ReasonInputClosed, res.outcome.Reason)
	assert.Equal(t, Login, res.outcome.LastState)
	assert.Equal(t, []ledger.Account{ledger.Admin()}, res.accounts)
	assert.Equal(t, []string{"Application closed without login"}, res.log)
	assert.Contains(t, res.screen, titleWelcome)
}

func TestRun_UserExitFromMenu(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	res := runSession(t, cfg, "1000", "1111", "6")

	require.NoError(t, res.err)
	assert.Equal(t, ReasonQuit, res.outcome.Reason)
	assert.Equal(t, MainMenu, res.outcome.LastState)
	assert.Equal(t, uint16(1000), res.outcome.AccountID)
	assert.Equal(t, []string{
		"ID:1000 - Successful login",
		"ID:1000 - Application closed",
	}, res.log)
}

func TestRun_AdminLogin(t *testing.T) {
	cfg := testConfig(t)

	res := runSession(t, cfg, "9999", "9999", "5")

	require.NoError(t, res.err)
	assert.Equal(t, AdminMenu, res.outcome.LastState)
	assert.Equal(t, "ID:9999 ADMIN - successful login", res.log[0])
	assert.Contains(t, res.screen, "1. List accounts")
}

func TestRun_LoginNotFoundThenSuccess(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	res := runSession(t, cfg, "4321", "1111", "1000", "1111", "6")

	assert.Equal(t, ReasonQuit, res.outcome.Reason)
	assert.Contains(t, res.screen, "ID not found. Remaining attempts: 2")
	assert.Equal(t, "ID:4321 - ID not found", res.log[0])
	assert.Equal(t, "ID:1000 - Successful login", res.log[1])
}

func TestRun_Lockout(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	res := runSession(t, cfg, "1000", "2222", "1000", "3333", "1000", "4444")

	require.NoError(t, res.err)
	assert.Equal(t, ReasonLockout, res.outcome.Reason)
	assert.Zero(t, res.outcome.AccountID)
	assert.Equal(t, []string{
		"ID:1000 - Wrong PIN",
		"ID:1000 - Wrong PIN",
		"ID:1000 - Wrong PIN",
		"Login failed 3 times - exiting",
		"Application closed without login",
	}, res.log)
	assert.Contains(t, res.screen, "Remaining attempts: 0")
}

func TestRun_LockoutRespectsConfiguredAttempts(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxAttempts = 1
	seed(t, cfg, alice)

	res := runSession(t, cfg, "1000", "2222")

	assert.Equal(t, ReasonLockout, res.outcome.Reason)
}

func TestRun_SentinelAfterFailedAttempts(t *testing.T) {
	cfg := testConfig(t)

	res := runSession(t, cfg,
		"1234", "1111",
		"1234", "1111",
		"9998", "1500", "Eve", "5555", "5555",
		"1500", "5555", "6",
	)

	assert.Equal(t, ReasonQuit, res.outcome.Reason)
	eve, ok := findAccount(res.accounts, 1500)
	require.True(t, ok)
	assert.Equal(t, ledger.Account{ID: 1500, Name: "Eve", PIN: 5555}, eve)
}

func TestRun_CreateAccountRejectsExistingAndReservedIDs(t *testing.T) {
	cfg := testConfig(t)
	cfg.NewAccountMaxID = 9997
	seed(t, cfg, alice)

	res := runSession(t, cfg,
		"9998",
		"9999", "1000", "2000",
		"Bob", "2222", "2223", "2222", "2222",
	)

	assert.Contains(t, res.screen, "ID must be a four-digit integer from 1000 to 9997")
	assert.Contains(t, res.screen, "Entered ID already exists. Enter another.")
	assert.Contains(t, res.screen, "PINs do not match.")
	bob, ok := findAccount(res.accounts, 2000)
	require.True(t, ok)
	assert.Equal(t, uint16(2222), bob.PIN)
	assert.Zero(t, bob.Balance)
	assert.Contains(t, res.log, "ID:2000 - New account created")
}

func TestRun_CreateAccountReservedWithinBound(t *testing.T) {
	cfg := testConfig(t)
	// Unvalidated so the reserved ids are inside the accepted range.
	cfg.NewAccountMaxID = 9999

	res := runSession(t, cfg, "9998", "9998", "3000", "Z", "1234", "1234")

	assert.Contains(t, res.screen, "ID 9998 is reserved. Enter another.")
	_, ok := findAccount(res.accounts, 3000)
	assert.True(t, ok)
}

func TestRun_CustomBoundAccountCanLogInAndBeDeleted(t *testing.T) {
	cfg := testConfig(t)
	cfg.NewAccountMaxID = 5000
	require.NoError(t, cfg.Validate())

	res := runSession(t, cfg,
		"9998", "5001", "4500", "Dan", "4444", "4444",
		"4500", "4444", "5",
		"9999", "9999", "2", "4500", "5",
	)

	assert.Equal(t, ReasonQuit, res.outcome.Reason)
	assert.Contains(t, res.screen, "ID must be a four-digit integer from 1000 to 5000")
	assert.Contains(t, res.log, "ID:4500 - New account created")
	assert.Contains(t, res.log, "ID:4500 - Successful login")
	assert.Contains(t, res.log, "ID:9999 ADMIN - Account with ID: 4500 successfully deleted")
	_, ok := findAccount(res.accounts, 4500)
	assert.False(t, ok)
}

func TestRun_LongNameTruncated(t *testing.T) {
	cfg := testConfig(t)
	long := strings.Repeat("A", 70)

	res := runSession(t, cfg, "9998", "1000", long, "1111", "1111")

	a, ok := findAccount(res.accounts, 1000)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("A", ledger.MaxNameLen), a.Name)
}

func TestRun_BalanceScreen(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, ledger.Account{ID: 1000, Name: "Alice", PIN: 1111, Balance: 12.5})

	res := runSession(t, cfg, "1000", "1111", "1", "6")

	assert.Contains(t, res.screen, " Balance: 12.50 CZK\n Name: Alice\n ID: 1000\n")
	assert.Contains(t, res.log, "ID:1000 - Balance viewed")
}

func TestRun_WithdrawOverBalanceRejected(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, ledger.Account{ID: 1000, Name: "Alice", PIN: 1111, Balance: 30})
	before := readAccountFile(t, cfg)

	res := runSession(t, cfg, "1000", "1111", "3", "50", "6")

	assert.Contains(t, res.screen, "Not enough funds in the account!")
	assert.Contains(t, res.log, "ID:1000 - Failed withdraw attempt 50.00 CZK")
	a, _ := findAccount(res.accounts, 1000)
	assert.Equal(t, 30.0, a.Balance)
	assert.Equal(t, before, readAccountFile(t, cfg), "rejected withdraw must not rewrite the record")
}

func TestRun_DepositOverflowRejected(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, ledger.Account{ID: 1000, Name: "Alice", PIN: 1111, Balance: 1e308})

	res := runSession(t, cfg, "1000", "1111", "2", "1e308", "3", "1e308", "6")

	assert.Contains(t, res.screen, "Deposit would exceed the balance limit!")
	require.NotEmpty(t, res.log)
	assert.True(t, slices.ContainsFunc(res.log, func(l string) bool {
		return strings.HasPrefix(l, "ID:1000 - Failed deposit attempt ")
	}))
	a, _ := findAccount(res.accounts, 1000)
	assert.Zero(t, a.Balance, "the withdraw must see the finite balance left by the rejected deposit")
}

func TestRun_DepositWithdrawRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, ledger.Account{ID: 1000, Name: "Alice", PIN: 1111, Balance: 10})

	res := runSession(t, cfg, "1000", "1111", "2", "0.75", "3", "0.75", "1", "6")

	a, _ := findAccount(res.accounts, 1000)
	assert.Equal(t, 10.0, a.Balance)
	assert.Contains(t, res.screen, " Balance: 10.00 CZK")
}

func TestRun_SessionTracksBalanceAcrossOperations(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	// Withdrawing 60 after depositing 100 must be allowed: the session
	// snapshot was refreshed by the deposit.
	res := runSession(t, cfg, "1000", "1111", "2", "100", "3", "60", "6")

	a, _ := findAccount(res.accounts, 1000)
	assert.Equal(t, 40.0, a.Balance)
	assert.NotContains(t, res.screen, "Not enough funds")
}

func TestRun_ChangePINThenLoginWithNewPIN(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	res := runSession(t, cfg,
		"1000", "1111", "4",
		"1111", "2468", "2468",
		"5",
		"1000", "2468", "6",
	)

	assert.Equal(t, ReasonQuit, res.outcome.Reason)
	assert.Equal(t, MainMenu, res.outcome.LastState)
	a, _ := findAccount(res.accounts, 1000)
	assert.Equal(t, uint16(2468), a.PIN)
	assert.Contains(t, res.log, "ID:1000 - PIN successfully changed")
	assert.Contains(t, res.log, "ID:1000 - Successfully logged out")
}

func TestRun_ChangePINVerificationExhausted(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	res := runSession(t, cfg, "1000", "1111", "4", "2000", "3000", "4000", "6")

	a, _ := findAccount(res.accounts, 1000)
	assert.Equal(t, alice.PIN, a.PIN)
	assert.Equal(t, []string{
		"ID:1000 - Successful login",
		"ID:1000 - Wrong verification PIN",
		"ID:1000 - Wrong verification PIN",
		"ID:1000 - Wrong verification PIN",
		"ID:1000 - PIN verification failed",
		"ID:1000 - Application closed",
	}, res.log)
}

func TestRun_ChangePINConfirmationExhausted(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	res := runSession(t, cfg, "1000", "1111", "4", "1111",
		"2000", "2001", "3000", "3001", "4000", "4001", "6")

	a, _ := findAccount(res.accounts, 1000)
	assert.Equal(t, alice.PIN, a.PIN)
	assert.NotContains(t, res.log, "ID:1000 - PIN successfully changed")
	assert.Equal(t, MainMenu, res.outcome.LastState)
}

func TestRun_AdminChangePINReturnsToAdminMenu(t *testing.T) {
	cfg := testConfig(t)

	res := runSession(t, cfg, "9999", "9999", "3", "9999", "1234", "1234", "5")

	assert.Equal(t, AdminMenu, res.outcome.LastState)
	admin, _ := findAccount(res.accounts, ledger.AdminID)
	assert.Equal(t, uint16(1234), admin.PIN)
}

func TestRun_ListAccounts(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice, ledger.Account{ID: 1001, Name: "Bob", PIN: 2222, Balance: 3})

	res := runSession(t, cfg, "9999", "9999", "1", "5")

	assert.Contains(t, res.screen, " ID: 1000\n Name: Alice\n Balance: 0.00\n")
	assert.Contains(t, res.screen, " ID: 1001\n Name: Bob\n Balance: 3.00\n")
	assert.NotContains(t, res.screen, " ID: 9999\n")
	assert.Contains(t, res.log, "ID:9999 ADMIN - Listed all accounts")
}

func TestRun_ListAccountsEmpty(t *testing.T) {
	cfg := testConfig(t)

	res := runSession(t, cfg, "9999", "9999", "1", "5")

	assert.Contains(t, res.screen, "No user accounts created.")
}

func TestRun_DeleteAccountRefusesAdminAndUnknown(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	res := runSession(t, cfg, "9999", "9999", "2", "9999", "4321", "5555", "5")

	assert.Contains(t, res.screen, "The administrator account cannot be deleted.")
	assert.Contains(t, res.screen, "ID does not exist. Remaining attempts: 0")
	assert.Contains(t, res.log, "ID:9999 ADMIN - Account deletion failed.")
	assert.Len(t, res.accounts, 2)
}

func TestRun_DeleteAccountNoUsers(t *testing.T) {
	cfg := testConfig(t)

	res := runSession(t, cfg, "9999", "9999", "2", "5")

	assert.Equal(t, AdminMenu, res.outcome.LastState)
	assert.Contains(t, res.screen, "No user accounts created.")
	assert.NotContains(t, res.log, "ID:9999 ADMIN - Account deletion failed.")
	assert.Equal(t, []ledger.Account{ledger.Admin()}, res.accounts)
}

func TestRun_MenuReasksOutOfRangeChoice(t *testing.T) {
	cfg := testConfig(t)
	seed(t, cfg, alice)

	res := runSession(t, cfg, "1000", "1111", "8", "6")

	assert.Contains(t, res.screen, "Choice must be between 1 and 6. Choose again.")
	assert.Equal(t, ReasonQuit, res.outcome.Reason)
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := testConfig(t)
	ui := console.New(strings.NewReader(""), &bytes.Buffer{})
	defer ui.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := New(cfg, ui).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonInterrupted, out.Reason)
}

func TestRun_FatalWhenStoreCannotOpen(t *testing.T) {
	cfg := testConfig(t)
	cfg.AccountsPath = filepath.Join(t.TempDir(), "missing", "accounts.dat")
	ui := console.New(strings.NewReader(""), &bytes.Buffer{})
	defer ui.Close()

	out, err := New(cfg, ui).Run(context.Background())
	require.Error(t, err)
	assert.True(t, store.IsIOError(err))
	assert.Equal(t, ReasonFatal, out.Reason)
	assert.Equal(t, Init, out.LastState)
}

func TestRun_FatalWhenLogCannotOpen(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogPath = filepath.Join(t.TempDir(), "missing", "transactions.log")
	ui := console.New(strings.NewReader(""), &bytes.Buffer{})
	defer ui.Close()

	out, err := New(cfg, ui).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, ReasonFatal, out.Reason)
	assert.Contains(t, err.Error(), "open audit log")
}
