package ledger

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Reserved account identifiers.
const (
	// AdminID is the administrator record. It is seeded on store creation
	// and must always exist.
	AdminID uint16 = 9999

	// NewAccountID is the login sentinel that routes to account creation.
	// It is never assigned to a stored record.
	NewAccountID uint16 = 9998
)

// AdminName and AdminPIN are the seeded administrator credentials.
const (
	AdminName        = "ADMIN"
	AdminPIN  uint16 = 9999
)

// Account is one holder's record.
type Account struct {
	ID      uint16  `json:"id"`
	Name    string  `json:"name"`
	PIN     uint16  `json:"-"`
	Balance float64 `json:"balance"`
}

// Admin returns the record synthesized when a new account file is created.
func Admin() Account {
	return Account{ID: AdminID, Name: AdminName, PIN: AdminPIN, Balance: 0}
}

// IsAdmin reports whether a is the administrator record.
func (a Account) IsAdmin() bool {
	return a.ID == AdminID
}

// IsReserved reports whether id may not be assigned to a new account.
func IsReserved(id uint16) bool {
	return id == AdminID || id == NewAccountID
}

// String renders the account without its PIN.
func (a Account) String() string {
	return fmt.Sprintf("ID:%d %s %.2f", a.ID, a.Name, a.Balance)
}

// NormalizeName prepares a display name for storage: trailing line
// terminators are dropped, the text is NFC-normalized, NUL bytes are removed,
// and the result is cut to MaxNameLen bytes on a rune boundary.
func NormalizeName(s string) string {
	s = strings.TrimRight(s, "\r\n")
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\x00", "")
	if len(s) <= MaxNameLen {
		return s
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
