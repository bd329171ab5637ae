package app

import "github.com/roach88/foxvault/internal/console"

const (
	titleWelcome = "Welcome to FoxVault banking system"
	loginHint    = "ID:9999 - Admin    ID:9998 - New account"
)

var mainMenuItems = []string{
	"1. Show balance              ",
	"2. Deposit money             ",
	"3. Withdraw money            ",
	"4. Change PIN                ",
	"5. Logout                    ",
	"6. Exit program              ",
}

var adminMenuItems = []string{
	"1. List accounts             ",
	"2. Delete account            ",
	"3. Change PIN                ",
	"4. Logout                    ",
	"5. Exit program              ",
}

func renderWelcome(ui *console.Console) {
	ui.Box(titleWelcome)
	ui.Box("Login", " ", loginHint)
}

func renderMainMenu(ui *console.Console) {
	ui.Printf("\n")
	ui.Box(mainMenuItems...)
}

func renderAdminMenu(ui *console.Console) {
	ui.Printf("\n")
	ui.Box(adminMenuItems...)
}
