package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"deskbook/storage"
)

// currentAccount is the logged-in ledger account number, empty when logged
// out. Independent of the social session.
var currentAccount string

func init() {
	Register(&Command{
		Name:        "/newaccount",
		Description: "Create a ledger account (prompts for details)",
		Handler: func(args []string) bool {
			number, err := prompt("Account number (digits only)")
			if err != nil {
				return false
			}
			password, err := prompt("Password")
			if err != nil {
				return false
			}
			name, err := prompt("Full name")
			if err != nil {
				return false
			}
			category, err := prompt("Category (freelancer/full time/part time)")
			if err != nil {
				return false
			}
			a, err := finance.CreateAccount(number, password, name, category)
			if err != nil {
				reportStoreError("creating account", err)
				return false
			}
			fmt.Printf("Account %s created. Log in with /finlogin.\n", a.Number)
			return false
		},
	})

	Register(&Command{
		Name:        "/finlogin",
		Description: "Log in to the finance ledger",
		Handler: func(args []string) bool {
			number, err := prompt("Account number")
			if err != nil {
				return false
			}
			password, err := prompt("Password")
			if err != nil {
				return false
			}
			a, err := finance.Login(number, password)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return false
			}
			currentAccount = a.Number
			fmt.Printf("Welcome, %s! You are logged in.\n", a.Name)
			return false
		},
	})

	Register(&Command{
		Name:        "/finlogout",
		Description: "Log out of the finance ledger",
		Handler: func(args []string) bool {
			if currentAccount == "" {
				fmt.Println("Not logged in.")
				return false
			}
			currentAccount = ""
			fmt.Println("Logged out of the ledger.")
			return false
		},
	})

	Register(&Command{
		Name:        "/tx",
		Description: "Record a transaction: /tx <income|expense> <amount> [description]",
		Handler: func(args []string) bool {
			if currentAccount == "" {
				fmt.Println("Log in first with /finlogin.")
				return false
			}
			if len(args) < 2 {
				fmt.Println("Usage: /tx <income|expense> <amount> [description]")
				return false
			}
			t, err := finance.AddTransaction(currentAccount, args[0], args[1], strings.Join(args[2:], " "))
			if err != nil {
				reportStoreError("recording transaction", err)
				return false
			}
			fmt.Printf("Recorded %s of %s: %s\n", strings.ToLower(string(t.Kind)), money(t.Amount), t.Description)
			return false
		},
	})

	Register(&Command{
		Name:        "/report",
		Description: "Show the logged-in account's financial report",
		Handler: func(args []string) bool {
			if currentAccount == "" {
				fmt.Println("Log in first with /finlogin.")
				return false
			}
			report := finance.ReportFor(currentAccount)
			if report.Count == 0 {
				fmt.Println("No transactions recorded for this account yet.")
				fmt.Println("Current balance: $0.00")
				return false
			}
			fmt.Printf("Total income:    +%s\n", money(report.Income))
			fmt.Printf("Total expenses:  -%s\n", money(report.Expense))
			fmt.Printf("Current balance:  %s\n", money(report.Balance))
			fmt.Println("Transaction history:")
			for i, t := range finance.TransactionsFor(currentAccount) {
				sign := "+"
				if t.Kind == storage.KindExpense {
					sign = "-"
				}
				fmt.Printf("  %d. [%s] %s | %s%s | %s\n",
					i+1, t.Timestamp.Format("2006-01-02 15:04:05"), t.Kind, sign, money(t.Amount), t.Description)
			}
			return false
		},
	})

	Register(&Command{
		Name:        "/mydetails",
		Description: "Show the logged-in account's details",
		Handler: func(args []string) bool {
			if currentAccount == "" {
				fmt.Println("Log in first with /finlogin.")
				return false
			}
			a, err := finance.GetAccount(currentAccount)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return false
			}
			fmt.Printf("Account no: %s\nName: %s\nCategory: %s\n", a.Number, a.Name, a.Category)
			return false
		},
	})
}

// money renders a decimal amount as $1,234.56.
func money(d decimal.Decimal) string {
	f, _ := d.Float64()
	return "$" + humanize.CommafWithDigits(f, 2)
}
