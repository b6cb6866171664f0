package storage

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"deskbook/flatfile"
)

// Category is the closed set of employment categories.
type Category string

const (
	CategoryFreelancer Category = "freelancer"
	CategoryFullTime   Category = "full time"
	CategoryPartTime   Category = "part time"
)

// ValidCategories lists all valid category values.
var ValidCategories = []Category{CategoryFreelancer, CategoryFullTime, CategoryPartTime}

// ParseCategory validates a raw category value against the closed set.
// Input is lowercased first; the stored form is always lowercase.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range ValidCategories {
		if string(c) == s {
			return c, nil
		}
	}
	names := make([]string, len(ValidCategories))
	for i, c := range ValidCategories {
		names[i] = string(c)
	}
	return "", validationErrorf("category", "must be one of: %s", strings.Join(names, ", "))
}

// Kind is the closed set of transaction kinds.
type Kind string

const (
	KindIncome  Kind = "Income"
	KindExpense Kind = "Expense"
)

// ParseKind validates a raw transaction kind. Input is matched
// case-insensitively; the stored form is always capitalized.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return KindIncome, nil
	case "expense":
		return KindExpense, nil
	}
	return "", validationErrorf("type", "must be Income or Expense")
}

// Account is one ledger account: a digits-only account number, the one-way
// hex digest of its password, the holder's name, and an employment
// category. Account numbers are unique and compared exactly.
type Account struct {
	Number       string
	PasswordHash string
	Name         string
	Category     Category
}

// VerifyPassword reports whether the plaintext matches the stored digest.
func (a Account) VerifyPassword(plaintext string) bool {
	return a.PasswordHash == HashPassword(plaintext)
}

const (
	accountDelim = ":"
	ledgerDelim  = ","

	// accountFields: number:hash:name:category, split into at most 4 parts.
	accountFields = 4
	// ledgerFields: number,timestamp,kind,amount,description, at most 5.
	ledgerFields = 5
)

func (a Account) line() string {
	return strings.Join([]string{a.Number, a.PasswordHash, a.Name, string(a.Category)}, accountDelim)
}

// Transaction is one immutable ledger entry. Once written it is never
// edited, which is what makes append-only persistence safe for it.
type Transaction struct {
	Account     string
	Timestamp   time.Time
	Kind        Kind
	Amount      decimal.Decimal
	Description string
}

func (t Transaction) line() string {
	return strings.Join([]string{
		t.Account,
		formatTimestamp(t.Timestamp),
		string(t.Kind),
		t.Amount.String(),
		t.Description,
	}, ledgerDelim)
}

// FinanceStore keeps accounts and the transaction ledger in sync with
// their backing files. Accounts use full-rewrite persistence; the ledger
// is append-only because transactions are immutable.
type FinanceStore struct {
	accountsPath string
	ledgerPath   string
	accounts     []Account
	ledger       []Transaction
}

// OpenFinance loads the accounts and ledger files. Transactions with an
// unknown kind or a negative amount are dropped with a warning rather than
// failing the load.
func OpenFinance(accountsPath, ledgerPath string) (*FinanceStore, []flatfile.Warning, error) {
	s := &FinanceStore{accountsPath: accountsPath, ledgerPath: ledgerPath}

	accountLines, err := flatfile.ReadLines(accountsPath)
	if err != nil {
		return nil, nil, err
	}
	var warnings []flatfile.Warning
	for _, ln := range accountLines {
		parts := strings.SplitN(ln.Text, accountDelim, accountFields)
		if len(parts) != accountFields {
			warnings = append(warnings, flatfile.Warningf(ln, "expected %d colon-separated values, got %d", accountFields, len(parts)))
			continue
		}
		category, err := ParseCategory(parts[3])
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "%v", err))
			continue
		}
		if parts[0] == "" || parts[1] == "" || parts[2] == "" {
			warnings = append(warnings, flatfile.Warningf(ln, "empty account field"))
			continue
		}
		s.accounts = append(s.accounts, Account{
			Number:       parts[0],
			PasswordHash: parts[1],
			Name:         parts[2],
			Category:     category,
		})
	}

	ledgerLines, err := flatfile.ReadLines(ledgerPath)
	if err != nil {
		return nil, nil, err
	}
	for _, ln := range ledgerLines {
		parts := strings.SplitN(ln.Text, ledgerDelim, ledgerFields)
		if len(parts) != ledgerFields {
			warnings = append(warnings, flatfile.Warningf(ln, "expected %d comma-separated values, got %d", ledgerFields, len(parts)))
			continue
		}
		ts, err := parseTimestamp(parts[1])
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "invalid timestamp %q", parts[1]))
			continue
		}
		kind, err := ParseKind(parts[2])
		if err != nil || string(kind) != parts[2] {
			warnings = append(warnings, flatfile.Warningf(ln, "invalid transaction kind %q", parts[2]))
			continue
		}
		amount, err := decimal.NewFromString(parts[3])
		if err != nil {
			warnings = append(warnings, flatfile.Warningf(ln, "invalid amount %q", parts[3]))
			continue
		}
		if amount.IsNegative() {
			warnings = append(warnings, flatfile.Warningf(ln, "negative amount %s", amount))
			continue
		}
		s.ledger = append(s.ledger, Transaction{
			Account:     parts[0],
			Timestamp:   ts,
			Kind:        kind,
			Amount:      amount,
			Description: parts[4],
		})
	}
	return s, warnings, nil
}

func (s *FinanceStore) saveAccounts() error {
	lines := make([]string, len(s.accounts))
	for i, a := range s.accounts {
		lines[i] = a.line()
	}
	return flatfile.Rewrite(s.accountsPath, lines)
}

// findAccount matches account numbers exactly, like usernames and unlike
// contact names.
func (s *FinanceStore) findAccount(number string) int {
	for i, a := range s.accounts {
		if a.Number == number {
			return i
		}
	}
	return -1
}

// CreateAccount registers a new account. The number must be digits-only
// and unique; the category must be in the closed set.
func (s *FinanceStore) CreateAccount(number, password, name, category string) (Account, error) {
	number, err := requireDigits("account number", number)
	if err != nil {
		return Account{}, err
	}
	if _, err = requireNonEmpty("password", password); err != nil {
		return Account{}, err
	}
	if name, err = requireNonEmpty("name", name); err != nil {
		return Account{}, err
	}
	if name, err = requireNoDelimiter("name", name, accountDelim); err != nil {
		return Account{}, err
	}
	cat, err := ParseCategory(category)
	if err != nil {
		return Account{}, err
	}
	if s.findAccount(number) >= 0 {
		return Account{}, fmt.Errorf("account number %s %w", number, ErrDuplicate)
	}

	a := Account{Number: number, PasswordHash: HashPassword(password), Name: name, Category: cat}
	s.accounts = append(s.accounts, a)
	if err := s.saveAccounts(); err != nil {
		return a, err
	}
	return a, nil
}

// Login verifies credentials and returns the matching account.
func (s *FinanceStore) Login(number, password string) (Account, error) {
	i := s.findAccount(strings.TrimSpace(number))
	if i < 0 || !s.accounts[i].VerifyPassword(password) {
		return Account{}, ErrBadCredentials
	}
	return s.accounts[i], nil
}

// GetAccount returns the account with the given number.
func (s *FinanceStore) GetAccount(number string) (Account, error) {
	i := s.findAccount(number)
	if i < 0 {
		return Account{}, fmt.Errorf("account %s: %w", number, ErrNotFound)
	}
	return s.accounts[i], nil
}

// AddTransaction records a ledger entry for the account and appends it to
// the ledger file. Entry requires a strictly positive amount; the kind and
// description go through the usual validators. The description sits in the
// max-split tail so it may contain commas.
func (s *FinanceStore) AddTransaction(account, kind, rawAmount, description string) (Transaction, error) {
	if s.findAccount(account) < 0 {
		return Transaction{}, fmt.Errorf("account %s: %w", account, ErrNotFound)
	}
	k, err := ParseKind(kind)
	if err != nil {
		return Transaction{}, err
	}
	rawAmount = strings.TrimSpace(rawAmount)
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return Transaction{}, validationErrorf("amount", "must be a number (e.g. 100.50)")
	}
	if !amount.IsPositive() {
		return Transaction{}, validationErrorf("amount", "must be a positive number")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = "N/A"
	}

	t := Transaction{
		Account:     account,
		Timestamp:   time.Now(),
		Kind:        k,
		Amount:      amount,
		Description: description,
	}
	s.ledger = append(s.ledger, t)
	if err := flatfile.Append(s.ledgerPath, t.line()); err != nil {
		return t, err
	}
	return t, nil
}

// TransactionsFor returns the account's transactions sorted by timestamp.
func (s *FinanceStore) TransactionsFor(account string) []Transaction {
	var out []Transaction
	for _, t := range s.ledger {
		if t.Account == account {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Report summarizes an account's ledger.
type Report struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Count   int
}

// ReportFor totals the account's transactions.
func (s *FinanceStore) ReportFor(account string) Report {
	r := Report{Income: decimal.Zero, Expense: decimal.Zero}
	for _, t := range s.ledger {
		if t.Account != account {
			continue
		}
		r.Count++
		switch t.Kind {
		case KindIncome:
			r.Income = r.Income.Add(t.Amount)
		case KindExpense:
			r.Expense = r.Expense.Add(t.Amount)
		}
	}
	r.Balance = r.Income.Sub(r.Expense)
	return r
}
