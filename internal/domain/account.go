package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account. It is fixed at account opening.
type AccountType string

const (
	AccountTypeChecking   AccountType = "Checking"
	AccountTypeSavings    AccountType = "Savings"
	AccountTypeCredit     AccountType = "Credit"
	AccountTypeInvestment AccountType = "Investment"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCredit, AccountTypeInvestment:
		return true
	}
	return false
}

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "Active"
	AccountStatusInactive AccountStatus = "Inactive"
	AccountStatusFrozen   AccountStatus = "Frozen"
)

// IsValid reports whether s is a known account status.
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusFrozen:
		return true
	}
	return false
}

// Account represents a customer account holding a balance.
type Account struct {
	ID               string
	OwnerID          string
	Name             string
	Number           string
	Type             AccountType
	Status           AccountStatus
	Currency         string
	Balance          decimal.Decimal
	AvailableBalance decimal.Decimal
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the account accepts debits and credits.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// AllowsNegativeBalance reports whether the store may hold a balance below zero.
// Only Credit accounts carry an owed amount, e.g. one opened with a negative balance.
func (a *Account) AllowsNegativeBalance() bool {
	return a.Type == AccountTypeCredit
}

// ValidateDebit checks that the available balance covers amount.
// Credit accounts are held to the same rule: no credit limit is modelled,
// so a transfer may never push any source account below zero.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.AvailableBalance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// CanApply reports whether adding delta keeps the non-negative invariant.
func (a *Account) CanApply(delta decimal.Decimal) bool {
	if a.AllowsNegativeBalance() {
		return true
	}
	return !a.Balance.Add(delta).IsNegative() && !a.AvailableBalance.Add(delta).IsNegative()
}

// Apply returns a copy of the account with delta applied to both balances
// and the version advanced.
func (a *Account) Apply(delta decimal.Decimal, at time.Time) *Account {
	next := *a
	next.Balance = a.Balance.Add(delta)
	next.AvailableBalance = a.AvailableBalance.Add(delta)
	next.Version = a.Version + 1
	next.UpdatedAt = at
	return &next
}

// Clone returns a shallow copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// MaskedNumber returns the account number with all but the last four characters masked.
func (a *Account) MaskedNumber() string {
	n := len(a.Number)
	if n <= 4 {
		return a.Number
	}
	return strings.Repeat("*", n-4) + a.Number[n-4:]
}
