package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType describes the balance effect of a ledger entry.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "Deposit"
	TransactionTypeWithdrawal TransactionType = "Withdrawal"
	TransactionTypeTransfer   TransactionType = "Transfer"
	TransactionTypePayment    TransactionType = "Payment"
	TransactionTypeFee        TransactionType = "Fee"
	TransactionTypeInterest   TransactionType = "Interest"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer,
		TransactionTypePayment, TransactionTypeFee, TransactionTypeInterest:
		return true
	}
	return false
}

// ExpenseTypes are the entry types counted as outgoing money in summaries.
var ExpenseTypes = []TransactionType{
	TransactionTypeWithdrawal,
	TransactionTypePayment,
	TransactionTypeFee,
}

// TransactionStatus is the processing state of a ledger entry.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusFailed    TransactionStatus = "Failed"
	TransactionStatusCancelled TransactionStatus = "Cancelled"
)

// IsValid reports whether s is a known transaction status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

// CanTransitionTo reports whether s may move to next.
// Pending is the only state that can change, and only into a terminal state.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	return s == TransactionStatusPending && next.IsTerminal()
}

// Transaction is an immutable ledger entry describing one account's balance effect.
// Only Status may change after the entry is written.
type Transaction struct {
	ID               string
	AccountID        string
	RelatedAccountID *string
	TransferID       string
	Type             TransactionType
	Amount           decimal.Decimal
	Status           TransactionStatus
	Description      string
	Category         string
	Timestamp        time.Time
	Seq              int64
}

// Clone returns a copy of the entry.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.RelatedAccountID != nil {
		related := *t.RelatedAccountID
		c.RelatedAccountID = &related
	}
	return &c
}

// DefaultCategory is used when an entry carries no category.
const DefaultCategory = "Uncategorized"

// TransactionFilter narrows a ledger listing. Nil fields are ignored.
type TransactionFilter struct {
	Type   *TransactionType
	Status *TransactionStatus
	From   *time.Time
	To     *time.Time
}

// Matches reports whether entry satisfies the filter.
func (f TransactionFilter) Matches(entry *Transaction) bool {
	if f.Type != nil && entry.Type != *f.Type {
		return false
	}
	if f.Status != nil && entry.Status != *f.Status {
		return false
	}
	if f.From != nil && entry.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && entry.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// Page selects a 1-based page of results.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of items skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TransactionPage is one page of a ledger listing, newest first.
type TransactionPage struct {
	Items []*Transaction
	Total int64
	Page  int
	Size  int
}

// TotalPages returns the number of pages for the listing.
func (p *TransactionPage) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
